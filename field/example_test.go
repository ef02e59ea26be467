package field_test

import (
	"fmt"

	"github.com/katalvlaran/convergecast/field"
)

// ExampleNbr shows one round of a device with two neighbors computing the
// maximum of everything it has heard so far.
func ExampleNbr() {
	prev := field.NewExports(map[field.Key]any{"max": 3.0})
	nbrs := map[field.DeviceID]field.Exports{
		2: field.NewExports(map[field.Key]any{"max": 8.0}),
		3: field.NewExports(map[field.Key]any{"max": 5.0}),
	}
	n := field.NewNode(1, 10, prev, nbrs)

	got := field.Nbr(n, "max", 4.0, func(f field.Field[float64]) float64 {
		return max(field.MaxHood(f, f.Self()), 4.0)
	})
	fmt.Println(got)
	// Output:
	// 8
}
