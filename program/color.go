// SPDX-License-Identifier: MIT

package program

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Black marks devices without a path to the source.
var Black = color.NRGBA{A: 0xff}

// HSVA converts hue (degrees), saturation, value and alpha (in [0,1]) to a
// color. Hues wrap around 360.
func HSVA(h, s, v, a float64) color.NRGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	r, g, b := colorful.Hsv(h, clamp01(s), clamp01(v)).Clamped().RGB255()

	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(clamp01(a) * 0xff))}
}

// DistanceColor encodes hops against the radius; unreachable devices are
// Black.
func DistanceColor(hops, radius int, reachable bool) color.NRGBA {
	if !reachable {
		return Black
	}
	return HSVA(360*float64(hops)/float64(max(radius, 1)), 1, 1, 1)
}

// CollectionColor encodes a collected value v against the ideal d: hues from
// red to purple below d, fading purple above it.
func CollectionColor(d, v float64) color.NRGBA {
	if v < d {
		if v <= 1 || d <= 1 {
			return HSVA(0, 1, 1, 1)
		}
		return HSVA(300*math.Log2(v)/math.Log2(d), 1, 1, 1)
	}
	if v <= 0 {
		return HSVA(300, 1, 1, 1)
	}
	return HSVA(300, 1, d/v, 1)
}

// Hex renders c as #rrggbb.
func Hex(c color.NRGBA) string {
	return colorful.Color{R: float64(c.R) / 0xff, G: float64(c.G) / 0xff, B: float64(c.B) / 0xff}.Hex()
}

func clamp01(x float64) float64 {
	return math.Min(1, math.Max(0, x))
}
