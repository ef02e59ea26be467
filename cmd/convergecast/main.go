// SPDX-License-Identifier: MIT

// Command convergecast simulates adaptive Bellman-Ford trees toward a
// migrating source and compares naive with monotonically filtered
// collection over them.
//
//	convergecast run --devices 400 --speed 1
//	convergecast batch --seeds 10 --parallel 8
package main

func main() {
	Execute()
}
