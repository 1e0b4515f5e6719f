// ostninfo inspects an OSTN correction-grid dataset file: band count,
// coverage extents, and optionally the interpolated shift at a point.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fmaitland/osgrid/ostn"
)

func main() {
	var (
		easting  float64
		northing float64
		sample   bool
	)
	flag.Float64Var(&easting, "e", 0, "Easting of a sample point in metres")
	flag.Float64Var(&northing, "n", 0, "Northing of a sample point in metres")
	flag.BoolVar(&sample, "sample", false, "Print the interpolated shift at (-e, -n)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ostninfo [flags] <ostn.data>\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	grid, err := ostn.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("File: %s\n", flag.Arg(0))
	fmt.Printf("Northing bands: %d (0 .. %d km)\n", grid.Rows(), grid.Rows()-1)

	// Walk the bands at 100 km steps to sketch the coverage envelope.
	fmt.Printf("\nCoverage sample (1 node per 100 km):\n")
	for n := 0; n < grid.Rows(); n += 100 {
		count := 0
		first, last := -1, -1
		for e := 0; e <= 700; e++ {
			if _, _, ok := grid.ShiftAt(float64(e)*1000, float64(n)*1000); ok {
				if first < 0 {
					first = e
				}
				last = e
				count++
			}
		}
		if count == 0 {
			fmt.Printf("  band %4d km: no coverage\n", n)
			continue
		}
		fmt.Printf("  band %4d km: %d nodes covered, eastings %d .. %d km\n", n, count, first, last)
	}

	if sample {
		se, sn, ok := grid.ShiftAt(easting, northing)
		if !ok {
			fmt.Printf("\nShift at (%.3f, %.3f): outside coverage\n", easting, northing)
			return
		}
		fmt.Printf("\nShift at (%.3f, %.3f): east %+.5f m, north %+.5f m\n", easting, northing, se, sn)
	}
}
