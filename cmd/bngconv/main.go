// bngconv converts between latitude/longitude and OSGB grid coordinates.
//
// Usage:
//
//	bngconv -ll 51.5,-2.1            # lat/lon -> easting/northing
//	bngconv -grid 393154,177900      # easting/northing -> lat/lon
//	bngconv -grid 393154,177900 -ref # also print the grid reference
//
// The OSTN correction dataset is located via -ostn, or the OSTN_DATA
// environment variable (a .env file is honoured). Without it, WGS84
// conversions fall back to the Helmert approximation.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/fmaitland/osgrid"
	"github.com/fmaitland/osgrid/gridref"
	"github.com/fmaitland/osgrid/ostn"
)

func main() {
	log.SetFlags(0)

	var (
		llArg    string
		gridArg  string
		model    string
		ostnPath string
		printRef bool
	)

	flag.StringVar(&llArg, "ll", "", "Latitude,longitude in decimal degrees")
	flag.StringVar(&gridArg, "grid", "", "Easting,northing in metres, or a grid reference like 'SU 387 147'")
	flag.StringVar(&model, "model", osgrid.WGS84, "Ellipsoid model: WGS84 or OSGB36")
	flag.StringVar(&ostnPath, "ostn", "", "Path to the OSTN dataset (default: $OSTN_DATA)")
	flag.BoolVar(&printRef, "ref", false, "Also print the traditional grid reference")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: bngconv (-ll LAT,LON | -grid E,N) [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Convert between latitude/longitude and OSGB grid coordinates.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if (llArg == "") == (gridArg == "") {
		flag.Usage()
		os.Exit(1)
	}

	// A .env file is optional; the process environment still applies.
	_ = godotenv.Load()
	if ostnPath == "" {
		ostnPath = os.Getenv("OSTN_DATA")
	}

	var grid *ostn.Grid
	if ostnPath != "" {
		var err error
		grid, err = ostn.Open(ostnPath)
		if err != nil {
			log.Fatal(err)
		}
	} else if model == osgrid.WGS84 {
		log.Println("note: no OSTN dataset; WGS84 results use the metre-level Helmert fallback")
	}

	conv := osgrid.New(grid)

	switch {
	case llArg != "":
		lat, lon, err := parsePair(llArg)
		if err != nil {
			log.Fatal(err)
		}
		e, n, prec, err := conv.ToGrid(lat, lon, model)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("easting  %.3f\nnorthing %.3f\nprecision %s\n", e, n, prec)
		if printRef {
			ref, err := gridref.Format(e, n, "GPS")
			if err != nil {
				log.Fatal(err)
			}
			fmt.Printf("gridref  %s\n", ref)
		}

	case gridArg != "":
		e, n, err := parsePair(gridArg)
		if err != nil {
			// Not a numeric pair; try it as a grid reference string.
			e, n, err = gridref.Parse(gridArg)
			if err != nil {
				log.Fatal(err)
			}
		}
		lat, lon, prec, err := conv.ToGeographic(e, n, model)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("latitude  %.7f\nlongitude %.7f\nprecision %s\n", lat, lon, prec)
	}
}

// parsePair reads "a,b" with optional spaces.
func parsePair(s string) (float64, float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected two comma-separated numbers, got %q", s)
	}
	a, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing %q: %w", parts[0], err)
	}
	b, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing %q: %w", parts[1], err)
	}
	return a, b, nil
}
