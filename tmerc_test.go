package osgrid

import (
	"math"
	"testing"
)

// Reference values from Ordnance Survey worked examples and measured map
// points, all in the OSGB36 model so no correction grid is involved. The
// projected values are quoted to the millimetre.
var forwardRefPoints = []struct {
	name              string
	lat, lon          float64
	easting, northing float64
}{
	{
		// The true origin projects onto the false origin by definition.
		name: "true origin",
		lat:  49, lon: -2,
		easting: 400000.000, northing: -100000.000,
	},
	{
		name: "Cobham, SW corner of Explorer 161",
		lat:  51.3333333333, lon: -0.416666666667,
		easting: 510290.252, northing: 160605.816,
	},
	{
		name: "Glendessary, graticule intersection 57N 5 20W",
		lat:  57, lon: -320.0 / 60,
		easting: 197573.181, northing: 794792.843,
	},
}

func TestProjectOntoGrid_ReferencePoints(t *testing.T) {
	for _, ref := range forwardRefPoints {
		t.Run(ref.name, func(t *testing.T) {
			e, n := projectOntoGrid(ref.lat, ref.lon, ellipsoids[OSGB36])
			if d := math.Abs(e - ref.easting); d > 0.0015 {
				t.Errorf("easting: got %.4f, want %.3f (delta=%.4f)", e, ref.easting, d)
			}
			if d := math.Abs(n - ref.northing); d > 0.0015 {
				t.Errorf("northing: got %.4f, want %.3f (delta=%.4f)", n, ref.northing, d)
			}
		})
	}
}

// Map corner references quoted to metre-ish precision, reverse direction.
var reverseRefPoints = []struct {
	name              string
	easting, northing float64
	lat, lon          float64
}{
	{name: "Scorriton", easting: 269995, northing: 68361, lat: 50.5, lon: -3.83333333},
	{name: "Cranbourne Chase", easting: 400000, northing: 122350, lat: 51.0, lon: -2.0},
	{name: "Hoy", easting: 323223, northing: 1004000, lat: 58.9168, lon: -3.33333333},
	{name: "Glen Achcall", easting: 217380, northing: 896060, lat: 57.9167, lon: -5.08333333},
}

func TestUnprojectFromGrid_ReferencePoints(t *testing.T) {
	for _, ref := range reverseRefPoints {
		t.Run(ref.name, func(t *testing.T) {
			lat, lon, err := unprojectFromGrid(ref.easting, ref.northing, ellipsoids[OSGB36])
			if err != nil {
				t.Fatalf("unprojectFromGrid: %v", err)
			}
			// References are rounded survey points; allow ~10 m.
			if d := math.Abs(lat - ref.lat); d > 1e-4 {
				t.Errorf("lat: got %.7f, want ~%.5f (delta=%.7f)", lat, ref.lat, d)
			}
			if d := math.Abs(lon - ref.lon); d > 1e-4 {
				t.Errorf("lon: got %.7f, want ~%.5f (delta=%.7f)", lon, ref.lon, d)
			}
		})
	}
}

// Forward then reverse through the same ellipsoid must reproduce the input
// to well under a centimetre everywhere within (and some way beyond) the
// grid's useful envelope.
func TestProjectionRoundTrip(t *testing.T) {
	for _, name := range []string{OSGB36, WGS84} {
		ell := ellipsoids[name]
		t.Run(name, func(t *testing.T) {
			for lat := 49.5; lat <= 61.0; lat += 0.5 {
				for lon := -8.0; lon <= 2.0; lon += 0.5 {
					e, n := projectOntoGrid(lat, lon, ell)
					gotLat, gotLon, err := unprojectFromGrid(e, n, ell)
					if err != nil {
						t.Fatalf("(%.2f, %.2f): %v", lat, lon, err)
					}
					if math.Abs(gotLat-lat) > 1e-7 || math.Abs(gotLon-lon) > 1e-7 {
						t.Errorf("(%.2f, %.2f): round trip gave (%.9f, %.9f)",
							lat, lon, gotLat, gotLon)
					}
				}
			}
		})
	}
}

// The reverse projection's footpoint iteration must settle fast for any
// plausible grid coordinate, including far offshore and negative values.
func TestUnprojectExtremes(t *testing.T) {
	points := [][2]float64{
		{-157250, 186110}, // far west of the Scillies
		{94471, 773206},   // in the sea north-west of Coll
		{0, 0},            // false origin corner
		{700000, 1250000}, // NE corner of the nominal grid
	}
	for _, p := range points {
		if _, _, err := unprojectFromGrid(p[0], p[1], ellipsoids[OSGB36]); err != nil {
			t.Errorf("unprojectFromGrid(%v, %v): %v", p[0], p[1], err)
		}
	}
}
