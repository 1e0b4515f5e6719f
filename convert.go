package osgrid

import (
	"math"

	"github.com/fmaitland/osgrid/ostn"
)

// Precision reports which conversion path produced a result, and therefore
// how much the caller should trust it.
type Precision int

const (
	// PrecisionMillimetre means the result came through the correction grid
	// (or needed no datum change at all) and is good to about a millimetre.
	PrecisionMillimetre Precision = iota
	// PrecisionMetre means the point lies outside correction-grid coverage
	// and the result came from the Helmert approximation; it should not be
	// trusted beyond a few metres.
	PrecisionMetre
)

func (p Precision) String() string {
	if p == PrecisionMillimetre {
		return "millimetre"
	}
	return "metre"
}

// Fixed-point search bounds for inverting the correction grid when going
// from grid coordinates to WGS84. The 20-round cap is accepted as converged
// rather than failed: points near the coverage boundary may settle slowly,
// and reference outputs depend on taking whatever the 20th round produced.
const (
	shiftSearchRounds    = 20
	shiftSearchTolerance = 0.0001 // metres
)

// Converter converts between geographic and grid coordinates. The zero
// value is not useful; construct one with New.
//
// A Converter is safe for concurrent use: the projection math is pure and
// the grid's decode cache locks internally.
type Converter struct {
	grid *ostn.Grid
}

// New returns a Converter backed by the given correction grid. A nil grid
// is allowed: every WGS84 conversion then takes the metre-precision Helmert
// path, and OSGB36 conversions are unaffected.
func New(grid *ostn.Grid) *Converter {
	return &Converter{grid: grid}
}

// ToGeographic converts a grid (easting, northing) in metres to latitude and
// longitude in decimal degrees on the named model ("WGS84" or "OSGB36").
//
// For OSGB36 this is a pure reverse projection and always millimetre
// precision. For WGS84 the correction grid is inverted by fixed-point
// search where it has coverage; otherwise the Helmert fallback applies and
// the returned precision is PrecisionMetre.
func (c *Converter) ToGeographic(easting, northing float64, model string) (lat, lon float64, prec Precision, err error) {
	if _, err = EllipsoidFor(model); err != nil {
		return 0, 0, 0, err
	}

	osLat, osLon, err := unprojectFromGrid(easting, northing, ellipsoids[OSGB36])
	if err != nil {
		return 0, 0, 0, err
	}
	if model == OSGB36 {
		return osLat, osLon, PrecisionMillimetre, nil
	}

	// Seek the pseudo-WGS84 grid point (x, y) whose shifted image is the
	// input: x = easting - shift(x, y), found by fixed-point iteration. Each
	// round re-reads the shift at the current estimate and rebuilds the
	// estimate from the original input.
	if se, sn, ok := c.grid.ShiftAt(easting, northing); ok {
		x := easting - se
		y := northing - sn
		lastE, lastN := se, sn
		covered := true
		for i := 0; i < shiftSearchRounds; i++ {
			se, sn, ok = c.grid.ShiftAt(x, y)
			if !ok {
				// Shifted off the edge of coverage.
				covered = false
				break
			}
			x = easting - se
			y = northing - sn
			if math.Abs(se-lastE) < shiftSearchTolerance && math.Abs(sn-lastN) < shiftSearchTolerance {
				break
			}
			lastE, lastN = se, sn
		}
		if covered {
			lat, lon, err = unprojectFromGrid(x, y, ellipsoids[WGS84])
			if err != nil {
				return 0, 0, 0, err
			}
			return lat, lon, PrecisionMillimetre, nil
		}
	}

	lat, lon, err = shiftOSGB36ToWGS84(osLat, osLon)
	if err != nil {
		return 0, 0, 0, err
	}
	return lat, lon, PrecisionMetre, nil
}

// ToGrid converts latitude and longitude in decimal degrees on the named
// model ("WGS84" or "OSGB36") to a grid (easting, northing) in metres.
//
// OSGB36 input needs no correction by definition; the projection itself is
// the answer. WGS84 input is corrected through the grid where covered;
// outside coverage the point is Helmert-shifted onto OSGB36 and reprojected,
// and the returned precision is PrecisionMetre.
func (c *Converter) ToGrid(lat, lon float64, model string) (easting, northing float64, prec Precision, err error) {
	ell, err := EllipsoidFor(model)
	if err != nil {
		return 0, 0, 0, err
	}

	easting, northing = projectOntoGrid(lat, lon, ell)
	if model == OSGB36 {
		return easting, northing, PrecisionMillimetre, nil
	}

	if se, sn, ok := c.grid.ShiftAt(easting, northing); ok {
		return easting + se, northing + sn, PrecisionMillimetre, nil
	}

	osLat, osLon, err := shiftWGS84ToOSGB36(lat, lon)
	if err != nil {
		return 0, 0, 0, err
	}
	easting, northing = projectOntoGrid(osLat, osLon, ellipsoids[OSGB36])
	return easting, northing, PrecisionMetre, nil
}
