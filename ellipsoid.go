// Package osgrid converts between geodetic latitude/longitude and the
// Ordnance Survey national grid (easting/northing in metres), in both
// directions and for both the WGS84 and OSGB36 reference models.
//
// Conversions involving WGS84 use the OSTN correction grid (see the ostn
// package) for millimetre-level results where the grid has coverage, and a
// 7-parameter Helmert transformation accurate to a few metres everywhere
// else. OSGB36 conversions are pure transverse-Mercator projections and need
// no dataset at all.
package osgrid

import (
	"errors"
	"fmt"
)

// Supported ellipsoid model names.
const (
	WGS84  = "WGS84"
	OSGB36 = "OSGB36"
)

// ErrUnknownModel is returned when a model name is not one of the two
// supported ellipsoids.
var ErrUnknownModel = errors.New("unknown ellipsoid model")

// Ellipsoid holds the defining parameters of a reference ellipsoid.
// A and B are the semi-major and semi-minor axes in metres, F the inverse
// flattening, and E2 the first eccentricity squared.
type Ellipsoid struct {
	A  float64
	B  float64
	F  float64
	E2 float64
}

// ThirdFlattening returns n = (a-b)/(a+b), the series parameter used by the
// Redfearn meridional-arc expansion.
func (e Ellipsoid) ThirdFlattening() float64 {
	return (e.A - e.B) / (e.A + e.B)
}

var ellipsoids = map[string]Ellipsoid{
	WGS84: {
		A:  6378137.000,
		B:  6356752.31424518,
		F:  298.257223563,
		E2: 0.006694379990141316996137233540,
	},
	OSGB36: {
		A:  6377563.396,
		B:  6356256.909,
		F:  299.3249612665,
		E2: 0.0066705400741492318211148938735613129751683486352306,
	},
}

// EllipsoidFor looks up an ellipsoid model by name ("WGS84" or "OSGB36").
func EllipsoidFor(name string) (Ellipsoid, error) {
	e, ok := ellipsoids[name]
	if !ok {
		return Ellipsoid{}, fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}
	return e, nil
}
