package osgrid

import (
	"fmt"
	"math"
)

// OSTN-independent datum shift between OSGB36 and WGS84: a 7-parameter
// Helmert similarity transform through geocentric cartesian coordinates.
// Good to a few metres over Great Britain, so it is only used where the
// correction grid has no coverage.
const (
	helmertTx = -446.448 // metres
	helmertTy = +125.157
	helmertTz = -542.060
	helmertS  = 20.4894e-6                     // scale offset from unity
	helmertRx = -0.1502 / 3600 * math.Pi / 180 // radians
	helmertRy = -0.2470 / 3600 * math.Pi / 180
	helmertRz = -0.8421 / 3600 * math.Pi / 180
)

// geodeticToCartesian converts latitude/longitude in degrees (at ellipsoid
// height h metres) to geocentric cartesian metres on the given ellipsoid.
func geodeticToCartesian(lat, lon, h float64, ell Ellipsoid) (x, y, z float64) {
	phi := lat * math.Pi / 180
	lam := lon * math.Pi / 180
	sp := math.Sin(phi)
	cp := math.Cos(phi)

	nu := ell.A / math.Sqrt(1-ell.E2*sp*sp)

	x = (nu + h) * cp * math.Cos(lam)
	y = (nu + h) * cp * math.Sin(lam)
	z = ((1-ell.E2)*nu + h) * sp
	return x, y, z
}

// cartesianToGeodetic converts geocentric cartesian metres to
// latitude/longitude in degrees and ellipsoid height in metres. Latitude is
// recovered by Bowring-style iteration, refined until successive values
// agree to 1e-12 radians (two or three rounds in practice).
func cartesianToGeodetic(x, y, z float64, ell Ellipsoid) (lat, lon, h float64, err error) {
	p := math.Hypot(x, y)
	lam := math.Atan2(y, x)
	phi := math.Atan2(z, p*(1-ell.E2))

	var nu float64
	converged := false
	for i := 0; i < maxIterations; i++ {
		sp := math.Sin(phi)
		nu = ell.A / math.Sqrt(1-ell.E2*sp*sp)
		next := math.Atan2(z+ell.E2*nu*sp, p)
		if math.Abs(next-phi) < 1e-12 {
			phi = next
			converged = true
			break
		}
		phi = next
	}
	if !converged {
		return 0, 0, 0, fmt.Errorf("geodetic latitude for (%g, %g, %g): %w", x, y, z, ErrNoConvergence)
	}

	return phi * 180 / math.Pi, lam * 180 / math.Pi, p/math.Cos(phi) - nu, nil
}

// helmertTransform applies the OSGB Helmert parameters in the WGS84→OSGB36
// sense for dir=+1 and the OSGB36→WGS84 sense for dir=-1. The rotations are
// small enough that the linearised matrix and the sign-flipped inverse are
// exact to well below a millimetre.
func helmertTransform(dir float64, xa, ya, za float64) (xb, yb, zb float64) {
	tx := dir * helmertTx
	ty := dir * helmertTy
	tz := dir * helmertTz
	s1 := dir*helmertS + 1
	rx := dir * helmertRx
	ry := dir * helmertRy
	rz := dir * helmertRz

	xb = tx + s1*xa - rz*ya + ry*za
	yb = ty + rz*xa + s1*ya - rx*za
	zb = tz - ry*xa + rx*ya + s1*za
	return xb, yb, zb
}

// shiftOSGB36ToWGS84 moves a geographic point from the OSGB36 datum to WGS84.
func shiftOSGB36ToWGS84(lat, lon float64) (float64, float64, error) {
	xa, ya, za := geodeticToCartesian(lat, lon, 0, ellipsoids[OSGB36])
	xb, yb, zb := helmertTransform(-1, xa, ya, za)
	outLat, outLon, _, err := cartesianToGeodetic(xb, yb, zb, ellipsoids[WGS84])
	return outLat, outLon, err
}

// shiftWGS84ToOSGB36 moves a geographic point from the WGS84 datum to OSGB36.
func shiftWGS84ToOSGB36(lat, lon float64) (float64, float64, error) {
	xa, ya, za := geodeticToCartesian(lat, lon, 0, ellipsoids[WGS84])
	xb, yb, zb := helmertTransform(+1, xa, ya, za)
	outLat, outLon, _, err := cartesianToGeodetic(xb, yb, zb, ellipsoids[OSGB36])
	return outLat, outLon, err
}
