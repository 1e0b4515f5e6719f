package osgrid

import (
	"errors"
	"fmt"
	"math"
)

// Defining constants of the national grid. The grid itself is independent of
// which ellipsoid is projected onto it, so both models share these.
const (
	originLat = 49 * math.Pi / 180 // latitude of true origin
	originLon = -2 * math.Pi / 180 // longitude of true origin (central meridian)
	originE   = 400000.0           // false easting of true origin
	originN   = -100000.0          // false northing of true origin
	gridScale = 0.9996012717       // scale factor on the central meridian
)

// ErrNoConvergence is returned when an iterative step of the reverse
// projection or the datum shift fails to settle within its defensive
// iteration bound. It never occurs for coordinates anywhere near Great
// Britain; seeing it means the input (or the dataset) is broken.
var ErrNoConvergence = errors.New("projection did not converge")

// maxIterations bounds the fixed-point loops that converge in a handful of
// rounds for any in-range input.
const maxIterations = 100

// meridionalArc returns the scaled arc length of the meridian between the
// grid origin latitude and phi, for an ellipsoid with semi-minor axis b and
// third flattening n. This is the Redfearn closed series, good to well under
// a millimetre over the length of Great Britain.
func meridionalArc(b, n, phi float64) float64 {
	pSum := phi + originLat
	pDiff := phi - originLat
	return b * gridScale * ((1+n*(1+1.25*n*(1+n)))*pDiff -
		3*n*(1+n*(1+0.875*n))*math.Sin(pDiff)*math.Cos(pSum) +
		1.875*n*n*(1+n)*math.Sin(2*pDiff)*math.Cos(2*pSum) -
		35.0/24.0*n*n*n*math.Sin(3*pDiff)*math.Cos(3*pSum))
}

// projectOntoGrid converts latitude/longitude in degrees on the given
// ellipsoid to grid easting/northing in metres. Transverse-Mercator forward
// series with terms up to the 6th power of the longitude difference.
func projectOntoGrid(lat, lon float64, ell Ellipsoid) (easting, northing float64) {
	n := ell.ThirdFlattening()
	af := ell.A * gridScale

	phi := lat * math.Pi / 180
	lam := lon * math.Pi / 180

	cp := math.Cos(phi)
	sp := math.Sin(phi)
	tp := sp / cp // cos(phi) cannot be zero anywhere near GB
	tp2 := tp * tp
	tp4 := tp2 * tp2

	splat := 1 - ell.E2*sp*sp
	sqrtsplat := math.Sqrt(splat)
	nu := af / sqrtsplat
	rho := af * (1 - ell.E2) / (splat * sqrtsplat)
	eta2 := nu/rho - 1

	m := meridionalArc(ell.B, n, phi)

	cp3 := cp * cp * cp
	cp5 := cp3 * cp * cp

	i := m + originN
	ii := nu / 2 * sp * cp
	iii := nu / 24 * sp * cp3 * (5 - tp2 + 9*eta2)
	iiia := nu / 720 * sp * cp5 * (61 - 58*tp2 + tp4)

	iv := nu * cp
	v := nu / 6 * cp3 * (nu/rho - tp2)
	vi := nu / 120 * cp5 * (5 - 18*tp2 + tp4 + 14*eta2 - 58*tp2*eta2)

	dl := lam - originLon
	dl2 := dl * dl

	northing = i + ii*dl2 + iii*dl2*dl2 + iiia*dl2*dl2*dl2
	easting = originE + iv*dl + v*dl*dl2 + vi*dl*dl2*dl2
	return easting, northing
}

// unprojectFromGrid converts grid easting/northing in metres to
// latitude/longitude in degrees on the given ellipsoid.
//
// The footpoint latitude is found by fixed-point iteration on the
// meridional-arc series (the series has no closed-form inverse); it settles
// to a hundredth of a millimetre in three or four rounds for any point
// within continental range. The remaining terms are closed form, up to the
// 7th power of the easting offset.
func unprojectFromGrid(easting, northing float64, ell Ellipsoid) (lat, lon float64, err error) {
	n := ell.ThirdFlattening()
	af := ell.A * gridScale

	dn := northing - originN
	de := easting - originE

	phi := originLat + dn/af
	converged := false
	for i := 0; i < maxIterations; i++ {
		m := meridionalArc(ell.B, n, phi)
		if math.Abs(dn-m) < 0.00001 { // one hundredth of a millimetre
			converged = true
			break
		}
		phi += (dn - m) / af
	}
	if !converged {
		return 0, 0, fmt.Errorf("footpoint latitude for (%g, %g): %w", easting, northing, ErrNoConvergence)
	}

	cp := math.Cos(phi)
	sp := math.Sin(phi)
	tp := sp / cp
	tp2 := tp * tp
	tp4 := tp2 * tp2
	tp6 := tp4 * tp2

	splat := 1 - ell.E2*sp*sp
	sqrtsplat := math.Sqrt(splat)
	nu := af / sqrtsplat
	rho := af * (1 - ell.E2) / (splat * sqrtsplat)
	eta2 := nu/rho - 1

	nu3 := nu * nu * nu
	nu5 := nu3 * nu * nu
	nu7 := nu5 * nu * nu

	vii := tp / (2 * rho * nu)
	viii := tp / (24 * rho * nu3) * (5 + 3*tp2 + eta2 - 9*tp2*eta2)
	ix := tp / (720 * rho * nu5) * (61 + 90*tp2 + 45*tp4)

	secp := 1 / cp

	x := secp / nu
	xi := secp / (6 * nu3) * (nu/rho + 2*tp2)
	xii := secp / (120 * nu5) * (5 + 28*tp2 + 24*tp4)
	xiia := secp / (5040 * nu7) * (61 + 662*tp2 + 1320*tp4 + 720*tp6)

	de2 := de * de

	phi = phi - vii*de2 + viii*de2*de2 - ix*de2*de2*de2
	lam := originLon + x*de - xi*de*de2 + xii*de*de2*de2 - xiia*de*de2*de2*de2

	return phi * 180 / math.Pi, lam * 180 / math.Pi, nil
}
