package ostn

// ShiftAt bilinearly interpolates the correction shifts at an arbitrary
// (easting, northing) in metres, returning the east and north shift in
// metres and whether the point is covered.
//
// The point is uncovered — ok is false — when the easting or northing is
// negative, when the northing lies beyond the dataset's last band, or when
// any corner of the enclosing 1 km cell is unsurveyed. This is the only
// coverage test in the system; callers never consult geometry directly.
func (g *Grid) ShiftAt(easting, northing float64) (east, north float64, ok bool) {
	if g == nil || easting < 0 || northing < 0 {
		return 0, 0, false
	}

	eIdx := int(easting / 1000)
	nIdx := int(northing / 1000)
	if nIdx >= len(g.rows) {
		return 0, 0, false
	}

	lo := g.pairAt(eIdx, nIdx)
	if lo == nil {
		return 0, 0, false
	}
	hi := g.pairAt(eIdx, nIdx+1)
	if hi == nil {
		return 0, 0, false
	}

	// Fractional position within the cell.
	t := easting/1000 - float64(eIdx)
	u := northing/1000 - float64(nIdx)

	f0 := (1 - t) * (1 - u)
	f1 := t * (1 - u)
	f2 := (1 - t) * u
	f3 := t * u

	east = f0*lo.east0 + f1*lo.east1 + f2*hi.east0 + f3*hi.east1
	north = f0*lo.north0 + f1*lo.north1 + f2*hi.north0 + f3*hi.north1
	return east, north, true
}
