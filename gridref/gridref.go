// Package gridref formats and parses traditional Ordnance Survey grid
// reference strings such as "SU 387 147". A grid reference names the
// south-west corner of a square: the letter pair picks a 100 km square and
// the digit groups subdivide it, one power of ten per digit.
//
// Only plain letter-pair references are handled here. Map-sheet relative
// references ("176/224711") need the sheet catalog, which is a separate
// concern with its own dataset.
package gridref

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
)

// The 25 grid letters laid out from the south-west corner, row by row.
// I is not used.
const squareLetters = "VWXYZQRSTULMNOPFGHJKABCDE"

const (
	gridSize      = 5 // letters per side of a major square
	minorSquare   = 100000
	majorSquare   = gridSize * minorSquare
	eastingShift  = 2 * majorSquare // false origin sits inside square S
	northingShift = 1 * majorSquare
	maxGridSize   = gridSize * gridSize * minorSquare
)

var (
	// ErrFarFromGrid is returned by Format for points outside the 2500 km
	// letter lattice, where no letter pair exists.
	ErrFarFromGrid = errors.New("point is too far from the OSGB grid")
	// ErrBadForm is returned by Format for a form string that does not
	// match "S{1,2} E{1,5} N{1,5}" (spaces optional) or a named form.
	ErrBadForm = errors.New("unrecognised grid reference form")
	// ErrNoGridRef is returned by Parse when no grid reference can be read
	// from the input.
	ErrNoGridRef = errors.New("no grid reference in input")
)

var formPattern = regexp.MustCompile(`^S{1,2}( *)(E{1,5})( *)(N{1,5})$`)

// Format renders an (easting, northing) pair in metres as a grid reference.
//
// The form argument controls the output shape: "TRAD" is "SS EEE NNN",
// "GPS" is "SS EEEEE NNNNN", "SS" gives just the letter pair, and any
// pattern of S, E and N letters with optional spaces ("SSEENN",
// "SS EEEE NNNN", ...) selects the digit widths directly. Case does not
// matter. Coordinates are truncated, not rounded, as the OS system demands:
// the reference names the square containing the point.
func Format(easting, northing float64, form string) (string, error) {
	e := easting + eastingShift
	n := northing + northingShift

	if e < 0 || e >= maxGridSize || n < 0 || n >= maxGridSize {
		return "", fmt.Errorf("%w: (%g, %g)", ErrFarFromGrid, easting, northing)
	}

	majorIndex := int(e/majorSquare) + gridSize*int(n/majorSquare)
	e = math.Mod(e, majorSquare)
	n = math.Mod(n, majorSquare)
	minorIndex := int(e/minorSquare) + gridSize*int(n/minorSquare)
	sq := string(squareLetters[majorIndex]) + string(squareLetters[minorIndex])

	em := int(floorMod(easting, minorSquare))
	nm := int(floorMod(northing, minorSquare))

	ff := strings.ToUpper(form)
	switch ff {
	case "TRAD":
		ff = "SS EEE NNN"
	case "GPS":
		ff = "SS EEEEE NNNNN"
	case "SS":
		return sq, nil
	}

	m := formPattern.FindStringSubmatch(ff)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrBadForm, form)
	}
	spaceA, eSpec, spaceB, nSpec := m[1], m[2], m[3], m[4]

	em /= pow10(5 - len(eSpec))
	nm /= pow10(5 - len(nSpec))

	return fmt.Sprintf("%s%s%0*d%s%0*d", sq, spaceA, len(eSpec), em, spaceB, len(nSpec), nm), nil
}

// Parse reads a grid reference string and returns the (easting, northing)
// of its south-west corner in metres from the false origin.
//
// Accepted shapes: a bare letter pair ("TA"), a letter pair with one run of
// an even number of digits ("TA15", "TA1234567890"), or a letter pair with
// two space-separated digit groups of up to five digits each ("TA 123 678").
// Pseudo-references off the grid proper ("WE 950 950") parse fine and come
// back negative.
func Parse(s string) (easting, northing float64, err error) {
	trimmed := strings.TrimSpace(s)

	offsetE, offsetN, ok := squareOffsets(trimmed)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrNoGridRef, s)
	}
	rest := strings.TrimSpace(trimmed[2:])
	if rest == "" {
		return offsetE, offsetN, nil
	}

	e, n, ok := splitDigits(rest)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrNoGridRef, s)
	}
	return offsetE + e, offsetN + n, nil
}

// squareOffsets resolves a leading letter pair to the (easting, northing)
// of its south-west corner.
func squareOffsets(s string) (east, north float64, ok bool) {
	if len(s) < 2 {
		return 0, 0, false
	}
	a := strings.IndexByte(squareLetters, upperByte(s[0]))
	b := strings.IndexByte(squareLetters, upperByte(s[1]))
	if a < 0 || b < 0 {
		return 0, 0, false
	}

	majorY, majorX := a/gridSize, a%gridSize
	minorY, minorX := b/gridSize, b%gridSize

	east = float64(majorSquare*majorX - eastingShift + minorSquare*minorX)
	north = float64(majorSquare*majorY - northingShift + minorSquare*minorY)
	return east, north, true
}

// splitDigits turns the numeric part of a reference into metre offsets
// within the 100 km square.
func splitDigits(s string) (east, north float64, ok bool) {
	groups := digitGroups(s)

	var eDigits, nDigits string
	switch len(groups) {
	case 2:
		eDigits, nDigits = groups[0], groups[1]
	case 1:
		run := groups[0]
		if len(run)%2 != 0 || len(run) > 10 {
			return 0, 0, false
		}
		eDigits, nDigits = run[:len(run)/2], run[len(run)/2:]
	default:
		return 0, 0, false
	}

	figs := len(eDigits)
	if len(nDigits) > figs {
		figs = len(nDigits)
	}
	if figs > 5 {
		return 0, 0, false
	}

	e, err1 := atoiSafe(eDigits)
	n, err2 := atoiSafe(nDigits)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	scale := pow10(5 - figs)
	return float64(e * scale), float64(n * scale), true
}

var digitRun = regexp.MustCompile(`\d+`)

func digitGroups(s string) []string {
	return digitRun.FindAllString(s, -1)
}

func atoiSafe(s string) (int, error) {
	v := 0
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("not a digit: %q", s[i])
		}
		v = v*10 + int(s[i]-'0')
	}
	return v, nil
}

func upperByte(b byte) byte {
	if 'a' <= b && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

func pow10(n int) int {
	v := 1
	for ; n > 0; n-- {
		v *= 10
	}
	return v
}

func floorMod(x float64, m float64) float64 {
	r := math.Mod(x, m)
	if r < 0 {
		r += m
	}
	return r
}
