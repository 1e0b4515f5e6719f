// Package ostn decodes the OSTN correction-grid dataset: empirically
// surveyed (east, north) shift vectors on a 1 km lattice that correct the
// OSGB36-based transverse-Mercator projection to match WGS84 positions.
//
// The dataset is an opaque byte blob supplied by the caller; where it comes
// from (bundled file, network fetch) is not this package's concern. One
// record per 1 km northing band, records separated by '\n'. A record starts
// with a three-ASCII-digit count of absent leading columns (coverage starts
// partway across the bounding box, saving space), followed by one packed
// six-byte entry per surveyed column: two big-endian-ish three-byte triplets,
// east shift then north shift. A triplet (a,b,c) decodes to the integer
// (a<<10)+(b<<5)+c; subtracting 50736 and scaling by 1/1000 gives the offset
// in metres from the fixed baselines (+86 m east, -82 m north). The raw
// value 50736 itself is the sentinel for "no data at this node".
package ostn

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"sync"
)

// Baseline shifts the packed offsets are relative to, in metres.
const (
	baselineEast  = 86.0
	baselineNorth = -82.0
)

// nodeKey identifies a 1 km grid node by its integer kilometre indices.
type nodeKey struct {
	east  int
	north int
}

// nodePair holds the decoded shifts at a node and at its eastern neighbour,
// which the record format packs together in one six-byte-aligned access.
type nodePair struct {
	east0, north0 float64 // shift at (east, north)
	east1, north1 float64 // shift at (east+1, north)
}

// Grid is an immutable OSTN dataset with a lazy per-node decode cache.
// A nil *Grid is valid and reports no coverage anywhere.
//
// The cache is the only mutable state; it is guarded by a mutex so a Grid
// may be shared freely between goroutines. Entries are never evicted: the
// lattice is bounded (about 700x1250 nodes) and decoded pairs are tiny.
type Grid struct {
	rows [][]byte

	mu    sync.Mutex
	cache map[nodeKey]*nodePair // nil value records a decoded miss
}

// New builds a Grid over the given dataset blob. The blob is retained, not
// copied, and must not be modified afterwards.
func New(data []byte) *Grid {
	return &Grid{
		rows:  bytes.Split(data, []byte{'\n'}),
		cache: make(map[nodeKey]*nodePair),
	}
}

// Open is a convenience that reads a dataset file and builds a Grid from it.
func Open(path string) (*Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OSTN data: %w", err)
	}
	return New(data), nil
}

// Rows returns the number of 1 km northing bands in the dataset.
func (g *Grid) Rows() int {
	if g == nil {
		return 0
	}
	return len(g.rows)
}

// pairAt returns the decoded shifts at node (east, north) and its eastern
// neighbour, or nil if either node is outside coverage. Results, including
// misses, are memoized: repeated lookups never touch the record bytes again.
func (g *Grid) pairAt(east, north int) *nodePair {
	if north < 0 || north >= len(g.rows) {
		return nil
	}

	key := nodeKey{east: east, north: north}
	g.mu.Lock()
	p, seen := g.cache[key]
	g.mu.Unlock()
	if seen {
		return p
	}

	p = decodePair(g.rows[north], east)

	g.mu.Lock()
	g.cache[key] = p
	g.mu.Unlock()
	return p
}

// decodePair random-accesses one six-byte entry pair within a record.
// Only the requested columns are decoded, never the whole row.
func decodePair(row []byte, east int) *nodePair {
	if len(row) < 3 {
		return nil
	}
	skip, err := strconv.Atoi(string(row[:3]))
	if err != nil || east < skip {
		return nil
	}

	idx := 3 + 6*(east-skip)
	if idx+12 > len(row) {
		return nil
	}

	var shifts [4]float64
	for i := range shifts {
		o := idx + 3*i
		raw := int(row[o])<<10 + int(row[o+1])<<5 + int(row[o+2]) - 50736
		if raw == 0 {
			return nil // sentinel: node not surveyed
		}
		shifts[i] = float64(raw) / 1000
	}

	return &nodePair{
		east0:  baselineEast + shifts[0],
		north0: baselineNorth + shifts[1],
		east1:  baselineEast + shifts[2],
		north1: baselineNorth + shifts[3],
	}
}
