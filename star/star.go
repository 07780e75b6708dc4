// Package star holds the Star structure used by the miner: a dense projection
// of the transaction table onto the rows containing a fixed item prefix, and
// the operations that build, prune, order and decompose it.
package star

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/willf/bitset"
)

var (
	ErrItemOutOfRange   = errors.New("item id out of range")
	ErrRowCountMismatch = errors.New("transaction count does not match row count")
	ErrInvalidDimension = errors.New("row and column counts must be positive")
)

// Star is the Star-neighborhood of Core. Rows (simplexes) are the
// transactions containing every item of Core, columns (vertexes) are the
// candidate items that may extend it.
//
// The matrix is stored row-major in a single bitset: bit r*NumVertex+c is set
// when row r contains column c.
type Star struct {
	connections *bitset.BitSet

	NumSimplex int
	NumVertex  int
	// Support[c] is the number of rows containing column c.
	Support []int
	// VertexName maps a column back to its original item id.
	VertexName []int
	// Core is the item prefix shared by every row, in the order it was fixed.
	Core []int
	// Count is the support of Core.
	Count int
}

func newStar(numSimplex, numVertex int) *Star {
	return &Star{
		connections: bitset.New(uint(numSimplex * numVertex)),
		NumSimplex:  numSimplex,
		NumVertex:   numVertex,
		Support:     make([]int, numVertex),
		VertexName:  make([]int, numVertex),
	}
}

// New builds the incidence table from numRows transactions over numColumns
// items. Every transaction lists the item ids it contains; an item listed
// twice in the same transaction is counted once.
func New(numRows, numColumns int, trns [][]int) (*Star, error) {
	if numRows <= 0 || numColumns <= 0 {
		return nil, errors.Wrapf(ErrInvalidDimension, "rows=%d columns=%d", numRows, numColumns)
	}
	if len(trns) != numRows {
		return nil, errors.Wrapf(ErrRowCountMismatch, "expected %d rows, got %d", numRows, len(trns))
	}

	s := newStar(numRows, numColumns)
	for i := range s.VertexName {
		s.VertexName[i] = i
	}
	for row, trn := range trns {
		for _, itm := range trn {
			if itm < 0 || itm >= numColumns {
				return nil, errors.Wrapf(ErrItemOutOfRange, "row %d: item %d not in [0,%d)", row, itm, numColumns)
			}
			if s.Connected(row, itm) {
				continue
			}
			s.set(row, itm)
			s.Support[itm]++
		}
	}
	return s, nil
}

func (s *Star) bit(row, col int) uint {
	return uint(row*s.NumVertex + col)
}

func (s *Star) set(row, col int) {
	s.connections.Set(s.bit(row, col))
}

// Connected reports whether row contains column col.
func (s *Star) Connected(row, col int) bool {
	return s.connections.Test(s.bit(row, col))
}

// Label renders Core as space separated item ids.
func (s *Star) Label() string {
	return JoinItems(s.Core)
}

// Prune keeps the columns whose support reaches threshold. Columns keep their
// relative order and every row is retained, even rows left empty. The
// receiver must not be used afterwards; when nothing is removed it is
// returned as is.
func (s *Star) Prune(threshold int) *Star {
	keep := make([]int, 0, s.NumVertex)
	for col, sup := range s.Support {
		if sup >= threshold {
			keep = append(keep, col)
		}
	}
	if len(keep) == s.NumVertex {
		return s
	}

	p := newStar(s.NumSimplex, len(keep))
	p.Core = s.Core
	p.Count = s.Count
	for c, col := range keep {
		p.Support[c] = s.Support[col]
		p.VertexName[c] = s.VertexName[col]
		for row := 0; row < s.NumSimplex; row++ {
			if s.Connected(row, col) {
				p.set(row, c)
			}
		}
	}
	return p
}

// JoinItems renders item ids separated by single spaces.
func JoinItems(items []int) string {
	parts := make([]string, len(items))
	for i, itm := range items {
		parts[i] = strconv.Itoa(itm)
	}
	return strings.Join(parts, " ")
}
