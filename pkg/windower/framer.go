// Copyright 2026 The Windrow Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package windower

import (
	"sort"

	"github.com/windrowdb/windrow/pkg/tree"
)

// windowFrameRun contains the runtime state of one partition's
// evaluation pass: the ordered rows, their peer group segmentation, the
// frame specification, and a cursor over ordered positions. Everything
// here is scoped to the pass and discarded afterwards.
type windowFrameRun struct {
	rows     partition
	ordering tree.ColumnOrdering
	peers    peerHelper
	frame    *tree.WindowFrame

	// rowIdx is the cursor: the ordered position of the row being
	// evaluated.
	rowIdx int
}

func (wfr *windowFrameRun) partitionSize() int { return len(wfr.rows) }

// peerGroup returns the peer group of the current row.
func (wfr *windowFrameRun) peerGroup() int { return wfr.peers.group(wfr.rowIdx) }

// firstInPeerGroup returns whether the current row is the first of its
// peer group.
func (wfr *windowFrameRun) firstInPeerGroup() bool {
	return wfr.peers.groupStart(wfr.peerGroup()) == wfr.rowIdx
}

// rank returns 1 plus the number of rows strictly preceding the current
// row's peer group.
func (wfr *windowFrameRun) rank() int {
	return wfr.peers.groupStart(wfr.peerGroup()) + 1
}

// defaultFrameSize returns the number of rows preceding or peer with the
// current row, i.e. the size of the default RANGE frame.
func (wfr *windowFrameRun) defaultFrameSize() int {
	return wfr.peers.groupEnd(wfr.peerGroup())
}

// argDatum returns the value of column col at ordered position i.
func (wfr *windowFrameRun) argDatum(i, col int) tree.Datum {
	return wfr.rows[i].row[col]
}

// frameBounds resolves the current row's frame to half-open ordered
// positions [start, end). A frame that contains no rows comes back with
// start == end.
func (wfr *windowFrameRun) frameBounds() (start, end int, err error) {
	start, err = wfr.frameStartIdx()
	if err != nil {
		return 0, 0, err
	}
	end, err = wfr.frameEndIdx()
	if err != nil {
		return 0, 0, err
	}
	if end < start {
		end = start
	}
	return start, end, nil
}

func (wfr *windowFrameRun) frameStartIdx() (int, error) {
	n := wfr.partitionSize()
	bound := wfr.frame.Bounds.Start
	if wfr.frame.Mode == tree.ROWS {
		switch bound.BoundType {
		case tree.UnboundedPreceding:
			return 0, nil
		case tree.OffsetPreceding:
			return clamp(wfr.rowIdx-int(tree.MustBeDInt(bound.Offset)), 0, n), nil
		case tree.CurrentRow:
			return wfr.rowIdx, nil
		case tree.OffsetFollowing:
			return clamp(wfr.rowIdx+int(tree.MustBeDInt(bound.Offset)), 0, n), nil
		}
		panic("invalid frame start bound " + bound.BoundType.String())
	}

	switch bound.BoundType {
	case tree.UnboundedPreceding:
		return 0, nil
	case tree.CurrentRow:
		return wfr.peers.groupStart(wfr.peerGroup()), nil
	case tree.OffsetPreceding, tree.OffsetFollowing:
		target, err := wfr.shiftedKey(bound)
		if err != nil {
			return 0, err
		}
		if target == nil {
			// NULL order key: the offset frame degrades to the peer group.
			return wfr.peers.groupStart(wfr.peerGroup()), nil
		}
		// First row at or past the target in partition order.
		return sort.Search(n, func(i int) bool {
			return wfr.orderedKeyCompare(wfr.keyAt(i), target) >= 0
		}), nil
	}
	panic("invalid frame start bound " + bound.BoundType.String())
}

func (wfr *windowFrameRun) frameEndIdx() (int, error) {
	n := wfr.partitionSize()
	bound := wfr.frame.Bounds.End
	if wfr.frame.Mode == tree.ROWS {
		switch bound.BoundType {
		case tree.OffsetPreceding:
			return clamp(wfr.rowIdx-int(tree.MustBeDInt(bound.Offset))+1, 0, n), nil
		case tree.CurrentRow:
			return wfr.rowIdx + 1, nil
		case tree.OffsetFollowing:
			return clamp(wfr.rowIdx+int(tree.MustBeDInt(bound.Offset))+1, 0, n), nil
		case tree.UnboundedFollowing:
			return n, nil
		}
		panic("invalid frame end bound " + bound.BoundType.String())
	}

	switch bound.BoundType {
	case tree.CurrentRow:
		return wfr.peers.groupEnd(wfr.peerGroup()), nil
	case tree.OffsetPreceding, tree.OffsetFollowing:
		target, err := wfr.shiftedKey(bound)
		if err != nil {
			return 0, err
		}
		if target == nil {
			return wfr.peers.groupEnd(wfr.peerGroup()), nil
		}
		// One past the last row at or before the target in partition order.
		return sort.Search(n, func(i int) bool {
			return wfr.orderedKeyCompare(wfr.keyAt(i), target) > 0
		}), nil
	case tree.UnboundedFollowing:
		return n, nil
	}
	panic("invalid frame end bound " + bound.BoundType.String())
}

// keyAt returns the single RANGE order key at ordered position i.
func (wfr *windowFrameRun) keyAt(i int) tree.Datum {
	return wfr.rows[i].row[wfr.ordering[0].ColIdx]
}

// shiftedKey computes the value-domain search target for a RANGE offset
// bound: the current row's order key shifted by the bound's offset
// towards the bound's side of the partition order. A nil result with a
// nil error means the current key is NULL.
func (wfr *windowFrameRun) shiftedKey(bound tree.WindowFrameBound) (tree.Datum, error) {
	cur := wfr.keyAt(wfr.rowIdx)
	if cur == tree.DNull {
		return nil, nil
	}
	preceding := bound.BoundType == tree.OffsetPreceding
	if wfr.ordering[0].Direction == tree.Descending {
		preceding = !preceding
	}
	var target tree.Datum
	var err error
	if preceding {
		target, err = tree.SubOffset(cur, bound.Offset)
	} else {
		target, err = tree.AddOffset(cur, bound.Offset)
	}
	if err != nil {
		// Offset/key incompatibilities are caught by validation; anything
		// surfacing here is still a specification problem, not a data one.
		return nil, markConfigError(err)
	}
	return target, nil
}

// orderedKeyCompare compares two order-key values in partition order:
// direction and NULL placement applied, so it agrees with the sort the
// orderer produced.
func (wfr *windowFrameRun) orderedKeyCompare(a, b tree.Datum) int {
	c := wfr.ordering[0]
	aNull, bNull := a == tree.DNull, b == tree.DNull
	if aNull || bNull {
		switch {
		case aNull && bNull:
			return 0
		case c.NullsAreFirst() == aNull:
			return -1
		default:
			return 1
		}
	}
	cmp := a.Compare(b)
	if c.Direction == tree.Descending {
		cmp = -cmp
	}
	return cmp
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
