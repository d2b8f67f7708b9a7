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

// partitionSorter establishes the evaluation order of a partition per
// the window's ORDER BY keys. Relative order of rows that tie on all
// keys is unspecified.
type partitionSorter struct {
	rows     partition
	ordering tree.ColumnOrdering
}

// partitionSorter implements sort.Interface.
func (n *partitionSorter) Len() int           { return len(n.rows) }
func (n *partitionSorter) Swap(i, j int)      { n.rows[i], n.rows[j] = n.rows[j], n.rows[i] }
func (n *partitionSorter) Less(i, j int) bool { return n.Compare(i, j) < 0 }

// partitionSorter implements the peerGroupChecker interface.
func (n *partitionSorter) InSameGroup(i, j int) bool { return n.Compare(i, j) == 0 }

func (n *partitionSorter) Compare(i, j int) int {
	return compareRows(n.rows[i].row, n.rows[j].row, n.ordering)
}

// compareRows compares two rows key by key, honoring each key's
// direction and NULL placement.
func compareRows(ra, rb tree.Datums, ordering tree.ColumnOrdering) int {
	for _, c := range ordering {
		da, db := ra[c.ColIdx], rb[c.ColIdx]
		aNull, bNull := da == tree.DNull, db == tree.DNull
		if aNull || bNull {
			switch {
			case aNull && bNull:
				continue
			case c.NullsAreFirst() == aNull:
				return -1
			default:
				return 1
			}
		}
		cmp := da.Compare(db)
		if c.Direction == tree.Descending {
			cmp = -cmp
		}
		if cmp != 0 {
			return cmp
		}
	}
	return 0
}

// peerGroupChecker can check if a pair of row indexes within an ordered
// partition are in the same peer group.
type peerGroupChecker interface {
	InSameGroup(i, j int) bool
}

// allPeers implements peerGroupChecker for windows without ORDER BY:
// every row of the partition is a peer of every other.
type allPeers struct{}

func (allPeers) InSameGroup(i, j int) bool { return true }

// peerHelper is the peer group segmentation of one ordered partition:
// maximal contiguous runs of rows equal on all order keys.
type peerHelper struct {
	// starts[g] is the ordered position of peer group g's first row; a
	// trailing sentinel holds the partition size.
	starts  []int
	groupOf []int
}

func makePeerHelper(n int, checker peerGroupChecker) peerHelper {
	h := peerHelper{groupOf: make([]int, n)}
	for i := 0; i < n; i++ {
		if i == 0 || !checker.InSameGroup(i-1, i) {
			h.starts = append(h.starts, i)
		}
		h.groupOf[i] = len(h.starts) - 1
	}
	h.starts = append(h.starts, n)
	return h
}

// groupCount returns the number of peer groups in the partition.
func (h peerHelper) groupCount() int { return len(h.starts) - 1 }

// group returns the peer group of the row at ordered position i.
func (h peerHelper) group(i int) int { return h.groupOf[i] }

// groupStart returns the ordered position of group g's first row.
func (h peerHelper) groupStart(g int) int { return h.starts[g] }

// groupEnd returns one past the ordered position of group g's last row.
func (h peerHelper) groupEnd(g int) int { return h.starts[g+1] }

// orderPartition sorts the partition per ordering and returns its peer
// group segmentation. With no ordering keys the input order is kept and
// the whole partition forms one peer group.
func orderPartition(p partition, ordering tree.ColumnOrdering) peerHelper {
	if len(ordering) == 0 {
		return makePeerHelper(len(p), allPeers{})
	}
	sorter := &partitionSorter{rows: p, ordering: ordering}
	sort.Sort(sorter)
	return makePeerHelper(len(p), sorter)
}
