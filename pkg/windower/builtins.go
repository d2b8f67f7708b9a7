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
	"github.com/windrowdb/windrow/pkg/tree"
)

// windowFunc computes one output value per ordered row of a partition.
// Implementations may carry state across rows of a single partition
// (compute is called at ordered positions 0..N-1 in turn), so one
// instance serves exactly one partition.
type windowFunc interface {
	compute(wfr *windowFrameRun) (tree.Datum, error)
}

var _ windowFunc = &aggregateWindowFunc{}
var _ windowFunc = &rowNumberWindow{}
var _ windowFunc = &rankWindow{}
var _ windowFunc = &denseRankWindow{}
var _ windowFunc = &percentRankWindow{}
var _ windowFunc = &cumulativeDistWindow{}
var _ windowFunc = &ntileWindow{}
var _ windowFunc = &leadLagWindow{}
var _ windowFunc = &firstValueWindow{}
var _ windowFunc = &lastValueWindow{}
var _ windowFunc = &nthValueWindow{}

// makeWindowFunc constructs the evaluator for one partition of a pass.
// The switch is exhaustive over the closed WindowFuncKind set.
func makeWindowFunc(spec tree.WindowFuncSpec) windowFunc {
	switch spec.Kind {
	case tree.WindowSum, tree.WindowAvg, tree.WindowMin, tree.WindowMax,
		tree.WindowCount, tree.WindowCountRows:
		return &aggregateWindowFunc{kind: spec.Kind, argIdx: spec.ArgIdx}
	case tree.WindowRowNumber:
		return &rowNumberWindow{}
	case tree.WindowRank:
		return &rankWindow{}
	case tree.WindowDenseRank:
		return &denseRankWindow{}
	case tree.WindowPercentRank:
		return &percentRankWindow{}
	case tree.WindowCumeDist:
		return &cumulativeDistWindow{}
	case tree.WindowNtile:
		return &ntileWindow{nbuckets: int(spec.N)}
	case tree.WindowLag:
		return newLeadLagWindow(false /* forward */, spec)
	case tree.WindowLead:
		return newLeadLagWindow(true /* forward */, spec)
	case tree.WindowFirstValue:
		return &firstValueWindow{argIdx: spec.ArgIdx}
	case tree.WindowLastValue:
		return &lastValueWindow{argIdx: spec.ArgIdx}
	case tree.WindowNthValue:
		return &nthValueWindow{argIdx: spec.ArgIdx, nth: int(spec.N)}
	}
	panic("unknown window function kind " + spec.Kind.String())
}

// aggregateWindowFunc folds an aggregateImpl over the current row's
// resolved frame. The result is cached against the frame bounds it was
// computed over, so peers sharing a frame fold only once.
type aggregateWindowFunc struct {
	kind   tree.WindowFuncKind
	argIdx int

	peerRes            tree.Datum
	peerStart, peerEnd int
	computedOnce       bool
}

func (w *aggregateWindowFunc) compute(wfr *windowFrameRun) (tree.Datum, error) {
	start, end, err := wfr.frameBounds()
	if err != nil {
		return nil, err
	}
	if w.computedOnce && start == w.peerStart && end == w.peerEnd {
		return w.peerRes, nil
	}

	agg := newAggregateImpl(w.kind)
	for i := start; i < end; i++ {
		var arg tree.Datum = tree.DNull
		if w.argIdx != tree.NoColumnIdx {
			arg = wfr.argDatum(i, w.argIdx)
		}
		if err := agg.add(arg); err != nil {
			return nil, err
		}
	}
	res, err := agg.result()
	if err != nil {
		return nil, err
	}
	w.peerRes = res
	w.peerStart, w.peerEnd = start, end
	w.computedOnce = true
	return res, nil
}

// rowNumberWindow numbers rows within the partition from 1 in evaluation
// order. The order among peers is whatever the orderer left.
type rowNumberWindow struct{}

func (rowNumberWindow) compute(wfr *windowFrameRun) (tree.Datum, error) {
	return tree.DInt(wfr.rowIdx + 1), nil
}

// rankWindow computes the rank of the current row with gaps: peers share
// the row number of their first peer.
type rankWindow struct {
	peerRes tree.Datum
}

func (w *rankWindow) compute(wfr *windowFrameRun) (tree.Datum, error) {
	if wfr.firstInPeerGroup() {
		w.peerRes = tree.DInt(wfr.rank())
	}
	return w.peerRes, nil
}

// denseRankWindow computes the rank of the current row without gaps: it
// counts peer groups.
type denseRankWindow struct {
	denseRank int
	peerRes   tree.Datum
}

func (w *denseRankWindow) compute(wfr *windowFrameRun) (tree.Datum, error) {
	if wfr.firstInPeerGroup() {
		w.denseRank++
		w.peerRes = tree.DInt(w.denseRank)
	}
	return w.peerRes, nil
}

// percentRankWindow computes (rank - 1) / (partition size - 1), and 0
// for a single-row partition.
type percentRankWindow struct {
	peerRes tree.Datum
}

func (w *percentRankWindow) compute(wfr *windowFrameRun) (tree.Datum, error) {
	if wfr.partitionSize() <= 1 {
		return tree.DFloat(0), nil
	}
	if wfr.firstInPeerGroup() {
		w.peerRes = tree.DFloat(wfr.rank()-1) / tree.DFloat(wfr.partitionSize()-1)
	}
	return w.peerRes, nil
}

// cumulativeDistWindow computes (rows preceding or peer with the current
// row) / (partition size).
type cumulativeDistWindow struct {
	peerRes tree.Datum
}

func (w *cumulativeDistWindow) compute(wfr *windowFrameRun) (tree.Datum, error) {
	if wfr.firstInPeerGroup() {
		w.peerRes = tree.DFloat(wfr.defaultFrameSize()) / tree.DFloat(wfr.partitionSize())
	}
	return w.peerRes, nil
}

// ntileWindow deals the ordered partition into nbuckets buckets as
// evenly as possible, earlier buckets absorbing the remainder, and
// returns the 1-based bucket index.
type ntileWindow struct {
	nbuckets int

	ntile          int // current bucket
	curBucketCount int // rows dealt into the current bucket
	boundary       int // rows the current bucket should hold
	remainder      int // buckets still owed an extra row
}

func (w *ntileWindow) compute(wfr *windowFrameRun) (tree.Datum, error) {
	if w.ntile == 0 {
		// First row of the partition: size the buckets.
		total := wfr.partitionSize()
		w.ntile = 1
		w.curBucketCount = 0
		w.boundary = total / w.nbuckets
		if w.boundary <= 0 {
			w.boundary = 1
		} else {
			w.remainder = total % w.nbuckets
			if w.remainder != 0 {
				w.boundary++
			}
		}
	}

	w.curBucketCount++
	if w.boundary < w.curBucketCount {
		// Move to the next bucket.
		if w.remainder != 0 && w.ntile == w.remainder {
			w.remainder = 0
			w.boundary--
		}
		w.ntile++
		w.curBucketCount = 1
	}
	return tree.DInt(w.ntile), nil
}

// leadLagWindow returns the target column k rows before (lag) or after
// (lead) the current row in partition order, ignoring the frame. Out of
// the partition it returns the configured default, NULL if none.
type leadLagWindow struct {
	forward bool
	offset  int
	def     tree.Datum
	argIdx  int
}

func newLeadLagWindow(forward bool, spec tree.WindowFuncSpec) *leadLagWindow {
	offset := int(spec.N)
	if offset == 0 {
		offset = 1
	}
	def := spec.Default
	if def == nil {
		def = tree.DNull
	}
	return &leadLagWindow{forward: forward, offset: offset, def: def, argIdx: spec.ArgIdx}
}

func (w *leadLagWindow) compute(wfr *windowFrameRun) (tree.Datum, error) {
	offset := w.offset
	if !w.forward {
		offset = -offset
	}
	if target := wfr.rowIdx + offset; target >= 0 && target < wfr.partitionSize() {
		return wfr.argDatum(target, w.argIdx), nil
	}
	return w.def, nil
}

// firstValueWindow returns the target column at the first row of the
// resolved frame.
type firstValueWindow struct {
	argIdx int
}

func (w *firstValueWindow) compute(wfr *windowFrameRun) (tree.Datum, error) {
	start, end, err := wfr.frameBounds()
	if err != nil {
		return nil, err
	}
	if start == end {
		return tree.DNull, nil
	}
	return wfr.argDatum(start, w.argIdx), nil
}

// lastValueWindow returns the target column at the last row of the
// resolved frame.
type lastValueWindow struct {
	argIdx int
}

func (w *lastValueWindow) compute(wfr *windowFrameRun) (tree.Datum, error) {
	start, end, err := wfr.frameBounds()
	if err != nil {
		return nil, err
	}
	if start == end {
		return tree.DNull, nil
	}
	return wfr.argDatum(end-1, w.argIdx), nil
}

// nthValueWindow returns the target column at the nth row of the
// resolved frame (counting from 1), NULL if the frame is smaller.
type nthValueWindow struct {
	argIdx int
	nth    int
}

func (w *nthValueWindow) compute(wfr *windowFrameRun) (tree.Datum, error) {
	start, end, err := wfr.frameBounds()
	if err != nil {
		return nil, err
	}
	if w.nth > end-start {
		return tree.DNull, nil
	}
	return wfr.argDatum(start+w.nth-1, w.argIdx), nil
}
