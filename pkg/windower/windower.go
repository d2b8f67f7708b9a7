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

// Package windower evaluates window functions over materialized row
// sets: it partitions the input per PARTITION BY, orders each partition
// per ORDER BY while tracking peer groups, resolves each row's frame
// per the ROWS/RANGE frame clause, and applies the window function to
// each row's context, producing one output column per window
// specification without altering input row count or order.
package windower

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/windrowdb/windrow/pkg/tree"
	"github.com/windrowdb/windrow/pkg/util/log"
)

// Eval runs one evaluation pass: it computes spec's window function for
// every row and returns the values as a column aligned with the input
// rows (out[i] belongs to rows[i]). The input is never mutated, and
// nothing allocated for the pass outlives it.
//
// Partitions are evaluated concurrently; ctx cancellation propagates at
// partition granularity. A returned error means no output was produced
// for this pass.
func Eval(ctx context.Context, rows []tree.Datums, spec *tree.WindowSpec) (tree.Datums, error) {
	out, err := eval(ctx, rows, spec)
	if err != nil {
		return nil, errors.Wrapf(err, "window %q", spec.Name)
	}
	return out, nil
}

func eval(ctx context.Context, rows []tree.Datums, spec *tree.WindowSpec) (tree.Datums, error) {
	if err := validate(rows, spec); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return tree.Datums{}, nil
	}

	parts := makePartitions(rows, spec.PartitionBy)
	log.FromContext(ctx).Debugf("window %q: %d rows in %d partitions", spec.Name, len(rows), len(parts))

	out := make(tree.Datums, len(rows))
	g, gctx := errgroup.WithContext(ctx)
	for _, part := range parts {
		part := part
		g.Go(func() error {
			// Each task owns its partition exclusively and writes only its
			// own rows' output slots.
			return evalPartition(gctx, part, spec, out)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// evalPartition runs the per-partition pipeline: order, segment peers,
// then resolve the frame and compute the function at every ordered
// position. Ordering is a barrier: no frame or function work starts
// before the partition's order and peer groups are final.
func evalPartition(ctx context.Context, part partition, spec *tree.WindowSpec, out tree.Datums) error {
	peers := orderPartition(part, spec.OrderBy)

	wfr := &windowFrameRun{
		rows:     part,
		ordering: spec.OrderBy,
		peers:    peers,
		frame:    spec.EffectiveFrame(),
	}
	wf := makeWindowFunc(spec.Func)

	for i := range part {
		if err := ctx.Err(); err != nil {
			return err
		}
		wfr.rowIdx = i
		res, err := wf.compute(wfr)
		if err != nil {
			return err
		}
		out[part[i].idx] = res
	}
	return nil
}

// PassResult is the outcome of one pass of EvalAll: either a computed
// column or the error that failed the pass. Window identifies the
// evaluated window specification.
type PassResult struct {
	Window *tree.WindowSpec
	Col    tree.Datums
	Err    error
}

// EvalAll evaluates independent passes, one per spec, concurrently over
// the shared read-only row set. A failed pass never aborts another;
// each spec's outcome lands in the result slot matching its position.
func EvalAll(ctx context.Context, rows []tree.Datums, specs []*tree.WindowSpec) []PassResult {
	results := make([]PassResult, len(specs))
	var wg sync.WaitGroup
	for i, spec := range specs {
		i, spec := i, spec
		wg.Add(1)
		go func() {
			defer wg.Done()
			col, err := Eval(ctx, rows, spec)
			results[i] = PassResult{Window: spec, Col: col, Err: err}
		}()
	}
	wg.Wait()
	return results
}

// validate rejects malformed window specifications before any row is
// processed.
func validate(rows []tree.Datums, spec *tree.WindowSpec) error {
	width := -1
	if len(rows) > 0 {
		width = len(rows[0])
	}
	checkCol := func(clause string, idx int) error {
		if idx < 0 || (width >= 0 && idx >= width) {
			return newConfigErrorf("%s column index %d out of range for %d-column rows", clause, idx, width)
		}
		return nil
	}

	for _, idx := range spec.PartitionBy {
		if err := checkCol("PARTITION BY", idx); err != nil {
			return err
		}
	}
	for _, key := range spec.OrderBy {
		if err := checkCol("ORDER BY", key.ColIdx); err != nil {
			return err
		}
	}
	if err := validateFunc(spec, checkCol); err != nil {
		return err
	}
	if spec.Frame != nil {
		return validateFrame(spec, rows)
	}
	return nil
}

func validateFunc(spec *tree.WindowSpec, checkCol func(string, int) error) error {
	fn := spec.Func
	if fn.NeedsArg() {
		if fn.ArgIdx == tree.NoColumnIdx {
			return newConfigErrorf("%s requires a column argument", fn.Kind)
		}
		if err := checkCol(fn.Kind.String(), fn.ArgIdx); err != nil {
			return err
		}
	}
	switch fn.Kind {
	case tree.WindowNtile:
		if fn.N <= 0 {
			return newConfigErrorf("argument of ntile() must be greater than zero")
		}
	case tree.WindowNthValue:
		if fn.N <= 0 {
			return newConfigErrorf("argument of nth_value() must be greater than zero")
		}
	case tree.WindowLag, tree.WindowLead:
		if fn.N < 0 {
			return newConfigErrorf("%s offset cannot be negative", fn.Kind)
		}
	}
	return nil
}

func validateFrame(spec *tree.WindowSpec, rows []tree.Datums) error {
	frame := spec.Frame
	start, end := frame.Bounds.Start, frame.Bounds.End

	// Bound combinations the SQL standard forbids: the start bound must
	// not be logically after the end bound.
	if start.BoundType == tree.UnboundedFollowing {
		return newConfigErrorf("frame start cannot be UNBOUNDED FOLLOWING")
	}
	if end.BoundType == tree.UnboundedPreceding {
		return newConfigErrorf("frame end cannot be UNBOUNDED PRECEDING")
	}
	if start.BoundType == tree.CurrentRow && end.BoundType == tree.OffsetPreceding {
		return newConfigErrorf("frame starting from current row cannot have preceding rows")
	}
	if start.BoundType == tree.OffsetFollowing &&
		(end.BoundType == tree.OffsetPreceding || end.BoundType == tree.CurrentRow) {
		return newConfigErrorf("frame starting from following row cannot have preceding rows")
	}

	for _, bound := range []tree.WindowFrameBound{start, end} {
		if !bound.HasOffset() {
			continue
		}
		if bound.Offset == nil || bound.Offset == tree.DNull {
			return newConfigErrorf("frame offset cannot be NULL")
		}
		if tree.IsNegativeOffset(bound.Offset) {
			return newConfigErrorf("frame offset cannot be negative")
		}
		if frame.Mode == tree.ROWS {
			if _, ok := bound.Offset.(tree.DInt); !ok {
				return newConfigErrorf("ROWS frame offset must be an int, found %s", bound.Offset.Type())
			}
			continue
		}
		if len(spec.OrderBy) != 1 {
			return newConfigErrorf(
				"RANGE with offset requires exactly one ORDER BY column, found %d", len(spec.OrderBy))
		}
		// Columns are homogeneously typed, so the order key's type is
		// known before any row is processed: reject an offset that the
		// key's value domain cannot take.
		if key := firstNonNull(rows, spec.OrderBy[0].ColIdx); key != nil {
			if _, err := tree.AddOffset(key, bound.Offset); err != nil {
				return markConfigError(err)
			}
		}
	}
	return nil
}

// firstNonNull returns the first non-NULL datum of a column, or nil if
// the column holds only NULLs.
func firstNonNull(rows []tree.Datums, colIdx int) tree.Datum {
	for _, r := range rows {
		if d := r[colIdx]; d != tree.DNull {
			return d
		}
	}
	return nil
}
