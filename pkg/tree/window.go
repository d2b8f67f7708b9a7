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

package tree

// Direction of a column ordering.
type Direction int

// Direction values.
const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "DESC"
	}
	return "ASC"
}

// NullsOrder is the placement policy for NULL order-key values.
type NullsOrder int

// NullsOrder values. NullsAuto matches PostgreSQL defaults: NULLs sort
// last when ascending and first when descending.
const (
	NullsAuto NullsOrder = iota
	NullsFirst
	NullsLast
)

// ColumnOrderInfo is one ORDER BY key: a column index, a direction, and
// a NULL placement policy.
type ColumnOrderInfo struct {
	ColIdx    int
	Direction Direction
	Nulls     NullsOrder
}

// NullsAreFirst resolves the NULL placement for this key.
func (c ColumnOrderInfo) NullsAreFirst() bool {
	switch c.Nulls {
	case NullsFirst:
		return true
	case NullsLast:
		return false
	}
	return c.Direction == Descending
}

// ColumnOrdering is the ORDER BY key sequence of a window, compared left
// to right.
type ColumnOrdering []ColumnOrderInfo

// WindowFrameMode indicates which mode of framing is used.
type WindowFrameMode int

const (
	// ROWS specifies frame bounds in physical row offsets.
	ROWS WindowFrameMode = iota
	// RANGE specifies frame bounds as value-domain offsets against the
	// single ORDER BY key.
	RANGE
)

func (m WindowFrameMode) String() string {
	if m == RANGE {
		return "RANGE"
	}
	return "ROWS"
}

// WindowFrameBoundType indicates which type of boundary is used.
type WindowFrameBoundType int

// Bound types, in logical window order.
const (
	UnboundedPreceding WindowFrameBoundType = iota
	OffsetPreceding
	CurrentRow
	OffsetFollowing
	UnboundedFollowing
)

func (t WindowFrameBoundType) String() string {
	switch t {
	case UnboundedPreceding:
		return "UNBOUNDED PRECEDING"
	case OffsetPreceding:
		return "OFFSET PRECEDING"
	case CurrentRow:
		return "CURRENT ROW"
	case OffsetFollowing:
		return "OFFSET FOLLOWING"
	default:
		return "UNBOUNDED FOLLOWING"
	}
}

// WindowFrameBound specifies one bound of a window frame. Offset is only
// set for OffsetPreceding and OffsetFollowing: a non-negative DInt row
// count in ROWS mode, a value-domain offset in RANGE mode.
type WindowFrameBound struct {
	BoundType WindowFrameBoundType
	Offset    Datum
}

// HasOffset returns whether the bound carries an offset.
func (b WindowFrameBound) HasOffset() bool {
	return b.BoundType == OffsetPreceding || b.BoundType == OffsetFollowing
}

// WindowFrameBounds specifies the start and end bounds of a window frame.
type WindowFrameBounds struct {
	Start WindowFrameBound
	End   WindowFrameBound
}

// WindowFrame represents a window frame specification.
type WindowFrame struct {
	Mode   WindowFrameMode
	Bounds WindowFrameBounds
}

// DefaultFrame is the frame implied by an absent frame clause when ORDER
// BY keys are present: RANGE UNBOUNDED PRECEDING .. CURRENT ROW.
func DefaultFrame() *WindowFrame {
	return &WindowFrame{
		Mode: RANGE,
		Bounds: WindowFrameBounds{
			Start: WindowFrameBound{BoundType: UnboundedPreceding},
			End:   WindowFrameBound{BoundType: CurrentRow},
		},
	}
}

// WholePartitionFrame is the frame implied by an absent frame clause
// when no ORDER BY keys are present: the entire partition for every row.
func WholePartitionFrame() *WindowFrame {
	return &WindowFrame{
		Mode: ROWS,
		Bounds: WindowFrameBounds{
			Start: WindowFrameBound{BoundType: UnboundedPreceding},
			End:   WindowFrameBound{BoundType: UnboundedFollowing},
		},
	}
}

// WindowSpec is one parsed window specification: the OVER clause plus
// the function applied through it. Column references are indexes into
// the row tuple.
type WindowSpec struct {
	// Name identifies the window in errors and output column headers.
	Name        string
	PartitionBy []int
	OrderBy     ColumnOrdering
	// Frame is the explicit frame clause; nil selects the default frame
	// for the spec's ORDER BY shape.
	Frame *WindowFrame
	Func  WindowFuncSpec
}

// EffectiveFrame resolves the spec's frame, supplying the default frame
// when no explicit clause is present.
func (s *WindowSpec) EffectiveFrame() *WindowFrame {
	if s.Frame != nil {
		return s.Frame
	}
	if len(s.OrderBy) > 0 {
		return DefaultFrame()
	}
	return WholePartitionFrame()
}
