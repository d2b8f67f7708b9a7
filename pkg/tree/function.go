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

import "fmt"

// WindowFuncKind enumerates every function the engine can evaluate
// through an OVER clause. The set is closed: the evaluator switches
// exhaustively over it, so adding a function is a compile-time-checked
// extension.
type WindowFuncKind int

const (
	// Aggregates.
	WindowSum WindowFuncKind = iota
	WindowAvg
	WindowMin
	WindowMax
	WindowCount
	WindowCountRows

	// Ranking.
	WindowRowNumber
	WindowRank
	WindowDenseRank
	WindowPercentRank
	WindowCumeDist
	WindowNtile

	// Offset.
	WindowLag
	WindowLead
	WindowFirstValue
	WindowLastValue
	WindowNthValue
)

var windowFuncNames = [...]string{
	WindowSum:         "sum",
	WindowAvg:         "avg",
	WindowMin:         "min",
	WindowMax:         "max",
	WindowCount:       "count",
	WindowCountRows:   "count_rows",
	WindowRowNumber:   "row_number",
	WindowRank:        "rank",
	WindowDenseRank:   "dense_rank",
	WindowPercentRank: "percent_rank",
	WindowCumeDist:    "cume_dist",
	WindowNtile:       "ntile",
	WindowLag:         "lag",
	WindowLead:        "lead",
	WindowFirstValue:  "first_value",
	WindowLastValue:   "last_value",
	WindowNthValue:    "nth_value",
}

func (k WindowFuncKind) String() string {
	if int(k) < 0 || int(k) >= len(windowFuncNames) {
		return fmt.Sprintf("WindowFuncKind(%d)", int(k))
	}
	return windowFuncNames[k]
}

// WindowFuncKindFromName maps a lower-case function name back to its
// kind; ok is false for unknown names.
func WindowFuncKindFromName(name string) (WindowFuncKind, bool) {
	for k, n := range windowFuncNames {
		if n == name {
			return WindowFuncKind(k), true
		}
	}
	return 0, false
}

// WindowFuncClass partitions the function kinds by the context they
// read: aggregates fold over the resolved frame, ranking functions read
// partition order and peer groups, offset functions address rows by
// position.
type WindowFuncClass int

const (
	// AggregateClass folds row values over the frame.
	AggregateClass WindowFuncClass = iota
	// RankingClass reads partition order and peer groups.
	RankingClass
	// OffsetClass addresses rows by position within the partition or frame.
	OffsetClass
)

// Class returns the function class of k.
func (k WindowFuncKind) Class() WindowFuncClass {
	switch k {
	case WindowSum, WindowAvg, WindowMin, WindowMax, WindowCount, WindowCountRows:
		return AggregateClass
	case WindowRowNumber, WindowRank, WindowDenseRank, WindowPercentRank, WindowCumeDist, WindowNtile:
		return RankingClass
	case WindowLag, WindowLead, WindowFirstValue, WindowLastValue, WindowNthValue:
		return OffsetClass
	}
	panic(fmt.Sprintf("unknown window function kind %d", int(k)))
}

// NoColumnIdx marks a window function that takes no column argument
// (ranking functions, count_rows).
const NoColumnIdx = -1

// WindowFuncSpec is the function half of a window specification.
type WindowFuncSpec struct {
	Kind WindowFuncKind
	// ArgIdx is the target column, or NoColumnIdx when the function takes
	// no column argument.
	ArgIdx int
	// N carries ntile's bucket count, lag/lead's row offset (1 when
	// zero), and nth_value's n.
	N int64
	// Default is returned by lag/lead when the offset lands outside the
	// partition; nil means NULL.
	Default Datum
}

// NeedsArg reports whether the function kind requires a target column.
func (f WindowFuncSpec) NeedsArg() bool {
	switch f.Kind {
	case WindowCountRows, WindowRowNumber, WindowRank, WindowDenseRank,
		WindowPercentRank, WindowCumeDist, WindowNtile:
		return false
	}
	return true
}

func (f WindowFuncSpec) String() string {
	if f.ArgIdx == NoColumnIdx {
		return f.Kind.String() + "()"
	}
	return fmt.Sprintf("%s(@%d)", f.Kind, f.ArgIdx)
}
