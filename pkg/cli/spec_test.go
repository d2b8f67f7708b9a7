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

package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/windrowdb/windrow/pkg/tree"
)

func testTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := ReadTable(strings.NewReader(strings.Join([]string{
		"region:string\tsales:float\tday:date\tat:timestamp",
		"north\t10.5\t2026-01-01\t2026-01-01T08:00:00Z",
		"south\t11.5\t2026-01-02\t2026-01-02T08:00:00Z",
	}, "\n")))
	require.NoError(t, err)
	return tbl
}

func TestDecodeWindowSpecs(t *testing.T) {
	input := `
windows:
- name: running_total
  partition_by: [region]
  order_by:
  - column: day
  func:
    name: sum
    arg: sales
- name: prev_sales
  order_by:
  - column: day
    direction: desc
    nulls: last
  func:
    name: lag
    arg: sales
    n: 2
    default: "0"
`
	specs, err := DecodeWindowSpecs([]byte(input), testTable(t))
	require.NoError(t, err)
	require.Len(t, specs, 2)

	rt := specs[0]
	require.Equal(t, "running_total", rt.Name)
	require.Equal(t, []int{0}, rt.PartitionBy)
	require.Equal(t, tree.ColumnOrdering{{ColIdx: 2}}, rt.OrderBy)
	require.Equal(t, tree.WindowSum, rt.Func.Kind)
	require.Equal(t, 1, rt.Func.ArgIdx)
	require.Nil(t, rt.Frame)

	ps := specs[1]
	require.Equal(t, tree.ColumnOrdering{
		{ColIdx: 2, Direction: tree.Descending, Nulls: tree.NullsLast},
	}, ps.OrderBy)
	require.Equal(t, tree.WindowLag, ps.Func.Kind)
	require.Equal(t, int64(2), ps.Func.N)
	require.Equal(t, tree.DFloat(0), ps.Func.Default)
}

func TestDecodeWindowSpecsFrames(t *testing.T) {
	input := `
windows:
- name: w
  order_by:
  - column: day
  frame:
    mode: rows
    start: {bound: preceding, offset: "6"}
  func: {name: avg, arg: sales}
`
	specs, err := DecodeWindowSpecs([]byte(input), testTable(t))
	require.NoError(t, err)
	f := specs[0].Frame
	require.NotNil(t, f)
	require.Equal(t, tree.ROWS, f.Mode)
	require.Equal(t, tree.OffsetPreceding, f.Bounds.Start.BoundType)
	require.Equal(t, tree.DInt(6), f.Bounds.Start.Offset)
	// Missing end defaults to the current row.
	require.Equal(t, tree.CurrentRow, f.Bounds.End.BoundType)
}

func TestDecodeWindowSpecsRangeOffsets(t *testing.T) {
	// RANGE offsets decode in the order key's value domain.
	testCases := []struct {
		column, offset string
		expected       tree.Datum
	}{
		{"day", "3", tree.DInt(3)},
		{"sales", "1.5", tree.DFloat(1.5)},
		{"at", "72h", &tree.DInterval{Duration: 72 * time.Hour}},
	}
	for _, tc := range testCases {
		t.Run(tc.column, func(t *testing.T) {
			input := `
windows:
- name: w
  order_by:
  - column: ` + tc.column + `
  frame:
    mode: range
    start: {bound: preceding, offset: "` + tc.offset + `"}
    end: {bound: current_row}
  func: {name: count_rows}
`
			specs, err := DecodeWindowSpecs([]byte(input), testTable(t))
			require.NoError(t, err)
			offset := specs[0].Frame.Bounds.Start.Offset
			require.Equal(t, 0, tc.expected.Compare(offset))
		})
	}
}

func TestDecodeWindowSpecsErrors(t *testing.T) {
	testCases := []struct {
		name, input string
	}{
		{"no windows", "windows: []"},
		{"missing name", "windows:\n- func: {name: rank}"},
		{
			"unknown function",
			"windows:\n- name: w\n  func: {name: median, arg: sales}",
		},
		{
			"unknown partition column",
			"windows:\n- name: w\n  partition_by: [nope]\n  func: {name: rank}",
		},
		{
			"unknown order column",
			"windows:\n- name: w\n  order_by:\n  - column: nope\n  func: {name: rank}",
		},
		{
			"unknown direction",
			"windows:\n- name: w\n  order_by:\n  - column: day\n    direction: sideways\n  func: {name: rank}",
		},
		{
			"missing frame start",
			"windows:\n- name: w\n  frame: {mode: rows}\n  func: {name: count_rows}",
		},
		{
			"offsetless preceding bound",
			"windows:\n- name: w\n  frame:\n    mode: rows\n    start: {bound: preceding}\n  func: {name: count_rows}",
		},
		{
			"range offset on string key",
			"windows:\n- name: w\n  order_by:\n  - column: region\n  frame:\n    mode: range\n    start: {bound: preceding, offset: \"1\"}\n  func: {name: count_rows}",
		},
		{
			"unknown yaml field",
			"windows:\n- name: w\n  fraem: {mode: rows}\n  func: {name: rank}",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeWindowSpecs([]byte(tc.input), testTable(t))
			require.Error(t, err)
		})
	}
}
