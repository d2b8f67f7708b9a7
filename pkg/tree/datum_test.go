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

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func mustDecimal(t *testing.T, s string) *DDecimal {
	t.Helper()
	d, err := NewDDecimalFromString(s)
	require.NoError(t, err)
	return d.(*DDecimal)
}

func TestDatumCompare(t *testing.T) {
	ts := func(s string) *DTimestamp {
		tm, err := time.Parse(time.RFC3339, s)
		require.NoError(t, err)
		return &DTimestamp{Time: tm}
	}

	testCases := []struct {
		a, b     Datum
		expected int
	}{
		{DInt(1), DInt(2), -1},
		{DInt(4), DInt(4), 0},
		{DInt(9), DInt(2), 1},
		{DFloat(1.5), DFloat(2.5), -1},
		{DFloat(2.5), DFloat(2.5), 0},
		{DBool(false), DBool(true), -1},
		{DString("apple"), DString("banana"), -1},
		{DString("pear"), DString("pear"), 0},
		{DDate(100), DDate(200), -1},
		{ts("2026-01-01T00:00:00Z"), ts("2026-06-01T00:00:00Z"), -1},
		{&DInterval{Duration: time.Second}, &DInterval{Duration: time.Minute}, -1},
		{DNull, DInt(0), -1},
		{DInt(0), DNull, 1},
		{DNull, DNull, 0},
	}
	for _, tc := range testCases {
		require.Equalf(t, tc.expected, tc.a.Compare(tc.b), "%s <> %s", tc.a, tc.b)
	}

	a := mustDecimal(t, "1.25")
	b := mustDecimal(t, "1.250")
	require.Equal(t, 0, a.Compare(b))
	require.Equal(t, -1, a.Compare(mustDecimal(t, "2")))
}

func TestDatumCompareMismatchedTypes(t *testing.T) {
	require.Panics(t, func() { DInt(1).Compare(DString("1")) })
	require.Panics(t, func() { DFloat(1).Compare(DInt(1)) })
}

func TestShiftByOffset(t *testing.T) {
	day := func(s string) DDate {
		tm, err := time.Parse("2006-01-02", s)
		require.NoError(t, err)
		return NewDDateFromTime(tm)
	}
	ts := func(s string) *DTimestamp {
		tm, err := time.Parse(time.RFC3339, s)
		require.NoError(t, err)
		return &DTimestamp{Time: tm}
	}

	testCases := []struct {
		d, offset Datum
		add, sub  Datum
	}{
		{DInt(10), DInt(3), DInt(13), DInt(7)},
		{DFloat(10), DFloat(2.5), DFloat(12.5), DFloat(7.5)},
		// Int offsets widen into a float order key.
		{DFloat(10), DInt(3), DFloat(13), DFloat(7)},
		{day("2026-03-31"), DInt(1), day("2026-04-01"), day("2026-03-30")},
		{
			ts("2026-01-01T12:00:00Z"), &DInterval{Duration: time.Hour},
			ts("2026-01-01T13:00:00Z"), ts("2026-01-01T11:00:00Z"),
		},
	}
	for _, tc := range testCases {
		got, err := AddOffset(tc.d, tc.offset)
		require.NoError(t, err)
		require.Equalf(t, 0, tc.add.Compare(got), "%s + %s", tc.d, tc.offset)
		got, err = SubOffset(tc.d, tc.offset)
		require.NoError(t, err)
		require.Equalf(t, 0, tc.sub.Compare(got), "%s - %s", tc.d, tc.offset)
	}

	got, err := AddOffset(mustDecimal(t, "10.5"), mustDecimal(t, "0.5"))
	require.NoError(t, err)
	require.Equal(t, 0, mustDecimal(t, "11").Compare(got))
	got, err = SubOffset(mustDecimal(t, "10.5"), DInt(10))
	require.NoError(t, err)
	require.Equal(t, 0, mustDecimal(t, "0.5").Compare(got))
}

func TestShiftByOffsetErrors(t *testing.T) {
	_, err := AddOffset(DString("abc"), DInt(1))
	require.Error(t, err)
	_, err = AddOffset(DInt(1), DFloat(1))
	require.Error(t, err)
	_, err = AddOffset(&DTimestamp{Time: time.Now()}, DInt(1))
	require.Error(t, err)
}

func TestIsNegativeOffset(t *testing.T) {
	require.True(t, IsNegativeOffset(DInt(-1)))
	require.True(t, IsNegativeOffset(DFloat(-0.5)))
	require.True(t, IsNegativeOffset(mustDecimal(t, "-3")))
	require.True(t, IsNegativeOffset(&DInterval{Duration: -time.Second}))
	require.False(t, IsNegativeOffset(DInt(0)))
	require.False(t, IsNegativeOffset(mustDecimal(t, "-0")))
	require.False(t, IsNegativeOffset(DFloat(2)))
}

func TestWindowFuncKindFromName(t *testing.T) {
	for _, name := range []string{"sum", "avg", "rank", "ntile", "lag", "nth_value"} {
		kind, ok := WindowFuncKindFromName(name)
		require.True(t, ok, name)
		require.Equal(t, name, kind.String())
	}
	_, ok := WindowFuncKindFromName("median")
	require.False(t, ok)
}

func TestWindowFuncClass(t *testing.T) {
	require.Equal(t, AggregateClass, WindowSum.Class())
	require.Equal(t, AggregateClass, WindowCountRows.Class())
	require.Equal(t, RankingClass, WindowDenseRank.Class())
	require.Equal(t, RankingClass, WindowNtile.Class())
	require.Equal(t, OffsetClass, WindowLag.Class())
	require.Equal(t, OffsetClass, WindowNthValue.Class())
}

func TestNullsAreFirst(t *testing.T) {
	// Postgres defaults: NULLs sort last ascending, first descending.
	require.False(t, ColumnOrderInfo{Direction: Ascending, Nulls: NullsAuto}.NullsAreFirst())
	require.True(t, ColumnOrderInfo{Direction: Descending, Nulls: NullsAuto}.NullsAreFirst())
	require.True(t, ColumnOrderInfo{Direction: Ascending, Nulls: NullsFirst}.NullsAreFirst())
	require.False(t, ColumnOrderInfo{Direction: Descending, Nulls: NullsLast}.NullsAreFirst())
}
