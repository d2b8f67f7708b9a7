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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/windrowdb/windrow/pkg/tree"
)

func foldAggregate(t *testing.T, kind tree.WindowFuncKind, vals ...tree.Datum) tree.Datum {
	t.Helper()
	agg := newAggregateImpl(kind)
	for _, v := range vals {
		require.NoError(t, agg.add(v))
	}
	res, err := agg.result()
	require.NoError(t, err)
	return res
}

func decimal(t *testing.T, s string) tree.Datum {
	t.Helper()
	d, err := tree.NewDDecimalFromString(s)
	require.NoError(t, err)
	return d
}

func TestSumAggregate(t *testing.T) {
	require.Equal(t, tree.DInt(6),
		foldAggregate(t, tree.WindowSum, tree.DInt(1), tree.DInt(2), tree.DInt(3)))
	require.Equal(t, tree.DFloat(4.5),
		foldAggregate(t, tree.WindowSum, tree.DFloat(1.5), tree.DFloat(3)))
	res := foldAggregate(t, tree.WindowSum, decimal(t, "1.1"), decimal(t, "2.2"))
	require.Equal(t, 0, decimal(t, "3.3").Compare(res))

	// NULLs are skipped; an all-NULL fold sums to NULL.
	require.Equal(t, tree.DInt(3),
		foldAggregate(t, tree.WindowSum, tree.DNull, tree.DInt(3), tree.DNull))
	require.Equal(t, tree.DNull, foldAggregate(t, tree.WindowSum))
	require.Equal(t, tree.DNull, foldAggregate(t, tree.WindowSum, tree.DNull))
}

func TestSumAggregateTypeErrors(t *testing.T) {
	agg := newAggregateImpl(tree.WindowSum)
	err := agg.add(tree.DString("nope"))
	require.Error(t, err)
	require.True(t, IsTypeError(err))

	agg = newAggregateImpl(tree.WindowSum)
	require.NoError(t, agg.add(tree.DInt(1)))
	err = agg.add(tree.DFloat(2))
	require.Error(t, err)
	require.True(t, IsTypeError(err))
}

func TestAvgAggregate(t *testing.T) {
	// Integer averages come back as floats.
	require.Equal(t, tree.DFloat(2.5),
		foldAggregate(t, tree.WindowAvg, tree.DInt(2), tree.DInt(3)))
	require.Equal(t, tree.DFloat(2),
		foldAggregate(t, tree.WindowAvg, tree.DFloat(1), tree.DFloat(3)))
	res := foldAggregate(t, tree.WindowAvg, decimal(t, "1"), decimal(t, "2"))
	require.Equal(t, 0, decimal(t, "1.5").Compare(res))

	// NULLs count neither into the sum nor the divisor.
	require.Equal(t, tree.DFloat(2),
		foldAggregate(t, tree.WindowAvg, tree.DInt(1), tree.DNull, tree.DInt(3)))
	require.Equal(t, tree.DNull, foldAggregate(t, tree.WindowAvg, tree.DNull))
}

func TestCountAggregates(t *testing.T) {
	require.Equal(t, tree.DInt(2),
		foldAggregate(t, tree.WindowCount, tree.DInt(1), tree.DNull, tree.DString("x")))
	require.Equal(t, tree.DInt(0), foldAggregate(t, tree.WindowCount, tree.DNull))
	require.Equal(t, tree.DInt(3),
		foldAggregate(t, tree.WindowCountRows, tree.DInt(1), tree.DNull, tree.DNull))
	require.Equal(t, tree.DInt(0), foldAggregate(t, tree.WindowCountRows))
}

func TestMinMaxAggregates(t *testing.T) {
	require.Equal(t, tree.DInt(1),
		foldAggregate(t, tree.WindowMin, tree.DInt(3), tree.DInt(1), tree.DInt(2)))
	require.Equal(t, tree.DInt(3),
		foldAggregate(t, tree.WindowMax, tree.DInt(3), tree.DInt(1), tree.DInt(2)))
	require.Equal(t, tree.DString("a"),
		foldAggregate(t, tree.WindowMin, tree.DString("b"), tree.DString("a")))
	require.Equal(t, tree.DNull,
		foldAggregate(t, tree.WindowMax, tree.DNull, tree.DNull))
	require.Equal(t, tree.DInt(7),
		foldAggregate(t, tree.WindowMax, tree.DNull, tree.DInt(7)))
}
