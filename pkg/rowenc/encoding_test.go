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

package rowenc

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/windrowdb/windrow/pkg/tree"
)

func TestEncodeDatumAscendingDistinguishesValues(t *testing.T) {
	decimal := func(s string) tree.Datum {
		d, err := tree.NewDDecimalFromString(s)
		require.NoError(t, err)
		return d
	}
	// All distinct datums must encode to distinct keys.
	datums := tree.Datums{
		tree.DNull,
		tree.DBool(false),
		tree.DBool(true),
		tree.DInt(-5),
		tree.DInt(0),
		tree.DInt(5),
		tree.DFloat(-1.5),
		tree.DFloat(2.5),
		decimal("3.14"),
		tree.DString(""),
		tree.DString("a"),
		tree.DString("ab"),
		tree.DDate(20500),
		&tree.DTimestamp{Time: time.Unix(1700000000, 0)},
		&tree.DInterval{Duration: time.Minute},
	}
	seen := make(map[string]tree.Datum)
	for _, d := range datums {
		key := string(EncodeDatumAscending(nil, d))
		prev, dup := seen[key]
		require.Falsef(t, dup, "%s and %s encode to the same key", prev, d)
		seen[key] = d
	}
}

func TestEncodeDatumAscendingEqualValuesEqualKeys(t *testing.T) {
	decimal := func(s string) tree.Datum {
		d, err := tree.NewDDecimalFromString(s)
		require.NoError(t, err)
		return d
	}
	testCases := []struct {
		a, b tree.Datum
	}{
		{tree.DNull, tree.DNull},
		{tree.DInt(42), tree.DInt(42)},
		{tree.DString("x"), tree.DString("x")},
		// Decimals equal in value but not in representation must bucket
		// together.
		{decimal("1.50"), decimal("1.5")},
	}
	for _, tc := range testCases {
		ka := EncodeDatumAscending(nil, tc.a)
		kb := EncodeDatumAscending(nil, tc.b)
		require.Truef(t, bytes.Equal(ka, kb), "%s and %s encode differently", tc.a, tc.b)
	}
}

func TestEncodeDatumAscendingOrderPreserving(t *testing.T) {
	// Within a type, key bytes must sort the way the datums do.
	groups := []tree.Datums{
		{tree.DInt(-100), tree.DInt(-1), tree.DInt(0), tree.DInt(1), tree.DInt(100)},
		{tree.DFloat(-10.5), tree.DFloat(-0.5), tree.DFloat(0), tree.DFloat(0.5), tree.DFloat(10.5)},
		{tree.DString("a"), tree.DString("aa"), tree.DString("b")},
		{tree.DDate(1), tree.DDate(2), tree.DDate(3)},
	}
	for _, group := range groups {
		for i := 1; i < len(group); i++ {
			ka := EncodeDatumAscending(nil, group[i-1])
			kb := EncodeDatumAscending(nil, group[i])
			require.Negativef(t, bytes.Compare(ka, kb),
				"key of %s not below key of %s", group[i-1], group[i])
		}
	}
}

func TestEncodeDatumsAscendingTupleBoundaries(t *testing.T) {
	// Distinct tuples must not collide, even when the strings carry
	// bytes that collide with the encoding's own escape byte.
	testCases := []struct {
		a, b tree.Datums
	}{
		{
			tree.Datums{tree.DString("ab"), tree.DString("c")},
			tree.Datums{tree.DString("a"), tree.DString("bc")},
		},
		{
			tree.Datums{tree.DString("a\x00\x06b"), tree.DString("c")},
			tree.Datums{tree.DString("a"), tree.DString("b\x00\x06c")},
		},
		{
			tree.Datums{tree.DString("a\x00"), tree.DString("b")},
			tree.Datums{tree.DString("a"), tree.DString("\x00b")},
		},
	}
	for _, tc := range testCases {
		ka := EncodeDatumsAscending(nil, tc.a)
		kb := EncodeDatumsAscending(nil, tc.b)
		require.Falsef(t, bytes.Equal(ka, kb), "%v and %v encode to the same key", tc.a, tc.b)
	}
}

func TestEncodeDatumAscendingNulBytes(t *testing.T) {
	// Strings differing only in embedded NUL bytes stay distinct, and
	// equal NUL-bearing strings still share a key.
	a := EncodeDatumAscending(nil, tree.DString("x\x00y"))
	b := EncodeDatumAscending(nil, tree.DString("xy"))
	require.False(t, bytes.Equal(a, b))

	again := EncodeDatumAscending(nil, tree.DString("x\x00y"))
	require.True(t, bytes.Equal(a, again))

	// Key byte order still follows string order around the escape byte.
	lo := EncodeDatumAscending(nil, tree.DString("x"))
	hi := EncodeDatumAscending(nil, tree.DString("x\x00"))
	require.Negative(t, bytes.Compare(lo, hi))
}
