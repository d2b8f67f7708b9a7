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

// Package rowenc implements a byte encoding of datum tuples with the
// property that two tuples encode to equal bytes exactly when their
// datums compare equal key-wise. The partitioner uses it to bucket rows
// by partition-key tuple.
package rowenc

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/cockroachdb/apd/v3"

	"github.com/windrowdb/windrow/pkg/tree"
)

// Type markers. Each encoded datum starts with one, so values of
// different types never collide byte-wise.
const (
	encodedNull byte = iota + 1
	encodedBool
	encodedInt
	encodedFloat
	encodedDecimal
	encodedString
	encodedDate
	encodedTimestamp
	encodedInterval
)

// Escape-based encoding of variable-length payloads: a 0x00 inside the
// payload encodes as {0x00, 0xff} and the encoding ends with
// {0x00, 0x01}, so concatenated tuples cannot alias ("ab","c" vs
// "a","bc") even when the payload itself contains 0x00 bytes.
const (
	escape      byte = 0x00
	escapedTerm byte = 0x01
	escaped00   byte = 0xff
)

// EncodeDatumAscending appends the key encoding of d to b and returns
// the resulting buffer. NULL encodes to a fixed marker: NULL partition
// keys deliberately group into a single partition.
func EncodeDatumAscending(b []byte, d tree.Datum) []byte {
	if d == tree.DNull {
		return append(b, encodedNull)
	}
	switch t := d.(type) {
	case tree.DBool:
		if t {
			return append(b, encodedBool, 1)
		}
		return append(b, encodedBool, 0)
	case tree.DInt:
		return encodeInt(append(b, encodedInt), int64(t))
	case tree.DFloat:
		return encodeFloat(append(b, encodedFloat), float64(t))
	case *tree.DDecimal:
		// Reduce to the canonical form first so 1.0 and 1.00 group together.
		var reduced apd.Decimal
		reduced.Reduce(&t.Decimal)
		return encodeBytes(append(b, encodedDecimal), []byte(reduced.String()))
	case tree.DString:
		return encodeBytes(append(b, encodedString), []byte(t))
	case tree.DDate:
		return encodeInt(append(b, encodedDate), int64(t))
	case *tree.DTimestamp:
		b = encodeInt(append(b, encodedTimestamp), t.Unix())
		return encodeInt(b, int64(t.Nanosecond()))
	case *tree.DInterval:
		return encodeInt(append(b, encodedInterval), int64(t.Duration))
	}
	panic("unknown datum type " + d.Type())
}

// EncodeDatumsAscending appends the key encoding of each datum in the
// tuple to b.
func EncodeDatumsAscending(b []byte, datums tree.Datums) []byte {
	for _, d := range datums {
		b = EncodeDatumAscending(b, d)
	}
	return b
}

// encodeBytes appends the escape-based encoding of data to b: payload
// escape bytes are escaped, then the terminator pair ends the value.
func encodeBytes(b []byte, data []byte) []byte {
	for {
		i := bytes.IndexByte(data, escape)
		if i == -1 {
			break
		}
		b = append(b, data[:i]...)
		b = append(b, escape, escaped00)
		data = data[i+1:]
	}
	b = append(b, data...)
	return append(b, escape, escapedTerm)
}

// encodeInt appends a fixed-width big-endian encoding of v with the sign
// bit flipped, so byte order matches numeric order.
func encodeInt(b []byte, v int64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v)^(1<<63))
	return append(b, buf[:]...)
}

// encodeFloat appends an order-preserving encoding of the float bits:
// non-negative floats get the sign bit set, negative floats are fully
// inverted.
func encodeFloat(b []byte, v float64) []byte {
	if v == 0 {
		// -0 and 0 compare equal and must share a key.
		v = 0
	}
	bits := math.Float64bits(v)
	if bits&(1<<63) != 0 {
		bits = ^bits
	} else {
		bits |= 1 << 63
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], bits)
	return append(b, buf[:]...)
}
