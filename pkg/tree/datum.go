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
	"fmt"
	"strconv"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/cockroachdb/errors"
)

// DecimalCtx is the context used for all decimal arithmetic performed by
// the engine.
var DecimalCtx = apd.BaseContext.WithPrecision(20)

// A Datum holds a single scalar value: a bool, int64, float64, decimal,
// string, date, timestamp, interval, or NULL.
type Datum interface {
	// Type returns the name of the datum's type for error messages.
	Type() string
	// Compare returns -1 if the receiver is less than other, 0 if the
	// receiver is equal to other and +1 if the receiver is greater than
	// other. NULL compares less than every non-NULL datum. Comparing
	// datums of different non-NULL types panics; columns are homogeneous
	// by the engine's input contract.
	Compare(other Datum) int
	fmt.Stringer
}

// Datums is a tuple of datums: one row of the input row set.
type Datums []Datum

// DNull is the NULL Datum.
var DNull Datum = dNull{}

type dNull struct{}

// Type implements the Datum interface.
func (dNull) Type() string { return "NULL" }

// Compare implements the Datum interface.
func (dNull) Compare(other Datum) int {
	if other == DNull {
		return 0
	}
	return -1
}

func (dNull) String() string { return "NULL" }

// DBool is the boolean Datum.
type DBool bool

// Type implements the Datum interface.
func (d DBool) Type() string { return "bool" }

// Compare implements the Datum interface.
func (d DBool) Compare(other Datum) int {
	if other == DNull {
		return 1
	}
	v, ok := other.(DBool)
	if !ok {
		panic(unsupportedComparison(d, other))
	}
	if !bool(d) && bool(v) {
		return -1
	}
	if bool(d) && !bool(v) {
		return 1
	}
	return 0
}

func (d DBool) String() string { return strconv.FormatBool(bool(d)) }

// DInt is the int Datum.
type DInt int64

// NewDInt wraps an int64 as a Datum.
func NewDInt(i int64) Datum { return DInt(i) }

// Type implements the Datum interface.
func (d DInt) Type() string { return "int" }

// Compare implements the Datum interface.
func (d DInt) Compare(other Datum) int {
	if other == DNull {
		return 1
	}
	v, ok := other.(DInt)
	if !ok {
		panic(unsupportedComparison(d, other))
	}
	if d < v {
		return -1
	}
	if d > v {
		return 1
	}
	return 0
}

func (d DInt) String() string { return strconv.FormatInt(int64(d), 10) }

// DFloat is the float Datum.
type DFloat float64

// Type implements the Datum interface.
func (d DFloat) Type() string { return "float" }

// Compare implements the Datum interface.
func (d DFloat) Compare(other Datum) int {
	if other == DNull {
		return 1
	}
	v, ok := other.(DFloat)
	if !ok {
		panic(unsupportedComparison(d, other))
	}
	if d < v {
		return -1
	}
	if d > v {
		return 1
	}
	return 0
}

func (d DFloat) String() string { return strconv.FormatFloat(float64(d), 'g', -1, 64) }

// DDecimal is the arbitrary-precision decimal Datum.
type DDecimal struct {
	apd.Decimal
}

// NewDDecimalFromString parses s as a decimal Datum.
func NewDDecimalFromString(s string) (Datum, error) {
	dd := &DDecimal{}
	if _, _, err := dd.SetString(s); err != nil {
		return nil, errors.Wrapf(err, "could not parse %q as decimal", s)
	}
	return dd, nil
}

// Type implements the Datum interface.
func (d *DDecimal) Type() string { return "decimal" }

// Compare implements the Datum interface.
func (d *DDecimal) Compare(other Datum) int {
	if other == DNull {
		return 1
	}
	v, ok := other.(*DDecimal)
	if !ok {
		panic(unsupportedComparison(d, other))
	}
	return d.Cmp(&v.Decimal)
}

func (d *DDecimal) String() string { return d.Decimal.String() }

// DString is the string Datum.
type DString string

// Type implements the Datum interface.
func (d DString) Type() string { return "string" }

// Compare implements the Datum interface.
func (d DString) Compare(other Datum) int {
	if other == DNull {
		return 1
	}
	v, ok := other.(DString)
	if !ok {
		panic(unsupportedComparison(d, other))
	}
	if d < v {
		return -1
	}
	if d > v {
		return 1
	}
	return 0
}

func (d DString) String() string { return string(d) }

// DDate is the date Datum, stored as days since the Unix epoch.
type DDate int64

// NewDDateFromTime constructs a DDate from a time.Time in UTC.
func NewDDateFromTime(t time.Time) DDate {
	return DDate(t.UTC().Unix() / secondsInDay)
}

const secondsInDay = 24 * 60 * 60

// Type implements the Datum interface.
func (d DDate) Type() string { return "date" }

// Compare implements the Datum interface.
func (d DDate) Compare(other Datum) int {
	if other == DNull {
		return 1
	}
	v, ok := other.(DDate)
	if !ok {
		panic(unsupportedComparison(d, other))
	}
	if d < v {
		return -1
	}
	if d > v {
		return 1
	}
	return 0
}

func (d DDate) String() string {
	return time.Unix(int64(d)*secondsInDay, 0).UTC().Format("2006-01-02")
}

// DTimestamp is the timestamp Datum.
type DTimestamp struct {
	time.Time
}

// Type implements the Datum interface.
func (d *DTimestamp) Type() string { return "timestamp" }

// Compare implements the Datum interface.
func (d *DTimestamp) Compare(other Datum) int {
	if other == DNull {
		return 1
	}
	v, ok := other.(*DTimestamp)
	if !ok {
		panic(unsupportedComparison(d, other))
	}
	if d.Before(v.Time) {
		return -1
	}
	if v.Before(d.Time) {
		return 1
	}
	return 0
}

func (d *DTimestamp) String() string { return d.UTC().Format(time.RFC3339Nano) }

// DInterval is the interval Datum, used as the value-domain offset for
// RANGE frames over timestamp order keys.
type DInterval struct {
	time.Duration
}

// Type implements the Datum interface.
func (d *DInterval) Type() string { return "interval" }

// Compare implements the Datum interface.
func (d *DInterval) Compare(other Datum) int {
	if other == DNull {
		return 1
	}
	v, ok := other.(*DInterval)
	if !ok {
		panic(unsupportedComparison(d, other))
	}
	if d.Duration < v.Duration {
		return -1
	}
	if d.Duration > v.Duration {
		return 1
	}
	return 0
}

func (d *DInterval) String() string { return d.Duration.String() }

func unsupportedComparison(d, other Datum) string {
	return fmt.Sprintf("unsupported comparison: %s to %s", d.Type(), other.Type())
}

// MustBeDInt asserts that d is a DInt and returns its value.
func MustBeDInt(d Datum) int64 {
	v, ok := d.(DInt)
	if !ok {
		panic(fmt.Sprintf("expected int, found %s", d.Type()))
	}
	return int64(v)
}

// AsDFloat converts a numeric datum to float64 for ratio-style results.
func AsDFloat(d Datum) (float64, error) {
	switch t := d.(type) {
	case DInt:
		return float64(t), nil
	case DFloat:
		return float64(t), nil
	case *DDecimal:
		f, err := t.Float64()
		if err != nil {
			return 0, errors.Wrap(err, "decimal out of float range")
		}
		return f, nil
	}
	return 0, errors.Newf("expected numeric value, found %s", d.Type())
}

// AddOffset returns d + offset in d's value domain. It is used to turn a
// RANGE frame bound into a search key. Int, float and decimal keys take
// offsets of their own family (int widens into float and decimal); date
// keys take int day offsets; timestamp keys take interval offsets.
func AddOffset(d, offset Datum) (Datum, error) {
	return shiftByOffset(d, offset, false /* sub */)
}

// SubOffset returns d - offset in d's value domain.
func SubOffset(d, offset Datum) (Datum, error) {
	return shiftByOffset(d, offset, true /* sub */)
}

func shiftByOffset(d, offset Datum, sub bool) (Datum, error) {
	switch t := d.(type) {
	case DInt:
		if v, ok := offset.(DInt); ok {
			if sub {
				return t - v, nil
			}
			return t + v, nil
		}
	case DFloat:
		switch v := offset.(type) {
		case DFloat:
			if sub {
				return t - v, nil
			}
			return t + v, nil
		case DInt:
			if sub {
				return t - DFloat(v), nil
			}
			return t + DFloat(v), nil
		}
	case *DDecimal:
		var off *apd.Decimal
		switch v := offset.(type) {
		case *DDecimal:
			off = &v.Decimal
		case DInt:
			off = apd.New(int64(v), 0)
		}
		if off != nil {
			res := &DDecimal{}
			var err error
			if sub {
				_, err = DecimalCtx.Sub(&res.Decimal, &t.Decimal, off)
			} else {
				_, err = DecimalCtx.Add(&res.Decimal, &t.Decimal, off)
			}
			if err != nil {
				return nil, err
			}
			return res, nil
		}
	case DDate:
		if v, ok := offset.(DInt); ok {
			if sub {
				return t - DDate(v), nil
			}
			return t + DDate(v), nil
		}
	case *DTimestamp:
		if v, ok := offset.(*DInterval); ok {
			if sub {
				return &DTimestamp{Time: t.Add(-v.Duration)}, nil
			}
			return &DTimestamp{Time: t.Add(v.Duration)}, nil
		}
	default:
		return nil, errors.Newf("%s cannot be offset by a RANGE bound", d.Type())
	}
	return nil, errors.Newf("invalid RANGE offset type %s for %s order key", offset.Type(), d.Type())
}

// IsNegativeOffset reports whether an offset datum is negative. Frame
// offsets must be non-negative.
func IsNegativeOffset(d Datum) bool {
	switch t := d.(type) {
	case DInt:
		return t < 0
	case DFloat:
		return t < 0
	case *DDecimal:
		return t.Negative && !t.IsZero()
	case *DInterval:
		return t.Duration < 0
	}
	return false
}
