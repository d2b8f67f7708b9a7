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
	"github.com/cockroachdb/apd/v3"
	"github.com/windrowdb/windrow/pkg/tree"
)

// aggregateImpl folds datums into one result. A fresh instance is
// created per computed frame; none of them retain datums beyond the
// fold.
type aggregateImpl interface {
	add(tree.Datum) error
	result() (tree.Datum, error)
}

var _ aggregateImpl = &avgAggregate{}
var _ aggregateImpl = &countAggregate{}
var _ aggregateImpl = &countRowsAggregate{}
var _ aggregateImpl = &maxAggregate{}
var _ aggregateImpl = &minAggregate{}
var _ aggregateImpl = &sumAggregate{}

// newAggregateImpl returns the fold for an aggregate-class window
// function kind.
func newAggregateImpl(kind tree.WindowFuncKind) aggregateImpl {
	switch kind {
	case tree.WindowSum:
		return &sumAggregate{}
	case tree.WindowAvg:
		return &avgAggregate{}
	case tree.WindowMin:
		return &minAggregate{}
	case tree.WindowMax:
		return &maxAggregate{}
	case tree.WindowCount:
		return &countAggregate{}
	case tree.WindowCountRows:
		return &countRowsAggregate{}
	}
	panic("not an aggregate kind: " + kind.String())
}

// sumAggregate sums numeric values, ignoring NULLs. The sum of zero
// non-NULL values is NULL.
type sumAggregate struct {
	sum tree.Datum
}

func (a *sumAggregate) add(datum tree.Datum) error {
	if datum == tree.DNull {
		return nil
	}
	if a.sum == nil {
		if err := checkNumeric(datum); err != nil {
			return err
		}
		a.sum = datum
		return nil
	}

	switch t := datum.(type) {
	case tree.DInt:
		if v, ok := a.sum.(tree.DInt); ok {
			a.sum = v + t
			return nil
		}
	case tree.DFloat:
		if v, ok := a.sum.(tree.DFloat); ok {
			a.sum = v + t
			return nil
		}
	case *tree.DDecimal:
		if v, ok := a.sum.(*tree.DDecimal); ok {
			res := &tree.DDecimal{}
			if _, err := tree.DecimalCtx.Add(&res.Decimal, &v.Decimal, &t.Decimal); err != nil {
				return markTypeError(err)
			}
			a.sum = res
			return nil
		}
	}
	return newTypeErrorf("unexpected SUM argument type: %s", datum.Type())
}

func (a *sumAggregate) result() (tree.Datum, error) {
	if a.sum == nil {
		return tree.DNull, nil
	}
	return a.sum, nil
}

// avgAggregate divides the sum of the non-NULL values by their count.
type avgAggregate struct {
	sumAggregate
	count int
}

func (a *avgAggregate) add(datum tree.Datum) error {
	if datum == tree.DNull {
		return nil
	}
	if err := a.sumAggregate.add(datum); err != nil {
		return err
	}
	a.count++
	return nil
}

func (a *avgAggregate) result() (tree.Datum, error) {
	sum, err := a.sumAggregate.result()
	if err != nil {
		return tree.DNull, err
	}
	if sum == tree.DNull {
		return sum, nil
	}
	switch t := sum.(type) {
	case tree.DInt:
		return tree.DFloat(t) / tree.DFloat(a.count), nil
	case tree.DFloat:
		return t / tree.DFloat(a.count), nil
	case *tree.DDecimal:
		res := &tree.DDecimal{}
		count := apd.New(int64(a.count), 0)
		if _, err := tree.DecimalCtx.Quo(&res.Decimal, &t.Decimal, count); err != nil {
			return tree.DNull, markTypeError(err)
		}
		return res, nil
	default:
		return tree.DNull, newTypeErrorf("unexpected AVG input type: %s", t.Type())
	}
}

// countAggregate counts non-NULL values of the target field.
type countAggregate struct {
	count int
}

func (a *countAggregate) add(datum tree.Datum) error {
	if datum == tree.DNull {
		return nil
	}
	a.count++
	return nil
}

func (a *countAggregate) result() (tree.Datum, error) {
	return tree.DInt(a.count), nil
}

// countRowsAggregate counts rows, NULLs included: COUNT(*).
type countRowsAggregate struct {
	count int
}

func (a *countRowsAggregate) add(tree.Datum) error {
	a.count++
	return nil
}

func (a *countRowsAggregate) result() (tree.Datum, error) {
	return tree.DInt(a.count), nil
}

// maxAggregate keeps the largest non-NULL value seen.
type maxAggregate struct {
	max tree.Datum
}

func (a *maxAggregate) add(datum tree.Datum) error {
	if datum == tree.DNull {
		return nil
	}
	if a.max == nil {
		a.max = datum
		return nil
	}
	if a.max.Compare(datum) < 0 {
		a.max = datum
	}
	return nil
}

func (a *maxAggregate) result() (tree.Datum, error) {
	if a.max == nil {
		return tree.DNull, nil
	}
	return a.max, nil
}

// minAggregate keeps the smallest non-NULL value seen.
type minAggregate struct {
	min tree.Datum
}

func (a *minAggregate) add(datum tree.Datum) error {
	if datum == tree.DNull {
		return nil
	}
	if a.min == nil {
		a.min = datum
		return nil
	}
	if a.min.Compare(datum) > 0 {
		a.min = datum
	}
	return nil
}

func (a *minAggregate) result() (tree.Datum, error) {
	if a.min == nil {
		return tree.DNull, nil
	}
	return a.min, nil
}

func checkNumeric(datum tree.Datum) error {
	switch datum.(type) {
	case tree.DInt, tree.DFloat, *tree.DDecimal:
		return nil
	}
	return newTypeErrorf("expected numeric value, found %s", datum.Type())
}
