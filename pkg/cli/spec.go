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
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	yaml "gopkg.in/yaml.v2"

	"github.com/windrowdb/windrow/pkg/tree"
)

// The YAML window-spec file: the already-parsed window specifications an
// upstream planner would hand the engine. Column references are by
// name and resolve against the table's header.
type specFile struct {
	Windows []windowYAML `yaml:"windows"`
}

type windowYAML struct {
	Name        string      `yaml:"name"`
	PartitionBy []string    `yaml:"partition_by"`
	OrderBy     []orderYAML `yaml:"order_by"`
	Frame       *frameYAML  `yaml:"frame"`
	Func        funcYAML    `yaml:"func"`
}

type orderYAML struct {
	Column    string `yaml:"column"`
	Direction string `yaml:"direction"` // asc (default) | desc
	Nulls     string `yaml:"nulls"`     // first | last | "" (postgres default)
}

type frameYAML struct {
	Mode  string     `yaml:"mode"` // rows | range
	Start *boundYAML `yaml:"start"`
	End   *boundYAML `yaml:"end"`
}

type boundYAML struct {
	Bound string `yaml:"bound"` // unbounded_preceding | preceding | current_row | following | unbounded_following
	// Offset is a row count in ROWS mode and a value in the order key's
	// domain in RANGE mode (int, float, decimal, or a duration like
	// "72h" for timestamp keys).
	Offset string `yaml:"offset"`
}

type funcYAML struct {
	Name string `yaml:"name"`
	Arg  string `yaml:"arg"`
	N    int64  `yaml:"n"`
	// Default is lag/lead's out-of-bounds replacement, decoded in the
	// arg column's type.
	Default string `yaml:"default"`
}

// DecodeWindowSpecs decodes a YAML window-spec file against a table's
// schema.
func DecodeWindowSpecs(data []byte, tbl *Table) ([]*tree.WindowSpec, error) {
	var file specFile
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return nil, errors.Wrap(err, "decoding window specs")
	}
	if len(file.Windows) == 0 {
		return nil, errors.New("no windows defined")
	}
	specs := make([]*tree.WindowSpec, 0, len(file.Windows))
	for i, w := range file.Windows {
		spec, err := w.toSpec(tbl)
		if err != nil {
			return nil, errors.Wrapf(err, "window %d (%q)", i, w.Name)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func (w windowYAML) toSpec(tbl *Table) (*tree.WindowSpec, error) {
	spec := &tree.WindowSpec{Name: w.Name}
	if spec.Name == "" {
		return nil, errors.New("missing window name")
	}

	for _, col := range w.PartitionBy {
		idx, ok := tbl.ColumnIndex(col)
		if !ok {
			return nil, errors.Newf("unknown partition column %q", col)
		}
		spec.PartitionBy = append(spec.PartitionBy, idx)
	}

	for _, o := range w.OrderBy {
		idx, ok := tbl.ColumnIndex(o.Column)
		if !ok {
			return nil, errors.Newf("unknown order column %q", o.Column)
		}
		info := tree.ColumnOrderInfo{ColIdx: idx}
		switch strings.ToLower(o.Direction) {
		case "", "asc":
		case "desc":
			info.Direction = tree.Descending
		default:
			return nil, errors.Newf("unknown direction %q", o.Direction)
		}
		switch strings.ToLower(o.Nulls) {
		case "":
		case "first":
			info.Nulls = tree.NullsFirst
		case "last":
			info.Nulls = tree.NullsLast
		default:
			return nil, errors.Newf("unknown nulls placement %q", o.Nulls)
		}
		spec.OrderBy = append(spec.OrderBy, info)
	}

	if err := w.Func.into(spec, tbl); err != nil {
		return nil, err
	}
	if w.Frame != nil {
		frame, err := w.Frame.toFrame(spec, tbl)
		if err != nil {
			return nil, err
		}
		spec.Frame = frame
	}
	return spec, nil
}

func (f funcYAML) into(spec *tree.WindowSpec, tbl *Table) error {
	kind, ok := tree.WindowFuncKindFromName(strings.ToLower(f.Name))
	if !ok {
		return errors.Newf("unknown window function %q", f.Name)
	}
	fn := tree.WindowFuncSpec{Kind: kind, ArgIdx: tree.NoColumnIdx, N: f.N}
	if f.Arg != "" {
		idx, ok := tbl.ColumnIndex(f.Arg)
		if !ok {
			return errors.Newf("unknown argument column %q", f.Arg)
		}
		fn.ArgIdx = idx
		if f.Default != "" {
			d, err := parseValue(tbl.Columns[idx].Type, f.Default)
			if err != nil {
				return errors.Wrapf(err, "default value %q", f.Default)
			}
			fn.Default = d
		}
	}
	spec.Func = fn
	return nil
}

func (f *frameYAML) toFrame(spec *tree.WindowSpec, tbl *Table) (*tree.WindowFrame, error) {
	frame := &tree.WindowFrame{}
	switch strings.ToLower(f.Mode) {
	case "", "rows":
		frame.Mode = tree.ROWS
	case "range":
		frame.Mode = tree.RANGE
	default:
		return nil, errors.Newf("unknown frame mode %q", f.Mode)
	}

	start, err := f.Start.toBound(frame.Mode, spec, tbl)
	if err != nil {
		return nil, errors.Wrap(err, "frame start")
	}
	frame.Bounds.Start = start

	if f.End == nil {
		frame.Bounds.End = tree.WindowFrameBound{BoundType: tree.CurrentRow}
	} else {
		end, err := f.End.toBound(frame.Mode, spec, tbl)
		if err != nil {
			return nil, errors.Wrap(err, "frame end")
		}
		frame.Bounds.End = end
	}
	return frame, nil
}

func (b *boundYAML) toBound(
	mode tree.WindowFrameMode, spec *tree.WindowSpec, tbl *Table,
) (tree.WindowFrameBound, error) {
	var bound tree.WindowFrameBound
	if b == nil {
		return bound, errors.New("missing bound")
	}
	switch strings.ToLower(b.Bound) {
	case "unbounded_preceding":
		bound.BoundType = tree.UnboundedPreceding
	case "preceding":
		bound.BoundType = tree.OffsetPreceding
	case "current_row":
		bound.BoundType = tree.CurrentRow
	case "following":
		bound.BoundType = tree.OffsetFollowing
	case "unbounded_following":
		bound.BoundType = tree.UnboundedFollowing
	default:
		return bound, errors.Newf("unknown bound %q", b.Bound)
	}
	if !bound.HasOffset() {
		return bound, nil
	}
	if b.Offset == "" {
		return bound, errors.Newf("bound %q requires an offset", b.Bound)
	}

	offset, err := parseOffset(mode, spec, tbl, b.Offset)
	if err != nil {
		return bound, err
	}
	bound.Offset = offset
	return bound, nil
}

// parseOffset decodes a frame offset: a row count in ROWS mode, a
// value-domain offset against the single order key in RANGE mode.
func parseOffset(
	mode tree.WindowFrameMode, spec *tree.WindowSpec, tbl *Table, s string,
) (tree.Datum, error) {
	if mode == tree.ROWS {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "ROWS offset %q", s)
		}
		return tree.DInt(v), nil
	}
	if len(spec.OrderBy) != 1 {
		return nil, errors.New("RANGE with offset requires exactly one ORDER BY column")
	}
	switch tbl.Columns[spec.OrderBy[0].ColIdx].Type {
	case ColInt, ColDate:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, err
		}
		return tree.DInt(v), nil
	case ColFloat:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, err
		}
		return tree.DFloat(v), nil
	case ColDecimal:
		return tree.NewDDecimalFromString(s)
	case ColTimestamp:
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, err
		}
		return &tree.DInterval{Duration: d}, nil
	}
	return nil, errors.Newf("order key type %q does not support RANGE offsets",
		tbl.Columns[spec.OrderBy[0].ColIdx].Type)
}
