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
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/windrowdb/windrow/pkg/tree"
)

// ColType is the declared type of a table column.
type ColType string

// Column types accepted in TSV headers.
const (
	ColBool      ColType = "bool"
	ColInt       ColType = "int"
	ColFloat     ColType = "float"
	ColDecimal   ColType = "decimal"
	ColString    ColType = "string"
	ColDate      ColType = "date"
	ColTimestamp ColType = "timestamp"
)

// Column is one named, typed column of an input table.
type Column struct {
	Name string
	Type ColType
}

// Table is a materialized row set: the collaborator-supplied input the
// engine evaluates over.
type Table struct {
	Columns []Column
	Rows    []tree.Datums
}

// ColumnIndex resolves a column name to its tuple index.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, c := range t.Columns {
		if c.Name == name {
			return i, true
		}
	}
	return 0, false
}

// ReadTable reads a typed TSV: a header of name:type fields followed by
// one row per line. Empty fields decode to NULL.
func ReadTable(r io.Reader) (*Table, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, errors.New("empty input: missing header")
	}
	tbl := &Table{}
	for _, field := range strings.Split(scanner.Text(), "\t") {
		name, typ, ok := strings.Cut(field, ":")
		if !ok {
			return nil, errors.Newf("header field %q is not name:type", field)
		}
		switch ColType(typ) {
		case ColBool, ColInt, ColFloat, ColDecimal, ColString, ColDate, ColTimestamp:
		default:
			return nil, errors.Newf("unknown column type %q in header field %q", typ, field)
		}
		tbl.Columns = append(tbl.Columns, Column{Name: name, Type: ColType(typ)})
	}

	lineNo := 1
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != len(tbl.Columns) {
			return nil, errors.Newf("line %d: expected %d fields, found %d", lineNo, len(tbl.Columns), len(fields))
		}
		row := make(tree.Datums, len(fields))
		for i, field := range fields {
			d, err := parseValue(tbl.Columns[i].Type, field)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d, column %q", lineNo, tbl.Columns[i].Name)
			}
			row[i] = d
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	return tbl, scanner.Err()
}

// parseValue decodes one TSV field into a datum of the column's type.
func parseValue(typ ColType, s string) (tree.Datum, error) {
	if s == "" {
		return tree.DNull, nil
	}
	switch typ {
	case ColBool:
		v, err := strconv.ParseBool(s)
		if err != nil {
			return nil, err
		}
		return tree.DBool(v), nil
	case ColInt:
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
	case ColString:
		return tree.DString(s), nil
	case ColDate:
		t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
		if err != nil {
			return nil, err
		}
		return tree.NewDDateFromTime(t), nil
	case ColTimestamp:
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, err
		}
		return &tree.DTimestamp{Time: t}, nil
	}
	return nil, errors.Newf("unknown column type %q", typ)
}
