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
	"github.com/windrowdb/windrow/pkg/rowenc"
	"github.com/windrowdb/windrow/pkg/tree"
)

// indexedRow is a row annotated with its original input position, used
// to scatter computed values back into input order.
type indexedRow struct {
	idx int
	row tree.Datums
}

// partition is an ordered sequence of rows sharing partition-key values.
// Before the orderer runs it holds rows in original input order.
type partition []indexedRow

// makePartitions buckets rows by the encoded value of their
// partition-key tuple, preserving input order within each bucket.
// Partitions come back in first-seen order. An empty partitionBy puts
// all rows in one partition; empty input yields no partitions.
//
// NULL keys encode to a fixed marker, so rows with NULL partition keys
// group into a single partition rather than each forming its own.
func makePartitions(rows []tree.Datums, partitionBy []int) []partition {
	if len(rows) == 0 {
		return nil
	}
	if len(partitionBy) == 0 {
		whole := make(partition, len(rows))
		for i, row := range rows {
			whole[i] = indexedRow{idx: i, row: row}
		}
		return []partition{whole}
	}

	var scratch []byte
	buckets := make(map[string]int)
	var parts []partition
	for i, row := range rows {
		scratch = scratch[:0]
		for _, colIdx := range partitionBy {
			scratch = rowenc.EncodeDatumAscending(scratch, row[colIdx])
		}
		p, ok := buckets[string(scratch)]
		if !ok {
			p = len(parts)
			buckets[string(scratch)] = p
			parts = append(parts, nil)
		}
		parts[p] = append(parts[p], indexedRow{idx: i, row: row})
	}
	return parts
}
