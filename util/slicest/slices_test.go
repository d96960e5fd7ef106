// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package slicest

import (
	"reflect"
	"strconv"
	"testing"
)

func TestHelpers(t *testing.T) {
	in := []int{1, 2, 3, 4}

	if got := Map(in, strconv.Itoa); !reflect.DeepEqual(got, []string{"1", "2", "3", "4"}) {
		t.Fatalf("Map = %v", got)
	}
	if got := ReduceD(in, int64(10), func(v int, acc int64) int64 { return acc + int64(v) }); got != 20 {
		t.Fatalf("ReduceD = %d", got)
	}
	if got := Filter(in, func(v int) bool { return v%2 == 0 }); !reflect.DeepEqual(got, []int{2, 4}) {
		t.Fatalf("Filter = %v", got)
	}
	m := ToMap(in, func(v int) (int, bool) { return v, v > 2 })
	if len(m) != 4 || m[1] || !m[3] {
		t.Fatalf("ToMap = %v", m)
	}
	if got := Map([]int(nil), strconv.Itoa); len(got) != 0 {
		t.Fatalf("Map(nil) = %v", got)
	}
}
