package selection

import (
	"reflect"
	"testing"
)

func TestParseIndices(t *testing.T) {
	tests := []struct {
		name  string
		input string
		total int
		want  []int
	}{
		{"single", "2", 5, []int{2}},
		{"mixed and out of range", "3,1-2,99", 5, []int{1, 2, 3}},
		{"duplicates", "2,2,1-2", 5, []int{1, 2}},
		{"range clipped", "4-9", 5, []int{4, 5}},
		{"spaces", " 1 , 3 - 4 ", 5, []int{1, 3, 4}},
		{"all", "all", 3, []int{1, 2, 3}},
		{"all uppercase", "ALL", 2, []int{1, 2}},
		{"reversed range", "5-3", 5, nil},
		{"reversed with valid", "5-3,1", 5, []int{1}},
		{"only out of range", "0,99", 5, []int{}},
		{"overflow dropped", "1,99999999999999999999", 5, []int{1}},
		{"overflow range end", "4-99999999999999999999", 5, []int{4, 5}},
		{"garbage", "abc", 5, nil},
		{"partly garbage", "1,x", 5, nil},
		{"negative", "-3", 5, nil},
		{"empty", "", 5, nil},
		{"trailing comma", "1,", 5, nil},
		{"zero total", "1", 0, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseIndices(tc.input, tc.total)
			if len(got) == 0 && len(tc.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("ParseIndices(%q, %d) = %v, want %v", tc.input, tc.total, got, tc.want)
			}
		})
	}
}
