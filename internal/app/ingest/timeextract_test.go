package ingest

import (
	"reflect"
	"testing"
)

func TestExtractTimes(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want []string
	}{
		{name: "single time", cell: "07:02", want: []string{"07:02"}},
		{name: "mashed pair", cell: "06:5815:03", want: []string{"06:58", "15:03"}},
		{name: "mashed triple", cell: "06:5812:0015:03", want: []string{"06:58", "12:00", "15:03"}},
		{name: "single digit hour", cell: "7:02", want: []string{"07:02"}},
		{name: "out of range", cell: "25:99", want: nil},
		{name: "minute out of range", cell: "10:75", want: nil},
		{name: "absence marker", cell: "Absent", want: nil},
		{name: "leave marker", cell: "leave", want: nil},
		{name: "sick marker uppercase", cell: "SICK", want: nil},
		{name: "nan cell", cell: "nan", want: nil},
		{name: "empty cell", cell: "", want: nil},
		{name: "whitespace only", cell: "   ", want: nil},
		{name: "time with surrounding text", cell: "in 07:15 out", want: []string{"07:15"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractTimes(tt.cell)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractTimes(%q) = %v, want %v", tt.cell, got, tt.want)
			}
		})
	}
}
