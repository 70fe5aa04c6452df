package ingest

import (
	"strings"
	"testing"
	"time"
)

type stubResolver map[string]int64

func (s stubResolver) Resolve(code string) (int64, bool) {
	id, ok := s[code]
	return id, ok
}

func TestParseUserHeader(t *testing.T) {
	tests := []struct {
		name string
		row  string
		want *UserBlockHeader
	}{
		{
			name: "full header",
			row:  "ID: 101 Name: Jane Doe Dept.: SMP",
			want: &UserBlockHeader{UserCode: "101", Name: "Jane Doe", Department: "SMP"},
		},
		{
			name: "no department",
			row:  "ID: 7 Name: Budi Santoso",
			want: &UserBlockHeader{UserCode: "7", Name: "Budi Santoso"},
		},
		{
			name: "dept without dot",
			row:  "ID: 12 Name: Siti Aminah Dept: Security",
			want: &UserBlockHeader{UserCode: "12", Name: "Siti Aminah", Department: "Security"},
		},
		{
			name: "no user code",
			row:  "Name: Jane Doe Dept.: SMP",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseUserHeader(tt.row)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("ParseUserHeader(%q) = %+v, want nil", tt.row, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("ParseUserHeader(%q) = nil, want %+v", tt.row, tt.want)
			}
			if *got != *tt.want {
				t.Errorf("ParseUserHeader(%q) = %+v, want %+v", tt.row, got, tt.want)
			}
		})
	}
}

func matrixFixtureRows(deptCell string) [][]string {
	dataRow := make([]string, 4)
	dataRow[3] = "07:0214:55"
	return [][]string{
		{"Att. Log Report"},
		{"Stat.Date: 2025-08-01 ~ 2025-08-31"},
		dayHeaderRow(),
		{"ID: 101", "Name: Jane Doe", deptCell},
		dataRow,
	}
}

func TestMatrixParserRoundTrip(t *testing.T) {
	rows := matrixFixtureRows("Dept.: SMP")

	layout, err := DetectLayout(rows, time.Now())
	if err != nil {
		t.Fatalf("DetectLayout returned error: %v", err)
	}

	parser := NewMatrixParser(layout, stubResolver{"101": 42}, "SMP")
	result := parser.Parse(rows)

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected parse errors: %v", result.Errors)
	}
	if len(result.Events) != 2 {
		t.Fatalf("events = %d, want 2", len(result.Events))
	}

	wantTimes := []time.Time{
		time.Date(2025, 8, 3, 7, 2, 0, 0, time.Local),
		time.Date(2025, 8, 3, 14, 55, 0, 0, time.Local),
	}
	for i, ev := range result.Events {
		if ev.MachineUserID != 42 {
			t.Errorf("event %d machine user = %d, want 42", i, ev.MachineUserID)
		}
		if !ev.EventTime.Equal(wantTimes[i]) {
			t.Errorf("event %d time = %v, want %v", i, ev.EventTime, wantTimes[i])
		}
		if ev.Payload["user_code"] != "101" {
			t.Errorf("event %d payload user_code = %v, want 101", i, ev.Payload["user_code"])
		}
	}
}

func TestMatrixParserDepartmentFilter(t *testing.T) {
	rows := matrixFixtureRows("Dept.: Security")

	layout, err := DetectLayout(rows, time.Now())
	if err != nil {
		t.Fatalf("DetectLayout returned error: %v", err)
	}

	parser := NewMatrixParser(layout, stubResolver{"101": 42}, "SMP")
	result := parser.Parse(rows)

	if len(result.Events) != 0 {
		t.Errorf("events = %d, want 0 for filtered department", len(result.Events))
	}
	if len(result.Errors) != 0 {
		t.Errorf("filtered blocks should not produce errors, got %v", result.Errors)
	}
}

func TestMatrixParserUnknownUser(t *testing.T) {
	rows := matrixFixtureRows("Dept.: SMP")

	layout, err := DetectLayout(rows, time.Now())
	if err != nil {
		t.Fatalf("DetectLayout returned error: %v", err)
	}

	parser := NewMatrixParser(layout, stubResolver{}, "SMP")
	result := parser.Parse(rows)

	if len(result.Events) != 0 {
		t.Errorf("events = %d, want 0 for unknown user", len(result.Events))
	}
	if len(result.Errors) != 1 {
		t.Fatalf("errors = %d, want 1", len(result.Errors))
	}
	if !strings.Contains(result.Errors[0], "not found on terminal") {
		t.Errorf("unexpected error text: %s", result.Errors[0])
	}
}

func TestMatrixParserEmitsColumnsInSheetOrder(t *testing.T) {
	layout := Layout{
		IsMatrix:   true,
		Year:       2025,
		Month:      8,
		DayColumns: map[int]int{6: 12, 2: 5, 4: 9},
	}
	dataRow := make([]string, 7)
	dataRow[2] = "07:00"
	dataRow[4] = "07:05"
	dataRow[6] = "07:10"
	rows := [][]string{
		{"ID: 101", "Name: Jane Doe", "Dept.: SMP"},
		dataRow,
	}

	parser := NewMatrixParser(layout, stubResolver{"101": 42}, "SMP")
	wantDays := []int{5, 9, 12}
	for run := 0; run < 5; run++ {
		result := parser.Parse(rows)
		if len(result.Events) != 3 {
			t.Fatalf("run %d events = %d, want 3", run, len(result.Events))
		}
		for i, ev := range result.Events {
			if ev.EventTime.Day() != wantDays[i] {
				t.Fatalf("run %d event %d day = %d, want %d", run, i, ev.EventTime.Day(), wantDays[i])
			}
		}
	}
}

func TestComposeEventTime(t *testing.T) {
	tests := []struct {
		name    string
		day     int
		clock   string
		want    time.Time
		wantErr string
	}{
		{
			name:  "valid",
			day:   3,
			clock: "07:02",
			want:  time.Date(2025, 8, 3, 7, 2, 0, 0, time.Local),
		},
		{
			name:    "missing separator",
			day:     3,
			clock:   "0702",
			wantErr: "invalid clock",
		},
		{
			name:    "non numeric",
			day:     3,
			clock:   "ab:cd",
			wantErr: "invalid clock",
		},
		{
			name:    "day past end of month",
			day:     32,
			clock:   "07:00",
			wantErr: "invalid date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := composeEventTime(2025, 8, tt.day, tt.clock)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("composeEventTime error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("composeEventTime returned error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("composeEventTime = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatrixParserInvalidCalendarDay(t *testing.T) {
	layout := Layout{
		IsMatrix:   true,
		Year:       2025,
		Month:      2,
		DayColumns: map[int]int{1: 30},
	}
	rows := [][]string{
		{"ID: 101", "Name: Jane Doe", "Dept.: SMP"},
		{"", "07:00"},
	}

	parser := NewMatrixParser(layout, stubResolver{"101": 42}, "SMP")
	result := parser.Parse(rows)

	if len(result.Events) != 0 {
		t.Errorf("events = %d, want 0 for impossible date", len(result.Events))
	}
	if len(result.Errors) != 1 {
		t.Fatalf("errors = %d, want 1", len(result.Errors))
	}
	if !strings.Contains(result.Errors[0], "invalid date") {
		t.Errorf("unexpected error text: %s", result.Errors[0])
	}
}
