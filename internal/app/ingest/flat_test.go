package ingest

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseFlat(t *testing.T) {
	rows := [][]string{
		{"Attendance Export"},
		{"ID", "Name", "Waktu"},
		{"101", "Jane Doe", "2025-08-03 07:02:00"},
		{"205.0", "Budi Santoso", "2025-08-03 07:10"},
		{"101", "Jane Doe", ""},
		{"999", "Unknown Person", "2025-08-03 07:30:00"},
		{"", "", ""},
	}
	resolver := stubResolver{"101": 42, "205": 43}

	result, err := ParseFlat(rows, resolver)
	if err != nil {
		t.Fatalf("ParseFlat returned error: %v", err)
	}

	if len(result.Events) != 2 {
		t.Fatalf("events = %d, want 2", len(result.Events))
	}
	if result.Events[0].MachineUserID != 42 {
		t.Errorf("event 0 machine user = %d, want 42", result.Events[0].MachineUserID)
	}
	want := time.Date(2025, 8, 3, 7, 2, 0, 0, time.Local)
	if !result.Events[0].EventTime.Equal(want) {
		t.Errorf("event 0 time = %v, want %v", result.Events[0].EventTime, want)
	}
	if result.Events[1].MachineUserID != 43 {
		t.Errorf("event 1 machine user = %d, want 43 (float-typed code)", result.Events[1].MachineUserID)
	}

	if len(result.Errors) != 2 {
		t.Fatalf("errors = %d, want 2: %v", len(result.Errors), result.Errors)
	}
	if !strings.Contains(result.Errors[0], "missing event time") {
		t.Errorf("error 0 = %s, want missing event time", result.Errors[0])
	}
	if !strings.Contains(result.Errors[1], "not found on terminal") {
		t.Errorf("error 1 = %s, want unknown user", result.Errors[1])
	}
}

func TestParseFlatNoHeader(t *testing.T) {
	rows := [][]string{
		{"just", "some", "cells"},
		{"101", "Jane Doe", "2025-08-03 07:02:00"},
	}

	_, err := ParseFlat(rows, stubResolver{"101": 42})
	if !errors.Is(err, ErrNoTableHeader) {
		t.Fatalf("expected ErrNoTableHeader, got %v", err)
	}
}

func TestCoerceDateTime(t *testing.T) {
	tests := []struct {
		name    string
		cell    string
		want    time.Time
		wantErr bool
	}{
		{
			name: "datetime with seconds",
			cell: "2025-08-03 07:02:15",
			want: time.Date(2025, 8, 3, 7, 2, 15, 0, time.Local),
		},
		{
			name: "datetime without seconds",
			cell: "2025-08-03 07:02",
			want: time.Date(2025, 8, 3, 7, 2, 0, 0, time.Local),
		},
		{
			name: "day first",
			cell: "03/08/2025 07:02:00",
			want: time.Date(2025, 8, 3, 7, 2, 0, 0, time.Local),
		},
		{
			name: "excel serial",
			cell: "45870.5",
			want: time.Date(1899, 12, 30, 0, 0, 0, 0, time.Local).
				Add(45870*24*time.Hour + 12*time.Hour),
		},
		{
			name:    "garbage",
			cell:    "yesterday",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CoerceDateTime(tt.cell)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("CoerceDateTime(%q) succeeded, want error", tt.cell)
				}
				return
			}
			if err != nil {
				t.Fatalf("CoerceDateTime(%q) returned error: %v", tt.cell, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("CoerceDateTime(%q) = %v, want %v", tt.cell, got, tt.want)
			}
		})
	}
}
