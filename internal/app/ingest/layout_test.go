package ingest

import (
	"errors"
	"strconv"
	"testing"
	"time"
)

func dayHeaderRow() []string {
	row := make([]string, 0, 32)
	row = append(row, "")
	for d := 1; d <= 31; d++ {
		row = append(row, strconv.Itoa(d))
	}
	return row
}

func TestDetectLayoutMatrix(t *testing.T) {
	rows := [][]string{
		{"Att. Log Report"},
		{"Stat.Date: 2025-08-01 ~ 2025-08-31"},
		dayHeaderRow(),
		{"ID: 101", "Name: Jane Doe", "Dept.: SMP"},
	}

	layout, err := DetectLayout(rows, time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("DetectLayout returned error: %v", err)
	}
	if !layout.IsMatrix {
		t.Fatal("expected matrix layout")
	}
	if layout.Year != 2025 || layout.Month != 8 {
		t.Errorf("period = %d-%d, want 2025-8", layout.Year, layout.Month)
	}
	if len(layout.DayColumns) != 31 {
		t.Errorf("day columns = %d, want 31", len(layout.DayColumns))
	}
	if layout.DayColumns[3] != 3 {
		t.Errorf("column 3 maps to day %d, want 3", layout.DayColumns[3])
	}
	if len(layout.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", layout.Warnings)
	}
}

func TestDetectLayoutFlat(t *testing.T) {
	rows := [][]string{
		{"ID", "Name", "Time"},
		{"101", "Jane Doe", "2025-08-03 07:02:00"},
	}

	layout, err := DetectLayout(rows, time.Now())
	if err != nil {
		t.Fatalf("DetectLayout returned error: %v", err)
	}
	if layout.IsMatrix {
		t.Fatal("expected flat layout")
	}
}

func TestDetectLayoutSingleDateFallback(t *testing.T) {
	rows := [][]string{
		{"Report 2025-03-15"},
		dayHeaderRow(),
		{"ID: 101"},
	}

	layout, err := DetectLayout(rows, time.Now())
	if err != nil {
		t.Fatalf("DetectLayout returned error: %v", err)
	}
	if layout.Year != 2025 || layout.Month != 3 {
		t.Errorf("period = %d-%d, want 2025-3", layout.Year, layout.Month)
	}
}

func TestDetectLayoutPeriodFallsBackToNow(t *testing.T) {
	now := time.Date(2026, 2, 10, 0, 0, 0, 0, time.Local)
	rows := [][]string{
		{"no dates anywhere"},
		dayHeaderRow(),
		{"ID: 101"},
	}

	layout, err := DetectLayout(rows, now)
	if err != nil {
		t.Fatalf("DetectLayout returned error: %v", err)
	}
	if layout.Year != 2026 || layout.Month != 2 {
		t.Errorf("period = %d-%d, want 2026-2", layout.Year, layout.Month)
	}
	if len(layout.Warnings) == 0 {
		t.Error("expected a warning about the missing report period")
	}
}

func TestDetectLayoutNoDayHeader(t *testing.T) {
	rows := [][]string{
		{"Stat.Date: 2025-08-01 ~ 2025-08-31"},
		{"ID: 101", "Name: Jane Doe"},
		{"07:02", "15:00"},
	}

	_, err := DetectLayout(rows, time.Now())
	if !errors.Is(err, ErrNoDayHeader) {
		t.Fatalf("expected ErrNoDayHeader, got %v", err)
	}
}
