package helpers

import (
	"testing"
	"time"
)

func TestCalculateOffsetLimit(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
		wantOffset uint64
		wantLimit  int
	}{
		{name: "first page", page: 1, size: 20, wantOffset: 0, wantLimit: 20},
		{name: "third page", page: 3, size: 10, wantOffset: 20, wantLimit: 10},
		{name: "zero page falls back", page: 0, size: 10, wantOffset: 0, wantLimit: 10},
		{name: "oversized page size capped", page: 2, size: 500, wantOffset: 20, wantLimit: DefaultPageSize},
		{name: "zero size falls back", page: 2, size: 0, wantOffset: 20, wantLimit: DefaultPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, limit := CalculateOffsetLimit(tt.page, tt.size)
			if offset != tt.wantOffset || limit != tt.wantLimit {
				t.Errorf("CalculateOffsetLimit(%d, %d) = (%d, %d), want (%d, %d)",
					tt.page, tt.size, offset, limit, tt.wantOffset, tt.wantLimit)
			}
		})
	}
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(45, 2, 20)
	if info.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", info.TotalPages)
	}
	if info.CurrentPage != 2 {
		t.Errorf("CurrentPage = %d, want 2", info.CurrentPage)
	}

	empty := NewPaginationInfo(0, 1, 20)
	if empty.TotalPages != 1 {
		t.Errorf("TotalPages for empty result = %d, want 1", empty.TotalPages)
	}

	clamped := NewPaginationInfo(10, 5, 20)
	if clamped.CurrentPage != 1 {
		t.Errorf("CurrentPage past the end = %d, want 1", clamped.CurrentPage)
	}
}

func TestDateOnly(t *testing.T) {
	in := time.Date(2025, 8, 3, 14, 55, 31, 999, time.Local)
	got := DateOnly(in)
	want := time.Date(2025, 8, 3, 0, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("DateOnly(%v) = %v, want %v", in, got, want)
	}
}

func TestParseDuration(t *testing.T) {
	if got := ParseDuration("90m", time.Hour); got != 90*time.Minute {
		t.Errorf("ParseDuration(90m) = %v, want 90m", got)
	}
	if got := ParseDuration("not-a-duration", time.Hour); got != time.Hour {
		t.Errorf("ParseDuration(invalid) = %v, want the default 1h", got)
	}
}
