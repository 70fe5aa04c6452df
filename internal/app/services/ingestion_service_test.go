package services

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/santoso/presensia/internal/app/ingest"
	"github.com/santoso/presensia/internal/app/models"
	"github.com/santoso/presensia/internal/app/repositories"
)

func TestBuildDailyRecords(t *testing.T) {
	svc := &IngestionService{schoolStartHour: 7}

	events := []ingest.RawEvent{
		{MachineUserID: 42, EventTime: time.Date(2025, 8, 3, 14, 55, 0, 0, time.Local)},
		{MachineUserID: 42, EventTime: time.Date(2025, 8, 3, 7, 2, 0, 0, time.Local)},
		{MachineUserID: 42, EventTime: time.Date(2025, 8, 4, 6, 50, 0, 0, time.Local)},
		{MachineUserID: 99, EventTime: time.Date(2025, 8, 3, 7, 10, 0, 0, time.Local)},
		{MachineUserID: 99, EventTime: time.Date(2025, 8, 3, 15, 0, 0, 0, time.Local)},
		{MachineUserID: 99, EventTime: time.Date(2025, 8, 4, 7, 5, 0, 0, time.Local)},
	}
	mappings := map[int64]repositories.ResolvedMapping{
		42: {StudentID: 7, Status: models.MappingVerified},
	}
	users := map[int64]*models.MachineUser{
		99: {ID: 99, DisplayName: "Rudi Hartono"},
	}

	records, errs := svc.buildDailyRecords(events, mappings, users)

	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}

	first := records[0]
	if first.StudentID != 7 {
		t.Errorf("record 0 student = %d, want 7", first.StudentID)
	}
	wantIn := time.Date(2025, 8, 3, 7, 2, 0, 0, time.Local)
	wantOut := time.Date(2025, 8, 3, 14, 55, 0, 0, time.Local)
	if first.CheckIn == nil || !first.CheckIn.Equal(wantIn) {
		t.Errorf("record 0 check_in = %v, want %v", first.CheckIn, wantIn)
	}
	if first.CheckOut == nil || !first.CheckOut.Equal(wantOut) {
		t.Errorf("record 0 check_out = %v, want %v", first.CheckOut, wantOut)
	}
	if first.Status != models.AttendanceLate {
		t.Errorf("record 0 status = %s, want %s", first.Status, models.AttendanceLate)
	}

	second := records[1]
	if second.CheckOut != nil {
		t.Errorf("single-scan day check_out = %v, want nil", second.CheckOut)
	}
	if second.Status != models.AttendancePresent {
		t.Errorf("record 1 status = %s, want %s", second.Status, models.AttendancePresent)
	}

	if len(errs) != 2 {
		t.Fatalf("errors = %d, want one per unmapped (user, date): %v", len(errs), errs)
	}
	for i, msg := range errs {
		if !strings.Contains(msg, "unmapped terminal user 99") || !strings.Contains(msg, "Rudi Hartono") {
			t.Errorf("error %d text = %s", i, msg)
		}
	}
	if !strings.Contains(errs[0], "2025-08-03") || !strings.Contains(errs[1], "2025-08-04") {
		t.Errorf("errors not in date order: %v", errs)
	}
}

func TestBuildDailyRecordsDeterministic(t *testing.T) {
	svc := &IngestionService{schoolStartHour: 7}

	events := []ingest.RawEvent{
		{MachineUserID: 3, EventTime: time.Date(2025, 8, 5, 7, 4, 0, 0, time.Local)},
		{MachineUserID: 1, EventTime: time.Date(2025, 8, 5, 6, 58, 0, 0, time.Local)},
		{MachineUserID: 2, EventTime: time.Date(2025, 8, 5, 6, 45, 0, 0, time.Local)},
		{MachineUserID: 1, EventTime: time.Date(2025, 8, 4, 7, 30, 0, 0, time.Local)},
		{MachineUserID: 2, EventTime: time.Date(2025, 8, 5, 13, 40, 0, 0, time.Local)},
	}
	mappings := map[int64]repositories.ResolvedMapping{
		1: {StudentID: 11, Status: models.MappingVerified},
		2: {StudentID: 12, Status: models.MappingSuggested},
	}

	firstRecords, firstErrs := svc.buildDailyRecords(events, mappings, nil)
	for run := 0; run < 5; run++ {
		records, errs := svc.buildDailyRecords(events, mappings, nil)
		if !reflect.DeepEqual(records, firstRecords) {
			t.Fatalf("run %d records differ:\n%v\n%v", run, records, firstRecords)
		}
		if !reflect.DeepEqual(errs, firstErrs) {
			t.Fatalf("run %d errors differ: %v vs %v", run, errs, firstErrs)
		}
	}

	wantStudents := []int64{11, 11, 12}
	if len(firstRecords) != len(wantStudents) {
		t.Fatalf("records = %d, want %d", len(firstRecords), len(wantStudents))
	}
	for i, want := range wantStudents {
		if firstRecords[i].StudentID != want {
			t.Errorf("record %d student = %d, want %d", i, firstRecords[i].StudentID, want)
		}
	}
}

func TestStatusFor(t *testing.T) {
	svc := &IngestionService{schoolStartHour: 7, lateGraceMinutes: 15}

	tests := []struct {
		name    string
		checkIn time.Time
		want    models.AttendanceStatus
	}{
		{
			name:    "before start",
			checkIn: time.Date(2025, 8, 3, 6, 59, 0, 0, time.Local),
			want:    models.AttendancePresent,
		},
		{
			name:    "exactly at start",
			checkIn: time.Date(2025, 8, 3, 7, 0, 0, 0, time.Local),
			want:    models.AttendancePresent,
		},
		{
			name:    "one minute past",
			checkIn: time.Date(2025, 8, 3, 7, 1, 0, 0, time.Local),
			want:    models.AttendanceLate,
		},
		{
			name:    "within grace window",
			checkIn: time.Date(2025, 8, 3, 7, 15, 0, 0, time.Local),
			want:    models.AttendanceLate,
		},
		{
			name:    "mid morning",
			checkIn: time.Date(2025, 8, 3, 9, 30, 0, 0, time.Local),
			want:    models.AttendanceLate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.statusFor(tt.checkIn); got != tt.want {
				t.Errorf("statusFor(%v) = %s, want %s", tt.checkIn, got, tt.want)
			}
		})
	}
}
