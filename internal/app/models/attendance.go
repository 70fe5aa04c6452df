package models

import "time"

// AttendanceStatus is the resolved status of one student on one day
type AttendanceStatus string

const (
	AttendancePresent    AttendanceStatus = "present"
	AttendanceLate       AttendanceStatus = "late"
	AttendanceAbsent     AttendanceStatus = "absent"
	AttendanceSick       AttendanceStatus = "sick"
	AttendancePermission AttendanceStatus = "permission"
)

// AttendanceRawLog is a single terminal scan, based on the
// 'attendance_raw_logs' table. Immutable once written.
type AttendanceRawLog struct {
	ID            int64     `json:"id" db:"id" example:"991"`
	BatchID       int64     `json:"batchId" db:"batch_id" example:"3"`
	MachineUserID int64     `json:"machineUserId" db:"machine_user_id" example:"42"`
	EventTime     time.Time `json:"eventTime" db:"event_time"`
	RawPayload    []byte    `json:"rawPayload,omitempty" db:"raw_payload"` // original cell/row as JSON, for audit

	// Relations (populated when needed)
	MachineUser *MachineUser `json:"machineUser,omitempty"`
}

// AttendanceDaily is the aggregated record for one (student, date), based
// on the 'attendance_daily' table. Upserted by the aggregator; check_out
// stays nil when the day has a single scan.
type AttendanceDaily struct {
	ID         int64            `json:"id" db:"id" example:"55"`
	StudentID  int64            `json:"studentId" db:"student_id" example:"7"`
	Date       time.Time        `json:"date" db:"attendance_date"`
	CheckIn    *time.Time       `json:"checkIn,omitempty" db:"check_in"`
	CheckOut   *time.Time       `json:"checkOut,omitempty" db:"check_out"`
	Status     AttendanceStatus `json:"status" db:"status" example:"present"`
	Notes      string           `json:"notes,omitempty" db:"notes"`
	RecordedBy string           `json:"recordedBy,omitempty" db:"recorded_by"` // teacher id for manual entries

	// Relations (populated when needed)
	Student *Student `json:"student,omitempty"`
}
