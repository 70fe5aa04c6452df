package models

import "time"

// MappingStatus is the lifecycle state of an identity mapping
type MappingStatus string

const (
	// MappingSuggested means the link was produced by fuzzy matching and
	// still awaits human review.
	MappingSuggested MappingStatus = "suggested"
	// MappingVerified means an operator confirmed the link.
	MappingVerified MappingStatus = "verified"
)

// StudentMachineMap links one MachineUser to at most one Student, based on
// the 'student_machine_maps' table. A machine user has at most one row;
// rejection deletes the row so the user becomes eligible for re-suggestion.
type StudentMachineMap struct {
	ID              int64         `json:"id" db:"id" example:"12"`
	MachineUserID   int64         `json:"machineUserId" db:"machine_user_id" example:"42"`
	StudentID       *int64        `json:"studentId,omitempty" db:"student_id"`
	Status          MappingStatus `json:"status" db:"status" example:"suggested"`
	ConfidenceScore int           `json:"confidenceScore" db:"confidence_score" example:"87"` // 0-100
	VerifiedAt      *time.Time    `json:"verifiedAt,omitempty" db:"verified_at"`
	VerifiedBy      string        `json:"verifiedBy,omitempty" db:"verified_by"`

	// Relations (populated when needed)
	MachineUser *MachineUser `json:"machineUser,omitempty"`
	Student     *Student     `json:"student,omitempty"`
}
