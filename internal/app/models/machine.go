package models

import "time"

// Machine defines a physical fingerprint terminal based on the 'machines' table
type Machine struct {
	ID          int64      `json:"id" db:"id" example:"1"`                             // Unique identifier for the terminal record
	MachineCode string     `json:"machineCode" db:"machine_code" example:"GATE-01"`    // Human-assigned terminal code, unique
	Location    string     `json:"location" db:"location" example:"Main gate"`         // Physical placement, informational
	LastSyncAt  *time.Time `json:"lastSyncAt,omitempty" db:"last_sync_at"`             // Last successful user-roster sync
}

// MachineUser defines an identity as known by one terminal, based on the
// 'machine_users' table. MachineUserCode is unique per machine only; the
// same code on two terminals is two distinct rows.
type MachineUser struct {
	ID              int64  `json:"id" db:"id" example:"42"`
	MachineID       int64  `json:"machineId" db:"machine_id" example:"1"`
	MachineUserCode string `json:"machineUserCode" db:"machine_user_code" example:"101"` // Code on the terminal, e.g. "101"
	DisplayName     string `json:"displayName" db:"display_name" example:"Jane Doe"`     // Name as enrolled on the terminal
	Department      string `json:"department" db:"department" example:"SMP"`             // Terminal-side department label

	// Relations (populated when needed)
	Machine *Machine `json:"machine,omitempty"`
}
