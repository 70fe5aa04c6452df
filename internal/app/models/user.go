package models

import "time"

// User defines an operator account based on the 'users' table.
// Only back-office staff log in; students never authenticate here.
type User struct {
	ID           int64     `json:"id" db:"id" example:"1"`
	Username     string    `json:"username" db:"username" example:"admin"`
	PasswordHash string    `json:"-" db:"password_hash"`
	RoleType     RoleType  `json:"roleType" db:"role_type" example:"ADMIN"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
