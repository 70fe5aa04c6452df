package dto

import "time"

// AutoMapRequest tunes one auto-mapping run. Threshold zero means "use
// the configured default".
type AutoMapRequest struct {
	Threshold int `json:"threshold" binding:"omitempty,min=0,max=100" example:"90"`
}

// AutoMapResult summarizes one auto-mapping run
type AutoMapResult struct {
	UnmappedUsers      int      `json:"unmappedUsers" example:"12"`
	SuggestionsCreated int      `json:"suggestionsCreated" example:"9"`
	Errors             []string `json:"errors"`
}

// StudentSummary is the student side of a mapping payload
type StudentSummary struct {
	ID      int64  `json:"id" example:"7"`
	NIS     string `json:"nis" example:"20250101"`
	Name    string `json:"name" example:"Jane Doe"`
	ClassID string `json:"classId" example:"7A"`
}

// MachineUserSummary is the terminal side of a mapping payload
type MachineUserSummary struct {
	ID          int64  `json:"id" example:"42"`
	Code        string `json:"code" example:"101"`
	DisplayName string `json:"displayName" example:"Jane Doe"`
	MachineCode string `json:"machineCode" example:"GATE-01"`
}

// MappingResponse is one identity mapping with both sides resolved
type MappingResponse struct {
	ID              int64               `json:"id" example:"12"`
	MachineUser     MachineUserSummary  `json:"machineUser"`
	Student         *StudentSummary     `json:"student,omitempty"`
	Status          string              `json:"status" example:"suggested"`
	ConfidenceScore int                 `json:"confidenceScore" example:"87"`
	VerifiedAt      *time.Time          `json:"verifiedAt,omitempty"`
	VerifiedBy      string              `json:"verifiedBy,omitempty"`
}

// MatchSuggestion is one candidate student for an unmapped terminal user
type MatchSuggestion struct {
	Student         StudentSummary `json:"student"`
	ConfidenceScore int            `json:"confidenceScore" example:"74"`
}

// UnmappedUserResponse is one unmapped terminal user with its best
// candidate students, for the review UI.
type UnmappedUserResponse struct {
	MachineUser MachineUserSummary `json:"machineUser"`
	Suggestions []MatchSuggestion  `json:"suggestedMatches"`
}

// MappingStats counts mappings per status
type MappingStats struct {
	Suggested int `json:"suggested" example:"9"`
	Verified  int `json:"verified" example:"150"`
	Unmapped  int `json:"unmapped" example:"12"`
}

// VerifyItem is one decision in a bulk verification request
type VerifyItem struct {
	MappingID int64  `json:"mappingId" binding:"required" example:"12"`
	Status    string `json:"status" binding:"required,oneof=verified rejected" example:"verified"`
	Reason    string `json:"reason,omitempty" example:"confirmed by homeroom teacher"`
}

// BulkVerifyRequest applies many verification decisions at once
type BulkVerifyRequest struct {
	Mappings []VerifyItem `json:"mappings" binding:"required,min=1,dive"`
}

// BulkVerifyResult aggregates per-item outcomes; items are independent,
// so failures never abort the rest of the request.
type BulkVerifyResult struct {
	Verified int      `json:"verified" example:"7"`
	Rejected int      `json:"rejected" example:"2"`
	Failed   int      `json:"failed" example:"1"`
	Errors   []string `json:"errors"`
}
