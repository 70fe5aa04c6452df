package dto

import "time"

// BatchResponse is one import batch in a listing
type BatchResponse struct {
	ID               int64     `json:"id" example:"3"`
	Filename         string    `json:"filename" example:"gate-01-august.xlsx"`
	Source           string    `json:"source" example:"logs"`
	Status           string    `json:"status" example:"completed"`
	RecordsProcessed int       `json:"recordsProcessed" example:"1250"`
	HasErrors        bool      `json:"hasErrors" example:"false"`
	CreatedAt        time.Time `json:"createdAt"`
}

// BatchDetailResponse adds the raw-log count and the error log
type BatchDetailResponse struct {
	BatchResponse
	RawLogCount int64    `json:"rawLogCount" example:"1250"`
	ErrorLog    []string `json:"errorLog,omitempty"`
}

// BatchMutationResult reports a delete or rollback
type BatchMutationResult struct {
	BatchID     int64 `json:"batchId" example:"3"`
	LogsDeleted int64 `json:"logsDeleted" example:"1250"`
}
