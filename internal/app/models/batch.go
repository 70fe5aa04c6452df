package models

import "time"

// BatchSource is the kind of file an import batch was created from
type BatchSource string

const (
	BatchSourceMaster BatchSource = "master" // student roster per class
	BatchSourceUsers  BatchSource = "users"  // terminal user roster sync
	BatchSourceLogs   BatchSource = "logs"   // raw scan events
)

// BatchStatus is the lifecycle state of an import batch
type BatchStatus string

const (
	BatchProcessing          BatchStatus = "processing"
	BatchCompleted           BatchStatus = "completed"
	BatchCompletedWithErrors BatchStatus = "completed_with_errors"
	BatchFailed              BatchStatus = "failed"
	BatchRolledBack          BatchStatus = "rolled_back"
)

// ImportBatch records one ingestion run, based on the 'import_batches'
// table. Raw logs cascade with the batch; derived daily records do not.
type ImportBatch struct {
	ID               int64       `json:"id" db:"id" example:"3"`
	Filename         string      `json:"filename" db:"filename" example:"gate-01-august.xlsx"`
	StoredPath       string      `json:"storedPath,omitempty" db:"stored_path"` // retained upload for audit
	Source           BatchSource `json:"source" db:"source" example:"logs"`
	Status           BatchStatus `json:"status" db:"status" example:"completed"`
	RecordsProcessed int         `json:"recordsProcessed" db:"records_processed" example:"1250"`
	ErrorLog         []string    `json:"errorLog,omitempty" db:"error_log"`
	CreatedAt        time.Time   `json:"createdAt" db:"created_at"`
}
