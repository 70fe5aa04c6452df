package dto

// ImportLogsResult is returned by the raw-log ingestion entry point.
// Errors are row-level; a structural failure surfaces as an API error
// instead, with the batch marked failed.
type ImportLogsResult struct {
	BatchID             int64    `json:"batchId" example:"3"`
	LogsImported        int      `json:"logsImported" example:"1250"`
	DailyRecordsCreated int      `json:"dailyRecordsCreated" example:"412"`
	Errors              []string `json:"errors"`
}

// SyncUsersResult is returned by the terminal user-roster sync
type SyncUsersResult struct {
	BatchID      int64    `json:"batchId" example:"2"`
	UsersSynced  int      `json:"usersSynced" example:"180"`
	UsersUpdated int      `json:"usersUpdated" example:"4"`
	Errors       []string `json:"errors"`
}

// MasterImportResult is returned by the per-class student roster import
type MasterImportResult struct {
	BatchID          int64    `json:"batchId" example:"1"`
	ClassesProcessed int      `json:"classesProcessed" example:"3"`
	StudentsImported int      `json:"studentsImported" example:"96"`
	Errors           []string `json:"errors"`
}
