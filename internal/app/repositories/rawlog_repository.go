package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/santoso/presensia/internal/app/models"
)

// RawLogRepository handles database operations for raw scan events
type RawLogRepository struct {
	db *pgxpool.Pool
}

// NewRawLogRepository creates a new raw log repository
func NewRawLogRepository(db *pgxpool.Pool) *RawLogRepository {
	return &RawLogRepository{
		db: db,
	}
}

// InsertLogs bulk-inserts scan events for one batch inside the caller's
// transaction
func (r *RawLogRepository) InsertLogs(ctx context.Context, tx pgx.Tx, logs []*models.AttendanceRawLog) error {
	if len(logs) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(logs))
	for _, log := range logs {
		rows = append(rows, []any{log.BatchID, log.MachineUserID, log.EventTime, log.RawPayload})
	}

	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"attendance_raw_logs"},
		[]string{"batch_id", "machine_user_id", "event_time", "raw_payload"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("error inserting raw logs: %w", err)
	}

	return nil
}

// ListByBatch retrieves all scan events of one batch, oldest first
func (r *RawLogRepository) ListByBatch(ctx context.Context, q Querier, batchID int64) ([]*models.AttendanceRawLog, error) {
	query := `
		SELECT id, batch_id, machine_user_id, event_time, raw_payload
		FROM attendance_raw_logs
		WHERE batch_id = $1
		ORDER BY machine_user_id, event_time
	`

	rows, err := q.Query(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving raw logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.AttendanceRawLog
	for rows.Next() {
		var log models.AttendanceRawLog
		if err := rows.Scan(
			&log.ID,
			&log.BatchID,
			&log.MachineUserID,
			&log.EventTime,
			&log.RawPayload,
		); err != nil {
			return nil, err
		}
		logs = append(logs, &log)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return logs, nil
}

// CountByBatch counts the scan events stored for one batch
func (r *RawLogRepository) CountByBatch(ctx context.Context, batchID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM attendance_raw_logs WHERE batch_id = $1`, batchID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting raw logs: %w", err)
	}

	return count, nil
}

// DeleteByBatch removes all scan events of one batch and reports how many
// rows went away
func (r *RawLogRepository) DeleteByBatch(ctx context.Context, q Querier, batchID int64) (int64, error) {
	cmdTag, err := q.Exec(ctx,
		`DELETE FROM attendance_raw_logs WHERE batch_id = $1`, batchID)
	if err != nil {
		return 0, fmt.Errorf("error deleting raw logs: %w", err)
	}

	return cmdTag.RowsAffected(), nil
}
