package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/santoso/presensia/internal/app/models"
	"github.com/santoso/presensia/internal/pkg/apperrors"
)

// BatchRepository handles database operations for import batches
type BatchRepository struct {
	db *pgxpool.Pool
}

// NewBatchRepository creates a new batch repository
func NewBatchRepository(db *pgxpool.Pool) *BatchRepository {
	return &BatchRepository{
		db: db,
	}
}

// Create opens a new batch in processing state
func (r *BatchRepository) Create(ctx context.Context, batch *models.ImportBatch) error {
	query := `
		INSERT INTO import_batches (filename, stored_path, source, status)
		VALUES ($1, NULLIF($2, ''), $3, $4)
		RETURNING id, created_at
	`

	batch.Status = models.BatchProcessing
	err := r.db.QueryRow(ctx, query,
		batch.Filename, batch.StoredPath, batch.Source, batch.Status).Scan(&batch.ID, &batch.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating import batch: %w", err)
	}

	return nil
}

// Finalize records the terminal status, processed count and error log of
// a finished batch
func (r *BatchRepository) Finalize(ctx context.Context, batchID int64, status models.BatchStatus, recordsProcessed int, errorLog []string) error {
	logJSON, err := json.Marshal(errorLog)
	if err != nil {
		return fmt.Errorf("error encoding batch error log: %w", err)
	}

	query := `
		UPDATE import_batches
		SET status = $1, records_processed = $2, error_log = $3::jsonb
		WHERE id = $4
	`

	cmdTag, err := r.db.Exec(ctx, query, status, recordsProcessed, string(logJSON), batchID)
	if err != nil {
		return fmt.Errorf("error finalizing import batch: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrBatchNotFound
	}

	return nil
}

// UpdateStatus moves a batch to a new lifecycle state
func (r *BatchRepository) UpdateStatus(ctx context.Context, q Querier, batchID int64, status models.BatchStatus) error {
	cmdTag, err := q.Exec(ctx,
		`UPDATE import_batches SET status = $1 WHERE id = $2`, status, batchID)
	if err != nil {
		return fmt.Errorf("error updating batch status: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrBatchNotFound
	}

	return nil
}

// GetByID retrieves one batch
func (r *BatchRepository) GetByID(ctx context.Context, batchID int64) (*models.ImportBatch, error) {
	query := `
		SELECT id, filename, COALESCE(stored_path, ''), source, status,
			records_processed, COALESCE(error_log, '[]'::jsonb), created_at
		FROM import_batches
		WHERE id = $1
	`

	var batch models.ImportBatch
	var logJSON []byte
	err := r.db.QueryRow(ctx, query, batchID).Scan(
		&batch.ID,
		&batch.Filename,
		&batch.StoredPath,
		&batch.Source,
		&batch.Status,
		&batch.RecordsProcessed,
		&logJSON,
		&batch.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrBatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving import batch: %w", err)
	}

	if err := json.Unmarshal(logJSON, &batch.ErrorLog); err != nil {
		return nil, fmt.Errorf("error decoding batch error log: %w", err)
	}

	return &batch, nil
}

// List retrieves batches newest first, optionally filtered by source
func (r *BatchRepository) List(ctx context.Context, source models.BatchSource, offset, limit int) ([]*models.ImportBatch, int64, error) {
	var total int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM import_batches WHERE ($1 = '' OR source = $1)`,
		string(source)).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting import batches: %w", err)
	}

	query := `
		SELECT id, filename, COALESCE(stored_path, ''), source, status,
			records_processed, COALESCE(error_log, '[]'::jsonb), created_at
		FROM import_batches
		WHERE ($1 = '' OR source = $1)
		ORDER BY id DESC
		OFFSET $2 LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, string(source), offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error retrieving import batches: %w", err)
	}
	defer rows.Close()

	var batches []*models.ImportBatch
	for rows.Next() {
		var batch models.ImportBatch
		var logJSON []byte
		if err := rows.Scan(
			&batch.ID,
			&batch.Filename,
			&batch.StoredPath,
			&batch.Source,
			&batch.Status,
			&batch.RecordsProcessed,
			&logJSON,
			&batch.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		if err := json.Unmarshal(logJSON, &batch.ErrorLog); err != nil {
			return nil, 0, fmt.Errorf("error decoding batch error log: %w", err)
		}
		batches = append(batches, &batch)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return batches, total, nil
}

// Delete removes a batch row. Raw logs cascade at the schema level;
// derived daily records are left untouched.
func (r *BatchRepository) Delete(ctx context.Context, q Querier, batchID int64) error {
	cmdTag, err := q.Exec(ctx, `DELETE FROM import_batches WHERE id = $1`, batchID)
	if err != nil {
		return fmt.Errorf("error deleting import batch: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrBatchNotFound
	}

	return nil
}
