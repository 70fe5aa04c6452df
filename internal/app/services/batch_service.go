package services

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/santoso/presensia/internal/app/models"
	"github.com/santoso/presensia/internal/app/models/dto"
	"github.com/santoso/presensia/internal/app/repositories"
	"github.com/santoso/presensia/internal/db"
	"github.com/santoso/presensia/internal/pkg/apperrors"
	"github.com/santoso/presensia/internal/pkg/filestorage"
	"github.com/santoso/presensia/internal/pkg/logger"
)

// BatchService administers import batches: listing, inspection, delete
// and rollback. Both delete and rollback cascade only the raw scan
// events; derived daily records stay untouched.
type BatchService struct {
	pool       *pgxpool.Pool
	batchRepo  *repositories.BatchRepository
	rawLogRepo *repositories.RawLogRepository
	storage    filestorage.Storage
}

// NewBatchService creates a new batch service
func NewBatchService(pool *pgxpool.Pool, repos *repositories.Repositories, storage filestorage.Storage) *BatchService {
	return &BatchService{
		pool:       pool,
		batchRepo:  repos.Batch,
		rawLogRepo: repos.RawLog,
		storage:    storage,
	}
}

// ListBatches returns a page of batches, optionally filtered by source
func (s *BatchService) ListBatches(ctx context.Context, source models.BatchSource, offset, limit int) ([]dto.BatchResponse, int64, error) {
	batches, total, err := s.batchRepo.List(ctx, source, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]dto.BatchResponse, 0, len(batches))
	for _, batch := range batches {
		responses = append(responses, toBatchResponse(batch))
	}
	return responses, total, nil
}

// GetBatch returns one batch with its raw-log count and error log
func (s *BatchService) GetBatch(ctx context.Context, batchID int64) (*dto.BatchDetailResponse, error) {
	batch, err := s.batchRepo.GetByID(ctx, batchID)
	if err != nil {
		return nil, err
	}

	count, err := s.rawLogRepo.CountByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	return &dto.BatchDetailResponse{
		BatchResponse: toBatchResponse(batch),
		RawLogCount:   count,
		ErrorLog:      batch.ErrorLog,
	}, nil
}

// DeleteBatch removes a batch and its raw scan events. The stored upload
// is removed best-effort after the transaction commits.
func (s *BatchService) DeleteBatch(ctx context.Context, batchID int64) (*dto.BatchMutationResult, error) {
	batch, err := s.batchRepo.GetByID(ctx, batchID)
	if err != nil {
		return nil, err
	}

	var logsDeleted int64
	err = db.WithTransaction(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		logsDeleted, err = s.rawLogRepo.DeleteByBatch(ctx, tx, batchID)
		if err != nil {
			return err
		}
		return s.batchRepo.Delete(ctx, tx, batchID)
	})
	if err != nil {
		return nil, err
	}

	if batch.StoredPath != "" {
		if err := s.storage.Remove(batch.StoredPath); err != nil {
			logger.Warn().Err(err).Str("path", batch.StoredPath).Msg("Failed to remove stored upload")
		}
	}

	logger.Info().Int64("batchId", batchID).Int64("logs", logsDeleted).Msg("Batch deleted")
	return &dto.BatchMutationResult{BatchID: batchID, LogsDeleted: logsDeleted}, nil
}

// RollbackBatch removes a batch's raw scan events but keeps the batch row
// marked rolled_back for audit. The stored upload stays available for a
// later re-import.
func (s *BatchService) RollbackBatch(ctx context.Context, batchID int64) (*dto.BatchMutationResult, error) {
	batch, err := s.batchRepo.GetByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if batch.Status == models.BatchRolledBack {
		return nil, apperrors.NewConflictError("batch is already rolled back")
	}

	var logsDeleted int64
	err = db.WithTransaction(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		logsDeleted, err = s.rawLogRepo.DeleteByBatch(ctx, tx, batchID)
		if err != nil {
			return err
		}
		return s.batchRepo.UpdateStatus(ctx, tx, batchID, models.BatchRolledBack)
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("batchId", batchID).Int64("logs", logsDeleted).Msg("Batch rolled back")
	return &dto.BatchMutationResult{BatchID: batchID, LogsDeleted: logsDeleted}, nil
}

func toBatchResponse(batch *models.ImportBatch) dto.BatchResponse {
	return dto.BatchResponse{
		ID:               batch.ID,
		Filename:         batch.Filename,
		Source:           string(batch.Source),
		Status:           string(batch.Status),
		RecordsProcessed: batch.RecordsProcessed,
		HasErrors:        len(batch.ErrorLog) > 0,
		CreatedAt:        batch.CreatedAt,
	}
}
