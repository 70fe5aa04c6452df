package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/santoso/presensia/internal/app/ingest"
	"github.com/santoso/presensia/internal/app/models"
	"github.com/santoso/presensia/internal/app/models/dto"
	"github.com/santoso/presensia/internal/app/repositories"
	"github.com/santoso/presensia/internal/config"
	"github.com/santoso/presensia/internal/pkg/apperrors"
	"github.com/santoso/presensia/internal/pkg/filestorage"
	"github.com/santoso/presensia/internal/pkg/logger"
)

const rosterHeaderScanRows = 20

// MachineService owns the terminal registry: machine records and the
// user-roster sync from a terminal's statistics sheet.
type MachineService struct {
	machineRepo *repositories.MachineRepository
	batchRepo   *repositories.BatchRepository
	storage     filestorage.Storage
	targetDept  string
}

// NewMachineService creates a new machine service
func NewMachineService(repos *repositories.Repositories, storage filestorage.Storage, cfg *config.Config) *MachineService {
	return &MachineService{
		machineRepo: repos.Machine,
		batchRepo:   repos.Batch,
		storage:     storage,
		targetDept:  cfg.Ingest.TargetDepartment,
	}
}

// RegisterMachine registers a new terminal by code
func (s *MachineService) RegisterMachine(ctx context.Context, machineCode, location string) (*models.Machine, error) {
	if _, err := s.machineRepo.GetByCode(ctx, machineCode); err == nil {
		return nil, apperrors.ErrMachineAlreadyExists
	} else if !apperrors.Is(err, apperrors.ErrMachineNotFound) {
		return nil, err
	}

	machine := &models.Machine{MachineCode: machineCode, Location: location}
	if err := s.machineRepo.Create(ctx, machine); err != nil {
		return nil, err
	}
	return machine, nil
}

// SyncUsers imports a terminal's user roster from the statistics sheet of
// its export workbook. Existing users are refreshed, new ones created;
// users outside the target department are skipped.
func (s *MachineService) SyncUsers(ctx context.Context, machineCode, filename string, file io.Reader) (*dto.SyncUsersResult, error) {
	machine, err := s.machineRepo.GetByCode(ctx, machineCode)
	if err != nil {
		return nil, err
	}

	storedPath, err := s.storage.Save(file, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	batch := &models.ImportBatch{
		Filename:   filename,
		StoredPath: storedPath,
		Source:     models.BatchSourceUsers,
	}
	if err := s.batchRepo.Create(ctx, batch); err != nil {
		return nil, err
	}

	result := &dto.SyncUsersResult{BatchID: batch.ID, Errors: []string{}}

	if err := s.syncFromStored(ctx, machine, storedPath, filename, result); err != nil {
		if finErr := s.batchRepo.Finalize(ctx, batch.ID, models.BatchFailed, 0, []string{err.Error()}); finErr != nil {
			logger.Error().Err(finErr).Int64("batchId", batch.ID).Msg("Failed to mark batch as failed")
		}
		return nil, err
	}

	status := models.BatchCompleted
	if len(result.Errors) > 0 {
		status = models.BatchCompletedWithErrors
	}
	processed := result.UsersSynced + result.UsersUpdated
	if err := s.batchRepo.Finalize(ctx, batch.ID, status, processed, result.Errors); err != nil {
		return nil, err
	}

	logger.Info().
		Int64("batchId", batch.ID).
		Str("machine", machineCode).
		Int("synced", result.UsersSynced).
		Int("updated", result.UsersUpdated).
		Msg("User roster sync finished")

	return result, nil
}

func (s *MachineService) syncFromStored(ctx context.Context, machine *models.Machine, storedPath, filename string, result *dto.SyncUsersResult) error {
	f, err := s.storage.Open(storedPath)
	if err != nil {
		return fmt.Errorf("failed to reopen stored upload: %w", err)
	}
	defer f.Close()

	wb, err := ingest.OpenWorkbook(f, filename)
	if err != nil {
		return apperrors.NewCustomError(apperrors.ErrUnreadableFile, err.Error())
	}

	sheet := wb.FindSheet("stat")
	if sheet == nil {
		return apperrors.NewStructuralImportError("no sheet found with 'stat' in name")
	}

	headerIdx, idCol, nameCol, deptCol := findRosterHeader(sheet.Rows)
	if headerIdx < 0 {
		return apperrors.NewStructuralImportError("no table header (ID, Name) found in statistics sheet")
	}

	existing, err := s.machineRepo.GetUsersByMachine(ctx, machine.ID)
	if err != nil {
		return err
	}

	for rowIdx := headerIdx + 1; rowIdx < len(sheet.Rows); rowIdx++ {
		row := sheet.Rows[rowIdx]
		if idCol >= len(row) || nameCol >= len(row) {
			continue
		}

		code := strings.TrimSuffix(strings.TrimSpace(row[idCol]), ".0")
		name := strings.TrimSpace(row[nameCol])
		if code == "" || name == "" || strings.EqualFold(code, "id") {
			continue
		}

		dept := ""
		if deptCol >= 0 && deptCol < len(row) {
			dept = strings.TrimSpace(row[deptCol])
		}
		if dept != "" && s.targetDept != "" && !strings.EqualFold(dept, s.targetDept) {
			continue
		}

		if user, ok := existing[code]; ok {
			if user.DisplayName == name && user.Department == dept {
				continue
			}
			user.DisplayName = name
			user.Department = dept
			if err := s.machineRepo.UpdateUser(ctx, user); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowIdx, err))
				continue
			}
			result.UsersUpdated++
		} else {
			user := &models.MachineUser{
				MachineID:       machine.ID,
				MachineUserCode: code,
				DisplayName:     name,
				Department:      dept,
			}
			if err := s.machineRepo.CreateUser(ctx, user); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowIdx, err))
				continue
			}
			existing[code] = user
			result.UsersSynced++
		}
	}

	return s.machineRepo.TouchLastSync(ctx, machine.ID, time.Now())
}

// findRosterHeader scans lead rows for one carrying an ID column and a
// name column; the department column is optional. Returns headerIdx -1
// when no row qualifies.
func findRosterHeader(rows [][]string) (headerIdx, idCol, nameCol, deptCol int) {
	limit := min(rosterHeaderScanRows, len(rows))
	for i := 0; i < limit; i++ {
		idCol, nameCol, deptCol = -1, -1, -1
		for col, cell := range rows[i] {
			switch strings.ToLower(strings.TrimSpace(cell)) {
			case "id":
				if idCol < 0 {
					idCol = col
				}
			case "name", "nama":
				if nameCol < 0 {
					nameCol = col
				}
			case "department", "departemen", "dept":
				if deptCol < 0 {
					deptCol = col
				}
			}
		}
		if idCol >= 0 && nameCol >= 0 {
			return i, idCol, nameCol, deptCol
		}
	}
	return -1, -1, -1, -1
}
