package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/santoso/presensia/internal/app/ingest"
	"github.com/santoso/presensia/internal/app/models"
	"github.com/santoso/presensia/internal/app/models/dto"
	"github.com/santoso/presensia/internal/app/repositories"
	"github.com/santoso/presensia/internal/config"
	"github.com/santoso/presensia/internal/db"
	"github.com/santoso/presensia/internal/pkg/apperrors"
	"github.com/santoso/presensia/internal/pkg/filestorage"
	"github.com/santoso/presensia/internal/pkg/helpers"
	"github.com/santoso/presensia/internal/pkg/logger"
)

// IngestionService runs the raw-log pipeline: open the uploaded workbook,
// detect the sheet layout, parse scans and aggregate them into daily
// attendance records. One upload is one ImportBatch processed start to
// finish.
type IngestionService struct {
	pool           *pgxpool.Pool
	machineRepo    *repositories.MachineRepository
	batchRepo      *repositories.BatchRepository
	rawLogRepo     *repositories.RawLogRepository
	mappingRepo    *repositories.MappingRepository
	attendanceRepo *repositories.AttendanceRepository
	storage        filestorage.Storage

	targetDept       string
	schoolStartHour  int
	lateGraceMinutes int
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(
	pool *pgxpool.Pool,
	repos *repositories.Repositories,
	storage filestorage.Storage,
	cfg *config.Config,
) *IngestionService {
	return &IngestionService{
		pool:             pool,
		machineRepo:      repos.Machine,
		batchRepo:        repos.Batch,
		rawLogRepo:       repos.RawLog,
		mappingRepo:      repos.Mapping,
		attendanceRepo:   repos.Attendance,
		storage:          storage,
		targetDept:       cfg.Ingest.TargetDepartment,
		schoolStartHour:  cfg.Ingest.SchoolStartHour,
		lateGraceMinutes: cfg.Ingest.LateGraceMinutes,
	}
}

// registryResolver resolves terminal-local user codes against one
// machine's user registry, preloaded as a map.
type registryResolver struct {
	users map[string]*models.MachineUser
}

func (r registryResolver) Resolve(code string) (int64, bool) {
	user, ok := r.users[code]
	if !ok {
		return 0, false
	}
	return user.ID, true
}

// ImportLogs ingests one raw-log spreadsheet for the given terminal. The
// terminal must be registered and its user roster synced beforehand.
// Structural failures mark the batch failed and surface as an error;
// row-level problems accumulate in the result.
func (s *IngestionService) ImportLogs(ctx context.Context, machineCode, filename string, file io.Reader) (*dto.ImportLogsResult, error) {
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
		Source:     models.BatchSourceLogs,
	}
	if err := s.batchRepo.Create(ctx, batch); err != nil {
		return nil, err
	}

	result := &dto.ImportLogsResult{BatchID: batch.ID, Errors: []string{}}

	parsed, err := s.parseLogWorkbook(ctx, machine, storedPath, filename)
	if err != nil {
		s.failBatch(ctx, batch.ID, err)
		return nil, err
	}
	result.Errors = append(result.Errors, parsed.Errors...)

	created, aggErrors, err := s.persistAndAggregate(ctx, batch.ID, machine, parsed.Events)
	if err != nil {
		s.failBatch(ctx, batch.ID, err)
		return nil, err
	}

	result.LogsImported = len(parsed.Events)
	result.DailyRecordsCreated = created
	result.Errors = append(result.Errors, aggErrors...)

	status := models.BatchCompleted
	if len(result.Errors) > 0 {
		status = models.BatchCompletedWithErrors
	}
	if err := s.batchRepo.Finalize(ctx, batch.ID, status, result.LogsImported, result.Errors); err != nil {
		return nil, err
	}

	logger.Info().
		Int64("batchId", batch.ID).
		Str("machine", machineCode).
		Int("logs", result.LogsImported).
		Int("dailyRecords", result.DailyRecordsCreated).
		Int("errors", len(result.Errors)).
		Msg("Log import finished")

	return result, nil
}

// parseLogWorkbook opens the stored upload, picks the log sheet, detects
// the layout and runs the matching parser.
func (s *IngestionService) parseLogWorkbook(ctx context.Context, machine *models.Machine, storedPath, filename string) (*ingest.ParseResult, error) {
	f, err := s.storage.Open(storedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to reopen stored upload: %w", err)
	}
	defer f.Close()

	wb, err := ingest.OpenWorkbook(f, filename)
	if err != nil {
		return nil, apperrors.NewCustomError(apperrors.ErrUnreadableFile, err.Error())
	}

	sheet := wb.FindSheet("log")
	if sheet == nil {
		sheet = wb.FirstSheet()
	}
	if sheet == nil {
		return nil, apperrors.NewStructuralImportError(ingest.ErrNoLogSheet.Error())
	}

	layout, err := ingest.DetectLayout(sheet.Rows, time.Now())
	if err != nil {
		return nil, apperrors.NewStructuralImportError(err.Error())
	}

	users, err := s.machineRepo.GetUsersByMachine(ctx, machine.ID)
	if err != nil {
		return nil, err
	}
	resolver := registryResolver{users: users}

	var result ingest.ParseResult
	if layout.IsMatrix {
		result = ingest.NewMatrixParser(layout, resolver, s.targetDept).Parse(sheet.Rows)
	} else {
		result, err = ingest.ParseFlat(sheet.Rows, resolver)
		if err != nil {
			return nil, apperrors.NewStructuralImportError(err.Error())
		}
	}

	result.Errors = append(layout.Warnings, result.Errors...)
	return &result, nil
}

// persistAndAggregate writes the raw events and derives daily records in
// one transaction, so a mid-batch failure leaves no partial state.
func (s *IngestionService) persistAndAggregate(ctx context.Context, batchID int64, machine *models.Machine, events []ingest.RawEvent) (created int, aggErrors []string, err error) {
	usersByID, err := s.usersByID(ctx, machine.ID)
	if err != nil {
		return 0, nil, err
	}

	err = db.WithTransaction(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		logs := make([]*models.AttendanceRawLog, 0, len(events))
		for _, event := range events {
			payload, err := json.Marshal(event.Payload)
			if err != nil {
				return fmt.Errorf("failed to encode raw payload: %w", err)
			}
			logs = append(logs, &models.AttendanceRawLog{
				BatchID:       batchID,
				MachineUserID: event.MachineUserID,
				EventTime:     event.EventTime,
				RawPayload:    payload,
			})
		}
		if err := s.rawLogRepo.InsertLogs(ctx, tx, logs); err != nil {
			return err
		}

		created, aggErrors, err = s.aggregate(ctx, tx, events, usersByID)
		return err
	})
	if err != nil {
		return 0, nil, err
	}

	return created, aggErrors, nil
}

func (s *IngestionService) usersByID(ctx context.Context, machineID int64) (map[int64]*models.MachineUser, error) {
	byCode, err := s.machineRepo.GetUsersByMachine(ctx, machineID)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*models.MachineUser, len(byCode))
	for _, user := range byCode {
		byID[user.ID] = user
	}
	return byID, nil
}

// dayGroup keys one aggregation group: all scans of one terminal user on
// one calendar date.
type dayGroup struct {
	machineUserID int64
	date          time.Time
}

// aggregate folds raw events into daily records. Grouping and identity
// resolution are pure; only the mapping load and the upserts touch the
// database.
func (s *IngestionService) aggregate(ctx context.Context, tx pgx.Tx, events []ingest.RawEvent, usersByID map[int64]*models.MachineUser) (created int, aggErrors []string, err error) {
	if len(events) == 0 {
		return 0, nil, nil
	}

	mappings, err := s.mappingRepo.GetResolvedMappings(ctx, tx)
	if err != nil {
		return 0, nil, err
	}

	var records []*models.AttendanceDaily
	records, aggErrors = s.buildDailyRecords(events, mappings, usersByID)
	for _, record := range records {
		isNew, err := s.attendanceRepo.UpsertDaily(ctx, tx, record)
		if err != nil {
			return 0, nil, err
		}
		if isNew {
			created++
		}
	}

	return created, aggErrors, nil
}

// buildDailyRecords groups events per (terminal user, date), resolves each
// group through the identity mapping and derives one record per mapped
// group. Unmapped groups become one error per distinct (user, date), never
// records. Output order is fixed, so a re-run over the same events yields
// the same records and the same error log.
func (s *IngestionService) buildDailyRecords(events []ingest.RawEvent, mappings map[int64]repositories.ResolvedMapping, usersByID map[int64]*models.MachineUser) (records []*models.AttendanceDaily, errs []string) {
	groups := make(map[dayGroup][]time.Time)
	for _, event := range events {
		key := dayGroup{
			machineUserID: event.MachineUserID,
			date:          helpers.DateOnly(event.EventTime),
		}
		groups[key] = append(groups[key], event.EventTime)
	}

	keys := make([]dayGroup, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].machineUserID != keys[j].machineUserID {
			return keys[i].machineUserID < keys[j].machineUserID
		}
		return keys[i].date.Before(keys[j].date)
	})

	for _, key := range keys {
		mapping, ok := mappings[key.machineUserID]
		if !ok {
			name := ""
			if user := usersByID[key.machineUserID]; user != nil {
				name = user.DisplayName
			}
			errs = append(errs, fmt.Sprintf(
				"unmapped terminal user %d (%s) on %s: no daily record created",
				key.machineUserID, name, key.date.Format("2006-01-02")))
			continue
		}

		times := groups[key]
		sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

		checkIn := times[0]
		var checkOut *time.Time
		if len(times) > 1 {
			last := times[len(times)-1]
			checkOut = &last
		}

		records = append(records, &models.AttendanceDaily{
			StudentID: mapping.StudentID,
			Date:      key.date,
			CheckIn:   &checkIn,
			CheckOut:  checkOut,
			Status:    s.statusFor(checkIn),
		})
	}

	return records, errs
}

// statusFor derives the daily status from the check-in time. On or before
// the start-of-school boundary is present; everything after is late. The
// grace window does not yet map to a separate tier, it only bounds what a
// future policy may treat as mildly late.
func (s *IngestionService) statusFor(checkIn time.Time) models.AttendanceStatus {
	boundary := time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(),
		s.schoolStartHour, 0, 0, 0, checkIn.Location())
	if !checkIn.After(boundary) {
		return models.AttendancePresent
	}
	return models.AttendanceLate
}

// failBatch marks a batch failed with the fatal error recorded. A
// finalize failure at this point is only logged; the original error is
// what the caller needs.
func (s *IngestionService) failBatch(ctx context.Context, batchID int64, cause error) {
	if err := s.batchRepo.Finalize(ctx, batchID, models.BatchFailed, 0, []string{cause.Error()}); err != nil {
		logger.Error().Err(err).Int64("batchId", batchID).Msg("Failed to mark batch as failed")
	}
}

// IsStructural reports whether an import error is fatal to the batch as
// opposed to a row-level problem.
func IsStructural(err error) bool {
	return errors.Is(err, apperrors.ErrStructuralImport) || errors.Is(err, apperrors.ErrUnreadableFile)
}
