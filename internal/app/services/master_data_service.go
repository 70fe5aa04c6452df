package services

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/santoso/presensia/internal/app/ingest"
	"github.com/santoso/presensia/internal/app/models"
	"github.com/santoso/presensia/internal/app/models/dto"
	"github.com/santoso/presensia/internal/app/repositories"
	"github.com/santoso/presensia/internal/pkg/apperrors"
	"github.com/santoso/presensia/internal/pkg/filestorage"
	"github.com/santoso/presensia/internal/pkg/logger"
)

const classMetaScanRows = 10

var (
	// "7 ( Tujuh ) - A" -> grade 7, section A
	classNamePattern = regexp.MustCompile(`(?i)(\d+)\s*\([^)]*\)\s*-?\s*([A-Za-z])`)
	// "Wali Kelas : Femi Nastiti, S. Pd"
	homeroomPattern = regexp.MustCompile(`(?i)Wali\s+Kelas\s*:?\s*(.+)`)
	// class sections inside one sheet start at a "Kls / Smt" row
	classStartPattern = regexp.MustCompile(`(?i)(?:Kls|Kelas)\s*/?\s*Smt`)
	nonUpperPattern   = regexp.MustCompile(`[^A-Z]`)
)

// MasterDataService imports the per-class student roster. One sheet may
// carry several class sections, each opened by a "Kls / Smt" metadata row
// and a homeroom-teacher row, followed by the student table.
type MasterDataService struct {
	studentRepo *repositories.StudentRepository
	batchRepo   *repositories.BatchRepository
	storage     filestorage.Storage
}

// NewMasterDataService creates a new master data service
func NewMasterDataService(repos *repositories.Repositories, storage filestorage.Storage) *MasterDataService {
	return &MasterDataService{
		studentRepo: repos.Student,
		batchRepo:   repos.Batch,
		storage:     storage,
	}
}

// ImportMasterData ingests a class-roster workbook or CSV and upserts
// teachers, classes and students. Section-level problems accumulate as
// errors; only an unreadable file fails the batch.
func (s *MasterDataService) ImportMasterData(ctx context.Context, filename string, file io.Reader) (*dto.MasterImportResult, error) {
	storedPath, err := s.storage.Save(file, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	batch := &models.ImportBatch{
		Filename:   filename,
		StoredPath: storedPath,
		Source:     models.BatchSourceMaster,
	}
	if err := s.batchRepo.Create(ctx, batch); err != nil {
		return nil, err
	}

	result := &dto.MasterImportResult{BatchID: batch.ID, Errors: []string{}}

	if err := s.importFromStored(ctx, storedPath, filename, result); err != nil {
		if finErr := s.batchRepo.Finalize(ctx, batch.ID, models.BatchFailed, 0, []string{err.Error()}); finErr != nil {
			logger.Error().Err(finErr).Int64("batchId", batch.ID).Msg("Failed to mark batch as failed")
		}
		return nil, err
	}

	status := models.BatchCompleted
	if len(result.Errors) > 0 {
		status = models.BatchCompletedWithErrors
	}
	if err := s.batchRepo.Finalize(ctx, batch.ID, status, result.StudentsImported, result.Errors); err != nil {
		return nil, err
	}

	logger.Info().
		Int64("batchId", batch.ID).
		Int("classes", result.ClassesProcessed).
		Int("students", result.StudentsImported).
		Msg("Master data import finished")

	return result, nil
}

func (s *MasterDataService) importFromStored(ctx context.Context, storedPath, filename string, result *dto.MasterImportResult) error {
	f, err := s.storage.Open(storedPath)
	if err != nil {
		return fmt.Errorf("failed to reopen stored upload: %w", err)
	}
	defer f.Close()

	wb, err := ingest.OpenWorkbook(f, filename)
	if err != nil {
		return apperrors.NewCustomError(apperrors.ErrUnreadableFile, err.Error())
	}

	for _, sheet := range wb.Sheets {
		for _, section := range splitClassSections(sheet.Rows) {
			if err := s.importClassSection(ctx, section, result); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("sheet %s: %v", sheet.Name, err))
			}
		}
	}
	return nil
}

// splitClassSections cuts a sheet into per-class row ranges at each
// "Kls / Smt" marker. A sheet with no marker is one section.
func splitClassSections(rows [][]string) [][][]string {
	var starts []int
	for i, row := range rows {
		if classStartPattern.MatchString(strings.Join(row, " ")) {
			starts = append(starts, i)
		}
	}
	if len(starts) == 0 {
		return [][][]string{rows}
	}

	sections := make([][][]string, 0, len(starts))
	for i, start := range starts {
		end := len(rows)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		sections = append(sections, rows[start:end])
	}
	return sections
}

// importClassSection extracts class name, homeroom teacher and the student
// table from one section and upserts them.
func (s *MasterDataService) importClassSection(ctx context.Context, rows [][]string, result *dto.MasterImportResult) error {
	className, teacherName, headerIdx := scanClassMeta(rows)
	if className == "" {
		return fmt.Errorf("class name not found (expected format '7 ( Tujuh ) - A')")
	}
	if headerIdx < 0 {
		return fmt.Errorf("student table header (NO. INDUK) not found")
	}

	teacherID := ""
	if teacherName != "" {
		teacherID = teacherIDFromName(teacherName)
		teacher := &models.Teacher{ID: teacherID, Name: teacherName, Role: "Wali Kelas"}
		if err := s.studentRepo.UpsertTeacher(ctx, teacher); err != nil {
			return err
		}
	}

	class := &models.Class{ID: className, Name: className, HomeroomTeacherID: teacherID}
	if err := s.studentRepo.UpsertClass(ctx, class); err != nil {
		return err
	}
	result.ClassesProcessed++

	for rowIdx := headerIdx + 1; rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		if len(row) < 3 {
			continue
		}

		// Positional: column 1 = NIS, column 2 = name.
		nis := strings.TrimSuffix(strings.TrimSpace(row[1]), ".0")
		name := strings.TrimSpace(row[2])
		if nis == "" || name == "" || !isDigits(nis) {
			continue
		}

		student := &models.Student{NIS: nis, Name: name, ClassID: className, IsActive: true}
		created, err := s.studentRepo.UpsertStudent(ctx, student)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowIdx, err))
			continue
		}
		if created {
			result.StudentsImported++
		}
	}
	return nil
}

// scanClassMeta scans a section's lead rows for the class name, the
// homeroom teacher and the student table header.
func scanClassMeta(rows [][]string) (className, teacherName string, headerIdx int) {
	headerIdx = -1
	limit := min(classMetaScanRows, len(rows))
	for i := 0; i < limit; i++ {
		rowText := strings.Join(rows[i], " ")

		if className == "" {
			if m := classNamePattern.FindStringSubmatch(rowText); m != nil {
				className = m[1] + strings.ToUpper(m[2])
			}
		}
		if teacherName == "" {
			if m := homeroomPattern.FindStringSubmatch(rowText); m != nil {
				teacherName = strings.Trim(strings.TrimSpace(m[1]), `":`)
				teacherName = strings.TrimSpace(teacherName)
			}
		}
		if headerIdx < 0 {
			upper := strings.ToUpper(rowText)
			if strings.Contains(upper, "NO. INDUK") || strings.Contains(upper, "NO INDUK") {
				headerIdx = i
			}
		}
	}
	return className, teacherName, headerIdx
}

// teacherIDFromName derives a stable teacher id from the name before the
// first comma: "Femi Nastiti, S. Pd" -> "T_FEMINASTIT".
func teacherIDFromName(name string) string {
	simple := strings.SplitN(name, ",", 2)[0]
	key := nonUpperPattern.ReplaceAllString(strings.ToUpper(simple), "")
	if len(key) > 10 {
		key = key[:10]
	}
	return "T_" + key
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
