package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/santoso/presensia/internal/app/models"
	"github.com/santoso/presensia/internal/pkg/apperrors"
)

// AttendanceRepository handles database operations for aggregated daily
// attendance records
type AttendanceRepository struct {
	db *pgxpool.Pool
}

// NewAttendanceRepository creates a new attendance repository
func NewAttendanceRepository(db *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{
		db: db,
	}
}

// UpsertDaily writes the aggregated record for one (student, date).
// Re-import overwrites the previous values, which keeps ingestion
// idempotent. Returns true when a new row was created.
func (r *AttendanceRepository) UpsertDaily(ctx context.Context, q Querier, record *models.AttendanceDaily) (bool, error) {
	query := `
		INSERT INTO attendance_daily (student_id, attendance_date, check_in, check_out, status, notes, recorded_by)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''))
		ON CONFLICT (student_id, attendance_date) DO UPDATE
		SET check_in = EXCLUDED.check_in,
			check_out = EXCLUDED.check_out,
			status = EXCLUDED.status,
			notes = EXCLUDED.notes
		RETURNING id, (xmax = 0)
	`

	var created bool
	err := q.QueryRow(ctx, query,
		record.StudentID,
		record.Date,
		record.CheckIn,
		record.CheckOut,
		record.Status,
		record.Notes,
		record.RecordedBy,
	).Scan(&record.ID, &created)
	if err != nil {
		return false, fmt.Errorf("error upserting daily attendance: %w", err)
	}

	return created, nil
}

// GetByStudentAndDate retrieves the daily record of one student on one day
func (r *AttendanceRepository) GetByStudentAndDate(ctx context.Context, studentID int64, date time.Time) (*models.AttendanceDaily, error) {
	query := `
		SELECT id, student_id, attendance_date, check_in, check_out, status,
			COALESCE(notes, ''), COALESCE(recorded_by, '')
		FROM attendance_daily
		WHERE student_id = $1 AND attendance_date = $2
	`

	var record models.AttendanceDaily
	err := r.db.QueryRow(ctx, query, studentID, date).Scan(
		&record.ID,
		&record.StudentID,
		&record.Date,
		&record.CheckIn,
		&record.CheckOut,
		&record.Status,
		&record.Notes,
		&record.RecordedBy,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving daily attendance: %w", err)
	}

	return &record, nil
}

// ListByDate retrieves all daily records of one day with students resolved
func (r *AttendanceRepository) ListByDate(ctx context.Context, date time.Time) ([]*models.AttendanceDaily, error) {
	query := `
		SELECT a.id, a.student_id, a.attendance_date, a.check_in, a.check_out, a.status,
			COALESCE(a.notes, ''), COALESCE(a.recorded_by, ''),
			s.id, s.nis, s.name, s.class_id, s.is_active
		FROM attendance_daily a
		JOIN students s ON s.id = a.student_id
		WHERE a.attendance_date = $1
		ORDER BY s.class_id, s.name
	`

	rows, err := r.db.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("error retrieving daily attendance: %w", err)
	}
	defer rows.Close()

	var records []*models.AttendanceDaily
	for rows.Next() {
		var record models.AttendanceDaily
		var student models.Student
		if err := rows.Scan(
			&record.ID,
			&record.StudentID,
			&record.Date,
			&record.CheckIn,
			&record.CheckOut,
			&record.Status,
			&record.Notes,
			&record.RecordedBy,
			&student.ID,
			&student.NIS,
			&student.Name,
			&student.ClassID,
			&student.IsActive,
		); err != nil {
			return nil, err
		}
		record.Student = &student
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
