package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/santoso/presensia/internal/app/models"
	"github.com/santoso/presensia/internal/pkg/apperrors"
)

// StudentRepository handles database operations for the student registry
type StudentRepository struct {
	db *pgxpool.Pool
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
	}
}

// GetByID retrieves a student by primary key
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	query := `
		SELECT id, nis, name, class_id, is_active
		FROM students
		WHERE id = $1
	`

	var student models.Student
	err := r.db.QueryRow(ctx, query, id).Scan(
		&student.ID,
		&student.NIS,
		&student.Name,
		&student.ClassID,
		&student.IsActive,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrStudentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return &student, nil
}

// GetByNIS retrieves a student by school registry number
func (r *StudentRepository) GetByNIS(ctx context.Context, nis string) (*models.Student, error) {
	query := `
		SELECT id, nis, name, class_id, is_active
		FROM students
		WHERE nis = $1
	`

	var student models.Student
	err := r.db.QueryRow(ctx, query, nis).Scan(
		&student.ID,
		&student.NIS,
		&student.Name,
		&student.ClassID,
		&student.IsActive,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrStudentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return &student, nil
}

// GetActiveStudents retrieves all active students, the matching pool for
// auto-mapping runs
func (r *StudentRepository) GetActiveStudents(ctx context.Context) ([]models.Student, error) {
	query := `
		SELECT id, nis, name, class_id, is_active
		FROM students
		WHERE is_active = TRUE
		ORDER BY class_id, name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error retrieving active students: %w", err)
	}
	defer rows.Close()

	var students []models.Student
	for rows.Next() {
		var student models.Student
		if err := rows.Scan(
			&student.ID,
			&student.NIS,
			&student.Name,
			&student.ClassID,
			&student.IsActive,
		); err != nil {
			return nil, err
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return students, nil
}

// UpsertStudent inserts a student or refreshes name, class and active flag
// when the NIS already exists. Returns true when a new row was created.
func (r *StudentRepository) UpsertStudent(ctx context.Context, student *models.Student) (bool, error) {
	query := `
		INSERT INTO students (nis, name, class_id, is_active)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (nis) DO UPDATE
		SET name = EXCLUDED.name, class_id = EXCLUDED.class_id, is_active = EXCLUDED.is_active
		RETURNING id, (xmax = 0)
	`

	var created bool
	err := r.db.QueryRow(ctx, query,
		student.NIS, student.Name, student.ClassID, student.IsActive).Scan(&student.ID, &created)
	if err != nil {
		return false, fmt.Errorf("error upserting student: %w", err)
	}

	return created, nil
}

// UpsertClass inserts a class or refreshes its name and homeroom teacher
func (r *StudentRepository) UpsertClass(ctx context.Context, class *models.Class) error {
	query := `
		INSERT INTO classes (class_id, class_name, homeroom_teacher_id)
		VALUES ($1, $2, NULLIF($3, ''))
		ON CONFLICT (class_id) DO UPDATE
		SET class_name = EXCLUDED.class_name, homeroom_teacher_id = EXCLUDED.homeroom_teacher_id
	`

	_, err := r.db.Exec(ctx, query, class.ID, class.Name, class.HomeroomTeacherID)
	if err != nil {
		return fmt.Errorf("error upserting class: %w", err)
	}

	return nil
}

// UpsertTeacher inserts a teacher or refreshes name and role
func (r *StudentRepository) UpsertTeacher(ctx context.Context, teacher *models.Teacher) error {
	query := `
		INSERT INTO teachers (teacher_id, name, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (teacher_id) DO UPDATE
		SET name = EXCLUDED.name, role = EXCLUDED.role
	`

	_, err := r.db.Exec(ctx, query, teacher.ID, teacher.Name, teacher.Role)
	if err != nil {
		return fmt.Errorf("error upserting teacher: %w", err)
	}

	return nil
}
