package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/santoso/presensia/internal/app/models"
	"github.com/santoso/presensia/internal/pkg/apperrors"
	"github.com/santoso/presensia/internal/pkg/dberrors"
)

// MappingRepository handles database operations for identity mappings
// between terminal users and students
type MappingRepository struct {
	db *pgxpool.Pool
}

// NewMappingRepository creates a new mapping repository
func NewMappingRepository(db *pgxpool.Pool) *MappingRepository {
	return &MappingRepository{
		db: db,
	}
}

const mappingSelectColumns = `
	m.id, m.machine_user_id, m.student_id, m.status, m.confidence_score,
	m.verified_at, COALESCE(m.verified_by, ''),
	mu.id, mu.machine_id, mu.machine_user_code, COALESCE(mu.display_name, ''), COALESCE(mu.department, ''),
	ma.machine_code,
	s.id, s.nis, s.name, s.class_id, s.is_active
`

// scanMapping scans one joined mapping row. The student side is LEFT
// JOINed, so its columns arrive as nullables.
func scanMapping(row pgx.Row) (*models.StudentMachineMap, error) {
	var (
		mapping  models.StudentMachineMap
		user     models.MachineUser
		mcode    string
		sID      *int64
		sNIS     *string
		sName    *string
		sClassID *string
		sActive  *bool
	)

	err := row.Scan(
		&mapping.ID,
		&mapping.MachineUserID,
		&mapping.StudentID,
		&mapping.Status,
		&mapping.ConfidenceScore,
		&mapping.VerifiedAt,
		&mapping.VerifiedBy,
		&user.ID,
		&user.MachineID,
		&user.MachineUserCode,
		&user.DisplayName,
		&user.Department,
		&mcode,
		&sID,
		&sNIS,
		&sName,
		&sClassID,
		&sActive,
	)
	if err != nil {
		return nil, err
	}

	user.Machine = &models.Machine{ID: user.MachineID, MachineCode: mcode}
	mapping.MachineUser = &user
	if sID != nil {
		mapping.Student = &models.Student{
			ID:       *sID,
			NIS:      *sNIS,
			Name:     *sName,
			ClassID:  *sClassID,
			IsActive: *sActive,
		}
	}

	return &mapping, nil
}

// GetByID retrieves a mapping with both sides resolved
func (r *MappingRepository) GetByID(ctx context.Context, id int64) (*models.StudentMachineMap, error) {
	query := `
		SELECT ` + mappingSelectColumns + `
		FROM student_machine_maps m
		JOIN machine_users mu ON mu.id = m.machine_user_id
		JOIN machines ma ON ma.id = mu.machine_id
		LEFT JOIN students s ON s.id = m.student_id
		WHERE m.id = $1
	`

	mapping, err := scanMapping(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrMappingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving mapping: %w", err)
	}

	return mapping, nil
}

// ListByStatus retrieves mappings in one status, newest suggestions first
func (r *MappingRepository) ListByStatus(ctx context.Context, status models.MappingStatus, offset, limit int) ([]*models.StudentMachineMap, int64, error) {
	var total int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM student_machine_maps WHERE status = $1`, status).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting mappings: %w", err)
	}

	query := `
		SELECT ` + mappingSelectColumns + `
		FROM student_machine_maps m
		JOIN machine_users mu ON mu.id = m.machine_user_id
		JOIN machines ma ON ma.id = mu.machine_id
		LEFT JOIN students s ON s.id = m.student_id
		WHERE m.status = $1
		ORDER BY m.id DESC
		OFFSET $2 LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, status, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error retrieving mappings: %w", err)
	}
	defer rows.Close()

	var mappings []*models.StudentMachineMap
	for rows.Next() {
		mapping, err := scanMapping(rows)
		if err != nil {
			return nil, 0, err
		}
		mappings = append(mappings, mapping)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return mappings, total, nil
}

// GetUnmappedUsers retrieves terminal users with no mapping row at all,
// optionally restricted to one department
func (r *MappingRepository) GetUnmappedUsers(ctx context.Context, department string, offset, limit int) ([]*models.MachineUser, int64, error) {
	countQuery := `
		SELECT COUNT(*)
		FROM machine_users mu
		LEFT JOIN student_machine_maps m ON m.machine_user_id = mu.id
		WHERE m.id IS NULL AND ($1 = '' OR mu.department = $1)
	`

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, department).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting unmapped users: %w", err)
	}

	query := `
		SELECT mu.id, mu.machine_id, mu.machine_user_code, COALESCE(mu.display_name, ''),
			COALESCE(mu.department, ''), ma.machine_code
		FROM machine_users mu
		JOIN machines ma ON ma.id = mu.machine_id
		LEFT JOIN student_machine_maps m ON m.machine_user_id = mu.id
		WHERE m.id IS NULL AND ($1 = '' OR mu.department = $1)
		ORDER BY mu.machine_user_code
		OFFSET $2 LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, department, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error retrieving unmapped users: %w", err)
	}
	defer rows.Close()

	var users []*models.MachineUser
	for rows.Next() {
		var user models.MachineUser
		var mcode string
		if err := rows.Scan(
			&user.ID,
			&user.MachineID,
			&user.MachineUserCode,
			&user.DisplayName,
			&user.Department,
			&mcode,
		); err != nil {
			return nil, 0, err
		}
		user.Machine = &models.Machine{ID: user.MachineID, MachineCode: mcode}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// GetAllUnmappedUsers retrieves every terminal user with no mapping row,
// the input set of one auto-mapping run
func (r *MappingRepository) GetAllUnmappedUsers(ctx context.Context, q Querier, department string) ([]*models.MachineUser, error) {
	query := `
		SELECT mu.id, mu.machine_id, mu.machine_user_code, COALESCE(mu.display_name, ''),
			COALESCE(mu.department, '')
		FROM machine_users mu
		LEFT JOIN student_machine_maps m ON m.machine_user_id = mu.id
		WHERE m.id IS NULL AND ($1 = '' OR mu.department = $1)
		ORDER BY mu.machine_user_code
	`

	rows, err := q.Query(ctx, query, department)
	if err != nil {
		return nil, fmt.Errorf("error retrieving unmapped users: %w", err)
	}
	defer rows.Close()

	var users []*models.MachineUser
	for rows.Next() {
		var user models.MachineUser
		if err := rows.Scan(
			&user.ID,
			&user.MachineID,
			&user.MachineUserCode,
			&user.DisplayName,
			&user.Department,
		); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

// CreateSuggestion inserts a suggested mapping. One mapping per machine
// user; a concurrent duplicate surfaces as ErrMappingExists.
func (r *MappingRepository) CreateSuggestion(ctx context.Context, q Querier, machineUserID, studentID int64, score int) (*models.StudentMachineMap, error) {
	query := `
		INSERT INTO student_machine_maps (machine_user_id, student_id, status, confidence_score)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	mapping := &models.StudentMachineMap{
		MachineUserID:   machineUserID,
		StudentID:       &studentID,
		Status:          models.MappingSuggested,
		ConfidenceScore: score,
	}

	err := q.QueryRow(ctx, query,
		machineUserID, studentID, models.MappingSuggested, score).Scan(&mapping.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return nil, apperrors.ErrMappingExists
		}
		return nil, fmt.Errorf("error creating mapping suggestion: %w", err)
	}

	return mapping, nil
}

// Verify promotes a mapping to verified and stamps the reviewer
func (r *MappingRepository) Verify(ctx context.Context, id int64, verifiedBy string) error {
	query := `
		UPDATE student_machine_maps
		SET status = $1, verified_at = NOW(), verified_by = $2
		WHERE id = $3
	`

	cmdTag, err := r.db.Exec(ctx, query, models.MappingVerified, verifiedBy, id)
	if err != nil {
		return fmt.Errorf("error verifying mapping: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrMappingNotFound
	}

	return nil
}

// Delete removes a mapping row. Rejection goes through here so the
// terminal user becomes eligible for re-suggestion on the next run.
func (r *MappingRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM student_machine_maps WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting mapping: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrMappingNotFound
	}

	return nil
}

// ResolvedMapping is the aggregation view of one mapping
type ResolvedMapping struct {
	StudentID int64
	Status    models.MappingStatus
}

// GetResolvedMappings returns machine_user_id -> student for every mapping
// that points at a student. The aggregator loads this once per run instead
// of querying per scan.
func (r *MappingRepository) GetResolvedMappings(ctx context.Context, q Querier) (map[int64]ResolvedMapping, error) {
	query := `
		SELECT machine_user_id, student_id, status
		FROM student_machine_maps
		WHERE student_id IS NOT NULL
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error retrieving resolved mappings: %w", err)
	}
	defer rows.Close()

	resolved := make(map[int64]ResolvedMapping)
	for rows.Next() {
		var (
			machineUserID int64
			studentID     int64
			status        models.MappingStatus
		)
		if err := rows.Scan(&machineUserID, &studentID, &status); err != nil {
			return nil, err
		}
		resolved[machineUserID] = ResolvedMapping{StudentID: studentID, Status: status}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return resolved, nil
}

// GetStats counts mappings per status plus terminal users without any row
func (r *MappingRepository) GetStats(ctx context.Context) (suggested, verified, unmapped int, err error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE m.status = 'suggested'),
			COUNT(*) FILTER (WHERE m.status = 'verified'),
			COUNT(*) FILTER (WHERE m.id IS NULL)
		FROM machine_users mu
		LEFT JOIN student_machine_maps m ON m.machine_user_id = mu.id
	`

	if err = r.db.QueryRow(ctx, query).Scan(&suggested, &verified, &unmapped); err != nil {
		return 0, 0, 0, fmt.Errorf("error retrieving mapping stats: %w", err)
	}

	return suggested, verified, unmapped, nil
}
