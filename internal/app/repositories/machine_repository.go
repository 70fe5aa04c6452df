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

// MachineRepository handles database operations for terminals and their
// user registries
type MachineRepository struct {
	db *pgxpool.Pool
}

// NewMachineRepository creates a new machine repository
func NewMachineRepository(db *pgxpool.Pool) *MachineRepository {
	return &MachineRepository{
		db: db,
	}
}

// GetByCode retrieves a machine by its terminal code
func (r *MachineRepository) GetByCode(ctx context.Context, code string) (*models.Machine, error) {
	query := `
		SELECT id, machine_code, COALESCE(location, ''), last_sync_at
		FROM machines
		WHERE machine_code = $1
	`

	var machine models.Machine
	err := r.db.QueryRow(ctx, query, code).Scan(
		&machine.ID,
		&machine.MachineCode,
		&machine.Location,
		&machine.LastSyncAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrMachineNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving machine: %w", err)
	}

	return &machine, nil
}

// Create registers a new terminal
func (r *MachineRepository) Create(ctx context.Context, machine *models.Machine) error {
	query := `
		INSERT INTO machines (machine_code, location)
		VALUES ($1, $2)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, machine.MachineCode, machine.Location).Scan(&machine.ID)
	if err != nil {
		return fmt.Errorf("error creating machine: %w", err)
	}

	return nil
}

// TouchLastSync stamps a successful user-roster sync
func (r *MachineRepository) TouchLastSync(ctx context.Context, machineID int64, at time.Time) error {
	_, err := r.db.Exec(ctx, `UPDATE machines SET last_sync_at = $1 WHERE id = $2`, at, machineID)
	if err != nil {
		return fmt.Errorf("error updating machine sync time: %w", err)
	}
	return nil
}

// GetUsersByMachine retrieves all users registered under one terminal,
// keyed by terminal-local code. Parsers resolve codes against this map so
// large sheets do not query per row.
func (r *MachineRepository) GetUsersByMachine(ctx context.Context, machineID int64) (map[string]*models.MachineUser, error) {
	query := `
		SELECT id, machine_id, machine_user_code, COALESCE(display_name, ''), COALESCE(department, '')
		FROM machine_users
		WHERE machine_id = $1
	`

	rows, err := r.db.Query(ctx, query, machineID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving machine users: %w", err)
	}
	defer rows.Close()

	users := make(map[string]*models.MachineUser)
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
		users[user.MachineUserCode] = &user
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

// LookupUser retrieves one terminal user by (machine, code)
func (r *MachineRepository) LookupUser(ctx context.Context, machineID int64, code string) (*models.MachineUser, error) {
	query := `
		SELECT id, machine_id, machine_user_code, COALESCE(display_name, ''), COALESCE(department, '')
		FROM machine_users
		WHERE machine_id = $1 AND machine_user_code = $2
	`

	var user models.MachineUser
	err := r.db.QueryRow(ctx, query, machineID, code).Scan(
		&user.ID,
		&user.MachineID,
		&user.MachineUserCode,
		&user.DisplayName,
		&user.Department,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrMachineUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving machine user: %w", err)
	}

	return &user, nil
}

// CreateUser registers a new terminal user
func (r *MachineRepository) CreateUser(ctx context.Context, user *models.MachineUser) error {
	query := `
		INSERT INTO machine_users (machine_id, machine_user_code, display_name, department)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		user.MachineID, user.MachineUserCode, user.DisplayName, user.Department).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("error creating machine user: %w", err)
	}

	return nil
}

// UpdateUser updates the terminal-side name and department of a user
func (r *MachineRepository) UpdateUser(ctx context.Context, user *models.MachineUser) error {
	query := `
		UPDATE machine_users
		SET display_name = $1, department = $2
		WHERE id = $3
	`

	cmdTag, err := r.db.Exec(ctx, query, user.DisplayName, user.Department, user.ID)
	if err != nil {
		return fmt.Errorf("error updating machine user: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrMachineUserNotFound
	}

	return nil
}
