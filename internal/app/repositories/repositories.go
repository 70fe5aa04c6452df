// Package repositories contains the data access layer. Each repository
// owns the SQL for one aggregate and translates pgx errors into domain
// sentinels.
package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the query surface shared by *pgxpool.Pool and pgx.Tx.
// Repository methods that must join an outer transaction accept one
// explicitly instead of using the stored pool.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories aggregates all repositories for dependency injection
type Repositories struct {
	Machine    *MachineRepository
	Student    *StudentRepository
	Mapping    *MappingRepository
	Batch      *BatchRepository
	RawLog     *RawLogRepository
	Attendance *AttendanceRepository
	User       *UserRepository
}

// NewRepositories creates all repositories over one shared pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		Machine:    NewMachineRepository(db),
		Student:    NewStudentRepository(db),
		Mapping:    NewMappingRepository(db),
		Batch:      NewBatchRepository(db),
		RawLog:     NewRawLogRepository(db),
		Attendance: NewAttendanceRepository(db),
		User:       NewUserRepository(db),
	}
}
