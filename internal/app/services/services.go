// Package services contains the business logic layer between the HTTP
// controllers and the repositories.
package services

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/santoso/presensia/internal/app/match"
	"github.com/santoso/presensia/internal/app/repositories"
	"github.com/santoso/presensia/internal/config"
	"github.com/santoso/presensia/internal/pkg/auth"
	"github.com/santoso/presensia/internal/pkg/filestorage"
)

// Services aggregates all services for dependency injection
type Services struct {
	Auth       *AuthService
	Machine    *MachineService
	MasterData *MasterDataService
	Ingestion  *IngestionService
	Mapping    *MappingService
	Batch      *BatchService
}

// NewServices wires all services over the shared pool, repositories and
// file storage
func NewServices(
	pool *pgxpool.Pool,
	repos *repositories.Repositories,
	storage filestorage.Storage,
	jwtService *auth.JWTService,
	cfg *config.Config,
) *Services {
	matcher := match.NewFuzzyMatcher()

	return &Services{
		Auth:       NewAuthService(repos, jwtService),
		Machine:    NewMachineService(repos, storage, cfg),
		MasterData: NewMasterDataService(repos, storage),
		Ingestion:  NewIngestionService(pool, repos, storage, cfg),
		Mapping:    NewMappingService(pool, repos, matcher, cfg),
		Batch:      NewBatchService(pool, repos, storage),
	}
}
