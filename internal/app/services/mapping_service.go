package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/santoso/presensia/internal/app/match"
	"github.com/santoso/presensia/internal/app/models"
	"github.com/santoso/presensia/internal/app/models/dto"
	"github.com/santoso/presensia/internal/app/repositories"
	"github.com/santoso/presensia/internal/config"
	"github.com/santoso/presensia/internal/db"
	"github.com/santoso/presensia/internal/pkg/apperrors"
	"github.com/santoso/presensia/internal/pkg/logger"
)

const (
	// suggestionListSize is how many candidate students the review UI gets
	// per unmapped user.
	suggestionListSize = 5
	// suggestionListFloor keeps hopeless candidates out of the review list.
	suggestionListFloor = 40
)

// MappingService owns the identity-reconciliation workflow: fuzzy
// auto-mapping runs, the review listing and human verification.
type MappingService struct {
	pool        *pgxpool.Pool
	mappingRepo *repositories.MappingRepository
	studentRepo *repositories.StudentRepository
	matcher     match.NameMatcher

	targetDept       string
	defaultThreshold int
}

// NewMappingService creates a new mapping service
func NewMappingService(pool *pgxpool.Pool, repos *repositories.Repositories, matcher match.NameMatcher, cfg *config.Config) *MappingService {
	return &MappingService{
		pool:             pool,
		mappingRepo:      repos.Mapping,
		studentRepo:      repos.Student,
		matcher:          matcher,
		targetDept:       cfg.Ingest.TargetDepartment,
		defaultThreshold: cfg.Ingest.MappingThreshold,
	}
}

// RunAutoMapping scores every unmapped terminal user against every active
// student and records a suggested mapping for each best match clearing
// the threshold. The whole run is one transaction. Threshold zero means
// the configured default.
func (s *MappingService) RunAutoMapping(ctx context.Context, threshold int) (*dto.AutoMapResult, error) {
	if threshold <= 0 {
		threshold = s.defaultThreshold
	}

	students, err := s.studentRepo.GetActiveStudents(ctx)
	if err != nil {
		return nil, err
	}

	result := &dto.AutoMapResult{Errors: []string{}}

	err = db.WithTransaction(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		unmapped, err := s.mappingRepo.GetAllUnmappedUsers(ctx, tx, s.targetDept)
		if err != nil {
			return err
		}
		result.UnmappedUsers = len(unmapped)

		for _, user := range unmapped {
			if strings.TrimSpace(user.DisplayName) == "" {
				result.Errors = append(result.Errors,
					fmt.Sprintf("user %s: no display name to match on", user.MachineUserCode))
				continue
			}

			bestScore := 0
			var bestStudent *models.Student
			for i := range students {
				score := s.matcher.Score(user.DisplayName, students[i].Name)
				if score > bestScore {
					bestScore = score
					bestStudent = &students[i]
				}
			}

			if bestStudent == nil || bestScore < threshold {
				continue
			}

			if _, err := s.mappingRepo.CreateSuggestion(ctx, tx, user.ID, bestStudent.ID, bestScore); err != nil {
				if apperrors.Is(err, apperrors.ErrMappingExists) {
					result.Errors = append(result.Errors,
						fmt.Sprintf("user %s: mapping appeared during run", user.MachineUserCode))
					continue
				}
				return err
			}
			result.SuggestionsCreated++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int("threshold", threshold).
		Int("unmapped", result.UnmappedUsers).
		Int("suggestions", result.SuggestionsCreated).
		Msg("Auto-mapping run finished")

	return result, nil
}

// VerifyMapping applies one human decision. Verified stamps the reviewer;
// rejected deletes the row outright so the terminal user re-enters the
// next auto-mapping run.
func (s *MappingService) VerifyMapping(ctx context.Context, mappingID int64, actor, decision string) error {
	switch decision {
	case string(models.MappingVerified):
		return s.mappingRepo.Verify(ctx, mappingID, actor)
	case "rejected":
		return s.mappingRepo.Delete(ctx, mappingID)
	default:
		return apperrors.NewBadRequestError(fmt.Sprintf("unknown decision %q", decision))
	}
}

// BulkVerify applies many decisions independently; one failing item never
// aborts the rest.
func (s *MappingService) BulkVerify(ctx context.Context, req *dto.BulkVerifyRequest, actor string) *dto.BulkVerifyResult {
	result := &dto.BulkVerifyResult{Errors: []string{}}

	for _, item := range req.Mappings {
		if err := s.VerifyMapping(ctx, item.MappingID, actor, item.Status); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("mapping %d: %v", item.MappingID, err))
			continue
		}
		if item.Status == string(models.MappingVerified) {
			result.Verified++
		} else {
			result.Rejected++
		}
	}
	return result
}

// ListUnmapped returns a page of unmapped terminal users, each with its
// best candidate students for the review UI.
func (s *MappingService) ListUnmapped(ctx context.Context, offset, limit int) ([]dto.UnmappedUserResponse, int64, error) {
	users, total, err := s.mappingRepo.GetUnmappedUsers(ctx, s.targetDept, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	students, err := s.studentRepo.GetActiveStudents(ctx)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]dto.UnmappedUserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, dto.UnmappedUserResponse{
			MachineUser: toMachineUserSummary(user),
			Suggestions: s.suggestionsFor(user.DisplayName, students),
		})
	}
	return responses, total, nil
}

// suggestionsFor ranks candidate students for one terminal name
func (s *MappingService) suggestionsFor(name string, students []models.Student) []dto.MatchSuggestion {
	if strings.TrimSpace(name) == "" {
		return []dto.MatchSuggestion{}
	}

	suggestions := make([]dto.MatchSuggestion, 0, suggestionListSize)
	for i := range students {
		score := s.matcher.Score(name, students[i].Name)
		if score < suggestionListFloor {
			continue
		}
		suggestions = append(suggestions, dto.MatchSuggestion{
			Student:         toStudentSummary(&students[i]),
			ConfidenceScore: score,
		})
	}

	sort.Slice(suggestions, func(i, j int) bool {
		return suggestions[i].ConfidenceScore > suggestions[j].ConfidenceScore
	})
	if len(suggestions) > suggestionListSize {
		suggestions = suggestions[:suggestionListSize]
	}
	return suggestions
}

// ListMappings returns a page of mappings in one status
func (s *MappingService) ListMappings(ctx context.Context, status models.MappingStatus, offset, limit int) ([]dto.MappingResponse, int64, error) {
	mappings, total, err := s.mappingRepo.ListByStatus(ctx, status, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]dto.MappingResponse, 0, len(mappings))
	for _, mapping := range mappings {
		responses = append(responses, toMappingResponse(mapping))
	}
	return responses, total, nil
}

// GetStats returns the per-status mapping counts
func (s *MappingService) GetStats(ctx context.Context) (*dto.MappingStats, error) {
	suggested, verified, unmapped, err := s.mappingRepo.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.MappingStats{Suggested: suggested, Verified: verified, Unmapped: unmapped}, nil
}

func toStudentSummary(student *models.Student) dto.StudentSummary {
	return dto.StudentSummary{
		ID:      student.ID,
		NIS:     student.NIS,
		Name:    student.Name,
		ClassID: student.ClassID,
	}
}

func toMachineUserSummary(user *models.MachineUser) dto.MachineUserSummary {
	summary := dto.MachineUserSummary{
		ID:          user.ID,
		Code:        user.MachineUserCode,
		DisplayName: user.DisplayName,
	}
	if user.Machine != nil {
		summary.MachineCode = user.Machine.MachineCode
	}
	return summary
}

func toMappingResponse(mapping *models.StudentMachineMap) dto.MappingResponse {
	response := dto.MappingResponse{
		ID:              mapping.ID,
		Status:          string(mapping.Status),
		ConfidenceScore: mapping.ConfidenceScore,
		VerifiedAt:      mapping.VerifiedAt,
		VerifiedBy:      mapping.VerifiedBy,
	}
	if mapping.MachineUser != nil {
		response.MachineUser = toMachineUserSummary(mapping.MachineUser)
	}
	if mapping.Student != nil {
		summary := toStudentSummary(mapping.Student)
		response.Student = &summary
	}
	return response
}
