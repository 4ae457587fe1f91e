package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/moramiel8/tau-2032-portal-sub000/internal/core/domain"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/core/port"
)

// UpsertGlobalRoleInput captures the payload for granting a portal-wide role.
type UpsertGlobalRoleInput struct {
	Email       string
	Role        domain.Role
	DisplayName *string
}

// UpsertCourseVaadInput captures the payload for a course-scoped grant.
type UpsertCourseVaadInput struct {
	Email       string
	DisplayName *string
	CourseIDs   []string
}

// AssignmentService manages global role rows and course-scoped grants.
type AssignmentService struct {
	roles  port.GlobalRoleRepository
	vaad   port.CourseVaadRepository
	events port.EventPublisher
	logger *zap.Logger
}

// NewAssignmentService constructs an AssignmentService.
func NewAssignmentService(roles port.GlobalRoleRepository, vaad port.CourseVaadRepository, events port.EventPublisher, log *zap.Logger) *AssignmentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AssignmentService{roles: roles, vaad: vaad, events: events, logger: log}
}

// UpsertGlobalRole creates or updates the single role row for an email.
func (s *AssignmentService) UpsertGlobalRole(ctx context.Context, actor string, input UpsertGlobalRoleInput) (*domain.GlobalRoleAssignment, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if !input.Role.Valid() {
		return nil, fmt.Errorf("%w: role must be admin or vaad", ErrInvalidInput)
	}

	assignment, err := s.roles.Upsert(ctx, domain.GlobalRoleAssignment{
		Email:       email,
		Role:        input.Role,
		DisplayName: input.DisplayName,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert global role: %w", err)
	}

	s.publishRoleAssigned(ctx, assignment, actor)
	return assignment, nil
}

// ListGlobalRoles returns all portal-wide role rows.
func (s *AssignmentService) ListGlobalRoles(ctx context.Context) ([]domain.GlobalRoleAssignment, error) {
	return s.roles.List(ctx)
}

// DeleteGlobalRole removes a role row by id.
func (s *AssignmentService) DeleteGlobalRole(ctx context.Context, actor string, id int64) error {
	if err := s.roles.Delete(ctx, id); err != nil {
		return err
	}

	if s.events != nil {
		err := s.events.PublishGlobalRoleRevoked(ctx, domain.GlobalRoleRevokedEvent{
			EventID:   uuid.NewString(),
			Actor:     actor,
			RevokedAt: time.Now().UTC(),
		})
		if err != nil {
			s.logger.Warn("publish role revoked event failed", zap.Error(err))
		}
	}

	return nil
}

// UpsertCourseVaad creates or replaces the course-scoped grant for an email.
func (s *AssignmentService) UpsertCourseVaad(ctx context.Context, actor string, input UpsertCourseVaadInput) (*domain.CourseVaadAssignment, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	courseIDs := dedupeCourseIDs(input.CourseIDs)

	assignment, err := s.vaad.Upsert(ctx, domain.CourseVaadAssignment{
		Email:       email,
		DisplayName: input.DisplayName,
		CourseIDs:   courseIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert course vaad: %w", err)
	}

	if s.events != nil {
		err := s.events.PublishCourseVaadUpdated(ctx, domain.CourseVaadUpdatedEvent{
			EventID:   uuid.NewString(),
			Email:     assignment.Email,
			CourseIDs: assignment.CourseIDs,
			Actor:     actor,
			UpdatedAt: time.Now().UTC(),
		})
		if err != nil {
			s.logger.Warn("publish course vaad updated event failed", zap.Error(err))
		}
	}

	return assignment, nil
}

// ListCourseVaad returns all course-scoped grants.
func (s *AssignmentService) ListCourseVaad(ctx context.Context) ([]domain.CourseVaadAssignment, error) {
	return s.vaad.List(ctx)
}

// DeleteCourseVaad removes a grant row by id.
func (s *AssignmentService) DeleteCourseVaad(ctx context.Context, id int64) error {
	return s.vaad.Delete(ctx, id)
}

func (s *AssignmentService) publishRoleAssigned(ctx context.Context, assignment *domain.GlobalRoleAssignment, actor string) {
	if s.events == nil {
		return
	}
	err := s.events.PublishGlobalRoleAssigned(ctx, domain.GlobalRoleAssignedEvent{
		EventID:    uuid.NewString(),
		Email:      assignment.Email,
		Role:       string(assignment.Role),
		Actor:      actor,
		AssignedAt: time.Now().UTC(),
	})
	if err != nil {
		s.logger.Warn("publish role assigned event failed", zap.Error(err))
	}
}

func dedupeCourseIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
