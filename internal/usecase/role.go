package usecase

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/moramiel8/tau-2032-portal-sub000/internal/core/domain"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/core/port"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/infra/logger"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/repository"
)

// RoleResolver computes the effective role for an identity. The hard admin
// set is fixed at construction and overrides any persisted assignment.
type RoleResolver struct {
	hardAdmins map[string]struct{}
	roles      port.GlobalRoleRepository
	logger     *zap.Logger
}

// NewRoleResolver constructs a resolver. Hard admin emails are expected
// pre-normalized (trimmed, lower-cased) by the configuration layer.
func NewRoleResolver(hardAdmins []string, roles port.GlobalRoleRepository, log *zap.Logger) *RoleResolver {
	if log == nil {
		log = zap.NewNop()
	}

	set := make(map[string]struct{}, len(hardAdmins))
	for _, email := range hardAdmins {
		set[strings.ToLower(email)] = struct{}{}
	}

	return &RoleResolver{hardAdmins: set, roles: roles, logger: log}
}

// Resolve returns the effective role for an email. Precedence: hard admin
// membership, then the persisted assignment, then student. A repository
// fault during the assignment read degrades to student — a data-layer
// outage must never grant elevated access.
func (r *RoleResolver) Resolve(ctx context.Context, email string) domain.Role {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return domain.RoleStudent
	}

	if _, ok := r.hardAdmins[email]; ok {
		return domain.RoleAdmin
	}

	assignment, err := r.roles.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			r.logger.Warn("role lookup failed, treating caller as student",
				zap.String("email", logger.MaskEmail(email)),
				zap.Error(err),
			)
		}
		return domain.RoleStudent
	}

	if assignment.Role.Valid() {
		return assignment.Role
	}

	return domain.RoleStudent
}
