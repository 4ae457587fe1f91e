package port

import (
	"context"

	"github.com/moramiel8/tau-2032-portal-sub000/internal/core/domain"
)

// GlobalRoleRepository persists portal-wide role assignments. Email lookups
// are case-insensitive; implementations return repository.ErrNotFound when
// no row exists so callers can tell absence from a data-layer fault.
type GlobalRoleRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.GlobalRoleAssignment, error)
	Upsert(ctx context.Context, assignment domain.GlobalRoleAssignment) (*domain.GlobalRoleAssignment, error)
	List(ctx context.Context) ([]domain.GlobalRoleAssignment, error)
	Delete(ctx context.Context, id int64) error
}
