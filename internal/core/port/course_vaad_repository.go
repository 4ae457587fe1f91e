package port

import (
	"context"

	"github.com/moramiel8/tau-2032-portal-sub000/internal/core/domain"
)

// CourseVaadRepository persists course-scoped edit grants. Email lookups are
// case-insensitive.
type CourseVaadRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.CourseVaadAssignment, error)
	Upsert(ctx context.Context, assignment domain.CourseVaadAssignment) (*domain.CourseVaadAssignment, error)
	List(ctx context.Context) ([]domain.CourseVaadAssignment, error)
	Delete(ctx context.Context, id int64) error
}
