package port

import (
	"context"

	"github.com/moramiel8/tau-2032-portal-sub000/internal/core/domain"
)

// CourseRepository persists course rows. Insert returns
// repository.ErrConflict when the identifier is already taken so the caller
// can regenerate and retry; the primary-key constraint is the correctness
// authority for identifier uniqueness.
type CourseRepository interface {
	Insert(ctx context.Context, course domain.Course) error
	GetByID(ctx context.Context, id string) (*domain.Course, error)
	List(ctx context.Context) ([]domain.Course, error)
	Delete(ctx context.Context, id string) error
	// ListIDsWithBase returns every course identifier equal to base or
	// starting with base followed by a hyphen.
	ListIDsWithBase(ctx context.Context, base string) ([]string, error)
}

// AnnouncementRepository persists course announcements.
type AnnouncementRepository interface {
	Insert(ctx context.Context, announcement domain.Announcement) (*domain.Announcement, error)
	ListByCourse(ctx context.Context, courseID string) ([]domain.Announcement, error)
	Delete(ctx context.Context, courseID string, id int64) error
	DeleteByCourse(ctx context.Context, courseID string) error
}
