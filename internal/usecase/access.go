package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/moramiel8/tau-2032-portal-sub000/internal/core/port"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/repository"
)

// CourseAccessService answers course-scoped authorization questions.
type CourseAccessService struct {
	vaad port.CourseVaadRepository
}

// NewCourseAccessService constructs a CourseAccessService.
func NewCourseAccessService(vaad port.CourseVaadRepository) *CourseAccessService {
	return &CourseAccessService{vaad: vaad}
}

// HasCourseAccess reports whether the email holds a course-scoped grant for
// the given course. No grant row means false. Unlike role resolution, a
// data-layer fault here is propagated: a scope decision must come from the
// store, not be guessed.
func (s *CourseAccessService) HasCourseAccess(ctx context.Context, email, courseID string) (bool, error) {
	assignment, err := s.vaad.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("course vaad lookup: %w", err)
	}

	return assignment.HasCourse(courseID), nil
}
