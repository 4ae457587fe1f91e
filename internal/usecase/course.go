package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/moramiel8/tau-2032-portal-sub000/internal/core/domain"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/core/port"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/repository"
)

// maxIDAttempts bounds regeneration when concurrent creations race to the
// same identifier. The primary-key constraint is the correctness authority;
// the read-then-compute step only makes collisions unlikely.
const maxIDAttempts = 3

// CreateCourseInput captures the payload for creating a course.
type CreateCourseInput struct {
	Name          string
	ShortName     *string
	YearLabel     string
	SemesterLabel string
	CourseCode    *string
}

// CreateAnnouncementInput captures the payload for posting an announcement.
type CreateAnnouncementInput struct {
	CourseID string
	Title    string
	Body     string
}

// CourseService manages courses, their identifiers, and announcements.
type CourseService struct {
	courses       port.CourseRepository
	announcements port.AnnouncementRepository
	events        port.EventPublisher
	logger        *zap.Logger
	now           func() time.Time
}

// NewCourseService constructs a CourseService.
func NewCourseService(courses port.CourseRepository, announcements port.AnnouncementRepository, events port.EventPublisher, log *zap.Logger) *CourseService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CourseService{
		courses:       courses,
		announcements: announcements,
		events:        events,
		logger:        log,
		now:           time.Now,
	}
}

// WithClock allows injection of a custom clock (primarily for testing).
func (s *CourseService) WithClock(now func() time.Time) *CourseService {
	if now != nil {
		s.now = now
	}
	return s
}

// CreateCourse derives a unique identifier and persists the course. On a
// uniqueness violation at insert time the identifier is regenerated from a
// fresh read, bounded by maxIDAttempts.
func (s *CourseService) CreateCourse(ctx context.Context, actor string, input CreateCourseInput) (*domain.Course, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: course name is required", ErrInvalidInput)
	}

	base := courseIDBase(name, input.CourseCode)

	course := domain.Course{
		Name:          name,
		ShortName:     input.ShortName,
		YearLabel:     strings.TrimSpace(input.YearLabel),
		SemesterLabel: strings.TrimSpace(input.SemesterLabel),
		CourseCode:    input.CourseCode,
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := s.nextCourseID(ctx, base)
		if err != nil {
			return nil, err
		}

		course.ID = id
		course.CreatedAt = s.now().UTC()

		err = s.courses.Insert(ctx, course)
		if err == nil {
			s.publishCourseCreated(ctx, course, actor)
			return &course, nil
		}
		if !errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("insert course: %w", err)
		}

		s.logger.Info("course id collided, regenerating",
			zap.String("course_id", id),
			zap.Int("attempt", attempt+1),
		)
	}

	return nil, ErrIDExhausted
}

// GetCourse returns a single course by identifier.
func (s *CourseService) GetCourse(ctx context.Context, id string) (*domain.Course, error) {
	return s.courses.GetByID(ctx, id)
}

// ListCourses returns all courses.
func (s *CourseService) ListCourses(ctx context.Context) ([]domain.Course, error) {
	return s.courses.List(ctx)
}

// DeleteCourse removes a course after cascading away its dependent content.
func (s *CourseService) DeleteCourse(ctx context.Context, actor, id string) error {
	if _, err := s.courses.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.announcements.DeleteByCourse(ctx, id); err != nil {
		return fmt.Errorf("delete course announcements: %w", err)
	}

	if err := s.courses.Delete(ctx, id); err != nil {
		return err
	}

	s.publishCourseDeleted(ctx, id, actor)
	return nil
}

// CreateAnnouncement posts an announcement to a course.
func (s *CourseService) CreateAnnouncement(ctx context.Context, input CreateAnnouncementInput) (*domain.Announcement, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: announcement title is required", ErrInvalidInput)
	}

	if _, err := s.courses.GetByID(ctx, input.CourseID); err != nil {
		return nil, err
	}

	return s.announcements.Insert(ctx, domain.Announcement{
		CourseID:  input.CourseID,
		Title:     title,
		Body:      input.Body,
		CreatedAt: s.now().UTC(),
	})
}

// ListAnnouncements returns a course's announcements.
func (s *CourseService) ListAnnouncements(ctx context.Context, courseID string) ([]domain.Announcement, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.announcements.ListByCourse(ctx, courseID)
}

// DeleteAnnouncement removes a single announcement.
func (s *CourseService) DeleteAnnouncement(ctx context.Context, courseID string, id int64) error {
	return s.announcements.Delete(ctx, courseID, id)
}

// courseIDBase picks the slug base: the normalized course code when it
// survives normalization, else the normalized name, else the fallback.
func courseIDBase(name string, courseCode *string) string {
	if courseCode != nil {
		if base := Slugify(*courseCode); base != "" {
			return base
		}
	}
	if base := Slugify(name); base != "" {
		return base
	}
	return fallbackSlug
}

var suffixPattern = regexp.MustCompile(`^(\d+)$`)

// nextCourseID reads the identifiers already occupying the base and computes
// the next free one: the bare base when nothing matches, otherwise
// base-(N+1) where N is the highest numeric suffix in use and a bare match
// counts as 1 when no numeric suffix exists yet.
func (s *CourseService) nextCourseID(ctx context.Context, base string) (string, error) {
	existing, err := s.courses.ListIDsWithBase(ctx, base)
	if err != nil {
		return "", fmt.Errorf("list course ids: %w", err)
	}

	taken := false
	maxSuffix := 0
	prefix := base + "-"
	for _, id := range existing {
		if id == base {
			taken = true
			continue
		}
		rest, ok := strings.CutPrefix(id, prefix)
		if !ok || !suffixPattern.MatchString(rest) {
			continue
		}
		taken = true
		if n, err := strconv.Atoi(rest); err == nil && n > maxSuffix {
			maxSuffix = n
		}
	}

	if !taken {
		return base, nil
	}
	if maxSuffix == 0 {
		maxSuffix = 1
	}

	return fmt.Sprintf("%s-%d", base, maxSuffix+1), nil
}

func (s *CourseService) publishCourseCreated(ctx context.Context, course domain.Course, actor string) {
	if s.events == nil {
		return
	}
	err := s.events.PublishCourseCreated(ctx, domain.CourseCreatedEvent{
		EventID:   uuid.NewString(),
		CourseID:  course.ID,
		Name:      course.Name,
		Actor:     actor,
		CreatedAt: course.CreatedAt,
	})
	if err != nil {
		s.logger.Warn("publish course created event failed", zap.Error(err))
	}
}

func (s *CourseService) publishCourseDeleted(ctx context.Context, courseID, actor string) {
	if s.events == nil {
		return
	}
	err := s.events.PublishCourseDeleted(ctx, domain.CourseDeletedEvent{
		EventID:   uuid.NewString(),
		CourseID:  courseID,
		Actor:     actor,
		DeletedAt: s.now().UTC(),
	})
	if err != nil {
		s.logger.Warn("publish course deleted event failed", zap.Error(err))
	}
}
