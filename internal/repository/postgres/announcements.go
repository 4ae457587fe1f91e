package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/moramiel8/tau-2032-portal-sub000/internal/core/domain"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/core/port"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/repository"
)

// AnnouncementRepository implements announcement persistence.
type AnnouncementRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewAnnouncementRepository constructs a repository backed by any executor
// that satisfies pgExecutor.
func NewAnnouncementRepository(exec pgExecutor) *AnnouncementRepository {
	return &AnnouncementRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Insert persists a new announcement and returns it with the generated id.
func (r *AnnouncementRepository) Insert(ctx context.Context, announcement domain.Announcement) (*domain.Announcement, error) {
	stmt, args, err := r.builder.Insert("announcements").
		Columns("course_id", "title", "body", "created_at").
		Values(announcement.CourseID, announcement.Title, announcement.Body, announcement.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert announcement sql: %w", err)
	}

	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&announcement.ID); err != nil {
		return nil, fmt.Errorf("insert announcement: %w", err)
	}

	return &announcement, nil
}

// ListByCourse returns a course's announcements, newest first.
func (r *AnnouncementRepository) ListByCourse(ctx context.Context, courseID string) ([]domain.Announcement, error) {
	stmt, args, err := r.builder.Select("id", "course_id", "title", "body", "created_at").
		From("announcements").
		Where(squirrel.Eq{"course_id": courseID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list announcements sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query announcements: %w", err)
	}
	defer rows.Close()

	announcements := make([]domain.Announcement, 0)
	for rows.Next() {
		var announcement domain.Announcement
		if err := rows.Scan(&announcement.ID, &announcement.CourseID, &announcement.Title, &announcement.Body, &announcement.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan announcement: %w", err)
		}
		announcements = append(announcements, announcement)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate announcements: %w", err)
	}

	return announcements, nil
}

// Delete removes a single announcement scoped to its course.
func (r *AnnouncementRepository) Delete(ctx context.Context, courseID string, id int64) error {
	stmt, args, err := r.builder.Delete("announcements").
		Where(squirrel.Eq{"id": id, "course_id": courseID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete announcement sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// DeleteByCourse removes every announcement of a course. Used by the course
// deletion cascade before the course row is dropped.
func (r *AnnouncementRepository) DeleteByCourse(ctx context.Context, courseID string) error {
	stmt, args, err := r.builder.Delete("announcements").
		Where(squirrel.Eq{"course_id": courseID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete course announcements sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("delete course announcements: %w", err)
	}

	return nil
}

var _ port.AnnouncementRepository = (*AnnouncementRepository)(nil)
