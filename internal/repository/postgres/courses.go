package postgres

import (
	"context"
	"database/sql"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/moramiel8/tau-2032-portal-sub000/internal/core/domain"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/core/port"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/repository"
)

// CourseRepository implements course persistence. The primary key on the
// identifier column backs the collision-safe generator: concurrent inserts
// that raced to the same slug surface here as repository.ErrConflict.
type CourseRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewCourseRepository constructs a repository backed by any executor that
// satisfies pgExecutor.
func NewCourseRepository(exec pgExecutor) *CourseRepository {
	return &CourseRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Insert persists a new course row. Returns repository.ErrConflict when the
// identifier is already taken.
func (r *CourseRepository) Insert(ctx context.Context, course domain.Course) error {
	stmt, args, err := r.builder.Insert("courses_extra").
		Columns("id", "name", "short_name", "year_label", "semester_label", "course_code", "created_at").
		Values(course.ID, course.Name, course.ShortName, course.YearLabel, course.SemesterLabel, course.CourseCode, course.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert course sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if translated := translateError(err); translated == repository.ErrConflict {
			return translated
		}
		return fmt.Errorf("insert course: %w", err)
	}

	return nil
}

// GetByID retrieves a course by its slug identifier.
func (r *CourseRepository) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	stmt, args, err := r.courseSelect().
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select course sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)
	return scanCourse(row)
}

// List returns all courses, newest first.
func (r *CourseRepository) List(ctx context.Context) ([]domain.Course, error) {
	stmt, args, err := r.courseSelect().
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list courses sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query courses: %w", err)
	}
	defer rows.Close()

	courses := make([]domain.Course, 0)
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate courses: %w", err)
	}

	return courses, nil
}

// Delete removes a course row.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("courses_extra").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete course sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ListIDsWithBase returns identifiers equal to base or prefixed by
// base followed by a hyphen. Suffix filtering happens in the generator.
func (r *CourseRepository) ListIDsWithBase(ctx context.Context, base string) ([]string, error) {
	stmt, args, err := r.builder.Select("id").
		From("courses_extra").
		Where(squirrel.Or{
			squirrel.Eq{"id": base},
			squirrel.Like{"id": base + "-%"},
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build course ids sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query course ids: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan course id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate course ids: %w", err)
	}

	return ids, nil
}

func (r *CourseRepository) courseSelect() squirrel.SelectBuilder {
	return r.builder.Select("id", "name", "short_name", "year_label", "semester_label", "course_code", "created_at").
		From("courses_extra")
}

func scanCourse(row interface{ Scan(dest ...any) error }) (*domain.Course, error) {
	var (
		course     domain.Course
		shortName  sql.NullString
		courseCode sql.NullString
	)

	if err := row.Scan(&course.ID, &course.Name, &shortName, &course.YearLabel, &course.SemesterLabel, &courseCode, &course.CreatedAt); err != nil {
		if translated := translateError(err); translated == repository.ErrNotFound {
			return nil, translated
		}
		return nil, fmt.Errorf("scan course: %w", err)
	}

	if shortName.Valid {
		course.ShortName = &shortName.String
	}
	if courseCode.Valid {
		course.CourseCode = &courseCode.String
	}

	return &course, nil
}

var _ port.CourseRepository = (*CourseRepository)(nil)
