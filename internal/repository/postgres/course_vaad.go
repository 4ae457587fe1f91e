package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/moramiel8/tau-2032-portal-sub000/internal/core/domain"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/core/port"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/repository"
)

// CourseVaadRepository implements course-scoped grant persistence. The
// course_ids column is a text[] scanned directly into a string slice.
type CourseVaadRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewCourseVaadRepository constructs a repository backed by any executor
// that satisfies pgExecutor.
func NewCourseVaadRepository(exec pgExecutor) *CourseVaadRepository {
	return &CourseVaadRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByEmail retrieves the grant row for an email, case-insensitively.
func (r *CourseVaadRepository) GetByEmail(ctx context.Context, email string) (*domain.CourseVaadAssignment, error) {
	stmt, args, err := r.builder.Select("id", "email", "display_name", "course_ids").
		From("course_vaad").
		Where(squirrel.Eq{"LOWER(email)": strings.ToLower(email)}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select course vaad sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)
	return scanCourseVaad(row)
}

// Upsert inserts or replaces the grant row for the assignment's email.
func (r *CourseVaadRepository) Upsert(ctx context.Context, assignment domain.CourseVaadAssignment) (*domain.CourseVaadAssignment, error) {
	email := strings.ToLower(assignment.Email)
	courseIDs := assignment.CourseIDs
	if courseIDs == nil {
		courseIDs = []string{}
	}

	stmt, args, err := r.builder.Insert("course_vaad").
		Columns("email", "display_name", "course_ids").
		Values(email, assignment.DisplayName, courseIDs).
		Suffix("ON CONFLICT (email) DO UPDATE SET display_name = EXCLUDED.display_name, course_ids = EXCLUDED.course_ids RETURNING id, email, display_name, course_ids").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build upsert course vaad sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)
	return scanCourseVaad(row)
}

// List returns all grants ordered by email.
func (r *CourseVaadRepository) List(ctx context.Context) ([]domain.CourseVaadAssignment, error) {
	stmt, args, err := r.builder.Select("id", "email", "display_name", "course_ids").
		From("course_vaad").
		OrderBy("email ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list course vaad sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query course vaad: %w", err)
	}
	defer rows.Close()

	assignments := make([]domain.CourseVaadAssignment, 0)
	for rows.Next() {
		var (
			assignment  domain.CourseVaadAssignment
			displayName sql.NullString
		)
		if err := rows.Scan(&assignment.ID, &assignment.Email, &displayName, &assignment.CourseIDs); err != nil {
			return nil, fmt.Errorf("scan course vaad: %w", err)
		}
		if displayName.Valid {
			assignment.DisplayName = &displayName.String
		}
		assignments = append(assignments, assignment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate course vaad: %w", err)
	}

	return assignments, nil
}

// Delete removes a grant row by id.
func (r *CourseVaadRepository) Delete(ctx context.Context, id int64) error {
	stmt, args, err := r.builder.Delete("course_vaad").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete course vaad sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete course vaad: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func scanCourseVaad(row interface{ Scan(dest ...any) error }) (*domain.CourseVaadAssignment, error) {
	var (
		assignment  domain.CourseVaadAssignment
		displayName sql.NullString
	)

	if err := row.Scan(&assignment.ID, &assignment.Email, &displayName, &assignment.CourseIDs); err != nil {
		if translated := translateError(err); translated == repository.ErrNotFound || translated == repository.ErrConflict {
			return nil, translated
		}
		return nil, fmt.Errorf("scan course vaad: %w", err)
	}

	if displayName.Valid {
		assignment.DisplayName = &displayName.String
	}

	return &assignment, nil
}

var _ port.CourseVaadRepository = (*CourseVaadRepository)(nil)
