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

// GlobalRoleRepository implements portal-wide role persistence.
type GlobalRoleRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewGlobalRoleRepository constructs a repository backed by any executor that
// satisfies pgExecutor.
func NewGlobalRoleRepository(exec pgExecutor) *GlobalRoleRepository {
	return &GlobalRoleRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByEmail retrieves the assignment for an email, case-insensitively.
func (r *GlobalRoleRepository) GetByEmail(ctx context.Context, email string) (*domain.GlobalRoleAssignment, error) {
	stmt, args, err := r.builder.Select("id", "email", "role", "display_name").
		From("global_roles").
		Where(squirrel.Eq{"LOWER(email)": strings.ToLower(email)}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select global role sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)
	return scanGlobalRole(row)
}

// Upsert inserts or updates the single row for the assignment's email and
// returns the stored record.
func (r *GlobalRoleRepository) Upsert(ctx context.Context, assignment domain.GlobalRoleAssignment) (*domain.GlobalRoleAssignment, error) {
	email := strings.ToLower(assignment.Email)

	stmt, args, err := r.builder.Insert("global_roles").
		Columns("email", "role", "display_name").
		Values(email, string(assignment.Role), assignment.DisplayName).
		Suffix("ON CONFLICT (email) DO UPDATE SET role = EXCLUDED.role, display_name = EXCLUDED.display_name RETURNING id, email, role, display_name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build upsert global role sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)
	return scanGlobalRole(row)
}

// List returns all assignments ordered by email.
func (r *GlobalRoleRepository) List(ctx context.Context) ([]domain.GlobalRoleAssignment, error) {
	stmt, args, err := r.builder.Select("id", "email", "role", "display_name").
		From("global_roles").
		OrderBy("email ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list global roles sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query global roles: %w", err)
	}
	defer rows.Close()

	assignments := make([]domain.GlobalRoleAssignment, 0)
	for rows.Next() {
		var (
			assignment  domain.GlobalRoleAssignment
			role        string
			displayName sql.NullString
		)
		if err := rows.Scan(&assignment.ID, &assignment.Email, &role, &displayName); err != nil {
			return nil, fmt.Errorf("scan global role: %w", err)
		}
		assignment.Role = domain.Role(role)
		if displayName.Valid {
			assignment.DisplayName = &displayName.String
		}
		assignments = append(assignments, assignment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate global roles: %w", err)
	}

	return assignments, nil
}

// Delete removes an assignment by row id.
func (r *GlobalRoleRepository) Delete(ctx context.Context, id int64) error {
	stmt, args, err := r.builder.Delete("global_roles").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete global role sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete global role: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func scanGlobalRole(row interface{ Scan(dest ...any) error }) (*domain.GlobalRoleAssignment, error) {
	var (
		assignment  domain.GlobalRoleAssignment
		role        string
		displayName sql.NullString
	)

	if err := row.Scan(&assignment.ID, &assignment.Email, &role, &displayName); err != nil {
		if translated := translateError(err); translated == repository.ErrNotFound || translated == repository.ErrConflict {
			return nil, translated
		}
		return nil, fmt.Errorf("scan global role: %w", err)
	}

	assignment.Role = domain.Role(role)
	if displayName.Valid {
		assignment.DisplayName = &displayName.String
	}

	return &assignment, nil
}

var _ port.GlobalRoleRepository = (*GlobalRoleRepository)(nil)
