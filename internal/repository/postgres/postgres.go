package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moramiel8/tau-2032-portal-sub000/internal/repository"
)

type pgExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const uniqueViolationCode = "23505"

// translateError maps driver-level errors onto repository sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return repository.ErrConflict
	}
	return err
}

// Repositories groups concrete PostgreSQL repository implementations.
type Repositories struct {
	GlobalRoles   *GlobalRoleRepository
	CourseVaad    *CourseVaadRepository
	Courses       *CourseRepository
	Announcements *AnnouncementRepository
}

// NewRepositories wires all repositories backed by the provided pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		GlobalRoles:   NewGlobalRoleRepository(pool),
		CourseVaad:    NewCourseVaadRepository(pool),
		Courses:       NewCourseRepository(pool),
		Announcements: NewAnnouncementRepository(pool),
	}
}
