package postgres

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/moramiel8/tau-2032-portal-sub000/internal/core/domain"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/repository"
)

func TestGlobalRoleRepository_GetByEmailLowercasesArg(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewGlobalRoleRepository(mock)

	rows := pgxmock.NewRows([]string{"id", "email", "role", "display_name"}).
		AddRow(int64(7), "vaad@mail.tau.ac.il", "vaad", nil)

	mock.ExpectQuery(`SELECT id, email, role, display_name FROM global_roles`).
		WithArgs("vaad@mail.tau.ac.il").
		WillReturnRows(rows)

	assignment, err := repo.GetByEmail(context.Background(), "Vaad@Mail.TAU.ac.il")
	if err != nil {
		t.Fatalf("GetByEmail returned error: %v", err)
	}
	if assignment.ID != 7 || assignment.Role != domain.RoleVaad {
		t.Fatalf("unexpected assignment: %+v", assignment)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGlobalRoleRepository_GetByEmailNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewGlobalRoleRepository(mock)

	mock.ExpectQuery(`SELECT id, email, role, display_name FROM global_roles`).
		WithArgs("nobody@mail.tau.ac.il").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "role", "display_name"}))

	_, err = repo.GetByEmail(context.Background(), "nobody@mail.tau.ac.il")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGlobalRoleRepository_Upsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewGlobalRoleRepository(mock)

	name := "Dana"
	rows := pgxmock.NewRows([]string{"id", "email", "role", "display_name"}).
		AddRow(int64(3), "dana@mail.tau.ac.il", "admin", name)

	mock.ExpectQuery(`INSERT INTO global_roles .+ON CONFLICT \(email\) DO UPDATE`).
		WithArgs("dana@mail.tau.ac.il", "admin", &name).
		WillReturnRows(rows)

	stored, err := repo.Upsert(context.Background(), domain.GlobalRoleAssignment{
		Email:       "Dana@mail.tau.ac.il",
		Role:        domain.RoleAdmin,
		DisplayName: &name,
	})
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	if stored.ID != 3 || stored.Email != "dana@mail.tau.ac.il" {
		t.Fatalf("unexpected stored row: %+v", stored)
	}
	if stored.DisplayName == nil || *stored.DisplayName != name {
		t.Fatal("display name not carried through")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGlobalRoleRepository_DeleteMissingRow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewGlobalRoleRepository(mock)

	mock.ExpectExec(`DELETE FROM global_roles`).
		WithArgs(int64(42)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := repo.Delete(context.Background(), 42); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for zero rows, got %v", err)
	}
}
