package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/moramiel8/tau-2032-portal-sub000/internal/core/domain"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/repository"
)

type globalRoleRepoMock struct {
	byEmail map[string]domain.GlobalRoleAssignment
	getErr  error
}

func (m *globalRoleRepoMock) GetByEmail(_ context.Context, email string) (*domain.GlobalRoleAssignment, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if assignment, ok := m.byEmail[strings.ToLower(email)]; ok {
		return &assignment, nil
	}
	return nil, repository.ErrNotFound
}

func (m *globalRoleRepoMock) Upsert(_ context.Context, assignment domain.GlobalRoleAssignment) (*domain.GlobalRoleAssignment, error) {
	if m.byEmail == nil {
		m.byEmail = make(map[string]domain.GlobalRoleAssignment)
	}
	assignment.Email = strings.ToLower(assignment.Email)
	m.byEmail[assignment.Email] = assignment
	return &assignment, nil
}

func (m *globalRoleRepoMock) List(_ context.Context) ([]domain.GlobalRoleAssignment, error) {
	out := make([]domain.GlobalRoleAssignment, 0, len(m.byEmail))
	for _, assignment := range m.byEmail {
		out = append(out, assignment)
	}
	return out, nil
}

func (m *globalRoleRepoMock) Delete(_ context.Context, _ int64) error {
	return repository.ErrNotFound
}

func TestResolveHardAdminOverridesAssignment(t *testing.T) {
	repo := &globalRoleRepoMock{byEmail: map[string]domain.GlobalRoleAssignment{
		"admin@mail.tau.ac.il": {ID: 1, Email: "admin@mail.tau.ac.il", Role: domain.RoleVaad},
	}}
	resolver := NewRoleResolver([]string{"admin@mail.tau.ac.il"}, repo, zaptest.NewLogger(t))

	if got := resolver.Resolve(context.Background(), "admin@mail.tau.ac.il"); got != domain.RoleAdmin {
		t.Fatalf("Resolve = %q, want admin", got)
	}
}

func TestResolveCaseInsensitive(t *testing.T) {
	repo := &globalRoleRepoMock{byEmail: map[string]domain.GlobalRoleAssignment{
		"vaad@mail.tau.ac.il": {ID: 2, Email: "vaad@mail.tau.ac.il", Role: domain.RoleVaad},
	}}
	resolver := NewRoleResolver([]string{"admin@mail.tau.ac.il"}, repo, zaptest.NewLogger(t))

	if got := resolver.Resolve(context.Background(), "Admin@Mail.TAU.AC.IL"); got != domain.RoleAdmin {
		t.Fatalf("hard admin lookup should be case-insensitive, got %q", got)
	}
	if got := resolver.Resolve(context.Background(), "VAAD@mail.tau.ac.il"); got != domain.RoleVaad {
		t.Fatalf("assignment lookup should be case-insensitive, got %q", got)
	}
}

func TestResolveAssignmentRole(t *testing.T) {
	repo := &globalRoleRepoMock{byEmail: map[string]domain.GlobalRoleAssignment{
		"vaad@mail.tau.ac.il":  {ID: 2, Email: "vaad@mail.tau.ac.il", Role: domain.RoleVaad},
		"admin@dept.tau.ac.il": {ID: 3, Email: "admin@dept.tau.ac.il", Role: domain.RoleAdmin},
	}}
	resolver := NewRoleResolver(nil, repo, zaptest.NewLogger(t))

	if got := resolver.Resolve(context.Background(), "vaad@mail.tau.ac.il"); got != domain.RoleVaad {
		t.Fatalf("Resolve = %q, want vaad", got)
	}
	if got := resolver.Resolve(context.Background(), "admin@dept.tau.ac.il"); got != domain.RoleAdmin {
		t.Fatalf("Resolve = %q, want admin", got)
	}
}

func TestResolveDefaultsToStudent(t *testing.T) {
	resolver := NewRoleResolver(nil, &globalRoleRepoMock{}, zaptest.NewLogger(t))

	if got := resolver.Resolve(context.Background(), "someone@mail.tau.ac.il"); got != domain.RoleStudent {
		t.Fatalf("Resolve = %q, want student", got)
	}
}

func TestResolveFaultDegradesToStudent(t *testing.T) {
	repo := &globalRoleRepoMock{getErr: errors.New("connection refused")}
	resolver := NewRoleResolver(nil, repo, zaptest.NewLogger(t))

	if got := resolver.Resolve(context.Background(), "someone@mail.tau.ac.il"); got != domain.RoleStudent {
		t.Fatalf("a repository fault must resolve to student, got %q", got)
	}
}

func TestResolveEmptyEmail(t *testing.T) {
	resolver := NewRoleResolver(nil, &globalRoleRepoMock{}, zaptest.NewLogger(t))

	if got := resolver.Resolve(context.Background(), "  "); got != domain.RoleStudent {
		t.Fatalf("Resolve = %q, want student", got)
	}
}
