package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/moramiel8/tau-2032-portal-sub000/internal/core/domain"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/infra/config"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/repository"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/transport/http/middleware"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/usecase"
)

// In-memory repositories backing a full engine, so the route table and guard
// chain can be exercised end to end without postgres.

type memCourseRepo struct {
	mu      sync.Mutex
	courses map[string]domain.Course
}

func newMemCourseRepo() *memCourseRepo {
	return &memCourseRepo{courses: make(map[string]domain.Course)}
}

func (r *memCourseRepo) Insert(_ context.Context, course domain.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.courses[course.ID]; exists {
		return repository.ErrConflict
	}
	r.courses[course.ID] = course
	return nil
}

func (r *memCourseRepo) GetByID(_ context.Context, id string) (*domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	course, ok := r.courses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &course, nil
}

func (r *memCourseRepo) List(_ context.Context) ([]domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Course, 0, len(r.courses))
	for _, c := range r.courses {
		out = append(out, c)
	}
	return out, nil
}

func (r *memCourseRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.courses[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.courses, id)
	return nil
}

func (r *memCourseRepo) ListIDsWithBase(_ context.Context, base string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for id := range r.courses {
		if id == base || strings.HasPrefix(id, base+"-") {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type memAnnouncementRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   []domain.Announcement
}

func (r *memAnnouncementRepo) Insert(_ context.Context, a domain.Announcement) (*domain.Announcement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	a.ID = r.nextID
	r.rows = append(r.rows, a)
	return &a, nil
}

func (r *memAnnouncementRepo) ListByCourse(_ context.Context, courseID string) ([]domain.Announcement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Announcement
	for _, a := range r.rows {
		if a.CourseID == courseID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memAnnouncementRepo) Delete(_ context.Context, courseID string, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, a := range r.rows {
		if a.CourseID == courseID && a.ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *memAnnouncementRepo) DeleteByCourse(_ context.Context, courseID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.rows[:0]
	for _, a := range r.rows {
		if a.CourseID != courseID {
			kept = append(kept, a)
		}
	}
	r.rows = kept
	return nil
}

type memRoleRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[string]domain.GlobalRoleAssignment
}

func newMemRoleRepo() *memRoleRepo {
	return &memRoleRepo{rows: make(map[string]domain.GlobalRoleAssignment)}
}

func (r *memRoleRepo) GetByEmail(_ context.Context, email string) (*domain.GlobalRoleAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[strings.ToLower(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &row, nil
}

func (r *memRoleRepo) Upsert(_ context.Context, a domain.GlobalRoleAssignment) (*domain.GlobalRoleAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(a.Email)
	if existing, ok := r.rows[key]; ok {
		a.ID = existing.ID
	} else {
		r.nextID++
		a.ID = r.nextID
	}
	r.rows[key] = a
	return &a, nil
}

func (r *memRoleRepo) List(_ context.Context) ([]domain.GlobalRoleAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.GlobalRoleAssignment, 0, len(r.rows))
	for _, row := range r.rows {
		out = append(out, row)
	}
	return out, nil
}

func (r *memRoleRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, row := range r.rows {
		if row.ID == id {
			delete(r.rows, key)
			return nil
		}
	}
	return repository.ErrNotFound
}

type memVaadRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[string]domain.CourseVaadAssignment
}

func newMemVaadRepo() *memVaadRepo {
	return &memVaadRepo{rows: make(map[string]domain.CourseVaadAssignment)}
}

func (r *memVaadRepo) GetByEmail(_ context.Context, email string) (*domain.CourseVaadAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[strings.ToLower(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &row, nil
}

func (r *memVaadRepo) Upsert(_ context.Context, a domain.CourseVaadAssignment) (*domain.CourseVaadAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(a.Email)
	if existing, ok := r.rows[key]; ok {
		a.ID = existing.ID
	} else {
		r.nextID++
		a.ID = r.nextID
	}
	r.rows[key] = a
	return &a, nil
}

func (r *memVaadRepo) List(_ context.Context) ([]domain.CourseVaadAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.CourseVaadAssignment, 0, len(r.rows))
	for _, row := range r.rows {
		out = append(out, row)
	}
	return out, nil
}

func (r *memVaadRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, row := range r.rows {
		if row.ID == id {
			delete(r.rows, key)
			return nil
		}
	}
	return repository.ErrNotFound
}

type testEnv struct {
	engine http.Handler
	vaad   *memVaadRepo
	roles  *memRoleRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := zaptest.NewLogger(t)
	roles := newMemRoleRepo()
	vaad := newMemVaadRepo()
	courses := newMemCourseRepo()
	announcements := &memAnnouncementRepo{}

	resolver := usecase.NewRoleResolver([]string{"admin@mail.tau.ac.il"}, roles, log)
	access := usecase.NewCourseAccessService(vaad)
	courseSvc := usecase.NewCourseService(courses, announcements, nil, log)
	assignSvc := usecase.NewAssignmentService(roles, vaad, nil, log)

	cfg := &config.AppConfig{}
	cfg.App.Env = "test"

	engine := Register(Dependencies{
		Config: cfg,
		Logger: log,
		Services: ServiceSet{
			Resolver:    resolver,
			Access:      access,
			Courses:     courseSvc,
			Assignments: assignSvc,
		},
	})

	return &testEnv{engine: engine, vaad: vaad, roles: roles}
}

func (e *testEnv) do(method, target, email, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if email != "" {
		req.Header.Set(middleware.IdentityHeader, email)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func TestCoursesRequireIdentity(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/v1/courses", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous list = %d, want 401", w.Code)
	}

	w = env.do(http.MethodGet, "/api/v1/courses", "student@mail.tau.ac.il", "")
	if w.Code != http.StatusOK {
		t.Fatalf("authenticated list = %d, want 200", w.Code)
	}
}

func TestCourseCreationGuardAndID(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/v1/courses", "student@mail.tau.ac.il", `{"name":"Organic Chemistry"}`)
	if w.Code != http.StatusForbidden {
		t.Fatalf("student create = %d, want 403", w.Code)
	}

	w = env.do(http.MethodPost, "/api/v1/courses", "admin@mail.tau.ac.il", `{"name":"Organic Chemistry"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("admin create = %d, want 201: %s", w.Code, w.Body.String())
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.ID != "organic-chemistry" {
		t.Fatalf("id = %q, want organic-chemistry", created.ID)
	}

	// Same name again gets a numbered identifier.
	w = env.do(http.MethodPost, "/api/v1/courses", "admin@mail.tau.ac.il", `{"name":"Organic Chemistry"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("second create = %d, want 201", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode second create response: %v", err)
	}
	if created.ID != "organic-chemistry-2" {
		t.Fatalf("second id = %q, want organic-chemistry-2", created.ID)
	}
}

func TestCourseDeleteIsAdminOnly(t *testing.T) {
	env := newTestEnv(t)

	env.do(http.MethodPost, "/api/v1/courses", "admin@mail.tau.ac.il", `{"name":"Linear Algebra"}`)
	env.roles.rows["vaad@mail.tau.ac.il"] = domain.GlobalRoleAssignment{ID: 99, Email: "vaad@mail.tau.ac.il", Role: domain.RoleVaad}

	w := env.do(http.MethodDelete, "/api/v1/courses/linear-algebra", "vaad@mail.tau.ac.il", "")
	if w.Code != http.StatusForbidden {
		t.Fatalf("vaad delete = %d, want 403", w.Code)
	}

	w = env.do(http.MethodDelete, "/api/v1/courses/linear-algebra", "admin@mail.tau.ac.il", "")
	if w.Code != http.StatusOK {
		t.Fatalf("admin delete = %d, want 200", w.Code)
	}

	w = env.do(http.MethodGet, "/api/v1/courses/linear-algebra", "admin@mail.tau.ac.il", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("deleted course fetch = %d, want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), "not_found") {
		t.Fatalf("body %q missing not_found", w.Body.String())
	}
}

func TestAnnouncementScopeGuard(t *testing.T) {
	env := newTestEnv(t)

	env.do(http.MethodPost, "/api/v1/courses", "admin@mail.tau.ac.il", `{"name":"Bio Lab"}`)
	env.vaad.rows["rep@mail.tau.ac.il"] = domain.CourseVaadAssignment{ID: 1, Email: "rep@mail.tau.ac.il", CourseIDs: []string{"bio-lab"}}

	w := env.do(http.MethodPost, "/api/v1/courses/bio-lab/announcements", "rep@mail.tau.ac.il", `{"title":"Exam moved","body":"Now on Tuesday."}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("scoped rep post = %d, want 201: %s", w.Code, w.Body.String())
	}

	w = env.do(http.MethodPost, "/api/v1/courses/bio-lab/announcements", "other@mail.tau.ac.il", `{"title":"Spam"}`)
	if w.Code != http.StatusForbidden {
		t.Fatalf("unscoped post = %d, want 403", w.Code)
	}

	w = env.do(http.MethodGet, "/api/v1/courses/bio-lab/announcements", "student@mail.tau.ac.il", "")
	if w.Code != http.StatusOK {
		t.Fatalf("student read = %d, want 200", w.Code)
	}
	var list struct {
		Announcements []struct {
			Title string `json:"title"`
		} `json:"announcements"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode announcements: %v", err)
	}
	if len(list.Announcements) != 1 || list.Announcements[0].Title != "Exam moved" {
		t.Fatalf("announcements = %+v, want the single posted row", list.Announcements)
	}
}

func TestMeRoleReflectsAssignments(t *testing.T) {
	env := newTestEnv(t)
	env.roles.rows["vaad@mail.tau.ac.il"] = domain.GlobalRoleAssignment{ID: 1, Email: "vaad@mail.tau.ac.il", Role: domain.RoleVaad}

	cases := []struct {
		email string
		want  string
	}{
		{"Admin@Mail.TAU.AC.IL", "admin"},
		{"vaad@mail.tau.ac.il", "vaad"},
		{"nobody@mail.tau.ac.il", "student"},
	}
	for _, tc := range cases {
		w := env.do(http.MethodGet, "/api/v1/me/role", tc.email, "")
		if w.Code != http.StatusOK {
			t.Fatalf("me/role for %s = %d, want 200", tc.email, w.Code)
		}
		var me struct {
			Role string `json:"role"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &me); err != nil {
			t.Fatalf("decode me/role: %v", err)
		}
		if me.Role != tc.want {
			t.Fatalf("role for %s = %q, want %q", tc.email, me.Role, tc.want)
		}
	}
}

func TestRoleAdminEndpointsGuarded(t *testing.T) {
	env := newTestEnv(t)
	env.roles.rows["vaad@mail.tau.ac.il"] = domain.GlobalRoleAssignment{ID: 1, Email: "vaad@mail.tau.ac.il", Role: domain.RoleVaad}

	w := env.do(http.MethodPost, "/api/v1/roles", "vaad@mail.tau.ac.il", `{"email":"x@mail.tau.ac.il","role":"vaad"}`)
	if w.Code != http.StatusForbidden {
		t.Fatalf("vaad touching roles = %d, want 403", w.Code)
	}

	w = env.do(http.MethodPost, "/api/v1/roles", "admin@mail.tau.ac.il", `{"email":"X@Mail.tau.ac.il","role":"vaad"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("admin upsert = %d, want 200: %s", w.Code, w.Body.String())
	}
	var assigned struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &assigned); err != nil {
		t.Fatalf("decode upsert: %v", err)
	}
	if assigned.Email != "x@mail.tau.ac.il" {
		t.Fatalf("stored email = %q, want lower-cased", assigned.Email)
	}

	w = env.do(http.MethodDelete, "/api/v1/roles/abc", "admin@mail.tau.ac.il", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric id = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "invalid_id") {
		t.Fatalf("body %q missing invalid_id", w.Body.String())
	}
}
