package domain

import "time"

// CourseCreatedEvent is emitted after a course row is persisted.
type CourseCreatedEvent struct {
	EventID   string
	CourseID  string
	Name      string
	Actor     string
	CreatedAt time.Time
}

// CourseDeletedEvent is emitted after a course and its dependent content
// have been removed.
type CourseDeletedEvent struct {
	EventID   string
	CourseID  string
	Actor     string
	DeletedAt time.Time
}

// GlobalRoleAssignedEvent is emitted when a portal-wide role is created or
// updated for an email.
type GlobalRoleAssignedEvent struct {
	EventID    string
	Email      string
	Role       string
	Actor      string
	AssignedAt time.Time
}

// GlobalRoleRevokedEvent is emitted when a portal-wide role row is deleted.
type GlobalRoleRevokedEvent struct {
	EventID   string
	Email     string
	Actor     string
	RevokedAt time.Time
}

// CourseVaadUpdatedEvent is emitted when a course-scoped grant is created or
// its course set changes.
type CourseVaadUpdatedEvent struct {
	EventID   string
	Email     string
	CourseIDs []string
	Actor     string
	UpdatedAt time.Time
}
