package port

import (
	"context"

	"github.com/moramiel8/tau-2032-portal-sub000/internal/core/domain"
)

// EventPublisher publishes portal audit events to the message bus.
type EventPublisher interface {
	PublishCourseCreated(ctx context.Context, event domain.CourseCreatedEvent) error
	PublishCourseDeleted(ctx context.Context, event domain.CourseDeletedEvent) error
	PublishGlobalRoleAssigned(ctx context.Context, event domain.GlobalRoleAssignedEvent) error
	PublishGlobalRoleRevoked(ctx context.Context, event domain.GlobalRoleRevokedEvent) error
	PublishCourseVaadUpdated(ctx context.Context, event domain.CourseVaadUpdatedEvent) error
}
