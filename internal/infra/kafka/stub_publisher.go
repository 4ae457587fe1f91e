package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/moramiel8/tau-2032-portal-sub000/internal/core/domain"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Used when no
// brokers are configured.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, actor string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("stub event published",
		zap.String("event_type", eventType),
		zap.String("actor", actor),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

func (p *StubPublisher) PublishCourseCreated(_ context.Context, event domain.CourseCreatedEvent) error {
	p.logEvent("portal.course.created", event.Actor, event.CreatedAt, map[string]any{
		"course_id": event.CourseID,
		"name":      event.Name,
	})
	return nil
}

func (p *StubPublisher) PublishCourseDeleted(_ context.Context, event domain.CourseDeletedEvent) error {
	p.logEvent("portal.course.deleted", event.Actor, event.DeletedAt, map[string]any{
		"course_id": event.CourseID,
	})
	return nil
}

func (p *StubPublisher) PublishGlobalRoleAssigned(_ context.Context, event domain.GlobalRoleAssignedEvent) error {
	p.logEvent("portal.role.assigned", event.Actor, event.AssignedAt, map[string]any{
		"email": event.Email,
		"role":  event.Role,
	})
	return nil
}

func (p *StubPublisher) PublishGlobalRoleRevoked(_ context.Context, event domain.GlobalRoleRevokedEvent) error {
	p.logEvent("portal.role.revoked", event.Actor, event.RevokedAt, map[string]any{
		"email": event.Email,
	})
	return nil
}

func (p *StubPublisher) PublishCourseVaadUpdated(_ context.Context, event domain.CourseVaadUpdatedEvent) error {
	p.logEvent("portal.course_vaad.updated", event.Actor, event.UpdatedAt, map[string]any{
		"email":      event.Email,
		"course_ids": event.CourseIDs,
	})
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
