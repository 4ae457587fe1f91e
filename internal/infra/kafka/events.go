package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/moramiel8/tau-2032-portal-sub000/internal/core/domain"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/core/port"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/infra/config"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type eventEnvelope struct {
	EventID   string            `json:"event_id"`
	EventType string            `json:"event_type"`
	Actor     string            `json:"actor,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Payload   any               `json:"payload"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, actor string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	metadata := map[string]string{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		metadata["trace_id"] = sc.TraceID().String()
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		Actor:     actor,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata:  metadata,
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishCourseCreated publishes portal.course.created events.
func (p *EventPublisher) PublishCourseCreated(ctx context.Context, event domain.CourseCreatedEvent) error {
	payload := struct {
		CourseID  string    `json:"course_id"`
		Name      string    `json:"name"`
		CreatedAt time.Time `json:"created_at"`
	}{
		CourseID:  event.CourseID,
		Name:      event.Name,
		CreatedAt: event.CreatedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "portal.course.created", event.Actor, event.CreatedAt, payload)
}

// PublishCourseDeleted publishes portal.course.deleted events.
func (p *EventPublisher) PublishCourseDeleted(ctx context.Context, event domain.CourseDeletedEvent) error {
	payload := struct {
		CourseID  string    `json:"course_id"`
		DeletedAt time.Time `json:"deleted_at"`
	}{
		CourseID:  event.CourseID,
		DeletedAt: event.DeletedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "portal.course.deleted", event.Actor, event.DeletedAt, payload)
}

// PublishGlobalRoleAssigned publishes portal.role.assigned events.
func (p *EventPublisher) PublishGlobalRoleAssigned(ctx context.Context, event domain.GlobalRoleAssignedEvent) error {
	payload := struct {
		Email      string    `json:"email"`
		Role       string    `json:"role"`
		AssignedAt time.Time `json:"assigned_at"`
	}{
		Email:      event.Email,
		Role:       event.Role,
		AssignedAt: event.AssignedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "portal.role.assigned", event.Actor, event.AssignedAt, payload)
}

// PublishGlobalRoleRevoked publishes portal.role.revoked events.
func (p *EventPublisher) PublishGlobalRoleRevoked(ctx context.Context, event domain.GlobalRoleRevokedEvent) error {
	payload := struct {
		Email     string    `json:"email,omitempty"`
		RevokedAt time.Time `json:"revoked_at"`
	}{
		Email:     event.Email,
		RevokedAt: event.RevokedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "portal.role.revoked", event.Actor, event.RevokedAt, payload)
}

// PublishCourseVaadUpdated publishes portal.course_vaad.updated events.
func (p *EventPublisher) PublishCourseVaadUpdated(ctx context.Context, event domain.CourseVaadUpdatedEvent) error {
	payload := struct {
		Email     string    `json:"email"`
		CourseIDs []string  `json:"course_ids"`
		UpdatedAt time.Time `json:"updated_at"`
	}{
		Email:     event.Email,
		CourseIDs: event.CourseIDs,
		UpdatedAt: event.UpdatedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "portal.course_vaad.updated", event.Actor, event.UpdatedAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
