package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap/zaptest"

	"github.com/moramiel8/tau-2032-portal-sub000/internal/core/domain"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/infra/config"
)

type fakeAsyncProducer struct {
	input  chan *sarama.ProducerMessage
	errors chan *sarama.ProducerError
}

func newFakeAsyncProducer() *fakeAsyncProducer {
	return &fakeAsyncProducer{
		input:  make(chan *sarama.ProducerMessage, 1),
		errors: make(chan *sarama.ProducerError, 1),
	}
}

func (f *fakeAsyncProducer) AsyncClose() {}

func (f *fakeAsyncProducer) Close() error { return nil }

func (f *fakeAsyncProducer) Input() chan<- *sarama.ProducerMessage { return f.input }

func (f *fakeAsyncProducer) Successes() <-chan *sarama.ProducerMessage { return nil }

func (f *fakeAsyncProducer) Errors() <-chan *sarama.ProducerError { return f.errors }

func (f *fakeAsyncProducer) IsTransactional() bool { return false }

func (f *fakeAsyncProducer) BeginTxn() error { return nil }

func (f *fakeAsyncProducer) CommitTxn() error { return nil }

func (f *fakeAsyncProducer) AbortTxn() error { return nil }

func (f *fakeAsyncProducer) AddOffsetsToTxn(offsets map[string][]*sarama.PartitionOffsetMetadata, groupID string) error {
	return nil
}

func (f *fakeAsyncProducer) AddMessageToTxn(msg *sarama.ConsumerMessage, groupID string, metadata *string) error {
	return nil
}

func (f *fakeAsyncProducer) TxnStatus() sarama.ProducerTxnStatusFlag {
	return sarama.ProducerTxnStatusFlag(0)
}

func TestPublishCourseCreated(t *testing.T) {
	asyncProducer := newFakeAsyncProducer()

	producer := &Producer{
		producer: asyncProducer,
		logger:   zaptest.NewLogger(t),
		cfg: config.KafkaSettings{
			TopicPrefix: "portal",
		},
		done: make(chan struct{}),
	}

	publisher := NewEventPublisher(producer, config.AppSettings{
		Name: "course-portal",
		Env:  "test",
	}, zaptest.NewLogger(t))

	createdAt := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	event := domain.CourseCreatedEvent{
		EventID:   "event-123",
		CourseID:  "organic-chemistry",
		Name:      "Organic Chemistry",
		Actor:     "admin@mail.tau.ac.il",
		CreatedAt: createdAt,
	}

	if err := publisher.PublishCourseCreated(context.Background(), event); err != nil {
		t.Fatalf("PublishCourseCreated returned error: %v", err)
	}

	select {
	case msg := <-asyncProducer.input:
		if msg.Topic != "portal.course.created" {
			t.Fatalf("unexpected topic: %s", msg.Topic)
		}

		bytes, err := msg.Value.Encode()
		if err != nil {
			t.Fatalf("Value.Encode returned error: %v", err)
		}

		var envelope map[string]any
		if err := json.Unmarshal(bytes, &envelope); err != nil {
			t.Fatalf("failed to unmarshal envelope: %v", err)
		}

		if got := envelope["event_type"]; got != "portal.course.created" {
			t.Fatalf("unexpected event_type: %v", got)
		}

		if got := envelope["actor"]; got != event.Actor {
			t.Fatalf("unexpected actor: %v", got)
		}

		payload, ok := envelope["payload"].(map[string]any)
		if !ok {
			t.Fatalf("payload not a map: %T", envelope["payload"])
		}

		if got := payload["course_id"]; got != event.CourseID {
			t.Fatalf("unexpected course_id: %v", got)
		}
	default:
		t.Fatal("no message was produced")
	}
}

func TestTopicNameIdempotentPrefix(t *testing.T) {
	producer := &Producer{cfg: config.KafkaSettings{TopicPrefix: "portal"}}

	if got := producer.TopicName("portal.course.created"); got != "portal.course.created" {
		t.Fatalf("prefixed event type mangled: %s", got)
	}
	if got := producer.TopicName("course.created"); got != "portal.course.created" {
		t.Fatalf("bare event type = %s, want portal.course.created", got)
	}
}
