package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/engthiagolucena/customer-risk-analysis/internal/application/dto"
	"github.com/engthiagolucena/customer-risk-analysis/internal/application/usecase"
	"github.com/engthiagolucena/customer-risk-analysis/internal/domain/event"
	"github.com/engthiagolucena/customer-risk-analysis/internal/infrastructure/kafka"
	pkgkafka "github.com/engthiagolucena/customer-risk-analysis/pkg/kafka"
)

// --- Mock implementations ---

type mockProducer struct {
	publishFunc func(ctx context.Context, topic string, messages ...pkgkafka.Message) error
	topic       string
	messages    []pkgkafka.Message
}

func (m *mockProducer) Publish(ctx context.Context, topic string, messages ...pkgkafka.Message) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, topic, messages...)
	}
	m.topic = topic
	m.messages = append(m.messages, messages...)
	return nil
}

type mockEvaluator struct {
	executeFunc func(ctx context.Context, req dto.EvaluateRiskRequest) (dto.EvaluateRiskResponse, error)
	received    []dto.EvaluateRiskRequest
}

func (m *mockEvaluator) Execute(ctx context.Context, req dto.EvaluateRiskRequest) (dto.EvaluateRiskResponse, error) {
	m.received = append(m.received, req)
	if m.executeFunc != nil {
		return m.executeFunc(ctx, req)
	}
	return dto.EvaluateRiskResponse{AssessmentID: "a-1", Score: 3, Tier: "LOW"}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- Publisher ---

func TestKafkaEventPublisher_Publish(t *testing.T) {
	producer := &mockProducer{}
	publisher := kafka.NewKafkaEventPublisher(producer, "risk.events", testLogger())

	assessed := event.NewRiskAssessed("assess-1", "dealer-5", "app-1", "Ana Silva", false, 9, "HIGH",
		[]string{"Short employment history"}, time.Now().UTC())
	high := event.NewHighRiskDetected("assess-1", "dealer-5", "app-1", 9, nil, time.Now().UTC())

	require.NoError(t, publisher.Publish(context.Background(), assessed, high))

	assert.Equal(t, "risk.events", producer.topic)
	require.Len(t, producer.messages, 2)

	msg := producer.messages[0]
	assert.Equal(t, "assess-1", string(msg.Key))
	assert.Equal(t, event.EventTypeRiskAssessed, msg.Headers["event_type"])
	assert.Equal(t, assessed.EventID(), msg.Headers["event_id"])
	assert.Equal(t, "dealer-5", msg.Headers["dealership_id"])

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &envelope))
	assert.Equal(t, event.EventTypeRiskAssessed, envelope["event_type"])
	payload := envelope["payload"].(map[string]any)
	assert.Equal(t, float64(9), payload["score"])
	assert.Equal(t, "app-1", payload["application_id"])

	assert.Equal(t, event.EventTypeHighRiskDetected, producer.messages[1].Headers["event_type"])
}

func TestKafkaEventPublisher_NoEvents(t *testing.T) {
	producer := &mockProducer{
		publishFunc: func(context.Context, string, ...pkgkafka.Message) error {
			t.Fatal("producer must not be called")
			return nil
		},
	}
	publisher := kafka.NewKafkaEventPublisher(producer, "risk.events", testLogger())

	require.NoError(t, publisher.Publish(context.Background()))
}

func TestKafkaEventPublisher_ProducerError(t *testing.T) {
	producer := &mockProducer{
		publishFunc: func(context.Context, string, ...pkgkafka.Message) error {
			return errors.New("leader not available")
		},
	}
	publisher := kafka.NewKafkaEventPublisher(producer, "risk.events", testLogger())

	err := publisher.Publish(context.Background(),
		event.NewRiskAssessed("a", "", "", "", false, 1, "LOW", nil, time.Now()))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "risk.events")
	assert.Contains(t, err.Error(), "leader not available")
}

// --- Application consumer ---

func TestApplicationHandler_Handle(t *testing.T) {
	t.Run("evaluates a valid message", func(t *testing.T) {
		evaluator := &mockEvaluator{}
		h := kafka.NewApplicationHandler(evaluator, testLogger())

		err := h.Handle(context.Background(), pkgkafka.Message{
			Key:     []byte("deal-77"),
			Value:   []byte(`{"primary":{"first_name":"Ana","employment_type":"W2","pay_frequency":"Monthly","age":30,"paychecks":[4000]},"trade_in_value":0}`),
			Headers: map[string]string{"dealership_id": "dealer-3"},
		})

		require.NoError(t, err)
		require.Len(t, evaluator.received, 1)
		req := evaluator.received[0]
		assert.Equal(t, "Ana", req.Primary.FirstName)
		assert.Equal(t, "dealer-3", req.DealershipID, "header fills a missing dealership")
		require.Len(t, req.Primary.Paychecks, 1)
		assert.Equal(t, "4000", req.Primary.Paychecks[0].String())
	})

	t.Run("body dealership wins over header", func(t *testing.T) {
		evaluator := &mockEvaluator{}
		h := kafka.NewApplicationHandler(evaluator, testLogger())

		err := h.Handle(context.Background(), pkgkafka.Message{
			Value:   []byte(`{"dealership_id":"dealer-body","primary":{}}`),
			Headers: map[string]string{"dealership_id": "dealer-header"},
		})

		require.NoError(t, err)
		assert.Equal(t, "dealer-body", evaluator.received[0].DealershipID)
	})

	t.Run("malformed JSON is skipped", func(t *testing.T) {
		h := kafka.NewApplicationHandler(&mockEvaluator{}, testLogger())

		err := h.Handle(context.Background(), pkgkafka.Message{Value: []byte(`{not json`)})

		assert.ErrorIs(t, err, pkgkafka.ErrSkipMessage)
	})

	t.Run("unknown fields are skipped", func(t *testing.T) {
		h := kafka.NewApplicationHandler(&mockEvaluator{}, testLogger())

		err := h.Handle(context.Background(), pkgkafka.Message{Value: []byte(`{"applicant":{}}`)})

		assert.ErrorIs(t, err, pkgkafka.ErrSkipMessage)
	})

	t.Run("invalid application is skipped", func(t *testing.T) {
		evaluator := &mockEvaluator{
			executeFunc: func(context.Context, dto.EvaluateRiskRequest) (dto.EvaluateRiskResponse, error) {
				return dto.EvaluateRiskResponse{}, usecase.ErrInvalidApplication
			},
		}
		h := kafka.NewApplicationHandler(evaluator, testLogger())

		err := h.Handle(context.Background(), pkgkafka.Message{Value: []byte(`{"primary":{}}`)})

		assert.ErrorIs(t, err, pkgkafka.ErrSkipMessage)
	})

	t.Run("unexpected failure is retried", func(t *testing.T) {
		evaluator := &mockEvaluator{
			executeFunc: func(context.Context, dto.EvaluateRiskRequest) (dto.EvaluateRiskResponse, error) {
				return dto.EvaluateRiskResponse{}, errors.New("context deadline exceeded")
			},
		}
		h := kafka.NewApplicationHandler(evaluator, testLogger())

		err := h.Handle(context.Background(), pkgkafka.Message{Value: []byte(`{"primary":{}}`)})

		require.Error(t, err)
		assert.NotErrorIs(t, err, pkgkafka.ErrSkipMessage)
	})
}
