package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/apexshine/detailbooking/internal/kafka"
	"github.com/rs/zerolog"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, event kafka.BookingEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func eventMessage(t *testing.T) kafkaGo.Message {
	t.Helper()
	event := kafka.BookingEvent{
		Type:          "booking_created",
		BookingID:     "b1",
		CustomerEmail: "jane@example.com",
		Status:        "pending",
	}
	data, err := json.Marshal(event)
	assert.NoError(t, err)
	return kafkaGo.Message{Value: data}
}

func fastPolicy(retries int) RetryPolicy {
	return RetryPolicy{MaxRetries: retries, InitialDelay: time.Millisecond}
}

func TestNotifier_Handle(t *testing.T) {
	sender := &MockSender{}
	notifier := NewNotifier(sender, zerolog.Nop(), fastPolicy(3), time.Second)

	sender.On("Send", mock.Anything, mock.AnythingOfType("kafka.BookingEvent")).Return(nil).Once()

	err := notifier.Handle(context.Background(), eventMessage(t))

	assert.NoError(t, err)
	sender.AssertExpectations(t)
}

func TestNotifier_Handle_RetriesThenSucceeds(t *testing.T) {
	sender := &MockSender{}
	notifier := NewNotifier(sender, zerolog.Nop(), fastPolicy(3), time.Second)

	sender.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp refused")).Twice()
	sender.On("Send", mock.Anything, mock.Anything).Return(nil).Once()

	err := notifier.Handle(context.Background(), eventMessage(t))

	assert.NoError(t, err)
	sender.AssertExpectations(t)
}

func TestNotifier_Handle_GivesUpWithoutStoppingConsumer(t *testing.T) {
	sender := &MockSender{}
	notifier := NewNotifier(sender, zerolog.Nop(), fastPolicy(2), time.Second)

	sender.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp refused")).Times(2)

	// Best effort: a lost email never propagates as a consumer error.
	err := notifier.Handle(context.Background(), eventMessage(t))

	assert.NoError(t, err)
	sender.AssertExpectations(t)
}

func TestNotifier_Handle_DropsUndecodableMessage(t *testing.T) {
	sender := &MockSender{}
	notifier := NewNotifier(sender, zerolog.Nop(), fastPolicy(3), time.Second)

	err := notifier.Handle(context.Background(), kafkaGo.Message{Value: []byte("not json")})

	assert.NoError(t, err)
	sender.AssertNotCalled(t, "Send")
}

func TestRetryPolicy_NextDelay(t *testing.T) {
	policy := RetryPolicy{MaxRetries: 5, InitialDelay: time.Second, BackoffFactor: 2, MaxDelay: 5 * time.Second}

	assert.Equal(t, time.Second, policy.NextDelay(1))
	assert.Equal(t, 2*time.Second, policy.NextDelay(2))
	assert.Equal(t, 4*time.Second, policy.NextDelay(3))
	assert.Equal(t, 5*time.Second, policy.NextDelay(4)) // clamped

	// Defaults kick in for zero values.
	assert.Equal(t, time.Second, RetryPolicy{}.NextDelay(0))
}
