package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/foodcourt-platform/platform/eventbus"
)

type mockMarkers struct{ mock.Mock }

func (m *mockMarkers) Exists(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(eventID)
	return args.Bool(0), args.Error(1)
}

func (m *mockMarkers) SetMarker(ctx context.Context, eventID string) error {
	args := m.Called(eventID)
	return args.Error(0)
}

type mockSender struct{ mock.Mock }

func (m *mockSender) Send(aggregateID, message string) error {
	args := m.Called(aggregateID, message)
	return args.Error(0)
}

func TestConsumer_Process_Delivers(t *testing.T) {
	markers := new(mockMarkers)
	sender := new(mockSender)
	markers.On("Exists", "ev-1").Return(false, nil)
	sender.On("Send", "order-1", "order order-1 received").Return(nil)
	markers.On("SetMarker", "ev-1").Return(nil)

	c := NewConsumer(nil, markers, sender)
	err := c.Process(context.Background(), eventbus.Event{
		ID:          "ev-1",
		AggregateID: "order-1",
		Kind:        eventbus.OrderCreated,
	})

	assert.NoError(t, err)
	markers.AssertExpectations(t)
	sender.AssertExpectations(t)
}

func TestConsumer_Process_SkipsAlreadyProcessed(t *testing.T) {
	markers := new(mockMarkers)
	sender := new(mockSender)
	markers.On("Exists", "ev-1").Return(true, nil)

	c := NewConsumer(nil, markers, sender)
	err := c.Process(context.Background(), eventbus.Event{ID: "ev-1", Kind: eventbus.OrderCreated})

	assert.NoError(t, err)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	markers.AssertExpectations(t)
}

func TestConsumer_Process_UnrenderedKindStillMarksProcessed(t *testing.T) {
	markers := new(mockMarkers)
	sender := new(mockSender)
	markers.On("Exists", "ev-1").Return(false, nil)
	markers.On("SetMarker", "ev-1").Return(nil)

	c := NewConsumer(nil, markers, sender)
	err := c.Process(context.Background(), eventbus.Event{ID: "ev-1", Kind: eventbus.PaymentCreated})

	assert.NoError(t, err)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	markers.AssertExpectations(t)
}

func TestConsumer_Process_SendErrorPropagates(t *testing.T) {
	markers := new(mockMarkers)
	sender := new(mockSender)
	markers.On("Exists", "ev-1").Return(false, nil)
	sender.On("Send", "order-1", mock.Anything).Return(errors.New("provider down"))

	c := NewConsumer(nil, markers, sender)
	err := c.Process(context.Background(), eventbus.Event{
		ID:          "ev-1",
		AggregateID: "order-1",
		Kind:        eventbus.OrderCreated,
	})

	assert.Error(t, err)
	markers.AssertNotCalled(t, "SetMarker", mock.Anything)
}
