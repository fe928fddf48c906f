package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBusPublishJSON(t *testing.T) {
	bus := NewEventBus()

	var got AppointmentEventPayload
	calls := 0
	bus.Subscribe(EventAppointmentCreated, func(event *Event) error {
		calls++
		return json.Unmarshal(event.Payload, &got)
	})

	payload := AppointmentEventPayload{
		AppointmentID: "a1",
		ClientName:    "Maria",
		StartAt:       time.Date(2025, 3, 10, 10, 0, 0, 0, time.Local),
		Status:        "pending",
	}
	require.NoError(t, bus.PublishJSON(EventAppointmentCreated, payload))

	assert.Equal(t, 1, calls)
	assert.Equal(t, "a1", got.AppointmentID)
	assert.Equal(t, "Maria", got.ClientName)
}

func TestEventBusOnlyMatchingTypeFires(t *testing.T) {
	bus := NewEventBus()

	created, rescheduled := 0, 0
	bus.Subscribe(EventAppointmentCreated, func(*Event) error { created++; return nil })
	bus.Subscribe(EventAppointmentRescheduled, func(*Event) error { rescheduled++; return nil })

	require.NoError(t, bus.PublishJSON(EventAppointmentRescheduled, AppointmentEventPayload{AppointmentID: "a1"}))

	assert.Zero(t, created)
	assert.Equal(t, 1, rescheduled)
}

func TestEventBusMultipleSubscribers(t *testing.T) {
	bus := NewEventBus()

	calls := 0
	for i := 0; i < 3; i++ {
		bus.Subscribe(EventAppointmentStatus, func(*Event) error { calls++; return nil })
	}

	require.NoError(t, bus.PublishJSON(EventAppointmentStatus, AppointmentEventPayload{AppointmentID: "a1"}))
	assert.Equal(t, 3, calls)
}

func TestNilBusPublishIsNoOp(t *testing.T) {
	var bus *EventBus
	assert.NoError(t, bus.PublishJSON(EventAppointmentCreated, AppointmentEventPayload{}))
}
