package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"agenda/internal/events"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func payloadAt(t *testing.T, day, clock string) events.AppointmentEventPayload {
	t.Helper()
	start, err := time.ParseInLocation("2006-01-02 15:04", day+" "+clock, time.Local)
	require.NoError(t, err)
	return events.AppointmentEventPayload{
		AppointmentID: "a1",
		ClientName:    "Maria",
		ServiceName:   "Manicure",
		StartAt:       start,
		EndAt:         start.Add(time.Hour),
		Status:        "pending",
	}
}

func TestNotifySendsToConfiguredChat(t *testing.T) {
	sender := &fakeSender{}
	logger := zerolog.Nop()
	n := NewTelegramNotifier(sender, 42, &logger)

	require.NoError(t, n.Notify(context.Background(), "olá"))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, int64(42), sender.sent[0].ChatID)
	assert.Equal(t, "olá", sender.sent[0].Text)
}

func TestNotifyNilSenderIsNoOp(t *testing.T) {
	logger := zerolog.Nop()
	n := NewTelegramNotifier(nil, 42, &logger)
	assert.NoError(t, n.Notify(context.Background(), "olá"))
}

func TestSubscribeToForwardsAppointmentEvents(t *testing.T) {
	sender := &fakeSender{}
	logger := zerolog.Nop()
	n := NewTelegramNotifier(sender, 42, &logger)

	bus := events.NewEventBus()
	n.SubscribeTo(bus)

	payload := payloadAt(t, "2025-03-10", "10:00")
	require.NoError(t, bus.PublishJSON(events.EventAppointmentCreated, payload))
	require.NoError(t, bus.PublishJSON(events.EventAppointmentRescheduled, payload))

	require.Len(t, sender.sent, 2)
	assert.Contains(t, sender.sent[0].Text, "Maria")
	assert.Contains(t, sender.sent[0].Text, "2025-03-10")
	assert.Contains(t, sender.sent[1].Text, "10:00")
}

func TestSubscribeToIgnoresBadPayload(t *testing.T) {
	sender := &fakeSender{}
	logger := zerolog.Nop()
	n := NewTelegramNotifier(sender, 42, &logger)

	bus := events.NewEventBus()
	n.SubscribeTo(bus)

	raw, err := json.Marshal("not an object")
	require.NoError(t, err)
	bus.Publish(&events.Event{Type: events.EventAppointmentCreated, Payload: raw})

	assert.Empty(t, sender.sent)
}

func TestConfirmationTextWording(t *testing.T) {
	payload := payloadAt(t, "2025-03-10", "14:30")
	got := ConfirmationText("Maria", payload)
	assert.Equal(t, "Olá Maria podemos confirmar nosso horário 2025-03-10 - 14:30", got)
}

func TestEventTextStatusChange(t *testing.T) {
	payload := payloadAt(t, "2025-03-10", "14:30")
	payload.Status = "completed"
	got := EventText(events.EventAppointmentStatus, payload)
	assert.Contains(t, got, "Maria")
	assert.Contains(t, got, "completed")

	assert.Empty(t, EventText("unknown_event", payload))
}
