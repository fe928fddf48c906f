// Package notify pushes appointment lifecycle messages to the provider's
// Telegram chat, replacing the hand-built WhatsApp confirmation links of the
// old workflow.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"agenda/internal/events"
	"agenda/internal/schedule"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Sender is the part of the Telegram client the notifier needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type TelegramNotifier struct {
	sender Sender
	chatID int64
	logger *zerolog.Logger
}

func NewTelegramNotifier(sender Sender, chatID int64, logger *zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{sender: sender, chatID: chatID, logger: logger}
}

func (n *TelegramNotifier) Notify(ctx context.Context, text string) error {
	if n.sender == nil {
		return nil
	}
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.sender.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}

// SubscribeTo wires the notifier to appointment events on the bus.
func (n *TelegramNotifier) SubscribeTo(bus *events.EventBus) {
	handler := func(event *events.Event) error {
		var payload events.AppointmentEventPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			n.logger.Error().Err(err).Str("event_type", event.Type).Msg("failed to decode event payload")
			return err
		}

		text := EventText(event.Type, payload)
		if text == "" {
			return nil
		}
		if err := n.Notify(context.Background(), text); err != nil {
			n.logger.Error().Err(err).Str("event_type", event.Type).Msg("failed to notify")
			return err
		}
		return nil
	}

	bus.Subscribe(events.EventAppointmentCreated, handler)
	bus.Subscribe(events.EventAppointmentRescheduled, handler)
	bus.Subscribe(events.EventAppointmentStatus, handler)
}

// EventText renders the chat message for an appointment event.
func EventText(eventType string, p events.AppointmentEventPayload) string {
	day := schedule.DayKeyOf(p.StartAt)
	clock := schedule.ClockOf(p.StartAt)

	switch eventType {
	case events.EventAppointmentCreated:
		return fmt.Sprintf("Novo agendamento: %s, %s em %s às %s", p.ClientName, p.ServiceName, day, clock)
	case events.EventAppointmentRescheduled:
		return fmt.Sprintf("Horário alterado: %s, %s agora em %s às %s", p.ClientName, p.ServiceName, day, clock)
	case events.EventAppointmentStatus:
		return fmt.Sprintf("Status atualizado: %s, %s (%s)", p.ClientName, p.ServiceName, p.Status)
	}
	return ""
}

// ConfirmationText builds the message sent to a client to confirm a time,
// same wording the studio used over WhatsApp.
func ConfirmationText(clientName string, p events.AppointmentEventPayload) string {
	return fmt.Sprintf("Olá %s podemos confirmar nosso horário %s - %s",
		clientName, schedule.DayKeyOf(p.StartAt), schedule.ClockOf(p.StartAt))
}
