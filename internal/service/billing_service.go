package service

import (
	"context"
	"fmt"

	"agenda/internal/database"
	"agenda/internal/domain"
	"agenda/internal/models"
	"agenda/internal/schedule"

	"github.com/rs/zerolog"
)

// BillingService summarizes revenue over completed appointments.
type BillingService struct {
	store  domain.Store
	logger *zerolog.Logger
}

func NewBillingService(store domain.Store, logger *zerolog.Logger) *BillingService {
	return &BillingService{store: store, logger: logger}
}

// Summary aggregates completed appointments whose day key falls inside
// [fromDay, toDay]: total revenue, count and average ticket. The price comes
// from the joined service record, falling back to the current catalog.
func (s *BillingService) Summary(ctx context.Context, fromDay, toDay string) (*models.BillingSummary, error) {
	if _, err := schedule.ParseDayKey(fromDay); err != nil {
		return nil, fmt.Errorf("%w: %v", database.ErrValidation, err)
	}
	if _, err := schedule.ParseDayKey(toDay); err != nil {
		return nil, fmt.Errorf("%w: %v", database.ErrValidation, err)
	}

	appointments, err := s.store.ListAppointments(ctx)
	if err != nil {
		return nil, err
	}
	services, err := s.store.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	catalog := models.IndexServices(services)

	summary := &models.BillingSummary{FromDay: fromDay, ToDay: toDay}
	for _, appt := range appointments {
		if appt.Status != models.StatusCompleted {
			continue
		}
		day := schedule.DayKeyOf(appt.StartAt)
		if day < fromDay || day > toDay {
			continue
		}

		price := 0.0
		if appt.Service != nil {
			price = appt.Service.Price
		} else if svc, ok := catalog[appt.ServiceID]; ok {
			price = svc.Price
		}

		summary.Entries = append(summary.Entries, models.BillingEntry{Appointment: appt, Price: price})
		summary.TotalRevenue += price
		summary.Count++
	}

	if summary.Count > 0 {
		summary.AverageTicket = summary.TotalRevenue / float64(summary.Count)
	}
	return summary, nil
}
