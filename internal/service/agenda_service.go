package service

import (
	"context"
	"fmt"
	"time"

	"agenda/internal/database"
	"agenda/internal/domain"
	"agenda/internal/events"
	"agenda/internal/locks"
	"agenda/internal/metrics"
	"agenda/internal/models"
	"agenda/internal/packages"
	"agenda/internal/schedule"

	"github.com/rs/zerolog"
)

// AgendaService is the facade over the scheduling engine. Every query loads a
// fresh snapshot from the store and recomputes derived views from scratch;
// nothing is cached across reads.
type AgendaService struct {
	store  domain.Store
	locks  *locks.Machine
	bus    domain.EventPublisher
	syncer domain.SyncWorker
	window schedule.Window
	logger *zerolog.Logger
}

func NewAgendaService(store domain.Store, lockMachine *locks.Machine, bus domain.EventPublisher, syncer domain.SyncWorker, window schedule.Window, logger *zerolog.Logger) *AgendaService {
	return &AgendaService{
		store:  store,
		locks:  lockMachine,
		bus:    bus,
		syncer: syncer,
		window: window,
		logger: logger,
	}
}

// Snapshot loads one immutable read of the full data set.
func (s *AgendaService) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	clients, err := s.store.ListClients(ctx)
	if err != nil {
		return nil, err
	}
	services, err := s.store.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	appointments, err := s.store.ListAppointments(ctx)
	if err != nil {
		return nil, err
	}
	return &models.Snapshot{Clients: clients, Services: services, Appointments: appointments}, nil
}

// OccupiedSlots renders the day's busy ranges as "HH:MM - HH:MM" strings.
func (s *AgendaService) OccupiedSlots(ctx context.Context, day string) ([]string, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	dayAppointments := schedule.FilterByDay(snap.Appointments, day)
	return schedule.OccupiedSlots(dayAppointments, snap.ServiceIndex()), nil
}

// AvailableStartTimes lists the legal start times for a booking of the given
// duration on the given day, optionally ignoring one appointment.
func (s *AgendaService) AvailableStartTimes(ctx context.Context, day string, durationMinutes int, excludeID string) ([]string, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	dayAppointments := schedule.FilterByDay(snap.Appointments, day)
	return schedule.AvailableStartTimes(s.window, durationMinutes, dayAppointments, excludeID, snap.ServiceIndex()), nil
}

// DayAgenda is the annotated agenda of one day.
type DayAgenda struct {
	Day           string               `json:"day"`
	OccupiedSlots []string             `json:"occupied_slots"`
	Entries       []models.AgendaEntry `json:"entries"`
}

// Day builds the full presentation view for one day: occupied ranges, package
// annotations and per-appointment permitted actions.
func (s *AgendaService) Day(ctx context.Context, day string) (*DayAgenda, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.buildDay(ctx, snap, day), nil
}

// Week builds the agenda for the Monday..Sunday week containing day, one
// DayAgenda per day key that has appointments, ascending.
func (s *AgendaService) Week(ctx context.Context, day string) ([]DayAgenda, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	weekAppointments, err := schedule.FilterByWeek(snap.Appointments, day)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", database.ErrValidation, err)
	}

	var out []DayAgenda
	for _, group := range schedule.GroupByDay(weekAppointments) {
		out = append(out, *s.buildDay(ctx, snap, group.Day))
	}
	return out, nil
}

func (s *AgendaService) buildDay(ctx context.Context, snap *models.Snapshot, day string) *DayAgenda {
	services := snap.ServiceIndex()
	dayAppointments := schedule.FilterByDay(snap.Appointments, day)

	agenda := &DayAgenda{
		Day:           day,
		OccupiedSlots: schedule.OccupiedSlots(dayAppointments, services),
	}

	for _, appt := range dayAppointments {
		entry := models.AgendaEntry{
			Appointment:   appt,
			CanEdit:       s.locks.CanEdit(ctx, appt),
			CanReschedule: s.locks.CanReschedule(ctx, appt),
		}

		if svc, ok := s.resolveService(appt, services); ok {
			if size := packages.Size(svc); size > 0 {
				completed := packages.CompletedCount(appt.ClientID, appt.ServiceID, snap.Appointments)
				entry.PackageTotal = size
				entry.CompletedCount = completed
				entry.CycleProgress = packages.CycleProgress(completed, size)
				entry.CycleComplete = packages.CycleComplete(completed, size)
			}
		}

		duration := appt.DurationMinutes(services)
		available := schedule.AvailableStartTimes(s.window, duration, dayAppointments, appt.ID, services)
		entry.TimeOptions = schedule.TimeOptions(schedule.ClockOf(appt.StartAt), available)

		agenda.Entries = append(agenda.Entries, entry)
	}
	return agenda
}

func (s *AgendaService) resolveService(appt models.Appointment, services map[string]models.Service) (models.Service, bool) {
	if appt.Service != nil {
		return *appt.Service, true
	}
	svc, ok := services[appt.ServiceID]
	return svc, ok
}

// EstimatedEnd computes the end-of-service time for a (service, day, start)
// selection, for display next to the form.
func (s *AgendaService) EstimatedEnd(ctx context.Context, serviceID, day, startClock string) (string, error) {
	svc, err := s.store.GetService(ctx, serviceID)
	if err != nil {
		return "", err
	}
	start, err := schedule.Combine(day, startClock)
	if err != nil {
		return "", fmt.Errorf("%w: %v", database.ErrValidation, err)
	}
	return schedule.ClockOf(start.Add(time.Duration(svc.DurationMinutes) * time.Minute)), nil
}

// Save validates and persists a new or edited appointment. The end timestamp
// is derived from the service duration. A full edit that moves the date or
// time transitions the appointment's lock state to EditLocked.
func (s *AgendaService) Save(ctx context.Context, existingID string, input models.AppointmentInput) (*models.Appointment, error) {
	if input.ClientID == "" || input.ServiceID == "" {
		return nil, fmt.Errorf("%w: client and service are required", database.ErrValidation)
	}
	if input.Day == "" || input.StartTime == "" {
		return nil, fmt.Errorf("%w: day and start time are required", database.ErrValidation)
	}
	if input.Address == "" {
		return nil, fmt.Errorf("%w: service address is required", database.ErrValidation)
	}
	status := input.Status
	if status == "" {
		status = models.StatusPending
	}
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", database.ErrValidation, input.Status)
	}

	svc, err := s.store.GetService(ctx, input.ServiceID)
	if err != nil {
		return nil, err
	}

	start, err := schedule.Combine(input.Day, input.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", database.ErrValidation, err)
	}
	duration := svc.DurationMinutes
	if duration <= 0 {
		duration = models.DefaultDurationMinutes
	}
	end := start.Add(time.Duration(duration) * time.Minute)

	if status != models.StatusCanceled {
		if err := s.checkNoOverlap(ctx, input.Day, start, end, existingID); err != nil {
			return nil, err
		}
	}

	appt := &models.Appointment{
		ID:        existingID,
		ClientID:  input.ClientID,
		ServiceID: input.ServiceID,
		StartAt:   start,
		EndAt:     end,
		Status:    status,
		Address:   input.Address,
		Notes:     input.Notes,
	}

	if existingID == "" {
		if err := s.store.InsertAppointment(ctx, appt); err != nil {
			return nil, err
		}
		s.publishAppointment(events.EventAppointmentCreated, appt)
		s.enqueueSync(ctx)
		return appt, nil
	}

	prior, err := s.store.GetAppointment(ctx, existingID)
	if err != nil {
		return nil, err
	}
	timeChanged := schedule.DayKeyOf(prior.StartAt) != input.Day ||
		schedule.ClockOf(prior.StartAt) != input.StartTime

	if err := s.store.UpdateAppointment(ctx, appt); err != nil {
		return nil, err
	}

	if timeChanged {
		if err := s.locks.NoteEdit(ctx, appt.ID); err != nil {
			s.logger.Error().Err(err).Str("appointment_id", appt.ID).Msg("failed to set edit lock")
		}
	}

	s.publishAppointment(events.EventAppointmentUpdated, appt)
	s.enqueueSync(ctx)
	return appt, nil
}

// checkNoOverlap keeps the no-overlap invariant on direct saves: the new
// [start, end) range must not intersect any non-canceled appointment of the
// same day, excluding the appointment being edited.
func (s *AgendaService) checkNoOverlap(ctx context.Context, day string, start, end time.Time, excludeID string) error {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}
	services := snap.ServiceIndex()

	startMin, err := schedule.ClockToMinutes(schedule.ClockOf(start))
	if err != nil {
		return fmt.Errorf("%w: %v", database.ErrValidation, err)
	}
	endMin := startMin + int(end.Sub(start).Minutes())
	candidate := schedule.Range{Start: startMin, End: endMin}

	for _, other := range schedule.FilterByDay(snap.Appointments, day) {
		if other.ID == excludeID || other.Status == models.StatusCanceled {
			continue
		}
		if candidate.Overlaps(schedule.AppointmentRange(other, services)) {
			return database.ErrSlotUnavailable
		}
	}
	return nil
}

// Reschedule moves an appointment to a new start time on its own day. The
// day's appointment set is re-derived from the store, the appointment's own
// id is excluded from the conflict check, and a time outside the legal slot
// set is rejected. On success the lock state transitions to RescheduleLocked.
func (s *AgendaService) Reschedule(ctx context.Context, id, newClock string) error {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		metrics.IncReschedule("error")
		return err
	}

	var appt *models.Appointment
	for i := range snap.Appointments {
		if snap.Appointments[i].ID == id {
			appt = &snap.Appointments[i]
			break
		}
	}
	if appt == nil {
		metrics.IncReschedule("error")
		return database.ErrNotFound
	}
	if appt.Status == models.StatusCanceled {
		metrics.IncReschedule("locked")
		return fmt.Errorf("%w: appointment is canceled", database.ErrValidation)
	}
	if !s.locks.CanReschedule(ctx, *appt) {
		metrics.IncReschedule("locked")
		return locks.ErrLocked
	}

	current := schedule.ClockOf(appt.StartAt)
	if newClock == "" || newClock == current {
		return nil
	}

	services := snap.ServiceIndex()
	day := schedule.DayKeyOf(appt.StartAt)
	dayAppointments := schedule.FilterByDay(snap.Appointments, day)
	duration := appt.DurationMinutes(services)

	available := schedule.AvailableStartTimes(s.window, duration, dayAppointments, appt.ID, services)
	if !contains(available, newClock) {
		metrics.IncReschedule("conflict")
		return database.ErrSlotUnavailable
	}

	start, err := schedule.Combine(day, newClock)
	if err != nil {
		metrics.IncReschedule("error")
		return fmt.Errorf("%w: %v", database.ErrValidation, err)
	}
	end := start.Add(time.Duration(duration) * time.Minute)

	if err := s.store.UpdateAppointmentTime(ctx, appt.ID, start, end); err != nil {
		metrics.IncReschedule("error")
		return err
	}

	if err := s.locks.NoteReschedule(ctx, appt.ID); err != nil {
		s.logger.Error().Err(err).Str("appointment_id", appt.ID).Msg("failed to set reschedule lock")
	}

	moved := *appt
	moved.StartAt = start
	moved.EndAt = end
	s.publishAppointment(events.EventAppointmentRescheduled, &moved)
	s.enqueueSync(ctx)
	metrics.IncReschedule("ok")
	return nil
}

// SetStatus updates an appointment's status.
func (s *AgendaService) SetStatus(ctx context.Context, id, status string) error {
	if !models.ValidStatus(status) {
		return fmt.Errorf("%w: unknown status %q", database.ErrValidation, status)
	}
	if err := s.store.UpdateAppointmentStatus(ctx, id, status); err != nil {
		return err
	}

	if appt, err := s.store.GetAppointment(ctx, id); err == nil {
		s.publishAppointment(events.EventAppointmentStatus, appt)
	}
	s.enqueueSync(ctx)
	return nil
}

// Delete removes an appointment.
func (s *AgendaService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteAppointment(ctx, id); err != nil {
		return err
	}
	s.enqueueSync(ctx)
	return nil
}

// WeekRows flattens the current week's agenda into spreadsheet rows for the
// sheets mirror.
func (s *AgendaService) WeekRows(ctx context.Context, day string) ([][]interface{}, error) {
	week, err := s.Week(ctx, day)
	if err != nil {
		return nil, err
	}

	rows := [][]interface{}{{"Day", "Time", "Client", "Service", "Status", "Address"}}
	for _, dayAgenda := range week {
		for _, entry := range dayAgenda.Entries {
			appt := entry.Appointment
			clientName, serviceName := "", ""
			if appt.Client != nil {
				clientName = appt.Client.FullName
			}
			if appt.Service != nil {
				serviceName = appt.Service.Name
			}
			rows = append(rows, []interface{}{
				dayAgenda.Day,
				schedule.ClockOf(appt.StartAt) + " - " + schedule.ClockOf(appt.EndAt),
				clientName,
				serviceName,
				appt.Status,
				appt.Address,
			})
		}
	}
	return rows, nil
}

func (s *AgendaService) publishAppointment(eventType string, appt *models.Appointment) {
	if s.bus == nil {
		return
	}

	payload := events.AppointmentEventPayload{
		AppointmentID: appt.ID,
		ClientID:      appt.ClientID,
		ServiceID:     appt.ServiceID,
		StartAt:       appt.StartAt,
		EndAt:         appt.EndAt,
		Status:        appt.Status,
		Address:       appt.Address,
	}
	if appt.Client != nil {
		payload.ClientName = appt.Client.FullName
		payload.ClientPhone = appt.Client.Phone
	}
	if appt.Service != nil {
		payload.ServiceName = appt.Service.Name
	}

	if err := s.bus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("appointment_id", appt.ID).Msg("publish event error")
	}
}

func (s *AgendaService) enqueueSync(ctx context.Context) {
	if s.syncer == nil {
		return
	}
	if err := s.syncer.EnqueueSync(ctx); err != nil {
		s.logger.Error().Err(err).Msg("sheets sync enqueue error")
	}
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
