package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"agenda/internal/models"
	"agenda/internal/schedule"
	"agenda/internal/service"
)

func (s *HTTPServer) handleClients(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		clients, err := s.clients.List(r.Context(), strings.TrimSpace(r.URL.Query().Get("search")))
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"clients": clients})
	case http.MethodPost:
		var client models.Client
		if !decodeBody(w, r, &client) {
			return
		}
		client.ID = ""
		if err := s.clients.Save(r.Context(), &client); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, client)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleClientByID(w http.ResponseWriter, r *http.Request) {
	id, rest := pathID(r.URL.Path, "/api/v1/clients/")
	if id == "" || rest != "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		client, err := s.clients.Get(r.Context(), id)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, client)
	case http.MethodPut:
		var client models.Client
		if !decodeBody(w, r, &client) {
			return
		}
		client.ID = id
		if err := s.clients.Save(r.Context(), &client); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, client)
	case http.MethodDelete:
		if err := s.clients.Delete(r.Context(), id); err != nil {
			s.writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleServices(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		activeOnly := r.URL.Query().Get("active") == "true"
		services, err := s.catalog.List(r.Context(), activeOnly)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"services": services})
	case http.MethodPost:
		var svc models.Service
		if !decodeBody(w, r, &svc) {
			return
		}
		svc.ID = ""
		if err := s.catalog.Save(r.Context(), &svc); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, svc)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleServiceByID(w http.ResponseWriter, r *http.Request) {
	id, rest := pathID(r.URL.Path, "/api/v1/services/")
	if id == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	if rest == "toggle" {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		svc, err := s.catalog.Toggle(r.Context(), id)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, svc)
		return
	}
	if rest != "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		svc, err := s.catalog.Get(r.Context(), id)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, svc)
	case http.MethodPut:
		var svc models.Service
		if !decodeBody(w, r, &svc) {
			return
		}
		svc.ID = id
		if err := s.catalog.Save(r.Context(), &svc); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, svc)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleAppointments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var input models.AppointmentInput
	if !decodeBody(w, r, &input) {
		return
	}
	appt, err := s.agenda.Save(r.Context(), "", input)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, appt)
}

func (s *HTTPServer) handleAppointmentByID(w http.ResponseWriter, r *http.Request) {
	id, rest := pathID(r.URL.Path, "/api/v1/appointments/")
	if id == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch rest {
	case "reschedule":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		var body struct {
			Time string `json:"time"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		if err := s.agenda.Reschedule(r.Context(), id, strings.TrimSpace(body.Time)); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "rescheduled"})
		return
	case "status":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		var body struct {
			Status string `json:"status"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		if err := s.agenda.SetStatus(r.Context(), id, body.Status); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": body.Status})
		return
	case "":
	default:
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var input models.AppointmentInput
		if !decodeBody(w, r, &input) {
			return
		}
		appt, err := s.agenda.Save(r.Context(), id, input)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, appt)
	case http.MethodDelete:
		if err := s.agenda.Delete(r.Context(), id); err != nil {
			s.writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleAgendaDay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	day, ok := requireDay(w, r)
	if !ok {
		return
	}

	agenda, err := s.agenda.Day(r.Context(), day)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agenda)
}

func (s *HTTPServer) handleAgendaWeek(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	day, ok := requireDay(w, r)
	if !ok {
		return
	}

	week, err := s.agenda.Week(r.Context(), day)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if week == nil {
		week = []service.DayAgenda{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"days": week})
}

func (s *HTTPServer) handleSlots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	day, ok := requireDay(w, r)
	if !ok {
		return
	}

	occupied, err := s.agenda.OccupiedSlots(r.Context(), day)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	resp := map[string]any{"occupied_slots": orEmpty(occupied)}

	if serviceID := strings.TrimSpace(r.URL.Query().Get("service_id")); serviceID != "" {
		svc, err := s.catalog.Get(r.Context(), serviceID)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		exclude := strings.TrimSpace(r.URL.Query().Get("exclude"))
		available, err := s.agenda.AvailableStartTimes(r.Context(), day, svc.DurationMinutes, exclude)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		resp["available_times"] = orEmpty(available)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *HTTPServer) handleEstimatedEnd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	day, ok := requireDay(w, r)
	if !ok {
		return
	}
	serviceID := strings.TrimSpace(r.URL.Query().Get("service_id"))
	startTime := strings.TrimSpace(r.URL.Query().Get("time"))
	if serviceID == "" || startTime == "" {
		writeError(w, http.StatusBadRequest, "service_id and time are required")
		return
	}

	end, err := s.agenda.EstimatedEnd(r.Context(), serviceID, day, startTime)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"end_time": end})
}

func (s *HTTPServer) handleBillingSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	from, to, ok := billingRange(w, r)
	if !ok {
		return
	}

	summary, err := s.billing.Summary(r.Context(), from, to)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *HTTPServer) handleBillingExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.exporter == nil {
		writeError(w, http.StatusNotImplemented, "exports are disabled")
		return
	}
	from, to, ok := billingRange(w, r)
	if !ok {
		return
	}

	summary, err := s.billing.Summary(r.Context(), from, to)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	path, err := s.exporter.WriteBillingSummary(summary)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"file": path})
}

// pathID splits "/prefix/{id}[/rest]" into id and rest.
func pathID(path, prefix string) (id, rest string) {
	if !strings.HasPrefix(path, prefix) {
		return "", ""
	}
	tail := strings.TrimPrefix(path, prefix)
	if i := strings.Index(tail, "/"); i >= 0 {
		return tail[:i], tail[i+1:]
	}
	return tail, ""
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func requireDay(w http.ResponseWriter, r *http.Request) (string, bool) {
	day := strings.TrimSpace(r.URL.Query().Get("date"))
	if day == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return "", false
	}
	if _, err := schedule.ParseDayKey(day); err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return "", false
	}
	return day, true
}

func billingRange(w http.ResponseWriter, r *http.Request) (from, to string, ok bool) {
	from = strings.TrimSpace(r.URL.Query().Get("from"))
	to = strings.TrimSpace(r.URL.Query().Get("to"))
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "from and to are required")
		return "", "", false
	}
	return from, to, true
}

func orEmpty(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
