package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/harroway/housemate/internal/auth"
	"github.com/harroway/housemate/internal/model"
	"github.com/harroway/housemate/internal/recurrence"
	"github.com/harroway/housemate/internal/store"
	"github.com/harroway/housemate/internal/websocket"
)

type ScheduleHandler struct {
	scheduleStore *store.ScheduleStore
	hub           *websocket.Hub
	logger        *slog.Logger
}

func NewScheduleHandler(ss *store.ScheduleStore, hub *websocket.Hub, logger *slog.Logger) *ScheduleHandler {
	return &ScheduleHandler{scheduleStore: ss, hub: hub, logger: logger}
}

func (h *ScheduleHandler) broadcast(houseID int64, msg websocket.Message) {
	if h.hub != nil {
		h.hub.BroadcastToHouse(houseID, msg)
	}
}

type eventRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	ScheduledDate string `json:"scheduled_date"`
	ScheduledTime string `json:"scheduled_time"`
	Recurrence    string `json:"recurrence"`
}

func (req *eventRequest) validate() string {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return "title is required"
	}
	if _, err := time.Parse("2006-01-02", req.ScheduledDate); err != nil {
		return "scheduled_date must be YYYY-MM-DD"
	}
	if req.ScheduledTime != "" {
		if _, err := time.Parse("15:04", req.ScheduledTime); err != nil {
			return "scheduled_time must be HH:MM"
		}
	}
	switch req.Recurrence {
	case model.RecurrenceNone, model.RecurrenceDaily, model.RecurrenceWeekly, model.RecurrenceMonthly:
	default:
		return "invalid recurrence"
	}
	return ""
}

func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	houseID := auth.HouseID(r.Context())
	if houseID == 0 {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "no house membership"})
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	event, err := h.scheduleStore.Create(houseID, req.Title, req.Description, req.ScheduledDate, req.ScheduledTime, req.Recurrence, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("create event failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create event"})
		return
	}

	h.broadcast(houseID, websocket.NewMessage("event", "created", event.ID, nil))

	writeJSON(w, http.StatusCreated, event)
}

// List returns the house's events. When both from and to query params are
// given (YYYY-MM-DD), recurring events are expanded into their concrete
// occurrences within that window.
func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	houseID := auth.HouseID(r.Context())

	events, err := h.scheduleStore.ListByHouse(houseID)
	if err != nil {
		h.logger.Error("list events failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list events"})
		return
	}
	if events == nil {
		events = []model.ScheduleEvent{}
	}

	fromParam := r.URL.Query().Get("from")
	toParam := r.URL.Query().Get("to")
	if fromParam != "" || toParam != "" {
		from, err1 := time.Parse("2006-01-02", fromParam)
		to, err2 := time.Parse("2006-01-02", toParam)
		if err1 != nil || err2 != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "from and to must be YYYY-MM-DD"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"events":      events,
			"occurrences": recurrence.ExpandAll(events, from, to),
		})
		return
	}

	writeJSON(w, http.StatusOK, events)
}

func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	event, ok := h.loadEvent(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *ScheduleHandler) Update(w http.ResponseWriter, r *http.Request) {
	event, ok := h.loadEvent(w, r)
	if !ok {
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	updated, err := h.scheduleStore.Update(event.ID, req.Title, req.Description, req.ScheduledDate, req.ScheduledTime, req.Recurrence)
	if err != nil {
		h.logger.Error("update event failed", "event_id", event.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update event"})
		return
	}

	h.broadcast(event.HouseID, websocket.NewMessage("event", "updated", event.ID, nil))

	writeJSON(w, http.StatusOK, updated)
}

func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	event, ok := h.loadEvent(w, r)
	if !ok {
		return
	}

	if err := h.scheduleStore.Delete(event.ID); err != nil {
		h.logger.Error("delete event failed", "event_id", event.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete event"})
		return
	}

	h.broadcast(event.HouseID, websocket.NewMessage("event", "deleted", event.ID, nil))

	w.WriteHeader(http.StatusNoContent)
}

func (h *ScheduleHandler) loadEvent(w http.ResponseWriter, r *http.Request) (*model.ScheduleEvent, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return nil, false
	}

	event, err := h.scheduleStore.GetByID(id)
	if err != nil {
		h.logger.Error("get event failed", "event_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get event"})
		return nil, false
	}
	if event == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "event not found"})
		return nil, false
	}
	return event, true
}
