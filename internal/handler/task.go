package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/harroway/housemate/internal/auth"
	"github.com/harroway/housemate/internal/model"
	"github.com/harroway/housemate/internal/store"
	"github.com/harroway/housemate/internal/task"
	"github.com/harroway/housemate/internal/websocket"
)

type TaskHandler struct {
	taskStore *store.TaskStore
	userStore *store.UserStore
	hub       *websocket.Hub
	logger    *slog.Logger
}

func NewTaskHandler(ts *store.TaskStore, us *store.UserStore, hub *websocket.Hub, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{taskStore: ts, userStore: us, hub: hub, logger: logger}
}

func (h *TaskHandler) broadcast(houseID int64, msg websocket.Message) {
	if h.hub != nil {
		h.hub.BroadcastToHouse(houseID, msg)
	}
}

// taskResponse decorates a task with its derived effective status. "overdue"
// is never stored; it is computed from the due date at read time.
type taskResponse struct {
	model.Task
	EffectiveStatus string `json:"effective_status"`
	OverdueDays     int    `json:"overdue_days"`
}

func toTaskResponse(t *model.Task, now time.Time) taskResponse {
	status, days := task.EffectiveStatus(t.DueDate, t.Status, now)
	return taskResponse{Task: *t, EffectiveStatus: status, OverdueDays: days}
}

type createTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Location    string     `json:"location"`
	DueDate     *time.Time `json:"due_date"`
	Priority    string     `json:"priority"`
	AssignedTo  *int64     `json:"assigned_to"`
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	houseID := auth.HouseID(r.Context())
	if houseID == 0 {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "no house membership"})
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}
	if req.AssignedTo == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "assigned_to is required"})
		return
	}
	if req.Category == "" {
		req.Category = model.CategoryOther
	}
	if req.Priority == "" {
		req.Priority = model.PriorityMedium
	}
	if !validCategory(req.Category) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category"})
		return
	}
	if !validPriority(req.Priority) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid priority"})
		return
	}

	assignee, err := h.userStore.GetByID(*req.AssignedTo)
	if err != nil {
		h.logger.Error("assignee lookup failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create task"})
		return
	}
	if assignee == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "assignee not found"})
		return
	}

	created, err := h.taskStore.Create(houseID, req.Title, req.Description, req.Category, req.Location, req.DueDate, req.Priority, *req.AssignedTo, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("create task failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create task"})
		return
	}

	h.broadcast(houseID, websocket.NewMessage("task", "created", created.ID, nil))

	writeJSON(w, http.StatusCreated, toTaskResponse(created, time.Now()))
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	houseID := auth.HouseID(r.Context())

	tasks, err := h.taskStore.ListByHouse(houseID)
	if err != nil {
		h.logger.Error("list tasks failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list tasks"})
		return
	}

	now := time.Now()
	resp := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		resp = append(resp, toTaskResponse(&tasks[i], now))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	t, err := h.taskStore.GetByID(id)
	if err != nil {
		h.logger.Error("get task failed", "task_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get task"})
		return
	}
	if t == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "task not found"})
		return
	}

	writeJSON(w, http.StatusOK, toTaskResponse(t, time.Now()))
}

type updateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Category    *string    `json:"category"`
	Location    *string    `json:"location"`
	DueDate     *time.Time `json:"due_date"`
	Priority    *string    `json:"priority"`
	AssignedTo  *int64     `json:"assigned_to"`
	Status      *string    `json:"status"`
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.taskStore.GetByID(id)
	if err != nil {
		h.logger.Error("get task failed", "task_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get task"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "task not found"})
		return
	}

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if req.Category != nil && !validCategory(*req.Category) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category"})
		return
	}
	if req.Priority != nil && !validPriority(*req.Priority) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid priority"})
		return
	}
	if req.Status != nil && !validStatus(*req.Status) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status"})
		return
	}

	changes := task.Diff(existing, task.Update{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
		Status:      req.Status,
	})
	if len(changes) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "no changes",
			"task":    toTaskResponse(existing, time.Now()),
		})
		return
	}

	updated, err := h.taskStore.ApplyUpdate(id, changes, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("update task failed", "task_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update task"})
		return
	}

	h.broadcast(existing.HouseID, websocket.NewMessage("task", "updated", id, nil))

	writeJSON(w, http.StatusOK, toTaskResponse(updated, time.Now()))
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.taskStore.GetByID(id)
	if err != nil {
		h.logger.Error("get task failed", "task_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get task"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "task not found"})
		return
	}

	if err := h.taskStore.Delete(id, auth.UserID(r.Context())); err != nil {
		h.logger.Error("delete task failed", "task_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete task"})
		return
	}

	h.broadcast(existing.HouseID, websocket.NewMessage("task", "deleted", id, nil))

	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	history, err := h.taskStore.ListHistory(id)
	if err != nil {
		h.logger.Error("list task history failed", "task_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list history"})
		return
	}
	if history == nil {
		history = []model.TaskHistory{}
	}
	writeJSON(w, http.StatusOK, history)
}

func validCategory(c string) bool {
	switch c {
	case model.CategoryCleaning, model.CategoryBillsPayment, model.CategoryShopping, model.CategoryMaintenance, model.CategoryOther:
		return true
	}
	return false
}

func validPriority(p string) bool {
	switch p {
	case model.PriorityLow, model.PriorityMedium, model.PriorityHigh:
		return true
	}
	return false
}

func validStatus(s string) bool {
	switch s {
	case model.TaskStatusOpen, model.TaskStatusInProgress, model.TaskStatusCompleted:
		return true
	}
	return false
}
