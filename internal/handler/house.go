package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/harroway/housemate/internal/auth"
	"github.com/harroway/housemate/internal/email"
	"github.com/harroway/housemate/internal/model"
	"github.com/harroway/housemate/internal/store"
	"github.com/harroway/housemate/internal/websocket"
)

type HouseHandler struct {
	houseStore *store.HouseStore
	userStore  *store.UserStore
	taskStore  *store.TaskStore
	mailer     *email.Client
	hub        *websocket.Hub
	logger     *slog.Logger
}

func NewHouseHandler(hs *store.HouseStore, us *store.UserStore, ts *store.TaskStore, mailer *email.Client, hub *websocket.Hub, logger *slog.Logger) *HouseHandler {
	return &HouseHandler{houseStore: hs, userStore: us, taskStore: ts, mailer: mailer, hub: hub, logger: logger}
}

// houseResponse carries the computed admin capability for the caller. It is
// derived per request and never written back to the users table.
type houseResponse struct {
	model.House
	IsAdmin bool `json:"is_admin"`
}

type houseRequest struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	HouseRules string `json:"house_rules"`
	Avatar     string `json:"avatar"`
}

func (h *HouseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req houseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	userID := auth.UserID(r.Context())
	house, err := h.houseStore.Create(req.Name, req.Address, req.HouseRules, userID)
	if err != nil {
		h.logger.Error("create house failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create house"})
		return
	}

	// membership back-fill is best effort: the house exists either way and
	// the creator is recognized as admin through created_by
	if err := h.userStore.SetHouse(userID, &house.ID); err != nil {
		h.logger.Error("house created but membership back-fill failed",
			"house_id", house.ID, "user_id", userID, "error", err)
	}

	writeJSON(w, http.StatusCreated, houseResponse{House: *house, IsAdmin: true})
}

func (h *HouseHandler) Get(w http.ResponseWriter, r *http.Request) {
	house, ok := h.loadHouse(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, houseResponse{House: *house, IsAdmin: auth.IsHouseAdmin(r.Context(), house)})
}

func (h *HouseHandler) Update(w http.ResponseWriter, r *http.Request) {
	house, ok := h.loadHouse(w, r)
	if !ok {
		return
	}
	if !auth.IsHouseAdmin(r.Context(), house) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "admin required"})
		return
	}

	var req houseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	updated, err := h.houseStore.Update(house.ID, req.Name, req.Address, req.HouseRules, req.Avatar)
	if err != nil {
		h.logger.Error("update house failed", "house_id", house.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update house"})
		return
	}

	if h.hub != nil {
		h.hub.BroadcastToHouse(house.ID, websocket.NewMessage("house", "updated", house.ID, nil))
	}

	writeJSON(w, http.StatusOK, houseResponse{House: *updated, IsAdmin: true})
}

func (h *HouseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	house, ok := h.loadHouse(w, r)
	if !ok {
		return
	}
	if !auth.IsHouseAdmin(r.Context(), house) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "admin required"})
		return
	}

	if err := h.houseStore.Delete(house.ID); err != nil {
		h.logger.Error("delete house failed", "house_id", house.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete house"})
		return
	}

	if h.hub != nil {
		h.hub.BroadcastToHouse(house.ID, websocket.NewMessage("house", "deleted", house.ID, nil))
	}

	w.WriteHeader(http.StatusNoContent)
}

// housemateResponse hides contact details when the member has opted out,
// unless the caller is looking at themselves.
type housemateResponse struct {
	model.User
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (h *HouseHandler) Users(w http.ResponseWriter, r *http.Request) {
	house, ok := h.loadHouse(w, r)
	if !ok {
		return
	}

	users, err := h.userStore.ListByHouse(house.ID)
	if err != nil {
		h.logger.Error("list housemates failed", "house_id", house.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list housemates"})
		return
	}

	callerID := auth.UserID(r.Context())
	resp := make([]housemateResponse, 0, len(users))
	for _, u := range users {
		hr := housemateResponse{User: u, Email: u.Email, Phone: u.Phone}
		if !u.ShowContactInfo && u.ID != callerID {
			hr.Email = ""
			hr.Phone = ""
		}
		resp = append(resp, hr)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *HouseHandler) Activities(w http.ResponseWriter, r *http.Request) {
	house, ok := h.loadHouse(w, r)
	if !ok {
		return
	}

	activities, err := h.taskStore.ListHouseActivity(house.ID, 50)
	if err != nil {
		h.logger.Error("list activities failed", "house_id", house.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list activities"})
		return
	}
	if activities == nil {
		activities = []model.TaskHistory{}
	}
	writeJSON(w, http.StatusOK, activities)
}

type inviteRequest struct {
	Email string `json:"email"`
}

func (h *HouseHandler) Invite(w http.ResponseWriter, r *http.Request) {
	house, ok := h.loadHouse(w, r)
	if !ok {
		return
	}
	if !auth.IsHouseAdmin(r.Context(), house) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "admin required"})
		return
	}

	var req inviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email is required"})
		return
	}

	inviter, err := h.userStore.GetByID(auth.UserID(r.Context()))
	if err != nil || inviter == nil {
		h.logger.Error("inviter lookup failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to send invitation"})
		return
	}

	if err := h.mailer.SendHouseInvite(req.Email, inviter.Name, house.Name); err != nil {
		h.logger.Error("invite email failed", "house_id", house.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to send invitation"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "invitation sent"})
}

func (h *HouseHandler) loadHouse(w http.ResponseWriter, r *http.Request) (*model.House, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return nil, false
	}

	house, err := h.houseStore.GetByID(id)
	if err != nil {
		h.logger.Error("get house failed", "house_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get house"})
		return nil, false
	}
	if house == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "house not found"})
		return nil, false
	}
	return house, true
}
