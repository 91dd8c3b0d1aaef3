package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/harroway/housemate/internal/auth"
	"github.com/harroway/housemate/internal/model"
	"github.com/harroway/housemate/internal/store"
)

const (
	maxAvatarBytes = 5 << 20
	maxBioLength   = 500
)

// UserHandler serves the per-field profile endpoints. Each field has its own
// endpoint and its own validation; a request never touches any other column.
type UserHandler struct {
	userStore *store.UserStore
	avatarDir string
	logger    *slog.Logger
}

func NewUserHandler(us *store.UserStore, avatarDir string, logger *slog.Logger) *UserHandler {
	return &UserHandler{userStore: us, avatarDir: avatarDir, logger: logger}
}

// requireSelf ensures callers can only edit their own profile.
func (h *UserHandler) requireSelf(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return 0, false
	}
	if id != auth.UserID(r.Context()) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "cannot edit another user's profile"})
		return 0, false
	}
	return id, true
}

func (h *UserHandler) update(w http.ResponseWriter, id int64, column string, value any) {
	updated, err := h.userStore.UpdateField(id, column, value)
	if err != nil {
		h.logger.Error("update user field failed", "user_id", id, "field", column, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update profile"})
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

type valueRequest struct {
	Value string `json:"value"`
}

func decodeValue(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req valueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return "", false
	}
	return req.Value, true
}

func (h *UserHandler) UpdateBio(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requireSelf(w, r)
	if !ok {
		return
	}
	value, ok := decodeValue(w, r)
	if !ok {
		return
	}
	if len(value) > maxBioLength {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bio too long"})
		return
	}
	h.update(w, id, "bio", value)
}

func (h *UserHandler) UpdateName(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requireSelf(w, r)
	if !ok {
		return
	}
	value, ok := decodeValue(w, r)
	if !ok {
		return
	}
	value = strings.TrimSpace(value)
	if value == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name cannot be empty"})
		return
	}
	h.update(w, id, "name", value)
}

func (h *UserHandler) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requireSelf(w, r)
	if !ok {
		return
	}
	value, ok := decodeValue(w, r)
	if !ok {
		return
	}
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" || !strings.Contains(value, "@") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid email"})
		return
	}

	existing, err := h.userStore.GetByEmail(value)
	if err != nil {
		h.logger.Error("email lookup failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update profile"})
		return
	}
	if existing != nil && existing.ID != id {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "email already in use"})
		return
	}

	h.update(w, id, "email", value)
}

func (h *UserHandler) UpdatePhone(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requireSelf(w, r)
	if !ok {
		return
	}
	value, ok := decodeValue(w, r)
	if !ok {
		return
	}
	h.update(w, id, "phone", strings.TrimSpace(value))
}

func (h *UserHandler) UpdatePreferredContact(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requireSelf(w, r)
	if !ok {
		return
	}
	value, ok := decodeValue(w, r)
	if !ok {
		return
	}
	if value != model.ContactEmail && value != model.ContactPhone {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "preferred_contact must be email or phone"})
		return
	}
	h.update(w, id, "preferred_contact", value)
}

func (h *UserHandler) UpdatePrivacy(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requireSelf(w, r)
	if !ok {
		return
	}

	var req struct {
		ShowContactInfo *bool `json:"show_contact_info"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ShowContactInfo == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "show_contact_info is required"})
		return
	}

	v := 0
	if *req.ShowContactInfo {
		v = 1
	}
	h.update(w, id, "show_contact_info", v)
}

// UpdateAvatar accepts a multipart upload, stores the file on disk under a
// generated name, and persists the path as the user's single avatar value.
func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requireSelf(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "avatar file is required"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unsupported image type"})
		return
	}

	if err := os.MkdirAll(h.avatarDir, 0o755); err != nil {
		h.logger.Error("create avatar dir failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to store avatar"})
		return
	}

	name := uuid.NewString() + ext
	path := filepath.Join(h.avatarDir, name)
	dst, err := os.Create(path)
	if err != nil {
		h.logger.Error("create avatar file failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to store avatar"})
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(file, maxAvatarBytes)); err != nil {
		h.logger.Error("write avatar file failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to store avatar"})
		return
	}

	h.update(w, id, "avatar", "/avatars/"+name)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	user, err := h.userStore.GetByID(id)
	if err != nil {
		h.logger.Error("get user failed", "user_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get user"})
		return
	}
	if user == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
		return
	}

	if !user.ShowContactInfo && user.ID != auth.UserID(r.Context()) {
		user.Email = ""
		user.Phone = ""
	}
	writeJSON(w, http.StatusOK, user)
}
