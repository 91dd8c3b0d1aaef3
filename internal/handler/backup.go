package handler

import (
	"log/slog"
	"net/http"

	"github.com/harroway/housemate/internal/auth"
	"github.com/harroway/housemate/internal/backup"
	"github.com/harroway/housemate/internal/store"
)

// BackupHandler exposes the backup manager to house administrators.
type BackupHandler struct {
	manager    *backup.Manager
	backups    *store.BackupStore
	houseStore *store.HouseStore
	logger     *slog.Logger
}

func NewBackupHandler(manager *backup.Manager, backups *store.BackupStore, houseStore *store.HouseStore, logger *slog.Logger) *BackupHandler {
	return &BackupHandler{
		manager:    manager,
		backups:    backups,
		houseStore: houseStore,
		logger:     logger,
	}
}

func (h *BackupHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	houseID := auth.HouseID(r.Context())
	if houseID == 0 {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "not a member of a house"})
		return false
	}
	house, err := h.houseStore.GetByID(houseID)
	if err != nil {
		h.logger.Error("load house", "house_id", houseID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load house"})
		return false
	}
	if !auth.IsHouseAdmin(r.Context(), house) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "admin access required"})
		return false
	}
	return true
}

// Run triggers an immediate backup.
func (h *BackupHandler) Run(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	if !h.manager.Enabled() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "backups are not configured"})
		return
	}

	id, err := h.manager.RunNow(r.Context())
	if err != nil {
		h.logger.Error("manual backup failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "backup failed"})
		return
	}

	record, err := h.backups.GetByID(id)
	if err != nil {
		h.logger.Error("load backup record", "backup_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load backup"})
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

// History lists recent backup records, newest first.
func (h *BackupHandler) History(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	records, err := h.backups.List(30)
	if err != nil {
		h.logger.Error("list backups", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list backups"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"backups": records})
}
