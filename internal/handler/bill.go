package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/harroway/housemate/internal/auth"
	"github.com/harroway/housemate/internal/bill"
	"github.com/harroway/housemate/internal/model"
	"github.com/harroway/housemate/internal/store"
	"github.com/harroway/housemate/internal/websocket"
)

type BillHandler struct {
	billStore *store.BillStore
	hub       *websocket.Hub
	logger    *slog.Logger
}

func NewBillHandler(bs *store.BillStore, hub *websocket.Hub, logger *slog.Logger) *BillHandler {
	return &BillHandler{billStore: bs, hub: hub, logger: logger}
}

func (h *BillHandler) broadcast(houseID int64, msg websocket.Message) {
	if h.hub != nil {
		h.hub.BroadcastToHouse(houseID, msg)
	}
}

// billResponse carries the derived payment summary alongside the stored
// fields. Nothing in the summary is ever persisted.
type billResponse struct {
	model.Bill
	bill.Summary
	Shares []model.BillShare `json:"shares,omitempty"`
}

func (h *BillHandler) toResponse(b *model.Bill, withShares bool) (billResponse, error) {
	shares, err := h.billStore.ListShares(b.ID)
	if err != nil {
		return billResponse{}, err
	}
	totalPaid, err := h.billStore.TotalPaid(b.ID)
	if err != nil {
		return billResponse{}, err
	}

	resp := billResponse{
		Bill:    *b,
		Summary: bill.Derive(b.Amount, len(shares), totalPaid, b.DueDate, time.Now()),
	}
	if withShares {
		resp.Shares = shares
	}
	return resp, nil
}

type createBillRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Amount      *float64   `json:"amount"`
	Category    string     `json:"category"`
	DueDate     *time.Time `json:"due_date"`
	SplitAmong  []int64    `json:"split_among"`
}

func (h *BillHandler) Create(w http.ResponseWriter, r *http.Request) {
	houseID := auth.HouseID(r.Context())
	if houseID == 0 {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "no house membership"})
		return
	}

	var req createBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}
	if req.Amount == nil || *req.Amount < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "amount is required"})
		return
	}
	if req.DueDate == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "due_date is required"})
		return
	}
	if req.Category == "" {
		req.Category = "other"
	}

	created, err := h.billStore.Create(houseID, req.Title, req.Description, *req.Amount, req.Category, *req.DueDate, auth.UserID(r.Context()), req.SplitAmong)
	if err != nil {
		h.logger.Error("create bill failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create bill"})
		return
	}

	h.broadcast(houseID, websocket.NewMessage("bill", "created", created.ID, nil))

	resp, err := h.toResponse(created, true)
	if err != nil {
		h.logger.Error("derive bill summary failed", "bill_id", created.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create bill"})
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *BillHandler) List(w http.ResponseWriter, r *http.Request) {
	houseID := auth.HouseID(r.Context())

	bills, err := h.billStore.ListByHouse(houseID)
	if err != nil {
		h.logger.Error("list bills failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list bills"})
		return
	}

	resp := make([]billResponse, 0, len(bills))
	for i := range bills {
		br, err := h.toResponse(&bills[i], false)
		if err != nil {
			h.logger.Error("derive bill summary failed", "bill_id", bills[i].ID, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list bills"})
			return
		}
		resp = append(resp, br)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *BillHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, ok := h.loadBill(w, r)
	if !ok {
		return
	}

	resp, err := h.toResponse(b, true)
	if err != nil {
		h.logger.Error("derive bill summary failed", "bill_id", b.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get bill"})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type updateBillRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Amount      *float64   `json:"amount"`
	Category    string     `json:"category"`
	DueDate     *time.Time `json:"due_date"`
}

func (h *BillHandler) Update(w http.ResponseWriter, r *http.Request) {
	b, ok := h.loadBill(w, r)
	if !ok {
		return
	}

	var req updateBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}
	if req.Amount == nil || *req.Amount < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "amount is required"})
		return
	}
	if req.DueDate == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "due_date is required"})
		return
	}
	if req.Category == "" {
		req.Category = b.Category
	}

	updated, err := h.billStore.Update(b.ID, req.Title, req.Description, *req.Amount, req.Category, *req.DueDate)
	if err != nil {
		h.logger.Error("update bill failed", "bill_id", b.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update bill"})
		return
	}

	h.broadcast(b.HouseID, websocket.NewMessage("bill", "updated", b.ID, nil))

	resp, err := h.toResponse(updated, true)
	if err != nil {
		h.logger.Error("derive bill summary failed", "bill_id", b.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update bill"})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *BillHandler) Delete(w http.ResponseWriter, r *http.Request) {
	b, ok := h.loadBill(w, r)
	if !ok {
		return
	}

	if err := h.billStore.Delete(b.ID); err != nil {
		h.logger.Error("delete bill failed", "bill_id", b.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete bill"})
		return
	}

	h.broadcast(b.HouseID, websocket.NewMessage("bill", "deleted", b.ID, nil))

	w.WriteHeader(http.StatusNoContent)
}

type paymentRequest struct {
	Amount *float64 `json:"amount"`
}

func (h *BillHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	b, ok := h.loadBill(w, r)
	if !ok {
		return
	}

	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.Amount == nil || *req.Amount <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "amount must be positive"})
		return
	}

	payment, err := h.billStore.RecordPayment(b.ID, auth.UserID(r.Context()), *req.Amount, time.Now())
	if err != nil {
		h.logger.Error("record payment failed", "bill_id", b.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to record payment"})
		return
	}

	h.broadcast(b.HouseID, websocket.NewMessage("bill", "payment_recorded", b.ID, nil))

	writeJSON(w, http.StatusCreated, payment)
}

func (h *BillHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	b, ok := h.loadBill(w, r)
	if !ok {
		return
	}

	payments, err := h.billStore.ListPayments(b.ID)
	if err != nil {
		h.logger.Error("list payments failed", "bill_id", b.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list payments"})
		return
	}
	if payments == nil {
		payments = []model.BillPayment{}
	}
	writeJSON(w, http.StatusOK, payments)
}

func (h *BillHandler) loadBill(w http.ResponseWriter, r *http.Request) (*model.Bill, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return nil, false
	}

	b, err := h.billStore.GetByID(id)
	if err != nil {
		h.logger.Error("get bill failed", "bill_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get bill"})
		return nil, false
	}
	if b == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "bill not found"})
		return nil, false
	}
	return b, true
}
