package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/ishop-io/ishop-backend/internal/domain/customer"
)

// registerRequest mirrors the registration form. DateOfBirth arrives as a
// plain date string from the frontend, not RFC 3339.
type registerRequest struct {
	UserID      string `json:"UserId"`
	FirstName   string `json:"FirstName"`
	LastName    string `json:"LastName"`
	DateOfBirth string `json:"DateOfBirth"`
	Email       string `json:"Email"`
	Gender      string `json:"Gender"`
	Address     string `json:"Address"`
	PostalCode  string `json:"PostalCode"`
	State       string `json:"State"`
	Country     string `json:"Country"`
	Mobile      string `json:"Mobile"`
	Password    string `json:"Password"`
}

// ListCustomers handles GET /getcustomers.
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.List(r.Context())
	if err != nil {
		zctx.From(r.Context()).Error("list customers", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, r, http.StatusOK, customers)
}

// RegisterCustomer handles POST /customerregister: a pass-through insert of
// the submitted record.
func (h *Handler) RegisterCustomer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		zctx.From(ctx).Warn("malformed registration payload", zap.Error(err))
		writeError(w, r, http.StatusBadRequest, "Registration failed")
		return
	}

	c := &customer.Customer{
		UserID:      req.UserID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: parseDateOfBirth(req.DateOfBirth),
		Email:       req.Email,
		Gender:      req.Gender,
		Address:     req.Address,
		PostalCode:  req.PostalCode,
		State:       req.State,
		Country:     req.Country,
		Mobile:      req.Mobile,
		Password:    req.Password,
	}
	if err := h.customers.Register(ctx, c); err != nil {
		zctx.From(ctx).Error("register customer", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "Registration failed")
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"message": "Customer registered"})
}

// parseDateOfBirth accepts the date formats the frontend is known to send.
// Unparseable values are stored as null, matching the original behaviour.
func parseDateOfBirth(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}
