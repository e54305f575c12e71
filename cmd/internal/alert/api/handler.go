// Package alertapi wires HTTP alert endpoints to the alert service and
// paginator.
package alertapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"visaslot/cmd/internal/alert"
	"visaslot/cmd/internal/web"
)

// Handler serves the /alerts endpoints.
type Handler struct {
	log          *slog.Logger
	maxBodyBytes int64

	alerts    *alert.Service
	paginator *alert.Paginator
}

// NewHandler constructs an alert Handler.
func NewHandler(log *slog.Logger, maxBodyBytes int64, alerts *alert.Service, paginator *alert.Paginator) *Handler {
	if log == nil {
		log = slog.Default()
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = 1 << 20
	}
	return &Handler{log: log, maxBodyBytes: maxBodyBytes, alerts: alerts, paginator: paginator}
}

// Register wires alert routes onto the provided mux. Every route sits behind
// the caller's auth middleware.
func (h *Handler) Register(mux *http.ServeMux, authed func(http.Handler) http.Handler) {
	mux.Handle("GET /alerts", authed(http.HandlerFunc(h.handleList)))
	mux.Handle("POST /alerts", authed(http.HandlerFunc(h.handleCreate)))
	mux.Handle("PUT /alerts/{id}", authed(http.HandlerFunc(h.handleUpdate)))
	mux.Handle("DELETE /alerts/{id}", authed(http.HandlerFunc(h.handleDelete)))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	limit := alert.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			web.Error(w, http.StatusBadRequest, "Limit must be a number")
			return
		}
		limit = n
	}

	page, err := h.paginator.List(r.Context(), limit, strings.TrimSpace(r.URL.Query().Get("cursor")))
	if err != nil {
		switch {
		case errors.Is(err, alert.ErrInvalidLimit):
			web.Error(w, http.StatusBadRequest, "Limit must be between 1 and 100")
		case errors.Is(err, alert.ErrInvalidCursor):
			web.ErrorCoded(w, http.StatusBadRequest, "Cursor does not match any alert", web.CodeInvalidCursor)
		default:
			h.log.Error("alert.list.fail", "err", err)
			web.Unavailable(w)
		}
		return
	}

	web.Data(w, http.StatusOK, "Alerts fetched successfully", page)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createAlertRequest
	if err := web.Decode(w, r, h.maxBodyBytes, &req); err != nil {
		web.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var rawErrors []string
	if strings.TrimSpace(req.Country) == "" {
		rawErrors = append(rawErrors, "Country is required")
	}
	if strings.TrimSpace(req.City) == "" {
		rawErrors = append(rawErrors, "City is required")
	}
	if !alert.VisaType(req.VisaType).Valid() {
		rawErrors = append(rawErrors, "Visa type must be one of: Tourist, Business, Student")
	}
	if len(rawErrors) > 0 {
		web.ErrorDetails(w, http.StatusBadRequest, "Validation failed", rawErrors)
		return
	}

	a, err := h.alerts.Create(r.Context(), alert.CreateInput{
		Country:  req.Country,
		City:     req.City,
		VisaType: alert.VisaType(req.VisaType),
	})
	if err != nil {
		h.log.Error("alert.create.fail", "err", err)
		web.Unavailable(w)
		return
	}

	web.Data(w, http.StatusCreated, "Alert created successfully", a)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req updateAlertRequest
	if err := web.Decode(w, r, h.maxBodyBytes, &req); err != nil {
		web.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !alert.Status(req.Status).Valid() {
		web.ErrorDetails(w, http.StatusBadRequest, "Validation failed",
			[]string{"Status must be one of: Active, Booked, Expired"})
		return
	}

	a, err := h.alerts.UpdateStatus(r.Context(), id, alert.Status(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, alert.ErrNotFound):
			web.Error(w, http.StatusNotFound, "Alert not found")
		default:
			h.log.Error("alert.update.fail", "err", err, "alert_id", id)
			web.Unavailable(w)
		}
		return
	}

	web.Data(w, http.StatusOK, "Alert updated successfully", a)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	a, err := h.alerts.Delete(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, alert.ErrNotFound):
			web.Error(w, http.StatusNotFound, "Alert not found")
		default:
			h.log.Error("alert.delete.fail", "err", err, "alert_id", id)
			web.Unavailable(w)
		}
		return
	}

	web.Data(w, http.StatusOK, "Alert deleted successfully", a)
}
