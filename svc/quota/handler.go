package quota

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mentorly/entitlement/svc/entitlement"
)

// Handler exposes a Service over HTTP. The routes mirror what Client calls:
//
//	POST /check     {"user_id","feature","limit"} -> {"allowed","count"}
//	POST /increment {"user_id","feature"}         -> {"count"}
//	GET  /usage/{userID}                          -> {"usage":{feature:count}}
type Handler struct {
	svc    *Service
	apiKey string
	log    *slog.Logger
}

// HandlerOption configures the HTTP handler.
type HandlerOption func(*Handler)

// WithAPIKey requires the given key in the Authorization header on every
// request. Empty disables the check.
func WithAPIKey(key string) HandlerOption {
	return func(h *Handler) { h.apiKey = key }
}

// WithHandlerLogger sets the logger for request failures.
func WithHandlerLogger(log *slog.Logger) HandlerOption {
	return func(h *Handler) { h.log = log }
}

// NewHandler returns an HTTP handler serving the quota API.
func NewHandler(svc *Service, opts ...HandlerOption) *Handler {
	if svc == nil {
		panic("quota: service cannot be nil")
	}
	h := &Handler{svc: svc, log: slog.Default()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes returns the chi router for mounting.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(h.authorize)
	r.Post("/check", h.check)
	r.Post("/increment", h.increment)
	r.Get("/usage/{userID}", h.usage)
	return r
}

func (h *Handler) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.apiKey != "" && r.Header.Get("Authorization") != "Bearer "+h.apiKey {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

type checkRequest struct {
	UserID  uuid.UUID           `json:"user_id"`
	Feature entitlement.Feature `json:"feature"`
	Limit   int64               `json:"limit"`
}

type checkResponse struct {
	Allowed bool  `json:"allowed"`
	Count   int64 `json:"count"`
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == uuid.Nil || req.Feature == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
		return
	}

	allowed, err := h.svc.Check(r.Context(), req.UserID, req.Feature, req.Limit)
	if err != nil {
		h.log.ErrorContext(r.Context(), "quota check failed", "error", err, "user_id", req.UserID)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal"})
		return
	}

	count, err := h.svc.counter.Count(r.Context(), req.UserID, req.Feature)
	if err != nil {
		h.log.ErrorContext(r.Context(), "quota count failed", "error", err, "user_id", req.UserID)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal"})
		return
	}

	writeJSON(w, http.StatusOK, checkResponse{Allowed: allowed, Count: count})
}

type incrementRequest struct {
	UserID  uuid.UUID           `json:"user_id"`
	Feature entitlement.Feature `json:"feature"`
}

type incrementResponse struct {
	Count int64 `json:"count"`
}

func (h *Handler) increment(w http.ResponseWriter, r *http.Request) {
	var req incrementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == uuid.Nil || req.Feature == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
		return
	}

	count, err := h.svc.counter.Increment(r.Context(), req.UserID, req.Feature)
	if err != nil {
		h.log.ErrorContext(r.Context(), "quota increment failed", "error", err, "user_id", req.UserID)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal"})
		return
	}

	writeJSON(w, http.StatusOK, incrementResponse{Count: count})
}

type usageResponse struct {
	Usage map[entitlement.Feature]int64 `json:"usage"`
}

func (h *Handler) usage(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user id"})
		return
	}

	usage, err := h.svc.Usage(r.Context(), userID)
	if err != nil {
		h.log.ErrorContext(r.Context(), "quota usage failed", "error", err, "user_id", userID)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal"})
		return
	}

	writeJSON(w, http.StatusOK, usageResponse{Usage: usage})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
