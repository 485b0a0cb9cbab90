package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mssola/useragent"

	"kasbah/internal/guard/models"
	"kasbah/internal/platform/middleware"
	jsonResponse "kasbah/internal/transport/http/json"
	domainerrors "kasbah/pkg/domain-errors"
)

// Service defines the guard operations the HTTP layer delegates to.
type Service interface {
	Decide(ctx context.Context, req models.DecideRequest) models.DecideResponse
	Consume(ctx context.Context, req models.ConsumeRequest) models.ConsumeResponse
	Status(ctx context.Context) models.StatusResponse
	Events(ctx context.Context) []models.EventResponse
	Stats(ctx context.Context) models.Stats
}

// Handler is the thin HTTP layer over the decision authority. It parses
// bodies outside any lock, delegates to the service, and writes the guard's
// legacy wire envelopes.
type Handler struct {
	guard  Service
	logger *slog.Logger
}

// New creates a Handler with the given service and logger.
func New(guard Service, logger *slog.Logger) *Handler {
	return &Handler{
		guard:  guard,
		logger: logger,
	}
}

// Register registers the guard routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/status", h.HandleStatus)
	r.Post("/decide", h.HandleDecide)
	r.Post("/consume", h.HandleConsume)
	r.Get("/events", h.HandleEvents)
	r.Get("/stats", h.HandleStats)
}

// HandleStatus implements GET /status.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	jsonResponse.WriteJSON(w, http.StatusOK, h.guard.Status(r.Context()))
}

// HandleDecide implements POST /decide: score the preview, mint a ticket.
// A body that does not parse performs no state mutation at all.
//
// Input: { "product": "chatgpt", "host": "...", "action": "chat.send",
//          "meta": { "preview": "...", "secrets": [...] } }
// Output: { "ok": true, "decision": "PENDING", "ticket": "...", "exp_ms": ...,
//           "risk": 85, "preflight": "WARN", "reason": "..." }
func (h *Handler) HandleDecide(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req models.DecideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode decide request",
			"error", err,
			"request_id", requestID,
		)
		jsonResponse.WriteDomainError(w, domainerrors.Wrap(err, domainerrors.CodeInvalidInput, "invalid JSON"))
		return
	}

	// The caller is a browser extension; note which browser asked so
	// multi-browser setups can be told apart in the logs.
	ua := useragent.New(r.UserAgent())
	browser, version := ua.Browser()

	res := h.guard.Decide(ctx, req)

	h.logger.InfoContext(ctx, "decide handled",
		"request_id", requestID,
		"ticket", res.Ticket,
		"browser", browser,
		"browser_version", version,
	)

	jsonResponse.WriteJSON(w, http.StatusOK, res)
}

// HandleConsume implements POST /consume: redeem a ticket exactly once.
//
// Input: { "ticket": "...", "choice": "ALLOW" }
// Output: { "ok": true, "decision": "ALLOW", "reason": "user allowed" }
func (h *Handler) HandleConsume(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req models.ConsumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode consume request",
			"error", err,
			"request_id", requestID,
		)
		jsonResponse.WriteDomainError(w, domainerrors.Wrap(err, domainerrors.CodeInvalidInput, "invalid JSON"))
		return
	}

	res := h.guard.Consume(ctx, req)

	h.logger.InfoContext(ctx, "consume handled",
		"request_id", requestID,
		"ticket", req.Ticket,
		"decision", res.Decision,
	)

	jsonResponse.WriteJSON(w, http.StatusOK, res)
}

// HandleEvents implements GET /events. Query parameters (cache busters from
// the extension) are ignored.
func (h *Handler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	events := h.guard.Events(r.Context())
	if events == nil {
		events = []models.EventResponse{}
	}
	jsonResponse.WriteJSON(w, http.StatusOK, events)
}

// HandleStats implements GET /stats.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	jsonResponse.WriteJSON(w, http.StatusOK, h.guard.Stats(r.Context()))
}
