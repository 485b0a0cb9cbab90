package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kasbah/internal/guard/handler"
	"kasbah/internal/platform/middleware"
	jsonResponse "kasbah/internal/transport/http/json"
	domainerrors "kasbah/pkg/domain-errors"
)

// NewRouter wires the guard endpoints with the middleware stack. Uses chi
// for routing; unknown paths and methods both answer with the guard's 404
// envelope so the extension sees one failure shape.
func NewRouter(h *handler.Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS)

	h.Register(r)

	// Prometheus scrape endpoint; not part of the extension protocol.
	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	return r
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	jsonResponse.WriteDomainError(w, domainerrors.New(domainerrors.CodeNotFound, "not found"))
}
