package httpapi

import (
	"net/http"

	"github.com/riskibarqy/club-league/internal/platform/logging"
)

// NewRouter wires every route and the shared middleware chain. Tracing wraps
// logging so request logs carry trace ids; CORS and panic recovery sit
// closest to the handlers.
func NewRouter(handler *Handler, logger *logging.Logger, corsAllowedOrigins []string, internalJobToken string) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerPublicDomainRoutes(mux, handler)
	registerParticipantRoutes(mux, handler)
	registerInternalJobRoutes(mux, handler, internalJobToken)

	return RequestTracing(RequestLogging(logger, CORS(corsAllowedOrigins, recoverPanic(logger, mux))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(r.Context(), "panic recovered",
					"panic", rec,
					"method", r.Method,
					"path", r.URL.Path,
				)
				writeInternalError(r.Context(), w)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
