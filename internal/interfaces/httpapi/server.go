package httpapi

import (
	"net/http"

	"github.com/oddspulse/oddspulse/internal/platform/logging"
)

type middleware func(http.Handler) http.Handler

// chain applies middlewares outermost-first, so chain(a, b)(h) serves a(b(h)).
func chain(mws ...middleware) middleware {
	return func(next http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}

func NewRouter(
	handler *Handler,
	logger *logging.Logger,
	corsAllowedOrigins []string,
	internalJobToken string,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerCatalogRoutes(mux, handler)
	registerTipsterRoutes(mux, handler)
	registerInternalJobRoutes(mux, handler, internalJobToken)

	wrap := chain(
		RequestTracing,
		func(next http.Handler) http.Handler { return RequestLogging(logger, next) },
		func(next http.Handler) http.Handler { return CORS(corsAllowedOrigins, next) },
		func(next http.Handler) http.Handler { return recoverPanic(logger, next) },
	)
	return wrap(mux)
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
