package middleware

import (
	"fmt"
	"net/http"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-mes/pkg/handlers"
)

// RateLimit returns middleware limiting each client IP to the formatted rate
// ("300-M" is 300 requests per minute). An empty rate disables limiting.
// Counters live in process memory.
func RateLimit(formatted string, logger *zap.Logger) (func(http.Handler) http.Handler, error) {
	if formatted == "" {
		return func(next http.Handler) http.Handler { return next }, nil
	}

	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rate limit %q: %w", formatted, err)
	}
	instance := limiter.New(memory.NewStore(), rate)

	mw := stdlib.NewMiddleware(instance,
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			if logger != nil {
				logger.Warn("Rate limit reached",
					zap.String("remote_addr", r.RemoteAddr),
					zap.String("path", r.URL.Path))
			}
			writeError(w, http.StatusTooManyRequests, "rate_limited", "Too many requests, retry later", logger)
		}),
		stdlib.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			if logger != nil {
				logger.Error("Rate limiter failed", zap.Error(err))
			}
			writeError(w, http.StatusInternalServerError, "rate_limiter_error", "Rate limiter failed", logger)
		}),
	)
	return mw.Handler, nil
}

func writeError(w http.ResponseWriter, status int, code, message string, logger *zap.Logger) {
	if err := handlers.ErrorResponse(w, status, code, message); err != nil && logger != nil {
		logger.Error("Failed to write error response", zap.Error(err))
	}
}
