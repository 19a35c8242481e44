package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mveraz/citypulse/internal/auth"
	"github.com/mveraz/citypulse/internal/model"
	"github.com/mveraz/citypulse/internal/repository"
)

// apiLogTimeout bounds the background insert so a stuck database cannot
// accumulate goroutines.
const apiLogTimeout = 5 * time.Second

// APILog appends one usage row per /api request, fire-and-forget: the write
// happens on a background goroutine after the response is sent, and a failed
// insert is logged at Warn and dropped. Requests never slow down or fail
// because of the usage log.
//
// The user ID comes from OptionalAuth further up the chain when a valid
// session is attached; anonymous traffic logs with an empty user.
func APILog(repo repository.APILogRepository, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, "/api/") {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			userID, _ := auth.UserIDFromContext(r.Context())
			entry := &model.APILog{
				UserID:     userID,
				Endpoint:   r.Method + " " + r.URL.Path,
				Status:     wrapped.statusCode,
				DurationMS: time.Since(start).Milliseconds(),
			}

			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), apiLogTimeout)
				defer cancel()
				if err := repo.InsertAPILog(ctx, entry); err != nil {
					logger.Warn("api usage log dropped",
						slog.String("endpoint", entry.Endpoint),
						slog.String("error", err.Error()),
					)
				}
			}()
		})
	}
}
