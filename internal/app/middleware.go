package app

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
)

// withMiddleware adds CORS for the kiosk frontend, panic recovery and access logging.
func (a *App) withMiddleware(next http.Handler) http.Handler {
	origins := a.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	h := handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
	)(next)
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(slog.NewLogLogger(a.log.Handler(), slog.LevelError)),
	)(h)
	return handlers.LoggingHandler(os.Stdout, h)
}
