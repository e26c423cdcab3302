package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// extensionSchemes are the origin schemes of browser extensions.
var extensionSchemes = []string{"chrome-extension://", "moz-extension://", "safari-web-extension://"}

// createCORSMiddleware returns nil when CORS is disabled or no origin is
// configured. Clients authenticate with bearer tokens, never cookies, so
// credentials are not allowed cross-origin.
func createCORSMiddleware(enabled bool, origins []string, logger *slog.Logger) gin.HandlerFunc {
	if !enabled {
		return nil
	}
	if len(origins) == 0 {
		logger.Warn("CORS enabled without allowed origins, not applied")
		return nil
	}

	logger.Info("CORS enabled", slog.Any("origins", origins))

	return cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
		},
		AllowHeaders:           []string{"Authorization", "Content-Type"},
		ExposeHeaders:          []string{"X-Request-Id"},
		AllowBrowserExtensions: hasExtensionOrigin(origins),
		MaxAge:                 12 * time.Hour,
	})
}

func hasExtensionOrigin(origins []string) bool {
	for _, origin := range origins {
		for _, scheme := range extensionSchemes {
			if strings.HasPrefix(origin, scheme) {
				return true
			}
		}
	}
	return false
}
