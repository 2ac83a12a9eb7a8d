package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS allows credentialed requests from the listed origins only. A wildcard
// entry opens the API to every origin without credentials.
func CORS(origins []string) fiber.Handler {
	cleaned := make([]string, 0, len(origins))
	wildcard := false
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" {
			continue
		}
		if o == "*" {
			wildcard = true
		}
		cleaned = append(cleaned, o)
	}

	cfg := cors.Config{
		AllowOrigins:     strings.Join(cleaned, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Idempotency-Key",
		AllowCredentials: true,
	}
	if wildcard || len(cleaned) == 0 {
		cfg.AllowOrigins = "*"
		cfg.AllowCredentials = false
	}
	return cors.New(cfg)
}
