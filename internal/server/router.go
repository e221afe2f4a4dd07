package server

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/cloo-solutions/geomed/internal/api/handlers"
	"github.com/cloo-solutions/geomed/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const jsonBodyBytes int64 = 1 << 20

type RouterConfig struct {
	SearchHandler  *handlers.SearchHandler
	BatchHandler   *handlers.BatchHandler
	ExportHandler  *handlers.ExportHandler
	MetricsHandler http.Handler
	CORSOrigins    []string
	Logger         *slog.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Sentry)
	r.Use(middleware.AccessLog(cfg.Logger))
	r.Use(cors.Handler(corsOptions(cfg.CORSOrigins)))

	r.Get("/health", handlers.Health)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/", handlers.Root)

		r.With(middleware.LimitBody(jsonBodyBytes)).Post("/predict-country", cfg.SearchHandler.Predict)
		r.Get("/search-history", cfg.SearchHandler.List)
		r.Get("/search-history/{id}", cfg.SearchHandler.Get)

		r.Post("/batch-upload", cfg.BatchHandler.Upload)
		r.Get("/batch-template", cfg.BatchHandler.Template)

		r.Get("/export-history-excel", cfg.ExportHandler.Excel)
		r.Get("/export-history-csv", cfg.ExportHandler.CSV)
	})

	return r
}

// corsOptions allows credentials only for an explicit origin list. With a
// wildcard, go-chi/cors reflects the caller's Origin, which combined with
// credentials would let any site make authenticated requests.
func corsOptions(origins []string) cors.Options {
	allowed := make([]string, 0, len(origins))
	wildcard := false
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		if o == "*" {
			wildcard = true
		}
		allowed = append(allowed, o)
	}
	if len(allowed) == 0 {
		allowed, wildcard = []string{"*"}, true
	}

	return cors.Options{
		AllowedOrigins:   allowed,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: !wildcard,
		MaxAge:           300,
	}
}
