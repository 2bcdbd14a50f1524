package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"paperqa/internal/handlers"
	"paperqa/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	QAService       service.QAService
	DocumentService service.DocumentService
	ModelService    service.ModelService
	VectorStore     handlers.CollectionLister
	// DocumentCount reports the catalog size for the health check.
	DocumentCount  func() int
	MetricsHandler http.Handler
	MaxUploadBytes int64
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(CORS)

	healthHandler := handlers.NewHealthHandler(deps.VectorStore, deps.DocumentCount)
	askHandler := handlers.NewAskHandler(deps.QAService)
	documentHandler := handlers.NewDocumentHandler(deps.DocumentService, deps.QAService, deps.MaxUploadBytes)
	modelHandler := handlers.NewModelHandler(deps.ModelService)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", healthHandler)

		r.Route("/v1", func(r chi.Router) {
			r.Method(http.MethodPost, "/ask", askHandler)

			r.Route("/documents", func(r chi.Router) {
				r.Post("/", documentHandler.Upload)
				r.Get("/", documentHandler.List)
				r.Get("/{id}", documentHandler.Get)
				r.Delete("/{id}", documentHandler.Delete)
				r.Get("/{id}/history", documentHandler.History)
			})

			r.Post("/model/load", modelHandler.Load)
			r.Post("/model/unload", modelHandler.Unload)
		})
	})

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	return r
}
