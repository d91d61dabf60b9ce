package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/memoria-app/memoria/app"
	"github.com/memoria-app/memoria/middleware"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	// captures call out to the model provider, so the budget is generous
	r.Use(chimiddleware.Timeout(90 * time.Second))

	// CORS middleware: the browser extension and dashboard are the callers
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*", "chrome-extension://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoints
	r.Get("/health", deps.HealthHandler.HandleHealth)
	r.Get("/health/ready", deps.HealthHandler.HandleReadiness)

	// Content API
	r.Route("/api/content", func(r chi.Router) {
		// Capture endpoints, one per surface
		r.Post("/photo", deps.ContentHandler.HandleSavePhoto)
		r.Post("/document", deps.ContentHandler.HandleSaveDocument)
		r.Post("/todo", deps.ContentHandler.HandleSaveTodo)
		r.Post("/product", deps.ContentHandler.HandleSaveProduct)
		r.Post("/bookmark", deps.ContentHandler.HandleSaveBookmark)
		r.Post("/youtube", deps.ContentHandler.HandleSaveYouTube)

		// Retrieval endpoints
		r.Post("/search", deps.SearchHandler.HandleSearch)
		r.Post("/ask", deps.RAGHandler.HandleAsk)
		r.Post("/summarize", deps.RAGHandler.HandleSummarize)

		// Lifecycle endpoints
		r.Get("/", deps.ContentHandler.HandleList)
		r.Get("/{id}", deps.ContentHandler.HandleGet)
		r.Put("/{id}", deps.ContentHandler.HandleUpdate)
		r.Delete("/{id}", deps.ContentHandler.HandleDelete)
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"endpoint not found"}`))
	})

	return r
}
