package app

import (
	"context"
	"fmt"

	"github.com/memoria-app/memoria/config"
	"github.com/memoria-app/memoria/handlers"
	"github.com/memoria-app/memoria/repositories"
	"github.com/memoria-app/memoria/repositories/postgres"
	"github.com/memoria-app/memoria/services/analysis"
	"github.com/memoria-app/memoria/services/content"
	"github.com/memoria-app/memoria/services/embedding"
	"github.com/memoria-app/memoria/services/providers"
	"github.com/memoria-app/memoria/services/providers/gemini"
	"github.com/memoria-app/memoria/services/rag"
	"github.com/memoria-app/memoria/services/retrieval"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repositories
	Content repositories.ContentRepository

	// Provider
	Provider *gemini.GeminiAdapter

	// Services
	EmbeddingService *embedding.EmbeddingService
	AnalysisService  *analysis.AnalysisService
	RetrievalService *retrieval.RetrievalService
	RAGService       *rag.RAGService
	ContentService   *content.ContentService

	// Handlers
	ContentHandler *handlers.ContentHandler
	SearchHandler  *handlers.SearchHandler
	RAGHandler     *handlers.RAGHandler
	HealthHandler  *handlers.HealthHandler
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps.initProvider(cfg)
	deps.initServices()
	deps.initHandlers()

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase establishes the connection pool and applies the schema
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	db, err := postgres.NewDB(cfg.Database, d.Logger)
	if err != nil {
		return err
	}

	if err := db.InitSchema(ctx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	d.DB = db
	d.Content = postgres.NewContentRepository(db, d.Logger)
	return nil
}

// initProvider builds the Gemini adapter from configuration
func (d *Dependencies) initProvider(cfg *config.Config) {
	if cfg.Gemini.APIKey == "" {
		d.Logger.Warn("gemini API key not configured, model calls will fail")
	}

	d.Provider = gemini.NewGeminiAdapter(providers.ProviderConfig{
		APIKey:          cfg.Gemini.APIKey,
		BaseURL:         cfg.Gemini.BaseURL,
		GenerationModel: cfg.Gemini.GenerationModel,
		EmbeddingModel:  cfg.Gemini.EmbeddingModel,
		Timeout:         cfg.Gemini.Timeout,
		MaxRetries:      cfg.Gemini.MaxRetries,
		RetryDelay:      cfg.Gemini.RetryDelay,
	})
	d.Logger.Info("gemini provider initialized",
		zap.String("generation_model", cfg.Gemini.GenerationModel),
		zap.String("embedding_model", cfg.Gemini.EmbeddingModel))
}

// initServices wires the service layer on top of the repository and provider
func (d *Dependencies) initServices() {
	d.EmbeddingService = embedding.NewEmbeddingService(d.Provider, d.Content, d.Logger)
	d.AnalysisService = analysis.NewAnalysisService(d.Provider, d.Logger)
	d.RetrievalService = retrieval.NewRetrievalService(d.EmbeddingService, d.Content, d.Logger)
	d.RAGService = rag.NewRAGService(d.RetrievalService, d.Provider, d.Logger)
	d.ContentService = content.NewContentService(d.Content, d.AnalysisService, d.EmbeddingService, d.Logger)

	d.Logger.Info("services initialized")
}

// initHandlers wires the HTTP handlers onto the services
func (d *Dependencies) initHandlers() {
	d.ContentHandler = handlers.NewContentHandler(d.ContentService, d.Logger)
	d.SearchHandler = handlers.NewSearchHandler(d.RetrievalService, d.Logger)
	d.RAGHandler = handlers.NewRAGHandler(d.RAGService, d.Logger)
	d.HealthHandler = handlers.NewHealthHandler(d.DB.DB, d.Provider, d.Logger)
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
