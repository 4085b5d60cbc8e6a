package server

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jubilgo/jubilgo-api/internal/config"
	"github.com/jubilgo/jubilgo-api/internal/database"
	"github.com/jubilgo/jubilgo-api/internal/database/bunstore"
	"github.com/jubilgo/jubilgo-api/internal/database/sqlite"
	"github.com/jubilgo/jubilgo-api/internal/domain/repository"
	"github.com/jubilgo/jubilgo-api/internal/embedding"
	embedinfra "github.com/jubilgo/jubilgo-api/internal/infrastructure/embedding"
	httpserver "github.com/jubilgo/jubilgo-api/internal/server"
	"github.com/jubilgo/jubilgo-api/internal/usecase/classify"
	"github.com/jubilgo/jubilgo-api/internal/usecase/preferences"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type Server struct {
	cfg        *config.Config
	httpServer *http.Server
}

func New(cfg *config.Config) *Server {
	return &Server{
		cfg: cfg,
	}
}

func (s *Server) Run() error {
	ctx := context.Background()

	// ==========================================
	// Initialize Dependencies (Dependency Injection)
	// ==========================================

	store, err := s.openStore()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			log.Printf("[Warning] Failed to close store: %v", closeErr)
		}
	}()

	localClient := embedinfra.NewOllamaClient(s.cfg.OllamaHost, s.cfg.OllamaEmbedModel)

	var remoteClient repository.EmbeddingClient
	if !s.cfg.UseLocalOnlyEmbeddings {
		gemini, err := embedinfra.NewGeminiClient(ctx, s.cfg.GeminiAPIKey, s.cfg.GeminiEmbedModel)
		if err != nil {
			return err
		}
		defer func() { _ = gemini.Close() }()
		remoteClient = gemini
	}

	router := embedinfra.NewRouter(localClient, remoteClient, s.cfg.UseLocalOnlyEmbeddings, s.cfg.EmbeddingRetries)

	if s.cfg.UseLocalOnlyEmbeddings {
		log.Printf("[System] 📥 Ensuring local embed model '%s' is available...", s.cfg.OllamaEmbedModel)
		if err := localClient.PullModel(ctx, s.cfg.OllamaEmbedModel); err != nil {
			log.Printf("[Warning] 📥 Failed to pull embed model '%s': %v", s.cfg.OllamaEmbedModel, err)
		}
	}

	// Seed the interest catalog and warm the embedding cache. A warm-up
	// failure is tolerated; the cache retries lazily on first use.
	if err := embedding.EnsureInterestCatalog(ctx, store); err != nil {
		return err
	}
	cache := embedding.NewCache(store, router, s.cfg.EmbeddingWriteChunk)
	warmCtx, cancelWarm := context.WithTimeout(ctx, s.cfg.EmbeddingTimeout)
	if err := cache.EnsureFresh(warmCtx, false); err != nil {
		log.Printf("[Warning] Catalog embedding warm-up failed: %v", err)
	}
	cancelWarm()

	classifier := classify.NewClassifier(router, cache)
	learner := preferences.NewLearner(store, s.cfg.HistoryLimit)

	// ==========================================
	// Initialize and Start HTTP Server
	// ==========================================

	apiServer := httpserver.NewServer(store, classifier, learner)
	handler := apiServer.RegisterRoutes()

	s.httpServer = &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: handler,
	}

	// Listen for shutdown signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		log.Printf("[System] 🌐 Starting REST API Server on %s", s.cfg.HTTPAddr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[Error] HTTP server failed: %v", err)
		}
	}()

	<-stop
	log.Println("[System] 🛑 Shutdown signal received. Draining connections...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Error] HTTP shutdown error: %v", err)
	}

	log.Println("[System] ✅ Server stopped gracefully.")
	return nil
}

func (s *Server) openStore() (database.Store, error) {
	if s.cfg.StoreDriver == "sqlite" {
		log.Printf("[System] Opening raw sqlite store at %s", s.cfg.SQLiteDSN)
		return sqlite.NewSQLiteStore(s.cfg.SQLiteDSN)
	}

	log.Printf("[System] Opening bun store at %s", s.cfg.SQLiteDSN)
	db, err := sql.Open(sqliteshim.ShimName, s.cfg.SQLiteDSN)
	if err != nil {
		return nil, err
	}
	store, err := bunstore.NewBunStore(db, sqlitedialect.New())
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}
