package embedding

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/jubilgo/jubilgo-api/internal/domain/repository"
	"github.com/jubilgo/jubilgo-api/internal/infrastructure/resilience"
)

// Router selects the active embedding backend and wraps it with retry and a
// circuit breaker. The active backend is fixed at construction: cache
// signatures embed the model identity, so flipping providers mid-flight
// would silently invalidate every cached vector.
type Router struct {
	active  repository.EmbeddingClient
	retries int
	breaker *resilience.CircuitBreaker
}

// NewRouter picks the embedding backend. When localOnly is true the local
// client serves everything; otherwise the remote client does.
func NewRouter(local, remote repository.EmbeddingClient, localOnly bool, retries int) *Router {
	active := remote
	icon := "☁️"
	if localOnly || remote == nil {
		active = local
		icon = "🏠"
	}
	log.Printf("[Embedding] 🛤️  Routing embeddings to %s %s", icon, active.Name())

	return &Router{
		active:  active,
		retries: retries,
		breaker: resilience.NewCircuitBreaker(5, 30*time.Second),
	}
}

// Embed calls the active backend, retrying transient failures with
// exponential backoff. Configuration errors fail fast.
func (r *Router) Embed(ctx context.Context, texts []string, normalize bool) ([][]float32, error) {
	var vectors [][]float32

	err := resilience.Retry(ctx, r.retries, isPermanent, func() error {
		return r.breaker.Execute(func() error {
			var embedErr error
			vectors, embedErr = r.active.Embed(ctx, texts, normalize)
			return embedErr
		})
	})
	if err != nil {
		if errors.Is(err, resilience.ErrCircuitOpen) {
			return nil, &repository.RequestError{Op: "embedding provider unavailable", Err: err}
		}
		return nil, err
	}
	return vectors, nil
}

// ModelID returns the active backend's model identity.
func (r *Router) ModelID() string {
	return r.active.ModelID()
}

func (r *Router) Name() string {
	return r.active.Name()
}

func isPermanent(err error) bool {
	var configErr *repository.ConfigError
	return errors.As(err, &configErr)
}
