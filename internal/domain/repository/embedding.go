package repository

import (
	"context"
	"fmt"
)

// EmbeddingClient defines the interface for turning text into fixed-length
// vectors. Implementations must preserve input order and count. When
// normalize is true the returned vectors are unit length, so dot product
// equals cosine similarity.
type EmbeddingClient interface {
	Embed(ctx context.Context, texts []string, normalize bool) ([][]float32, error)
	ModelID() string
	Name() string
}

// ConfigError signals the embedding provider is unusable: missing
// credentials or model. Fatal, never retried.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("embedding provider misconfigured: %s", e.Reason)
}

// RequestError signals a transient provider failure that persisted after
// exhausting retries.
type RequestError struct {
	Op  string
	Err error
}

func (e *RequestError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("embedding request failed: %s", e.Op)
	}
	return fmt.Sprintf("embedding request failed: %s: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }
