// Package embedding provides the embedding provider clients and the router
// that selects between them.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"

	"github.com/jubilgo/jubilgo-api/internal/domain/repository"
)

// OllamaClient implements repository.EmbeddingClient against a local Ollama
// server.
type OllamaClient struct {
	host  string
	model string
}

// NewOllamaClient initializes a client for a local Ollama instance.
func NewOllamaClient(host, model string) *OllamaClient {
	if host == "" {
		host = "http://localhost:11434"
	}
	if model == "" {
		model = "nomic-embed-text"
	}
	return &OllamaClient{host: host, model: model}
}

type ollamaEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type ollamaEmbedResponse struct {
	Embedding  []float32   `json:"embedding,omitempty"`
	Embeddings [][]float32 `json:"embeddings,omitempty"`
}

type ollamaPullRequest struct {
	Model  string `json:"model"`
	Stream bool   `json:"stream"`
}

// Embed generates embeddings via Ollama's embedding API.
func (c *OllamaClient) Embed(ctx context.Context, texts []string, normalize bool) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	apiURL := fmt.Sprintf("%s/api/embed", c.host)

	reqBody, err := json.Marshal(ollamaEmbedRequest{Model: c.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ollama embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, &repository.RequestError{Op: "ollama embed", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &repository.RequestError{Op: fmt.Sprintf("ollama returned status %d: %s", resp.StatusCode, string(body))}
	}

	var embedResp ollamaEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&embedResp); err != nil {
		return nil, &repository.RequestError{Op: "decode ollama embed response", Err: err}
	}

	vectors := embedResp.Embeddings
	if len(vectors) == 0 && len(embedResp.Embedding) > 0 {
		vectors = [][]float32{embedResp.Embedding}
	}
	if len(vectors) != len(texts) {
		return nil, &repository.RequestError{
			Op: fmt.Sprintf("ollama returned %d embeddings for %d texts", len(vectors), len(texts)),
		}
	}

	if normalize {
		for i := range vectors {
			vectors[i] = unitNorm(vectors[i])
		}
	}
	return vectors, nil
}

// PullModel pulls the embedding model from the Ollama library.
func (c *OllamaClient) PullModel(ctx context.Context, model string) error {
	log.Printf("[Ollama] 📥 Pulling model '%s'...", model)

	apiURL := fmt.Sprintf("%s/api/pull", c.host)

	reqBody, err := json.Marshal(ollamaPullRequest{Model: model, Stream: false})
	if err != nil {
		return fmt.Errorf("failed to marshal ollama pull request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewBuffer(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create ollama pull request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("ollama pull request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("ollama pull returned status %d: %s", resp.StatusCode, string(body))
	}

	log.Printf("[Ollama] 📥 Model '%s' available.", model)
	return nil
}

// ModelID returns the embedding model identity used for cache signatures.
func (c *OllamaClient) ModelID() string {
	return c.model
}

// Name returns the descriptive name of the client.
func (c *OllamaClient) Name() string {
	return fmt.Sprintf("Ollama (%s) [Local]", c.model)
}

// unitNorm scales a vector to unit length so dot product equals cosine
// similarity. Zero vectors are returned unchanged.
func unitNorm(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vec
	}
	norm := math.Sqrt(sum)
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(float64(v) / norm)
	}
	return out
}
