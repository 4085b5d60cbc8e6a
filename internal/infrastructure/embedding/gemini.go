package embedding

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/google/generative-ai-go/genai"
	"github.com/jubilgo/jubilgo-api/internal/domain/repository"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiClient implements repository.EmbeddingClient over the Gemini
// embeddings API.
type GeminiClient struct {
	client  *genai.Client
	model   *genai.EmbeddingModel
	modelID string
}

func NewGeminiClient(ctx context.Context, apiKey, modelID string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, &repository.ConfigError{Reason: "missing Gemini API key"}
	}
	if modelID == "" {
		modelID = "text-embedding-004"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiClient{
		client:  client,
		model:   client.EmbeddingModel(modelID),
		modelID: modelID,
	}, nil
}

// Embed generates one embedding per input text in a single batch call.
func (c *GeminiClient) Embed(ctx context.Context, texts []string, normalize bool) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	log.Printf("[Gemini] ☁️ Embedding %d texts with %s...", len(texts), c.modelID)

	batch := c.model.NewBatch()
	for _, text := range texts {
		batch.AddContent(genai.Text(text))
	}

	resp, err := c.model.BatchEmbedContents(ctx, batch)
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && (apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden) {
			return nil, &repository.ConfigError{Reason: fmt.Sprintf("gemini rejected credentials: %v", err)}
		}
		return nil, &repository.RequestError{Op: "gemini batch embed", Err: err}
	}

	if resp == nil || len(resp.Embeddings) != len(texts) {
		got := 0
		if resp != nil {
			got = len(resp.Embeddings)
		}
		return nil, &repository.RequestError{
			Op: fmt.Sprintf("gemini returned %d embeddings for %d texts", got, len(texts)),
		}
	}

	vectors := make([][]float32, len(texts))
	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, &repository.RequestError{Op: fmt.Sprintf("gemini returned empty embedding at index %d", i)}
		}
		if normalize {
			vectors[i] = unitNorm(emb.Values)
		} else {
			vectors[i] = emb.Values
		}
	}
	return vectors, nil
}

// ModelID returns the embedding model identity used for cache signatures.
func (c *GeminiClient) ModelID() string {
	return c.modelID
}

func (c *GeminiClient) Name() string {
	return fmt.Sprintf("Gemini (%s) [Cloud]", c.modelID)
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}
