// Package embedding owns the catalog embedding cache: one vector per
// catalog interest, invalidated by a content+model signature.
package embedding

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/jubilgo/jubilgo-api/internal/database"
	"github.com/jubilgo/jubilgo-api/internal/database/models"
	"github.com/jubilgo/jubilgo-api/internal/domain/repository"
)

// InterestRow identifies one catalog interest in classification results.
type InterestRow struct {
	ID       int64
	Name     string
	Category string
}

// CatalogEmbedding pairs a catalog interest with its precomputed vector.
type CatalogEmbedding struct {
	Row    InterestRow
	Vector []float32
}

// Cache keeps the per-interest embeddings fresh in the store and memoizes
// the loaded table in process. Concurrent refreshes may both recompute the
// same row; the overwrite is idempotent since content is deterministic from
// the same inputs, so no cross-call locking is attempted.
type Cache struct {
	store      database.InterestRepository
	provider   repository.EmbeddingClient
	writeChunk int

	mu   sync.Mutex
	memo []CatalogEmbedding
}

// NewCache creates the cache. writeChunk bounds store write batches.
func NewCache(store database.InterestRepository, provider repository.EmbeddingClient, writeChunk int) *Cache {
	if writeChunk <= 0 {
		writeChunk = 300
	}
	return &Cache{store: store, provider: provider, writeChunk: writeChunk}
}

// PassagePayload builds the canonical passage text an interest is embedded
// from. Editing the name or category changes the payload and therefore the
// signature.
func PassagePayload(name, category string) string {
	main := strings.TrimSpace(name)
	if c := strings.TrimSpace(category); c != "" {
		main = c + " — " + main
	}
	return "passage: " + main
}

// Signature derives the staleness hash for a payload under a given model.
func Signature(modelID, payload string) string {
	sum := sha1.Sum([]byte(modelID + "||" + payload))
	return hex.EncodeToString(sum[:])
}

// EnsureFresh recomputes embeddings for every catalog interest whose stored
// signature no longer matches the freshly derived one (model upgrade or text
// edit), has no vector yet, or when force is set. All pending rows go to the
// provider in one batch; a count mismatch aborts the whole operation so the
// cache is never partially updated.
func (c *Cache) EnsureFresh(ctx context.Context, force bool) error {
	if err := EnsureInterestCatalog(ctx, c.store); err != nil {
		return err
	}

	rows, err := c.store.ListInterests(ctx)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	modelID := c.provider.ModelID()

	var pending []*models.InterestEmbeddingUpdate
	var payloads []string
	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			continue
		}
		payload := PassagePayload(name, row.Category)
		sig := Signature(modelID, payload)

		if !force && len(row.Embedding) > 0 && row.EmbeddingSignature == sig {
			continue
		}
		pending = append(pending, &models.InterestEmbeddingUpdate{
			InterestID: row.ID,
			Signature:  sig,
			Text:       payload,
			Model:      modelID,
		})
		payloads = append(payloads, payload)
	}
	if len(pending) == 0 {
		return nil
	}

	log.Printf("[Cache] Recomputing %d of %d interest embeddings (model %s)", len(pending), len(rows), modelID)

	vectors, err := c.provider.Embed(ctx, payloads, true)
	if err != nil {
		return err
	}
	if len(vectors) != len(pending) {
		return &repository.RequestError{
			Op: fmt.Sprintf("provider returned %d vectors for %d catalog interests", len(vectors), len(pending)),
		}
	}
	for i, vec := range vectors {
		pending[i].Vector = models.Vector(vec)
	}

	for start := 0; start < len(pending); start += c.writeChunk {
		end := start + c.writeChunk
		if end > len(pending) {
			end = len(pending)
		}
		if err := c.store.SaveInterestEmbeddings(ctx, pending[start:end]); err != nil {
			return fmt.Errorf("failed to persist interest embeddings: %w", err)
		}
	}

	c.Invalidate()
	return nil
}

// LoadAll returns the catalog interests with their embedding vectors, in
// store order. The result is memoized until the next successful
// refresh. Fails when the catalog is non-empty but no row carries a usable
// vector.
func (c *Cache) LoadAll(ctx context.Context) ([]CatalogEmbedding, error) {
	c.mu.Lock()
	memo := c.memo
	c.mu.Unlock()
	if memo != nil {
		return memo, nil
	}

	if err := c.EnsureFresh(ctx, false); err != nil {
		return nil, err
	}

	rows, err := c.store.ListInterests(ctx)
	if err != nil {
		return nil, err
	}

	var out []CatalogEmbedding
	nonEmpty := false
	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			continue
		}
		nonEmpty = true
		if len(row.Embedding) == 0 {
			continue
		}
		out = append(out, CatalogEmbedding{
			Row:    InterestRow{ID: row.ID, Name: name, Category: row.Category},
			Vector: row.Embedding,
		})
	}

	if nonEmpty && len(out) == 0 {
		return nil, &repository.RequestError{Op: "no embeddings stored for the interest catalog"}
	}

	c.mu.Lock()
	c.memo = out
	c.mu.Unlock()
	return out, nil
}

// Invalidate drops the in-process memo so the next LoadAll re-reads the
// store.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.memo = nil
	c.mu.Unlock()
}
