// Package classify maps free-text questionnaire answers to catalog interests
// and discrete user attribute levels. Interest suggestion and preparation
// classification use embedding similarity; mobility classification is
// purely lexical.
package classify

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/jubilgo/jubilgo-api/internal/domain"
	"github.com/jubilgo/jubilgo-api/internal/domain/repository"
	"github.com/jubilgo/jubilgo-api/internal/embedding"
	"golang.org/x/sync/errgroup"
)

const (
	// minInterestScore is the similarity floor below which a catalog
	// interest is no longer suggested, once at least one suggestion exists.
	minInterestScore = 0.33
	// minPreparationScore is the floor below which the best reference
	// phrase match is judged unrelated to any preparation level.
	minPreparationScore = 0.25
)

// Suggestion is one classified catalog interest with its similarity score.
type Suggestion struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category,omitempty"`
	Score    float64 `json:"score"`
}

// Result is the combined output of one questionnaire analysis.
type Result struct {
	Interests        []Suggestion            `json:"interests"`
	PreparationLevel domain.PreparationLevel `json:"preparation_level,omitempty"`
	MobilityLevel    domain.MobilityLevel    `json:"mobility_level,omitempty"`
}

// Classifier runs the three questionnaire sub-classifications against the
// embedding provider and the catalog embedding cache.
type Classifier struct {
	provider repository.EmbeddingClient
	cache    *embedding.Cache

	mu         sync.Mutex
	references map[domain.PreparationLevel][][]float32
}

func NewClassifier(provider repository.EmbeddingClient, cache *embedding.Cache) *Classifier {
	return &Classifier{provider: provider, cache: cache}
}

// Analyze runs interest suggestion, preparation classification and mobility
// classification for one questionnaire submission. Provider failures from
// the embedding-backed steps abort the whole call.
func (c *Classifier) Analyze(ctx context.Context, interestAnswers []string, preparationAnswer, mobilityAnswer string, topK int) (*Result, error) {
	result := &Result{Interests: []Suggestion{}}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		suggestions, err := c.SuggestInterests(gctx, interestAnswers, topK)
		if err != nil {
			return err
		}
		result.Interests = suggestions
		return nil
	})
	g.Go(func() error {
		level, err := c.ClassifyPreparation(gctx, preparationAnswer)
		if err != nil {
			return err
		}
		result.PreparationLevel = level
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Lexical only, cannot fail.
	result.MobilityLevel = ClassifyMobility(mobilityAnswer)
	return result, nil
}

// SuggestInterests maps free-text answers to the closest catalog interests.
// It never returns an empty list when the catalog has embeddings: if no row
// clears the similarity floor, the single best match is kept anyway.
func (c *Classifier) SuggestInterests(ctx context.Context, answers []string, topK int) ([]Suggestion, error) {
	cleaned := make([]string, 0, len(answers))
	for _, answer := range answers {
		if trimmed := strings.TrimSpace(answer); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return []Suggestion{}, nil
	}

	payloads := make([]string, len(cleaned))
	for i, text := range cleaned {
		payloads[i] = "query: " + text
	}
	answerVectors, err := c.provider.Embed(ctx, payloads, true)
	if err != nil {
		return nil, err
	}
	if len(answerVectors) != len(cleaned) {
		return nil, &repository.RequestError{
			Op:  "suggest interests",
			Err: fmt.Errorf("embedded %d of %d answers", len(answerVectors), len(cleaned)),
		}
	}

	rows, err := c.cache.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	type scoredRow struct {
		score float64
		row   embedding.InterestRow
	}
	scored := make([]scoredRow, 0, len(rows))
	for _, row := range rows {
		best := -1.0
		for _, answer := range answerVectors {
			if sim := dot(row.Vector, answer); sim > best {
				best = sim
			}
		}
		scored = append(scored, scoredRow{score: best, row: row.Row})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	limit := topK
	if limit < 1 {
		limit = 1
	}
	suggestions := make([]Suggestion, 0, limit)
	for _, candidate := range scored {
		if len(suggestions) >= limit {
			break
		}
		if candidate.score < minInterestScore && len(suggestions) > 0 {
			break
		}
		suggestions = append(suggestions, newSuggestion(candidate.row, candidate.score))
	}
	// Below-threshold answers still deserve the single closest interest.
	if len(suggestions) == 0 && len(scored) > 0 {
		suggestions = append(suggestions, newSuggestion(scored[0].row, scored[0].score))
	}
	return suggestions, nil
}

// ClassifyPreparation matches an answer against the reference phrases of all
// three preparation levels; the single best phrase match wins. Answers whose
// best match stays under the floor are left unclassified.
func (c *Classifier) ClassifyPreparation(ctx context.Context, answer string) (domain.PreparationLevel, error) {
	text := strings.TrimSpace(answer)
	if text == "" {
		return "", nil
	}

	vectors, err := c.provider.Embed(ctx, []string{"query: " + text}, true)
	if err != nil {
		return "", err
	}
	if len(vectors) == 0 {
		return "", nil
	}
	answerVec := vectors[0]

	references, err := c.referenceVectors(ctx)
	if err != nil {
		return "", err
	}

	var bestLevel domain.PreparationLevel
	bestScore := -1.0
	for level, levelVectors := range references {
		for _, vec := range levelVectors {
			if score := dot(vec, answerVec); score > bestScore {
				bestScore = score
				bestLevel = level
			}
		}
	}
	if bestLevel == "" || bestScore < minPreparationScore {
		return "", nil
	}
	return bestLevel, nil
}

// referenceVectors embeds the reference phrases once per process lifetime.
// Failed attempts are not cached so a transient provider outage does not
// poison the memo.
func (c *Classifier) referenceVectors(ctx context.Context) (map[domain.PreparationLevel][][]float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.references != nil {
		return c.references, nil
	}

	levels := make([]domain.PreparationLevel, 0, len(preparationReferences))
	payloads := make([]string, 0, 6)
	for level, phrases := range preparationReferences {
		for _, phrase := range phrases {
			levels = append(levels, level)
			payloads = append(payloads, "passage: "+phrase)
		}
	}

	vectors, err := c.provider.Embed(ctx, payloads, true)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(payloads) {
		return nil, &repository.RequestError{
			Op:  "embed preparation references",
			Err: fmt.Errorf("embedded %d of %d phrases", len(vectors), len(payloads)),
		}
	}

	grouped := make(map[domain.PreparationLevel][][]float32, len(preparationReferences))
	for i, level := range levels {
		grouped[level] = append(grouped[level], vectors[i])
	}
	c.references = grouped
	return grouped, nil
}

func newSuggestion(row embedding.InterestRow, score float64) Suggestion {
	return Suggestion{
		ID:       row.ID,
		Name:     row.Name,
		Category: row.Category,
		Score:    math.Round(score*1000) / 1000,
	}
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
