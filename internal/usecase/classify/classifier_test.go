package classify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/jubilgo/jubilgo-api/internal/database/models"
	"github.com/jubilgo/jubilgo-api/internal/domain"
	"github.com/jubilgo/jubilgo-api/internal/domain/repository"
	"github.com/jubilgo/jubilgo-api/internal/embedding"
)

// mockInterestStore implements database.InterestRepository in memory.
type mockInterestStore struct {
	rows []*models.Interest
}

func (m *mockInterestStore) SeedInterests(ctx context.Context, rows []*models.Interest) error {
	m.rows = append(m.rows, rows...)
	return nil
}

func (m *mockInterestStore) ListInterests(ctx context.Context) ([]*models.Interest, error) {
	return m.rows, nil
}

func (m *mockInterestStore) SaveInterestEmbeddings(ctx context.Context, updates []*models.InterestEmbeddingUpdate) error {
	for _, update := range updates {
		for _, row := range m.rows {
			if row.ID == update.InterestID {
				row.Embedding = update.Vector
				row.EmbeddingSignature = update.Signature
				row.EmbeddingText = update.Text
				row.EmbeddingModel = update.Model
			}
		}
	}
	return nil
}

// keywordProvider maps texts to fixed unit vectors by keyword so similarity
// is predictable: related texts share an axis, unrelated texts barely align.
type keywordProvider struct {
	mu         sync.Mutex
	embedCalls int
	embedErr   error
}

func (p *keywordProvider) Embed(ctx context.Context, texts []string, normalize bool) ([][]float32, error) {
	p.mu.Lock()
	p.embedCalls++
	err := p.embedErr
	p.mu.Unlock()
	if err != nil {
		return nil, err
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = keywordVector(text)
	}
	return vectors, nil
}

func (p *keywordProvider) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.embedCalls
}

func (p *keywordProvider) ModelID() string { return "keyword-model" }
func (p *keywordProvider) Name() string    { return "keyword" }

func keywordVector(text string) []float32 {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "jardiner"):
		return []float32{1, 0, 0, 0, 0, 0}
	case strings.Contains(lower, "músic"):
		return []float32{0, 1, 0, 0, 0, 0}
	case strings.Contains(lower, "plan organizado"), strings.Contains(lower, "calendario definido"):
		return []float32{0, 0, 1, 0, 0, 0}
	case strings.Contains(lower, "aún no lo he estructurado"), strings.Contains(lower, "ordenarlas mejor"):
		return []float32{0, 0, 0, 1, 0, 0}
	case strings.Contains(lower, "necesito orientación"), strings.Contains(lower, "perdido"):
		return []float32{0, 0, 0, 0, 1, 0}
	default:
		return []float32{0.1, 0.1, 0.1, 0.1, 0.1, 0.1}
	}
}

func newTestClassifier(provider repository.EmbeddingClient) *Classifier {
	cache := embedding.NewCache(&mockInterestStore{}, provider, 300)
	return NewClassifier(provider, cache)
}

func TestSuggestInterestsMatchesCatalog(t *testing.T) {
	classifier := newTestClassifier(&keywordProvider{})

	suggestions, err := classifier.SuggestInterests(context.Background(), []string{"Me encanta la jardinería"}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(suggestions) != 1 {
		t.Fatalf("expected a single suggestion above the threshold, got %d", len(suggestions))
	}
	if suggestions[0].Name != "Jardinería" {
		t.Errorf("expected Jardinería, got %q", suggestions[0].Name)
	}
	if suggestions[0].Score != 1.0 {
		t.Errorf("expected score 1.0, got %v", suggestions[0].Score)
	}
	if suggestions[0].ID == 0 {
		t.Error("expected a seeded interest id")
	}
}

func TestSuggestInterestsEmptyAnswers(t *testing.T) {
	provider := &keywordProvider{}
	classifier := newTestClassifier(provider)

	suggestions, err := classifier.SuggestInterests(context.Background(), []string{"", "   "}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(suggestions) != 0 {
		t.Errorf("expected no suggestions for empty answers, got %d", len(suggestions))
	}
	if provider.calls() != 0 {
		t.Errorf("expected no provider call for empty answers, got %d", provider.calls())
	}
}

func TestSuggestInterestsNeverEmptyForWeakAnswers(t *testing.T) {
	classifier := newTestClassifier(&keywordProvider{})

	// A completely unrelated answer scores under the threshold everywhere,
	// but the best row is still returned.
	suggestions, err := classifier.SuggestInterests(context.Background(), []string{"asdf qwerty"}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(suggestions) != 1 {
		t.Fatalf("expected exactly the single best weak match, got %d", len(suggestions))
	}
	if suggestions[0].Score >= 0.33 {
		t.Errorf("expected a below-threshold score, got %v", suggestions[0].Score)
	}
}

func TestSuggestInterestsTakesBestAcrossAnswers(t *testing.T) {
	classifier := newTestClassifier(&keywordProvider{})

	suggestions, err := classifier.SuggestInterests(context.Background(),
		[]string{"Me gusta la música", "Cuidar mi jardinería"}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(suggestions) != 2 {
		t.Fatalf("expected two suggestions, got %d", len(suggestions))
	}
	names := map[string]bool{}
	for _, s := range suggestions {
		names[s.Name] = true
	}
	if !names["Jardinería"] {
		t.Error("expected Jardinería among the suggestions")
	}
}

func TestSuggestInterestsPropagatesProviderError(t *testing.T) {
	provider := &keywordProvider{embedErr: &repository.ConfigError{Reason: "missing key"}}
	classifier := newTestClassifier(provider)

	_, err := classifier.SuggestInterests(context.Background(), []string{"jardinería"}, 3)
	var configErr *repository.ConfigError
	if !errors.As(err, &configErr) {
		t.Errorf("expected ConfigError, got %v", err)
	}
}

func TestClassifyPreparationMatchesReferences(t *testing.T) {
	classifier := newTestClassifier(&keywordProvider{})

	cases := []struct {
		answer string
		want   domain.PreparationLevel
	}{
		{"Tengo un plan organizado para cada semana", domain.PreparationPlanned},
		{"Me siento perdido con mi tiempo libre", domain.PreparationDisoriented},
	}
	for _, tc := range cases {
		got, err := classifier.ClassifyPreparation(context.Background(), tc.answer)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", tc.answer, err)
		}
		if got != tc.want {
			t.Errorf("ClassifyPreparation(%q) = %q, want %q", tc.answer, got, tc.want)
		}
	}
}

func TestClassifyPreparationEmptyAnswer(t *testing.T) {
	provider := &keywordProvider{}
	classifier := newTestClassifier(provider)

	level, err := classifier.ClassifyPreparation(context.Background(), "   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if level != "" {
		t.Errorf("expected unset level for blank answer, got %q", level)
	}
	if provider.calls() != 0 {
		t.Errorf("expected no provider call for blank answer, got %d", provider.calls())
	}
}

func TestClassifyPreparationUnrelatedAnswerIsUnset(t *testing.T) {
	classifier := newTestClassifier(&keywordProvider{})

	level, err := classifier.ClassifyPreparation(context.Background(), "asdf qwerty")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if level != "" {
		t.Errorf("expected unset level for an unrelated answer, got %q", level)
	}
}

func TestClassifyPreparationMemoizesReferences(t *testing.T) {
	provider := &keywordProvider{}
	classifier := newTestClassifier(provider)

	if _, err := classifier.ClassifyPreparation(context.Background(), "tengo un plan organizado"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first := provider.calls()

	if _, err := classifier.ClassifyPreparation(context.Background(), "me siento perdido"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Only the answer embedding should be computed on the second call.
	if provider.calls() != first+1 {
		t.Errorf("expected references to be memoized, got %d calls after %d", provider.calls(), first)
	}
}

func TestAnalyzeCombinesSubOperations(t *testing.T) {
	classifier := newTestClassifier(&keywordProvider{})

	result, err := classifier.Analyze(context.Background(),
		[]string{"Me encanta la jardinería"},
		"Me siento perdido, necesito orientación",
		"Tengo movilidad baja",
		3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Interests) != 1 || result.Interests[0].Name != "Jardinería" {
		t.Errorf("unexpected interests: %+v", result.Interests)
	}
	if result.PreparationLevel != domain.PreparationDisoriented {
		t.Errorf("expected desorientado, got %q", result.PreparationLevel)
	}
	if result.MobilityLevel != domain.MobilityLow {
		t.Errorf("expected baja mobility, got %q", result.MobilityLevel)
	}
}

func TestAnalyzePropagatesProviderFailure(t *testing.T) {
	provider := &keywordProvider{embedErr: &repository.RequestError{Op: "embed", Err: errors.New("timeout")}}
	classifier := newTestClassifier(provider)

	_, err := classifier.Analyze(context.Background(), []string{"jardinería"}, "plan", "", 3)
	var reqErr *repository.RequestError
	if !errors.As(err, &reqErr) {
		t.Errorf("expected RequestError, got %v", err)
	}
}
