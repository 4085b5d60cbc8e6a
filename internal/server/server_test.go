package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jubilgo/jubilgo-api/internal/database"
	"github.com/jubilgo/jubilgo-api/internal/database/models"
	"github.com/jubilgo/jubilgo-api/internal/domain/repository"
	"github.com/jubilgo/jubilgo-api/internal/embedding"
	"github.com/jubilgo/jubilgo-api/internal/usecase/classify"
	"github.com/jubilgo/jubilgo-api/internal/usecase/preferences"
)

// mockStore implements database.Store in memory.
type mockStore struct {
	interests []*models.Interest
	favorites []*models.ActivityFavorite
	history   []*models.ActivityHistoryEntry
	reports   []*models.ActivityReport
	users     map[string]*models.UserProfile
}

func newMockStore() *mockStore {
	return &mockStore{users: make(map[string]*models.UserProfile)}
}

func (m *mockStore) SeedInterests(ctx context.Context, rows []*models.Interest) error {
	m.interests = append(m.interests, rows...)
	return nil
}

func (m *mockStore) ListInterests(ctx context.Context) ([]*models.Interest, error) {
	return m.interests, nil
}

func (m *mockStore) SaveInterestEmbeddings(ctx context.Context, updates []*models.InterestEmbeddingUpdate) error {
	for _, update := range updates {
		for _, row := range m.interests {
			if row.ID == update.InterestID {
				row.Embedding = update.Vector
				row.EmbeddingSignature = update.Signature
			}
		}
	}
	return nil
}

func (m *mockStore) ListFavorites(ctx context.Context, uid, activityType string) ([]*models.ActivityFavorite, error) {
	return m.favorites, nil
}

func (m *mockStore) ListHistory(ctx context.Context, uid, activityType string, limit int) ([]*models.ActivityHistoryEntry, error) {
	return m.history, nil
}

func (m *mockStore) ListReports(ctx context.Context, uid string) ([]*models.ActivityReport, error) {
	var out []*models.ActivityReport
	for _, r := range m.reports {
		if r.UID == uid {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockStore) AddFavorite(ctx context.Context, fav *models.ActivityFavorite) error {
	m.favorites = append(m.favorites, fav)
	return nil
}

func (m *mockStore) AddHistoryEntry(ctx context.Context, entry *models.ActivityHistoryEntry) error {
	m.history = append(m.history, entry)
	return nil
}

func (m *mockStore) UpsertReport(ctx context.Context, report *models.ActivityReport) error {
	for i, existing := range m.reports {
		if existing.UID == report.UID && existing.ActivityType == report.ActivityType && existing.ActivityID == report.ActivityID {
			m.reports[i] = report
			return nil
		}
	}
	m.reports = append(m.reports, report)
	return nil
}

func (m *mockStore) DeleteReport(ctx context.Context, uid, activityType, activityID string) error {
	for i, existing := range m.reports {
		if existing.UID == uid && existing.ActivityType == activityType && existing.ActivityID == activityID {
			m.reports = append(m.reports[:i], m.reports[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockStore) GetUser(ctx context.Context, uid string) (*models.UserProfile, error) {
	user, ok := m.users[uid]
	if !ok {
		return nil, database.ErrNotFound
	}
	return user, nil
}

func (m *mockStore) SaveUserAttributes(ctx context.Context, uid string, attrs database.UserAttributes) error {
	user, ok := m.users[uid]
	if !ok {
		user = &models.UserProfile{UID: uid}
		m.users[uid] = user
	}
	if len(attrs.Interests) > 0 {
		user.Interests = attrs.Interests
	}
	if attrs.PreparationLevel != "" {
		user.PreparationLevel = attrs.PreparationLevel
	}
	if attrs.MobilityLevel != "" {
		user.MobilityLevel = attrs.MobilityLevel
	}
	return nil
}

func (m *mockStore) Close() error { return nil }

// brokenProvider always fails with a configuration error.
type brokenProvider struct{}

func (brokenProvider) Embed(ctx context.Context, texts []string, normalize bool) ([][]float32, error) {
	return nil, &repository.ConfigError{Reason: "missing api key"}
}
func (brokenProvider) ModelID() string { return "broken" }
func (brokenProvider) Name() string    { return "broken" }

func newTestServer(store *mockStore) *Server {
	cache := embedding.NewCache(store, brokenProvider{}, 300)
	classifier := classify.NewClassifier(brokenProvider{}, cache)
	learner := preferences.NewLearner(store, 0)
	return NewServer(store, classifier, learner)
}

func TestHandlersRequireUserID(t *testing.T) {
	ts := httptest.NewServer(newTestServer(newMockStore()).RegisterRoutes())
	defer ts.Close()

	endpoints := []struct {
		method string
		path   string
	}{
		{"POST", "/ai/questionnaire"},
		{"GET", "/recommendations/atemporales"},
		{"GET", "/recommendations/preferences"},
		{"POST", "/activities/1/report"},
		{"DELETE", "/activities/1/report"},
		{"GET", "/activities/reports"},
	}
	for _, ep := range endpoints {
		req, _ := http.NewRequest(ep.method, ts.URL+ep.path, strings.NewReader("{}"))
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("%s %s: %v", ep.method, ep.path, err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s %s without X-User-ID: expected 400, got %d", ep.method, ep.path, resp.StatusCode)
		}
	}
}

func TestQuestionnaireInvalidPayload(t *testing.T) {
	ts := httptest.NewServer(newTestServer(newMockStore()).RegisterRoutes())
	defer ts.Close()

	req, _ := http.NewRequest("POST", ts.URL+"/ai/questionnaire", strings.NewReader("{invalid"))
	req.Header.Set("X-User-ID", "u1")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400 for invalid payload, got %d", resp.StatusCode)
	}
}

func TestQuestionnaireConfigErrorMapsTo503(t *testing.T) {
	ts := httptest.NewServer(newTestServer(newMockStore()).RegisterRoutes())
	defer ts.Close()

	body, _ := json.Marshal(QuestionnaireRequest{
		InterestAnswers:   []string{"me gusta caminar"},
		PreparationAnswer: "tengo un plan",
	})
	req, _ := http.NewRequest("POST", ts.URL+"/ai/questionnaire", bytes.NewReader(body))
	req.Header.Set("X-User-ID", "u1")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 for provider config error, got %d", resp.StatusCode)
	}
}

func TestReportLifecycle(t *testing.T) {
	store := newMockStore()
	ts := httptest.NewServer(newTestServer(store).RegisterRoutes())
	defer ts.Close()

	// Report catalog activity 1; metadata is backfilled from the catalog.
	req, _ := http.NewRequest("POST", ts.URL+"/activities/1/report", strings.NewReader(`{"reason":"no me interesa"}`))
	req.Header.Set("X-User-ID", "u1")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 reporting activity, got %d", resp.StatusCode)
	}

	if len(store.reports) != 1 {
		t.Fatalf("expected one stored report, got %d", len(store.reports))
	}
	stored := store.reports[0]
	if stored.Title == "" || stored.Emoji == "" || stored.Category == "" {
		t.Errorf("expected catalog metadata backfill, got %+v", stored)
	}
	if stored.Reason != "no me interesa" {
		t.Errorf("expected stored reason, got %q", stored.Reason)
	}

	// Listing returns it.
	req, _ = http.NewRequest("GET", ts.URL+"/activities/reports", nil)
	req.Header.Set("X-User-ID", "u1")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	var listing struct {
		Reports []*models.ActivityReport `json:"reports"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		t.Fatalf("Failed to decode listing: %v", err)
	}
	_ = resp.Body.Close()
	if len(listing.Reports) != 1 {
		t.Fatalf("expected one listed report, got %d", len(listing.Reports))
	}

	// Deleting clears it.
	req, _ = http.NewRequest("DELETE", ts.URL+"/activities/1/report", nil)
	req.Header.Set("X-User-ID", "u1")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 deleting report, got %d", resp.StatusCode)
	}
	if len(store.reports) != 0 {
		t.Errorf("expected report removed, got %d left", len(store.reports))
	}
}

func TestAtemporalesExcludesReportedActivities(t *testing.T) {
	store := newMockStore()
	store.users["u1"] = &models.UserProfile{
		UID:              "u1",
		Interests:        models.StringList{"Caminatas / trekking"},
		PreparationLevel: "desorientado",
	}
	store.reports = append(store.reports, &models.ActivityReport{
		UID: "u1", ActivityType: "atemporal", ActivityID: "1", Category: "Física",
	})

	ts := httptest.NewServer(newTestServer(store).RegisterRoutes())
	defer ts.Close()

	req, _ := http.NewRequest("GET", ts.URL+"/recommendations/atemporales?limit=10", nil)
	req.Header.Set("X-User-ID", "u1")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	var payload struct {
		Activities []struct {
			ID         int  `json:"id"`
			IsFallback bool `json:"is_fallback"`
		} `json:"activities"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("Failed to decode payload: %v", err)
	}
	_ = resp.Body.Close()

	if len(payload.Activities) == 0 {
		t.Fatal("expected at least one recommendation")
	}
	for _, a := range payload.Activities {
		if a.ID == 1 {
			t.Error("reported activity 1 leaked into recommendations")
		}
	}
}

func TestAtemporalesUnknownUserGetsFallback(t *testing.T) {
	ts := httptest.NewServer(newTestServer(newMockStore()).RegisterRoutes())
	defer ts.Close()

	req, _ := http.NewRequest("GET", ts.URL+"/recommendations/atemporales", nil)
	req.Header.Set("X-User-ID", "nobody")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	var payload struct {
		Activities []struct {
			IsFallback bool `json:"is_fallback"`
		} `json:"activities"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("Failed to decode payload: %v", err)
	}
	_ = resp.Body.Close()

	if len(payload.Activities) != 1 || !payload.Activities[0].IsFallback {
		t.Errorf("expected the single fallback entry for an unknown user, got %+v", payload.Activities)
	}
}

func TestPreferencesEndpointExposesProfile(t *testing.T) {
	store := newMockStore()
	for i := 0; i < 3; i++ {
		store.favorites = append(store.favorites, &models.ActivityFavorite{
			UID: "u1", ActivityType: "atemporal", ActivityID: "12", Category: "Social",
		})
	}

	ts := httptest.NewServer(newTestServer(store).RegisterRoutes())
	defer ts.Close()

	req, _ := http.NewRequest("GET", ts.URL+"/recommendations/preferences", nil)
	req.Header.Set("X-User-ID", "u1")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	var payload struct {
		Weights map[string]float64 `json:"weights"`
		Labels  map[string]string  `json:"labels"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("Failed to decode payload: %v", err)
	}
	_ = resp.Body.Close()

	if payload.Weights["social"] <= 0 {
		t.Errorf("expected a positive social weight, got %v", payload.Weights["social"])
	}
	if payload.Labels["social"] != "Social" {
		t.Errorf("expected Social label, got %q", payload.Labels["social"])
	}
}
