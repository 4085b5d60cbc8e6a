// Package server exposes the recommendation and classification core over
// HTTP. Authentication is handled upstream; handlers trust the X-User-ID
// header set by the gateway.
package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/jubilgo/jubilgo-api/internal/catalog"
	"github.com/jubilgo/jubilgo-api/internal/database"
	"github.com/jubilgo/jubilgo-api/internal/database/models"
	"github.com/jubilgo/jubilgo-api/internal/domain"
	"github.com/jubilgo/jubilgo-api/internal/domain/repository"
	"github.com/jubilgo/jubilgo-api/internal/usecase/classify"
	"github.com/jubilgo/jubilgo-api/internal/usecase/preferences"
	"github.com/jubilgo/jubilgo-api/internal/usecase/recommend"
)

const activityTypeAtemporal = "atemporal"

// Server holds the dependencies for the HTTP API server.
type Server struct {
	store      database.Store
	classifier *classify.Classifier
	learner    *preferences.Learner
}

// NewServer initializes a new API server with the required dependencies.
func NewServer(store database.Store, classifier *classify.Classifier, learner *preferences.Learner) *Server {
	return &Server{
		store:      store,
		classifier: classifier,
		learner:    learner,
	}
}

// RegisterRoutes registers all API endpoints with a new ServeMux.
func (s *Server) RegisterRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Go 1.22+ supports HTTP method routing directly in ServeMux
	mux.HandleFunc("POST /ai/questionnaire", s.handleQuestionnaire)
	mux.HandleFunc("GET /recommendations/atemporales", s.handleAtemporales)
	mux.HandleFunc("GET /recommendations/preferences", s.handlePreferences)
	mux.HandleFunc("POST /activities/{id}/report", s.handleReportActivity)
	mux.HandleFunc("DELETE /activities/{id}/report", s.handleUnreportActivity)
	mux.HandleFunc("GET /activities/reports", s.handleListReports)

	return mux
}

type QuestionnaireRequest struct {
	InterestAnswers   []string `json:"interest_answers"`
	PreparationAnswer string   `json:"preparation_answer"`
	MobilityAnswer    string   `json:"mobility_answer"`
	TopK              int      `json:"top_k"`
	Store             bool     `json:"store"`
}

func (s *Server) handleQuestionnaire(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		http.Error(w, "X-User-ID header is required", http.StatusBadRequest)
		return
	}

	var req QuestionnaireRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if req.TopK <= 0 {
		req.TopK = 5
	}

	result, err := s.classifier.Analyze(r.Context(), req.InterestAnswers, req.PreparationAnswer, req.MobilityAnswer, req.TopK)
	if err != nil {
		writeProviderError(w, "questionnaire analysis", err)
		return
	}

	applied := false
	if req.Store {
		attrs := database.UserAttributes{
			PreparationLevel: string(result.PreparationLevel),
			MobilityLevel:    string(result.MobilityLevel),
		}
		for _, suggestion := range result.Interests {
			attrs.Interests = append(attrs.Interests, suggestion.Name)
			attrs.InterestIDs = append(attrs.InterestIDs, suggestion.ID)
		}
		if err := s.store.SaveUserAttributes(r.Context(), uid, attrs); err != nil {
			log.Printf("[Server] Failed to persist attributes for %s: %v", uid, err)
			http.Error(w, "Failed to persist questionnaire results", http.StatusInternalServerError)
			return
		}
		applied = true
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"interests":         result.Interests,
		"preparation_level": emptyAsNull(string(result.PreparationLevel)),
		"mobility_level":    emptyAsNull(string(result.MobilityLevel)),
		"applied":           applied,
	})
}

func (s *Server) handleAtemporales(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		http.Error(w, "X-User-ID header is required", http.StatusBadRequest)
		return
	}

	opts := recommend.Options{Limit: queryInt(r, "limit", 10)}
	if tod := strings.TrimSpace(r.URL.Query().Get("tod")); tod != "" {
		opts.TimeOfDay = catalog.TimeOfDay(strings.ToLower(tod))
	}
	if raw := r.URL.Query().Get("categories"); raw != "" {
		for _, category := range strings.Split(raw, ",") {
			if cleaned := strings.TrimSpace(category); cleaned != "" {
				opts.Categories = append(opts.Categories, cleaned)
			}
		}
	}

	interests, level := s.userAttributes(r, uid)

	// Reported activities are excluded even when the rest of the profile
	// cannot be computed.
	if profile, err := s.learner.Learn(r.Context(), uid); err != nil {
		log.Printf("[Server] Preference profile unavailable for %s: %v", uid, err)
	} else {
		opts.ExcludeIDs = profile.ReportedActivityIDs
	}

	ranked := recommend.Rank(interests, level, opts)
	writeJSON(w, http.StatusOK, map[string]any{"activities": ranked})
}

func (s *Server) handlePreferences(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		http.Error(w, "X-User-ID header is required", http.StatusBadRequest)
		return
	}

	profile, err := s.learner.Learn(r.Context(), uid)
	if err != nil {
		log.Printf("[Server] Failed to learn preferences for %s: %v", uid, err)
		http.Error(w, "Failed to compute preference profile", http.StatusInternalServerError)
		return
	}

	reported := make([]int, 0, len(profile.ReportedActivityIDs))
	for id := range profile.ReportedActivityIDs {
		reported = append(reported, id)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"weights":               profile.Weights,
		"labels":                profile.Labels,
		"reported_activity_ids": reported,
	})
}

type ReportRequest struct {
	Reason string `json:"reason,omitempty"`
}

func (s *Server) handleReportActivity(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		http.Error(w, "X-User-ID header is required", http.StatusBadRequest)
		return
	}
	activityID := r.PathValue("id")
	if activityID == "" {
		http.Error(w, "Activity ID required", http.StatusBadRequest)
		return
	}

	var req ReportRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req) // reason is optional
	}

	report := &models.ActivityReport{
		UID:          uid,
		ActivityType: activityTypeAtemporal,
		ActivityID:   activityID,
		Reason:       strings.TrimSpace(req.Reason),
	}
	// Backfill presentation metadata from the catalog when the id resolves.
	if numeric, err := strconv.Atoi(activityID); err == nil {
		if entry, found := catalog.ByID(numeric); found {
			report.Title = entry.Title
			report.Emoji = entry.Emoji
			report.Category = catalog.CategoryFor(entry)
		}
	}

	if err := s.store.UpsertReport(r.Context(), report); err != nil {
		log.Printf("[Server] Failed to save report for %s/%s: %v", uid, activityID, err)
		http.Error(w, "Failed to save report", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reported": true, "activity_id": activityID})
}

func (s *Server) handleUnreportActivity(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		http.Error(w, "X-User-ID header is required", http.StatusBadRequest)
		return
	}
	activityID := r.PathValue("id")
	if activityID == "" {
		http.Error(w, "Activity ID required", http.StatusBadRequest)
		return
	}

	if err := s.store.DeleteReport(r.Context(), uid, activityTypeAtemporal, activityID); err != nil {
		log.Printf("[Server] Failed to delete report for %s/%s: %v", uid, activityID, err)
		http.Error(w, "Failed to delete report", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reported": false, "activity_id": activityID})
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		http.Error(w, "X-User-ID header is required", http.StatusBadRequest)
		return
	}

	reports, err := s.store.ListReports(r.Context(), uid)
	if err != nil {
		log.Printf("[Server] Failed to list reports for %s: %v", uid, err)
		http.Error(w, "Failed to list reports", http.StatusInternalServerError)
		return
	}
	if reports == nil {
		reports = []*models.ActivityReport{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": reports})
}

// userAttributes loads the stored interests and preparation level, degrading
// to an empty profile for unknown users.
func (s *Server) userAttributes(r *http.Request, uid string) ([]string, domain.PreparationLevel) {
	user, err := s.store.GetUser(r.Context(), uid)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			log.Printf("[Server] Failed to load user %s: %v", uid, err)
		}
		return nil, ""
	}
	level, err := domain.ParsePreparationLevel(user.PreparationLevel)
	if err != nil {
		// Stored garbage is treated as unset rather than refusing to rank.
		level = ""
	}
	return user.Interests, level
}

func userID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-User-ID"))
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// writeProviderError maps the embedding error taxonomy onto HTTP statuses:
// configuration problems are service-unavailable, exhausted transient
// failures are upstream failures.
func writeProviderError(w http.ResponseWriter, op string, err error) {
	var configErr *repository.ConfigError
	if errors.As(err, &configErr) {
		log.Printf("[Server] %s unavailable: %v", op, err)
		http.Error(w, "Embedding provider is not configured", http.StatusServiceUnavailable)
		return
	}
	var requestErr *repository.RequestError
	if errors.As(err, &requestErr) {
		log.Printf("[Server] %s upstream failure: %v", op, err)
		http.Error(w, "Embedding provider request failed", http.StatusBadGateway)
		return
	}
	log.Printf("[Server] %s failed: %v", op, err)
	http.Error(w, "Internal error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func emptyAsNull(value string) any {
	if value == "" {
		return nil
	}
	return value
}
