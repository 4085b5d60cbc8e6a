// Package preferences learns per-category weights from a user's behavioral
// history: favorites, completed activities, ratings and reports.
package preferences

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/jubilgo/jubilgo-api/internal/catalog"
	"github.com/jubilgo/jubilgo-api/internal/database"
	"github.com/jubilgo/jubilgo-api/internal/database/models"
	"golang.org/x/sync/errgroup"
)

const activityTypeAtemporal = "atemporal"

// noiseFloor drops categories whose accumulated weight is too weak to act on.
const noiseFloor = 0.25

// Profile is the computed per-category preference view for one user. It is
// rebuilt fresh per request and never persisted.
type Profile struct {
	// Weights maps normalized category tokens to learned weights.
	Weights map[string]float64 `json:"weights"`
	// Labels maps tokens back to a display name seen in the data.
	Labels map[string]string `json:"labels"`
	// ReportedActivityIDs are the catalog ids the user reported, for
	// exclusion by the ranking/presentation layer.
	ReportedActivityIDs map[int]struct{} `json:"-"`
}

// WeightFor returns the learned weight for a category name, 0 when unknown.
func (p *Profile) WeightFor(category string) float64 {
	token := catalog.NormalizeToken(category)
	if token == "" {
		return 0
	}
	return p.Weights[token]
}

// Learner aggregates behavioral signals into category preference profiles.
type Learner struct {
	store        database.BehaviorRepository
	historyLimit int
}

func NewLearner(store database.BehaviorRepository, historyLimit int) *Learner {
	if historyLimit <= 0 {
		historyLimit = 120
	}
	return &Learner{store: store, historyLimit: historyLimit}
}

// Learn builds the preference profile for a user. Malformed rows are skipped
// individually; only store I/O failures surface as errors.
func (l *Learner) Learn(ctx context.Context, uid string) (*Profile, error) {
	var (
		favorites []*models.ActivityFavorite
		history   []*models.ActivityHistoryEntry
		reports   []*models.ActivityReport
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		favorites, err = l.store.ListFavorites(gctx, uid, activityTypeAtemporal)
		return err
	})
	g.Go(func() error {
		var err error
		history, err = l.store.ListHistory(gctx, uid, activityTypeAtemporal, l.historyLimit)
		return err
	})
	g.Go(func() error {
		var err error
		reports, err = l.store.ListReports(gctx, uid)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	weights := make(map[string]float64)
	labels := make(map[string]string)
	reportedIDs := make(map[int]struct{})

	favoriteCounts := make(map[string]int)
	for _, fav := range favorites {
		category := resolveCategory(fav.Category, fav.ActivityID, fav.Tags)
		if token := catalog.NormalizeToken(category); token != "" {
			favoriteCounts[token]++
			rememberLabel(labels, token, category)
		}
	}
	for token, count := range favoriteCounts {
		weights[token] += favoriteWeight(count)
	}

	historyCounts := make(map[string]int)
	for _, entry := range history {
		category := resolveCategory(entry.Category, entry.ActivityID, entry.Tags)
		token := catalog.NormalizeToken(category)
		if token == "" {
			continue
		}
		historyCounts[token]++
		rememberLabel(labels, token, category)

		// Each valid rating contributes its fixed delta, no saturation.
		if entry.Rating >= 1 && entry.Rating <= 5 {
			weights[token] += ratingAdjustment(entry.Rating)
		}
	}
	for token, count := range historyCounts {
		weights[token] += historyWeight(count)
	}

	reportCounts := make(map[string]int)
	for _, report := range reports {
		category := report.Category
		if report.ActivityType == activityTypeAtemporal {
			if id, ok := atemporalNumericID(report.ActivityID); ok {
				reportedIDs[id] = struct{}{}
				if category == "" {
					if entry, found := catalog.ByID(id); found {
						category = catalog.CategoryFor(entry)
					}
				}
			}
		}
		if token := catalog.NormalizeToken(category); token != "" {
			reportCounts[token]++
			rememberLabel(labels, token, category)
		}
	}
	for token, count := range reportCounts {
		weights[token] -= penaltyWeight(count)
	}

	normalized := make(map[string]float64, len(weights))
	for token, value := range weights {
		if math.Abs(value) < noiseFloor {
			continue
		}
		normalized[token] = math.Round(value*1000) / 1000
	}

	return &Profile{
		Weights:             normalized,
		Labels:              labels,
		ReportedActivityIDs: reportedIDs,
	}, nil
}

func rememberLabel(labels map[string]string, token, category string) {
	if _, seen := labels[token]; seen {
		return
	}
	if cleaned := strings.TrimSpace(category); cleaned != "" {
		labels[token] = cleaned
	}
}

// resolveCategory prefers an explicitly stored category, then the derived
// category of the referenced catalog entry, then the first listed tag.
func resolveCategory(explicit, activityID string, tags []string) string {
	if cleaned := strings.TrimSpace(explicit); cleaned != "" {
		return cleaned
	}
	if id, ok := atemporalNumericID(activityID); ok {
		if entry, found := catalog.ByID(id); found {
			if category := catalog.CategoryFor(entry); category != "" {
				return category
			}
		}
	}
	for _, tag := range tags {
		if cleaned := strings.TrimSpace(tag); cleaned != "" {
			return cleaned
		}
	}
	return ""
}

// atemporalNumericID extracts the numeric catalog id from a stored activity
// reference, tolerating historical "atemporal-<id>" style prefixes.
func atemporalNumericID(raw string) (int, bool) {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return 0, false
	}
	for _, prefix := range []string{"atemporal-", "atemporal_", "atemporal::", "atemporal "} {
		if strings.HasPrefix(text, prefix) {
			text = text[len(prefix):]
			break
		}
	}
	text = strings.TrimPrefix(text, "atemporal")
	text = strings.Trim(text, ":_- ")
	id, err := strconv.Atoi(text)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Saturating transforms bound the influence of power users.

func favoriteWeight(count int) float64 {
	return math.Min(8.0, 3.0+2.5*math.Log(float64(count)+1))
}

func historyWeight(count int) float64 {
	return math.Min(5.0, 1.5+1.5*math.Log(float64(count)+1))
}

func penaltyWeight(count int) float64 {
	return math.Min(9.0, 3.0+3.0*math.Log(float64(count)+1))
}

func ratingAdjustment(rating int) float64 {
	switch {
	case rating >= 5:
		return 3.0
	case rating == 4:
		return 1.5
	case rating == 3:
		return 0.5
	case rating == 2:
		return -1.5
	default:
		return -3.0
	}
}
