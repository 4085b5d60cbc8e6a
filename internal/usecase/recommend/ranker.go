// Package recommend ranks catalog activities against a user's interests and
// preparation level.
package recommend

import (
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/jubilgo/jubilgo-api/internal/catalog"
	"github.com/jubilgo/jubilgo-api/internal/domain"
)

// ScoredActivity is a catalog entry prepared for presentation.
type ScoredActivity struct {
	catalog.Activity
	Category      string  `json:"category,omitempty"`
	SuggestedTime string  `json:"suggested_time"`
	IsFallback    bool    `json:"is_fallback"`
	Score         float64 `json:"-"`
}

// Options tune a single ranking call.
type Options struct {
	// Limit caps the result length; values below 1 are treated as 1.
	Limit int
	// Categories filters candidates to the given category names,
	// matched by normalized token (diacritic-insensitive).
	Categories []string
	// TimeOfDay adds a small bonus to entries matching the preferred
	// daypart. Empty or "cualquiera" disables the bonus.
	TimeOfDay catalog.TimeOfDay
	// CategoryWeights is an optional learned bonus per category token,
	// added on top of the fixed scoring terms. Left nil by callers that
	// do not compose the preference model into ranking.
	CategoryWeights map[string]float64
	// ExcludeIDs drops specific catalog ids (e.g. reported activities)
	// before scoring.
	ExcludeIDs map[int]struct{}
	// Seed fixes the jitter source for reproducible ordering. Zero means
	// reseed from the clock, the normal mode.
	Seed int64
}

// Rank scores every catalog entry sharing at least one tag with the user's
// interests and returns the top entries, best first. It never returns an
// empty list: when nothing survives the filters, the fallback entry is
// returned alone.
func Rank(userInterests []string, level domain.PreparationLevel, opts Options) []ScoredActivity {
	names := make(map[string]bool, len(userInterests))
	for _, n := range userInterests {
		if cleaned := strings.TrimSpace(n); cleaned != "" {
			names[cleaned] = true
		}
	}

	var allowed map[string]bool
	if len(opts.Categories) > 0 {
		allowed = make(map[string]bool, len(opts.Categories))
		for _, c := range opts.Categories {
			if token := catalog.NormalizeToken(c); token != "" {
				allowed[token] = true
			}
		}
		if len(allowed) == 0 {
			allowed = nil
		}
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	var scored []ScoredActivity
	for _, a := range catalog.Atemporales {
		if _, excluded := opts.ExcludeIDs[a.ID]; excluded {
			continue
		}

		category := catalog.CategoryFor(a)
		if allowed != nil {
			token := catalog.NormalizeToken(category)
			if token == "" || !allowed[token] {
				continue
			}
		}

		overlap := 0
		for _, tag := range a.Tags {
			if names[tag] {
				overlap++
			}
		}
		if overlap == 0 {
			continue
		}

		score := float64(10 * overlap)
		score += float64(energyWeight(level, a.Energy))
		score += float64(durationWeight(level, a.DurationMin))
		if a.Cost == catalog.CostFree {
			score++
		}
		score += float64(timeWeight(opts.TimeOfDay, a.TimeOfDay))
		if level == domain.PreparationDisoriented && a.Indoor {
			score++
		}
		if opts.CategoryWeights != nil {
			score += opts.CategoryWeights[catalog.NormalizeToken(category)]
		}

		// Tie-breaking noise for variety across repeated calls.
		score += rng.Float64() - 0.5

		scored = append(scored, prepare(a, category, score, false))
	}

	if len(scored) == 0 {
		return []ScoredActivity{prepare(catalog.Fallback, catalog.CategoryFor(catalog.Fallback), 0, true)}
	}

	sort.Slice(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	limit := opts.Limit
	if limit < 1 {
		limit = 1
	}
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

func prepare(a catalog.Activity, category string, score float64, fallback bool) ScoredActivity {
	tags := make([]string, len(a.Tags))
	copy(tags, a.Tags)
	a.Tags = tags

	return ScoredActivity{
		Activity:      a,
		Category:      category,
		SuggestedTime: catalog.SuggestedTime(a.TimeOfDay),
		IsFallback:    fallback,
		Score:         score,
	}
}

func energyWeight(level domain.PreparationLevel, energy catalog.Energy) int {
	switch level {
	case domain.PreparationDisoriented:
		return map[catalog.Energy]int{catalog.EnergyLow: 4, catalog.EnergyMedium: 1, catalog.EnergyHigh: -3}[energy]
	case domain.PreparationIntermediate:
		return map[catalog.Energy]int{catalog.EnergyLow: 2, catalog.EnergyMedium: 3, catalog.EnergyHigh: 0}[energy]
	case domain.PreparationPlanned:
		return map[catalog.Energy]int{catalog.EnergyLow: 0, catalog.EnergyMedium: 2, catalog.EnergyHigh: 3}[energy]
	}
	return 0
}

func durationWeight(level domain.PreparationLevel, minutes int) int {
	switch level {
	case domain.PreparationDisoriented:
		if minutes <= 30 {
			return 1
		}
		if minutes > 45 {
			return -1
		}
		return 0
	case domain.PreparationIntermediate:
		if minutes >= 20 && minutes <= 60 {
			return 1
		}
	case domain.PreparationPlanned:
		if minutes >= 30 && minutes <= 90 {
			return 1
		}
	}
	return 0
}

func timeWeight(pref, tod catalog.TimeOfDay) int {
	if pref == "" || pref == catalog.AnyTime {
		return 0
	}
	if pref == tod {
		return 1
	}
	return 0
}
