package classify

import (
	"strings"

	"github.com/jubilgo/jubilgo-api/internal/catalog"
	"github.com/jubilgo/jubilgo-api/internal/domain"
)

// mobilityOrder fixes the tie-breaking order for phrase matching.
var mobilityOrder = []domain.MobilityLevel{
	domain.MobilityLow,
	domain.MobilityMedium,
	domain.MobilityHigh,
}

// mobilityTokens maps single answer tokens straight to a level. An exact
// token hit is the highest-confidence path and short-circuits everything.
var mobilityTokens = map[string]domain.MobilityLevel{
	"baja":      domain.MobilityLow,
	"limitada":  domain.MobilityLow,
	"reducida":  domain.MobilityLow,
	"media":     domain.MobilityMedium,
	"moderada":  domain.MobilityMedium,
	"normal":    domain.MobilityMedium,
	"alta":      domain.MobilityHigh,
	"buena":     domain.MobilityHigh,
	"excelente": domain.MobilityHigh,
}

// mobilityKeywords are the curated phrases scored when neither a direct
// token nor a "movilidad <nivel>" phrase matches. Phrases are stored
// pre-normalized (no diacritics, lower case).
var mobilityKeywords = map[domain.MobilityLevel][]string{
	domain.MobilityLow: {
		"silla de ruedas",
		"uso baston",
		"uso andador",
		"me cuesta caminar",
		"no puedo caminar",
		"poca movilidad",
		"con dificultad",
	},
	domain.MobilityMedium: {
		"me canso",
		"distancias cortas",
		"algo de ayuda",
		"a mi ritmo",
		"con pausas",
	},
	domain.MobilityHigh: {
		"sin problemas",
		"sin limitaciones",
		"camino bien",
		"hago deporte",
		"muy activo",
		"muy activa",
		"largas caminatas",
	},
}

// ClassifyMobility maps a free-text mobility answer to a level using lexical
// matching only. Unclassifiable answers return the empty level.
func ClassifyMobility(answer string) domain.MobilityLevel {
	text := catalog.NormalizeText(answer)
	if text == "" {
		return ""
	}

	for _, token := range strings.Fields(text) {
		if level, ok := mobilityTokens[strings.Trim(token, ".,;:!?")]; ok {
			return level
		}
	}

	for _, level := range mobilityOrder {
		if strings.Contains(text, "movilidad "+string(level)) {
			return level
		}
	}

	var bestLevel domain.MobilityLevel
	bestScore, runnerUp := 0, 0
	for _, level := range mobilityOrder {
		score := 0
		for _, phrase := range mobilityKeywords[level] {
			score += 2 * strings.Count(text, phrase)
		}
		switch {
		case score > bestScore:
			runnerUp = bestScore
			bestScore = score
			bestLevel = level
		case score > runnerUp:
			runnerUp = score
		}
	}
	// A strict winner is required; ties and all-zero stay unclassified.
	if bestScore == 0 || bestScore == runnerUp {
		return ""
	}
	return bestLevel
}
