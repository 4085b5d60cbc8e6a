// Package domain defines the core value types shared across the service.
package domain

import (
	"fmt"
	"strings"
)

// PreparationLevel is the user's self-reported retirement planning stage.
// The zero value means "unset".
type PreparationLevel string

// Preparation level constants. The wire values are the Spanish tokens the
// mobile clients send and store.
const (
	PreparationPlanned      PreparationLevel = "planificado"
	PreparationIntermediate PreparationLevel = "intermedio"
	PreparationDisoriented  PreparationLevel = "desorientado"
)

// MobilityLevel is the user's self-reported physical mobility.
// The zero value means "unset".
type MobilityLevel string

// Mobility level constants.
const (
	MobilityLow    MobilityLevel = "baja"
	MobilityMedium MobilityLevel = "media"
	MobilityHigh   MobilityLevel = "alta"
)

// ValidationError reports an enum value rejected at a boundary.
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Field, e.Value)
}

// ParsePreparationLevel validates a preparation level at a boundary.
// Empty input maps to the unset level; anything outside the closed enum is
// rejected, never coerced.
func ParsePreparationLevel(raw string) (PreparationLevel, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	switch PreparationLevel(raw) {
	case PreparationPlanned, PreparationIntermediate, PreparationDisoriented:
		return PreparationLevel(raw), nil
	}
	return "", &ValidationError{Field: "preparation_level", Value: raw}
}

// ParseMobilityLevel validates a mobility level at a boundary. Unlike
// preparation levels, mobility input is case-insensitive because it may come
// straight from questionnaire text.
func ParseMobilityLevel(raw string) (MobilityLevel, error) {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	if cleaned == "" {
		return "", nil
	}
	switch MobilityLevel(cleaned) {
	case MobilityLow, MobilityMedium, MobilityHigh:
		return MobilityLevel(cleaned), nil
	}
	return "", &ValidationError{Field: "mobility_level", Value: raw}
}
