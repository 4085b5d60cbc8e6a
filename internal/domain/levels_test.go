package domain

import (
	"errors"
	"testing"
)

func TestParsePreparationLevel(t *testing.T) {
	valid := []string{"planificado", "intermedio", "desorientado"}
	for _, raw := range valid {
		level, err := ParsePreparationLevel(raw)
		if err != nil {
			t.Errorf("ParsePreparationLevel(%q) returned error: %v", raw, err)
		}
		if string(level) != raw {
			t.Errorf("ParsePreparationLevel(%q) = %q", raw, level)
		}
	}
}

func TestParsePreparationLevelEmptyIsUnset(t *testing.T) {
	level, err := ParsePreparationLevel("  ")
	if err != nil {
		t.Fatalf("expected empty input to be unset, got error %v", err)
	}
	if level != "" {
		t.Errorf("expected unset level, got %q", level)
	}
}

func TestParsePreparationLevelRejectsInvalid(t *testing.T) {
	_, err := ParsePreparationLevel("avanzado")
	if err == nil {
		t.Fatal("expected a validation error for an unknown level")
	}
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("expected ValidationError, got %T", err)
	}
}

func TestParseMobilityLevelNormalizesCase(t *testing.T) {
	cases := map[string]MobilityLevel{
		"baja":   MobilityLow,
		" Media": MobilityMedium,
		"ALTA":   MobilityHigh,
	}
	for raw, want := range cases {
		level, err := ParseMobilityLevel(raw)
		if err != nil {
			t.Errorf("ParseMobilityLevel(%q) returned error: %v", raw, err)
		}
		if level != want {
			t.Errorf("ParseMobilityLevel(%q) = %q, want %q", raw, level, want)
		}
	}
}

func TestParseMobilityLevelRejectsInvalid(t *testing.T) {
	if _, err := ParseMobilityLevel("regular"); err == nil {
		t.Error("expected a validation error for an unknown mobility level")
	}
}
