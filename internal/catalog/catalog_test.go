package catalog

import "testing"

func TestNormalizeToken(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Física", "fisica"},
		{"  Cognitiva  ", "cognitiva"},
		{"Música (escuchar)", "musica (escuchar)"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range cases {
		if got := NormalizeToken(tc.in); got != tc.want {
			t.Errorf("NormalizeToken(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCatalogIDsAreUnique(t *testing.T) {
	seen := make(map[int]bool)
	for _, a := range Atemporales {
		if seen[a.ID] {
			t.Errorf("duplicate activity id %d", a.ID)
		}
		seen[a.ID] = true
		if len(a.Tags) == 0 {
			t.Errorf("activity %d has no tags", a.ID)
		}
		if a.DurationMin <= 0 {
			t.Errorf("activity %d has non-positive duration", a.ID)
		}
	}
}

func TestCategoryForDerivesFromIDTable(t *testing.T) {
	walk, ok := ByID(1)
	if !ok {
		t.Fatal("expected activity 1 in the catalog")
	}
	if got := CategoryFor(walk); got != "Física" {
		t.Errorf("expected activity 1 category Física, got %q", got)
	}
}

func TestCategoryForFallsBackToFirstTag(t *testing.T) {
	a := Activity{ID: 999, Tags: []string{"Voluntariado", "Otro"}}
	if got := CategoryFor(a); got != "Voluntariado" {
		t.Errorf("expected first tag as category, got %q", got)
	}
}

func TestCategoryForPrefersExplicit(t *testing.T) {
	a := Activity{ID: 1, Category: "Especial", Tags: []string{"Caminatas / trekking"}}
	if got := CategoryFor(a); got != "Especial" {
		t.Errorf("expected explicit category, got %q", got)
	}
}

func TestSuggestedTime(t *testing.T) {
	cases := []struct {
		tod  TimeOfDay
		want string
	}{
		{Morning, "10:00"},
		{Afternoon, "16:00"},
		{Evening, "19:00"},
		{AnyTime, "16:00"},
		{TimeOfDay("desconocido"), "16:00"},
	}
	for _, tc := range cases {
		if got := SuggestedTime(tc.tod); got != tc.want {
			t.Errorf("SuggestedTime(%q) = %q, want %q", tc.tod, got, tc.want)
		}
	}
}

func TestFallbackEntry(t *testing.T) {
	if Fallback.ID != -1 {
		t.Errorf("expected fallback id -1, got %d", Fallback.ID)
	}
}

func TestBaseInterestsHaveCategories(t *testing.T) {
	if len(BaseInterests) == 0 {
		t.Fatal("base interest catalog is empty")
	}
	names := make(map[string]bool)
	for _, interest := range BaseInterests {
		if interest.Name == "" || interest.Category == "" {
			t.Errorf("interest %+v is missing name or category", interest)
		}
		if names[interest.Name] {
			t.Errorf("duplicate interest name %q", interest.Name)
		}
		names[interest.Name] = true
	}
}
