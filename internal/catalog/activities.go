// Package catalog holds the deploy-time activity and interest catalogs.
// Entries are immutable at runtime; category is always derived, never stored
// redundantly on the entry itself.
package catalog

import "strings"

// Energy is the exertion level of an activity.
type Energy string

// Energy constants (wire values in Spanish, matching client payloads).
const (
	EnergyLow    Energy = "baja"
	EnergyMedium Energy = "media"
	EnergyHigh   Energy = "alta"
)

// Cost is the rough monetary cost of an activity.
type Cost string

const (
	CostFree   Cost = "gratis"
	CostLow    Cost = "bajo"
	CostMedium Cost = "medio"
	CostHigh   Cost = "alto"
)

// TimeOfDay is the preferred daypart of an activity.
type TimeOfDay string

const (
	Morning   TimeOfDay = "manana"
	Afternoon TimeOfDay = "tarde"
	Evening   TimeOfDay = "noche"
	AnyTime   TimeOfDay = "cualquiera"
)

// Activity is a timeless (non-scheduled) activity template.
type Activity struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Emoji       string    `json:"emoji"`
	Tags        []string  `json:"tags"`
	Indoor      bool      `json:"indoor"`
	Energy      Energy    `json:"energy"`
	DurationMin int       `json:"duration_min"`
	Cost        Cost      `json:"cost"`
	TimeOfDay   TimeOfDay `json:"time_of_day"`

	// Category is only set on entries that carry an explicit category;
	// use CategoryFor to resolve the effective one.
	Category string `json:"-"`
}

// Atemporales is the static activity catalog. Tags must match interest names
// from BaseInterests.
var Atemporales = []Activity{
	{ID: 1, Title: "Caminata ligera por tu sector", Emoji: "🚶", Tags: []string{"Caminatas / trekking"}, Indoor: false, Energy: EnergyMedium, DurationMin: 30, Cost: CostFree, TimeOfDay: Morning},
	{ID: 2, Title: "Yoga suave en casa", Emoji: "🧘", Tags: []string{"Gimnasia suave / yoga / pilates"}, Indoor: true, Energy: EnergyLow, DurationMin: 20, Cost: CostFree, TimeOfDay: Morning},
	{ID: 3, Title: "Sesión de estiramientos guiados", Emoji: "🤸", Tags: []string{"Gimnasia suave / yoga / pilates"}, Indoor: true, Energy: EnergyLow, DurationMin: 15, Cost: CostFree, TimeOfDay: Morning},
	{ID: 4, Title: "Pintura creativa", Emoji: "🎨", Tags: []string{"Pintura / Dibujo"}, Indoor: true, Energy: EnergyLow, DurationMin: 45, Cost: CostLow, TimeOfDay: Afternoon},
	{ID: 5, Title: "Escribir un recuerdo de tu vida", Emoji: "✍️", Tags: []string{"Escritura / lectura creativa"}, Indoor: true, Energy: EnergyLow, DurationMin: 20, Cost: CostFree, TimeOfDay: Afternoon},
	{ID: 6, Title: "Escucha tu álbum favorito", Emoji: "🎵", Tags: []string{"Música (escuchar, cantar, tocar instrumento)"}, Indoor: true, Energy: EnergyLow, DurationMin: 30, Cost: CostFree, TimeOfDay: Afternoon},
	{ID: 7, Title: "Organiza y digitaliza fotos antiguas", Emoji: "🗂️", Tags: []string{"Fotografía", "Historia y cultura"}, Indoor: true, Energy: EnergyLow, DurationMin: 40, Cost: CostFree, TimeOfDay: Afternoon},
	{ID: 8, Title: "Practica vocabulario de un idioma", Emoji: "🗣️", Tags: []string{"Idiomas"}, Indoor: true, Energy: EnergyLow, DurationMin: 15, Cost: CostFree, TimeOfDay: Morning},
	{ID: 9, Title: "Cocina una receta saludable", Emoji: "🥗", Tags: []string{"Cocina saludable"}, Indoor: true, Energy: EnergyMedium, DurationMin: 45, Cost: CostMedium, TimeOfDay: Afternoon},
	{ID: 10, Title: "Jardinería: plantar o regar", Emoji: "🪴", Tags: []string{"Jardinería"}, Indoor: false, Energy: EnergyLow, DurationMin: 25, Cost: CostLow, TimeOfDay: Morning},
	{ID: 11, Title: "Club de lectura personal", Emoji: "📚", Tags: []string{"Club de lectura"}, Indoor: true, Energy: EnergyLow, DurationMin: 30, Cost: CostFree, TimeOfDay: Afternoon},
	{ID: 12, Title: "Juego de mesa o cartas", Emoji: "🃏", Tags: []string{"Juegos de mesa / cartas"}, Indoor: true, Energy: EnergyLow, DurationMin: 30, Cost: CostLow, TimeOfDay: Evening},
	{ID: 13, Title: "Videollamada con familia o amigos", Emoji: "📱", Tags: []string{"Videollamadas con familia / amigos"}, Indoor: true, Energy: EnergyLow, DurationMin: 20, Cost: CostFree, TimeOfDay: Afternoon},
	{ID: 14, Title: "Meditación guiada 10 minutos", Emoji: "🧘‍♂️", Tags: []string{"Meditación / mindfulness"}, Indoor: true, Energy: EnergyLow, DurationMin: 10, Cost: CostFree, TimeOfDay: Morning},
	{ID: 15, Title: "Curso corto online (20–30m)", Emoji: "💻", Tags: []string{"Cursos online / talleres", "Tecnología (apps, redes sociales)", "Fotografía y edición digital"}, Indoor: true, Energy: EnergyMedium, DurationMin: 30, Cost: CostFree, TimeOfDay: Afternoon},
	{ID: 16, Title: "Visita un museo virtual", Emoji: "🖼️", Tags: []string{"Museos, teatro, cine", "Historia y cultura"}, Indoor: true, Energy: EnergyLow, DurationMin: 30, Cost: CostFree, TimeOfDay: Afternoon},
	{ID: 17, Title: "Baile suave con tu música", Emoji: "💃", Tags: []string{"Baile", "Música (escuchar, cantar, tocar instrumento)"}, Indoor: true, Energy: EnergyMedium, DurationMin: 20, Cost: CostFree, TimeOfDay: Afternoon},
	{ID: 18, Title: "Paseo en bicicleta corta", Emoji: "🚲", Tags: []string{"Ciclismo"}, Indoor: false, Energy: EnergyHigh, DurationMin: 30, Cost: CostFree, TimeOfDay: Morning},
	{ID: 19, Title: "Voluntariado digital (microtareas)", Emoji: "🤝", Tags: []string{"Voluntariado", "Tecnología (apps, redes sociales)"}, Indoor: true, Energy: EnergyLow, DurationMin: 30, Cost: CostFree, TimeOfDay: Afternoon},
	{ID: 20, Title: "Aprende una app de salud", Emoji: "📲", Tags: []string{"Apps de finanzas, salud, transporte", "Tecnología (apps, redes sociales)"}, Indoor: true, Energy: EnergyLow, DurationMin: 25, Cost: CostFree, TimeOfDay: Afternoon},
	{ID: 21, Title: "Comparte una foto en redes", Emoji: "📷", Tags: []string{"Redes sociales", "Fotografía y edición digital"}, Indoor: true, Energy: EnergyLow, DurationMin: 15, Cost: CostFree, TimeOfDay: Afternoon},
	{ID: 22, Title: "Juego digital de lógica", Emoji: "🧩", Tags: []string{"Juegos digitales (apps, consolas, PC)"}, Indoor: true, Energy: EnergyMedium, DurationMin: 20, Cost: CostFree, TimeOfDay: Evening},
	{ID: 23, Title: "Leer un cuento con tus nietos", Emoji: "👨‍👩‍👧‍👦", Tags: []string{"Actividades con nietos / familia"}, Indoor: true, Energy: EnergyLow, DurationMin: 20, Cost: CostFree, TimeOfDay: Afternoon},
	{ID: 24, Title: "Autocuidado: rutina facial simple", Emoji: "🧴", Tags: []string{"Autocuidado (skincare, spa casero, etc.)"}, Indoor: true, Energy: EnergyLow, DurationMin: 15, Cost: CostLow, TimeOfDay: Evening},
	{ID: 25, Title: "Agenda tu control de salud", Emoji: "🗓️", Tags: []string{"Control de salud / chequeos"}, Indoor: true, Energy: EnergyLow, DurationMin: 10, Cost: CostFree, TimeOfDay: Morning},
	{ID: 26, Title: "Plan de paseo local", Emoji: "🗺️", Tags: []string{"Viajes y turismo local"}, Indoor: false, Energy: EnergyMedium, DurationMin: 30, Cost: CostFree, TimeOfDay: Afternoon},
	{ID: 27, Title: "Sesión corta de natación", Emoji: "🏊", Tags: []string{"Natación"}, Indoor: false, Energy: EnergyHigh, DurationMin: 30, Cost: CostMedium, TimeOfDay: Afternoon},
	{ID: 28, Title: "Pesca en lago o río", Emoji: "🎣", Tags: []string{"Pesca"}, Indoor: false, Energy: EnergyLow, DurationMin: 90, Cost: CostMedium, TimeOfDay: Morning},
	{ID: 29, Title: "Armar un rompecabezas", Emoji: "🧩", Tags: []string{"Juegos de mesa / lógica"}, Indoor: true, Energy: EnergyLow, DurationMin: 40, Cost: CostLow, TimeOfDay: Afternoon},
	{ID: 30, Title: "Escuchar un pódcast educativo", Emoji: "🎧", Tags: []string{"Escucha / aprendizaje", "Tecnología (apps, redes sociales)"}, Indoor: true, Energy: EnergyLow, DurationMin: 25, Cost: CostFree, TimeOfDay: Morning},
	{ID: 31, Title: "Escribir una carta a alguien especial", Emoji: "💌", Tags: []string{"Escritura / lectura creativa"}, Indoor: true, Energy: EnergyLow, DurationMin: 20, Cost: CostFree, TimeOfDay: Afternoon},
	{ID: 32, Title: "Dar de comer a aves en la plaza", Emoji: "🐦", Tags: []string{"Naturaleza", "Actividades al aire libre"}, Indoor: false, Energy: EnergyLow, DurationMin: 15, Cost: CostLow, TimeOfDay: Morning},
	{ID: 33, Title: "Aprender un truco de cocina nuevo", Emoji: "🍳", Tags: []string{"Cocina creativa"}, Indoor: true, Energy: EnergyMedium, DurationMin: 30, Cost: CostMedium, TimeOfDay: Afternoon},
	{ID: 34, Title: "Hacer manualidades simples", Emoji: "✂️", Tags: []string{"Manualidades / DIY"}, Indoor: true, Energy: EnergyMedium, DurationMin: 40, Cost: CostLow, TimeOfDay: Afternoon},
	{ID: 35, Title: "Escribir tu lista de agradecimientos", Emoji: "🙏", Tags: []string{"Reflexión personal / mindfulness"}, Indoor: true, Energy: EnergyLow, DurationMin: 15, Cost: CostFree, TimeOfDay: Evening},
	{ID: 36, Title: "Aprender pasos básicos de baile folklórico", Emoji: "🪗", Tags: []string{"Baile", "Cultura local"}, Indoor: true, Energy: EnergyMedium, DurationMin: 25, Cost: CostFree, TimeOfDay: Afternoon},
	{ID: 37, Title: "Hacer una caminata fotográfica", Emoji: "📸", Tags: []string{"Fotografía", "Caminatas / trekking"}, Indoor: false, Energy: EnergyMedium, DurationMin: 45, Cost: CostFree, TimeOfDay: Morning},
	{ID: 38, Title: "Resolver un crucigrama o sudoku", Emoji: "📝", Tags: []string{"Juegos de lógica / palabras"}, Indoor: true, Energy: EnergyLow, DurationMin: 20, Cost: CostFree, TimeOfDay: Morning},
	{ID: 39, Title: "Visitar una feria artesanal", Emoji: "🛍️", Tags: []string{"Cultura local", "Manualidades / artesanía"}, Indoor: false, Energy: EnergyMedium, DurationMin: 60, Cost: CostMedium, TimeOfDay: Afternoon},
	{ID: 40, Title: "Preparar jugos o batidos naturales", Emoji: "🥤", Tags: []string{"Cocina saludable"}, Indoor: true, Energy: EnergyMedium, DurationMin: 20, Cost: CostLow, TimeOfDay: Morning},
}

// categoryByID maps catalog ids to their wellness dimension.
var categoryByID = map[int]string{
	1: "Física", 2: "Física", 3: "Física", 4: "Cognitiva", 5: "Cognitiva",
	6: "Cognitiva", 7: "Cognitiva", 8: "Cognitiva", 9: "Física", 10: "Física",
	11: "Cognitiva", 12: "Social", 13: "Social", 14: "Cognitiva", 15: "Cognitiva",
	16: "Cognitiva", 17: "Física", 18: "Física", 19: "Social", 20: "Cognitiva",
	21: "Social", 22: "Cognitiva", 23: "Social", 24: "Física", 25: "Física",
	26: "Social", 27: "Física", 28: "Física", 29: "Cognitiva", 30: "Cognitiva",
	31: "Social", 32: "Física", 33: "Cognitiva", 34: "Cognitiva", 35: "Cognitiva",
	36: "Física", 37: "Física", 38: "Cognitiva", 39: "Social", 40: "Física",
}

var byID = func() map[int]Activity {
	m := make(map[int]Activity, len(Atemporales))
	for _, a := range Atemporales {
		m[a.ID] = a
	}
	return m
}()

// ByID returns the catalog entry with the given id.
func ByID(id int) (Activity, bool) {
	a, ok := byID[id]
	return a, ok
}

// CategoryFor derives the effective category of an activity: explicit
// category if present, else the static id table, else the first usable tag.
// Returns "" when nothing resolves.
func CategoryFor(a Activity) string {
	if c := strings.TrimSpace(a.Category); c != "" {
		return c
	}
	if c, ok := categoryByID[a.ID]; ok {
		return c
	}
	for _, tag := range a.Tags {
		if cleaned := strings.TrimSpace(tag); cleaned != "" {
			return cleaned
		}
	}
	return ""
}

// Fallback is the sentinel entry returned when ranking yields zero
// candidates. It must never be filtered out by category or time filters.
var Fallback = Activity{
	ID:          -1,
	Title:       "Amplía tus intereses para ver más actividades personalizadas",
	Emoji:       "🧭",
	Tags:        []string{},
	Indoor:      true,
	Energy:      EnergyLow,
	DurationMin: 15,
	Cost:        CostFree,
	TimeOfDay:   AnyTime,
}

// SuggestedTime maps a daypart to the clock time shown to the user.
func SuggestedTime(tod TimeOfDay) string {
	switch tod {
	case Morning:
		return "10:00"
	case Afternoon:
		return "16:00"
	case Evening:
		return "19:00"
	default:
		return "16:00"
	}
}
