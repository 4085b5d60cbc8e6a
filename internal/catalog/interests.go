package catalog

// Interest is one entry of the interest catalog users pick from.
type Interest struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// BaseInterests is the deploy-time interest catalog, seeded into the store
// with stable ids in declaration order.
var BaseInterests = []Interest{
	{Category: "Creatividad y Arte", Name: "Pintura / Dibujo"},
	{Category: "Creatividad y Arte", Name: "Manualidades (tejido, carpintería, cerámica)"},
	{Category: "Creatividad y Arte", Name: "Música (escuchar, cantar, tocar instrumento)"},
	{Category: "Creatividad y Arte", Name: "Fotografía"},
	{Category: "Creatividad y Arte", Name: "Escritura / lectura creativa"},
	{Category: "Deporte y Bienestar", Name: "Caminatas / trekking"},
	{Category: "Deporte y Bienestar", Name: "Gimnasia suave / yoga / pilates"},
	{Category: "Deporte y Bienestar", Name: "Natación"},
	{Category: "Deporte y Bienestar", Name: "Baile"},
	{Category: "Deporte y Bienestar", Name: "Ciclismo"},
	{Category: "Deporte y Bienestar", Name: "Pesca"},
	{Category: "Deporte y Bienestar", Name: "Jardinería"},
	{Category: "Aprendizaje y Desarrollo Personal", Name: "Idiomas"},
	{Category: "Aprendizaje y Desarrollo Personal", Name: "Historia y cultura"},
	{Category: "Aprendizaje y Desarrollo Personal", Name: "Tecnología (apps, redes sociales)"},
	{Category: "Aprendizaje y Desarrollo Personal", Name: "Cursos online / talleres"},
	{Category: "Aprendizaje y Desarrollo Personal", Name: "Club de lectura"},
	{Category: "Social y Comunitario", Name: "Voluntariado"},
	{Category: "Social y Comunitario", Name: "Clubes sociales / centros de adulto mayor"},
	{Category: "Social y Comunitario", Name: "Actividades religiosas o espirituales"},
	{Category: "Social y Comunitario", Name: "Juegos de mesa / cartas"},
	{Category: "Social y Comunitario", Name: "Actividades con nietos / familia"},
	{Category: "Salud y Cuidado Personal", Name: "Meditación / mindfulness"},
	{Category: "Salud y Cuidado Personal", Name: "Cocina saludable"},
	{Category: "Salud y Cuidado Personal", Name: "Autocuidado (skincare, spa casero, etc.)"},
	{Category: "Salud y Cuidado Personal", Name: "Control de salud / chequeos"},
	{Category: "Ocio y Cultura", Name: "Viajes y turismo local"},
	{Category: "Ocio y Cultura", Name: "Museos, teatro, cine"},
	{Category: "Ocio y Cultura", Name: "Gastronomía (recetas, restaurantes)"},
	{Category: "Ocio y Cultura", Name: "Eventos culturales y ferias"},
	{Category: "Tecnología y Digital", Name: "Redes sociales"},
	{Category: "Tecnología y Digital", Name: "Videollamadas con familia / amigos"},
	{Category: "Tecnología y Digital", Name: "Juegos digitales (apps, consolas, PC)"},
	{Category: "Tecnología y Digital", Name: "Fotografía y edición digital"},
	{Category: "Tecnología y Digital", Name: "Apps de finanzas, salud, transporte"},
}
