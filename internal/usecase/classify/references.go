package classify

import "github.com/jubilgo/jubilgo-api/internal/domain"

// preparationReferences holds two canonical reference answers per preparation
// level. Their embeddings act as classification prototypes.
var preparationReferences = map[domain.PreparationLevel][]string{
	domain.PreparationPlanned: {
		"Tengo un plan organizado con actividades claras para mi jubilación.",
		"Sé exactamente qué quiero hacer y ya tengo un calendario definido.",
	},
	domain.PreparationIntermediate: {
		"Tengo ideas de lo que quiero hacer, pero aún no lo he estructurado.",
		"Sé algunas actividades que me gustan, pero necesito ordenarlas mejor.",
	},
	domain.PreparationDisoriented: {
		"No tengo claro qué hacer con mi tiempo libre y necesito orientación.",
		"Me siento perdido y no sé por dónde empezar a organizar actividades.",
	},
}
