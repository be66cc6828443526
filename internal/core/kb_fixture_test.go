package core

import "github.com/emoralesr/diagwiz/pkg/models"

// testKB returns the knowledge base shared by the core tests: two rules for
// "No enciende" (the acceptance tie-break fixture), one keyless-question
// rule, and one multiple-choice rule in another category.
func testKB() *models.KnowledgeBase {
	return &models.KnowledgeBase{
		Categories: models.CategoryList{
			{Name: "Hardware", Symptoms: []string{"No enciende", "Pantalla negra"}},
			{Name: "Conectividad", Symptoms: []string{"Sin internet"}},
		},
		Rules: []models.Rule{
			{
				Domain:     "Hardware",
				Symptom:    "No enciende",
				Hypothesis: "fuente_dañada",
				Premises:   []models.Premise{{Key: "cable_conectado"}},
				Questions: []models.Question{
					{Key: "cable_conectado", Text: "¿El cable está conectado a la corriente?"},
					{Key: "fuente_dañada", Text: "¿La fuente huele a quemado?"},
				},
				Actions:        []string{"Revisar la fuente de poder", "Probar con otro cable"},
				UserSuggestion: "Desconecta el equipo antes de revisar la fuente.",
			},
			{
				Domain:     "Hardware",
				Symptom:    "No enciende",
				Hypothesis: "batería_agotada",
				Premises:   []models.Premise{{Key: "batería_cargada"}},
				Questions: []models.Question{
					{Key: "batería_cargada", Text: "¿La batería está cargada?"},
				},
				Actions: []string{"Cargar la batería durante 30 minutos"},
			},
			{
				Domain:     "Hardware",
				Symptom:    "Pantalla negra",
				Hypothesis: "brillo_al_mínimo",
				Premises:   []models.Premise{{Key: "equipo_encendido"}},
				Questions: []models.Question{
					{Text: "¿Se escucha el ventilador?"},
				},
				Actions: []string{"Subir el brillo con las teclas de función"},
			},
			{
				Domain:     "Conectividad",
				Symptom:    "Sin internet",
				Hypothesis: "router_apagado",
				Premises:   []models.Premise{{Key: "router_encendido"}},
				Questions: []models.Question{
					{
						Key:     "luces_router",
						Text:    "¿Qué luces muestra el router?",
						Type:    models.QuestionMultipleChoice,
						Options: []string{"Todas encendidas", "No enciende ninguna"},
					},
				},
				Actions: []string{"Reiniciar el router"},
			},
		},
	}
}
