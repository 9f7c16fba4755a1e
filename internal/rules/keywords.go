package rules

// KeywordCategory groups the free-text markers for one kind of recent
// life change. Families write in Spanish or English, so both appear.
// Multi-word phrases are matched as substrings; single words are matched
// against tokenized text.
type KeywordCategory struct {
	ID       string
	Name     string
	Keywords []string
}

var changeKeywordLexicon = []KeywordCategory{
	{
		ID:   "moving",
		Name: "Moving house",
		Keywords: []string{
			"mudanza", "nos mudamos", "casa nueva", "nueva casa",
			"moving", "moved house", "new house", "new home",
		},
	},
	{
		ID:   "new_sibling",
		Name: "New sibling",
		Keywords: []string{
			"hermanito", "hermanita", "nuevo bebé", "nuevo bebe", "embarazada",
			"new sibling", "new baby", "baby brother", "baby sister", "pregnant",
		},
	},
	{
		ID:   "illness",
		Name: "Illness",
		Keywords: []string{
			"enfermo", "enferma", "fiebre", "resfriado", "virus", "otitis", "vacuna",
			"sick", "fever", "cold", "ear infection", "vaccine", "ill",
		},
	},
	{
		ID:   "travel",
		Name: "Travel",
		Keywords: []string{
			"viaje", "viajamos", "vacaciones", "cambio de horario",
			"travel", "trip", "vacation", "jet lag", "time change",
		},
	},
	{
		ID:   "caregiver_change",
		Name: "Daycare or caregiver change",
		Keywords: []string{
			"guardería", "guarderia", "niñera", "ninera", "escuela",
			"daycare", "nursery", "nanny", "babysitter", "school",
		},
	},
	{
		ID:   "family_change",
		Name: "Family change",
		Keywords: []string{
			"separación", "separacion", "divorcio", "volví al trabajo", "volvi al trabajo",
			"separation", "divorce", "back to work",
		},
	},
	{
		ID:   "teething",
		Name: "Teething",
		Keywords: []string{
			"dientes", "dentición", "denticion", "le está saliendo", "le esta saliendo",
			"teething", "tooth", "teeth coming",
		},
	},
}

func ChangeKeywordLexicon() []KeywordCategory {
	out := make([]KeywordCategory, len(changeKeywordLexicon))
	copy(out, changeKeywordLexicon)
	return out
}
