// Package grammar maps coded morphological tags to human-readable labels.
// The tables are open-vocabulary: a code without an entry is returned
// verbatim so that unknown tagger output never breaks rendering.
package grammar

// posLabels maps coarse part-of-speech codes to display labels.
var posLabels = map[string]string{
	"DET":   "Determiner",
	"NOUN":  "Noun",
	"VERB":  "Verb",
	"AUX":   "Auxiliary Verb",
	"ADJ":   "Adjective",
	"ADV":   "Adverb",
	"PRON":  "Pronoun",
	"ADP":   "Preposition",
	"CCONJ": "Conjunction",
	"SCONJ": "Conjunction",
	"PROPN": "Proper Noun",
	"PART":  "Particle",
	"NUM":   "Number",
}

// caseLabels maps the four German cases to display labels.
var caseLabels = map[string]string{
	"Nom": "Nominative",
	"Acc": "Accusative",
	"Dat": "Dative",
	"Gen": "Genitive",
}

// genderLabels maps grammatical gender codes to display labels.
var genderLabels = map[string]string{
	"Masc": "Masculine",
	"Fem":  "Feminine",
	"Neut": "Neuter",
}

// tenseLabels maps tense codes to display labels.
var tenseLabels = map[string]string{
	"Pres": "Present",
	"Past": "Past",
	"Fut":  "Future",
}

// POSLabel returns the display label for a part-of-speech code.
func POSLabel(code string) string {
	if label, ok := posLabels[code]; ok {
		return label
	}
	return code
}

// CaseLabel returns the display label for a case code.
func CaseLabel(code string) string {
	if label, ok := caseLabels[code]; ok {
		return label
	}
	return code
}

// GenderLabel returns the display label for a gender code.
func GenderLabel(code string) string {
	if label, ok := genderLabels[code]; ok {
		return label
	}
	return code
}

// TenseLabel returns the display label for a tense code.
func TenseLabel(code string) string {
	if label, ok := tenseLabels[code]; ok {
		return label
	}
	return code
}

// CoreCase reports whether code is one of the four recognized German cases.
// Only core cases produce a display category; other case codes still appear
// in the grammar summary.
func CoreCase(code string) bool {
	_, ok := caseLabels[code]
	return ok
}
