package classify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wortlupe/wortlupe/classify"
	"github.com/wortlupe/wortlupe/token"
)

// mapSource adapts a plain map to the TranslationSource interface.
type mapSource map[string]string

func (m mapSource) Lookup(lemma string) (string, bool) {
	t, ok := m[lemma]
	return t, ok
}

func TestClassify_ArticleWithGenderAndCase(t *testing.T) {
	tok := token.Token{
		Text:  "Der",
		Lemma: "der",
		POS:   "DET",
		Morph: token.Morph{
			token.FeatureGender: {"Masc"},
			token.FeatureCase:   {"Nom"},
		},
	}

	res := classify.Classify(tok, mapSource{"der": "the"})

	assert.Equal(t, []classify.Category{
		classify.GenderCategory("Masc"),
		classify.CaseCategory("Nom"),
	}, res.Categories)
	assert.Equal(t, []classify.Line{
		{Label: "Part of Speech", Value: "Determiner"},
		{Label: "Gender", Value: "Masculine"},
		{Label: "Case", Value: "Nominative"},
	}, res.Summary)
	assert.Equal(t, "the", res.Translation)
}

func TestClassify_FiniteVerb(t *testing.T) {
	tok := token.Token{
		Text:  "läuft",
		Lemma: "laufen",
		POS:   "VERB",
		Morph: token.Morph{
			token.FeatureTense:    {"Pres"},
			token.FeatureVerbForm: {"Fin"},
			token.FeatureNumber:   {"Sing"},
		},
	}

	res := classify.Classify(tok, mapSource{"laufen": "to run"})

	assert.Equal(t, []classify.Category{classify.CategoryVerbFinite}, res.Categories)
	assert.Contains(t, res.Summary, classify.Line{Label: "Tense", Value: "Present"})
	assert.Equal(t, "to run", res.Translation)
}

func TestClassify_ClauseFinalVerb(t *testing.T) {
	// Participles and infinitives get the clause-final styling
	tok := token.Token{
		Text:  "gegangen",
		Lemma: "gehen",
		POS:   "VERB",
		Morph: token.Morph{
			token.FeatureVerbForm: {"Part"},
		},
	}

	res := classify.Classify(tok, mapSource{})
	assert.Equal(t, []classify.Category{classify.CategoryVerbFinal}, res.Categories)
}

func TestClassify_VerbWithoutVerbForm(t *testing.T) {
	// A verb with no VerbForm feature is not finite, so it styles clause-final
	tok := token.Token{Text: "laufen", Lemma: "laufen", POS: "VERB"}

	res := classify.Classify(tok, mapSource{})
	assert.Equal(t, []classify.Category{classify.CategoryVerbFinal}, res.Categories)
}

func TestClassify_SubjunctiveAuxiliary(t *testing.T) {
	tok := token.Token{
		Text:  "wäre",
		Lemma: "sein",
		POS:   "AUX",
		Morph: token.Morph{
			token.FeatureVerbForm: {"Fin"},
			token.FeatureMood:     {"Sub"},
		},
	}

	res := classify.Classify(tok, mapSource{})
	assert.Equal(t, []classify.Category{
		classify.CategoryVerbFinite,
		classify.CategorySubjunctive,
	}, res.Categories)
}

func TestClassify_SubjunctiveRequiresVerb(t *testing.T) {
	// Mood on a non-verb never produces the subjunctive category
	tok := token.Token{
		Text:  "Wunsch",
		Lemma: "Wunsch",
		POS:   "NOUN",
		Morph: token.Morph{
			token.FeatureMood: {"Sub"},
		},
	}

	res := classify.Classify(tok, mapSource{})
	assert.Empty(t, res.Categories)
}

func TestClassify_PluralNoun(t *testing.T) {
	tok := token.Token{
		Text:  "Hunde",
		Lemma: "Hund",
		POS:   "NOUN",
		Morph: token.Morph{
			token.FeatureGender: {"Masc"},
			token.FeatureCase:   {"Nom"},
			token.FeatureNumber: {"Plur"},
		},
	}

	res := classify.Classify(tok, mapSource{"Hund": "dog"})
	assert.Equal(t, []classify.Category{
		classify.GenderCategory("Masc"),
		classify.CaseCategory("Nom"),
		classify.CategoryPlural,
	}, res.Categories)
}

func TestClassify_NamedEntity(t *testing.T) {
	tok := token.Token{
		Text:    "Berlin",
		Lemma:   "Berlin",
		POS:     "PROPN",
		EntType: "LOC",
	}

	res := classify.Classify(tok, mapSource{})
	assert.Equal(t, []classify.Category{classify.CategoryNamedEntity}, res.Categories)
}

func TestClassify_MissingTranslationUsesPlaceholder(t *testing.T) {
	tok := token.Token{Text: "Hund", Lemma: "Hund", POS: "NOUN"}

	res := classify.Classify(tok, mapSource{})
	assert.Equal(t, classify.TranslationPlaceholder, res.Translation)
}

func TestClassify_NonCoreCaseHasNoCategory(t *testing.T) {
	// Exotic case codes appear in the summary but get no display category
	tok := token.Token{
		Text:  "amice",
		Lemma: "amicus",
		POS:   "NOUN",
		Morph: token.Morph{
			token.FeatureCase: {"Voc"},
		},
	}

	res := classify.Classify(tok, mapSource{})
	assert.Empty(t, res.Categories)
	assert.Contains(t, res.Summary, classify.Line{Label: "Case", Value: "Voc"})
}

func TestClassify_UnknownGenderFallsBackToRawCode(t *testing.T) {
	tok := token.Token{
		Text:  "barn",
		Lemma: "barn",
		POS:   "NOUN",
		Morph: token.Morph{
			token.FeatureGender: {"Com"},
		},
	}

	res := classify.Classify(tok, mapSource{})
	assert.Equal(t, []classify.Category{classify.GenderCategory("Com")}, res.Categories)
	assert.Contains(t, res.Summary, classify.Line{Label: "Gender", Value: "Com"})
}

func TestClassify_CategoryOrderIsStable(t *testing.T) {
	// A token triggering every rule yields categories in rule order:
	// gender, case, verb styling, mood, number, entity.
	tok := token.Token{
		Text:    "wären",
		Lemma:   "sein",
		POS:     "AUX",
		EntType: "MISC",
		Morph: token.Morph{
			token.FeatureGender:   {"Masc"},
			token.FeatureCase:     {"Acc"},
			token.FeatureVerbForm: {"Fin"},
			token.FeatureMood:     {"Sub"},
			token.FeatureNumber:   {"Plur"},
		},
	}

	res := classify.Classify(tok, mapSource{})
	require.Equal(t, []classify.Category{
		classify.GenderCategory("Masc"),
		classify.CaseCategory("Acc"),
		classify.CategoryVerbFinite,
		classify.CategorySubjunctive,
		classify.CategoryPlural,
		classify.CategoryNamedEntity,
	}, res.Categories)
}

func TestClassify_SummaryAlwaysLeadsWithPartOfSpeech(t *testing.T) {
	res := classify.Classify(token.Token{Text: ".", Lemma: ".", POS: "PUNCT"}, mapSource{})

	require.NotEmpty(t, res.Summary)
	assert.Equal(t, "Part of Speech", res.Summary[0].Label)
	assert.Equal(t, "PUNCT", res.Summary[0].Value)
}
