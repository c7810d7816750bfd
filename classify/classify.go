// Package classify derives display categories and grammar summaries from
// tagged tokens. Classification is a pure function of one token plus the
// resolved translation map; results are computed fresh per render and never
// persisted.
package classify

import (
	"github.com/wortlupe/wortlupe/grammar"
	"github.com/wortlupe/wortlupe/token"
)

// TranslationPlaceholder renders for tokens with no resolved translation.
const TranslationPlaceholder = "…"

// Category is a display classification attached to a token. Categories
// control the token's visual treatment (color, weight, underline) and are
// emitted as CSS class names.
type Category string

// Fixed display categories.
const (
	// CategoryVerbFinite marks a finite verb (VerbForm exactly "Fin").
	CategoryVerbFinite Category = "verb-finite"

	// CategoryVerbFinal marks a non-finite or clause-final verb form.
	CategoryVerbFinal Category = "verb-end"

	// CategorySubjunctive marks a verb in subjunctive mood.
	CategorySubjunctive Category = "mood-Subj"

	// CategoryPlural marks a plural token.
	CategoryPlural Category = "num-Plur"

	// CategoryNamedEntity marks a token inside a named entity.
	CategoryNamedEntity Category = "ent-Name"
)

// GenderCategory returns the display category for a gender code. The
// category is keyed by the raw coded value, not the display label.
func GenderCategory(code string) Category {
	return Category("gender-" + code)
}

// CaseCategory returns the display category for a core case code.
func CaseCategory(code string) Category {
	return Category("case-" + code)
}

// Line is one "label: value" entry of a grammar summary.
type Line struct {
	Label string
	Value string
}

// Result is the classification of a single token: its display categories in
// rule order, its grammar summary lines, and its resolved translation.
type Result struct {
	Categories  []Category
	Summary     []Line
	Translation string
}

// TranslationSource resolves a lemma to its translation. Satisfied by
// vocab.Store and by plain map wrappers in tests.
type TranslationSource interface {
	Lookup(lemma string) (string, bool)
}

// verbPOS reports whether the POS code marks a verb or auxiliary verb.
func verbPOS(pos string) bool {
	return pos == "VERB" || pos == "AUX"
}

// Classify derives the display categories, grammar summary, and translation
// for one token. Rules apply in a fixed order; the category slice preserves
// that order. Unknown codes fall back to the raw code and never error.
func Classify(tok token.Token, translations TranslationSource) Result {
	res := Result{
		Summary: []Line{{Label: "Part of Speech", Value: grammar.POSLabel(tok.POS)}},
	}

	if gender, ok := tok.Morph.First(token.FeatureGender); ok {
		res.Summary = append(res.Summary, Line{Label: "Gender", Value: grammar.GenderLabel(gender)})
		res.Categories = append(res.Categories, GenderCategory(gender))
	}

	if caseCode, ok := tok.Morph.First(token.FeatureCase); ok {
		res.Summary = append(res.Summary, Line{Label: "Case", Value: grammar.CaseLabel(caseCode)})
		if grammar.CoreCase(caseCode) {
			res.Categories = append(res.Categories, CaseCategory(caseCode))
		}
	}

	if verbPOS(tok.POS) {
		if tense, ok := tok.Morph.First(token.FeatureTense); ok {
			res.Summary = append(res.Summary, Line{Label: "Tense", Value: grammar.TenseLabel(tense)})
		}
		// Verb styling is binary: finite or clause-final, no third state.
		if tok.Morph.Is(token.FeatureVerbForm, "Fin") {
			res.Categories = append(res.Categories, CategoryVerbFinite)
		} else {
			res.Categories = append(res.Categories, CategoryVerbFinal)
		}
	}

	if verbPOS(tok.POS) && tok.Morph.Has(token.FeatureMood, "Sub") {
		res.Categories = append(res.Categories, CategorySubjunctive)
	}

	if tok.Morph.Has(token.FeatureNumber, "Plur") {
		res.Categories = append(res.Categories, CategoryPlural)
	}

	if tok.IsNamedEntity() {
		res.Categories = append(res.Categories, CategoryNamedEntity)
	}

	if t, ok := translations.Lookup(tok.Lemma); ok {
		res.Translation = t
	} else {
		res.Translation = TranslationPlaceholder
	}

	return res
}
