// Package token defines the tagged-token data model produced by the
// linguistic tagger and consumed by the annotation pipeline.
package token

import (
	"strings"
	"unicode"
)

// Feature identifies a morphological feature on a tagged token.
type Feature string

// Morphological features emitted by the tagger for German text.
const (
	FeatureGender   Feature = "Gender"
	FeatureCase     Feature = "Case"
	FeatureTense    Feature = "Tense"
	FeatureNumber   Feature = "Number"
	FeatureMood     Feature = "Mood"
	FeatureVerbForm Feature = "VerbForm"
	FeaturePerson   Feature = "Person"
)

// Morph maps a morphological feature to its coded values.
// A feature a token does not carry is simply absent from the map.
type Morph map[Feature][]string

// Values returns all coded values for a feature, or nil when absent.
func (m Morph) Values(f Feature) []string {
	return m[f]
}

// First returns the first coded value for a feature.
func (m Morph) First(f Feature) (string, bool) {
	vals := m[f]
	if len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// Has reports whether the feature carries the given coded value.
func (m Morph) Has(f Feature, code string) bool {
	for _, v := range m[f] {
		if v == code {
			return true
		}
	}
	return false
}

// Is reports whether the feature carries exactly one value equal to code.
// Used for strict feature tests such as VerbForm=Fin.
func (m Morph) Is(f Feature, code string) bool {
	vals := m[f]
	return len(vals) == 1 && vals[0] == code
}

// Token is one tagged unit of text. Tokens are produced externally by the
// tagger, are immutable once produced, and live only for the duration of a
// pipeline invocation. The JSON tags define the tagger wire contract.
type Token struct {
	// Text is the surface form without trailing whitespace.
	Text string `json:"text"`

	// Whitespace is the trailing whitespace following the surface form
	// in the source document (usually " " or empty).
	Whitespace string `json:"whitespace"`

	// Lemma is the dictionary base form, used as the translation cache key.
	Lemma string `json:"lemma"`

	// POS is the coarse part-of-speech code (e.g. "NOUN", "VERB", "AUX").
	POS string `json:"pos"`

	// Morph carries the morphological features (e.g. Gender→["Fem"]).
	Morph Morph `json:"morph,omitempty"`

	// EntType is the named-entity type ("PER", "LOC", …); empty when the
	// token is not part of a named entity.
	EntType string `json:"ent_type,omitempty"`
}

// TextWithWhitespace returns the surface form with its trailing whitespace,
// exactly as it appeared in the source document.
func (t Token) TextWithWhitespace() string {
	return t.Text + t.Whitespace
}

// HasLineBreak reports whether the surface form contains a line break.
// Such tokens render as line-break markers and are never classified.
func (t Token) HasLineBreak() bool {
	return strings.Contains(t.Text, "\n")
}

// Alphabetic reports whether the surface form consists entirely of letters.
// Only alphabetic tokens are eligible for translation lookup and caching.
func (t Token) Alphabetic() bool {
	if t.Text == "" {
		return false
	}
	for _, r := range t.Text {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// IsNamedEntity reports whether the tagger flagged the token as part of a
// named entity.
func (t Token) IsNamedEntity() bool {
	return t.EntType != ""
}
