// Package main implements a mock tagging service for development and e2e
// testing. It serves the same /tag contract as the real spaCy-backed service
// but tags with a small lookup table and suffix heuristics, so the pipeline
// can be exercised fast, deterministically, and offline. The tags are rough;
// do not use this for real reading sessions.
//
// Usage:
//
//	mock-tagger -addr :8070 -lexicon /path/to/lexicon.json
//
// The optional lexicon file maps lowercased surface forms to exact token
// annotations and wins over the built-in table and heuristics:
//
//	{"hund": {"lemma": "Hund", "pos": "NOUN", "morph": {"Gender": ["Masc"]}}}
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"unicode"

	"github.com/wortlupe/wortlupe/token"
)

// lexiconEntry is one pinned annotation from the lexicon file.
type lexiconEntry struct {
	Lemma   string      `json:"lemma"`
	POS     string      `json:"pos"`
	Morph   token.Morph `json:"morph,omitempty"`
	EntType string      `json:"ent_type,omitempty"`
}

type tagRequest struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}

type tagResponse struct {
	Tokens []token.Token `json:"tokens"`
}

type server struct {
	lexicon map[string]lexiconEntry

	calls  atomic.Int64
	tokens atomic.Int64
}

func main() {
	addr := flag.String("addr", ":8070", "address to listen on")
	lexiconPath := flag.String("lexicon", "", "optional JSON lexicon of pinned annotations")
	flag.Parse()

	lexicon := map[string]lexiconEntry{}
	if *lexiconPath != "" {
		data, err := os.ReadFile(*lexiconPath)
		if err != nil {
			log.Fatalf("Failed to read lexicon %s: %v", *lexiconPath, err)
		}
		if err := json.Unmarshal(data, &lexicon); err != nil {
			log.Fatalf("Failed to parse lexicon %s: %v", *lexiconPath, err)
		}
		log.Printf("Loaded %d lexicon entries from %s", len(lexicon), *lexiconPath)
	}

	s := &server{lexicon: lexicon}

	mux := http.NewServeMux()
	mux.HandleFunc("/tag", s.handleTag)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/stats", s.handleStats)

	log.Printf("Mock tagging service listening on %s", *addr)
	if err := http.ListenAndServe(*addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func (s *server) handleTag(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req tagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	tokens := s.tag(tokenize(req.Text))

	callNum := s.calls.Add(1)
	s.tokens.Add(int64(len(tokens)))
	log.Printf("[call %d] model=%s chars=%d tokens=%d", callNum, req.Model, len(req.Text), len(tokens))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(tagResponse{Tokens: tokens})
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleStats returns call counts for test assertions.
func (s *server) handleStats(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]int64{
		"total_calls":  s.calls.Load(),
		"total_tokens": s.tokens.Load(),
	})
}

// rawToken is a surface segment before annotation.
type rawToken struct {
	text       string
	whitespace string
}

// tokenize splits text into word, number, punctuation, and whitespace
// segments the way the real tagger does: a single trailing space attaches to
// the preceding token, any other whitespace run becomes its own token.
func tokenize(text string) []rawToken {
	var tokens []rawToken
	runes := []rune(text)

	flush := func(segment string) {
		tokens = append(tokens, rawToken{text: segment})
	}

	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			j := i
			for j < len(runes) && unicode.IsSpace(runes[j]) {
				j++
			}
			run := string(runes[i:j])
			if run == " " && len(tokens) > 0 && tokens[len(tokens)-1].whitespace == "" {
				tokens[len(tokens)-1].whitespace = run
			} else {
				flush(run)
			}
			i = j
		case unicode.IsLetter(r):
			j := i
			for j < len(runes) && unicode.IsLetter(runes[j]) {
				j++
			}
			flush(string(runes[i:j]))
			i = j
		case unicode.IsDigit(r):
			j := i
			for j < len(runes) && unicode.IsDigit(runes[j]) {
				j++
			}
			flush(string(runes[i:j]))
			i = j
		default:
			flush(string(r))
			i++
		}
	}
	return tokens
}

// tag annotates raw segments: lexicon first, then the function-word table,
// then heuristics.
func (s *server) tag(raws []rawToken) []token.Token {
	tokens := make([]token.Token, 0, len(raws))
	for _, raw := range raws {
		tok := token.Token{
			Text:       raw.text,
			Whitespace: raw.whitespace,
			Lemma:      raw.text,
		}

		lower := strings.ToLower(raw.text)
		switch {
		case strings.TrimSpace(raw.text) == "":
			tok.POS = "SPACE"
		case isDigits(raw.text):
			tok.POS = "NUM"
		default:
			if entry, ok := s.lexicon[lower]; ok {
				tok.Lemma = entry.Lemma
				tok.POS = entry.POS
				tok.Morph = entry.Morph
				tok.EntType = entry.EntType
			} else if entry, ok := functionWords[lower]; ok {
				tok.Lemma = entry.Lemma
				tok.POS = entry.POS
				tok.Morph = entry.Morph
			} else {
				annotateByShape(&tok)
			}
		}

		tokens = append(tokens, tok)
	}
	return tokens
}

func isDigits(text string) bool {
	for _, r := range text {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return text != ""
}

// annotateByShape guesses an annotation from capitalization and suffix.
// Capitalized words are nouns with a suffix-guessed gender; lowercase words
// ending like a conjugated verb become finite verbs; single non-letters are
// punctuation.
func annotateByShape(tok *token.Token) {
	runes := []rune(tok.Text)
	if !unicode.IsLetter(runes[0]) {
		tok.POS = "PUNCT"
		return
	}

	if unicode.IsUpper(runes[0]) {
		tok.POS = "NOUN"
		tok.Morph = token.Morph{
			token.FeatureGender: {guessGender(tok.Text)},
			token.FeatureCase:   {"Nom"},
		}
		return
	}

	switch {
	case strings.HasSuffix(tok.Text, "en"):
		tok.POS = "VERB"
		tok.Morph = token.Morph{token.FeatureVerbForm: {"Inf"}}
	case strings.HasSuffix(tok.Text, "st"), strings.HasSuffix(tok.Text, "t"):
		tok.POS = "VERB"
		tok.Morph = token.Morph{token.FeatureVerbForm: {"Fin"}}
	case strings.HasSuffix(tok.Text, "lich"), strings.HasSuffix(tok.Text, "ig"),
		strings.HasSuffix(tok.Text, "isch"), strings.HasSuffix(tok.Text, "bar"):
		tok.POS = "ADJ"
	default:
		tok.POS = "ADV"
	}
}

// guessGender maps common noun suffixes to a gender code.
func guessGender(word string) string {
	lower := strings.ToLower(word)
	switch {
	case strings.HasSuffix(lower, "ung"), strings.HasSuffix(lower, "heit"),
		strings.HasSuffix(lower, "keit"), strings.HasSuffix(lower, "schaft"),
		strings.HasSuffix(lower, "ion"):
		return "Fem"
	case strings.HasSuffix(lower, "chen"), strings.HasSuffix(lower, "lein"):
		return "Neut"
	default:
		return "Masc"
	}
}

// functionWords pins the highest-frequency German function words, which the
// suffix heuristics would get wrong.
var functionWords = map[string]lexiconEntry{
	"der": {Lemma: "der", POS: "DET", Morph: token.Morph{token.FeatureGender: {"Masc"}, token.FeatureCase: {"Nom"}}},
	"die": {Lemma: "der", POS: "DET", Morph: token.Morph{token.FeatureGender: {"Fem"}, token.FeatureCase: {"Nom"}}},
	"das": {Lemma: "der", POS: "DET", Morph: token.Morph{token.FeatureGender: {"Neut"}, token.FeatureCase: {"Nom"}}},
	"den": {Lemma: "der", POS: "DET", Morph: token.Morph{token.FeatureGender: {"Masc"}, token.FeatureCase: {"Acc"}}},
	"dem": {Lemma: "der", POS: "DET", Morph: token.Morph{token.FeatureGender: {"Masc"}, token.FeatureCase: {"Dat"}}},
	"des": {Lemma: "der", POS: "DET", Morph: token.Morph{token.FeatureGender: {"Masc"}, token.FeatureCase: {"Gen"}}},

	"ein":   {Lemma: "ein", POS: "DET", Morph: token.Morph{token.FeatureGender: {"Masc"}, token.FeatureCase: {"Nom"}}},
	"eine":  {Lemma: "ein", POS: "DET", Morph: token.Morph{token.FeatureGender: {"Fem"}, token.FeatureCase: {"Nom"}}},
	"einen": {Lemma: "ein", POS: "DET", Morph: token.Morph{token.FeatureGender: {"Masc"}, token.FeatureCase: {"Acc"}}},
	"einem": {Lemma: "ein", POS: "DET", Morph: token.Morph{token.FeatureGender: {"Masc"}, token.FeatureCase: {"Dat"}}},
	"einer": {Lemma: "ein", POS: "DET", Morph: token.Morph{token.FeatureGender: {"Fem"}, token.FeatureCase: {"Dat"}}},
	"eines": {Lemma: "ein", POS: "DET", Morph: token.Morph{token.FeatureGender: {"Neut"}, token.FeatureCase: {"Gen"}}},

	"ich": {Lemma: "ich", POS: "PRON", Morph: token.Morph{token.FeatureCase: {"Nom"}, token.FeatureNumber: {"Sing"}}},
	"du":  {Lemma: "du", POS: "PRON", Morph: token.Morph{token.FeatureCase: {"Nom"}, token.FeatureNumber: {"Sing"}}},
	"er":  {Lemma: "er", POS: "PRON", Morph: token.Morph{token.FeatureCase: {"Nom"}, token.FeatureGender: {"Masc"}}},
	"sie": {Lemma: "sie", POS: "PRON", Morph: token.Morph{token.FeatureCase: {"Nom"}}},
	"es":  {Lemma: "es", POS: "PRON", Morph: token.Morph{token.FeatureCase: {"Nom"}, token.FeatureGender: {"Neut"}}},
	"wir": {Lemma: "wir", POS: "PRON", Morph: token.Morph{token.FeatureCase: {"Nom"}, token.FeatureNumber: {"Plur"}}},
	"ihr": {Lemma: "ihr", POS: "PRON", Morph: token.Morph{token.FeatureCase: {"Nom"}, token.FeatureNumber: {"Plur"}}},

	"ist":    {Lemma: "sein", POS: "AUX", Morph: token.Morph{token.FeatureVerbForm: {"Fin"}, token.FeatureTense: {"Pres"}}},
	"sind":   {Lemma: "sein", POS: "AUX", Morph: token.Morph{token.FeatureVerbForm: {"Fin"}, token.FeatureTense: {"Pres"}, token.FeatureNumber: {"Plur"}}},
	"war":    {Lemma: "sein", POS: "AUX", Morph: token.Morph{token.FeatureVerbForm: {"Fin"}, token.FeatureTense: {"Past"}}},
	"waren":  {Lemma: "sein", POS: "AUX", Morph: token.Morph{token.FeatureVerbForm: {"Fin"}, token.FeatureTense: {"Past"}, token.FeatureNumber: {"Plur"}}},
	"wäre":   {Lemma: "sein", POS: "AUX", Morph: token.Morph{token.FeatureVerbForm: {"Fin"}, token.FeatureMood: {"Sub"}}},
	"hat":    {Lemma: "haben", POS: "AUX", Morph: token.Morph{token.FeatureVerbForm: {"Fin"}, token.FeatureTense: {"Pres"}}},
	"haben":  {Lemma: "haben", POS: "AUX", Morph: token.Morph{token.FeatureVerbForm: {"Fin"}, token.FeatureTense: {"Pres"}, token.FeatureNumber: {"Plur"}}},
	"hätte":  {Lemma: "haben", POS: "AUX", Morph: token.Morph{token.FeatureVerbForm: {"Fin"}, token.FeatureMood: {"Sub"}}},
	"wird":   {Lemma: "werden", POS: "AUX", Morph: token.Morph{token.FeatureVerbForm: {"Fin"}, token.FeatureTense: {"Pres"}}},
	"werden": {Lemma: "werden", POS: "AUX", Morph: token.Morph{token.FeatureVerbForm: {"Fin"}, token.FeatureTense: {"Pres"}, token.FeatureNumber: {"Plur"}}},
	"würde":  {Lemma: "werden", POS: "AUX", Morph: token.Morph{token.FeatureVerbForm: {"Fin"}, token.FeatureMood: {"Sub"}}},

	"und":  {Lemma: "und", POS: "CCONJ"},
	"oder": {Lemma: "oder", POS: "CCONJ"},
	"aber": {Lemma: "aber", POS: "CCONJ"},
	"denn": {Lemma: "denn", POS: "CCONJ"},
	"dass": {Lemma: "dass", POS: "SCONJ"},
	"weil": {Lemma: "weil", POS: "SCONJ"},
	"wenn": {Lemma: "wenn", POS: "SCONJ"},
	"ob":   {Lemma: "ob", POS: "SCONJ"},

	"nicht": {Lemma: "nicht", POS: "PART"},
	"zu":    {Lemma: "zu", POS: "ADP"},
	"in":    {Lemma: "in", POS: "ADP"},
	"an":    {Lemma: "an", POS: "ADP"},
	"auf":   {Lemma: "auf", POS: "ADP"},
	"mit":   {Lemma: "mit", POS: "ADP"},
	"von":   {Lemma: "von", POS: "ADP"},
	"bei":   {Lemma: "bei", POS: "ADP"},
	"nach":  {Lemma: "nach", POS: "ADP"},
	"durch": {Lemma: "durch", POS: "ADP"},
	"für":   {Lemma: "für", POS: "ADP"},
}
