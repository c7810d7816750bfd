// Package render assembles the interactive reading view: a legend header,
// one clickable span per tagged token, and the sidebar scaffold. All
// uncontrolled text (lemmas, translations, grammar summaries, surface text)
// is HTML-escaped at a single chokepoint before embedding.
package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/wortlupe/wortlupe/classify"
	"github.com/wortlupe/wortlupe/token"
)

// legendHeader opens the reading layout. The legend explains the underline
// colors for genders and the bold styling for verbs.
const legendHeader = `<div class="reader-layout">
<div class="text-area">
<div class="legend">
<span class="legend-item masculine">Masculine</span>
<span class="legend-item feminine">Feminine</span>
<span class="legend-item neuter">Neuter</span>
<span class="legend-item verb">Verbs</span>
</div>
`

// sidebarScaffold closes the text area and appends the word-info sidebar.
// The structure is fixed; updateSidebar fills it in on click. The two
// placeholder sections are mount points for view settings and the theme
// switcher.
const sidebarScaffold = `
</div>
<div class="sidebar">
<section class="sidebar-section word-info">
<div class="section-header">Word Info</div>
<div id="sb-word" class="sb-word">Welcome</div>
<div id="sb-lemma" class="sb-lemma">Click a word</div>
<div class="sidebar-label">English Meaning:</div>
<div id="sb-meaning" class="sb-meaning">...</div>
<div class="sidebar-label">Grammar:</div>
<div id="sb-grammar" class="sb-grammar"></div>
<a id="btn-duden" href="#" target="_blank" class="btn">&#128214; Open in Duden</a>
</section>
<section id="view-settings-container" class="sidebar-section placeholder-section"></section>
<section id="theme-switcher-container" class="sidebar-section placeholder-section"></section>
</div>
</div>
`

// lineBreak renders for tokens whose surface form contains a line break.
const lineBreak = "<br>"

// Document renders the ordered token sequence into the reading-view markup.
// Emission is a single linear pass in strict input order: tokens carrying a
// line break emit a break marker and skip classification; every other token
// is classified and emitted as one interactive span. The whole document is
// composed as an element sequence and joined once.
func Document(tokens []token.Token, translations classify.TranslationSource) string {
	parts := make([]string, 0, len(tokens)+2)
	parts = append(parts, legendHeader)

	for _, tok := range tokens {
		if tok.HasLineBreak() {
			parts = append(parts, lineBreak)
			continue
		}
		parts = append(parts, renderToken(tok, translations))
	}

	parts = append(parts, sidebarScaffold)
	return strings.Join(parts, "")
}

// renderToken emits one interactive span. This is the escaping chokepoint:
// lemma, translation, grammar summary, and the surface text all pass through
// html.EscapeString here and nowhere else.
func renderToken(tok token.Token, translations classify.TranslationSource) string {
	result := classify.Classify(tok, translations)

	classes := make([]string, 0, 2+len(result.Categories))
	classes = append(classes, "token", "pos-"+tok.POS)
	for _, category := range result.Categories {
		classes = append(classes, string(category))
	}

	return fmt.Sprintf(
		`<span class="%s" data-lemma="%s" data-trans="%s" data-grammar="%s" onclick="updateSidebar(this)">%s</span>`,
		strings.Join(classes, " "),
		html.EscapeString(tok.Lemma),
		html.EscapeString(result.Translation),
		html.EscapeString(grammarHTML(result.Summary)),
		html.EscapeString(tok.TextWithWhitespace()),
	)
}

// grammarHTML joins summary lines with explicit break markers. The joined
// block is escaped as a whole by the caller and un-escaped client-side when
// assigned to the sidebar via innerHTML.
func grammarHTML(lines []classify.Line) string {
	formatted := make([]string, len(lines))
	for i, line := range lines {
		formatted[i] = fmt.Sprintf("<strong>%s:</strong> %s", line.Label, line.Value)
	}
	return strings.Join(formatted, "<br>")
}
