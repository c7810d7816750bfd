package render

import (
	"fmt"
	"html"
)

// pageCSS styles the reading layout. Genders are distinguished by underline
// color, finite verbs by weight, clause-final verbs by a dashed underline.
const pageCSS = `body { display: flex; margin: 0; font-family: 'Georgia', serif; background: #fdfdfd; color: #222; }
.reader-layout { display: flex; width: 100%; }
.text-area { flex: 3; padding: 50px; line-height: 1.8; font-size: 19px; height: 100vh; overflow-y: auto; box-sizing: border-box; }
.sidebar { flex: 1; background: #f4f4f4; border-left: 1px solid #ddd; padding: 25px; height: 100vh; overflow-y: auto; box-sizing: border-box; position: sticky; top: 0; }
.legend { margin-bottom: 30px; padding: 10px; background: #fafafa; border: 1px solid #eee; border-radius: 6px; font-size: 14px; }
.legend-item { margin-right: 18px; padding-bottom: 2px; }
.legend-item.masculine { border-bottom: 3px solid #90caf9; }
.legend-item.feminine { border-bottom: 3px solid #ef9a9a; }
.legend-item.neuter { border-bottom: 3px solid #a5d6a7; }
.legend-item.verb { font-weight: 900; border-bottom: 2px solid #000; }
.token { cursor: pointer; border-radius: 2px; }
.token:hover { background: #fff59d; }
.token.active { background: #ffeb3b; }
.gender-Masc { border-bottom: 3px solid #90caf9; }
.gender-Fem { border-bottom: 3px solid #ef9a9a; }
.gender-Neut { border-bottom: 3px solid #a5d6a7; }
.verb-finite { font-weight: 900; border-bottom: 2px solid #000; }
.verb-end { border-bottom: 2px dashed #666; }
.mood-Subj { font-style: italic; }
.num-Plur { text-decoration-style: double; }
.ent-Name { background: #e1f5fe; }
.sidebar-section { margin-bottom: 25px; }
.section-header { font-size: 13px; font-weight: bold; text-transform: uppercase; letter-spacing: 1px; color: #888; margin-bottom: 10px; }
.sb-word { font-size: 2em; font-weight: bold; }
.sb-lemma { color: #666; margin-bottom: 15px; }
.sidebar-label { font-size: 12px; text-transform: uppercase; color: #999; margin-top: 12px; }
.sb-meaning { background: #f0f4c3; border-left: 5px solid #afb42b; padding: 8px; margin-top: 4px; }
.sb-grammar { font-size: 14px; line-height: 1.6; margin-top: 4px; }
.btn { display: block; background: #eee; border: 1px solid #ccc; border-radius: 4px; padding: 8px; margin-top: 18px; text-align: center; text-decoration: none; color: #222; }
.btn:hover { background: #ddd; }
.placeholder-section { min-height: 40px; border: 1px dashed #ccc; border-radius: 4px; }`

// pageJS drives the sidebar. Grammar summaries travel through the escaped
// data-grammar attribute and are re-activated here via innerHTML; everything
// else is assigned as text.
const pageJS = `function updateSidebar(el) {
    document.querySelectorAll('.token').forEach(function (t) { t.classList.remove('active'); });
    el.classList.add('active');
    var lemma = el.dataset.lemma;
    document.getElementById('sb-word').innerText = el.innerText;
    document.getElementById('sb-lemma').innerText = 'Base: ' + lemma;
    document.getElementById('sb-meaning').innerText = el.dataset.trans;
    document.getElementById('sb-grammar').innerHTML = el.dataset.grammar;
    var cleanLemma = lemma.replace(/[^\wäöüÄÖÜß]/g, '');
    document.getElementById('btn-duden').href = 'https://www.duden.de/suchen/dudenonline/' + cleanLemma;
}`

const pageTemplate = `<!DOCTYPE html>
<html lang="de">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
<style>
%s
</style>
</head>
<body>
%s
<script>
%s
</script>
</body>
</html>
`

// Page wraps a rendered document body into a standalone HTML page with the
// reader stylesheet and sidebar script inlined.
func Page(title, body string) string {
	return fmt.Sprintf(pageTemplate, html.EscapeString(title), pageCSS, body, pageJS)
}
