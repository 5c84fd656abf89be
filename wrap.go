package bilingo

import (
	"encoding/json"
	"fmt"
	"strings"
)

// LangContainerClass is the CSS class of every language container.
const LangContainerClass = "bilingo-lang"

// TitlesGlobal is the browser global that holds the title pair of the page.
const TitlesGlobal = "__bilingoTitles"

// Wrapper merges original and translated content into one dual-language
// artifact.
type Wrapper struct {
	SourceLang string
	TargetLang string
}

// DefaultWrapper wraps Chinese originals with English translations.
var DefaultWrapper = Wrapper{SourceLang: DefaultSourceLang, TargetLang: DefaultTargetLang}

// Wrap embeds both variants in machine-identifiable containers, followed by
// an inline script exposing the title pair. Blank lines around the embedded
// content keep the markdown renderer from merging it with the surrounding
// block-level syntax.
func (w Wrapper) Wrap(originalBody, translatedBody, originalTitle, translatedTitle string) string {
	var b strings.Builder

	writeContainer(&b, w.SourceLang, originalBody, false)
	b.WriteString("\n\n")
	writeContainer(&b, w.TargetLang, translatedBody, true)
	b.WriteString("\n\n")

	titles, _ := json.Marshal(map[string]string{
		w.SourceLang: originalTitle,
		w.TargetLang: translatedTitle,
	})
	fmt.Fprintf(&b, "<script>window.%s = %s;</script>\n", TitlesGlobal, titles)

	return b.String()
}

func writeContainer(b *strings.Builder, lang, body string, hidden bool) {
	htmlLang := ToHTMLLang(lang)
	fmt.Fprintf(b, `<div class="%s" data-lang="%s" lang="%s"`, LangContainerClass, htmlLang, htmlLang)
	if hidden {
		b.WriteString(` hidden`)
	}
	b.WriteString(">\n\n")
	b.WriteString(strings.TrimSpace(body))
	b.WriteString("\n\n</div>")
}
