package processor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ZaguanLabs/bilingo"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element ids of injected nodes. Re-injecting replaces them.
const (
	StyleID  = "bilingo-style"
	TitlesID = "bilingo-titles"
	ToggleID = "bilingo-toggle"
)

// TitlePairsGlobal is the browser global holding every known title pair.
const TitlePairsGlobal = "__bilingoTitlePairs"

const styleCSS = `.bilingo-lang[hidden]{display:none!important}
.bilingo-switch{cursor:pointer;font-size:.875em;margin-left:.5em}`

// toggleJS switches every language container on the page and swaps titles
// (document title, post headings, archive links) using the title pairs.
const toggleJS = `(function(){
  var KEY = "bilingo-lang";
  var html = document.documentElement;
  var source = html.getAttribute("data-bilingo-source");
  var target = html.getAttribute("data-bilingo-target");
  var pairs = window.` + TitlePairsGlobal + ` || [];

  function swapText(el, from, to) {
    var t = el.textContent.trim();
    for (var i = 0; i < pairs.length; i++) {
      if (t === pairs[i][from]) { el.textContent = pairs[i][to]; return; }
    }
  }

  function apply(lang) {
    var containers = document.querySelectorAll(".` + bilingo.LangContainerClass + `");
    if (!containers.length && lang === source) { return; }
    containers.forEach(function(c){
      if (c.getAttribute("data-lang") === lang) { c.removeAttribute("hidden"); }
      else { c.setAttribute("hidden", ""); }
    });
    var from = lang === target ? "original" : "translated";
    var to = lang === target ? "translated" : "original";
    document.querySelectorAll(".post-title, .article-title, h1, a.post-title-link, .archive-article-title").forEach(function(el){
      swapText(el, from, to);
    });
    var titles = window.` + bilingo.TitlesGlobal + `;
    if (titles && titles[lang]) {
      var parts = document.title.split(" | ");
      parts[0] = titles[lang];
      document.title = parts.join(" | ");
    }
    html.setAttribute("lang", lang);
    try { localStorage.setItem(KEY, lang); } catch (e) {}
  }

  function current() {
    try { return localStorage.getItem(KEY) || source; } catch (e) { return source; }
  }

  window.bilingoToggle = function(){ apply(current() === source ? target : source); };

  document.addEventListener("DOMContentLoaded", function(){
    var lang = current();
    if (lang !== source) { apply(lang); }
    document.querySelectorAll(".bilingo-switch").forEach(function(b){
      b.addEventListener("click", window.bilingoToggle);
    });
  });
})();`

// Injector adds client-side language switching to rendered HTML pages.
type Injector struct {
	SourceLang string
	TargetLang string
}

// NewInjector creates an injector for the given language pair.
func NewInjector(sourceLang, targetLang string) *Injector {
	if sourceLang == "" {
		sourceLang = bilingo.DefaultSourceLang
	}
	if targetLang == "" {
		targetLang = bilingo.DefaultTargetLang
	}
	return &Injector{SourceLang: sourceLang, TargetLang: targetLang}
}

// Inject sets the document language and places the style block, the title
// pairs and the toggle script into <head>. Injecting an already processed
// page replaces the previous nodes.
func (i *Injector) Inject(page string, pairs []bilingo.TitlePair) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	htmlSel := doc.Find("html").First()
	source := bilingo.ToHTMLLang(i.SourceLang)
	target := bilingo.ToHTMLLang(i.TargetLang)
	htmlSel.SetAttr("lang", source)
	htmlSel.SetAttr("dir", bilingo.GetDirection(i.SourceLang))
	htmlSel.SetAttr("data-bilingo-source", source)
	htmlSel.SetAttr("data-bilingo-target", target)

	doc.Find("#" + StyleID + ", #" + TitlesID + ", #" + ToggleID).Remove()

	if pairs == nil {
		pairs = []bilingo.TitlePair{}
	}
	pairsJSON, err := json.Marshal(pairs)
	if err != nil {
		return "", fmt.Errorf("encoding title pairs: %w", err)
	}

	head := doc.Find("head").First()
	head.AppendNodes(
		rawElement(atom.Style, StyleID, styleCSS),
		rawElement(atom.Script, TitlesID, fmt.Sprintf("window.%s = %s;", TitlePairsGlobal, pairsJSON)),
		rawElement(atom.Script, ToggleID, toggleJS),
	)

	out, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("failed to serialize HTML: %w", err)
	}
	return out, nil
}

// IsPage reports whether content looks like a full HTML document rather than
// a fragment or non-HTML asset.
func IsPage(content string) bool {
	head := strings.ToLower(content[:min(len(content), 1024)])
	return strings.Contains(head, "<html") || strings.Contains(head, "<!doctype html")
}

// rawElement builds an element whose text is rendered verbatim. The html
// renderer never escapes the children of style and script.
func rawElement(a atom.Atom, id, text string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     []html.Attribute{{Key: "id", Val: id}},
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}
