package processor

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/ZaguanLabs/bilingo"
)

const page = `<!DOCTYPE html>
<html>
<head><title>你好 | Blog</title></head>
<body><h1 class="post-title">你好</h1><p>正文</p></body>
</html>`

func parse(t *testing.T, s string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return doc
}

func TestInjector_Inject(t *testing.T) {
	inj := NewInjector("zh", "en")
	pairs := []bilingo.TitlePair{{Original: "你好", Translated: "Hello"}}

	out, err := inj.Inject(page, pairs)
	if err != nil {
		t.Fatalf("Inject failed: %v", err)
	}

	doc := parse(t, out)
	if lang, _ := doc.Find("html").Attr("lang"); lang != "zh" {
		t.Errorf("Expected lang zh, got %q", lang)
	}
	if target, _ := doc.Find("html").Attr("data-bilingo-target"); target != "en" {
		t.Errorf("Expected target en, got %q", target)
	}

	for _, id := range []string{StyleID, TitlesID, ToggleID} {
		if n := doc.Find("head #" + id).Length(); n != 1 {
			t.Errorf("Expected one #%s in head, got %d", id, n)
		}
	}

	titles := doc.Find("#" + TitlesID).Text()
	if !strings.Contains(titles, TitlePairsGlobal) {
		t.Errorf("Titles script should assign %s: %s", TitlePairsGlobal, titles)
	}
	if !strings.Contains(titles, `"translated":"Hello"`) {
		t.Errorf("Titles script should carry pairs: %s", titles)
	}
	if !strings.Contains(doc.Find("#"+ToggleID).Text(), "bilingoToggle") {
		t.Error("Toggle script missing")
	}

	// Body untouched
	if doc.Find("body p").Text() != "正文" {
		t.Error("Body content should be preserved")
	}
}

func TestInjector_Idempotent(t *testing.T) {
	inj := NewInjector("zh", "en")

	once, err := inj.Inject(page, []bilingo.TitlePair{{Original: "a", Translated: "A"}})
	if err != nil {
		t.Fatalf("Inject failed: %v", err)
	}
	twice, err := inj.Inject(once, []bilingo.TitlePair{{Original: "b", Translated: "B"}})
	if err != nil {
		t.Fatalf("Inject failed: %v", err)
	}

	doc := parse(t, twice)
	if n := doc.Find("#" + ToggleID).Length(); n != 1 {
		t.Errorf("Expected one toggle script, got %d", n)
	}
	titles := doc.Find("#" + TitlesID).Text()
	if strings.Contains(titles, `"A"`) || !strings.Contains(titles, `"B"`) {
		t.Errorf("Second injection should replace pairs: %s", titles)
	}
}

func TestInjector_EscapesScriptClose(t *testing.T) {
	inj := NewInjector("zh", "en")
	out, err := inj.Inject(page, []bilingo.TitlePair{{Original: "x", Translated: "</script><b>y"}})
	if err != nil {
		t.Fatalf("Inject failed: %v", err)
	}
	if strings.Contains(out, "</script><b>") {
		t.Error("Title pairs must not terminate the script element")
	}
}

func TestInjector_NilPairs(t *testing.T) {
	out, err := NewInjector("", "").Inject(page, nil)
	if err != nil {
		t.Fatalf("Inject failed: %v", err)
	}
	if !strings.Contains(out, "window."+TitlePairsGlobal+" = [];") {
		t.Error("Nil pairs should render as an empty array")
	}
}

func TestInjector_RTLSource(t *testing.T) {
	out, err := NewInjector("ar", "en").Inject(page, nil)
	if err != nil {
		t.Fatalf("Inject failed: %v", err)
	}
	if dir, _ := parse(t, out).Find("html").Attr("dir"); dir != "rtl" {
		t.Errorf("Expected dir rtl, got %q", dir)
	}
}

func TestIsPage(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"doctype", "<!DOCTYPE html><html></html>", true},
		{"html tag", "<html lang=\"en\"><body></body></html>", true},
		{"fragment", "<div>hi</div>", false},
		{"css", "body { color: red }", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPage(tt.content); got != tt.want {
				t.Errorf("IsPage() = %v, want %v", got, tt.want)
			}
		})
	}
}
