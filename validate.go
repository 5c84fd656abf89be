package bilingo

import (
	"regexp"
	"strings"
)

// TemplateTags lists block-style template tags whose opening and closing
// forms must stay balanced. Closing form is "{% end<name> %}".
var TemplateTags = []string{
	"note",
	"tabs",
	"tab",
	"raw",
	"codeblock",
	"blockquote",
	"folding",
	"hideToggle",
	"gallery",
	"timeline",
	"btns",
	"mermaid",
}

// malformedAttr matches an attribute value that closes with `">` without an
// opening quote, e.g. <a href=foo">.
var malformedAttr = regexp.MustCompile(`\s[A-Za-z_:][-A-Za-z0-9_:.]*=[^"'\s<>]+">`)

// tagNameToken matches the start of a well-formed template tag after "{%".
var tagNameToken = regexp.MustCompile(`^-?\s*[A-Za-z_][A-Za-z0-9_-]*`)

var tagPatterns = buildTagPatterns(TemplateTags)

type tagPattern struct {
	name  string
	open  *regexp.Regexp
	close *regexp.Regexp
}

func buildTagPatterns(tags []string) []tagPattern {
	patterns := make([]tagPattern, 0, len(tags))
	for _, tag := range tags {
		q := regexp.QuoteMeta(tag)
		patterns = append(patterns, tagPattern{
			name:  tag,
			open:  regexp.MustCompile(`\{%-?\s*` + q + `(\s[^%]*)?-?%\}`),
			close: regexp.MustCompile(`\{%-?\s*end` + q + `\s*-?%\}`),
		})
	}
	return patterns
}

// ValidateOutput checks translated content for structural damage. It returns
// a *ValidationError for malformed attribute syntax and a *TagMismatchError
// for unbalanced template tags.
func ValidateOutput(content string) error {
	if m := malformedAttr.FindString(content); m != "" {
		return &ValidationError{Message: "malformed HTML attribute", Snippet: m}
	}

	for _, p := range tagPatterns {
		open := len(p.open.FindAllStringIndex(content, -1))
		closing := len(p.close.FindAllStringIndex(content, -1))
		if open != closing {
			return &TagMismatchError{Tag: p.name, Open: open, Close: closing}
		}
	}

	return nil
}

// EscapeStrayTemplateSyntax replaces "{%" with its HTML entity form wherever
// it is not followed by a tag name, so the generator does not try to render
// malformed template syntax.
func EscapeStrayTemplateSyntax(content string) string {
	if !strings.Contains(content, "{%") {
		return content
	}

	var b strings.Builder
	rest := content
	for {
		i := strings.Index(rest, "{%")
		if i < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:i])
		after := rest[i+2:]
		if tagNameToken.MatchString(after) {
			b.WriteString("{%")
		} else {
			b.WriteString("&#123;%")
		}
		rest = after
	}
	return b.String()
}
