package bilingo

import (
	"fmt"
	"strings"
)

// Output delimiters the backend is instructed to emit.
const (
	TitleStart   = "[TITLE_START]"
	TitleEnd     = "[TITLE_END]"
	ContentStart = "[CONTENT_START]"
	ContentEnd   = "[CONTENT_END]"
)

// BuildSystemPrompt returns the system prompt for translating from source to
// target language.
func BuildSystemPrompt(sourceLang, targetLang string) string {
	source := GetLanguageName(sourceLang)
	target := GetLanguageName(targetLang)

	return fmt.Sprintf(`# Role
You are a professional technical translator. You translate blog articles from %s to %s.

# Rules
- Translate prose only. Keep the Markdown structure (headings, lists, links, emphasis) intact.
- Placeholders such as [CODE_BLOCK_0] stand for code. Copy every placeholder exactly once, unchanged, in its original position.
- Template tags such as {%% note %%} ... {%% endnote %%} must be copied unchanged. Never add, drop or split a tag pair.
- HTML markup (tags, attributes, quotes) must be copied unchanged. Translate only the visible text between tags.
- Translate the title as well.
- Do NOT add explanations, notes or Markdown code fences around the output.

# Format
Reply with exactly this structure:
%s
translated title
%s
%s
translated content
%s`, source, target, TitleStart, TitleEnd, ContentStart, ContentEnd)
}

// BuildUserMessage returns the user message carrying the title and the
// masked body.
func BuildUserMessage(title, maskedBody string) string {
	var b strings.Builder
	b.WriteString("Title:\n")
	b.WriteString(title)
	b.WriteString("\n\nContent:\n")
	b.WriteString(maskedBody)
	return b.String()
}

// ParseResponse extracts the translated title and body from a delimited
// backend response. Missing content markers or an empty body yield a
// *ParseError. When the title markers are missing, title is empty.
func ParseResponse(content string) (title, body string, err error) {
	body, ok := between(content, ContentStart, ContentEnd)
	if !ok {
		return "", "", &ParseError{Message: "content markers not found"}
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return "", "", &ParseError{Message: "translated content is empty"}
	}

	if t, ok := between(content, TitleStart, TitleEnd); ok {
		title = strings.TrimSpace(t)
	}

	return title, body, nil
}

// between returns the text between the first start marker and the next end
// marker after it.
func between(s, start, end string) (string, bool) {
	i := strings.Index(s, start)
	if i < 0 {
		return "", false
	}
	rest := s[i+len(start):]
	j := strings.Index(rest, end)
	if j < 0 {
		return "", false
	}
	return rest[:j], true
}
