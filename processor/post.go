package processor

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ZaguanLabs/bilingo"
	"gopkg.in/yaml.v3"
)

// frontMatterBlock matches a YAML front matter block at the start of a file.
var frontMatterBlock = regexp.MustCompile(`(?s)^---\r?\n(?:(.*?)\r?\n)?---[ \t]*(?:\r?\n|$)`)

// Post is a markdown source file split into front matter and body. The front
// matter is kept as a yaml.Node so unknown keys survive a round trip.
type Post struct {
	Source string
	Body   string

	fm *yaml.Node // mapping node, nil when the file has no front matter
}

// ReadPost reads and parses the post at root/source.
func ReadPost(root, source string) (*Post, error) {
	data, err := os.ReadFile(filepath.Join(root, source)) // #nosec G304 - site source tree
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", source, err)
	}
	return ParsePost(source, data)
}

// ParsePost parses markdown data. source is the stable identifier of the post
// relative to the site source directory.
func ParsePost(source string, data []byte) (*Post, error) {
	p := &Post{Source: filepath.ToSlash(source)}
	text := string(data)

	m := frontMatterBlock.FindStringSubmatchIndex(text)
	if m == nil {
		p.Body = text
		return p, nil
	}

	var raw string
	if m[2] >= 0 {
		raw = text[m[2]:m[3]]
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("parsing front matter of %s: %w", source, err)
	}
	if len(doc.Content) > 0 {
		root := doc.Content[0]
		if root.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("front matter of %s is not a mapping", source)
		}
		p.fm = root
	} else {
		p.fm = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	}
	p.Body = text[m[1]:]
	return p, nil
}

func (p *Post) lookup(key string) *yaml.Node {
	if p.fm == nil {
		return nil
	}
	for i := 0; i+1 < len(p.fm.Content); i += 2 {
		if p.fm.Content[i].Value == key {
			return p.fm.Content[i+1]
		}
	}
	return nil
}

func (p *Post) scalar(key string) string {
	if n := p.lookup(key); n != nil && n.Kind == yaml.ScalarNode {
		return n.Value
	}
	return ""
}

// Title returns the title key of the front matter.
func (p *Post) Title() string {
	return p.scalar("title")
}

// Layout returns the layout key. Files under _posts default to "post" and
// everything else to "page".
func (p *Post) Layout() string {
	if l := p.scalar("layout"); l != "" {
		return l
	}
	if strings.HasPrefix(p.Source, "_posts/") || strings.Contains(p.Source, "/_posts/") {
		return "post"
	}
	return "page"
}

// OptedOut reports whether the front matter sets translate: false.
func (p *Post) OptedOut() bool {
	n := p.lookup("translate")
	if n == nil || n.Kind != yaml.ScalarNode {
		return false
	}
	var v bool
	if err := n.Decode(&v); err != nil {
		return false
	}
	return !v
}

// SetTitle sets the title key, adding it when missing.
func (p *Post) SetTitle(title string) {
	if p.fm == nil {
		p.fm = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	}
	if n := p.lookup("title"); n != nil {
		n.Kind = yaml.ScalarNode
		n.Tag = "!!str"
		n.Value = title
		n.Style = 0
		return
	}
	p.fm.Content = append(p.fm.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "title"},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: title},
	)
}

// Item converts the post into a content item.
func (p *Post) Item() bilingo.ContentItem {
	return bilingo.ContentItem{
		Source: p.Source,
		Title:  p.Title(),
		Body:   p.Body,
		Layout: p.Layout(),
		Skip:   p.OptedOut(),
	}
}

// Apply copies a processed item's title and body back into the post.
func (p *Post) Apply(item bilingo.ContentItem) {
	if item.Title != p.Title() {
		p.SetTitle(item.Title)
	}
	p.Body = item.Body
}

// Marshal renders the post back to markdown.
func (p *Post) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if p.fm != nil {
		var fm bytes.Buffer
		enc := yaml.NewEncoder(&fm)
		enc.SetIndent(2)
		if err := enc.Encode(p.fm); err != nil {
			return nil, fmt.Errorf("encoding front matter of %s: %w", p.Source, err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encoding front matter of %s: %w", p.Source, err)
		}
		buf.WriteString("---\n")
		if len(p.fm.Content) > 0 {
			buf.Write(fm.Bytes())
		}
		buf.WriteString("---\n")
	}
	buf.WriteString(p.Body)
	return buf.Bytes(), nil
}

// WritePost writes the post to root/<post source>, creating directories as
// needed.
func WritePost(root string, p *Post) error {
	data, err := p.Marshal()
	if err != nil {
		return err
	}
	path := filepath.Join(root, filepath.FromSlash(p.Source))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
