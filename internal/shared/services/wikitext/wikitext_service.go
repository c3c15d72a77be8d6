// Package wikitext converts stored HTML message bodies into Jira wiki markup.
// Conversion is pure: HTML is parsed into a small block tree, then rendered.
// Unsupported constructs degrade to their text content rather than failing.
package wikitext

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"
)

// BlockKind identifies a node in the converted document tree.
type BlockKind string

const (
	BlockParagraph BlockKind = "paragraph"
	BlockListItem  BlockKind = "list_item"
	BlockImage     BlockKind = "image"
)

// Block is one node of the converted document.
type Block struct {
	Kind  BlockKind
	Text  string
	Image *InlineImage
}

// Document is the structured form of a converted message body.
type Document struct {
	Blocks []Block
}

// InlineImage is an image reference discovered during conversion whose source
// pointed into the old helpdesk host. Name doubles as the upload placeholder.
type InlineImage struct {
	Name string
	URL  string
}

// NameResolver maps an upload hash (the basename of a rewritten URL) to the
// attachment's original filename. Returning "" keeps the hash as the name.
type NameResolver func(hash string) string

type Service interface {
	// Convert parses an HTML body into a document tree. Images whose src
	// contains the old host prefix are rewritten to the new prefix and
	// replaced with upload placeholders.
	Convert(body string, resolve NameResolver) (*Document, error)

	// Render flattens a document tree into Jira wiki markup.
	Render(doc *Document) string
}

type serviceImpl struct {
	oldHostPrefix string
	newHostPrefix string
	stripPolicy   *bluemonday.Policy
}

func NewService(oldHostPrefix, newHostPrefix string) Service {
	return &serviceImpl{
		oldHostPrefix: oldHostPrefix,
		newHostPrefix: newHostPrefix,
		stripPolicy:   bluemonday.StrictPolicy(),
	}
}

var collapseNewlines = regexp.MustCompile(`\n{3,}`)

func (s *serviceImpl) Convert(body string, resolve NameResolver) (*Document, error) {
	decoded, err := decodeBody(body)
	if err != nil {
		return nil, err
	}

	root, err := html.Parse(strings.NewReader(decoded))
	if err != nil {
		// Parse errors are rare (the tokenizer is forgiving); degrade to
		// stripped plain text instead of dropping the message.
		text := strings.TrimSpace(s.stripPolicy.Sanitize(decoded))
		if text == "" {
			return &Document{}, nil
		}
		return &Document{Blocks: []Block{{Kind: BlockParagraph, Text: text}}}, nil
	}

	w := &walker{svc: s, resolve: resolve}
	w.walk(root)
	w.flush()

	return &Document{Blocks: w.blocks}, nil
}

func (s *serviceImpl) Render(doc *Document) string {
	var b strings.Builder
	for _, blk := range doc.Blocks {
		switch blk.Kind {
		case BlockListItem:
			b.WriteString("* ")
			b.WriteString(blk.Text)
			b.WriteString("\n")
		case BlockImage:
			fmt.Fprintf(&b, "!%s!\n", blk.Image.Name)
		default:
			b.WriteString(blk.Text)
			b.WriteString("\n\n")
		}
	}
	out := collapseNewlines.ReplaceAllString(b.String(), "\n\n")
	return strings.TrimSpace(out)
}

// decodeBody validates the body encoding. Bodies that are not valid UTF-8 are
// re-decoded as Latin-1; bodies containing NUL bytes are considered
// undecodable and rejected.
func decodeBody(body string) (string, error) {
	if strings.ContainsRune(body, 0) {
		return "", fmt.Errorf("body contains NUL bytes")
	}
	if utf8.ValidString(body) {
		return body, nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().String(body)
	if err != nil {
		return "", fmt.Errorf("body is not valid UTF-8 and Latin-1 fallback failed: %w", err)
	}
	return decoded, nil
}

// walker accumulates blocks while traversing the parse tree. Text of nested
// unsupported elements collapses into the enclosing paragraph.
type walker struct {
	svc     *serviceImpl
	resolve NameResolver

	blocks []Block
	para   strings.Builder
	inItem bool
}

func (w *walker) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.para.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "head":
			return
		case "br":
			w.para.WriteString("\n")
			return
		case "img":
			w.handleImage(n)
			return
		case "li":
			w.flush()
			w.inItem = true
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				w.walk(c)
			}
			w.flush()
			w.inItem = false
			return
		case "p", "div", "table", "tr", "blockquote", "h1", "h2", "h3", "h4", "h5", "h6":
			w.flush()
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				w.walk(c)
			}
			w.flush()
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

func (w *walker) handleImage(n *html.Node) {
	src := attr(n, "src")
	if src == "" {
		return
	}
	if w.svc.oldHostPrefix == "" || !strings.Contains(src, w.svc.oldHostPrefix) {
		// Foreign image: keep the URL as text so the reference survives.
		w.para.WriteString(src)
		return
	}

	rewritten := strings.Replace(src, w.svc.oldHostPrefix, w.svc.newHostPrefix, 1)
	hash := baseName(rewritten)
	name := hash
	if w.resolve != nil {
		if resolved := w.resolve(hash); resolved != "" {
			name = resolved
		}
	}

	w.flush()
	w.blocks = append(w.blocks, Block{
		Kind:  BlockImage,
		Image: &InlineImage{Name: name, URL: rewritten},
	})
}

func (w *walker) flush() {
	text := strings.TrimSpace(w.para.String())
	w.para.Reset()
	if text == "" {
		return
	}
	kind := BlockParagraph
	if w.inItem {
		kind = BlockListItem
	}
	w.blocks = append(w.blocks, Block{Kind: kind, Text: text})
}

// attr returns the value of the named attribute, or "" when absent.
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// baseName extracts the final path segment of a URL, dropping any query.
func baseName(url string) string {
	s := url
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		s = s[i+1:]
	}
	return s
}

// InlineImages collects the image references of a document in order.
func (d *Document) InlineImages() []InlineImage {
	var images []InlineImage
	for _, blk := range d.Blocks {
		if blk.Kind == BlockImage && blk.Image != nil {
			images = append(images, *blk.Image)
		}
	}
	return images
}
