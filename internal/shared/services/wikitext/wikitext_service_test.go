package wikitext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() Service {
	return NewService("https://old.example.com", "https://new.example.com")
}

func convert(t *testing.T, body string, resolve NameResolver) string {
	t.Helper()
	svc := newTestService()
	doc, err := svc.Convert(body, resolve)
	require.NoError(t, err)
	return svc.Render(doc)
}

func TestConvert_Paragraphs(t *testing.T) {
	got := convert(t, "<p>first</p><p>second</p>", nil)
	assert.Equal(t, "first\n\nsecond", got)
}

func TestConvert_LineBreaks(t *testing.T) {
	got := convert(t, "<p>line one<br>line two</p>", nil)
	assert.Equal(t, "line one\nline two", got)
}

func TestConvert_ListItems(t *testing.T) {
	got := convert(t, "<ul><li>alpha</li><li>beta</li></ul>", nil)
	assert.Equal(t, "* alpha\n* beta", got)
}

func TestConvert_PlainTextPassesThrough(t *testing.T) {
	got := convert(t, "just text, no markup", nil)
	assert.Equal(t, "just text, no markup", got)
}

func TestConvert_ScriptAndStyleDropped(t *testing.T) {
	got := convert(t, "<p>visible</p><script>alert(1)</script><style>p{}</style>", nil)
	assert.Equal(t, "visible", got)
}

func TestConvert_InlineImageRewrittenToPlaceholder(t *testing.T) {
	svc := newTestService()
	doc, err := svc.Convert(`<p>see:</p><img src="https://old.example.com/files/abc123?token=1">`, nil)
	require.NoError(t, err)

	images := doc.InlineImages()
	require.Len(t, images, 1)
	assert.Equal(t, "abc123", images[0].Name)
	assert.Equal(t, "https://new.example.com/files/abc123?token=1", images[0].URL)

	assert.Equal(t, "see:\n\n!abc123!", svc.Render(doc))
}

func TestConvert_InlineImageNameResolved(t *testing.T) {
	resolve := func(hash string) string {
		if hash == "abc123" {
			return "jam-photo.png"
		}
		return ""
	}
	svc := newTestService()
	doc, err := svc.Convert(`<img src="https://old.example.com/files/abc123">`, resolve)
	require.NoError(t, err)

	images := doc.InlineImages()
	require.Len(t, images, 1)
	assert.Equal(t, "jam-photo.png", images[0].Name)
	assert.Equal(t, "!jam-photo.png!", svc.Render(doc))
}

func TestConvert_ImageSrcFoundAmongOtherAttributes(t *testing.T) {
	svc := newTestService()
	doc, err := svc.Convert(`<img alt="jam" class="embed" src="https://old.example.com/files/abc123">`, nil)
	require.NoError(t, err)

	images := doc.InlineImages()
	require.Len(t, images, 1)
	assert.Equal(t, "abc123", images[0].Name)
}

func TestConvert_ImageWithoutSrcDropped(t *testing.T) {
	svc := newTestService()
	doc, err := svc.Convert(`<p>text</p><img alt="no source">`, nil)
	require.NoError(t, err)

	assert.Empty(t, doc.InlineImages())
	assert.Equal(t, "text", svc.Render(doc))
}

func TestConvert_ForeignImageKeptAsURL(t *testing.T) {
	svc := newTestService()
	doc, err := svc.Convert(`<p>look</p><img src="https://elsewhere.example.org/pic.png">`, nil)
	require.NoError(t, err)

	assert.Empty(t, doc.InlineImages())
	assert.Contains(t, svc.Render(doc), "https://elsewhere.example.org/pic.png")
}

func TestConvert_NulBytesRejected(t *testing.T) {
	svc := newTestService()
	_, err := svc.Convert("broken\x00body", nil)
	assert.Error(t, err)
}

func TestConvert_InvalidUTF8FallsBackToLatinOne(t *testing.T) {
	got := convert(t, "<p>caf\xe9</p>", nil)
	assert.Equal(t, "café", got)
}

func TestConvert_EmptyBody(t *testing.T) {
	assert.Equal(t, "", convert(t, "", nil))
	assert.Equal(t, "", convert(t, "<p>   </p>", nil))
}

func TestRender_CollapsesExcessBlankLines(t *testing.T) {
	got := convert(t, "<div><p>a</p></div><div></div><div><p>b</p></div>", nil)
	assert.Equal(t, "a\n\nb", got)
}

func TestConvert_NestedMarkupCollapsesIntoParagraph(t *testing.T) {
	got := convert(t, "<p><strong>bold</strong> and <em>italic</em></p>", nil)
	assert.Equal(t, "bold and italic", got)
}
