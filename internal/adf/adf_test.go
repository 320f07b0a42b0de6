package adf

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func text(s string) Node { return Node{Type: "text", Text: s} }

func TestExtractSimpleParagraph(t *testing.T) {
	doc := &Node{
		Type:    "doc",
		Content: []Node{{Type: "paragraph", Content: []Node{text("abc")}}},
	}
	assert.Equal(t, "abc", ExtractPlainText(doc))
}

func TestExtractBulletList(t *testing.T) {
	doc := &Node{
		Type: "bulletList",
		Content: []Node{
			{Type: "listItem", Content: []Node{{Type: "paragraph", Content: []Node{text("x")}}}},
			{Type: "listItem", Content: []Node{{Type: "paragraph", Content: []Node{text("y")}}}},
		},
	}
	assert.Equal(t, "- x\n\n- y\n", ExtractPlainText(doc))
}

func TestExtractInlineCard(t *testing.T) {
	doc := &Node{
		Type: "doc",
		Content: []Node{{
			Type: "paragraph",
			Content: []Node{
				text("see "),
				{Type: "inlineCard", Attrs: &Attrs{URL: "https://example.net/browse/AB-1"}},
			},
		}},
	}
	assert.Equal(t, "see https://example.net/browse/AB-1", ExtractPlainText(doc))
}

func TestExtractBlockContainersConcatenate(t *testing.T) {
	doc := &Node{
		Type: "doc",
		Content: []Node{
			{Type: "heading", Content: []Node{text("title")}},
			{Type: "blockquote", Content: []Node{
				{Type: "paragraph", Content: []Node{text("quoted")}},
			}},
		},
	}
	assert.Equal(t, "titlequoted", ExtractPlainText(doc))
}

func TestExtractUnknownTypeFallsBackToChildren(t *testing.T) {
	doc := &Node{
		Type:    "mediaSingle",
		Content: []Node{text("caption")},
	}
	assert.Equal(t, "caption", ExtractPlainText(doc))
}

func TestExtractNil(t *testing.T) {
	assert.Equal(t, "", ExtractPlainText(nil))
}

func TestExtractFromTrackerJSON(t *testing.T) {
	raw := `{"type":"doc","version":1,"content":[{"type":"orderedList","content":[
		{"type":"listItem","content":[{"type":"paragraph","content":[{"type":"text","text":"first"}]}]},
		{"type":"listItem","content":[{"type":"paragraph","content":[{"type":"text","text":"second"}]}]}
	]}]}`
	var doc Node
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, "- first\n\n- second\n", ExtractPlainText(&doc))
}

func TestFromPlainText(t *testing.T) {
	doc := FromPlainText("worked on parser")
	require.NotNil(t, doc)
	assert.Equal(t, "doc", doc.Type)
	assert.Equal(t, 1, doc.Version)
	require.Len(t, doc.Content, 1)
	assert.Equal(t, "paragraph", doc.Content[0].Type)
	assert.Equal(t, "worked on parser", ExtractPlainText(doc))
}

func TestFromPlainTextEmpty(t *testing.T) {
	assert.Nil(t, FromPlainText(""))
}
