// Package adf handles the tracker's rich-text document format for
// worklog comments: a nested tree of typed block and inline nodes.
// Extraction is a lossy one-way projection to plain text; submission
// wraps plain text back into a single-paragraph document.
package adf

// Node is one node of a rich-text document tree.
type Node struct {
	Type    string `json:"type"`
	Version int    `json:"version,omitempty"`
	Text    string `json:"text,omitempty"`
	Attrs   *Attrs `json:"attrs,omitempty"`
	Content []Node `json:"content,omitempty"`
}

// Attrs carries the node attributes this client reads. Only inlineCard
// targets matter for plain-text extraction.
type Attrs struct {
	URL string `json:"url,omitempty"`
}

// ExtractPlainText flattens a document tree to plain text. Text leaves
// contribute their literal text and inline cards their target URL.
// Block containers concatenate children with no separator, list
// containers join children with a newline, and list items render as
// "- <children>\n". Unknown node types concatenate their children so
// new tracker node kinds degrade instead of vanishing. A nil node
// yields the empty string.
func ExtractPlainText(n *Node) string {
	if n == nil {
		return ""
	}
	switch n.Type {
	case "text":
		return n.Text
	case "inlineCard":
		if n.Attrs != nil {
			return n.Attrs.URL
		}
		return ""
	case "bulletList", "orderedList":
		out := ""
		for i := range n.Content {
			if i > 0 {
				out += "\n"
			}
			out += ExtractPlainText(&n.Content[i])
		}
		return out
	case "listItem":
		return "- " + joinChildren(n) + "\n"
	default:
		// doc, paragraph, heading, blockquote and anything the tracker
		// invents later.
		return joinChildren(n)
	}
}

func joinChildren(n *Node) string {
	out := ""
	for i := range n.Content {
		out += ExtractPlainText(&n.Content[i])
	}
	return out
}

// FromPlainText wraps text into a single-paragraph document suitable
// for worklog create/update bodies. It does not attempt to reconstruct
// any structure a previous extraction discarded.
func FromPlainText(text string) *Node {
	if text == "" {
		return nil
	}
	return &Node{
		Type:    "doc",
		Version: 1,
		Content: []Node{
			{
				Type:    "paragraph",
				Content: []Node{{Type: "text", Text: text}},
			},
		},
	}
}
