package export

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Section is one heading of the guide and the text written under it.
type Section struct {
	Title    string     `json:"title"`
	Level    int        `json:"level"`
	Text     string     `json:"text,omitempty"`
	Children []*Section `json:"children,omitempty"`
}

// Outline nests the guide's sections by heading level. Text before the
// first heading becomes an untitled level-0 section.
func Outline(guide string) []*Section {
	src := []byte(guide)
	doc := md.Parser().Parse(text.NewReader(src))

	type stackEntry struct {
		node  *Section
		level int
	}
	root := &Section{}
	stack := []stackEntry{{node: root, level: 0}}

	var currentText bytes.Buffer

	flushText := func() {
		t := strings.TrimSpace(currentText.String())
		if t != "" {
			top := stack[len(stack)-1].node
			if top.Text != "" {
				top.Text += "\n\n" + t
			} else {
				top.Text = t
			}
		}
		currentText.Reset()
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			flushText()
			section := &Section{Title: extractText(h, src), Level: h.Level}

			// Pop until the parent is a shallower heading.
			for len(stack) > 1 && stack[len(stack)-1].level >= h.Level {
				stack = stack[:len(stack)-1]
			}
			parent := stack[len(stack)-1].node
			parent.Children = append(parent.Children, section)
			stack = append(stack, stackEntry{node: section, level: h.Level})
			continue
		}

		if t := extractText(n, src); t != "" {
			if currentText.Len() > 0 {
				currentText.WriteString("\n\n")
			}
			currentText.WriteString(t)
		}
	}
	flushText()

	sections := root.Children
	if root.Text != "" {
		sections = append([]*Section{{Text: root.Text}}, sections...)
	}
	return sections
}

// extractText gets the text content of a goldmark AST node.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && n.FirstChild() == nil {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			buf.Write(c.Segment.Value(src))
			if c.HardLineBreak() || c.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(c.Value)
		default:
			if c.Type() == ast.TypeBlock && buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(extractText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
