package export

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fumiama/go-docx"
	"golang.org/x/net/html"
)

// Heading sizes in half-points, indexed by level.
var headingSize = [...]string{"", "36", "30", "26", "24", "22", "22"}

// DOCX writes the guide as a Word document: markdown is rendered to
// HTML and the HTML block structure is walked into paragraphs.
func DOCX(w io.Writer, title, guide string) error {
	fragment, err := HTML(guide)
	if err != nil {
		return err
	}
	root, err := html.Parse(bytes.NewReader(fragment))
	if err != nil {
		return fmt.Errorf("parse rendered guide: %w", err)
	}

	doc := docx.New().WithDefaultTheme()
	if title != "" {
		doc.AddParagraph().AddText(title).Size(headingSize[1]).Bold()
	}

	b := &docBuilder{doc: doc}
	if body := findBody(root); body != nil {
		b.walk(body, 0)
	} else {
		b.walk(root, 0)
	}

	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}

type docBuilder struct {
	doc *docx.Docx
}

type span struct {
	text string
	bold bool
}

func (b *docBuilder) walk(n *html.Node, depth int) {
	if n.Type == html.ElementNode {
		if level := headingLevel(n.Data); level > 0 {
			if t := textContent(n); t != "" {
				b.doc.AddParagraph().AddText(t).Size(headingSize[level]).Bold()
			}
			return
		}

		switch n.Data {
		case "script", "style":
			return
		case "p", "blockquote", "pre":
			b.paragraph("", inlineSpans(n))
			return
		case "ul", "ol":
			b.list(n, depth)
			return
		case "hr":
			b.doc.AddParagraph()
			return
		case "tr":
			var cells []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
					cells = append(cells, textContent(c))
				}
			}
			b.paragraph("", []span{{text: strings.Join(cells, " | ")}})
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.walk(c, depth)
	}
}

// list writes one paragraph per item, then the item's nested lists one
// level deeper.
func (b *docBuilder) list(n *html.Node, depth int) {
	ordered := n.Data == "ol"
	i := 0
	for li := n.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.Data != "li" {
			continue
		}
		i++
		marker := "• "
		if ordered {
			marker = strconv.Itoa(i) + ". "
		}
		b.paragraph(strings.Repeat("    ", depth)+marker, inlineSpans(li))
		for c := li.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (c.Data == "ul" || c.Data == "ol") {
				b.list(c, depth+1)
			}
		}
	}
}

func (b *docBuilder) paragraph(prefix string, spans []span) {
	if len(spans) == 0 {
		return
	}
	p := b.doc.AddParagraph()
	if prefix != "" {
		p.AddText(prefix)
	}
	for _, s := range spans {
		r := p.AddText(s.text)
		if s.bold {
			r.Bold()
		}
	}
}

// inlineSpans flattens the inline content of a block, keeping bold runs
// and skipping nested lists.
func inlineSpans(n *html.Node) []span {
	var spans []span
	var collect func(*html.Node, bool)
	collect = func(n *html.Node, bold bool) {
		switch n.Type {
		case html.TextNode:
			t := strings.Join(strings.Fields(n.Data), " ")
			if t == "" {
				return
			}
			if strings.HasPrefix(n.Data, " ") && len(spans) > 0 {
				t = " " + t
			}
			if strings.HasSuffix(n.Data, " ") {
				t += " "
			}
			spans = append(spans, span{text: t, bold: bold})
			return
		case html.ElementNode:
			switch n.Data {
			case "ul", "ol":
				return
			case "strong", "b":
				bold = true
			case "br":
				spans = append(spans, span{text: " "})
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c, bold)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collect(c, false)
	}
	return spans
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
