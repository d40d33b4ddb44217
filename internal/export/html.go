// Package export renders a generated guide (markdown) for download.
package export

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML converts the guide markdown to an HTML fragment. Raw HTML in the
// model output is not passed through.
func HTML(guide string) ([]byte, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(guide), &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return buf.Bytes(), nil
}

// HTMLPage wraps the rendered guide in a standalone UTF-8 page.
func HTMLPage(title, guide string) ([]byte, error) {
	body, err := HTML(guide)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<!DOCTYPE html>\n<html lang=\"ko\">\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n", html.EscapeString(title))
	buf.Write(body)
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes(), nil
}
