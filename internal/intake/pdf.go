package intake

import (
	"bytes"
	"fmt"

	pdflib "github.com/ledongthuc/pdf"
)

// PDFExtractor reads PDFs with ledongthuc/pdf straight from memory.
type PDFExtractor struct{}

func (PDFExtractor) Open(data []byte) (Pages, error) {
	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	return &pdfPages{reader: reader}, nil
}

type pdfPages struct {
	reader *pdflib.Reader
}

func (p *pdfPages) PageCount() int {
	return p.reader.NumPage()
}

// PageText returns the plain text of page n. A page with no content
// object yields an empty string.
func (p *pdfPages) PageText(n int) (string, error) {
	page := p.reader.Page(n)
	if page.V.IsNull() {
		return "", nil
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("page %d text: %w", n, err)
	}
	return text, nil
}
