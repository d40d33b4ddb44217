// Package intake validates an uploaded announcement and extracts its text.
package intake

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"
)

// AcceptedType is the only content type ingested.
const AcceptedType = "application/pdf"

// File is an upload as the presentation layer received it.
type File struct {
	Name        string
	ContentType string // declared type, e.g. from the multipart header
	Body        io.Reader
}

// FileFromPath declares the type of a local file from its extension.
func FileFromPath(path string, body io.Reader) File {
	return File{
		Name:        filepath.Base(path),
		ContentType: mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
		Body:        body,
	}
}

// Extractor opens a document for page-by-page text extraction.
type Extractor interface {
	Open(data []byte) (Pages, error)
}

// Pages is an opened document. Pages are numbered from 1.
type Pages interface {
	PageCount() int
	PageText(n int) (string, error)
}

// Document is the result of a successful ingestion.
type Document struct {
	Filename    string
	Text        string
	Pages       int
	ContentHash string
}

// Intake turns uploads into document text.
type Intake struct {
	extractor Extractor
	maxBytes  int64
	log       *slog.Logger
}

func New(extractor Extractor, maxBytes int64, log *slog.Logger) *Intake {
	return &Intake{extractor: extractor, maxBytes: maxBytes, log: log}
}

// Ingest validates f and extracts its text. Errors are *ValidationError
// or *ExtractionError; no partial text is ever returned.
func (in *Intake) Ingest(ctx context.Context, f File) (Document, error) {
	if !IsAccepted(f.ContentType) {
		return Document{}, &ValidationError{ContentType: f.ContentType}
	}

	data, err := in.read(f.Body)
	if err != nil {
		return Document{}, &ExtractionError{Message: MsgReadFailed, Err: err}
	}

	pages, err := in.open(data)
	if err != nil {
		return Document{}, &ExtractionError{Message: MsgParseFailed, Err: err}
	}

	var buf strings.Builder
	count := pages.PageCount()
	for i := 1; i <= count; i++ {
		if err := ctx.Err(); err != nil {
			return Document{}, &ExtractionError{Message: MsgParseFailed, Page: i, Err: err}
		}
		text, err := pageText(pages, i)
		if err != nil {
			return Document{}, &ExtractionError{Message: MsgParseFailed, Page: i, Err: err}
		}
		buf.WriteString(text)
		buf.WriteString("\n")
	}

	doc := Document{
		Filename:    f.Name,
		Text:        buf.String(),
		Pages:       count,
		ContentHash: ContentHashHex(data),
	}
	in.log.Info("document ingested", "filename", doc.Filename, "pages", doc.Pages, "bytes", len(data), "content_hash", doc.ContentHash[:16])
	return doc, nil
}

func (in *Intake) read(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, errors.New("no file body")
	}
	data, err := io.ReadAll(io.LimitReader(r, in.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > in.maxBytes {
		return nil, fmt.Errorf("%w (%d bytes)", ErrTooLarge, in.maxBytes)
	}
	if len(data) == 0 {
		return nil, errors.New("empty file")
	}
	return data, nil
}

// open and pageText convert panics from the PDF library into errors.
func (in *Intake) open(data []byte) (p Pages, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("open document: panic: %v", r)
		}
	}()
	return in.extractor.Open(data)
}

func pageText(p Pages, n int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return p.PageText(n)
}

// IsAccepted reports whether a declared content type is a PDF.
func IsAccepted(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == AcceptedType
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
