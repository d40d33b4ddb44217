package intake

import (
	"errors"
	"fmt"
)

// User-facing messages shown when ingestion fails.
const (
	MsgWrongType   = "PDF 파일만 업로드할 수 있습니다."
	MsgReadFailed  = "파일을 읽는 중 오류가 발생했습니다."
	MsgParseFailed = "PDF 파일을 처리하는 중 오류가 발생했습니다."
)

// ErrTooLarge is wrapped by read failures caused by the upload size limit.
var ErrTooLarge = errors.New("file exceeds max size")

// TooLargeError reports an upload cut off by a transport-level size
// limit before it reached Ingest. It fails the same way an oversized
// body inside Ingest does.
func TooLargeError(limit int64, cause error) *ExtractionError {
	return &ExtractionError{
		Message: MsgReadFailed,
		Err:     fmt.Errorf("%w (%d bytes): %w", ErrTooLarge, limit, cause),
	}
}

// ValidationError means the file was rejected before extraction.
type ValidationError struct {
	ContentType string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("unsupported content type %q", e.ContentType)
}

func (e *ValidationError) UserMessage() string { return MsgWrongType }

// ExtractionError means the bytes could not be read or the document
// could not be turned into text.
type ExtractionError struct {
	Message string
	Page    int // 0 when the failure is not tied to a page
	Err     error
}

func (e *ExtractionError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("extract page %d: %v", e.Page, e.Err)
	}
	return fmt.Sprintf("extract: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

func (e *ExtractionError) UserMessage() string { return e.Message }
