package wizard

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState is returned for events the current state does not accept.
	ErrInvalidState = errors.New("event not valid in current wizard state")

	// ErrBlankAnswer is returned for answers that are empty after trimming.
	ErrBlankAnswer = errors.New("answer is blank")

	// ErrGenerationRunning is returned when Generate is called twice for one run.
	ErrGenerationRunning = errors.New("guide generation already running")
)

const (
	MsgDocumentMissing = "공고문 내용을 사용할 수 없습니다. 파일을 다시 업로드해 주세요."
	MsgUnknown         = "알 수 없는 오류가 발생했습니다."
)

// PreconditionError reports a sequencing defect, such as generating
// without extracted document text.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string { return "precondition failed: " + e.Reason }

func (e *PreconditionError) UserMessage() string { return MsgDocumentMissing }

type userMessager interface {
	UserMessage() string
}

// UserMessage picks the human-readable message carried by err.
func UserMessage(err error) string {
	var um userMessager
	if errors.As(err, &um) {
		return um.UserMessage()
	}
	return MsgUnknown
}

func invalid(event string, s State) error {
	return fmt.Errorf("%s in %s: %w", event, s.Phase(), ErrInvalidState)
}
