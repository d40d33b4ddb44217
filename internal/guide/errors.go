package guide

import "errors"

// MsgGenerationFailed is shown instead of the backend's error detail.
const MsgGenerationFailed = "기획 가이드 생성 중 오류가 발생했습니다. 잠시 후 다시 시도해 주세요."

// ErrEmptyResponse is returned by completers that got no text back.
var ErrEmptyResponse = errors.New("empty response from model")

// GenerationError wraps any completer-side failure.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string { return "generate guide: " + e.Err.Error() }

func (e *GenerationError) Unwrap() error { return e.Err }

func (e *GenerationError) UserMessage() string { return MsgGenerationFailed }
