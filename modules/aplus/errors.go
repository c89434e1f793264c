package aplus

import (
	"context"
	"errors"
	"fmt"

	"aplus-content-server/modules/common/gemini"
)

// PipelineError - 파이프라인 단계별 에러 (코드 + 메시지 + 원인)
type PipelineError struct {
	Code    string
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// newPipelineError - 코드/메시지로 PipelineError 생성
func newPipelineError(code, message string, err error) *PipelineError {
	return &PipelineError{Code: code, Message: message, Err: err}
}

// classifyGenerationError - 이미지 생성 1건의 실패 원인 분류
// 타임아웃 / 이미지 없음 / 업스트림 거부 / 전송 실패 순으로 판정
func classifyGenerationError(err error, timeoutSec int) *PipelineError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return newPipelineError(ErrCodeTimeout,
			fmt.Sprintf("request timed out after %ds", timeoutSec), err)
	case errors.Is(err, gemini.ErrNoImage):
		return newPipelineError(ErrCodeMissingImagePayload,
			"generation response contained no image payload", err)
	case gemini.IsUpstreamRejection(err):
		return newPipelineError(ErrCodeUpstreamRejected,
			"generation request was rejected upstream", err)
	default:
		return newPipelineError(ErrCodeTransportFailure,
			"generation call failed in transport", err)
	}
}

// ErrorCodeOf - 응답 매핑용: PipelineError면 코드, 아니면 fallback
func ErrorCodeOf(err error, fallbackCode string) string {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return fallbackCode
}

// ErrorMessageOf - 응답 매핑용: PipelineError면 메시지, 아니면 err.Error()
func ErrorMessageOf(err error) string {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Message
	}
	return err.Error()
}
