package aplus

import "aplus-content-server/modules/common/model"

// 에러 코드 상수
const (
	ErrCodeInvalidRequest      = "INVALID_REQUEST"
	ErrCodeInputRejected       = "INPUT_REJECTED"
	ErrCodeExtractionFailed    = "EXTRACTION_FAILED"
	ErrCodeGenerationFailed    = "GENERATION_FAILED"
	ErrCodeRegenerationFailed  = "REGENERATION_FAILED"
	ErrCodeRegenerationBusy    = "REGENERATION_BUSY"
	ErrCodeTimeout             = "TIMEOUT"
	ErrCodeTransportFailure    = "TRANSPORT_FAILURE"
	ErrCodeMissingImagePayload = "MISSING_IMAGE_PAYLOAD"
	ErrCodeUpstreamRejected    = "UPSTREAM_REJECTED"
	ErrCodeExportFailed        = "EXPORT_FAILED"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// GenerateAllRequest - 배치 생성 요청
type GenerateAllRequest struct {
	ProductDescription string `json:"productDescription"`
	Base64ImageData    string `json:"base64ImageData"`
	MimeType           string `json:"mimeType"`
	BatchID            string `json:"batchId,omitempty"`
}

// GenerateAllResponse - 배치 생성 응답 (4장 전부 또는 실패)
type GenerateAllResponse struct {
	Success      bool                   `json:"success"`
	BatchID      string                 `json:"batchId,omitempty"`
	Images       []model.GeneratedImage `json:"images,omitempty"`
	ErrorCode    string                 `json:"errorCode,omitempty"`
	ErrorMessage string                 `json:"errorMessage,omitempty"`
}

// RegenerateRequest - 단일 슬롯 재생성 요청 (기존 프롬프트 재사용)
type RegenerateRequest struct {
	SlotID          int    `json:"slotId"`
	Prompt          string `json:"prompt"`
	Base64ImageData string `json:"base64ImageData"`
	MimeType        string `json:"mimeType"`
}

// RegenerateResponse - 단일 슬롯 재생성 응답
type RegenerateResponse struct {
	Success      bool                  `json:"success"`
	Image        *model.GeneratedImage `json:"image,omitempty"`
	ErrorCode    string                `json:"errorCode,omitempty"`
	ErrorMessage string                `json:"errorMessage,omitempty"`
}

// NormalizeRequest - 텍스트 정제 요청
type NormalizeRequest struct {
	RawText string `json:"rawText"`
}

// NormalizeResponse - 텍스트 정제 응답
type NormalizeResponse struct {
	Success     bool   `json:"success"`
	CleanedText string `json:"cleanedText"`
}

// ExportRequest - 완성 이미지 내보내기 요청
type ExportRequest struct {
	Images []model.GeneratedImage `json:"images"`
}

// ExportResponse - 내보내기 응답
type ExportResponse struct {
	Success      bool     `json:"success"`
	Files        []string `json:"files,omitempty"`
	ErrorCode    string   `json:"errorCode,omitempty"`
	ErrorMessage string   `json:"errorMessage,omitempty"`
}
