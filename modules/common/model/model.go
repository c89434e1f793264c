package model

// AplusKeywords - 테마 추출 결과 (4개 슬롯 전부 필수)
type AplusKeywords struct {
	Header   string `json:"header"`
	Feature1 string `json:"feature1"`
	Feature2 string `json:"feature2"`
	Feature3 string `json:"feature3"`
}

// Complete - 4개 필드가 전부 채워졌는지 확인 (부분 결과는 실패 취급)
func (k AplusKeywords) Complete() bool {
	return k.Header != "" && k.Feature1 != "" && k.Feature2 != "" && k.Feature3 != ""
}

// PromptSlot - 슬롯별 이미지 생성 프롬프트
// ID는 0..3 고정: 0 = 헤더, 1~3 = 특징 이미지
type PromptSlot struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Prompt string `json:"prompt"`
}

// GeneratedImage - 생성된 이미지 1장
// Src는 생성 직후에는 raw base64, 워터마크 처리 후에는 data URI
type GeneratedImage struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Prompt string `json:"prompt"`
	Src    string `json:"src"`
}

// ReferenceImage - 업로드된 참조 상품 이미지
type ReferenceImage struct {
	Data     []byte
	MimeType string
}

const (
	// 슬롯 개수 고정 (헤더 1 + 특징 3)
	SlotCount = 4
)
