package gemini

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"
)

// ErrNoImage - 응답이 왔지만 이미지 파트가 없는 경우
// 전송 실패와 구분해서 상위에서 별도 분류함
var ErrNoImage = errors.New("no image data in response")

// ImageClient - 이미지 생성용 Gemini 클라이언트
type ImageClient struct {
	client *genai.Client
	model  string
}

// NewImageClient - 이미지 클라이언트 생성 (API 키는 생성 시점에 검증)
func NewImageClient(ctx context.Context, apiKey, modelName string) (*ImageClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini image client: %w", err)
	}

	log.Printf("✅ [Gemini] Image client initialized (model: %s)", modelName)
	return &ImageClient{
		client: client,
		model:  modelName,
	}, nil
}

// GenerateImage - 프롬프트 + 참조 이미지로 이미지 1장 생성
// 재시도 없음: 호출당 1회, 타임아웃은 ctx로 제어
func (c *ImageClient) GenerateImage(ctx context.Context, prompt string, refData []byte, refMimeType string) ([]byte, error) {
	content := &genai.Content{
		Parts: []*genai.Part{
			genai.NewPartFromText(prompt),
			{InlineData: &genai.Blob{MIMEType: refMimeType, Data: refData}},
		},
	}

	genConfig := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	}

	log.Printf("🎨 [Gemini] Generating image (model: %s, prompt length: %d, ref: %d bytes)",
		c.model, len(prompt), len(refData))

	result, err := c.client.Models.GenerateContent(ctx, c.model, []*genai.Content{content}, genConfig)
	if err != nil {
		return nil, fmt.Errorf("image generation call failed: %w", err)
	}

	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				log.Printf("✅ [Gemini] Received image: %d bytes", len(part.InlineData.Data))
				return part.InlineData.Data, nil
			}
		}
	}

	return nil, ErrNoImage
}

// IsUpstreamRejection - 생성 API가 요청 자체를 거부한 에러인지 확인
// (쿼터 초과, 권한, 잘못된 인자 등 - 단순 전송 실패와 구분)
func IsUpstreamRejection(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	for _, marker := range []string{"429", "quota", "rate limit", "permission", "invalid argument", "api error"} {
		if strings.Contains(errStr, marker) {
			return true
		}
	}
	return false
}
