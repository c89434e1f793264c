package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"aplus-content-server/modules/common/model"
)

// 테마 추출용 시스템 프롬프트
// 응답은 responseSchema로 4개 필드 전부 강제됨
const keywordSystemInstruction = `You are an SEO and copywriting expert. Analyze the given A+ content
product description and extract keywords for building image generation prompts.
Split the keywords into exactly these four categories:
- header: a word or phrase that represents the product as a whole
- feature1: the first key feature (e.g. scent, thick material)
- feature2: the second key feature (e.g. multi-purpose, suitable surfaces)
- feature3: the third key feature (e.g. large capacity, eco friendly)
Always answer in JSON.`

// TextClient - 테마 추출용 Gemini 텍스트 클라이언트
type TextClient struct {
	client *genai.Client
	model  string
}

// NewTextClient - 텍스트 클라이언트 생성 (API 키는 생성 시점에 검증)
func NewTextClient(ctx context.Context, apiKey, modelName string) (*TextClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini text client: %w", err)
	}

	log.Printf("✅ [Gemini] Text client initialized (model: %s)", modelName)
	return &TextClient{
		client: client,
		model:  modelName,
	}, nil
}

// Close - 클라이언트 종료
func (c *TextClient) Close() error {
	return c.client.Close()
}

// ExtractKeywords - 상품 설명에서 4개 테마 키워드 추출
// 필드 하나라도 비어 있으면 전체 실패 (부분 결과 없음)
func (c *TextClient) ExtractKeywords(ctx context.Context, description string) (*model.AplusKeywords, error) {
	gm := c.client.GenerativeModel(c.model)
	gm.SetTemperature(0.2)
	gm.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(keywordSystemInstruction)},
	}
	gm.ResponseMIMEType = "application/json"
	gm.ResponseSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"header":   {Type: genai.TypeString},
			"feature1": {Type: genai.TypeString},
			"feature2": {Type: genai.TypeString},
			"feature3": {Type: genai.TypeString},
		},
		Required: []string{"header", "feature1", "feature2", "feature3"},
	}

	log.Printf("📤 [Gemini] Extracting keywords (model: %s, description length: %d)", c.model, len(description))

	resp, err := gm.GenerateContent(ctx, genai.Text(description))
	if err != nil {
		return nil, fmt.Errorf("keyword extraction call failed: %w", err)
	}

	raw, err := firstTextPart(resp)
	if err != nil {
		return nil, err
	}

	keywords, err := decodeKeywords(raw)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ [Gemini] Keywords extracted: header=%q", keywords.Header)
	return keywords, nil
}

// decodeKeywords - 응답 JSON 엄격 디코드
// 필드 누락/빈 값/타입 불일치는 전부 실패 처리 (부분 결과 없음)
func decodeKeywords(raw string) (*model.AplusKeywords, error) {
	var keywords model.AplusKeywords
	if err := json.Unmarshal([]byte(raw), &keywords); err != nil {
		return nil, fmt.Errorf("failed to parse keyword response: %w", err)
	}
	if !keywords.Complete() {
		return nil, fmt.Errorf("incomplete keyword response: %+v", keywords)
	}
	return &keywords, nil
}

// firstTextPart - 응답에서 첫 텍스트 파트 추출
func firstTextPart(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok && len(text) > 0 {
				return string(text), nil
			}
		}
	}

	return "", fmt.Errorf("no text data in response")
}
