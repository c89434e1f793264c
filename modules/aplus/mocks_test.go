package aplus

import (
	"context"
	"sync"

	"aplus-content-server/modules/common/config"
	"aplus-content-server/modules/common/fallback"
	"aplus-content-server/modules/common/model"
)

// --- Mocks ---

type mockThemeExtractor struct {
	mu       sync.Mutex
	calls    int
	keywords model.AplusKeywords
	err      error
}

func (m *mockThemeExtractor) ExtractKeywords(ctx context.Context, description string) (*model.AplusKeywords, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	kw := m.keywords
	return &kw, nil
}

func (m *mockThemeExtractor) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockImageGenerator struct {
	mu    sync.Mutex
	calls int
	// generate는 호출별 동작 주입용. nil이면 1x1 PNG 반환
	generate func(ctx context.Context, prompt string) ([]byte, error)
}

func (m *mockImageGenerator) GenerateImage(ctx context.Context, prompt string, refData []byte, refMimeType string) ([]byte, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.generate != nil {
		return m.generate(ctx, prompt)
	}
	return fallback.PlaceholderBytes(), nil
}

func (m *mockImageGenerator) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// --- Helpers ---

func testKeywords() model.AplusKeywords {
	return model.AplusKeywords{
		Header:   "premium organic wipes",
		Feature1: "lavender scent",
		Feature2: "multi-surface use",
		Feature3: "80-count eco pack",
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Port:               "8080",
		GeminiAPIKey:       "test-key",
		GeminiTextModel:    "gemini-2.5-flash",
		GeminiImageModel:   "gemini-2.5-flash-image",
		GenerateTimeoutSec: 1,
		WatermarkText:      "Awake Inc.",
		WatermarkOpacity:   0.7,
		WatermarkPadding:   10,
		WatermarkScale:     2,
		ExportDir:          "exports",
		ExportDelayMs:      1,
		MaxUploadBytes:     10 * 1024 * 1024,
		AllowedMimeTypes:   []string{"image/jpeg", "image/png", "image/webp", "image/gif"},
	}
}

func testReference() model.ReferenceImage {
	return model.ReferenceImage{
		Data:     fallback.PlaceholderBytes(),
		MimeType: "image/png",
	}
}

func newTestService(text *mockThemeExtractor, image *mockImageGenerator) *Service {
	return NewServiceWithClients(testConfig(), nil, text, image)
}
