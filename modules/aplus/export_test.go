package aplus

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aplus-content-server/modules/common/fallback"
	"aplus-content-server/modules/common/imgutil"
	"aplus-content-server/modules/common/model"
)

// 워터마크를 거친 정상 data URI 생성
func genuineSrc(t *testing.T) string {
	t.Helper()
	src := imgutil.ApplyWatermark(fallback.PlaceholderBytes(), imgutil.WatermarkConfig{
		Text: "Awake Inc.", Opacity: 0.7, Padding: 10, Scale: 2,
	})
	require.NotEqual(t, fallback.PlaceholderDataURI(), src)
	return src
}

func TestExportAll_WritesFilesInSlotOrder(t *testing.T) {
	cfg := testConfig()
	cfg.ExportDir = t.TempDir()
	svc := NewServiceWithClients(cfg, nil, &mockThemeExtractor{}, &mockImageGenerator{})

	src := genuineSrc(t)
	// 입력 순서를 뒤섞어도 슬롯 ID 기준으로 저장
	images := []model.GeneratedImage{
		{ID: 3, Title: "Module 4 (Feature 3)", Src: src},
		{ID: 0, Title: "Module 1 (Header)", Src: src},
		{ID: 2, Title: "Module 3 (Feature 2)", Src: src},
		{ID: 1, Title: "Module 2 (Feature 1)", Src: src},
	}

	files, err := svc.ExportAll(context.Background(), images)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"A+content_image_1.png",
		"A+content_image_2.png",
		"A+content_image_3.png",
		"A+content_image_4.png",
	}, files)

	for _, name := range files {
		data, err := os.ReadFile(filepath.Join(cfg.ExportDir, name))
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	}
}

func TestExportAll_SkipsPlaceholderAndInvalidSrc(t *testing.T) {
	cfg := testConfig()
	cfg.ExportDir = t.TempDir()
	svc := NewServiceWithClients(cfg, nil, &mockThemeExtractor{}, &mockImageGenerator{})

	images := []model.GeneratedImage{
		{ID: 0, Src: genuineSrc(t)},
		{ID: 1, Src: fallback.PlaceholderDataURI()},
		{ID: 2, Src: "not a data uri"},
		{ID: 3, Src: ""},
	}

	files, err := svc.ExportAll(context.Background(), images)

	require.NoError(t, err)
	assert.Equal(t, []string{"A+content_image_1.png"}, files)

	entries, err := os.ReadDir(cfg.ExportDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestExportAll_EmptyInput(t *testing.T) {
	cfg := testConfig()
	cfg.ExportDir = t.TempDir()
	svc := NewServiceWithClients(cfg, nil, &mockThemeExtractor{}, &mockImageGenerator{})

	files, err := svc.ExportAll(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, files)
}
