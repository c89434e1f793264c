package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"aplus-content-server/modules/common/config"
	"aplus-content-server/modules/common/imgutil"
)

// Client - 완성 이미지 아카이브 업로드 클라이언트 (Supabase Storage)
// SUPABASE_URL 미설정이면 사용하지 않음
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// NewClient - 아카이브 클라이언트 생성. 미설정이면 nil 반환
func NewClient(cfg *config.Config) *Client {
	if cfg.SupabaseURL == "" || cfg.SupabaseServiceKey == "" {
		return nil
	}

	log.Printf("✅ [Storage] Archive client initialized: %s", cfg.SupabaseURL)
	return &Client{
		baseURL:    cfg.SupabaseURL,
		serviceKey: cfg.SupabaseServiceKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// ArchiveImage - 워터마크 완료된 PNG를 WebP로 변환해서 Storage에 업로드
func (c *Client) ArchiveImage(ctx context.Context, pngData []byte, fileName string) (string, error) {
	// WebP 변환 (quality: 90)
	webpData, err := imgutil.ConvertToWebP(pngData, 90.0)
	if err != nil {
		return "", fmt.Errorf("failed to convert image for archive: %w", err)
	}

	timestamp := time.Now().UnixNano() / int64(time.Millisecond)
	filePath := fmt.Sprintf("aplus-exports/%d_%s.webp", timestamp, fileName)

	log.Printf("📤 [Storage] Uploading archive image: %s", filePath)

	uploadURL := fmt.Sprintf("%s/storage/v1/object/attachments/%s", c.baseURL, filePath)

	req, err := http.NewRequestWithContext(ctx, "POST", uploadURL, bytes.NewReader(webpData))
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", "image/webp")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload archive image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("archive upload failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	log.Printf("✅ [Storage] Archive uploaded: %s (%d bytes)", filePath, len(webpData))
	return filePath, nil
}
