package aplus

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"aplus-content-server/modules/common/fallback"
	"aplus-content-server/modules/common/model"
)

// 내보내기 파일명: A+content_image_1.png ~ A+content_image_4.png
const exportFilenamePrefix = "A+content_image_"

// ExportAll - 완성된 이미지를 슬롯 순서대로 파일로 저장
// 저장 간격을 index * delay 만큼 벌려서 연속 저장 트리거 억제
// placeholder나 비정상 src는 건너뜀 (에러 아님)
func (s *Service) ExportAll(ctx context.Context, images []model.GeneratedImage) ([]string, error) {
	if err := os.MkdirAll(s.cfg.ExportDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	// 완료 순서와 무관하게 슬롯 ID 순서로 저장
	ordered := make([]model.GeneratedImage, len(images))
	copy(ordered, images)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	var files []string
	for index, img := range ordered {
		data, ok := decodeGenuineImage(img.Src)
		if !ok {
			log.Printf("⚠️ [Aplus] Skipping export for slot %d: not a genuine image", img.ID)
			continue
		}

		if index > 0 {
			select {
			case <-time.After(s.cfg.ExportDelay()):
			case <-ctx.Done():
				return files, ctx.Err()
			}
		}

		fileName := fmt.Sprintf("%s%d.png", exportFilenamePrefix, img.ID+1)
		filePath := filepath.Join(s.cfg.ExportDir, fileName)
		if err := os.WriteFile(filePath, data, 0644); err != nil {
			return files, fmt.Errorf("failed to write %s: %w", fileName, err)
		}

		log.Printf("📥 [Aplus] Exported slot %d -> %s (%d bytes)", img.ID, filePath, len(data))
		files = append(files, fileName)

		// 아카이브 설정 시 WebP 변환 후 업로드 (실패해도 export는 계속)
		if s.archive != nil {
			if _, err := s.archive.ArchiveImage(ctx, data, fileName); err != nil {
				log.Printf("⚠️ [Aplus] Archive upload failed for slot %d: %v", img.ID, err)
			}
		}
	}

	return files, nil
}

// decodeGenuineImage - data URI에서 이미지 바이트 추출
// placeholder거나 이미지 data URI가 아니면 false
func decodeGenuineImage(src string) ([]byte, bool) {
	if src == "" || fallback.IsPlaceholder(src) {
		return nil, false
	}
	if !strings.HasPrefix(src, "data:image/") {
		return nil, false
	}

	idx := strings.Index(src, "base64,")
	if idx < 0 {
		return nil, false
	}

	data, err := base64.StdEncoding.DecodeString(src[idx+len("base64,"):])
	if err != nil || len(data) == 0 {
		return nil, false
	}
	return data, true
}
