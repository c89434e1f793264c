package aplus

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"aplus-content-server/modules/common/config"
	"aplus-content-server/modules/common/gemini"
	"aplus-content-server/modules/common/imgutil"
	"aplus-content-server/modules/common/model"
	"aplus-content-server/modules/common/storage"
	"aplus-content-server/modules/progress"
)

// ThemeExtractor - 상품 설명 → 테마 키워드 4개
type ThemeExtractor interface {
	ExtractKeywords(ctx context.Context, description string) (*model.AplusKeywords, error)
}

// ImageGenerator - 프롬프트 + 참조 이미지 → 이미지 1장
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string, refData []byte, refMimeType string) ([]byte, error)
}

// Service - A+ 콘텐츠 이미지 생성 파이프라인
// 상태 없음: 호출 간 공유 mutable 상태를 갖지 않음 (재진입 안전)
type Service struct {
	text    ThemeExtractor
	image   ImageGenerator
	hub     *progress.Hub
	cfg     *config.Config
	archive *storage.Client
}

// NewService - 실제 Gemini 클라이언트로 서비스 생성
func NewService(ctx context.Context, cfg *config.Config, hub *progress.Hub) (*Service, error) {
	textClient, err := gemini.NewTextClient(ctx, cfg.GeminiAPIKey, cfg.GeminiTextModel)
	if err != nil {
		return nil, fmt.Errorf("failed to init text client: %w", err)
	}

	imageClient, err := gemini.NewImageClient(ctx, cfg.GeminiAPIKey, cfg.GeminiImageModel)
	if err != nil {
		return nil, fmt.Errorf("failed to init image client: %w", err)
	}

	svc := NewServiceWithClients(cfg, hub, textClient, imageClient)
	svc.archive = storage.NewClient(cfg)
	return svc, nil
}

// NewServiceWithClients - 클라이언트 주입 생성자
func NewServiceWithClients(cfg *config.Config, hub *progress.Hub, text ThemeExtractor, image ImageGenerator) *Service {
	return &Service{
		text:  text,
		image: image,
		hub:   hub,
		cfg:   cfg,
	}
}

// Normalize - 텍스트 정제 단독 실행
func (s *Service) Normalize(rawText string) string {
	return ExtractProductInfo(rawText)
}

// GenerateBatch - 설명 + 참조 이미지로 이미지 4장 생성 (all-or-nothing)
// 1장이라도 실패하면 배치 전체 실패, 부분 결과는 반환하지 않음
func (s *Service) GenerateBatch(ctx context.Context, batchID, rawDescription string, ref model.ReferenceImage) ([]model.GeneratedImage, error) {
	// 1. 텍스트 정제
	cleaned := ExtractProductInfo(rawDescription)

	// 2. 테마 추출 (실패 시 이미지 생성 호출 없이 중단)
	keywords, err := s.text.ExtractKeywords(ctx, cleaned)
	if err != nil {
		return nil, newPipelineError(ErrCodeExtractionFailed, "failed to extract themes from description", err)
	}

	// 3. 프롬프트 전개
	slots := BuildSlotPrompts(*keywords)

	for _, slot := range slots {
		s.publish(batchID, slot.ID, progress.StatusQueued, "")
	}

	log.Printf("🎨 [Aplus] Starting batch %s (%d slots, timeout %ds/slot)",
		batchID, len(slots), s.cfg.GenerateTimeoutSec)

	// 4. 병렬 생성: 슬롯별 독립 타임아웃
	// WithContext를 쓰지 않음: 한 슬롯 실패가 나머지 슬롯을 취소하면 안 됨
	// (실패가 확정되면 나머지 결과는 그냥 버린다)
	var eg errgroup.Group
	results := make([]model.GeneratedImage, model.SlotCount)

	for _, slot := range slots {
		slot := slot
		eg.Go(func() error {
			img, err := s.generateSlot(ctx, batchID, slot, ref)
			if err != nil {
				s.publish(batchID, slot.ID, progress.StatusFailed, ErrorMessageOf(err))
				return err
			}
			// 슬롯 ID 자리에 재조립: 완료 순서와 무관하게 0..3 순서 보장
			results[slot.ID] = img
			s.publish(batchID, slot.ID, progress.StatusCompleted, "")
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		log.Printf("❌ [Aplus] Batch %s failed: %v", batchID, err)
		return nil, newPipelineError(ErrCodeGenerationFailed, ErrorMessageOf(err), err)
	}

	log.Printf("✅ [Aplus] Batch %s completed: %d images", batchID, len(results))
	return results, nil
}

// RegenerateSlot - 슬롯 1개만 재생성 (기존 프롬프트 재사용, ID 유지)
// 다른 슬롯에는 어떤 영향도 주지 않음
func (s *Service) RegenerateSlot(ctx context.Context, slotID int, prompt string, ref model.ReferenceImage) (*model.GeneratedImage, error) {
	if slotID < 0 || slotID >= model.SlotCount {
		return nil, newPipelineError(ErrCodeInputRejected,
			fmt.Sprintf("slot id %d is out of range", slotID), nil)
	}

	slot := model.PromptSlot{
		ID:     slotID,
		Title:  slotDirectives[slotID].title,
		Prompt: prompt,
	}

	log.Printf("🔄 [Aplus] Regenerating slot %d", slotID)

	img, err := s.generateSlot(ctx, "", slot, ref)
	if err != nil {
		log.Printf("❌ [Aplus] Slot %d regeneration failed: %v", slotID, err)
		return nil, newPipelineError(ErrCodeRegenerationFailed, ErrorMessageOf(err), err)
	}

	log.Printf("✅ [Aplus] Slot %d regenerated", slotID)
	return &img, nil
}

// generateSlot - 슬롯 1개 생성 + 워터마크
// 타임아웃은 이 호출에만 적용되고 형제 슬롯과 독립적임
func (s *Service) generateSlot(ctx context.Context, batchID string, slot model.PromptSlot, ref model.ReferenceImage) (model.GeneratedImage, error) {
	s.publish(batchID, slot.ID, progress.StatusGenerating, "")

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.GenerateTimeout())
	defer cancel()

	raw, err := s.image.GenerateImage(callCtx, slot.Prompt, ref.Data, ref.MimeType)
	if err != nil {
		return model.GeneratedImage{}, classifyGenerationError(err, s.cfg.GenerateTimeoutSec)
	}

	// 워터마크는 절대 실패하지 않음 (디코드 불가 시 placeholder로 degrade)
	src := imgutil.ApplyWatermark(raw, imgutil.WatermarkConfig{
		Text:    s.cfg.WatermarkText,
		Opacity: s.cfg.WatermarkOpacity,
		Padding: s.cfg.WatermarkPadding,
		Scale:   s.cfg.WatermarkScale,
	})

	return model.GeneratedImage{
		ID:     slot.ID,
		Title:  slot.Title,
		Prompt: slot.Prompt,
		Src:    src,
	}, nil
}

// publish - 진행 이벤트 전송 (허브 없거나 배치 ID 없으면 무시)
func (s *Service) publish(batchID string, slotID int, status, message string) {
	if s.hub == nil || batchID == "" {
		return
	}
	s.hub.Publish(progress.Event{
		BatchID: batchID,
		SlotID:  slotID,
		Status:  status,
		Message: message,
	})
}
