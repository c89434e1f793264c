package aplus

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"aplus-content-server/modules/common/guard"
	"aplus-content-server/modules/common/model"
)

type Handler struct {
	service    *Service
	regenGuard *guard.RegenGuard
}

// NewHandler - 핸들러 생성
func NewHandler(service *Service, regenGuard *guard.RegenGuard) *Handler {
	return &Handler{
		service:    service,
		regenGuard: regenGuard,
	}
}

// RegisterRoutes - 라우트 등록
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/aplus/generate-all", h.HandleGenerateAll).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/aplus/regenerate", h.HandleRegenerate).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/aplus/normalize", h.HandleNormalize).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/aplus/export", h.HandleExport).Methods("POST", "OPTIONS")
	log.Println("✅ Aplus content routes registered")
}

// HandleGenerateAll - POST /api/aplus/generate-all
// 상품 설명 + 참조 이미지 → 이미지 4장 생성 (전부 성공해야 응답)
func (h *Handler) HandleGenerateAll(w http.ResponseWriter, r *http.Request) {
	if handlePreflight(w, r) {
		return
	}

	var req GenerateAllRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ [Aplus] Invalid request: %v", err)
		writeJSON(w, GenerateAllResponse{
			Success:      false,
			ErrorCode:    ErrCodeInvalidRequest,
			ErrorMessage: "Invalid request format",
		})
		return
	}

	// 입력 검증: 텍스트 + 이미지 둘 다 필수, 검증 실패 시 외부 호출 없음
	ref, rejectMsg := h.admitReference(req.ProductDescription, req.Base64ImageData, req.MimeType)
	if rejectMsg != "" {
		writeJSON(w, GenerateAllResponse{
			Success:      false,
			ErrorCode:    ErrCodeInputRejected,
			ErrorMessage: rejectMsg,
		})
		return
	}

	batchID := strings.TrimSpace(req.BatchID)
	if batchID == "" {
		batchID = uuid.New().String()
	}

	images, err := h.service.GenerateBatch(r.Context(), batchID, req.ProductDescription, ref)
	if err != nil {
		writeJSON(w, GenerateAllResponse{
			Success:      false,
			BatchID:      batchID,
			ErrorCode:    ErrorCodeOf(err, ErrCodeGenerationFailed),
			ErrorMessage: ErrorMessageOf(err),
		})
		return
	}

	writeJSON(w, GenerateAllResponse{
		Success: true,
		BatchID: batchID,
		Images:  images,
	})
}

// HandleRegenerate - POST /api/aplus/regenerate
// 슬롯 1개 재생성. 전역으로 동시에 1건만 허용
func (h *Handler) HandleRegenerate(w http.ResponseWriter, r *http.Request) {
	if handlePreflight(w, r) {
		return
	}

	var req RegenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ [Aplus] Invalid request: %v", err)
		writeJSON(w, RegenerateResponse{
			Success:      false,
			ErrorCode:    ErrCodeInvalidRequest,
			ErrorMessage: "Invalid request format",
		})
		return
	}

	if req.SlotID < 0 || req.SlotID >= model.SlotCount {
		writeJSON(w, RegenerateResponse{
			Success:      false,
			ErrorCode:    ErrCodeInputRejected,
			ErrorMessage: fmt.Sprintf("slotId must be between 0 and %d", model.SlotCount-1),
		})
		return
	}

	if strings.TrimSpace(req.Prompt) == "" {
		writeJSON(w, RegenerateResponse{
			Success:      false,
			ErrorCode:    ErrCodeInputRejected,
			ErrorMessage: "Prompt is required for regeneration",
		})
		return
	}

	ref, rejectMsg := h.admitReference("-", req.Base64ImageData, req.MimeType)
	if rejectMsg != "" {
		writeJSON(w, RegenerateResponse{
			Success:      false,
			ErrorCode:    ErrCodeInputRejected,
			ErrorMessage: rejectMsg,
		})
		return
	}

	// 재생성 admission: 진행 중이면 거절
	if !h.regenGuard.Acquire(r.Context()) {
		writeJSON(w, RegenerateResponse{
			Success:      false,
			ErrorCode:    ErrCodeRegenerationBusy,
			ErrorMessage: "Another regeneration is already in progress",
		})
		return
	}
	defer h.regenGuard.Release(r.Context())

	image, err := h.service.RegenerateSlot(r.Context(), req.SlotID, req.Prompt, ref)
	if err != nil {
		writeJSON(w, RegenerateResponse{
			Success:      false,
			ErrorCode:    ErrorCodeOf(err, ErrCodeRegenerationFailed),
			ErrorMessage: ErrorMessageOf(err),
		})
		return
	}

	writeJSON(w, RegenerateResponse{
		Success: true,
		Image:   image,
	})
}

// HandleNormalize - POST /api/aplus/normalize
// 텍스트 정제만 단독 실행 (외부 호출 없음)
func (h *Handler) HandleNormalize(w http.ResponseWriter, r *http.Request) {
	if handlePreflight(w, r) {
		return
	}

	var req NormalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, NormalizeResponse{Success: false})
		return
	}

	writeJSON(w, NormalizeResponse{
		Success:     true,
		CleanedText: h.service.Normalize(req.RawText),
	})
}

// HandleExport - POST /api/aplus/export
// 완성 이미지들을 서버 export 디렉토리에 순차 저장
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	if handlePreflight(w, r) {
		return
	}

	var req ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, ExportResponse{
			Success:      false,
			ErrorCode:    ErrCodeInvalidRequest,
			ErrorMessage: "Invalid request format",
		})
		return
	}

	if len(req.Images) == 0 {
		writeJSON(w, ExportResponse{
			Success:      false,
			ErrorCode:    ErrCodeInputRejected,
			ErrorMessage: "No images to export",
		})
		return
	}

	files, err := h.service.ExportAll(r.Context(), req.Images)
	if err != nil {
		writeJSON(w, ExportResponse{
			Success:      false,
			Files:        files,
			ErrorCode:    ErrCodeExportFailed,
			ErrorMessage: err.Error(),
		})
		return
	}

	writeJSON(w, ExportResponse{
		Success: true,
		Files:   files,
	})
}

// admitReference - 참조 이미지 admission 검증
// 반환: (디코드된 참조 이미지, 거절 사유. 통과 시 빈 문자열)
func (h *Handler) admitReference(description, base64Data, mimeType string) (model.ReferenceImage, string) {
	if strings.TrimSpace(description) == "" || strings.TrimSpace(base64Data) == "" {
		return model.ReferenceImage{}, "Both product description and reference image are required"
	}

	if !h.service.cfg.IsAllowedMimeType(mimeType) {
		return model.ReferenceImage{}, fmt.Sprintf("Unsupported image type: %s", mimeType)
	}

	// data URI로 와도 허용: prefix 제거 후 디코드
	payload := base64Data
	if idx := strings.Index(payload, "base64,"); strings.HasPrefix(payload, "data:") && idx >= 0 {
		payload = payload[idx+len("base64,"):]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return model.ReferenceImage{}, "Reference image is not valid base64 data"
	}

	if int64(len(data)) > h.service.cfg.MaxUploadBytes {
		return model.ReferenceImage{}, fmt.Sprintf("Reference image exceeds the %dMB limit",
			h.service.cfg.MaxUploadBytes/(1024*1024))
	}

	return model.ReferenceImage{Data: data, MimeType: mimeType}, ""
}

// handlePreflight - CORS 헤더 + OPTIONS 처리. true면 응답 종료
func handlePreflight(w http.ResponseWriter, r *http.Request) bool {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return true
	}
	return false
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ [Aplus] Failed to encode response: %v", err)
	}
}
