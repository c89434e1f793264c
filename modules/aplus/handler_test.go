package aplus

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aplus-content-server/modules/common/fallback"
	"aplus-content-server/modules/common/guard"
)

func newTestRouter(text *mockThemeExtractor, image *mockImageGenerator) *mux.Router {
	svc := newTestService(text, image)
	handler := NewHandler(svc, guard.New(nil, time.Minute))

	r := mux.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func postJSON(t *testing.T, r *mux.Router, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func validGenerateRequest() GenerateAllRequest {
	return GenerateAllRequest{
		ProductDescription: "Premium organic wipes, lavender scent, 80-count eco pack",
		Base64ImageData:    fallback.PlaceholderBase64(),
		MimeType:           "image/png",
	}
}

func TestHandleGenerateAll_Success(t *testing.T) {
	text := &mockThemeExtractor{keywords: testKeywords()}
	image := &mockImageGenerator{}
	r := newTestRouter(text, image)

	rec := postJSON(t, r, "/api/aplus/generate-all", validGenerateRequest())

	var resp GenerateAllResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.True(t, resp.Success, "errorCode=%s message=%s", resp.ErrorCode, resp.ErrorMessage)
	assert.NotEmpty(t, resp.BatchID)
	assert.Len(t, resp.Images, 4)
}

func TestHandleGenerateAll_MissingInputRejectedBeforeAnyCall(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*GenerateAllRequest)
	}{
		{"missing description", func(req *GenerateAllRequest) { req.ProductDescription = "" }},
		{"missing image", func(req *GenerateAllRequest) { req.Base64ImageData = "" }},
		{"disallowed mime type", func(req *GenerateAllRequest) { req.MimeType = "image/tiff" }},
		{"broken base64", func(req *GenerateAllRequest) { req.Base64ImageData = "!!not-base64!!" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := &mockThemeExtractor{keywords: testKeywords()}
			image := &mockImageGenerator{}
			r := newTestRouter(text, image)

			req := validGenerateRequest()
			tt.mutate(&req)
			rec := postJSON(t, r, "/api/aplus/generate-all", req)

			var resp GenerateAllResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.False(t, resp.Success)
			assert.Equal(t, ErrCodeInputRejected, resp.ErrorCode)

			// 검증 실패 시 외부 호출 자체가 없어야 함
			assert.Equal(t, 0, text.callCount())
			assert.Equal(t, 0, image.callCount())
		})
	}
}

func TestHandleGenerateAll_OversizedImageRejected(t *testing.T) {
	text := &mockThemeExtractor{keywords: testKeywords()}
	image := &mockImageGenerator{}
	svc := newTestService(text, image)
	svc.cfg.MaxUploadBytes = 8

	handler := NewHandler(svc, guard.New(nil, time.Minute))
	r := mux.NewRouter()
	handler.RegisterRoutes(r)

	req := validGenerateRequest()
	req.Base64ImageData = base64.StdEncoding.EncodeToString(make([]byte, 64))
	rec := postJSON(t, r, "/api/aplus/generate-all", req)

	var resp GenerateAllResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeInputRejected, resp.ErrorCode)
	assert.Equal(t, 0, image.callCount())
}

func TestHandleRegenerate_Success(t *testing.T) {
	text := &mockThemeExtractor{keywords: testKeywords()}
	image := &mockImageGenerator{}
	r := newTestRouter(text, image)

	rec := postJSON(t, r, "/api/aplus/regenerate", RegenerateRequest{
		SlotID:          2,
		Prompt:          "same prompt as before",
		Base64ImageData: fallback.PlaceholderBase64(),
		MimeType:        "image/png",
	})

	var resp RegenerateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.True(t, resp.Success, "errorCode=%s message=%s", resp.ErrorCode, resp.ErrorMessage)
	require.NotNil(t, resp.Image)
	assert.Equal(t, 2, resp.Image.ID)
}

func TestHandleRegenerate_InvalidSlotID(t *testing.T) {
	r := newTestRouter(&mockThemeExtractor{keywords: testKeywords()}, &mockImageGenerator{})

	for _, slotID := range []int{-1, 4, 99} {
		rec := postJSON(t, r, "/api/aplus/regenerate", RegenerateRequest{
			SlotID:          slotID,
			Prompt:          "prompt",
			Base64ImageData: fallback.PlaceholderBase64(),
			MimeType:        "image/png",
		})

		var resp RegenerateResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.False(t, resp.Success)
		assert.Equal(t, ErrCodeInputRejected, resp.ErrorCode)
	}
}

func TestHandleRegenerate_BusyWhileAnotherInFlight(t *testing.T) {
	regenGuard := guard.New(nil, time.Minute)
	svc := newTestService(&mockThemeExtractor{keywords: testKeywords()}, &mockImageGenerator{})
	handler := NewHandler(svc, regenGuard)

	r := mux.NewRouter()
	handler.RegisterRoutes(r)

	// 다른 재생성이 진행 중인 상태를 재현
	require.True(t, regenGuard.Acquire(context.Background()))
	defer regenGuard.Release(context.Background())

	rec := postJSON(t, r, "/api/aplus/regenerate", RegenerateRequest{
		SlotID:          0,
		Prompt:          "prompt",
		Base64ImageData: fallback.PlaceholderBase64(),
		MimeType:        "image/png",
	})

	var resp RegenerateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeRegenerationBusy, resp.ErrorCode)
}

func TestHandleNormalize(t *testing.T) {
	r := newTestRouter(&mockThemeExtractor{}, &mockImageGenerator{})

	rec := postJSON(t, r, "/api/aplus/normalize", NormalizeRequest{
		RawText: "カートに入れる\nPremium Organic Baby Wipes 80 sheets",
	})

	var resp NormalizeResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Premium Organic Baby Wipes 80 sheets", resp.CleanedText)
}
