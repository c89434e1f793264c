package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeKeywords_AllFieldsPresent(t *testing.T) {
	kw, err := decodeKeywords(`{"header":"premium organic wipes","feature1":"lavender scent","feature2":"multi-surface use","feature3":"80-count eco pack"}`)

	require.NoError(t, err)
	assert.Equal(t, "premium organic wipes", kw.Header)
	assert.Equal(t, "lavender scent", kw.Feature1)
	assert.Equal(t, "multi-surface use", kw.Feature2)
	assert.Equal(t, "80-count eco pack", kw.Feature3)
}

func TestDecodeKeywords_FailsClosed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing field", `{"header":"a","feature1":"b","feature3":"d"}`},
		{"empty field", `{"header":"a","feature1":"","feature2":"c","feature3":"d"}`},
		{"number for string", `{"header":1,"feature1":"b","feature2":"c","feature3":"d"}`},
		{"array instead of object", `["a","b","c","d"]`},
		{"not json at all", `header: a, feature1: b`},
		{"empty response", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kw, err := decodeKeywords(tt.raw)
			// 누락/빈 값/타입 불일치는 전부 실패: 부분 키워드로 진행하지 않음
			require.Error(t, err)
			assert.Nil(t, kw)
		})
	}
}
