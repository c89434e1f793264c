package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fullKeywords() AplusKeywords {
	return AplusKeywords{
		Header:   "premium organic wipes",
		Feature1: "lavender scent",
		Feature2: "multi-surface use",
		Feature3: "80-count eco pack",
	}
}

func TestAplusKeywords_Complete(t *testing.T) {
	assert.True(t, fullKeywords().Complete())
}

func TestAplusKeywords_IncompleteWhenAnyFieldEmpty(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AplusKeywords)
	}{
		{"empty header", func(k *AplusKeywords) { k.Header = "" }},
		{"empty feature1", func(k *AplusKeywords) { k.Feature1 = "" }},
		{"empty feature2", func(k *AplusKeywords) { k.Feature2 = "" }},
		{"empty feature3", func(k *AplusKeywords) { k.Feature3 = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kw := fullKeywords()
			tt.mutate(&kw)
			// 하나라도 비면 전체가 불완전 (부분 결과 금지)
			assert.False(t, kw.Complete())
		})
	}
}

func TestAplusKeywords_ZeroValueIncomplete(t *testing.T) {
	assert.False(t, AplusKeywords{}.Complete())
}
