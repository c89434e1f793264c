package aplus

import (
	"fmt"

	"aplus-content-server/modules/common/model"
)

// 프롬프트 공통 파트
// 참조 이미지의 제품 디자인/패키지/색상을 유지하는 것이 최우선 제약
const (
	baseInstruction = "Render the product from the attached reference image as the main subject. " +
		"Preserve the product's package design, label, and colors exactly as shown in the reference. " +
		"Ignore incidental props, hands, or backgrounds from the reference."

	commonStyle = "No text or lettering anywhere in the image. High quality commercial product photography."
)

// 슬롯별 구도 지시 (id 0..3 고정)
var slotDirectives = [model.SlotCount]struct {
	title     string
	directive string
}{
	{
		title: "Module 1 (Header)",
		directive: "A hero close-up of the product with clean studio lighting. " +
			"Subtle light and droplet effects that suggest freshness and effectiveness.",
	},
	{
		title: "Module 2 (Feature 1)",
		directive: "A person using the product in a bright everyday home scene, " +
			"with a close-up detail that shows the product's texture and quality.",
	},
	{
		title: "Module 3 (Feature 2)",
		directive: "A split-screen or collage style composition showing the product in use " +
			"across several different rooms and situations, conveying versatility.",
	},
	{
		title: "Module 4 (Feature 3)",
		directive: "The product packaging placed in a realistic household context that conveys " +
			"its size and value, such as a tidy storage shelf, or a layout emphasizing the package design.",
	},
}

// BuildSlotPrompts - 테마 4개를 슬롯 프롬프트 4개로 전개
// 순수 함수: 같은 키워드면 항상 같은 결과, 슬롯 순서는 0..3 고정
func BuildSlotPrompts(keywords model.AplusKeywords) []model.PromptSlot {
	themes := [model.SlotCount]string{
		keywords.Header,
		keywords.Feature1,
		keywords.Feature2,
		keywords.Feature3,
	}

	slots := make([]model.PromptSlot, model.SlotCount)
	for i := 0; i < model.SlotCount; i++ {
		slots[i] = model.PromptSlot{
			ID:    i,
			Title: slotDirectives[i].title,
			Prompt: fmt.Sprintf("%s [Theme: %s]. %s %s",
				baseInstruction, themes[i], commonStyle, slotDirectives[i].directive),
		}
	}
	return slots
}
