package aplus

import (
	"regexp"
	"strings"
)

// 마켓플레이스/네비게이션 노이즈 denylist
// 원문에 섞여 들어오는 쇼핑몰 UI 문구를 행 단위로 걸러냄
var excludeKeywords = []string{
	"Amazon",
	"カート",
	"返品",
	"注文履歴",
	"ログイン",
	"キーボードショートカット",
	"お届け先",
	"検索",
	"すべてのカテゴリー",
	"Prime Video",
	"タイムセール",
	"定期おトク便",
	"Amazonで売る",
	"ランキング",
	"ギフト",
	"Keepa",
	"ASIN",
	"JAN",
	"WEB",
	"メルカリ",
	"ラクマ",
	"ヤフオク",
	"価格ナビ",
	"FBA",
	"手数料",
	"仕入れ",
	"販売予測",
	"楽天",
	"ぱーそなるたのめーる",
	"ポイント",
	"割引",
	"クーポン",
	"定期配送",
	"ビジネス限定",
	"法人価格",
	"よく一緒に購入",
	"カスタマーレビュー",
	"レビュー一覧",
	"星5つ",
	"スポンサー",
	"Amazon Advertising",
	"Audible",
	"AWS",
	"利用規約",
	"プライバシー",
	"Add to Cart",
	"Sign in",
	"Sponsored",
	"Customer reviews",
	"Terms of Use",
	"Privacy Notice",
}

// 상품 설명 섹션 시작/종료 마커
var (
	sectionStartMarkers = []string{"この商品について", "商品説明", "商品紹介", "About this item", "Product description"}
	sectionEndMarkers   = []string{"原材料", "栄養成分", "Ingredients", "Nutrition Facts"}
)

// 수집 상한: 상품 정보 라인 수
const maxProductLines = 15

// 추출 실패 시 원문 앞부분을 그대로 쓰는 길이 (rune 기준)
const fallbackPrefixRunes = 500

// 행 단위 노이즈 판정 프리디케이트 (순서대로 적용)
var (
	priceLinePattern  = regexp.MustCompile(`^[¥￥$]\d+|^\d+円`)
	digitsOnlyPattern = regexp.MustCompile(`^\d+$`)
	hasContentPattern = regexp.MustCompile(`[^\d\s]`)
)

var noiseLinePredicates = []func(string) bool{
	containsExcludedKeyword,
	isPriceLine,
	hasURLOrMarkup,
	isDigitsOnly,
}

func containsExcludedKeyword(line string) bool {
	for _, keyword := range excludeKeywords {
		if strings.Contains(line, keyword) {
			return true
		}
	}
	return false
}

func isPriceLine(line string) bool {
	return priceLinePattern.MatchString(line)
}

func hasURLOrMarkup(line string) bool {
	return strings.Contains(line, "http") || strings.Contains(line, "<") || strings.Contains(line, ">")
}

func isDigitsOnly(line string) bool {
	return digitsOnlyPattern.MatchString(line)
}

func containsAny(line string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}

// ExtractProductInfo - 붙여넣은 상품 페이지 텍스트에서 상품 정보만 추출
// 순수 함수. 절대 실패하지 않고 항상 쓸 수 있는 문자열을 반환함
func ExtractProductInfo(rawText string) string {
	lines := relevantLines(rawText)

	productInfo := make([]string, 0, maxProductLines)
	inProductSection := false

	for _, line := range lines {
		if len(productInfo) >= maxProductLines {
			break
		}

		runeLen := len([]rune(line))

		// 상품 타이틀 검출: 첫 번째 충분히 긴 라인
		if !inProductSection && runeLen > 10 && runeLen < 200 && hasContentPattern.MatchString(line) {
			productInfo = append(productInfo, line)
			inProductSection = true
			continue
		}

		// 설명 섹션 시작 마커: 플래그만 켜고 라인 자체는 버림
		if containsAny(line, sectionStartMarkers) {
			inProductSection = true
			continue
		}

		// 섹션 종료 마커
		if containsAny(line, sectionEndMarkers) {
			break
		}

		if inProductSection && runeLen > 5 && runeLen < 300 {
			productInfo = append(productInfo, line)
		}
	}

	cleaned := strings.Join(dedupeStable(productInfo), "\n")
	if cleaned != "" {
		return cleaned
	}

	// 추출 결과가 비면 원문 앞 500자로 fallback
	runes := []rune(rawText)
	if len(runes) > fallbackPrefixRunes {
		runes = runes[:fallbackPrefixRunes]
	}
	return string(runes)
}

// relevantLines - 공백 제거 + 노이즈 라인 필터링
func relevantLines(rawText string) []string {
	var result []string
	for _, line := range strings.Split(rawText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if isNoiseLine(line) {
			continue
		}
		result = append(result, line)
	}
	return result
}

func isNoiseLine(line string) bool {
	for _, predicate := range noiseLinePredicates {
		if predicate(line) {
			return true
		}
	}
	return false
}

// dedupeStable - 중복 라인 제거 (최초 등장 순서 유지)
func dedupeStable(lines []string) []string {
	seen := make(map[string]bool, len(lines))
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		if seen[line] {
			continue
		}
		seen[line] = true
		result = append(result, line)
	}
	return result
}
