package recipe

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// ImageStyle 圖片關鍵字的產生方式
type ImageStyle int

const (
	// ImagePlain 食材搜尋與批次路徑：不去除符號，後綴 ",food,italian"
	ImagePlain ImageStyle = iota
	// ImagePreference 偏好路徑：只保留 [a-z0-9] 與空白、丟棄長度 ≤ 2 的字，後綴 ",food"
	ImagePreference
)

const (
	imageServiceMarker = "unsplash.com"
	defaultImageName   = "italian food"
	maxImageKeywords   = 3
)

var accentFold = map[rune]rune{
	'à': 'a', 'á': 'a', 'â': 'a', 'ã': 'a', 'ä': 'a', 'å': 'a',
	'è': 'e', 'é': 'e', 'ê': 'e', 'ë': 'e',
	'ì': 'i', 'í': 'i', 'î': 'i', 'ï': 'i',
	'ò': 'o', 'ó': 'o', 'ô': 'o', 'õ': 'o', 'ö': 'o',
	'ù': 'u', 'ú': 'u', 'û': 'u', 'ü': 'u',
	'ç': 'c',
}

var foldAccents = runes.Map(func(r rune) rune {
	if base, ok := accentFold[r]; ok {
		return base
	}
	return r
})

var dropNonKeyword = runes.Remove(runes.Predicate(func(r rune) bool {
	return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || unicode.IsSpace(r))
}))

// IsImageServiceURL 模型提供的圖片只有在指向圖片服務時才採用
func IsImageServiceURL(s string) bool {
	return strings.Contains(s, imageServiceMarker)
}

// BuildImageQuery 由食譜名稱產生以逗號分隔的圖片關鍵字，純函式
func BuildImageQuery(name string, style ImageStyle) string {
	if name == "" {
		name = defaultImageName
	}
	s := strings.ToLower(name)
	s, _, _ = transform.String(foldAccents, s)

	if style == ImagePreference {
		s, _, _ = transform.String(dropNonKeyword, s)
	}

	words := strings.Fields(s)
	keep := make([]string, 0, maxImageKeywords)
	for _, w := range words {
		if style == ImagePreference && len(w) <= 2 {
			continue
		}
		keep = append(keep, w)
		if len(keep) == maxImageKeywords {
			break
		}
	}

	keywords := strings.Join(keep, ",")
	if style == ImagePreference {
		return keywords + ",food"
	}
	return keywords + ",food,italian"
}
