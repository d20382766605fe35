package recipe

import "strings"

const (
	fenceJSON = "```json"
	fence     = "```"
)

// ExtractJSON 從模型回應中取出 JSON 片段。
// 只在第一個 fence 切一次，不做括號配對；結果不保證可解析。
func ExtractJSON(text string) string {
	content := strings.TrimSpace(text)

	if _, after, ok := strings.Cut(content, fenceJSON); ok {
		body, _, _ := strings.Cut(after, fence)
		return strings.TrimSpace(body)
	}
	if _, after, ok := strings.Cut(content, fence); ok {
		body, _, _ := strings.Cut(after, fence)
		return strings.TrimSpace(body)
	}
	return content
}
