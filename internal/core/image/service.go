package image

import (
	"strings"
)

// DefaultTemplate 預設圖片服務網址，%s 為逗號分隔的關鍵字
const DefaultTemplate = "https://source.unsplash.com/400x300/?%s"

const fallbackQuery = "food"

// Service 將食譜的圖片關鍵字組成網址，不下載也不驗證圖片
type Service struct {
	template string
}

// NewService 創建圖片網址服務
func NewService(template string) *Service {
	if !strings.Contains(template, "%s") {
		template = DefaultTemplate
	}
	return &Service{template: template}
}

// URLFor 完整網址原樣回傳，關鍵字代入樣板
func (s *Service) URLFor(query string) string {
	query = strings.TrimSpace(query)
	if strings.HasPrefix(query, "http://") || strings.HasPrefix(query, "https://") {
		return query
	}
	if query == "" {
		query = fallbackQuery
	}
	return strings.Replace(s.template, "%s", query, 1)
}
