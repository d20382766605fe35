package recipe

import (
	"encoding/json"
	"strings"
)

// UserIngredientSet 使用者手上的食材。
// 值語意：Add/Remove 回傳新的集合，原集合不變。
type UserIngredientSet struct {
	items []string
	index map[string]struct{}
}

// NormalizeIngredient 去除前後空白並轉小寫
func NormalizeIngredient(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NewIngredientSet 由任意字串建立集合，空字串與重複會被忽略
func NewIngredientSet(items ...string) UserIngredientSet {
	var set UserIngredientSet
	for _, it := range items {
		set = set.Add(it)
	}
	return set
}

// Add 加入食材
func (s UserIngredientSet) Add(item string) UserIngredientSet {
	item = NormalizeIngredient(item)
	if item == "" || s.Contains(item) {
		return s
	}
	next := UserIngredientSet{
		items: make([]string, 0, len(s.items)+1),
		index: make(map[string]struct{}, len(s.items)+1),
	}
	for _, it := range s.items {
		next.items = append(next.items, it)
		next.index[it] = struct{}{}
	}
	next.items = append(next.items, item)
	next.index[item] = struct{}{}
	return next
}

// Remove 移除食材
func (s UserIngredientSet) Remove(item string) UserIngredientSet {
	item = NormalizeIngredient(item)
	if !s.Contains(item) {
		return s
	}
	next := UserIngredientSet{
		items: make([]string, 0, len(s.items)-1),
		index: make(map[string]struct{}, len(s.items)-1),
	}
	for _, it := range s.items {
		if it == item {
			continue
		}
		next.items = append(next.items, it)
		next.index[it] = struct{}{}
	}
	return next
}

// Contains 成員判斷，item 需已是標準化後的字串
func (s UserIngredientSet) Contains(item string) bool {
	_, ok := s.index[item]
	return ok
}

// Items 依加入順序回傳
func (s UserIngredientSet) Items() []string {
	return append([]string(nil), s.items...)
}

func (s UserIngredientSet) Len() int {
	return len(s.items)
}

func (s UserIngredientSet) MarshalJSON() ([]byte, error) {
	if s.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.items)
}

func (s *UserIngredientSet) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*s = NewIngredientSet(items...)
	return nil
}
