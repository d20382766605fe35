package recipe

import (
	"fmt"

	"recipe-recommender/internal/pkg/common"
)

// ShapeKind 解析後 JSON 的外形
type ShapeKind int

const (
	ShapeMalformed ShapeKind = iota
	ShapeSingle
	ShapeBatch
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeSingle:
		return "single"
	case ShapeBatch:
		return "batch"
	default:
		return "malformed"
	}
}

// Fields 模型回傳的單一食譜物件（未定型）
type Fields map[string]interface{}

// Shape 標記聯集：Single 帶 Object，Batch 帶 Items，Malformed 帶 Raw
type Shape struct {
	Kind   ShapeKind
	Object Fields
	Items  []interface{}
	Raw    interface{}
}

// DecodeShape 解析 JSON 並判斷外形；無法解析時回傳錯誤
func DecodeShape(raw string) (Shape, error) {
	var v interface{}
	if err := common.ParseJSON(raw, &v); err != nil {
		return Shape{}, fmt.Errorf("failed to parse recipe JSON: %w", err)
	}

	switch t := v.(type) {
	case map[string]interface{}:
		return Shape{Kind: ShapeSingle, Object: Fields(t), Raw: v}, nil
	case []interface{}:
		return Shape{Kind: ShapeBatch, Items: t, Raw: v}, nil
	default:
		return Shape{Kind: ShapeMalformed, Raw: v}, nil
	}
}

// First 單一食譜路徑的欄位來源：物件本身，或陣列第一個元素
func (s Shape) First() (primary, fallback Fields) {
	switch s.Kind {
	case ShapeSingle:
		primary = s.Object
	case ShapeBatch:
		if len(s.Items) > 0 {
			if m, ok := s.Items[0].(map[string]interface{}); ok {
				fallback = Fields(m)
			}
		}
	}
	return primary, fallback
}

// Each 批次路徑的每個元素；單一物件視為只有一筆
func (s Shape) Each() []Fields {
	switch s.Kind {
	case ShapeSingle:
		return []Fields{s.Object}
	case ShapeBatch:
		out := make([]Fields, 0, len(s.Items))
		for _, it := range s.Items {
			switch t := it.(type) {
			case map[string]interface{}:
				out = append(out, Fields(t))
			case []interface{}:
				// 巢狀陣列：取第一個物件
				if len(t) > 0 {
					if m, ok := t[0].(map[string]interface{}); ok {
						out = append(out, Fields(m))
						continue
					}
				}
				out = append(out, Fields{})
			default:
				out = append(out, Fields{})
			}
		}
		return out
	}
	return nil
}
