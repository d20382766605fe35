package recipe

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// 模型回應中的欄位名稱（提示詞固定為義大利文）
const (
	FieldName         = "nome"
	FieldIngredients  = "ingredienti"
	FieldPrepTime     = "tempoPreparazione"
	FieldImage        = "immagine"
	FieldDescription  = "descrizione"
	FieldInstructions = "istruzioni"
)

// 各路徑的預設準備時間
const (
	DefaultPrepTimeSingle = 20
	DefaultPrepTimeBatch  = 30
)

// NormalizationError 缺少必要欄位
type NormalizationError struct {
	Field string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("recipe is missing required field %q", e.Field)
}

// NormalizeOptions 依呼叫路徑決定預設值
type NormalizeOptions struct {
	DefaultPrepTime int
	ImageStyle      ImageStyle
	Generated       bool
}

// Normalize 將未定型的欄位轉成標準 Recipe。
// 每個欄位先取 primary，再取 fallback，最後使用預設值。
// 名稱缺失時仍回傳套用預設值後的紀錄，並附帶 *NormalizationError。
func Normalize(primary, fallback Fields, opts NormalizeOptions) (Recipe, error) {
	get := func(key string) interface{} {
		if v := primary[key]; truthy(v) {
			return v
		}
		return fallback[key]
	}

	name, _ := get(FieldName).(string)
	name = strings.TrimSpace(name)

	r := Recipe{
		Name:            name,
		Ingredients:     toIngredients(get(FieldIngredients)),
		PrepTimeMinutes: toPrepTime(get(FieldPrepTime), opts.DefaultPrepTime),
		Description:     strings.TrimSpace(toString(get(FieldDescription))),
		Instructions:    toInstructions(get(FieldInstructions)),
		IsGenerated:     opts.Generated,
	}

	if img := toString(get(FieldImage)); IsImageServiceURL(img) {
		r.ImageQuery = img
	} else {
		r.ImageQuery = BuildImageQuery(name, opts.ImageStyle)
	}

	if name == "" {
		return r, &NormalizationError{Field: FieldName}
	}
	return r, nil
}

// truthy 與 JS 的 || 相同的判斷：空字串、0、false、null 視為缺值
func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	case float64:
		return t != 0
	default:
		return true
	}
}

func toString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return ""
	}
}

func toIngredients(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		s := NormalizeIngredient(toString(it))
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

func toInstructions(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		step := CleanStep(toString(it))
		if step == "" {
			continue
		}
		out = append(out, step)
	}
	return out
}

// toPrepTime 只接受正數；字串取開頭的數字（"25 minuti" → 25）
func toPrepTime(v interface{}, def int) int {
	var f float64
	switch t := v.(type) {
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return def
		}
		f = n
	case float64:
		f = t
	case string:
		digits := strings.TrimSpace(t)
		end := strings.IndexFunc(digits, func(r rune) bool { return !unicode.IsDigit(r) })
		if end >= 0 {
			digits = digits[:end]
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			return def
		}
		f = float64(n)
	default:
		return def
	}
	minutes := int(math.Round(f))
	if minutes <= 0 {
		return def
	}
	return minutes
}
