package recipe

// Recipe 標準化後的食譜紀錄，目錄與 AI 生成的食譜共用
type Recipe struct {
	Name            string   `json:"name" yaml:"name"`
	Ingredients     []string `json:"ingredients" yaml:"ingredients"`
	PrepTimeMinutes int      `json:"prep_time_minutes" yaml:"prepTimeMinutes"`
	ImageQuery      string   `json:"image_query" yaml:"imageQuery"`
	Description     string   `json:"description" yaml:"description"`
	Instructions    []string `json:"instructions" yaml:"instructions"`
	IsGenerated     bool     `json:"is_generated" yaml:"-"`
}

// ScoredRecipe 附帶相容度的食譜，只在評分時產生
type ScoredRecipe struct {
	Recipe
	Compatibility      int      `json:"compatibility"`
	MatchedIngredients []string `json:"matched_ingredients"`
}

// Clone 深拷貝，避免共用底層切片
func (r Recipe) Clone() Recipe {
	out := r
	out.Ingredients = append([]string(nil), r.Ingredients...)
	out.Instructions = append([]string(nil), r.Instructions...)
	return out
}

// Preferences 偏好表單的內容，每個欄位都是選填
type Preferences struct {
	CuisineType          string `json:"cuisine_type"`
	MealType             string `json:"meal_type"`
	Vegetarian           bool   `json:"vegetarian"`
	Vegan                bool   `json:"vegan"`
	GlutenFree           bool   `json:"gluten_free"`
	DairyFree            bool   `json:"dairy_free"`
	PreferredIngredients string `json:"preferred_ingredients"`
	MaxTimeMinutes       int    `json:"max_time_minutes"`
	Additional           string `json:"additional_preferences"`
}

// DietaryRestrictions 依表單勾選順序轉成提示語
func (p Preferences) DietaryRestrictions() []string {
	var out []string
	if p.Vegetarian {
		out = append(out, "vegetariano")
	}
	if p.Vegan {
		out = append(out, "vegano")
	}
	if p.GlutenFree {
		out = append(out, "senza glutine")
	}
	if p.DairyFree {
		out = append(out, "senza latticini")
	}
	return out
}
