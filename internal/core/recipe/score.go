package recipe

import (
	"math"
	"sort"
)

// Score 計算食譜與使用者食材的重疊度（0–100）。
// matched 保留原順序與重複；沒有食材的食譜相容度為 0。
func Score(r Recipe, set UserIngredientSet) ScoredRecipe {
	matched := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		if set.Contains(ing) {
			matched = append(matched, ing)
		}
	}

	compatibility := 0
	if n := len(r.Ingredients); n > 0 {
		compatibility = int(math.Round(100 * float64(len(matched)) / float64(n)))
	}

	return ScoredRecipe{
		Recipe:             r,
		Compatibility:      compatibility,
		MatchedIngredients: matched,
	}
}

// ScoreAll 逐一評分，保持輸入順序
func ScoreAll(recipes []Recipe, set UserIngredientSet) []ScoredRecipe {
	out := make([]ScoredRecipe, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, Score(r, set))
	}
	return out
}

// SortByCompatibility 依相容度遞減排序，同分保持原順序
func SortByCompatibility(scored []ScoredRecipe) {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Compatibility > scored[j].Compatibility
	})
}
