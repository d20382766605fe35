package catalog

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"recipe-recommender/internal/core/recipe"

	"gopkg.in/yaml.v3"
)

//go:embed recipes.yaml
var defaultData []byte

// Catalog 內建食譜目錄，建立後不可變
type Catalog struct {
	recipes []recipe.Recipe
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default 回傳內建目錄
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(defaultData)
		if err != nil {
			panic(fmt.Sprintf("catalog: invalid embedded recipes: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Parse 解析 YAML 目錄並套用與生成食譜相同的標準化規則
func Parse(data []byte) (*Catalog, error) {
	var entries []recipe.Recipe
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	out := make([]recipe.Recipe, 0, len(entries))
	for i, r := range entries {
		r, err := normalize(r)
		if err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
		out = append(out, r)
	}
	return &Catalog{recipes: out}, nil
}

func normalize(r recipe.Recipe) (recipe.Recipe, error) {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return r, &recipe.NormalizationError{Field: recipe.FieldName}
	}
	if r.PrepTimeMinutes <= 0 {
		return r, fmt.Errorf("%q has non-positive prep time %d", r.Name, r.PrepTimeMinutes)
	}

	ingredients := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		if ing = recipe.NormalizeIngredient(ing); ing != "" {
			ingredients = append(ingredients, ing)
		}
	}
	r.Ingredients = ingredients

	steps := make([]string, 0, len(r.Instructions))
	for _, s := range r.Instructions {
		if s = recipe.CleanStep(s); s != "" {
			steps = append(steps, s)
		}
	}
	r.Instructions = steps

	if !recipe.IsImageServiceURL(r.ImageQuery) {
		r.ImageQuery = recipe.BuildImageQuery(r.Name, recipe.ImagePlain)
	}
	r.IsGenerated = false
	return r, nil
}

// Recipes 依目錄順序回傳深拷貝
func (c *Catalog) Recipes() []recipe.Recipe {
	out := make([]recipe.Recipe, len(c.recipes))
	for i, r := range c.recipes {
		out[i] = r.Clone()
	}
	return out
}

func (c *Catalog) Len() int {
	return len(c.recipes)
}

// Extend 回傳附加了額外食譜的新目錄，原目錄不變
func (c *Catalog) Extend(extra []recipe.Recipe) *Catalog {
	out := make([]recipe.Recipe, 0, len(c.recipes)+len(extra))
	out = append(out, c.Recipes()...)
	for _, r := range extra {
		out = append(out, r.Clone())
	}
	return &Catalog{recipes: out}
}
