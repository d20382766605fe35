package recommend

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"recipe-recommender/internal/core/ai/generation"
	"recipe-recommender/internal/core/catalog"
	"recipe-recommender/internal/core/prompt"
	"recipe-recommender/internal/core/recipe"
	"recipe-recommender/internal/pkg/common"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "recipe-recommender/recommend"

// Generator 食譜生成來源
type Generator interface {
	Generate(ctx context.Context, intent prompt.Intent, params prompt.Params) ([]recipe.Recipe, error)
}

// State 一次搜尋的終止狀態
type State string

const (
	StateScored         State = "scored"
	StateFallbackScored State = "fallback_scored"
	StateEmpty          State = "empty"
	StateShuffled       State = "shuffled"
)

// Outcome 搜尋結果；Err 為觸發退回目錄的生成錯誤
type Outcome struct {
	State   State                 `json:"state"`
	Recipes []recipe.ScoredRecipe `json:"recipes"`
	Err     error                 `json:"-"`
	Error   string                `json:"error,omitempty"`
}

// Option 建構選項
type Option func(*Orchestrator)

// WithRand 指定隨機來源，測試時可固定種子
func WithRand(r *rand.Rand) Option {
	return func(o *Orchestrator) {
		o.rng = r
	}
}

// WithBatchSize 批次生成數量
func WithBatchSize(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

// Orchestrator 推薦流程：生成、評分、退回目錄與排序
type Orchestrator struct {
	gen       Generator
	batchSize int
	tracer    trace.Tracer

	mu      sync.Mutex
	catalog *catalog.Catalog
	rng     *rand.Rand
}

// New 創建推薦流程
func New(gen Generator, cat *catalog.Catalog, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		gen:       gen,
		batchSize: prompt.DefaultBatchSize,
		tracer:    otel.Tracer(tracerName),
		catalog:   cat,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return o
}

// Catalog 目前使用的目錄
func (o *Orchestrator) Catalog() *catalog.Catalog {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.catalog
}

// Search 依使用者食材推薦食譜。
// 生成失敗一律退回目錄評分；只有呼叫端的 ctx 結束時才回傳錯誤。
func (o *Orchestrator) Search(ctx context.Context, set recipe.UserIngredientSet) (Outcome, error) {
	ctx, span := o.tracer.Start(ctx, "recommend.Search")
	defer span.End()
	span.SetAttributes(attribute.Int("ingredients.count", set.Len()))

	var out Outcome
	if set.Len() == 0 {
		out = o.shuffled()
	} else {
		generated, err := o.gen.Generate(ctx, prompt.IntentBatch, prompt.Params{
			Ingredients: set.Items(),
			Count:       o.batchSize,
		})
		if ctxErr := ctx.Err(); ctxErr != nil {
			span.SetStatus(codes.Error, "canceled")
			return Outcome{}, ctxErr
		}

		switch {
		case err == nil && len(generated) > 0:
			scored := recipe.ScoreAll(generated, set)
			recipe.SortByCompatibility(scored)
			out = Outcome{State: StateScored, Recipes: scored}
		default:
			if err == nil {
				err = generation.ErrEmptyResult
			}
			span.RecordError(err)
			common.LogWarn("Generation failed, using static catalog",
				zap.String("error_class", generation.ErrorClass(err)),
				zap.Error(err),
			)
			out = o.fallback(set, err)
		}
	}

	span.SetAttributes(
		attribute.String("search.state", string(out.State)),
		attribute.Int("search.results", len(out.Recipes)),
	)
	return out, nil
}

// fallback 以目錄評分，只保留相容度大於 0 的食譜
func (o *Orchestrator) fallback(set recipe.UserIngredientSet, cause error) Outcome {
	scored := recipe.ScoreAll(o.Catalog().Recipes(), set)
	kept := make([]recipe.ScoredRecipe, 0, len(scored))
	for _, s := range scored {
		if s.Compatibility > 0 {
			kept = append(kept, s)
		}
	}
	recipe.SortByCompatibility(kept)

	out := Outcome{State: StateFallbackScored, Recipes: kept, Err: cause}
	if len(kept) == 0 {
		out.State = StateEmpty
	}
	if cause != nil {
		out.Error = cause.Error()
	}
	return out
}

// shuffled 沒有食材時回傳隨機排序的目錄
func (o *Orchestrator) shuffled() Outcome {
	recipes := o.Catalog().Recipes()
	out := make([]recipe.ScoredRecipe, len(recipes))
	for i, r := range recipes {
		out[i] = recipe.ScoredRecipe{Recipe: r, MatchedIngredients: []string{}}
	}

	o.mu.Lock()
	o.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	o.mu.Unlock()

	return Outcome{State: StateShuffled, Recipes: out}
}

// GenerateFromPreferences 依偏好生成單一食譜，相容度固定為 100
func (o *Orchestrator) GenerateFromPreferences(ctx context.Context, prefs recipe.Preferences) (recipe.ScoredRecipe, error) {
	ctx, span := o.tracer.Start(ctx, "recommend.GenerateFromPreferences")
	defer span.End()

	r, err := o.generateOne(ctx, prompt.IntentPreference, prompt.Params{Preferences: prefs})
	if err != nil {
		span.SetStatus(codes.Error, generation.ErrorClass(err))
		return recipe.ScoredRecipe{}, err
	}
	return recipe.ScoredRecipe{
		Recipe:             r,
		Compatibility:      100,
		MatchedIngredients: []string{},
	}, nil
}

// TestConnectivity 送出最小的測試請求，回傳原始結果
func (o *Orchestrator) TestConnectivity(ctx context.Context) (recipe.Recipe, error) {
	ctx, span := o.tracer.Start(ctx, "recommend.TestConnectivity")
	defer span.End()

	r, err := o.generateOne(ctx, prompt.IntentConnectivity, prompt.Params{})
	if err != nil {
		span.SetStatus(codes.Error, generation.ErrorClass(err))
		return recipe.Recipe{}, err
	}
	return r, nil
}

func (o *Orchestrator) generateOne(ctx context.Context, intent prompt.Intent, params prompt.Params) (recipe.Recipe, error) {
	recipes, err := o.gen.Generate(ctx, intent, params)
	if err != nil {
		common.LogError("Generation failed",
			zap.String("intent", string(intent)),
			zap.String("error_class", generation.ErrorClass(err)),
			zap.Error(err),
		)
		return recipe.Recipe{}, err
	}
	if len(recipes) == 0 {
		return recipe.Recipe{}, generation.ErrEmptyResult
	}
	return recipes[0], nil
}

// SeedCatalog 以生成的食譜擴充目錄；失敗時目錄保持不變
func (o *Orchestrator) SeedCatalog(ctx context.Context) []recipe.Recipe {
	generated, err := o.gen.Generate(ctx, prompt.IntentCatalogSeed, prompt.Params{})
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			common.LogWarn("Catalog seeding failed, using built-in recipes",
				zap.String("error_class", generation.ErrorClass(err)),
				zap.Error(err),
			)
		}
		return o.Catalog().Recipes()
	}

	o.mu.Lock()
	o.catalog = o.catalog.Extend(generated)
	size := o.catalog.Len()
	o.mu.Unlock()

	common.LogInfo("Catalog seeded",
		zap.Int("added", len(generated)),
		zap.Int("size", size),
	)
	return o.Catalog().Recipes()
}
