package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"recipe-recommender/internal/core/ai/openrouter"
	"recipe-recommender/internal/core/prompt"
	"recipe-recommender/internal/core/recipe"
	"recipe-recommender/internal/pkg/common"

	"go.uber.org/zap"
)

// Completer 對外部模型送出單一提示詞
type Completer interface {
	ChatCompletion(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error)
}

// ErrEmptyResult 回應可解析但沒有可用的食譜
var ErrEmptyResult = errors.New("generation produced no usable recipes")

// MalformedResponseError 2xx 回應但無法取得可用的 JSON
type MalformedResponseError struct {
	Content string
	Err     error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed generation response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// Client 生成客戶端：提示詞 → 模型 → 擷取 → 解析 → 標準化
type Client struct {
	completer Completer
	batchSize int
}

// NewClient 創建生成客戶端
func NewClient(completer Completer, batchSize int) *Client {
	if batchSize <= 0 {
		batchSize = prompt.DefaultBatchSize
	}
	return &Client{
		completer: completer,
		batchSize: batchSize,
	}
}

// BatchSize 批次路徑的預設數量
func (c *Client) BatchSize() int {
	return c.batchSize
}

// Generate 執行一次生成，不重試。
// 單一食譜的意圖回傳一筆；批次意圖回傳一或多筆。
func (c *Client) Generate(ctx context.Context, intent prompt.Intent, params prompt.Params) (recipes []recipe.Recipe, err error) {
	start := time.Now()
	defer func() {
		common.LogAICall(string(intent), time.Since(start), err)
	}()

	budget, ok := intent.Budget()
	if !ok {
		return nil, fmt.Errorf("%w: %q", prompt.ErrUnknownIntent, intent)
	}
	if intent == prompt.IntentBatch && params.Count <= 0 {
		params.Count = c.batchSize
	}

	text, err := prompt.Build(intent, params)
	if err != nil {
		return nil, err
	}

	content, err := c.completer.ChatCompletion(ctx, text, budget.Temperature, budget.MaxTokens)
	if err != nil {
		var rerr *openrouter.ResponseError
		if errors.As(err, &rerr) {
			return nil, &MalformedResponseError{Content: rerr.Body, Err: err}
		}
		return nil, err
	}

	raw := recipe.ExtractJSON(content)
	shape, err := recipe.DecodeShape(raw)
	if err != nil {
		return nil, &MalformedResponseError{Content: common.Preview(content, 500), Err: err}
	}
	if shape.Kind == recipe.ShapeMalformed {
		return nil, &MalformedResponseError{
			Content: common.Preview(content, 500),
			Err:     fmt.Errorf("expected object or array, got %s", shape.Kind),
		}
	}

	switch intent {
	case prompt.IntentBatch, prompt.IntentCatalogSeed:
		// 目錄擴充的食譜視為目錄項目
		return normalizeEach(shape, recipe.NormalizeOptions{
			DefaultPrepTime: recipe.DefaultPrepTimeBatch,
			ImageStyle:      recipe.ImagePlain,
			Generated:       intent == prompt.IntentBatch,
		})
	default:
		r, err := normalizeFirst(shape, optionsFor(intent))
		if err != nil {
			return nil, &MalformedResponseError{Content: common.Preview(content, 500), Err: err}
		}
		return []recipe.Recipe{r}, nil
	}
}

// ErrorClass 錯誤分類，用於日誌與回應
func ErrorClass(err error) string {
	var terr *openrouter.TransportError
	var merr *MalformedResponseError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &terr):
		return "transport"
	case errors.As(err, &merr):
		return "malformed"
	case errors.Is(err, ErrEmptyResult):
		return "empty"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "other"
	}
}

func optionsFor(intent prompt.Intent) recipe.NormalizeOptions {
	opts := recipe.NormalizeOptions{
		DefaultPrepTime: recipe.DefaultPrepTimeSingle,
		ImageStyle:      recipe.ImagePlain,
		Generated:       true,
	}
	if intent == prompt.IntentPreference {
		opts.ImageStyle = recipe.ImagePreference
	}
	return opts
}

func normalizeFirst(shape recipe.Shape, opts recipe.NormalizeOptions) (recipe.Recipe, error) {
	primary, fallback := shape.First()
	return recipe.Normalize(primary, fallback, opts)
}

// normalizeEach 批次逐筆標準化，沒有名稱的項目會被丟棄
func normalizeEach(shape recipe.Shape, opts recipe.NormalizeOptions) ([]recipe.Recipe, error) {
	items := shape.Each()
	out := make([]recipe.Recipe, 0, len(items))
	for i, fields := range items {
		r, err := recipe.Normalize(fields, nil, opts)
		if err != nil {
			common.LogWarn("Dropping generated recipe",
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil, ErrEmptyResult
	}
	return out, nil
}
