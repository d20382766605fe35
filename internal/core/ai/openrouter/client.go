package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://openrouter.ai/api/v1"
	completionPath = "/chat/completions"
	tracerName     = "recipe-recommender/openrouter"
)

// ErrMissingAPIKey 未設定 API key，不會送出請求
var ErrMissingAPIKey = errors.New("openrouter api key is not configured")

// Client OpenRouter API 客戶端
type Client struct {
	http   *resty.Client
	model  string
	apiKey string
	tracer trace.Tracer
}

// Message 消息結構
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request 表示 API 請求
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

// Response OpenRouter 響應結構
type Response struct {
	ID      string    `json:"id"`
	Choices []Choice  `json:"choices"`
	Usage   UsageInfo `json:"usage"`
}

// Choice 選擇結構
type Choice struct {
	Message Message `json:"message"`
}

// UsageInfo 使用量信息
type UsageInfo struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// apiError 錯誤回應本體，欄位可能缺漏
type apiError struct {
	Error struct {
		Message string      `json:"message"`
		Type    string      `json:"type"`
		Code    interface{} `json:"code"`
	} `json:"error"`
}

// TransportError 網路錯誤或非 2xx 狀態
type TransportError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("openrouter transport error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("openrouter transport error: %s", e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ResponseError 2xx 但回應本體無法使用
type ResponseError struct {
	Body string
	Err  error
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("unusable openrouter response: %v", e.Err)
}

func (e *ResponseError) Unwrap() error {
	return e.Err
}

var errNoChoices = errors.New("no choices in response")

// NewClient 創建新的 OpenRouter 客戶端
func NewClient(cfg *config.Config) *Client {
	or := cfg.OpenRouter
	baseURL := or.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	http := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", or.APIKey)).
		SetHeader("HTTP-Referer", or.Referer).
		SetHeader("X-Title", or.Title)
	if or.Timeout > 0 {
		http.SetTimeout(or.Timeout)
	}

	return &Client{
		http:   http,
		model:  or.Model,
		apiKey: or.APIKey,
		tracer: otel.Tracer(tracerName),
	}
}

// Model 目前使用的模型
func (c *Client) Model() string {
	return c.model
}

// Configured 是否已設定 API key
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// ChatCompletion 送出單一使用者訊息，回傳第一個 choice 的內容。
// 不重試；失敗時回傳 *TransportError 或 *ResponseError。
func (c *Client) ChatCompletion(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	ctx, span := c.tracer.Start(ctx, "openrouter.ChatCompletion")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", c.model),
		attribute.Float64("llm.temperature", temperature),
		attribute.Int("llm.max_tokens", maxTokens),
		attribute.Int("llm.prompt_size_bytes", len(prompt)),
	)

	if !c.Configured() {
		err := &TransportError{Message: "api key not configured", Err: ErrMissingAPIKey}
		span.SetStatus(codes.Error, "missing api key")
		return "", err
	}

	req := &Request{
		Model:       c.model,
		Messages:    []Message{{Role: "user", Content: prompt}},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	common.LogDebug("Sending request to OpenRouter",
		zap.String("model", req.Model),
		zap.Float64("temperature", temperature),
		zap.Int("max_tokens", maxTokens),
	)

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Post(completionPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return "", &TransportError{Message: err.Error(), Err: err}
	}

	span.SetAttributes(
		attribute.Int("http.status_code", resp.StatusCode()),
		attribute.Float64("llm.response_time_seconds", time.Since(start).Seconds()),
	)

	if !resp.IsSuccess() {
		terr := &TransportError{
			StatusCode: resp.StatusCode(),
			Message:    errorMessage(resp.Body(), resp.StatusCode()),
		}
		span.SetStatus(codes.Error, terr.Message)
		common.LogError("AI service returned error status",
			zap.Int("status_code", terr.StatusCode),
			zap.String("model", req.Model),
			zap.String("message", terr.Message),
		)
		return "", terr
	}

	var result Response
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		span.SetStatus(codes.Error, "undecodable response")
		return "", &ResponseError{Body: common.Preview(resp.String(), 500), Err: err}
	}
	if len(result.Choices) == 0 {
		span.SetStatus(codes.Error, "empty choices")
		return "", &ResponseError{Body: common.Preview(resp.String(), 500), Err: errNoChoices}
	}

	content := result.Choices[0].Message.Content
	span.SetAttributes(
		attribute.Int("llm.response_content_length", len(content)),
		attribute.Int("llm.total_tokens", result.Usage.TotalTokens),
	)
	common.LogDebug("Successfully generated response from AI service",
		zap.String("model", req.Model),
		zap.Int("content_length", len(content)),
		zap.Int("total_tokens", result.Usage.TotalTokens),
	)

	return content, nil
}

// errorMessage 優先使用錯誤本體的 error.message，否則退回 "HTTP status N"
func errorMessage(body []byte, status int) string {
	var e apiError
	if err := json.Unmarshal(body, &e); err == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	return fmt.Sprintf("HTTP status %d", status)
}

// Close 關閉客戶端
func (c *Client) Close() error {
	c.http.GetClient().CloseIdleConnections()
	return nil
}
