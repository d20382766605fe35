package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger 可檢查連線的依賴
type Pinger interface {
	Ping(ctx context.Context) error
}

// StatsProvider 可回報統計的依賴
type StatsProvider interface {
	Stats() map[string]interface{}
}

// Handler 健康檢查處理器
type Handler struct {
	cfg          *config.Config
	store        interface{}
	aiConfigured bool
	pingTimeout  time.Duration
}

// NewHandler 創建健康檢查處理器；store 若實作 Pinger 或 StatsProvider 會一併回報
func NewHandler(cfg *config.Config, store interface{}, aiConfigured bool) *Handler {
	return &Handler{
		cfg:          cfg,
		store:        store,
		aiConfigured: aiConfigured,
		pingTimeout:  2 * time.Second,
	}
}

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Model     string                 `json:"model"`
	AI        bool                   `json:"ai_configured"`
	Session   map[string]interface{} `json:"session"`
	Runtime   map[string]interface{} `json:"runtime"`
}

// HealthCheck 健康檢查
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	sessionInfo := map[string]interface{}{
		"backend": h.cfg.Session.Backend,
	}
	if sp, ok := h.store.(StatsProvider); ok {
		sessionInfo["stats"] = sp.Stats()
	}

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.cfg.App.Version,
		Model:     h.cfg.OpenRouter.Model,
		AI:        h.aiConfigured,
		Session:   sessionInfo,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查；工作階段儲存無法連線時回傳 503。
// 未設定 API key 仍視為就緒，搜尋會退回內建目錄。
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if p, ok := h.store.(Pinger); ok {
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.pingTimeout)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			common.LogWarn("Session store not ready", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not_ready",
				"reason": "session store unreachable",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        "ready",
		"ai_configured": h.aiConfigured,
	})
}

// LivenessCheck 存活檢查
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
