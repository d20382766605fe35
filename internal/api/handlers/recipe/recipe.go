package recipe

import (
	"context"
	"net/http"

	"recipe-recommender/internal/core/image"
	"recipe-recommender/internal/core/recipe"
	"recipe-recommender/internal/core/recommend"
	"recipe-recommender/internal/core/session"
	"recipe-recommender/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recommender 推薦流程
type Recommender interface {
	Search(ctx context.Context, set recipe.UserIngredientSet) (recommend.Outcome, error)
	GenerateFromPreferences(ctx context.Context, prefs recipe.Preferences) (recipe.ScoredRecipe, error)
	TestConnectivity(ctx context.Context) (recipe.Recipe, error)
}

// Handler 食譜處理程序
type Handler struct {
	recommender Recommender
	sessions    session.Store
	images      *image.Service
	debug       bool
}

// NewHandler 創建新的食譜處理程序
func NewHandler(recommender Recommender, sessions session.Store, images *image.Service, debug bool) *Handler {
	return &Handler{
		recommender: recommender,
		sessions:    sessions,
		images:      images,
		debug:       debug,
	}
}

// PreferencesResponse 偏好生成的結果
type PreferencesResponse struct {
	Recipe RecipeView `json:"recipe"`
}

// HandlePreferences 依偏好生成單一食譜
func (h *Handler) HandlePreferences(c *gin.Context) {
	var prefs recipe.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		respondError(c, common.NewValidationError("invalid preferences: "+err.Error()), h.debug)
		return
	}
	if prefs.MaxTimeMinutes < 0 {
		respondError(c, common.NewValidationError("max_time_minutes must not be negative"), h.debug)
		return
	}

	common.LogInfo("Generating recipe from preferences",
		zap.String("request_id", requestid.Get(c)),
		zap.String("cuisine_type", prefs.CuisineType),
		zap.String("meal_type", prefs.MealType),
		zap.Strings("dietary_restrictions", prefs.DietaryRestrictions()),
	)

	scored, err := h.recommender.GenerateFromPreferences(c.Request.Context(), prefs)
	if err != nil {
		respondError(c, err, h.debug)
		return
	}

	c.JSON(http.StatusOK, PreferencesResponse{
		Recipe: toViews(h.images, []recipe.ScoredRecipe{scored})[0],
	})
}

// ConnectivityResponse 連線測試結果
type ConnectivityResponse struct {
	Success bool          `json:"success"`
	Recipe  recipe.Recipe `json:"recipe"`
}

// HandleConnectivityTest 測試外部服務與 API key；失敗時一律附帶上游訊息
func (h *Handler) HandleConnectivityTest(c *gin.Context) {
	r, err := h.recommender.TestConnectivity(c.Request.Context())
	if err != nil {
		respondError(c, err, true)
		return
	}

	common.LogInfo("Connectivity test succeeded",
		zap.String("request_id", requestid.Get(c)),
		zap.String("recipe", r.Name),
	)
	c.JSON(http.StatusOK, ConnectivityResponse{Success: true, Recipe: r})
}
