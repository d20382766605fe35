package recipe

import (
	"net/http"

	"recipe-recommender/internal/core/recipe"
	"recipe-recommender/internal/core/recommend"
	"recipe-recommender/internal/core/session"
	"recipe-recommender/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SearchResponse 搜尋結果
// Stale 為 true 表示期間已有較新的搜尋，本次結果未寫入工作階段
type SearchResponse struct {
	SessionID string          `json:"session_id"`
	Token     uint64          `json:"token"`
	Stale     bool            `json:"stale"`
	State     recommend.State `json:"state"`
	Recipes   []RecipeView    `json:"recipes"`
	Error     string          `json:"error,omitempty"`
}

// HandleSearch 以工作階段目前的食材搜尋食譜
func (h *Handler) HandleSearch(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	var token uint64
	var set recipe.UserIngredientSet
	if _, err := h.sessions.Update(ctx, id, func(s *session.Session) error {
		token = s.Tracker.Begin()
		set = s.Ingredients
		return nil
	}); err != nil {
		respondError(c, err, h.debug)
		return
	}

	outcome, err := h.recommender.Search(ctx, set)
	if err != nil {
		respondError(c, err, h.debug)
		return
	}
	if outcome.Err != nil {
		common.LogWarn("Generation failed, served catalog",
			zap.String("request_id", requestid.Get(c)),
			zap.String("session_id", id),
			zap.String("state", string(outcome.State)),
			zap.Error(outcome.Err),
		)
	}

	applied := false
	if _, err := h.sessions.Update(ctx, id, func(s *session.Session) error {
		applied = s.Tracker.Apply(token, func() {
			stored := outcome
			s.Results = &stored
		})
		return nil
	}); err != nil {
		respondError(c, err, h.debug)
		return
	}

	common.LogInfo("Search completed",
		zap.String("request_id", requestid.Get(c)),
		zap.String("session_id", id),
		zap.Uint64("token", token),
		zap.Bool("stale", !applied),
		zap.String("state", string(outcome.State)),
		zap.Int("recipes", len(outcome.Recipes)),
	)

	c.JSON(http.StatusOK, SearchResponse{
		SessionID: id,
		Token:     token,
		Stale:     !applied,
		State:     outcome.State,
		Recipes:   toViews(h.images, outcome.Recipes),
		Error:     outcome.Error,
	})
}

// ResultsResponse 工作階段最近一次套用的結果
type ResultsResponse struct {
	SessionID string          `json:"session_id"`
	Token     uint64          `json:"token"`
	State     recommend.State `json:"state,omitempty"`
	Recipes   []RecipeView    `json:"recipes"`
	Error     string          `json:"error,omitempty"`
}

// HandleResults 取得最近一次套用的結果，尚未搜尋時 recipes 為空陣列
func (h *Handler) HandleResults(c *gin.Context) {
	s, err := h.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, h.debug)
		return
	}

	resp := ResultsResponse{
		SessionID: s.ID,
		Token:     s.Tracker.Current(),
		Recipes:   []RecipeView{},
	}
	if s.Results != nil {
		resp.State = s.Results.State
		resp.Recipes = toViews(h.images, s.Results.Recipes)
		resp.Error = s.Results.Error
	}
	c.JSON(http.StatusOK, resp)
}
