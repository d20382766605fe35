package recipe

import (
	"net/http"
	"time"

	"recipe-recommender/internal/core/recipe"
	"recipe-recommender/internal/core/session"
	"recipe-recommender/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionResponse 工作階段狀態
type SessionResponse struct {
	SessionID   string                   `json:"session_id"`
	Ingredients recipe.UserIngredientSet `json:"ingredients"`
	CreatedAt   time.Time                `json:"created_at"`
}

func sessionResponse(s *session.Session) SessionResponse {
	return SessionResponse{
		SessionID:   s.ID,
		Ingredients: s.Ingredients,
		CreatedAt:   s.CreatedAt,
	}
}

// AddIngredientRequest 新增食材請求
type AddIngredientRequest struct {
	Name string `json:"name" binding:"required"`
}

// HandleCreateSession 建立新的工作階段
func (h *Handler) HandleCreateSession(c *gin.Context) {
	s, err := h.sessions.Create(c.Request.Context())
	if err != nil {
		respondError(c, err, h.debug)
		return
	}

	common.LogInfo("Session created",
		zap.String("request_id", requestid.Get(c)),
		zap.String("session_id", s.ID),
	)
	c.JSON(http.StatusCreated, sessionResponse(s))
}

// HandleGetSession 取得工作階段與食材
func (h *Handler) HandleGetSession(c *gin.Context) {
	s, err := h.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(s))
}

// HandleDeleteSession 刪除工作階段
func (h *Handler) HandleDeleteSession(c *gin.Context) {
	if err := h.sessions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, h.debug)
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleAddIngredient 加入一項食材；重複加入不會改變集合
func (h *Handler) HandleAddIngredient(c *gin.Context) {
	var req AddIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, common.ErrInvalidIngredient.Wrap(err), h.debug)
		return
	}
	name := recipe.NormalizeIngredient(req.Name)
	if name == "" {
		respondError(c, common.ErrInvalidIngredient, h.debug)
		return
	}

	s, err := h.sessions.Update(c.Request.Context(), c.Param("id"), func(s *session.Session) error {
		s.Ingredients = s.Ingredients.Add(name)
		return nil
	})
	if err != nil {
		respondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(s))
}

// HandleRemoveIngredient 移除一項食材；不存在時為空操作
func (h *Handler) HandleRemoveIngredient(c *gin.Context) {
	name := c.Param("name")
	s, err := h.sessions.Update(c.Request.Context(), c.Param("id"), func(s *session.Session) error {
		s.Ingredients = s.Ingredients.Remove(name)
		return nil
	})
	if err != nil {
		respondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(s))
}
