package recipe

import (
	"context"
	"errors"

	"recipe-recommender/internal/core/ai/generation"
	"recipe-recommender/internal/core/ai/openrouter"
	"recipe-recommender/internal/core/image"
	"recipe-recommender/internal/core/recipe"
	"recipe-recommender/internal/core/session"
	"recipe-recommender/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecipeView 回傳給前端的食譜，附帶完整圖片網址
type RecipeView struct {
	recipe.ScoredRecipe
	ImageURL string `json:"image_url"`
}

func toViews(images *image.Service, scored []recipe.ScoredRecipe) []RecipeView {
	out := make([]RecipeView, 0, len(scored))
	for _, s := range scored {
		out = append(out, RecipeView{ScoredRecipe: s, ImageURL: images.URLFor(s.ImageQuery)})
	}
	return out
}

// toCustomError 將領域錯誤轉為 API 錯誤
func toCustomError(err error) *common.CustomError {
	var cerr *common.CustomError
	var terr *openrouter.TransportError
	var merr *generation.MalformedResponseError

	switch {
	case errors.As(err, &cerr):
		return cerr
	case errors.Is(err, session.ErrNotFound):
		return common.ErrSessionNotFound.Wrap(err)
	case errors.Is(err, session.ErrStoreFull):
		return common.ErrServiceUnavailable.Wrap(err)
	case errors.Is(err, openrouter.ErrMissingAPIKey):
		return common.ErrAINotConfigured.Wrap(err)
	case errors.As(err, &merr):
		return common.ErrAIMalformedResponse.Wrap(err)
	case errors.Is(err, generation.ErrEmptyResult):
		return common.ErrAIEmptyResult.Wrap(err)
	case errors.Is(err, context.DeadlineExceeded):
		return common.ErrGatewayTimeout.Wrap(err)
	case errors.Is(err, context.Canceled):
		return common.ErrRequestTimeout.Wrap(err)
	case errors.As(err, &terr):
		return common.ErrAIServiceError.Wrap(err)
	case common.IsValidationError(err):
		return common.ErrInvalidRequest.Wrap(err)
	default:
		return common.ErrInternalError.Wrap(err)
	}
}

// respondError 記錄並回傳錯誤；debug 時附帶原始錯誤
func respondError(c *gin.Context, err error, debug bool) {
	cerr := toCustomError(err)
	fields := []zap.Field{
		zap.String("request_id", requestid.Get(c)),
		zap.String("code", cerr.Code),
		zap.Error(err),
	}
	if cerr.Status >= 500 {
		common.LogError("Request failed", fields...)
	} else {
		common.LogWarn("Request rejected", fields...)
	}
	_ = c.Error(err)
	c.JSON(cerr.Status, cerr.Response(debug))
}
