package session

import (
	"context"
	"errors"
	"time"

	"recipe-recommender/internal/core/recipe"
	"recipe-recommender/internal/core/recommend"
	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"
)

// ErrNotFound 工作階段不存在或已過期
var ErrNotFound = errors.New("session not found")

// Session 單一瀏覽器使用者的狀態
type Session struct {
	ID          string                   `json:"id"`
	Ingredients recipe.UserIngredientSet `json:"ingredients"`
	Tracker     recommend.Tracker        `json:"tracker"`
	Results     *recommend.Outcome       `json:"results,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

// Store 工作階段儲存。Update 在單一工作階段上是原子操作。
type Store interface {
	Create(ctx context.Context) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

func newSession() *Session {
	now := time.Now()
	return &Session{
		ID:          common.GenerateUUID(),
		Ingredients: recipe.NewIngredientSet(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewStore 依設定建立儲存後端
func NewStore(cfg *config.Config) (Store, error) {
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		return NewRedisStore(cfg)
	default:
		return NewMemoryStore(cfg), nil
	}
}
