package repository

import (
	"context"

	"github.com/yunusemrekoyun/fast-food-app/internal/domain/entity"
)

// SessionRepository keeps the current session of each user.
// Get returns ErrNotFound when the user has no live session.
type SessionRepository interface {
	Put(ctx context.Context, s entity.Session) error
	Get(ctx context.Context, userID string) (*entity.Session, error)
	Touch(ctx context.Context, userID string, fields map[string]any) error
	Delete(ctx context.Context, userID string) error
}
