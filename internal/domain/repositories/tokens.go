package repositories

import (
	"context"
	"time"
)

// TokenRepository tracks revoked access tokens by token id
type TokenRepository interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
