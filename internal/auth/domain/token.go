// Package domain defines bearer session tokens and the authenticated principal.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Token is a bearer session token. Only the SHA-256 hash of the plain token is stored.
type Token struct {
	ID        uuid.UUID
	TokenHash string
	UserID    uuid.UUID
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// Active reports whether the token can still authenticate requests at now.
func (t *Token) Active(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}

// IssueTokenOutput carries a freshly issued plain token. The plain token is
// returned exactly once.
type IssueTokenOutput struct {
	PlainToken string
	ExpiresAt  time.Time
}
