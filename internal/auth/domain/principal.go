package domain

import (
	"github.com/google/uuid"
)

// Principal is the authenticated identity attached to a request. The server
// trusts it for request authorization only; decryption rights come from key
// material the client holds.
type Principal struct {
	UserID   uuid.UUID
	Username string
}
