package client

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/google/uuid"
)

const sharePath = "/share/"

// ShareLink is handed to the receiver out of band. The secret after '#' never
// reaches the server.
type ShareLink struct {
	ShareID   uuid.UUID
	URL       string
	ExpiresAt time.Time
}

// FormatShareLink builds <base>/share/<id>#<base64url secret>.
func FormatShareLink(base string, id uuid.UUID, secret []byte) string {
	return strings.TrimRight(base, "/") + sharePath + id.String() + "#" +
		base64.RawURLEncoding.EncodeToString(secret)
}

// ParseShareLink extracts the share ID and secret from a link built by
// FormatShareLink. The base is not checked.
func ParseShareLink(link string) (uuid.UUID, []byte, error) {
	rest, fragment, ok := strings.Cut(strings.TrimSpace(link), "#")
	if !ok || fragment == "" {
		return uuid.Nil, nil, ErrInvalidShareLink
	}

	i := strings.LastIndex(rest, sharePath)
	if i < 0 {
		return uuid.Nil, nil, ErrInvalidShareLink
	}
	id, err := uuid.Parse(rest[i+len(sharePath):])
	if err != nil {
		return uuid.Nil, nil, ErrInvalidShareLink
	}

	secret, err := base64.RawURLEncoding.DecodeString(fragment)
	if err != nil || len(secret) == 0 {
		return uuid.Nil, nil, ErrInvalidShareLink
	}
	return id, secret, nil
}
