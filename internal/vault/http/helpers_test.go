package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/passbox/internal/auth/domain"
	authHTTP "github.com/allisson/passbox/internal/auth/http"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// createTestContext builds a gin context for method and path with body encoded
// as JSON and the given route params. A nil principal leaves the request
// unauthenticated.
func createTestContext(
	method, path string,
	body any,
	principal *authDomain.Principal,
	params gin.Params,
) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var payload []byte
	switch b := body.(type) {
	case nil:
	case string:
		payload = []byte(b)
	default:
		payload, _ = json.Marshal(b)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if principal != nil {
		req = req.WithContext(authHTTP.WithPrincipal(req.Context(), principal))
	}
	c.Request = req
	c.Params = params

	return c, w
}
