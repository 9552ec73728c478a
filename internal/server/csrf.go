package server

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"github.com/goliatone/go-repoforms/internal/permission"
)

// csrfTokens derives the expected token of a request from the secret and
// the current user, so a token only round trips for the user it was issued
// to. An empty secret disables tokens.
func csrfTokens(secret string) func(*http.Request) string {
	if secret == "" {
		return nil
	}
	return func(r *http.Request) string {
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write([]byte(permission.UserFromContext(r.Context())))
		return hex.EncodeToString(mac.Sum(nil))
	}
}
