package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dailypizza/pizza-orders-api/internal/auth"
)

// RequireActiveIdentity rejects requests whose token identity is not the
// active signed-in identity. The state-synchronization services operate on
// the active identity, so a still-valid token issued to someone else must
// not read or mutate that state. Runs after JWTAuth, which puts the token's
// uid into the context.
func RequireActiveIdentity(current func() *auth.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := current()
		if id == nil {
			respondWithAuthError(c, http.StatusUnauthorized, "invalid_token",
				"No active session for this token")
			return
		}

		if id.UID != c.GetString("userID") {
			respondWithAuthError(c, http.StatusForbidden, "invalid_token",
				"Token identity does not match the active session")
			return
		}

		c.Next()
	}
}
