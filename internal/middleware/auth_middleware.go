package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"taskboard/internal/model"
	"taskboard/internal/repository"
	"taskboard/internal/response"

	"github.com/gin-gonic/gin"
)

const (
	CredentialIDKey = "credentialID"
	LoginKey        = "login"
)

type TokenParser interface {
	Parse(token string) (string, error)
}

type CredentialFinder interface {
	FindByAccessToken(ctx context.Context, token string) (*model.Credential, error)
}

// AccessTokenAuth accepts "Authorization: Bearer <token>" or the bare token.
// The token must verify and still be the one stored for its credential.
func AccessTokenAuth(tokens TokenParser, creds CredentialFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			response.Abort(c, http.StatusUnauthorized, "Unauthorized", "Authorization header is required")
			return
		}

		token := header
		if fields := strings.Fields(header); len(fields) == 2 {
			if !strings.EqualFold(fields[0], "Bearer") {
				response.Abort(c, http.StatusUnauthorized, "Unauthorized", "Authorization header format must be Bearer {token}")
				return
			}
			token = fields[1]
		}

		credentialID, err := tokens.Parse(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "Unauthorized", "Invalid or expired token")
			return
		}

		cred, err := creds.FindByAccessToken(c.Request.Context(), token)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			// Still 401, but the logger should see the store failure.
			_ = c.Error(err)
		}
		if err != nil || cred.ID != credentialID {
			response.Abort(c, http.StatusUnauthorized, "Unauthorized", "Invalid or expired token")
			return
		}

		c.Set(CredentialIDKey, cred.ID)
		c.Set(LoginKey, cred.Login)
		c.Next()
	}
}
