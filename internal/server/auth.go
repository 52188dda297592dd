package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const accountKey = "account"

// Authenticator resolves a bearer token to an account id. Token issuance
// lives outside this service; StaticTokens covers deployments that
// provision tokens through the config file.
type Authenticator interface {
	Resolve(token string) (account string, ok bool)
}

// StaticTokens is a fixed token -> account mapping.
type StaticTokens map[string]string

func (t StaticTokens) Resolve(token string) (string, bool) {
	account, ok := t[token]
	return account, ok
}

// requireAccount rejects requests without a resolvable bearer token and
// attaches the account id to the context for the history handlers.
func (s *Server) requireAccount(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authorization required"})
		return
	}

	account, ok := s.auth.Resolve(token)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
		return
	}

	c.Set(accountKey, account)
	c.Next()
}

func accountFrom(c *gin.Context) string {
	return c.GetString(accountKey)
}
