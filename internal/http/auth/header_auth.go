package auth

import (
	"context"
	"strings"

	"auditcollective/internal/domain/collective"

	"github.com/gin-gonic/gin"
)

// UserLoader resolves an authenticated user id to its full record.
type UserLoader interface {
	Get(ctx context.Context, id string) (collective.User, error)
}

// HeaderAuthenticator trusts the fronting session layer to have verified the
// caller and placed its id in X-User-ID. It loads the user row so handlers
// see role, tier and status as stored.
type HeaderAuthenticator struct {
	users UserLoader
}

func NewHeaderAuthenticator(users UserLoader) *HeaderAuthenticator {
	return &HeaderAuthenticator{users: users}
}

func (h *HeaderAuthenticator) Authenticate(c *gin.Context) (collective.User, error) {
	userID := strings.TrimSpace(c.GetHeader("X-User-ID"))
	if userID == "" {
		return collective.User{}, collective.ErrUnauthorized
	}
	user, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		return collective.User{}, collective.ErrUnauthorized
	}
	return user, nil
}
