package middlewares

import (
	"errors"

	"github.com/geocoder89/shopapi/internal/apperr"
	"github.com/gin-gonic/gin"
)

// authorize must run after authenticate.
func (m *AuthMiddleware) authorize(c *gin.Context, access Access, required string) bool {
	identity, ok := IdentityFromContext(c)

	if !ok || identity.Role == "" {
		m.observe(access, "unauthenticated")
		abortWith(c, apperr.Authentication(errors.New("missing identity context")))
		return false
	}

	if identity.Role != required {
		m.observe(access, "forbidden")
		abortWith(c, apperr.Authorization("Admin role required"))
		return false
	}

	return true
}
