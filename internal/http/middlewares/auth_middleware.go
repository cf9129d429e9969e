package middlewares

import (
	"errors"
	"strings"

	"github.com/geocoder89/shopapi/internal/actorctx"
	"github.com/geocoder89/shopapi/internal/apperr"
	"github.com/geocoder89/shopapi/internal/auth"
	"github.com/geocoder89/shopapi/internal/domain/user"
	"github.com/gin-gonic/gin"
)

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	VerifyAccessToken(token string) (*auth.Claims, error)
}

type GateObserver interface {
	ObserveGate(access, result string)
}

type AuthMiddleware struct {
	jwt TokenVerifier
	obs GateObserver
}

// NewAuthMiddleware builds the access gate. obs may be nil.
func NewAuthMiddleware(jwt TokenVerifier, obs GateObserver) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt, obs: obs}
}

// Gate classifies every request and enforces its access level. It is installed on the
// engine, so unknown paths are protected too.
func (m *AuthMiddleware) Gate() gin.HandlerFunc {
	return func(c *gin.Context) {
		access := Classify(c.Request.Method, c.Request.URL.Path)

		if access == AccessPublic {
			m.observe(access, "allowed")
			c.Next()
			return
		}

		// authenticate first; an invalid token never reaches the role check
		if !m.authenticate(c, access) {
			return
		}

		if access == AccessAdmin && !m.authorize(c, access, user.RoleAdmin) {
			return
		}

		m.observe(access, "allowed")
		c.Next()
	}
}

func (m *AuthMiddleware) authenticate(c *gin.Context, access Access) bool {
	raw, err := bearerToken(c.GetHeader("Authorization"))
	if err != nil {
		m.observe(access, "unauthenticated")
		abortWith(c, apperr.Authentication(err))
		return false
	}

	claims, err := m.jwt.VerifyAccessToken(raw)
	if err != nil {
		m.observe(access, "unauthenticated")
		abortWith(c, apperr.Authentication(err))
		return false
	}

	userID, err := claims.UserID()
	if err != nil {
		m.observe(access, "unauthenticated")
		abortWith(c, apperr.Authentication(err))
		return false
	}

	// Stash the identity on the request context
	identity := actorctx.Identity{
		UserID: userID,
		Email:  claims.Email,
		Role:   claims.Role,
	}
	c.Request = c.Request.WithContext(actorctx.WithIdentity(c.Request.Context(), identity))

	return true
}

func (m *AuthMiddleware) observe(access Access, result string) {
	if m.obs != nil {
		m.obs.ObserveGate(access.String(), result)
	}
}

func bearerToken(header string) (string, error) {
	scheme, raw, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", errors.New("missing bearer authorization header")
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("empty bearer token")
	}

	return raw, nil
}

// IdentityFromContext returns what the gate attached. Handlers never take the caller's id from anywhere else.
func IdentityFromContext(c *gin.Context) (actorctx.Identity, bool) {
	return actorctx.IdentityFrom(c.Request.Context())
}

func abortWith(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
