package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/pkg/helpers"
	"github.com/oksasatya/go-account-service/pkg/response"
)

// IdentityKey is the gin context key holding the authenticated helpers.Identity.
const IdentityKey = "identity"

var (
	ErrUnauthorized = errors.New("invalid or missing token")
	ErrForbidden    = errors.New("insufficient role")
)

// TokenVerifier is satisfied by *helpers.JWTManager.
type TokenVerifier interface {
	Verify(token string) (helpers.Identity, bool)
}

// Authenticate reads the session token from the named request header.
func Authenticate(v TokenVerifier, header string) gin.HandlerFunc {
	return authenticate(v, func(c *gin.Context) string { return c.GetHeader(header) })
}

// AuthenticateQuery reads the session token from a query parameter, for
// resources loaded by the browser directly (img src and the like).
func AuthenticateQuery(v TokenVerifier, param string) gin.HandlerFunc {
	return authenticate(v, func(c *gin.Context) string { return c.Query(param) })
}

func authenticate(v TokenVerifier, extract func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extract(c)
		if raw == "" {
			response.Abort(c, http.StatusUnauthorized, ErrUnauthorized.Error(), gin.H{"token": "missing"})
			return
		}
		id, ok := v.Verify(raw)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, ErrUnauthorized.Error(), gin.H{"token": "invalid or expired"})
			return
		}
		if _, err := entity.ParseRole(id.Role); err != nil {
			response.Abort(c, http.StatusUnauthorized, ErrUnauthorized.Error(), gin.H{"token": "unknown role"})
			return
		}

		c.Set(IdentityKey, id)
		c.Request = c.Request.WithContext(helpers.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

// IdentityFrom returns the identity stored by Authenticate.
func IdentityFrom(c *gin.Context) (helpers.Identity, bool) {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return helpers.Identity{}, false
	}
	id, ok := v.(helpers.Identity)
	return id, ok
}

// CheckRole reports whether id may act with the required role.
func CheckRole(id helpers.Identity, required entity.Role) error {
	if id.ID == "" {
		return ErrUnauthorized
	}
	if entity.Role(id.Role) != required {
		return ErrForbidden
	}
	return nil
}

// RequireRole must run after Authenticate.
func RequireRole(required entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := IdentityFrom(c)
		switch err := CheckRole(id, required); {
		case errors.Is(err, ErrUnauthorized):
			response.Abort(c, http.StatusUnauthorized, err.Error(), nil)
		case errors.Is(err, ErrForbidden):
			response.Abort(c, http.StatusForbidden, err.Error(), gin.H{"role": "requires " + required.String()})
		default:
			c.Next()
		}
	}
}
