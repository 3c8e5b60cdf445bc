package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
	handlers "github.com/oksasatya/go-account-service/internal/interface/http"
	"github.com/oksasatya/go-account-service/internal/interface/middleware"
)

// UserModule wires account routes.
// Public: POST /login, GET /users/:id/:verifyToken
// Token: GET /users/:id
// Token + ADMIN_ROLE: user listing, search, create, update, enable/disable, resend verification
type UserModule struct {
	Handler     *handlers.UserHandler
	Tokens      middleware.TokenVerifier
	TokenHeader string
}

func NewUserModule(h *handlers.UserHandler, tokens middleware.TokenVerifier, header string) *UserModule {
	return &UserModule{Handler: h, Tokens: tokens, TokenHeader: header}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := middleware.Authenticate(m.Tokens, m.TokenHeader)
	admin := middleware.RequireRole(entity.RoleAdmin)

	rg.POST("/login", m.Handler.Login)
	rg.GET("/users/:id/:verifyToken", m.Handler.Verify)

	rg.GET("/users/:id", auth, m.Handler.Get)

	users := rg.Group("/users", auth, admin)
	{
		users.GET("", m.Handler.List)
		users.GET("/search", m.Handler.Search)
		users.POST("", m.Handler.Create)
		users.PUT("/:id", m.Handler.Update)
		users.DELETE("/:id", m.Handler.SetStatus)
		users.POST("/:id/verification", m.Handler.ResendVerification)
	}
}
