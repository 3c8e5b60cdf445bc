package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-account-service/internal/interface/http"
	"github.com/oksasatya/go-account-service/internal/interface/middleware"
)

// AssetModule serves stored images. The token travels in the query string
// because browsers cannot attach headers to img requests.
type AssetModule struct {
	Handler    *handlers.AssetHandler
	Tokens     middleware.TokenVerifier
	QueryParam string
}

func NewAssetModule(h *handlers.AssetHandler, tokens middleware.TokenVerifier, param string) *AssetModule {
	return &AssetModule{Handler: h, Tokens: tokens, QueryParam: param}
}

func (m *AssetModule) Register(rg *gin.RouterGroup) {
	rg.GET("/images/:kind/:file", middleware.AuthenticateQuery(m.Tokens, m.QueryParam), m.Handler.Image)
}
