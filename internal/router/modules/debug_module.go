package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"
)

type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// expvar: memstats, cmdline and the accounts.* counters
	rg.GET("/debug/vars", gin.WrapH(expvar.Handler()))
}
