package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"minichat/internal/core/cache"
	"minichat/internal/core/server"
	"minichat/internal/domain"
	"minichat/internal/identity"
	mdw "minichat/internal/transport/http/middleware"
)

// Deps 路由依赖，显式注入
type Deps struct {
	Identity *identity.Service
	Users    domain.UserRepository
	Messages domain.MessageRepository
	Cache    *cache.Cache // 可为 nil
}

func NewAPIEngine(l *zap.Logger, db *gorm.DB, deps Deps) *gin.Engine {
	r := server.NewRouter(l)

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	// 健康检查 + 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")

	mountUserActions(api, db, deps)
	mountMessageActions(api, db, deps)

	return r
}
