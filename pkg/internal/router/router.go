// Package router 管理路由配置，用于设置HTTP和gRPC服务的路由规则.
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes 将全部业务路由绑定到 /api/v1 路由组.
func RegisterAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		RegisterHealthCheckRoute(api)
		RegisterMediaRoutes(api)
		RegisterPostRoutes(api)
		RegisterModerationRoutes(api)
		RegisterDuplicateRoutes(api)
		RegisterJobsRoutes(api)
	}
}
