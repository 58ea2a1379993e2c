// Package api 定义API接口和协议缓冲区，用于gRPC和HTTP服务的接口定义.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/pixelvault/pixelvault/pkg/internal/router"
)

// RegisterGroup 注册全部业务路由组到传入的 gin 引擎.
func RegisterGroup(e *gin.Engine) *gin.Engine {
	router.RegisterAPIRoutes(e)
	router.RegisterSwaggerRoute(e)

	return e
}
