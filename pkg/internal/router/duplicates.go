package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pixelvault/pixelvault/pkg/internal/handle"
	"github.com/pixelvault/pixelvault/pkg/middleware"
)

// RegisterDuplicateRoutes 注册重复检测相关路由. 仅 moderator 及以上可访问.
func RegisterDuplicateRoutes(g *gin.RouterGroup) {
	duplicateRoutes := g.Group("/duplicates", middleware.RequireMinRole(middleware.RoleModerator))
	{
		// 重复簇列表
		duplicateRoutes.GET("", handle.ListDuplicateClusters)

		singleGroup := duplicateRoutes.Group("/:id")
		{
			// 人工处置
			singleGroup.POST("/resolve", handle.ResolveDuplicateCluster)
		}
	}
}
