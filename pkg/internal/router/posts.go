package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pixelvault/pixelvault/pkg/internal/handle"
	"github.com/pixelvault/pixelvault/pkg/middleware"
)

// RegisterPostRoutes 注册图集相关路由.
func RegisterPostRoutes(g *gin.RouterGroup) {
	postRoutes := g.Group("/posts")
	{
		// 创建图集
		postRoutes.POST("", handle.CreatePost)

		singleGroup := postRoutes.Group("/:id")
		{
			// 图集详情
			singleGroup.GET("", handle.GetPost)
			// 发布（带就绪闸门）
			singleGroup.POST("/publish", handle.PublishPost)
			// 帖子级审核决定, 仅 moderator 及以上
			singleGroup.POST("/moderate", middleware.RequireMinRole(middleware.RoleModerator), handle.ModeratePost)
		}
	}
}
