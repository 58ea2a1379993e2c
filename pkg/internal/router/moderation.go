package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pixelvault/pixelvault/pkg/internal/handle"
	"github.com/pixelvault/pixelvault/pkg/middleware"
)

// RegisterModerationRoutes 注册审核相关路由. 仅 moderator 及以上可访问.
func RegisterModerationRoutes(g *gin.RouterGroup) {
	moderationRoutes := g.Group("/moderation", middleware.RequireMinRole(middleware.RoleModerator))
	{
		// 待审核队列
		moderationRoutes.GET("/queue", handle.ModerationQueue)
	}
}
