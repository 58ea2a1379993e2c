package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pixelvault/pixelvault/pkg/internal/handle"
	"github.com/pixelvault/pixelvault/pkg/middleware"
)

// RegisterMediaRoutes 注册媒体项相关路由.
func RegisterMediaRoutes(g *gin.RouterGroup) {
	mediaRoutes := g.Group("/media")
	{
		// 上传媒体文件
		mediaRoutes.POST("", handle.UploadMedia)

		// 单个媒体项操作
		singleGroup := mediaRoutes.Group("/:id")
		{
			// 媒体项详情
			singleGroup.GET("", handle.GetMediaItem)
			// 补齐缺失的派生版本
			singleGroup.POST("/derivatives", handle.EnsureDerivatives)
			// 审核决定, 仅 moderator 及以上
			singleGroup.POST("/moderate", middleware.RequireMinRole(middleware.RoleModerator), handle.ModerateMedia)
		}
	}
}
