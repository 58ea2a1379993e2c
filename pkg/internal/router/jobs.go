package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pixelvault/pixelvault/pkg/internal/handle"
	"github.com/pixelvault/pixelvault/pkg/middleware"
)

// RegisterJobsRoutes 注册定时任务状态路由. 仅 admin 可访问.
func RegisterJobsRoutes(g *gin.RouterGroup) {
	jobsRoutes := g.Group("/jobs", middleware.RequireMinRole(middleware.RoleAdmin))
	{
		jobsRoutes.GET("", handle.ListJobs)
	}
}
