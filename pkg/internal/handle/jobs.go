package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pixelvault/pixelvault/pkg/middleware"
)

// ListJobs 列出已注册的定时任务及其运行状态.
//
//	@Summary		定时任务状态
//	@Description	返回派生补齐、过期清理等定时任务的调度与最近运行情况
//	@Tags			运维
//	@Produce		json
//	@Success		200	{array}		scheduler.JobInfo	"任务列表"
//	@Failure		503	{object}	map[string]string	"调度器未初始化"
//	@Router			/api/v1/jobs [get]
func ListJobs(c *gin.Context) {
	sched := middleware.GetScheduler(c)
	if sched == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scheduler not initialized"})
		return
	}

	c.JSON(http.StatusOK, sched.GetJobInfos())
}
