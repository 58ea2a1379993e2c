package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pixelvault/pixelvault/pkg/internal/model"
	"github.com/pixelvault/pixelvault/pkg/internal/service"
	"github.com/pixelvault/pixelvault/pkg/internal/types"
	"github.com/pixelvault/pixelvault/pkg/log"
)

// ListDuplicateClusters 分页列出重复簇.
//
//	@Summary		重复簇列表
//	@Description	按状态筛选重复簇，默认返回待复核的簇
//	@Tags			重复检测
//	@Produce		json
//	@Param			status	query		string						false	"pending / confirmed / ignored"
//	@Param			limit	query		int							false	"分页大小"
//	@Param			offset	query		int							false	"分页偏移"
//	@Success		200		{object}	types.ClusterListResponse	"重复簇列表"
//	@Failure		400		{object}	map[string]string			"请求参数错误"
//	@Failure		500		{object}	map[string]string			"服务器内部错误"
//	@Router			/api/v1/duplicates [get]
func ListDuplicateClusters(c *gin.Context) {
	status := model.ClusterPending

	switch c.DefaultQuery("status", "pending") {
	case "pending":
	case "confirmed":
		status = model.ClusterConfirmed
	case "ignored":
		status = model.ClusterIgnored
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	limit, offset := pagination(c)
	ctx := c.Request.Context()
	svc := service.NewDuplicateService(ctx)

	clusters, total, err := svc.ListClusters(ctx, status, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	names, err := svc.HashTypeNames(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := types.ClusterListResponse{Total: total}
	for i := range clusters {
		resp.Clusters = append(resp.Clusters, types.NewClusterInfo(&clusters[i], names[clusters[i].HashTypeID]))
	}

	c.JSON(http.StatusOK, resp)
}

// ResolveDuplicateCluster 人工处置重复簇.
//
//	@Summary		处置重复簇
//	@Description	将重复簇标记为确认重复或误报
//	@Tags			重复检测
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int							true	"重复簇 ID"
//	@Param			body	body		types.ResolveClusterRequest	true	"处置决定"
//	@Success		200		{object}	map[string]string			"处置结果"
//	@Failure		400		{object}	map[string]string			"请求参数错误"
//	@Failure		404		{object}	map[string]string			"重复簇不存在"
//	@Router			/api/v1/duplicates/{id}/resolve [post]
func ResolveDuplicateCluster(c *gin.Context) {
	clusterID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.ResolveClusterRequest
	if err := c.ShouldBind(&req); err != nil {
		l := log.Logger()
		l.Warn().Err(err).Msg("invalid request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	status := model.ClusterConfirmed
	if req.Status == "ignored" {
		status = model.ClusterIgnored
	}

	ctx := c.Request.Context()

	if err := service.NewDuplicateService(ctx).Resolve(ctx, clusterID, status); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": status.String()})
}
