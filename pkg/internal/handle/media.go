package handle

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pixelvault/pixelvault/pkg/internal/model"
	"github.com/pixelvault/pixelvault/pkg/internal/service"
	"github.com/pixelvault/pixelvault/pkg/internal/types"
	"github.com/pixelvault/pixelvault/pkg/log"
)

// UploadMedia 接收媒体文件上传：落库原始版本并排期派生任务.
//
//	@Summary		上传媒体文件
//	@Description	接收图片或视频文件，写入对象存储并异步生成派生版本；逐字节重复的上传返回 409
//	@Tags			媒体
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file							true	"媒体文件"
//	@Success		201		{object}	types.UploadResponse			"上传接收结果"
//	@Failure		400		{object}	map[string]string				"请求参数错误"
//	@Failure		409		{object}	types.DuplicateUploadResponse	"内容重复"
//	@Failure		500		{object}	map[string]string				"服务器内部错误"
//	@Router			/api/v1/media [post]
func UploadMedia(c *gin.Context) {
	l := log.Logger()

	ownerID, err := checkOwner(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid owner: " + err.Error()})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		l.Warn().Err(err).Msg("missing upload file")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})

		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close() //nolint:errcheck

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	svc := service.NewMediaService(ctx)

	result, err := svc.Ingest(ctx, ownerID, fileHeader.Filename, data)
	if err != nil {
		var dup *service.DuplicateUploadError
		if errors.As(err, &dup) {
			c.JSON(http.StatusConflict, types.DuplicateUploadResponse{
				Error:          dup.Error(),
				ExistingItemID: dup.ExistingItemID,
			})

			return
		}

		l.Error().Err(err).Str("filename", fileHeader.Filename).Msg("ingest failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	resp := types.UploadResponse{
		Item:     types.NewMediaItemInfo(result.Item),
		Original: types.NewVersionInfo(result.Original),
	}
	if result.Thumbnail != nil {
		thumb := types.NewVersionInfo(result.Thumbnail)
		resp.Thumbnail = &thumb
	}
	for _, kind := range result.Plan.Tasks {
		resp.PlannedTasks = append(resp.PlannedTasks, kind.String())
	}

	c.JSON(http.StatusCreated, resp)
}

// GetMediaItem 查询媒体项详情.
//
//	@Summary		查询媒体项
//	@Description	返回媒体项及其全部版本
//	@Tags			媒体
//	@Produce		json
//	@Param			id	path		int						true	"媒体项 ID"
//	@Success		200	{object}	types.MediaItemInfo		"媒体项详情"
//	@Failure		404	{object}	map[string]string		"媒体项不存在"
//	@Router			/api/v1/media/{id} [get]
func GetMediaItem(c *gin.Context) {
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	item, err := service.NewMediaService(ctx).GetItem(ctx, itemID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, types.NewMediaItemInfo(item))
}

// EnsureDerivatives 补齐媒体项缺失的派生版本.
//
//	@Summary		补齐派生版本
//	@Description	对比已存在的版本与需求集，为缺失版本入队生成任务；幂等
//	@Tags			媒体
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int									true	"媒体项 ID"
//	@Param			body	body		types.EnsureDerivativesRequest		false	"补齐选项"
//	@Success		202		{object}	types.EnsureDerivativesResponse		"排期结果"
//	@Failure		400		{object}	map[string]string					"请求参数错误"
//	@Failure		500		{object}	map[string]string					"服务器内部错误"
//	@Router			/api/v1/media/{id}/derivatives [post]
func EnsureDerivatives(c *gin.Context) {
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.EnsureDerivativesRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBind(&req); err != nil {
			l := log.Logger()
			l.Warn().Err(err).Msg("invalid request")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

			return
		}
	}

	opts := service.EnsureOptions{
		PostBlurred: req.PostBlurred,
		Regenerate:  req.Regenerate,
	}

	for _, name := range req.Subset {
		vt, ok := model.ParseVersionType(name)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown version type: " + name})
			return
		}

		opts.Subset = append(opts.Subset, vt)
	}

	ctx := c.Request.Context()

	plan, err := service.NewMediaService(ctx).EnsureDerivatives(ctx, itemID, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := types.EnsureDerivativesResponse{Ordered: plan.Ordered}
	for _, vt := range plan.Missing {
		resp.Missing = append(resp.Missing, vt.String())
	}
	for _, kind := range plan.Tasks {
		resp.PlannedTasks = append(resp.PlannedTasks, kind.String())
	}

	c.JSON(http.StatusAccepted, resp)
}
