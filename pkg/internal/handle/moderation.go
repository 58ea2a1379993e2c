package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pixelvault/pixelvault/pkg/internal/model"
	"github.com/pixelvault/pixelvault/pkg/internal/service"
	"github.com/pixelvault/pixelvault/pkg/internal/types"
	"github.com/pixelvault/pixelvault/pkg/log"
)

// ModerationQueue 分页列出待审核的媒体项.
//
//	@Summary		待审核队列
//	@Description	按提交时间顺序返回等待人工审核的媒体项
//	@Tags			审核
//	@Produce		json
//	@Param			limit	query		int								false	"分页大小"
//	@Param			offset	query		int								false	"分页偏移"
//	@Success		200		{object}	types.ModerationQueueResponse	"待审核队列"
//	@Failure		500		{object}	map[string]string				"服务器内部错误"
//	@Router			/api/v1/moderation/queue [get]
func ModerationQueue(c *gin.Context) {
	limit, offset := pagination(c)
	ctx := c.Request.Context()

	items, total, err := service.NewModerationService(ctx).PendingQueue(ctx, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := types.ModerationQueueResponse{Total: total}
	for i := range items {
		resp.Items = append(resp.Items, types.NewMediaItemInfo(&items[i]))
	}

	c.JSON(http.StatusOK, resp)
}

// ModerateMedia 对单个媒体项做出审核决定.
//
//	@Summary		审核媒体项
//	@Description	批准或驳回待审核的媒体项并记录审核动作
//	@Tags			审核
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int						true	"媒体项 ID"
//	@Param			body	body		types.ModerateRequest	true	"审核决定"
//	@Success		200		{object}	types.ModerateResponse	"审核后的媒体项"
//	@Failure		400		{object}	map[string]string		"请求参数错误"
//	@Failure		409		{object}	map[string]string		"媒体项不在待审核状态"
//	@Router			/api/v1/media/{id}/moderate [post]
func ModerateMedia(c *gin.Context) {
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}

	moderatorID, err := checkOwner(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid moderator: " + err.Error()})
		return
	}

	var req types.ModerateRequest
	if err := c.ShouldBind(&req); err != nil {
		l := log.Logger()
		l.Warn().Err(err).Msg("invalid request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	decision := model.DecisionApprove
	if req.Decision == "reject" {
		decision = model.DecisionReject
	}

	ctx := c.Request.Context()

	item, err := service.NewModerationService(ctx).Moderate(ctx, itemID, moderatorID, decision, req.Reason)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, types.ModerateResponse{Item: types.NewMediaItemInfo(item)})
}

// ModeratePost 对整个图集做出审核决定.
//
//	@Summary		审核图集
//	@Description	批准或驳回待审核的图集；批准后立即尝试一次非强制发布
//	@Tags			审核
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int							true	"图集 ID"
//	@Param			body	body		types.ModerateRequest		true	"审核决定"
//	@Success		200		{object}	types.ModeratePostResponse	"审核后的图集"
//	@Failure		400		{object}	map[string]string			"请求参数错误"
//	@Failure		409		{object}	map[string]string			"图集不在待审核状态"
//	@Router			/api/v1/posts/{id}/moderate [post]
func ModeratePost(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	moderatorID, err := checkOwner(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid moderator: " + err.Error()})
		return
	}

	var req types.ModerateRequest
	if err := c.ShouldBind(&req); err != nil {
		l := log.Logger()
		l.Warn().Err(err).Msg("invalid request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	decision := model.DecisionApprove
	if req.Decision == "reject" {
		decision = model.DecisionReject
	}

	ctx := c.Request.Context()

	post, err := service.NewModerationService(ctx).ModeratePost(ctx, postID, moderatorID, decision, req.Reason)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, types.ModeratePostResponse{Post: types.NewPostInfo(post)})
}
