package handle

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pixelvault/pixelvault/pkg/internal/model"
	"github.com/pixelvault/pixelvault/pkg/internal/service"
	"github.com/pixelvault/pixelvault/pkg/internal/types"
	"github.com/pixelvault/pixelvault/pkg/log"
	"github.com/pixelvault/pixelvault/pkg/middleware"
)

// CreatePost 创建图集并关联成员媒体项.
//
//	@Summary		创建图集
//	@Description	以给定顺序关联媒体项创建图集，slug 由名称生成
//	@Tags			图集
//	@Accept			json
//	@Produce		json
//	@Param			body	body		types.CreatePostRequest	true	"创建图集请求"
//	@Success		201		{object}	types.PostInfo			"新建图集"
//	@Failure		400		{object}	map[string]string		"请求参数错误"
//	@Failure		500		{object}	map[string]string		"服务器内部错误"
//	@Router			/api/v1/posts [post]
func CreatePost(c *gin.Context) {
	ownerID, err := checkOwner(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid owner: " + err.Error()})
		return
	}

	var req types.CreatePostRequest
	if err := c.ShouldBind(&req); err != nil {
		l := log.Logger()
		l.Warn().Err(err).Msg("invalid request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	ctx := c.Request.Context()

	post, err := service.NewPostService(ctx).CreatePost(ctx, ownerID, req.Name, req.IsBlurred, req.ItemIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, types.NewPostInfo(post))
}

// GetPost 查询图集详情（含按位置排序的成员）.
//
//	@Summary		查询图集
//	@Description	返回图集及其成员媒体项与版本
//	@Tags			图集
//	@Produce		json
//	@Param			id	path		int					true	"图集 ID"
//	@Success		200	{object}	types.PostResponse	"图集详情"
//	@Failure		404	{object}	map[string]string	"图集不存在"
//	@Router			/api/v1/posts/{id} [get]
func GetPost(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	post, err := service.NewPostService(ctx).GetPost(ctx, postID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	resp := types.PostResponse{Post: types.NewPostInfo(post)}
	for i := range post.Media {
		pm := &post.Media[i]
		resp.Media = append(resp.Media, types.PostMediaInfo{
			Position: pm.Position,
			Item:     types.NewMediaItemInfo(&pm.MediaItem),
		})
	}

	c.JSON(http.StatusOK, resp)
}

// PublishPost 尝试发布图集.
//
//	@Summary		发布图集
//	@Description	校验全部成员已审核通过且派生版本齐备；任一成员不满足时扣留并返回阻塞原因
//	@Tags			图集
//	@Produce		json
//	@Param			id		path		int						true	"图集 ID"
//	@Param			force	query		bool					false	"豁免图集级审核状态前置条件（需要审核员权限）"
//	@Success		200		{object}	types.PublishResponse	"发布成功"
//	@Success		202		{object}	types.PublishResponse	"发布被扣留"
//	@Failure		400		{object}	map[string]string		"请求参数错误"
//	@Failure		403		{object}	map[string]string		"权限不足"
//	@Failure		409		{object}	map[string]string		"图集状态不允许发布"
//	@Router			/api/v1/posts/{id}/publish [post]
func PublishPost(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	force, _ := strconv.ParseBool(c.DefaultQuery("force", "false"))
	if force && middleware.GetRole(c) < middleware.RoleModerator {
		c.JSON(http.StatusForbidden, gin.H{"error": "forced publish requires moderator role"})
		return
	}

	ctx := c.Request.Context()

	result, err := service.NewPublishService(ctx).PublishPost(ctx, postID, force)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	var post model.Post
	if result.Post != nil {
		post = *result.Post
	}

	resp := types.PublishResponse{
		Published: result.Published,
		Post:      types.NewPostInfo(&post),
	}
	for _, b := range result.Blocking {
		resp.Blocking = append(resp.Blocking, types.BlockingItem{
			MediaItemID:     b.MediaItemID,
			Reason:          b.Reason,
			MissingVersions: b.MissingVersions,
		})
	}

	status := http.StatusOK
	if !result.Published {
		status = http.StatusAccepted
	}

	c.JSON(status, resp)
}
