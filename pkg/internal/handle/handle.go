// Package handle 提供请求处理器的实现，用于处理HTTP和gRPC请求.
package handle

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pixelvault/pixelvault/pkg/rule"
)

func DefaultHandler(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"message": "Not Implemented"})
}

// checkOwner 提取调用者的所有者 ID：Header 优先 -> query 参数 -> 默认 1（便于测试）.
func checkOwner(c *gin.Context) (uint, error) {
	raw := c.GetHeader("X-Owner-ID")
	if raw == "" {
		raw = c.Query("owner_id")
	}
	// 测试默认值，不为 Release 模式时
	if raw == "" && gin.Mode() != gin.ReleaseMode {
		raw = "1"
	}

	raw = strings.TrimSpace(raw)

	// 使用 validator 验证为正整数
	if err := rule.ValidateVar(raw, "required,number"); err != nil {
		return 0, err
	}

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, strconv.ErrSyntax
	}

	return uint(id), nil
}

// pathID 解析路径参数中的数字 ID.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}

	return uint(id), true
}

// pagination 解析 limit/offset 查询参数, 带默认值与上限.
func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
