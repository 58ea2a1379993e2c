// Package main 启动应用程序
package main

import "github.com/pixelvault/pixelvault/pkg/cmd"

//	@title			PixelVault API
//	@version		1.0
//	@description	PixelVault 是一个媒体发布服务：接收图片与视频上传，异步生成缩略图、预览、水印与脱敏版本，计算精确与感知哈希做重复检测，并通过审核与就绪闸门控制图集发布。

//	@license.name	MIT
//	@license.url	https://opensource.org/license/mit/

func main() {
	if err := cmd.Execute(); err != nil {
		panic(err)
	}
}
