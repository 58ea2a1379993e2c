package model

import "time"

// Setting 运行时可调参数, 覆盖编译期与配置文件中的默认值.
type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"size:128;uniqueIndex;not null" json:"key"`
	Value     string    `gorm:"size:1024;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名.
func (Setting) TableName() string { return "settings" }
