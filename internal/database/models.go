// Package database 定义了数据库相关的模型和结构体
// 包含笔记、分类及其多对多关联的核心数据模型
package database

import (
	"time"
)

// Note 笔记模型
// 存储用户创建的笔记内容，支持归档标记和多分类关联
// 笔记删除为物理删除，删除时级联清理分类关联但保留分类本身
type Note struct {
	ID         uint      `gorm:"primarykey" json:"id"`            // 主键ID，自增
	Title      string    `gorm:"size:200" json:"title"`           // 笔记标题，允许为空
	Content    string    `gorm:"type:text" json:"content"`        // 笔记内容，支持长文本
	IsArchived bool      `gorm:"default:false" json:"isArchived"` // 是否已归档，归档后不在常规列表中显示
	CreatedAt  time.Time `json:"createdAt"`                       // 笔记创建时间
	UpdatedAt  time.Time `json:"updatedAt"`                       // 笔记最后修改时间

	// 关联关系
	Categories []Category `gorm:"many2many:note_categories;" json:"categories"` // 多对多关联分类
}

// TableName 指定Note模型对应的数据库表名
func (Note) TableName() string {
	return "notes"
}

// Category 分类模型
// 全局共享的分类词表，名称唯一，按名称查找或创建，从不随笔记删除
type Category struct {
	ID        uint      `gorm:"primarykey" json:"id"`                     // 主键ID，自增
	Name      string    `gorm:"not null;uniqueIndex;size:100" json:"name"` // 分类名称，必填且唯一
	CreatedAt time.Time `json:"-"`                                        // 分类创建时间
	UpdatedAt time.Time `json:"-"`                                        // 分类最后修改时间

	// 关联关系
	Notes []Note `gorm:"many2many:note_categories;" json:"notes,omitempty"` // 多对多关联笔记
}

// TableName 指定Category模型对应的数据库表名
func (Category) TableName() string {
	return "categories"
}

// NoteCategory 笔记分类关联模型
// 作为Note与Category多对多关系的自定义关联表
// (note_id, category_id) 复合主键保证同一分类不会被重复关联
type NoteCategory struct {
	NoteID     uint      `gorm:"primaryKey" json:"noteId"`     // 笔记ID，外键
	CategoryID uint      `gorm:"primaryKey" json:"categoryId"` // 分类ID，外键
	CreatedAt  time.Time `json:"createdAt"`                    // 关联创建时间
}

// TableName 指定NoteCategory模型对应的数据库表名
func (NoteCategory) TableName() string {
	return "note_categories"
}
