// Package database 提供数据库迁移和初始化功能
// 包含笔记系统相关表的创建和索引优化
package database

import (
	"github.com/notehubio/notehub/internal/logger"
	"gorm.io/gorm"
)

// Migrate 执行笔记系统相关表的数据库迁移
// 参数: db *gorm.DB - GORM数据库连接实例
// 返回值: error - 迁移失败时返回错误信息
// 用途: 创建笔记、分类和关联表，并建立必要的索引
func Migrate(db *gorm.DB) error {
	logger.Info("开始执行数据库迁移...")

	// 注册自定义关联表，迁移和预加载都经过NoteCategory模型
	// 否则多对多关系处理会把note_categories重建为GORM默认形状
	if err := db.SetupJoinTable(&Note{}, "Categories", &NoteCategory{}); err != nil {
		return err
	}
	if err := db.SetupJoinTable(&Category{}, "Notes", &NoteCategory{}); err != nil {
		return err
	}

	err := db.AutoMigrate(
		&Category{},     // 分类表
		&NoteCategory{}, // 笔记分类关联表
		&Note{},         // 笔记主表
	)
	if err != nil {
		return err
	}

	// 创建复合索引以优化查询性能
	if err := createNoteIndexes(db); err != nil {
		return err
	}

	logger.Info("数据库迁移完成")
	return nil
}

// createNoteIndexes 创建笔记系统的复合索引
// 用途: 优化归档过滤和分页查询的性能
func createNoteIndexes(db *gorm.DB) error {
	indexes := []string{
		// 列表与过滤查询优化：按归档状态过滤后按ID倒序分页
		"CREATE INDEX IF NOT EXISTS idx_notes_archived_id ON notes(is_archived, id DESC)",
		// 关联表反向查询优化：根据分类查笔记
		"CREATE INDEX IF NOT EXISTS idx_note_categories_category ON note_categories(category_id)",
	}

	for _, indexSQL := range indexes {
		if err := db.Exec(indexSQL).Error; err != nil {
			logger.Errorf("创建索引失败: %s, 错误: %v", indexSQL, err)
			return err
		}
	}

	return nil
}
