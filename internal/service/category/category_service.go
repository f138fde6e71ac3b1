// Package category 提供分类管理相关的业务逻辑服务
// 分类是全局共享的词表，按名称唯一，从不随笔记删除
package category

import (
	"github.com/notehubio/notehub/internal/database"
	apperrors "github.com/notehubio/notehub/internal/errors"
	"github.com/notehubio/notehub/internal/logger"
	"gorm.io/gorm"
)

// CategoryService 分类服务接口
type CategoryService interface {
	// ListCategories 获取所有分类，按名称升序
	// 返回:
	//   []database.Category - 分类列表
	//   error - 错误信息
	ListCategories() ([]database.Category, error)

	// FindOrCreateCategory 按名称查找或创建分类
	// 名称唯一键保证并发创建者不会产生重复记录
	FindOrCreateCategory(name string) (*database.Category, error)
}

// categoryService 分类服务实现
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService 创建分类服务实例
func NewCategoryService(db *gorm.DB) CategoryService {
	return &categoryService{db: db}
}

// ListCategories 获取所有分类
func (s *categoryService) ListCategories() ([]database.Category, error) {
	var categories []database.Category
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		logger.Errorf("Failed to list categories: %v", err)
		return nil, apperrors.Wrap(apperrors.ErrCategoryQueryFailed, err)
	}
	return categories, nil
}

// FindOrCreateCategory 按名称查找或创建分类
func (s *categoryService) FindOrCreateCategory(name string) (*database.Category, error) {
	category, err := FindOrCreate(s.db, name)
	if err != nil {
		logger.Errorf("Failed to find or create category %q: %v", name, err)
		return nil, apperrors.Wrap(apperrors.ErrCategoryCreateFailed, err)
	}
	return category, nil
}

// FindOrCreate 在给定连接或事务上按名称查找或创建分类
// 条件使用map形式，空名称也按字面值匹配而不会被当作零值忽略
func FindOrCreate(db *gorm.DB, name string) (*database.Category, error) {
	var category database.Category
	if err := db.Where(map[string]interface{}{"name": name}).FirstOrCreate(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}
