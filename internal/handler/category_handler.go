package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/notehubio/notehub/internal/response"
	"github.com/notehubio/notehub/internal/service/category"
)

// CategoryHandler 分类处理器
type CategoryHandler struct {
	categoryService category.CategoryService
}

// NewCategoryHandler 创建分类处理器实例
func NewCategoryHandler(categoryService category.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// ListCategories 获取分类列表
// @Summary 获取所有分类
// @Description 返回全局分类词表，按名称升序
// @Tags 分类管理
// @Produce json
// @Success 200 {array} database.Category "获取成功"
// @Failure 500 {object} response.ErrorBody "服务器内部错误"
// @Router /api/categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.ListCategories()
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, categories)
}
