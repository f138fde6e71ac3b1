// Package handler 提供笔记管理相关的HTTP处理器
// 实现RESTful API接口，仅负责参数解析与响应转换，不含业务逻辑
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apperrors "github.com/notehubio/notehub/internal/errors"
	"github.com/notehubio/notehub/internal/response"
	"github.com/notehubio/notehub/internal/service/note"
)

// NoteHandler 笔记处理器
// 提供笔记管理的HTTP接口，包括CRUD操作、分页过滤和归档管理
type NoteHandler struct {
	noteService note.NoteService
}

// NewNoteHandler 创建笔记处理器实例
// 参数:
//   noteService - 笔记服务接口
// 返回:
//   *NoteHandler - 笔记处理器实例
func NewNoteHandler(noteService note.NoteService) *NoteHandler {
	return &NoteHandler{
		noteService: noteService,
	}
}

// parseNoteID 解析路径中的笔记ID
func parseNoteID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, apperrors.GetErrorMessage(apperrors.ErrInvalidParams))
		return 0, false
	}
	return uint(id), true
}

// CreateNote 创建笔记
// @Summary 创建新笔记
// @Description 创建一个新的笔记，分类按名称查找或创建
// @Tags 笔记管理
// @Accept json
// @Produce json
// @Param note body note.CreateNoteRequest true "创建笔记请求"
// @Success 201 {object} database.Note "创建成功"
// @Failure 400 {object} response.ErrorBody "请求参数错误"
// @Failure 500 {object} response.ErrorBody "服务器内部错误"
// @Router /api/notes [post]
func (h *NoteHandler) CreateNote(c *gin.Context) {
	var req note.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, apperrors.GetErrorMessage(apperrors.ErrInvalidParams))
		return
	}

	created, err := h.noteService.CreateNote(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, created)
}

// ListNotes 获取未归档笔记列表
// @Summary 获取所有未归档笔记
// @Description 返回所有未归档的笔记及其分类
// @Tags 笔记管理
// @Produce json
// @Success 200 {array} database.Note "获取成功"
// @Failure 500 {object} response.ErrorBody "服务器内部错误"
// @Router /api/notes [get]
func (h *NoteHandler) ListNotes(c *gin.Context) {
	notes, err := h.noteService.ListNotes()
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, notes)
}

// FilterNotes 分页过滤查询笔记
// @Summary 分页过滤查询未归档笔记
// @Description 按标题子串（大小写不敏感）和分类名称（逻辑或）过滤，按ID倒序分页
// @Tags 笔记管理
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Param title query string false "标题子串"
// @Param categories query []string false "分类名称，可重复传递"
// @Success 200 {object} note.FilterResult "获取成功"
// @Failure 500 {object} response.ErrorBody "服务器内部错误"
// @Router /api/notes/filter [get]
func (h *NoteHandler) FilterNotes(c *gin.Context) {
	page := 1
	limit := 10

	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	title := c.Query("title")
	categories := c.QueryArray("categories")

	result, err := h.noteService.FilterNotes(page, limit, categories, title)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result)
}

// UpdateNote 更新笔记
// @Summary 更新笔记信息
// @Description 部分更新笔记的标题、内容、归档状态，并可增删分类
// @Tags 笔记管理
// @Accept json
// @Produce json
// @Param id path int true "笔记ID"
// @Param note body note.UpdateNoteRequest true "更新笔记请求"
// @Success 200 {object} database.Note "更新成功"
// @Failure 400 {object} response.ErrorBody "请求参数错误"
// @Failure 404 {object} response.ErrorBody "笔记不存在"
// @Failure 500 {object} response.ErrorBody "服务器内部错误"
// @Router /api/notes/{id} [put]
func (h *NoteHandler) UpdateNote(c *gin.Context) {
	noteID, ok := parseNoteID(c)
	if !ok {
		return
	}

	var req note.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, apperrors.GetErrorMessage(apperrors.ErrInvalidParams))
		return
	}

	updated, err := h.noteService.UpdateNote(noteID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, updated)
}

// DeleteNote 删除笔记
// @Summary 删除笔记
// @Description 物理删除笔记及其分类关联，分类记录保留
// @Tags 笔记管理
// @Param id path int true "笔记ID"
// @Success 204 "删除成功"
// @Failure 404 {object} response.ErrorBody "笔记不存在"
// @Failure 500 {object} response.ErrorBody "服务器内部错误"
// @Router /api/notes/{id} [delete]
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	noteID, ok := parseNoteID(c)
	if !ok {
		return
	}

	if err := h.noteService.DeleteNote(noteID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// ArchiveNote 归档笔记
// @Summary 归档笔记
// @Description 将笔记标记为已归档，归档后不在常规列表中显示
// @Tags 笔记管理
// @Produce json
// @Param id path int true "笔记ID"
// @Success 200 {object} database.Note "归档成功"
// @Failure 404 {object} response.ErrorBody "笔记不存在"
// @Router /api/notes/{id}/archive [patch]
func (h *NoteHandler) ArchiveNote(c *gin.Context) {
	noteID, ok := parseNoteID(c)
	if !ok {
		return
	}

	archived, err := h.noteService.ArchiveNote(noteID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, archived)
}

// UnarchiveNote 取消归档笔记
// @Summary 取消归档笔记
// @Description 将笔记恢复为未归档状态
// @Tags 笔记管理
// @Produce json
// @Param id path int true "笔记ID"
// @Success 200 {object} database.Note "取消归档成功"
// @Failure 404 {object} response.ErrorBody "笔记不存在"
// @Router /api/notes/{id}/unarchive [patch]
func (h *NoteHandler) UnarchiveNote(c *gin.Context) {
	noteID, ok := parseNoteID(c)
	if !ok {
		return
	}

	unarchived, err := h.noteService.UnarchiveNote(noteID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, unarchived)
}
