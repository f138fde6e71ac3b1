// Package note 提供笔记管理相关的业务逻辑服务
// 包含笔记的创建、列表、过滤、更新、归档、删除等核心功能
// 分类按名称查找或创建，笔记与分类为多对多关联
package note

import (
	"errors"
	"strings"
	"time"

	"github.com/notehubio/notehub/internal/database"
	apperrors "github.com/notehubio/notehub/internal/errors"
	"github.com/notehubio/notehub/internal/logger"
	"github.com/notehubio/notehub/internal/service/category"
	"gorm.io/gorm"
)

// NoteService 笔记服务接口
// 提供完整的笔记管理功能，包括分类关联和分页过滤查询
type NoteService interface {
	// CreateNote 创建新笔记
	// 参数:
	//   req - 创建笔记请求，分类按名称查找或创建
	// 返回:
	//   *database.Note - 创建的笔记信息（含分类）
	//   error - 错误信息
	CreateNote(req *CreateNoteRequest) (*database.Note, error)

	// ListNotes 获取所有未归档笔记
	// 返回:
	//   []database.Note - 笔记列表（含分类）
	//   error - 错误信息
	ListNotes() ([]database.Note, error)

	// FilterNotes 分页过滤查询未归档笔记
	// 参数:
	//   page - 页码（从1开始）
	//   limit - 每页数量
	//   categories - 分类名称列表，命中任意一个即匹配（逻辑或）
	//   title - 标题子串，大小写不敏感匹配
	// 返回:
	//   *FilterResult - 过滤结果，含总数和分页信息
	//   error - 错误信息
	FilterNotes(page, limit int, categories []string, title string) (*FilterResult, error)

	// UpdateNote 更新笔记信息
	// 仅更新请求中出现的字段；先处理分类移除，再处理分类添加
	// 参数:
	//   noteID - 笔记ID
	//   req - 更新请求
	// 返回:
	//   *database.Note - 更新后的笔记信息（含分类）
	//   error - 错误信息
	UpdateNote(noteID uint, req *UpdateNoteRequest) (*database.Note, error)

	// ArchiveNote 归档笔记
	ArchiveNote(noteID uint) (*database.Note, error)

	// UnarchiveNote 取消归档笔记
	UnarchiveNote(noteID uint) (*database.Note, error)

	// DeleteNote 删除笔记（物理删除）
	// 级联删除分类关联，但保留分类记录供复用
	DeleteNote(noteID uint) error
}

// CreateNoteRequest 创建笔记请求
type CreateNoteRequest struct {
	Title      string   `json:"title"`      // 笔记标题，允许为空
	Content    string   `json:"content"`    // 笔记内容
	Categories []string `json:"categories"` // 分类名称列表
}

// UpdateNoteRequest 更新笔记请求
// 指针字段为nil时表示不修改对应字段
type UpdateNoteRequest struct {
	Title            *string  `json:"title"`            // 笔记标题
	Content          *string  `json:"content"`          // 笔记内容
	IsArchived       *bool    `json:"isArchived"`       // 是否归档
	AddCategories    []string `json:"addCategories"`    // 待添加的分类名称列表
	RemoveCategories []string `json:"removeCategories"` // 待移除的分类名称列表
}

// FilterResult 分页过滤结果
type FilterResult struct {
	Total int64           `json:"total"` // 满足条件的笔记总数（分页前）
	Page  int             `json:"page"`  // 当前页码
	Pages int             `json:"pages"` // 总页数 ceil(total/limit)
	Notes []database.Note `json:"notes"` // 当前页笔记，按ID倒序
}

// noteService 笔记服务实现
type noteService struct {
	db *gorm.DB
}

// NewNoteService 创建笔记服务实例
// 参数:
//
//	db - 数据库连接
//
// 返回:
//
//	NoteService - 笔记服务接口
func NewNoteService(db *gorm.DB) NoteService {
	return &noteService{db: db}
}

// CreateNote 创建新笔记
func (s *noteService) CreateNote(req *CreateNoteRequest) (*database.Note, error) {
	logger.Debugf("Creating note: %s", req.Title)

	// 开始事务，笔记与分类关联一并创建，失败不留孤儿记录
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	note := &database.Note{
		Title:   req.Title,
		Content: req.Content,
	}

	if err := tx.Create(note).Error; err != nil {
		tx.Rollback()
		logger.Errorf("Failed to create note: %v", err)
		return nil, apperrors.Wrap(apperrors.ErrNoteCreateFailed, err)
	}

	// 按名称查找或创建分类并建立关联
	for _, name := range req.Categories {
		if err := s.attachCategory(tx, note.ID, name); err != nil {
			tx.Rollback()
			logger.Errorf("Failed to attach category %q to note: %v", name, err)
			return nil, apperrors.Wrap(apperrors.ErrNoteCreateFailed, err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		logger.Errorf("Failed to commit note creation transaction: %v", err)
		return nil, apperrors.Wrap(apperrors.ErrDatabaseTransaction, err)
	}

	logger.Infof("Note created successfully: %d", note.ID)
	return s.getNoteByID(note.ID)
}

// ListNotes 获取所有未归档笔记
func (s *noteService) ListNotes() ([]database.Note, error) {
	var notes []database.Note
	if err := s.db.Preload("Categories").Where("is_archived = ?", false).Find(&notes).Error; err != nil {
		logger.Errorf("Failed to list notes: %v", err)
		return nil, apperrors.Wrap(apperrors.ErrNoteQueryFailed, err)
	}

	for i := range notes {
		normalizeCategories(&notes[i])
	}
	return notes, nil
}

// FilterNotes 分页过滤查询未归档笔记
func (s *noteService) FilterNotes(page, limit int, categories []string, title string) (*FilterResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	query := s.db.Model(&database.Note{}).Where("is_archived = ?", false)

	// 标题大小写不敏感子串匹配
	if title != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(title)+"%")
	}

	// 分类过滤：命中任意一个给定分类即匹配
	if len(categories) > 0 {
		sub := s.db.Table("note_categories").
			Select("note_categories.note_id").
			Joins("JOIN categories ON categories.id = note_categories.category_id").
			Where("categories.name IN ?", categories)
		query = query.Where("notes.id IN (?)", sub)
	}

	// 获取分页前总数
	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Errorf("Failed to count filtered notes: %v", err)
		return nil, apperrors.Wrap(apperrors.ErrNoteQueryFailed, err)
	}

	// 分页查询，按ID倒序（最新创建在前）
	var notes []database.Note
	offset := (page - 1) * limit
	if err := query.Preload("Categories").Order("id DESC").Offset(offset).Limit(limit).Find(&notes).Error; err != nil {
		logger.Errorf("Failed to filter notes: %v", err)
		return nil, apperrors.Wrap(apperrors.ErrNoteQueryFailed, err)
	}

	for i := range notes {
		normalizeCategories(&notes[i])
	}

	pages := int(total) / limit
	if int(total)%limit > 0 {
		pages++
	}

	return &FilterResult{
		Total: total,
		Page:  page,
		Pages: pages,
		Notes: notes,
	}, nil
}

// UpdateNote 更新笔记信息
func (s *noteService) UpdateNote(noteID uint, req *UpdateNoteRequest) (*database.Note, error) {
	logger.Debugf("Updating note: %d", noteID)

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var note database.Note
	if err := tx.First(&note, noteID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrNoteNotFound, err)
		}
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}

	// 先处理分类移除：按名称解析已存在的分类，仅删除本笔记的关联
	// 未知名称静默忽略，分类记录本身保留
	if len(req.RemoveCategories) > 0 {
		var categoryIDs []uint
		if err := tx.Model(&database.Category{}).
			Where("name IN ?", req.RemoveCategories).
			Pluck("id", &categoryIDs).Error; err != nil {
			tx.Rollback()
			return nil, apperrors.Wrap(apperrors.ErrNoteUpdateFailed, err)
		}

		if len(categoryIDs) > 0 {
			if err := tx.Where("note_id = ? AND category_id IN ?", note.ID, categoryIDs).
				Delete(&database.NoteCategory{}).Error; err != nil {
				tx.Rollback()
				return nil, apperrors.Wrap(apperrors.ErrNoteUpdateFailed, err)
			}
		}
	}

	// 标量字段部分更新，未出现的字段保持不变
	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.IsArchived != nil {
		updates["is_archived"] = *req.IsArchived
	}

	if len(updates) > 0 {
		updates["updated_at"] = time.Now()
		if err := tx.Model(&note).Updates(updates).Error; err != nil {
			tx.Rollback()
			logger.Errorf("Failed to update note %d: %v", noteID, err)
			return nil, apperrors.Wrap(apperrors.ErrNoteUpdateFailed, err)
		}
	}

	// 再处理分类添加：查找或创建后建立关联，已关联的分类为空操作
	for _, name := range req.AddCategories {
		if err := s.attachCategory(tx, note.ID, name); err != nil {
			tx.Rollback()
			logger.Errorf("Failed to attach category %q to note: %v", name, err)
			return nil, apperrors.Wrap(apperrors.ErrNoteUpdateFailed, err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		logger.Errorf("Failed to commit note update transaction: %v", err)
		return nil, apperrors.Wrap(apperrors.ErrDatabaseTransaction, err)
	}

	return s.getNoteByID(note.ID)
}

// ArchiveNote 归档笔记
func (s *noteService) ArchiveNote(noteID uint) (*database.Note, error) {
	archived := true
	return s.UpdateNote(noteID, &UpdateNoteRequest{IsArchived: &archived})
}

// UnarchiveNote 取消归档笔记
func (s *noteService) UnarchiveNote(noteID uint) (*database.Note, error) {
	archived := false
	return s.UpdateNote(noteID, &UpdateNoteRequest{IsArchived: &archived})
}

// DeleteNote 删除笔记（物理删除）
func (s *noteService) DeleteNote(noteID uint) error {
	logger.Debugf("Deleting note: %d", noteID)

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var note database.Note
	if err := tx.First(&note, noteID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Wrap(apperrors.ErrNoteNotFound, err)
		}
		return apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}

	// 删除分类关联，分类记录本身保留
	if err := tx.Where("note_id = ?", note.ID).Delete(&database.NoteCategory{}).Error; err != nil {
		tx.Rollback()
		return apperrors.Wrap(apperrors.ErrNoteDeleteFailed, err)
	}

	if err := tx.Delete(&note).Error; err != nil {
		tx.Rollback()
		return apperrors.Wrap(apperrors.ErrNoteDeleteFailed, err)
	}

	if err := tx.Commit().Error; err != nil {
		logger.Errorf("Failed to commit note deletion transaction: %v", err)
		return apperrors.Wrap(apperrors.ErrDatabaseTransaction, err)
	}

	logger.Infof("Note deleted successfully: %d", noteID)
	return nil
}

// attachCategory 查找或创建分类并与笔记建立关联（内部方法）
// 分类名称按精确匹配查找；已存在的关联不重复创建
func (s *noteService) attachCategory(tx *gorm.DB, noteID uint, name string) error {
	cat, err := category.FindOrCreate(tx, name)
	if err != nil {
		return err
	}

	// 检查关联是否已存在
	var existing database.NoteCategory
	err = tx.Where("note_id = ? AND category_id = ?", noteID, cat.ID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return tx.Create(&database.NoteCategory{
		NoteID:     noteID,
		CategoryID: cat.ID,
	}).Error
}

// getNoteByID 加载笔记及其分类（内部方法）
func (s *noteService) getNoteByID(noteID uint) (*database.Note, error) {
	var note database.Note
	if err := s.db.Preload("Categories").First(&note, noteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrNoteNotFound, err)
		}
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}

	normalizeCategories(&note)
	return &note, nil
}

// normalizeCategories 保证分类字段序列化为数组而非null
func normalizeCategories(note *database.Note) {
	if note.Categories == nil {
		note.Categories = []database.Category{}
	}
}
