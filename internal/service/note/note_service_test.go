// Package note_test 提供笔记服务的单元测试
// 测试笔记的创建、过滤、更新、归档、删除等核心功能
package note_test

import (
	"fmt"
	"testing"

	"github.com/notehubio/notehub/internal/database"
	apperrors "github.com/notehubio/notehub/internal/errors"
	noteservice "github.com/notehubio/notehub/internal/service/note"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB 设置测试数据库
func setupTestDB(t *testing.T) *gorm.DB {
	// 使用内存SQLite数据库进行测试
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = database.Migrate(db)
	require.NoError(t, err)

	return db
}

// setupService 设置测试服务
func setupService(t *testing.T) (noteservice.NoteService, *gorm.DB) {
	db := setupTestDB(t)
	return noteservice.NewNoteService(db), db
}

// TestCreateNote 测试创建笔记
func TestCreateNote(t *testing.T) {
	noteService, db := setupService(t)

	t.Run("创建带分类的笔记", func(t *testing.T) {
		req := &noteservice.CreateNoteRequest{
			Title:      "测试笔记",
			Content:    "这是一个测试笔记的内容",
			Categories: []string{"工作", "学习"},
		}

		note, err := noteService.CreateNote(req)
		require.NoError(t, err)
		assert.NotNil(t, note)
		assert.Equal(t, req.Title, note.Title)
		assert.Equal(t, req.Content, note.Content)
		assert.False(t, note.IsArchived)
		assert.NotZero(t, note.ID)
		assert.Len(t, note.Categories, 2)
	})

	t.Run("创建无分类的笔记", func(t *testing.T) {
		req := &noteservice.CreateNoteRequest{
			Title:   "无分类笔记",
			Content: "内容",
		}

		note, err := noteService.CreateNote(req)
		require.NoError(t, err)
		assert.NotNil(t, note.Categories)
		assert.Len(t, note.Categories, 0)
	})

	t.Run("空标题也允许创建", func(t *testing.T) {
		req := &noteservice.CreateNoteRequest{
			Content: "只有内容没有标题",
		}

		note, err := noteService.CreateNote(req)
		require.NoError(t, err)
		assert.Equal(t, "", note.Title)
	})

	t.Run("同名分类在多笔记间复用", func(t *testing.T) {
		_, err := noteService.CreateNote(&noteservice.CreateNoteRequest{
			Title:      "笔记A",
			Categories: []string{"复用分类"},
		})
		require.NoError(t, err)

		_, err = noteService.CreateNote(&noteservice.CreateNoteRequest{
			Title:      "笔记B",
			Categories: []string{"复用分类"},
		})
		require.NoError(t, err)

		// 同名分类只应存在一条记录
		var count int64
		err = db.Model(&database.Category{}).Where("name = ?", "复用分类").Count(&count).Error
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("空名称分类按字面值处理", func(t *testing.T) {
		_, err := noteService.CreateNote(&noteservice.CreateNoteRequest{
			Title:      "已有分类的笔记",
			Categories: []string{"占位分类"},
		})
		require.NoError(t, err)

		// 空名称不能匹配到任何已存在的分类
		note, err := noteService.CreateNote(&noteservice.CreateNoteRequest{
			Title:      "空分类名笔记",
			Categories: []string{""},
		})
		require.NoError(t, err)
		require.Len(t, note.Categories, 1)
		assert.Equal(t, "", note.Categories[0].Name)
	})

	t.Run("请求中重复的分类只关联一次", func(t *testing.T) {
		note, err := noteService.CreateNote(&noteservice.CreateNoteRequest{
			Title:      "重复分类笔记",
			Categories: []string{"去重", "去重"},
		})
		require.NoError(t, err)
		assert.Len(t, note.Categories, 1)
	})
}

// TestListNotes 测试未归档笔记列表
func TestListNotes(t *testing.T) {
	noteService, _ := setupService(t)

	active, err := noteService.CreateNote(&noteservice.CreateNoteRequest{Title: "活跃笔记"})
	require.NoError(t, err)

	archived, err := noteService.CreateNote(&noteservice.CreateNoteRequest{Title: "待归档笔记"})
	require.NoError(t, err)
	_, err = noteService.ArchiveNote(archived.ID)
	require.NoError(t, err)

	t.Run("列表仅包含未归档笔记", func(t *testing.T) {
		notes, err := noteService.ListNotes()
		require.NoError(t, err)
		assert.Len(t, notes, 1)
		assert.Equal(t, active.ID, notes[0].ID)
	})
}

// TestFilterNotes 测试分页过滤查询
func TestFilterNotes(t *testing.T) {
	noteService, _ := setupService(t)

	// 创建23条笔记，奇数笔记归类"工作"，偶数笔记归类"生活"
	for i := 1; i <= 23; i++ {
		category := "生活"
		if i%2 == 1 {
			category = "工作"
		}
		_, err := noteService.CreateNote(&noteservice.CreateNoteRequest{
			Title:      fmt.Sprintf("笔记%d", i),
			Categories: []string{category},
		})
		require.NoError(t, err)
	}

	t.Run("分页信息正确", func(t *testing.T) {
		result, err := noteService.FilterNotes(2, 10, nil, "")
		require.NoError(t, err)
		assert.Equal(t, int64(23), result.Total)
		assert.Equal(t, 2, result.Page)
		assert.Equal(t, 3, result.Pages)
		assert.Len(t, result.Notes, 10)
	})

	t.Run("结果按ID倒序", func(t *testing.T) {
		result, err := noteService.FilterNotes(1, 5, nil, "")
		require.NoError(t, err)
		require.Len(t, result.Notes, 5)
		for i := 1; i < len(result.Notes); i++ {
			assert.Greater(t, result.Notes[i-1].ID, result.Notes[i].ID)
		}
	})

	t.Run("末页包含剩余笔记", func(t *testing.T) {
		result, err := noteService.FilterNotes(3, 10, nil, "")
		require.NoError(t, err)
		assert.Len(t, result.Notes, 3)
	})

	t.Run("超出范围的页码返回空列表", func(t *testing.T) {
		result, err := noteService.FilterNotes(99, 10, nil, "")
		require.NoError(t, err)
		assert.Equal(t, int64(23), result.Total)
		assert.Len(t, result.Notes, 0)
	})

	t.Run("非法分页参数回退默认值", func(t *testing.T) {
		result, err := noteService.FilterNotes(0, -1, nil, "")
		require.NoError(t, err)
		assert.Equal(t, 1, result.Page)
		assert.Len(t, result.Notes, 10)
	})

	t.Run("按分类过滤", func(t *testing.T) {
		result, err := noteService.FilterNotes(1, 50, []string{"工作"}, "")
		require.NoError(t, err)
		assert.Equal(t, int64(12), result.Total)
	})

	t.Run("多分类为逻辑或", func(t *testing.T) {
		result, err := noteService.FilterNotes(1, 50, []string{"工作", "生活"}, "")
		require.NoError(t, err)
		assert.Equal(t, int64(23), result.Total)
	})

	t.Run("未知分类返回空结果", func(t *testing.T) {
		result, err := noteService.FilterNotes(1, 10, []string{"不存在"}, "")
		require.NoError(t, err)
		assert.Equal(t, int64(0), result.Total)
		assert.Equal(t, 0, result.Pages)
		assert.Len(t, result.Notes, 0)
	})
}

// TestFilterNotesByTitle 测试标题过滤
func TestFilterNotesByTitle(t *testing.T) {
	noteService, _ := setupService(t)

	_, err := noteService.CreateNote(&noteservice.CreateNoteRequest{Title: "Meeting Notes"})
	require.NoError(t, err)
	_, err = noteService.CreateNote(&noteservice.CreateNoteRequest{Title: "Shopping List"})
	require.NoError(t, err)

	archived, err := noteService.CreateNote(&noteservice.CreateNoteRequest{Title: "Meeting Archive"})
	require.NoError(t, err)
	_, err = noteService.ArchiveNote(archived.ID)
	require.NoError(t, err)

	t.Run("标题子串匹配大小写不敏感", func(t *testing.T) {
		result, err := noteService.FilterNotes(1, 10, nil, "MEETING")
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.Total)
		assert.Equal(t, "Meeting Notes", result.Notes[0].Title)
	})

	t.Run("归档笔记不参与过滤", func(t *testing.T) {
		result, err := noteService.FilterNotes(1, 10, nil, "archive")
		require.NoError(t, err)
		assert.Equal(t, int64(0), result.Total)
	})
}

// TestUpdateNote 测试更新笔记
func TestUpdateNote(t *testing.T) {
	noteService, db := setupService(t)

	t.Run("部分更新仅修改出现的字段", func(t *testing.T) {
		note, err := noteService.CreateNote(&noteservice.CreateNoteRequest{
			Title:   "原始标题",
			Content: "原始内容",
		})
		require.NoError(t, err)

		newTitle := "更新后的标题"
		updated, err := noteService.UpdateNote(note.ID, &noteservice.UpdateNoteRequest{
			Title: &newTitle,
		})
		require.NoError(t, err)
		assert.Equal(t, newTitle, updated.Title)
		assert.Equal(t, "原始内容", updated.Content)
	})

	t.Run("添加和移除分类", func(t *testing.T) {
		note, err := noteService.CreateNote(&noteservice.CreateNoteRequest{
			Title:      "分类管理笔记",
			Categories: []string{"旧分类"},
		})
		require.NoError(t, err)

		updated, err := noteService.UpdateNote(note.ID, &noteservice.UpdateNoteRequest{
			AddCategories:    []string{"新分类"},
			RemoveCategories: []string{"旧分类"},
		})
		require.NoError(t, err)
		require.Len(t, updated.Categories, 1)
		assert.Equal(t, "新分类", updated.Categories[0].Name)

		// 移除关联后分类记录本身保留
		var count int64
		err = db.Model(&database.Category{}).Where("name = ?", "旧分类").Count(&count).Error
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("重复添加已关联分类为空操作", func(t *testing.T) {
		note, err := noteService.CreateNote(&noteservice.CreateNoteRequest{
			Title:      "重复关联笔记",
			Categories: []string{"已关联"},
		})
		require.NoError(t, err)

		updated, err := noteService.UpdateNote(note.ID, &noteservice.UpdateNoteRequest{
			AddCategories: []string{"已关联"},
		})
		require.NoError(t, err)
		assert.Len(t, updated.Categories, 1)
	})

	t.Run("移除未关联的分类静默忽略", func(t *testing.T) {
		note, err := noteService.CreateNote(&noteservice.CreateNoteRequest{
			Title: "无分类可移除",
		})
		require.NoError(t, err)

		updated, err := noteService.UpdateNote(note.ID, &noteservice.UpdateNoteRequest{
			RemoveCategories: []string{"不存在的分类"},
		})
		require.NoError(t, err)
		assert.Len(t, updated.Categories, 0)
	})

	t.Run("更新不存在的笔记", func(t *testing.T) {
		newTitle := "新标题"
		updated, err := noteService.UpdateNote(99999, &noteservice.UpdateNoteRequest{
			Title: &newTitle,
		})
		assert.Error(t, err)
		assert.Nil(t, updated)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

// TestArchiveNote 测试归档与取消归档
func TestArchiveNote(t *testing.T) {
	noteService, _ := setupService(t)

	note, err := noteService.CreateNote(&noteservice.CreateNoteRequest{Title: "归档测试"})
	require.NoError(t, err)

	t.Run("归档后从列表消失", func(t *testing.T) {
		archived, err := noteService.ArchiveNote(note.ID)
		require.NoError(t, err)
		assert.True(t, archived.IsArchived)

		notes, err := noteService.ListNotes()
		require.NoError(t, err)
		assert.Len(t, notes, 0)
	})

	t.Run("取消归档后重新可见", func(t *testing.T) {
		unarchived, err := noteService.UnarchiveNote(note.ID)
		require.NoError(t, err)
		assert.False(t, unarchived.IsArchived)

		notes, err := noteService.ListNotes()
		require.NoError(t, err)
		assert.Len(t, notes, 1)
	})

	t.Run("归档不存在的笔记", func(t *testing.T) {
		_, err := noteService.ArchiveNote(99999)
		assert.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

// TestDeleteNote 测试删除笔记
func TestDeleteNote(t *testing.T) {
	noteService, db := setupService(t)

	t.Run("删除笔记并清理关联", func(t *testing.T) {
		note, err := noteService.CreateNote(&noteservice.CreateNoteRequest{
			Title:      "待删除笔记",
			Categories: []string{"保留分类"},
		})
		require.NoError(t, err)

		err = noteService.DeleteNote(note.ID)
		require.NoError(t, err)

		// 关联已清理
		var linkCount int64
		err = db.Model(&database.NoteCategory{}).Where("note_id = ?", note.ID).Count(&linkCount).Error
		require.NoError(t, err)
		assert.Equal(t, int64(0), linkCount)

		// 分类记录保留供复用
		var categoryCount int64
		err = db.Model(&database.Category{}).Where("name = ?", "保留分类").Count(&categoryCount).Error
		require.NoError(t, err)
		assert.Equal(t, int64(1), categoryCount)
	})

	t.Run("删除后再操作返回未找到", func(t *testing.T) {
		note, err := noteService.CreateNote(&noteservice.CreateNoteRequest{Title: "二次删除"})
		require.NoError(t, err)

		err = noteService.DeleteNote(note.ID)
		require.NoError(t, err)

		err = noteService.DeleteNote(note.ID)
		assert.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))

		_, err = noteService.UpdateNote(note.ID, &noteservice.UpdateNoteRequest{})
		assert.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}
