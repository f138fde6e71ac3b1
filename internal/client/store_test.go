// Package client_test 提供客户端状态容器的集成测试
// 使用httptest启动真实路由，验证状态转移与派生视图
package client_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/notehubio/notehub/config"
	"github.com/notehubio/notehub/internal/client"
	"github.com/notehubio/notehub/internal/database"
	"github.com/notehubio/notehub/internal/middleware"
	"github.com/notehubio/notehub/internal/router"
	noteservice "github.com/notehubio/notehub/internal/service/note"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupStore 启动测试服务端并创建状态容器
func setupStore(t *testing.T) (*client.NotesStore, *client.NotesClient) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = database.Migrate(db)
	require.NoError(t, err)

	cfg := &config.Config{}
	r := router.NewRouter(middleware.NewLoggerMiddleware(), db, cfg)

	server := httptest.NewServer(r.GetEngine())
	t.Cleanup(server.Close)

	api := client.NewNotesClientWithHTTPClient(server.URL, server.Client())
	return client.NewNotesStore(api), api
}

// TestStoreCreateNote 测试创建笔记的状态转移
func TestStoreCreateNote(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	t.Run("创建成功后置于头部并选中", func(t *testing.T) {
		first, err := store.CreateNote(ctx, "第一篇", "内容1", []string{"工作"})
		require.NoError(t, err)

		second, err := store.CreateNote(ctx, "第二篇", "内容2", nil)
		require.NoError(t, err)

		state := store.State()
		assert.False(t, state.Loading)
		assert.Empty(t, state.Error)
		require.Len(t, state.Notes, 2)
		assert.Equal(t, second.ID, state.Notes[0].ID)
		assert.Equal(t, first.ID, state.Notes[1].ID)
		require.NotNil(t, state.SelectedNote)
		assert.Equal(t, second.ID, state.SelectedNote.ID)
	})

	t.Run("创建后草稿播种自新笔记", func(t *testing.T) {
		created, err := store.CreateNote(ctx, "草稿来源", "正文", []string{"学习"})
		require.NoError(t, err)

		draft := store.Draft()
		assert.Equal(t, created.Title, draft.Title)
		assert.Equal(t, created.Content, draft.Content)
		assert.Equal(t, []string{"学习"}, draft.Categories)
	})
}

// TestStoreFetchAndFilter 测试拉取与过滤的状态转移
func TestStoreFetchAndFilter(t *testing.T) {
	store, api := setupStore(t)
	ctx := context.Background()

	for i := 0; i < 23; i++ {
		_, err := api.CreateNote(ctx, &noteservice.CreateNoteRequest{Title: "批量笔记"})
		require.NoError(t, err)
	}

	t.Run("拉取替换本地集合", func(t *testing.T) {
		err := store.FetchNotes(ctx)
		require.NoError(t, err)

		state := store.State()
		assert.False(t, state.Loading)
		assert.Len(t, state.Notes, 23)
	})

	t.Run("过滤更新分页状态", func(t *testing.T) {
		err := store.FilterNotes(ctx, client.FilterParams{Page: 2, Limit: 10})
		require.NoError(t, err)

		state := store.State()
		assert.Len(t, state.Notes, 10)
		assert.Equal(t, 2, state.CurrentPage)
		assert.Equal(t, 3, state.TotalPages)
		assert.Equal(t, int64(23), state.TotalNotes)
	})
}

// TestStoreUpdateNote 测试更新的状态转移
func TestStoreUpdateNote(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	created, err := store.CreateNote(ctx, "原始标题", "原始内容", nil)
	require.NoError(t, err)

	t.Run("更新替换集合与选中项", func(t *testing.T) {
		newTitle := "更新后的标题"
		_, err := store.UpdateNote(ctx, created.ID, &noteservice.UpdateNoteRequest{
			Title: &newTitle,
		})
		require.NoError(t, err)

		state := store.State()
		require.Len(t, state.Notes, 1)
		assert.Equal(t, newTitle, state.Notes[0].Title)
		require.NotNil(t, state.SelectedNote)
		assert.Equal(t, newTitle, state.SelectedNote.Title)
	})

	t.Run("失败仅记录错误", func(t *testing.T) {
		newTitle := "不会生效"
		_, err := store.UpdateNote(ctx, 99999, &noteservice.UpdateNoteRequest{
			Title: &newTitle,
		})
		require.Error(t, err)

		state := store.State()
		assert.False(t, state.Loading)
		assert.NotEmpty(t, state.Error)
		// 其余状态保持不变
		require.Len(t, state.Notes, 1)
		assert.Equal(t, "更新后的标题", state.Notes[0].Title)
	})

	t.Run("清除错误", func(t *testing.T) {
		store.ClearError()
		assert.Empty(t, store.State().Error)
	})
}

// TestStoreArchive 测试归档视图切换
func TestStoreArchive(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	active, err := store.CreateNote(ctx, "保持活跃", "", nil)
	require.NoError(t, err)

	toArchive, err := store.CreateNote(ctx, "将被归档", "", nil)
	require.NoError(t, err)

	t.Run("归档替换集合中的副本", func(t *testing.T) {
		err := store.ArchiveNote(ctx, toArchive.ID)
		require.NoError(t, err)

		visible := store.VisibleNotes(nil)
		require.Len(t, visible, 1)
		assert.Equal(t, active.ID, visible[0].ID)
	})

	t.Run("切换视图后仅见归档笔记", func(t *testing.T) {
		store.ToggleShowArchived()

		visible := store.VisibleNotes(nil)
		require.Len(t, visible, 1)
		assert.Equal(t, toArchive.ID, visible[0].ID)
	})

	t.Run("取消归档恢复原视图", func(t *testing.T) {
		store.ToggleShowArchived()

		err := store.UnarchiveNote(ctx, toArchive.ID)
		require.NoError(t, err)

		visible := store.VisibleNotes(nil)
		assert.Len(t, visible, 2)
	})
}

// TestStoreDeleteNote 测试删除的状态转移
func TestStoreDeleteNote(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	kept, err := store.CreateNote(ctx, "保留笔记", "", nil)
	require.NoError(t, err)

	selected, err := store.CreateNote(ctx, "选中待删", "", nil)
	require.NoError(t, err)

	t.Run("删除选中笔记时清除选中和草稿", func(t *testing.T) {
		err := store.DeleteNote(ctx, selected.ID)
		require.NoError(t, err)

		state := store.State()
		require.Len(t, state.Notes, 1)
		assert.Equal(t, kept.ID, state.Notes[0].ID)
		assert.Nil(t, state.SelectedNote)
		assert.Empty(t, store.Draft().Title)
	})

	t.Run("删除未选中笔记不影响选中", func(t *testing.T) {
		another, err := store.CreateNote(ctx, "另一篇", "", nil)
		require.NoError(t, err)

		store.SelectNote(another)

		err = store.DeleteNote(ctx, kept.ID)
		require.NoError(t, err)

		state := store.State()
		require.NotNil(t, state.SelectedNote)
		assert.Equal(t, another.ID, state.SelectedNote.ID)
	})
}

// TestStoreDraft 测试编辑草稿
func TestStoreDraft(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	t.Run("选中笔记播种草稿", func(t *testing.T) {
		created, err := store.CreateNote(ctx, "草稿笔记", "草稿内容", []string{"工作"})
		require.NoError(t, err)

		store.SelectNote(nil)
		assert.Empty(t, store.Draft().Title)

		store.SelectNote(created)
		draft := store.Draft()
		assert.Equal(t, "草稿笔记", draft.Title)
		assert.Equal(t, "草稿内容", draft.Content)
		assert.Equal(t, []string{"工作"}, draft.Categories)
	})

	t.Run("草稿分类忽略大小写去重", func(t *testing.T) {
		store.SelectNote(nil)

		assert.True(t, store.AddDraftCategory("Golang"))
		assert.False(t, store.AddDraftCategory("golang"))
		assert.False(t, store.AddDraftCategory("GOLANG"))
		assert.True(t, store.AddDraftCategory("测试"))
		assert.False(t, store.AddDraftCategory("  "))

		assert.Equal(t, []string{"Golang", "测试"}, store.Draft().Categories)

		store.RemoveDraftCategory("Golang")
		assert.Equal(t, []string{"测试"}, store.Draft().Categories)
	})

	t.Run("空标题拒绝保存", func(t *testing.T) {
		store.SelectNote(nil)
		store.SetDraftContent("只有内容")

		err := store.SaveDraft(ctx)
		assert.Error(t, err)
	})

	t.Run("无选中时保存创建新笔记", func(t *testing.T) {
		store.SelectNote(nil)
		store.SetDraftTitle("新建草稿")
		store.SetDraftContent("新建内容")
		store.AddDraftCategory("新建分类")

		err := store.SaveDraft(ctx)
		require.NoError(t, err)

		state := store.State()
		require.NotNil(t, state.SelectedNote)
		assert.Equal(t, "新建草稿", state.SelectedNote.Title)
		require.Len(t, state.SelectedNote.Categories, 1)
		assert.Equal(t, "新建分类", state.SelectedNote.Categories[0].Name)
	})

	t.Run("有选中时保存按差异更新分类", func(t *testing.T) {
		created, err := store.CreateNote(ctx, "差异更新", "", []string{"保留", "移除"})
		require.NoError(t, err)
		require.Len(t, created.Categories, 2)

		store.RemoveDraftCategory("移除")
		store.AddDraftCategory("追加")
		store.SetDraftTitle("差异更新完成")

		err = store.SaveDraft(ctx)
		require.NoError(t, err)

		state := store.State()
		require.NotNil(t, state.SelectedNote)
		assert.Equal(t, "差异更新完成", state.SelectedNote.Title)

		names := []string{}
		for _, c := range state.SelectedNote.Categories {
			names = append(names, c.Name)
		}
		assert.ElementsMatch(t, []string{"保留", "追加"}, names)
	})
}

// TestStoreDerivedViews 测试派生视图
func TestStoreDerivedViews(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	_, err := store.CreateNote(ctx, "工作笔记", "", []string{"b工作"})
	require.NoError(t, err)
	_, err = store.CreateNote(ctx, "学习笔记", "", []string{"a学习"})
	require.NoError(t, err)
	_, err = store.CreateNote(ctx, "混合笔记", "", []string{"b工作", "a学习"})
	require.NoError(t, err)

	t.Run("分类词表去重且升序", func(t *testing.T) {
		assert.Equal(t, []string{"a学习", "b工作"}, store.CategoryNames())
	})

	t.Run("激活分类过滤为逻辑或", func(t *testing.T) {
		visible := store.VisibleNotes([]string{"b工作"})
		assert.Len(t, visible, 2)

		visible = store.VisibleNotes([]string{"a学习", "b工作"})
		assert.Len(t, visible, 3)

		visible = store.VisibleNotes([]string{"未激活"})
		assert.Len(t, visible, 0)
	})
}
