package client

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/notehubio/notehub/internal/database"
	apperrors "github.com/notehubio/notehub/internal/errors"
	"github.com/notehubio/notehub/internal/service/note"
)

// State 客户端状态快照
// 镜像服务端数据的本地副本，仅通过状态转移函数修改
type State struct {
	Notes        []database.Note // 缓存的笔记集合
	SelectedNote *database.Note  // 当前选中的笔记，可为空
	Loading      bool            // 是否有进行中的异步操作
	Error        string          // 最近一次失败的错误消息，空串表示无错误
	ShowArchived bool            // 展示归档笔记还是活跃笔记
	CurrentPage  int             // 当前页码
	TotalPages   int             // 总页数
	TotalNotes   int64           // 满足过滤条件的笔记总数
}

// Draft 编辑草稿
// 选中笔记时从笔记内容播种，保存时提交回服务端
type Draft struct {
	Title      string
	Content    string
	Categories []string
}

// NotesStore 笔记状态容器
// 所有状态转移在互斥锁保护下同步执行；网络IO在转移之外进行
type NotesStore struct {
	mu    sync.Mutex
	api   *NotesClient
	state State
	draft Draft
}

// NewNotesStore 创建状态容器实例
func NewNotesStore(api *NotesClient) *NotesStore {
	return &NotesStore{
		api: api,
		state: State{
			Notes:       []database.Note{},
			CurrentPage: 1,
			TotalPages:  1,
		},
	}
}

// State 返回当前状态快照（笔记切片为浅拷贝）
func (s *NotesStore) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state
	snapshot.Notes = append([]database.Note{}, s.state.Notes...)
	if s.state.SelectedNote != nil {
		selected := *s.state.SelectedNote
		snapshot.SelectedNote = &selected
	}
	return snapshot
}

// Draft 返回当前草稿快照
func (s *NotesStore) Draft() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.draft
	snapshot.Categories = append([]string{}, s.draft.Categories...)
	return snapshot
}

// FetchNotes 拉取所有未归档笔记并替换本地集合
func (s *NotesStore) FetchNotes(ctx context.Context) error {
	s.pending()

	notes, err := s.api.FetchNotes(ctx)
	if err != nil {
		s.rejected(err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
	s.state.Notes = notes
	return nil
}

// FilterNotes 分页过滤查询并替换本地集合和分页状态
func (s *NotesStore) FilterNotes(ctx context.Context, params FilterParams) error {
	s.pending()

	result, err := s.api.FilterNotes(ctx, params)
	if err != nil {
		s.rejected(err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
	s.state.Notes = result.Notes
	s.state.CurrentPage = result.Page
	s.state.TotalPages = result.Pages
	s.state.TotalNotes = result.Total
	return nil
}

// CreateNote 创建笔记
// 成功后新笔记置于集合头部并自动选中
func (s *NotesStore) CreateNote(ctx context.Context, title, content string, categories []string) (*database.Note, error) {
	s.pending()

	created, err := s.api.CreateNote(ctx, &note.CreateNoteRequest{
		Title:      title,
		Content:    content,
		Categories: categories,
	})
	if err != nil {
		s.rejected(err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
	s.state.Notes = append([]database.Note{*created}, s.state.Notes...)
	s.selectLocked(created)
	return created, nil
}

// UpdateNote 更新笔记
// 成功后按ID替换集合中的副本；若为选中笔记则同步替换选中项
func (s *NotesStore) UpdateNote(ctx context.Context, noteID uint, req *note.UpdateNoteRequest) (*database.Note, error) {
	s.pending()

	updated, err := s.api.UpdateNote(ctx, noteID, req)
	if err != nil {
		s.rejected(err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
	s.replaceLocked(updated)
	return updated, nil
}

// DeleteNote 删除笔记
// 成功后从集合移除；若为选中笔记则清除选中和草稿
func (s *NotesStore) DeleteNote(ctx context.Context, noteID uint) error {
	s.pending()

	if err := s.api.DeleteNote(ctx, noteID); err != nil {
		s.rejected(err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false

	kept := s.state.Notes[:0]
	for _, n := range s.state.Notes {
		if n.ID != noteID {
			kept = append(kept, n)
		}
	}
	s.state.Notes = kept

	if s.state.SelectedNote != nil && s.state.SelectedNote.ID == noteID {
		s.selectLocked(nil)
	}
	return nil
}

// ArchiveNote 归档笔记
func (s *NotesStore) ArchiveNote(ctx context.Context, noteID uint) error {
	s.pending()

	archived, err := s.api.ArchiveNote(ctx, noteID)
	if err != nil {
		s.rejected(err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
	s.replaceLocked(archived)
	return nil
}

// UnarchiveNote 取消归档笔记
func (s *NotesStore) UnarchiveNote(ctx context.Context, noteID uint) error {
	s.pending()

	unarchived, err := s.api.UnarchiveNote(ctx, noteID)
	if err != nil {
		s.rejected(err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
	s.replaceLocked(unarchived)
	return nil
}

// SelectNote 选中笔记并播种编辑草稿；传入nil清除选中和草稿
func (s *NotesStore) SelectNote(n *database.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectLocked(n)
}

// ClearError 清除错误消息
func (s *NotesStore) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Error = ""
}

// ToggleShowArchived 切换归档视图
func (s *NotesStore) ToggleShowArchived() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ShowArchived = !s.state.ShowArchived
}

// SetDraftTitle 设置草稿标题
func (s *NotesStore) SetDraftTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Title = title
}

// SetDraftContent 设置草稿内容
func (s *NotesStore) SetDraftContent(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Content = content
}

// AddDraftCategory 向草稿追加分类，忽略大小写去重
// 返回是否实际追加
func (s *NotesStore) AddDraftCategory(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.draft.Categories {
		if strings.EqualFold(existing, name) {
			return false
		}
	}
	s.draft.Categories = append(s.draft.Categories, name)
	return true
}

// RemoveDraftCategory 从草稿移除分类
func (s *NotesStore) RemoveDraftCategory(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.draft.Categories[:0]
	for _, existing := range s.draft.Categories {
		if existing != name {
			kept = append(kept, existing)
		}
	}
	s.draft.Categories = kept
}

// SaveDraft 提交草稿
// 无选中笔记时创建新笔记，有选中笔记时按草稿与原笔记的差异更新
// 标题为空时拒绝提交
func (s *NotesStore) SaveDraft(ctx context.Context) error {
	s.mu.Lock()
	if strings.TrimSpace(s.draft.Title) == "" {
		s.mu.Unlock()
		return apperrors.NewWithDetails(apperrors.ErrInvalidParams, "title is required")
	}
	draft := s.draft
	draft.Categories = append([]string{}, s.draft.Categories...)
	selected := s.state.SelectedNote
	s.mu.Unlock()

	if selected == nil {
		_, err := s.CreateNote(ctx, draft.Title, draft.Content, draft.Categories)
		return err
	}

	current := categoryNames(selected.Categories)
	add := diffCategories(draft.Categories, current)
	remove := diffCategories(current, draft.Categories)

	req := &note.UpdateNoteRequest{
		Title:            &draft.Title,
		Content:          &draft.Content,
		AddCategories:    add,
		RemoveCategories: remove,
	}
	_, err := s.UpdateNote(ctx, selected.ID, req)
	return err
}

// CategoryNames 返回缓存笔记中出现的分类名称，去重后按字典序升序
func (s *NotesStore) CategoryNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{})
	names := []string{}
	for _, n := range s.state.Notes {
		for _, c := range n.Categories {
			if _, ok := seen[c.Name]; ok {
				continue
			}
			seen[c.Name] = struct{}{}
			names = append(names, c.Name)
		}
	}
	sort.Strings(names)
	return names
}

// VisibleNotes 返回当前视图下可见的笔记
// 归档状态须与视图一致；指定分类过滤时至少命中一个分类
func (s *NotesStore) VisibleNotes(activeCategories []string) []database.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	visible := []database.Note{}
	for _, n := range s.state.Notes {
		if n.IsArchived != s.state.ShowArchived {
			continue
		}
		if len(activeCategories) > 0 && !matchesAny(n.Categories, activeCategories) {
			continue
		}
		visible = append(visible, n)
	}
	return visible
}

// pending 异步操作开始: 置加载中并清除错误
func (s *NotesStore) pending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = true
	s.state.Error = ""
}

// rejected 异步操作失败: 记录错误，其余状态保持不变
func (s *NotesStore) rejected(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
	s.state.Error = err.Error()
}

// selectLocked 选中笔记并播种草稿，须持锁调用
func (s *NotesStore) selectLocked(n *database.Note) {
	if n == nil {
		s.state.SelectedNote = nil
		s.draft = Draft{}
		return
	}

	selected := *n
	s.state.SelectedNote = &selected
	s.draft = Draft{
		Title:      n.Title,
		Content:    n.Content,
		Categories: categoryNames(n.Categories),
	}
}

// replaceLocked 按ID替换集合中的笔记副本，须持锁调用
func (s *NotesStore) replaceLocked(updated *database.Note) {
	for i, n := range s.state.Notes {
		if n.ID == updated.ID {
			s.state.Notes[i] = *updated
			break
		}
	}
	if s.state.SelectedNote != nil && s.state.SelectedNote.ID == updated.ID {
		selected := *updated
		s.state.SelectedNote = &selected
	}
}

// categoryNames 提取分类名称列表
func categoryNames(categories []database.Category) []string {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return names
}

// diffCategories 返回a中有而b中没有的分类名称
func diffCategories(a, b []string) []string {
	result := []string{}
	for _, name := range a {
		found := false
		for _, other := range b {
			if name == other {
				found = true
				break
			}
		}
		if !found {
			result = append(result, name)
		}
	}
	return result
}

// matchesAny 判断笔记分类是否命中任一激活分类
func matchesAny(categories []database.Category, active []string) bool {
	for _, c := range categories {
		for _, name := range active {
			if c.Name == name {
				return true
			}
		}
	}
	return false
}
