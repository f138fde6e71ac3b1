// Package client 提供笔记服务的Go客户端
// 包含一次性请求/响应的HTTP客户端和镜像服务端状态的本地状态容器
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/notehubio/notehub/config"
	"github.com/notehubio/notehub/internal/database"
	"github.com/notehubio/notehub/internal/response"
	"github.com/notehubio/notehub/internal/service/note"
)

// FilterParams 分页过滤查询参数
type FilterParams struct {
	Page       int      // 页码（从1开始）
	Limit      int      // 每页数量
	Title      string   // 标题子串，可选
	Categories []string // 分类名称列表，可选
}

// NotesClient 笔记服务HTTP客户端
// 所有请求均为一次性请求/响应，不重试；超时由配置决定
type NotesClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewNotesClient 创建笔记服务客户端实例
// 参数:
//   cfg - 客户端配置（服务端地址和请求超时）
func NewNotesClient(cfg config.ClientConfig) *NotesClient {
	return &NotesClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

// NewNotesClientWithHTTPClient 使用自定义HTTP客户端创建实例，便于测试注入
func NewNotesClientWithHTTPClient(baseURL string, httpClient *http.Client) *NotesClient {
	return &NotesClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// FetchNotes 获取所有未归档笔记
func (c *NotesClient) FetchNotes(ctx context.Context) ([]database.Note, error) {
	var notes []database.Note
	if err := c.do(ctx, http.MethodGet, "/api/notes", nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// FilterNotes 分页过滤查询未归档笔记
func (c *NotesClient) FilterNotes(ctx context.Context, params FilterParams) (*note.FilterResult, error) {
	query := url.Values{}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Title != "" {
		query.Set("title", params.Title)
	}
	for _, name := range params.Categories {
		query.Add("categories", name)
	}

	path := "/api/notes/filter"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var result note.FilterResult
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateNote 创建笔记
func (c *NotesClient) CreateNote(ctx context.Context, req *note.CreateNoteRequest) (*database.Note, error) {
	var created database.Note
	if err := c.do(ctx, http.MethodPost, "/api/notes", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateNote 更新笔记
func (c *NotesClient) UpdateNote(ctx context.Context, noteID uint, req *note.UpdateNoteRequest) (*database.Note, error) {
	var updated database.Note
	path := fmt.Sprintf("/api/notes/%d", noteID)
	if err := c.do(ctx, http.MethodPut, path, req, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteNote 删除笔记
func (c *NotesClient) DeleteNote(ctx context.Context, noteID uint) error {
	path := fmt.Sprintf("/api/notes/%d", noteID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// ArchiveNote 归档笔记
func (c *NotesClient) ArchiveNote(ctx context.Context, noteID uint) (*database.Note, error) {
	var archived database.Note
	path := fmt.Sprintf("/api/notes/%d/archive", noteID)
	if err := c.do(ctx, http.MethodPatch, path, nil, &archived); err != nil {
		return nil, err
	}
	return &archived, nil
}

// UnarchiveNote 取消归档笔记
func (c *NotesClient) UnarchiveNote(ctx context.Context, noteID uint) (*database.Note, error) {
	var unarchived database.Note
	path := fmt.Sprintf("/api/notes/%d/unarchive", noteID)
	if err := c.do(ctx, http.MethodPatch, path, nil, &unarchived); err != nil {
		return nil, err
	}
	return &unarchived, nil
}

// ListCategories 获取全局分类词表
func (c *NotesClient) ListCategories(ctx context.Context) ([]database.Category, error) {
	var categories []database.Category
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// do 执行HTTP请求并解析JSON响应（内部方法）
// 非2xx响应解析为 {"error": message} 并以message作为错误返回
func (c *NotesClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var errBody response.ErrorBody
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errBody); decodeErr == nil && errBody.Error != "" {
			return errors.New(errBody.Error)
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
