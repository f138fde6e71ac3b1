package errors

import (
	"fmt"

	"github.com/notehubio/notehub/internal/i18n"
)

// ErrorCode 错误码类型
type ErrorCode int

// 定义错误码常量
const (
	// 通用错误码 (1000-1999)
	ErrSuccess        ErrorCode = 0    // 成功
	ErrInternalServer ErrorCode = 1000 // 服务器内部错误
	ErrInvalidParams  ErrorCode = 1001 // 参数错误
	ErrNotFound       ErrorCode = 1002 // 资源未找到

	// 笔记相关错误码 (2000-2999)
	ErrNoteNotFound     ErrorCode = 2000 // 笔记未找到
	ErrNoteCreateFailed ErrorCode = 2001 // 笔记创建失败
	ErrNoteUpdateFailed ErrorCode = 2002 // 笔记更新失败
	ErrNoteDeleteFailed ErrorCode = 2003 // 笔记删除失败
	ErrNoteQueryFailed  ErrorCode = 2004 // 笔记查询失败

	// 分类相关错误码 (3000-3999)
	ErrCategoryNotFound     ErrorCode = 3000 // 分类未找到
	ErrCategoryCreateFailed ErrorCode = 3001 // 分类创建失败
	ErrCategoryQueryFailed  ErrorCode = 3002 // 分类查询失败

	// 数据库相关错误码 (4000-4999)
	ErrDatabaseQuery       ErrorCode = 4000 // 数据库查询错误
	ErrDatabaseInsert      ErrorCode = 4001 // 数据库插入错误
	ErrDatabaseUpdate      ErrorCode = 4002 // 数据库更新错误
	ErrDatabaseDelete      ErrorCode = 4003 // 数据库删除错误
	ErrDatabaseTransaction ErrorCode = 4004 // 数据库事务错误
)

// AppError 应用错误结构体
// @Description 应用程序统一错误格式
type AppError struct {
	// 错误码
	Code ErrorCode `json:"code"`
	// 错误消息
	Message string `json:"message"`
	// 详细错误信息
	Details string `json:"details,omitempty"`
	// 原始错误
	OriginalError error `json:"-"`
}

// Error 实现error接口
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%d] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 返回原始错误，支持errors.Is/As链式判断
func (e *AppError) Unwrap() error {
	return e.OriginalError
}

// WithDetails 添加详细错误信息
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// New 创建新的应用错误
// 参数:
//   code - 错误码
// 返回:
//   *AppError - 应用错误实例，消息由错误码经i18n解析
func New(code ErrorCode) *AppError {
	return &AppError{
		Code:    code,
		Message: GetErrorMessage(code),
	}
}

// NewWithDetails 创建带详细信息的应用错误
func NewWithDetails(code ErrorCode, details string) *AppError {
	return &AppError{
		Code:    code,
		Message: GetErrorMessage(code),
		Details: details,
	}
}

// Wrap 包装原始错误
// 参数:
//   code - 错误码
//   err - 原始错误
// 返回:
//   *AppError - 应用错误实例
func Wrap(code ErrorCode, err error) *AppError {
	appErr := &AppError{
		Code:          code,
		Message:       GetErrorMessage(code),
		OriginalError: err,
	}
	if err != nil {
		appErr.Details = err.Error()
	}
	return appErr
}

// GetAppError 从错误中提取应用错误
func GetAppError(err error) (*AppError, bool) {
	appErr, ok := err.(*AppError)
	return appErr, ok
}

// IsCode 判断错误是否携带指定错误码
func IsCode(err error, code ErrorCode) bool {
	if appErr, ok := GetAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// IsNotFound 判断错误是否为资源未找到类错误
func IsNotFound(err error) bool {
	if appErr, ok := GetAppError(err); ok {
		switch appErr.Code {
		case ErrNotFound, ErrNoteNotFound, ErrCategoryNotFound:
			return true
		}
	}
	return false
}

// 错误码到i18n键的映射
var errorCodeToKeyMap = map[ErrorCode]string{
	ErrSuccess:        "success",
	ErrInternalServer: "internal_server_error",
	ErrInvalidParams:  "invalid_params",
	ErrNotFound:       "not_found",

	ErrNoteNotFound:     "note_not_found",
	ErrNoteCreateFailed: "note_create_failed",
	ErrNoteUpdateFailed: "note_update_failed",
	ErrNoteDeleteFailed: "note_delete_failed",
	ErrNoteQueryFailed:  "note_query_failed",

	ErrCategoryNotFound:     "category_not_found",
	ErrCategoryCreateFailed: "category_create_failed",
	ErrCategoryQueryFailed:  "category_query_failed",

	ErrDatabaseQuery:       "database_query",
	ErrDatabaseInsert:      "database_insert",
	ErrDatabaseUpdate:      "database_update",
	ErrDatabaseDelete:      "database_delete",
	ErrDatabaseTransaction: "database_transaction",
}

// GetErrorMessage 根据错误码获取错误消息（使用默认语言）
func GetErrorMessage(code ErrorCode) string {
	return GetErrorMessageWithLang(code, i18n.GetInstance().GetDefaultLanguage())
}

// GetErrorMessageWithLang 根据错误码和语言获取错误消息
// 参数:
//   code - 错误码
//   lang - 语言代码，如zh-CN、en-US
func GetErrorMessageWithLang(code ErrorCode, lang string) string {
	key, exists := errorCodeToKeyMap[code]
	if !exists {
		key = "unknown_error"
	}
	return i18n.GetInstance().Translate(key, lang)
}
