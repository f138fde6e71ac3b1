// Package i18n 提供国际化支持
// 负责管理应用程序的语言包和翻译功能
package i18n

import (
	"sync"

	"github.com/go-playground/locales/en_US"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/notehubio/notehub/internal/logger"
)

// 支持的语言
const (
	LangZhCN = "zh-CN"
	LangEnUS = "en-US"
)

var (
	instance *I18n
	once     sync.Once

	// 语言包存储
	translations = map[string]map[string]string{
		LangZhCN: {
			"success":               "成功",
			"internal_server_error": "服务器内部错误",
			"invalid_params":        "参数错误",
			"not_found":             "资源未找到",

			"note_not_found":     "笔记未找到",
			"note_create_failed": "笔记创建失败",
			"note_update_failed": "笔记更新失败",
			"note_delete_failed": "笔记删除失败",
			"note_query_failed":  "笔记查询失败",

			"category_not_found":     "分类未找到",
			"category_create_failed": "分类创建失败",
			"category_query_failed":  "分类查询失败",

			"database_query":       "数据库查询错误",
			"database_insert":      "数据库插入错误",
			"database_update":      "数据库更新错误",
			"database_delete":      "数据库删除错误",
			"database_transaction": "数据库事务错误",

			"unknown_error": "未知错误",
		},
		LangEnUS: {
			"success":               "Success",
			"internal_server_error": "Internal Server Error",
			"invalid_params":        "Invalid Parameters",
			"not_found":             "Resource Not Found",

			"note_not_found":     "Note Not Found",
			"note_create_failed": "Failed to Create Note",
			"note_update_failed": "Failed to Update Note",
			"note_delete_failed": "Failed to Delete Note",
			"note_query_failed":  "Failed to Query Notes",

			"category_not_found":     "Category Not Found",
			"category_create_failed": "Failed to Create Category",
			"category_query_failed":  "Failed to Query Categories",

			"database_query":       "Database Query Error",
			"database_insert":      "Database Insert Error",
			"database_update":      "Database Update Error",
			"database_delete":      "Database Delete Error",
			"database_transaction": "Database Transaction Error",

			"unknown_error": "Unknown Error",
		},
	}
)

// I18n 国际化管理器
type I18n struct {
	translators map[string]ut.Translator
	defaultLang string
}

// GetInstance 获取I18n单例
func GetInstance() *I18n {
	once.Do(func() {
		instance = &I18n{
			translators: make(map[string]ut.Translator),
			defaultLang: LangZhCN,
		}
		instance.initTranslators()
	})
	return instance
}

// initTranslators 初始化翻译器
func (i *I18n) initTranslators() {
	// 创建通用翻译器
	zhCN := zh.New()
	enUS := en_US.New()
	uni := ut.New(zhCN, enUS, zhCN)

	// 注册支持的语言 - 使用locale库的标识符
	langMappings := map[string]string{
		LangZhCN: "zh",    // 中文使用 "zh"
		LangEnUS: "en_US", // 英文使用 "en_US"
	}

	for ourLang, localeLang := range langMappings {
		trans, found := uni.GetTranslator(localeLang)
		if !found {
			logger.Errorf("初始化翻译器失败 for language %s (locale: %s): translator not found", ourLang, localeLang)
			continue
		}
		i.translators[ourLang] = trans
	}

	logger.Info("国际化翻译器初始化完成")
}

// Translate 根据键和语言获取翻译
func (i *I18n) Translate(key, lang string) string {
	// 查找翻译
	if translation, found := translations[lang][key]; found {
		return translation
	}

	// 如果当前语言没有找到，尝试在默认语言中查找
	if lang != i.defaultLang {
		if translation, found := translations[i.defaultLang][key]; found {
			return translation
		}
	}

	logger.Warnf("未找到翻译: %s, 语言: %s", key, lang)
	return key
}

// SetDefaultLanguage 设置默认语言
func (i *I18n) SetDefaultLanguage(lang string) {
	i.defaultLang = lang
}

// GetDefaultLanguage 获取默认语言
func (i *I18n) GetDefaultLanguage() string {
	return i.defaultLang
}

// IsSupportedLanguage 检查语言是否支持
func (i *I18n) IsSupportedLanguage(lang string) bool {
	_, exists := i.translators[lang]
	return exists
}
