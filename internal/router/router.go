package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/notehubio/notehub/config"
	"github.com/notehubio/notehub/internal/handler"
	"github.com/notehubio/notehub/internal/middleware"
	categoryservice "github.com/notehubio/notehub/internal/service/category"
	noteservice "github.com/notehubio/notehub/internal/service/note"
	"gorm.io/gorm"
)

// Router 路由配置
type Router struct {
	engine *gin.Engine
	db     *gorm.DB
}

// NewRouter 创建路由实例
func NewRouter(loggerMiddleware *middleware.LoggerMiddleware, db *gorm.DB, cfg *config.Config) *Router {
	// 设置Gin模式
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()

	// 初始化服务
	noteService := noteservice.NewNoteService(db)
	categoryService := categoryservice.NewCategoryService(db)

	// 初始化处理器
	noteHandler := handler.NewNoteHandler(noteService)
	categoryHandler := handler.NewCategoryHandler(categoryService)

	// 使用中间件
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(loggerMiddleware.RequestLogger())

	// 配置CORS
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"*"},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// 健康检查
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// API路由组
	api := engine.Group("/api")
	{
		// 笔记管理接口
		notes := api.Group("/notes")
		{
			notes.POST("", noteHandler.CreateNote)                     // 创建笔记
			notes.GET("", noteHandler.ListNotes)                       // 未归档笔记列表
			notes.GET("/filter", noteHandler.FilterNotes)              // 分页过滤查询
			notes.PUT("/:id", noteHandler.UpdateNote)                  // 部分更新
			notes.DELETE("/:id", noteHandler.DeleteNote)               // 物理删除
			notes.PATCH("/:id/archive", noteHandler.ArchiveNote)       // 归档
			notes.PATCH("/:id/unarchive", noteHandler.UnarchiveNote)   // 取消归档
		}

		// 分类管理接口
		categories := api.Group("/categories")
		{
			categories.GET("", categoryHandler.ListCategories) // 分类词表
		}
	}

	return &Router{
		engine: engine,
		db:     db,
	}
}

// GetEngine 获取Gin引擎
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// GetDB 获取数据库连接
func (r *Router) GetDB() *gorm.DB {
	return r.db
}
