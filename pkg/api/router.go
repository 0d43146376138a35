package api

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/yleoer/lyrics/pkg/database"
	"github.com/yleoer/lyrics/pkg/processor"
)

// Router 歌词查询与即时解析的 HTTP 路由
type Router struct {
	engine    *gin.Engine
	store     database.LyricStore
	processor *processor.LyricProcessor
	logger    *log.Logger
}

// NewRouter 创建新路由器，store 为 nil 时只提供解析接口
func NewRouter(store database.LyricStore, proc *processor.LyricProcessor, logger *log.Logger) *Router {
	engine := gin.New()
	engine.Use(LoggerMiddleware(logger), gin.Recovery())
	r := &Router{
		engine:    engine,
		store:     store,
		processor: proc,
		logger:    logger,
	}
	r.setupRoutes()
	return r
}

// setupRoutes 设置路由
func (r *Router) setupRoutes() {
	r.engine.GET("/healthz", r.handleHealth)

	api := r.engine.Group("/api")
	{
		api.POST("/parse", r.handleParse)
		if r.store != nil {
			api.GET("/lyrics", r.handleListLyrics)
			api.GET("/lyric", r.handleGetLyric)
		}
	}
}

// Run 启动服务器
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}

// Engine 获取底层 Gin 引擎
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
