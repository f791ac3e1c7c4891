package server

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"salescope/internal/api"
	"salescope/internal/config"
)

// Server HTTP服务器
type Server struct {
	router *gin.Engine
	api    *api.Handler
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig) *Server {
	devMode := cfg.Server.DevMode
	if !devMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// 确保数据目录存在（上传与导出文件落盘位置）
	if _, err := config.EnsureDataDir(cfg); err != nil {
		log.Printf("创建数据目录失败: %v", err)
	}

	s := &Server{
		router: gin.Default(),
		api:    api.NewHandler(cfg),
	}

	s.setupRoutes(devMode)

	return s
}

// setupRoutes 设置路由
func (s *Server) setupRoutes(devMode bool) {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, X-Session-Id")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// API 路由
	group := s.router.Group("/api")
	{
		s.api.RegisterRoutes(group)
	}

	if devMode {
		// 开发模式：代理到前端开发服务器
		s.router.NoRoute(func(c *gin.Context) {
			c.Redirect(http.StatusTemporaryRedirect, "http://localhost:5173"+c.Request.URL.Path)
		})
	} else {
		s.router.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"name": "salescope", "api": "/api"})
		})
	}
}

// Run 启动服务器
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// API 获取 API 处理器（用于测试）
func (s *Server) API() *api.Handler {
	return s.api
}
