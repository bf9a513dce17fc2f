package httpserver

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	cfgpkg "github.com/taoyao-code/scoreboard-server/internal/config"
	"go.uber.org/zap"
)

// Server HTTP 服务封装
type Server struct {
	srv    *http.Server
	engine *gin.Engine
	log    *zap.Logger
}

// New 创建并配置 Gin + HTTP Server，注册健康检查、指标路由与静态页面
func New(cfg cfgpkg.HTTPConfig, metricsPath string, metricsHandler http.Handler, readyFn func() bool, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/readyz", func(c *gin.Context) {
		if readyFn == nil || readyFn() {
			c.String(http.StatusOK, "ready")
			return
		}
		c.String(http.StatusServiceUnavailable, "not-ready")
	})
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	if metricsHandler != nil {
		r.GET(metricsPath, gin.WrapH(metricsHandler))
	}
	registerStatic(r, cfg.StaticDir, log)

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
		},
		AllowedOrigins: origins,
		AllowedHeaders: []string{"Content-Type", "X-API-Key", "Authorization"},
	})

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      c.Handler(r),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return &Server{srv: srv, engine: r, log: log}
}

// Engine 返回 gin 引擎，供业务路由注册
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Handler 返回包含 CORS 的完整处理器
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Addr 监听地址
func (s *Server) Addr() string {
	return s.srv.Addr
}

// Start 启动 HTTP 服务（阻塞）
func (s *Server) Start() error {
	s.log.Info("http server listening", zap.String("addr", s.srv.Addr))
	return s.srv.ListenAndServe()
}

// Shutdown 优雅关闭
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// registerStatic 管理页面：/ 控制台，/config 配置页，/static 资源
func registerStatic(r *gin.Engine, dir string, log *zap.Logger) {
	if dir == "" {
		return
	}
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		log.Warn("static dir not found, pages disabled", zap.String("dir", dir))
		return
	}
	r.Static("/static", dir)
	r.GET("/", func(c *gin.Context) {
		c.File(filepath.Join(dir, "index.html"))
	})
	r.GET("/config", func(c *gin.Context) {
		c.File(filepath.Join(dir, "config.html"))
	})
}

// requestLogger 访问日志（Debug 级别，探针与指标不记录）
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		switch c.FullPath() {
		case "/healthz", "/readyz", "/metrics":
			return
		}
		log.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
		)
	}
}
