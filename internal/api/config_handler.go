package api

import (
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taoyao-code/scoreboard-server/internal/config"
)

// ConfigHandler 配置查看与保存；保存后需重启生效
type ConfigHandler struct {
	mu     sync.Mutex
	cfg    config.Config
	logger *zap.Logger
}

// NewConfigHandler 持有配置副本，运行中的组件不受修改影响
func NewConfigHandler(cfg *config.Config, logger *zap.Logger) *ConfigHandler {
	return &ConfigHandler{cfg: *cfg, logger: logger}
}

// GetConfig 当前有效配置
// @Summary 查询配置
// @Tags 配置
// @Router /api/config [get]
func (h *ConfigHandler) GetConfig(c *gin.Context) {
	h.mu.Lock()
	view := h.cfg.View()
	h.mu.Unlock()
	ok(c, view)
}

// UpdateConfig 部分更新并写回配置文件
// @Summary 更新配置（重启后生效）
// @Tags 配置
// @Accept json
// @Param body body config.Update true "配置项"
// @Router /api/config [post]
func (h *ConfigHandler) UpdateConfig(c *gin.Context) {
	var req config.Update
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	next := h.cfg
	if err := req.Apply(&next); err != nil {
		failErr(c, err)
		return
	}
	if err := next.Save(""); err != nil {
		h.logger.Error("save config failed", zap.String("path", next.Path()), zap.Error(err))
		failErr(c, err)
		return
	}
	h.cfg = next
	h.logger.Info("config saved", zap.String("path", next.Path()))
	ok(c, "Configuration saved, restart to apply")
}
