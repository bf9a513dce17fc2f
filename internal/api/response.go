package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taoyao-code/scoreboard-server/internal/config"
	"github.com/taoyao-code/scoreboard-server/internal/scoreboard"
)

// Response 统一响应信封
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func fail(c *gin.Context, code int, msg string) {
	c.JSON(code, Response{Success: false, Error: msg})
}

// failErr 参数类错误返回 400，其余操作失败仍返回 200 + success=false
func failErr(c *gin.Context, err error) {
	code := http.StatusOK
	if errors.Is(err, scoreboard.ErrInvalidTeam) || errors.Is(err, config.ErrInvalidUpdate) {
		code = http.StatusBadRequest
	}
	fail(c, code, err.Error())
}

func badRequest(c *gin.Context, err error) {
	fail(c, http.StatusBadRequest, "invalid request: "+err.Error())
}
