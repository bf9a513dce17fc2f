package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
)

// ErrInvalidUpdate 配置更新参数非法
var ErrInvalidUpdate = errors.New("invalid config update")

// Update 管理页面提交的部分配置（nil 字段保持不变），重启后生效
type Update struct {
	WebPort           *uint16 `json:"web_port,omitempty"`
	SimulationMode    *bool   `json:"simulation_mode,omitempty"`
	ScoreboardAddress *string `json:"scoreboard_address,omitempty"`
	CardID            *uint8  `json:"card_id,omitempty"`
	TryPoints         *uint16 `json:"try_points,omitempty"`
	ConversionPoints  *uint16 `json:"conversion_points,omitempty"`
	PenaltyPoints     *uint16 `json:"penalty_points,omitempty"`
}

// Apply 校验并写入 cfg；任一字段非法时 cfg 不变
func (u Update) Apply(cfg *Config) error {
	if u.WebPort != nil && *u.WebPort == 0 {
		return fmt.Errorf("%w: web_port must be non-zero", ErrInvalidUpdate)
	}
	if u.ScoreboardAddress != nil {
		if _, _, err := net.SplitHostPort(*u.ScoreboardAddress); err != nil {
			return fmt.Errorf("%w: scoreboard_address: %v", ErrInvalidUpdate, err)
		}
	}

	if u.WebPort != nil {
		host, _, err := net.SplitHostPort(cfg.HTTP.Addr)
		if err != nil {
			host = ""
		}
		cfg.HTTP.Addr = net.JoinHostPort(host, strconv.Itoa(int(*u.WebPort)))
	}
	if u.SimulationMode != nil {
		cfg.Server.SimulationMode = *u.SimulationMode
	}
	if u.ScoreboardAddress != nil {
		cfg.Scoreboard.Address = *u.ScoreboardAddress
	}
	if u.CardID != nil {
		cfg.Scoreboard.CardID = *u.CardID
	}
	if u.TryPoints != nil {
		cfg.Rugby.TryPoints = *u.TryPoints
	}
	if u.ConversionPoints != nil {
		cfg.Rugby.ConversionPoints = *u.ConversionPoints
	}
	if u.PenaltyPoints != nil {
		cfg.Rugby.PenaltyPoints = *u.PenaltyPoints
	}
	return nil
}

// View GET /api/config 返回的有效配置
type View struct {
	WebPort           string      `json:"web_port"`
	SimulationMode    bool        `json:"simulation_mode"`
	ScoreboardAddress string      `json:"scoreboard_address"`
	CardID            uint8       `json:"card_id"`
	Rugby             RugbyConfig `json:"rugby"`
	Path              string      `json:"path"`
}

// View 生成对外展示的配置视图
func (c *Config) View() View {
	_, port, err := net.SplitHostPort(c.HTTP.Addr)
	if err != nil {
		port = c.HTTP.Addr
	}
	return View{
		WebPort:           port,
		SimulationMode:    c.Server.SimulationMode,
		ScoreboardAddress: c.Scoreboard.Address,
		CardID:            c.Scoreboard.CardID,
		Rugby:             c.Rugby,
		Path:              c.Path(),
	}
}
