package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFrom(t *testing.T, content string) *Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scoreboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	cfg := loadFrom(t, "app:\n  name: test\n")

	assert.Equal(t, "test", cfg.App.Name)
	assert.Equal(t, ":3030", cfg.HTTP.Addr)
	assert.Equal(t, "192.168.1.100:5200", cfg.Scoreboard.Address)
	assert.Equal(t, uint8(1), cfg.Scoreboard.CardID)
	assert.Equal(t, 10*time.Second, cfg.Scoreboard.ConnectTimeout)
	assert.Equal(t, 5*time.Second, cfg.Scoreboard.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Scoreboard.KeepAliveInterval)
	assert.Equal(t, 60*time.Second, cfg.Scoreboard.ReconnectMax)
	assert.False(t, cfg.Server.SimulationMode)

	assert.Equal(t, RugbyConfig{
		TryPoints:         5,
		ConversionPoints:  2,
		PenaltyPoints:     3,
		FirstHalfMinutes:  40,
		SecondHalfMinutes: 40,
	}, cfg.Rugby)
}

func TestLoad_FileValues(t *testing.T) {
	cfg := loadFrom(t, `
scoreboard:
  address: 10.0.0.5:5200
  cardId: 7
rugby:
  tryPoints: 4
redis:
  enabled: true
  snapshotTTL: 2h
`)
	assert.Equal(t, "10.0.0.5:5200", cfg.Scoreboard.Address)
	assert.Equal(t, uint8(7), cfg.Scoreboard.CardID)
	assert.Equal(t, uint16(4), cfg.Rugby.TryPoints)
	assert.Equal(t, uint16(2), cfg.Rugby.ConversionPoints)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 2*time.Hour, cfg.Redis.SnapshotTTL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SCOREBOARD_ADDRESS", "172.16.0.9:5200")
	t.Setenv("CARD_ID", "3")
	t.Setenv("SIMULATION_MODE", "true")
	t.Setenv("WEB_PORT", "8080")

	cfg := loadFrom(t, "app:\n  name: env\n")

	assert.Equal(t, "172.16.0.9:5200", cfg.Scoreboard.Address)
	assert.Equal(t, uint8(3), cfg.Scoreboard.CardID)
	assert.True(t, cfg.Server.SimulationMode)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SCOREBOARD_CONFIG", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPath, cfg.Path())
	assert.Equal(t, uint16(5), cfg.Rugby.TryPoints)
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := loadFrom(t, "app:\n  name: roundtrip\n")
	cfg.Rugby.TryPoints = 6
	cfg.Scoreboard.Address = "192.168.1.50:5200"

	out := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(t, cfg.Save(out))

	again, err := Load(out)
	require.NoError(t, err)
	assert.Equal(t, uint16(6), again.Rugby.TryPoints)
	assert.Equal(t, "192.168.1.50:5200", again.Scoreboard.Address)
	assert.Equal(t, cfg.Scoreboard.KeepAliveInterval, again.Scoreboard.KeepAliveInterval)
	assert.Equal(t, out, again.Path())
}

func TestUpdateApply(t *testing.T) {
	t.Run("部分字段", func(t *testing.T) {
		cfg := &Config{HTTP: HTTPConfig{Addr: ":3030"}, Rugby: RugbyConfig{TryPoints: 5, PenaltyPoints: 3}}
		port := uint16(8081)
		try := uint16(4)
		sim := true

		require.NoError(t, Update{WebPort: &port, TryPoints: &try, SimulationMode: &sim}.Apply(cfg))
		assert.Equal(t, ":8081", cfg.HTTP.Addr)
		assert.Equal(t, uint16(4), cfg.Rugby.TryPoints)
		assert.Equal(t, uint16(3), cfg.Rugby.PenaltyPoints)
		assert.True(t, cfg.Server.SimulationMode)
		assert.Equal(t, "8081", cfg.View().WebPort)
	})

	t.Run("非法地址不修改", func(t *testing.T) {
		cfg := &Config{Scoreboard: ScoreboardConfig{Address: "192.168.1.100:5200", CardID: 1}}
		addr := "no-port"
		id := uint8(9)

		err := Update{ScoreboardAddress: &addr, CardID: &id}.Apply(cfg)
		assert.ErrorIs(t, err, ErrInvalidUpdate)
		assert.Equal(t, "192.168.1.100:5200", cfg.Scoreboard.Address)
		assert.Equal(t, uint8(1), cfg.Scoreboard.CardID)
	})
}
