package main

import (
	"errors"
	"flag"
	"io/fs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/taoyao-code/scoreboard-server/internal/app/bootstrap"
	cfgpkg "github.com/taoyao-code/scoreboard-server/internal/config"
	"github.com/taoyao-code/scoreboard-server/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径（默认 SCOREBOARD_CONFIG 或 configs/scoreboard.yaml）")
	flag.Parse()

	// 0) .env（可选）
	envErr := godotenv.Load()

	// 1) 加载配置
	cfg, err := cfgpkg.Load(*configPath)
	if err != nil {
		panic(err)
	}

	// 2) 初始化日志
	logger, err := logging.InitLogger(cfg.Logging)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)
	log := zap.L()

	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		log.Warn("load .env failed", zap.Error(envErr))
	}
	log.Info("config loaded", zap.String("path", cfg.Path()))

	// 3) 启动
	if err := bootstrap.Run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}
