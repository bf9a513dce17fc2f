package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taoyao-code/scoreboard-server/internal/cardsim"
	"github.com/taoyao-code/scoreboard-server/internal/config"
	"github.com/taoyao-code/scoreboard-server/internal/logging"
	"github.com/taoyao-code/scoreboard-server/internal/protocol/cpower"
)

var (
	listenAddr string
	silent     bool
)

var emulateCmd = &cobra.Command{
	Use:   "emulate",
	Short: "Run a fake control card that answers every frame",
	Long: `Run a CPower control card emulator for bench testing without hardware.

Point the server's scoreboard.address at the emulator. Every received frame is
logged; --silent drops responses to exercise the server's read timeout path.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		log, err := logging.InitLogger(config.LoggingConfig{Level: "info", Format: "console"})
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		srv := cardsim.New(cardsim.Config{Addr: listenAddr, CardID: cardID, Silent: silent}, log)
		srv.SetHandler(func(f *cpower.Frame) {
			if len(f.Payload) > 0 {
				log.Info("command", zap.String("code", cpowerName(f.Payload[0])), zap.Int("bytes", len(f.Payload)))
			}
		})
		if err := srv.Start(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	emulateCmd.Flags().StringVarP(&listenAddr, "listen", "l", ":5200", "Listen address")
	emulateCmd.Flags().BoolVar(&silent, "silent", false, "Never answer frames")
	rootCmd.AddCommand(emulateCmd)
}

func cpowerName(code uint8) string {
	switch code {
	case 0x2D:
		return "restart"
	case 0x46:
		return "brightness"
	case 0x47:
		return "time"
	case 0x4B:
		return "version"
	case 0x76:
		return "power"
	case 0x7B:
		return "display"
	default:
		return "unknown"
	}
}
