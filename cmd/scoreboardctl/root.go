package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taoyao-code/scoreboard-server/internal/config"
	"github.com/taoyao-code/scoreboard-server/internal/logging"
	"github.com/taoyao-code/scoreboard-server/internal/protocol/cpower"
	"github.com/taoyao-code/scoreboard-server/internal/transport"
)

var (
	address string
	cardID  uint8
	timeout time.Duration
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "scoreboardctl",
	Short: "CPower control card bench tool",
	Long: `scoreboardctl sends single commands to a CPower LED control card.

Useful on the bench to check wiring, card id and window layout without
starting the full scoreboard server.

  scoreboardctl --addr 192.168.1.100:5200 version
  scoreboardctl text 1 "LIONS" --color green`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&address, "addr", "a", "192.168.1.100:5200", "Control card address host:port")
	rootCmd.PersistentFlags().Uint8VarP(&cardID, "card", "c", 1, "Control card id")
	rootCmd.PersistentFlags().DurationVarP(&timeout, "timeout", "t", 10*time.Second, "Overall command timeout")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
}

// send 连接、发送一条命令并打印应答
func send(cmd *cobra.Command, command cpower.Command) error {
	level := "warn"
	if verbose {
		level = "debug"
	}
	log, err := logging.InitLogger(config.LoggingConfig{Level: level, Format: "console"})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	client := transport.NewClient(address, transport.Options{CardID: cardID, Logger: log})
	if err := client.Connect(ctx); err != nil {
		return err
	}
	defer client.Disconnect()

	resp, err := client.SendCommand(ctx, command)
	if err != nil {
		return err
	}
	if resp == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: sent, no response\n", command.Kind())
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: response % X\n", command.Kind(), resp)
	log.Debug("response", zap.Int("bytes", len(resp)))
	return nil
}
