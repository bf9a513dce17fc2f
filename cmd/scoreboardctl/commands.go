package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taoyao-code/scoreboard-server/internal/protocol/cpower"
)

var textColor string

var colors = map[string]cpower.Color{
	"red":   cpower.Red,
	"green": cpower.Green,
	"blue":  cpower.Blue,
	"white": cpower.White,
}

func init() {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Query card firmware version (also a link check)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return send(cmd, cpower.QueryVersion{})
		},
	}

	timeCmd := &cobra.Command{Use: "time", Short: "Card clock control"}
	timeCmd.AddCommand(
		&cobra.Command{
			Use:   "set HH:MM:SS",
			Short: "Set card clock",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ts, err := parseClock(args[0])
				if err != nil {
					return err
				}
				return send(cmd, cpower.TimeControl{Time: ts})
			},
		},
		&cobra.Command{
			Use:   "start",
			Short: "Start card clock",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return send(cmd, cpower.TimeControl{Time: cpower.TimeStartStop{Start: true}})
			},
		},
		&cobra.Command{
			Use:   "stop",
			Short: "Stop card clock",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return send(cmd, cpower.TimeControl{Time: cpower.TimeStartStop{Start: false}})
			},
		},
		&cobra.Command{
			Use:   "query",
			Short: "Read card clock",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return send(cmd, cpower.TimeControl{Time: cpower.TimeQuery{}})
			},
		},
	)

	powerCmd := &cobra.Command{
		Use:       "power on|off|query",
		Short:     "Screen power control",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off", "query"},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "query":
				return send(cmd, cpower.PowerControl{Query: true})
			case "on", "off":
				on := args[0] == "on"
				return send(cmd, cpower.PowerControl{PowerOn: &on})
			default:
				return fmt.Errorf("unknown power action %q", args[0])
			}
		},
	}

	restartCmd := &cobra.Command{
		Use:   "restart",
		Short: "Restart card hardware",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return send(cmd, cpower.RestartHardware{})
		},
	}

	windowsCmd := &cobra.Command{
		Use:   "windows",
		Short: "Create the standard five-window scoreboard layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return send(cmd, cpower.DisplayMessage{Display: cpower.CreateWindows{Windows: cpower.StandardLayout().Windows()}})
		},
	}

	textCmd := &cobra.Command{
		Use:   "text WINDOW TEXT",
		Short: "Send plain text to a window",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseWindow(args[0])
			if err != nil {
				return err
			}
			color, ok := colors[strings.ToLower(textColor)]
			if !ok {
				return fmt.Errorf("unknown color %q", textColor)
			}
			return send(cmd, cpower.DisplayMessage{Display: cpower.SendPureText{WindowID: id, Text: args[1], Color: color}})
		},
	}
	textCmd.Flags().StringVar(&textColor, "color", "white", "Text color: red, green, blue, white")

	clockCmd := &cobra.Command{
		Use:   "clock WINDOW",
		Short: "Show the card clock in a window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseWindow(args[0])
			if err != nil {
				return err
			}
			return send(cmd, cpower.DisplayMessage{Display: cpower.DisplayTime{WindowID: id}})
		},
	}

	rootCmd.AddCommand(versionCmd, timeCmd, powerCmd, restartCmd, windowsCmd, textCmd, clockCmd)
}

// parseClock 解析 HH:MM:SS 或 MM:SS
func parseClock(s string) (cpower.TimeSet, error) {
	parts := strings.Split(s, ":")
	if len(parts) == 2 {
		parts = append([]string{"0"}, parts...)
	}
	if len(parts) != 3 {
		return cpower.TimeSet{}, fmt.Errorf("invalid time %q, want HH:MM:SS", s)
	}
	var v [3]uint8
	limits := [3]uint64{23, 59, 59}
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 8)
		if err != nil || n > limits[i] {
			return cpower.TimeSet{}, fmt.Errorf("invalid time %q, want HH:MM:SS", s)
		}
		v[i] = uint8(n)
	}
	return cpower.TimeSet{Hours: v[0], Minutes: v[1], Seconds: v[2]}, nil
}

func parseWindow(s string) (uint8, error) {
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil || n > uint64(cpower.WindowTimer) {
		return 0, fmt.Errorf("invalid window %q, want 0-%d", s, cpower.WindowTimer)
	}
	return uint8(n), nil
}
