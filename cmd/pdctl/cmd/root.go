package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/paintdev"
)

func NewRoot(ctx context.Context, gitsha string) *cobra.Command {
	var logFile io.Closer
	cmd := &cobra.Command{
		Use:           "pdctl",
		Short:         "a CLI to exercise precise and overlay paint device wrappers",
		Long:          "pdctl loads images into tiled paint devices and runs them through the precision and overlay wrappers.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if path, _ := cmd.Flags().GetString("config"); path != "" {
				cfg, err := loadConfig(path)
				if err != nil {
					return err
				}
				if err := applyConfig(cmd, cfg); err != nil {
					return err
				}
			}

			logLevel, _ := cmd.Flags().GetString("log-level")
			var level slog.Level
			levelErr := level.UnmarshalText([]byte(strings.ToUpper(logLevel)))
			if levelErr != nil {
				level = slog.LevelInfo
			}

			var logger *slog.Logger
			if path, _ := cmd.Flags().GetString("log-file"); path != "" {
				maxSize, _ := cmd.Flags().GetInt("log-max-size")
				w := newLogFile(path, maxSize)
				logFile = w
				logger = Logger(w, true, level)
			} else {
				logger = Logger(cmd.ErrOrStderr(), false, level)
			}
			slog.SetDefault(logger)
			paintdev.SetLogger(logger)

			if levelErr != nil {
				slog.WarnContext(ctx, "Invalid log level, defaulting to INFO", "level", logLevel, "error", levelErr)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logFile != nil {
				logFile.Close()
			}
		},
		Run: func(cmd *cobra.Command, args []string) {
			printCommandTree(cmd.OutOrStdout(), cmd, 0)
		},
	}
	cmd.AddCommand(
		NewVersionCmd(ctx, gitsha),
		NewRoundtripCmd(ctx),
		NewOverlayCmd(ctx),
	)
	pf := cmd.PersistentFlags()
	pf.String("log-level", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")
	pf.String("log-file", "", "write JSON logs to this file, rotated by size")
	pf.Int("log-max-size", 10, "log file size in megabytes before rotation")
	pf.String("config", "", "TOML file with flag defaults")
	return cmd
}

func printCommandTree(w io.Writer, cmd *cobra.Command, indent int) {
	fmt.Fprintln(w, strings.Repeat("\t", indent), cmd.Use+":", cmd.Short)
	for _, subCmd := range cmd.Commands() {
		printCommandTree(w, subCmd, indent+1)
	}
}

func NewVersionCmd(ctx context.Context, gitsha string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "git sha and library version for this build",
		Long:  "git sha and library version for this build",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), gitsha, paintdev.Version)
		},
	}
	return cmd
}
