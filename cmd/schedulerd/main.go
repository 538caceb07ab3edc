// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shiftforge/scheduler/internal/rpc"
	"github.com/shiftforge/scheduler/internal/store"
	"github.com/shiftforge/scheduler/pkg/config"
	schedcontext "github.com/shiftforge/scheduler/pkg/context"
	"github.com/shiftforge/scheduler/pkg/logging"
	"github.com/shiftforge/scheduler/pkg/metrics"
)

var (
	Version   = "dev"
	BuildTime = ""
	Commit    = ""

	usersPath string
	slotsPath string
	tasksPath string
	outputPath string
	logLevel  string
	logFormat string

	rootCmd = &cobra.Command{
		Use:     "schedulerd [address]",
		Short:   "workforce scheduling RPC server",
		Long:    `schedulerd serves the scheduling RPC surface over HTTP: Domain Store mutation, scheduling runs, and push streams.`,
		Version: Version,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runServer,
	}
)

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime)

	rootCmd.Flags().StringVarP(&usersPath, "users", "u", "", "path to user data file (env: SCHEDULER_USERS_PATH)")
	rootCmd.Flags().StringVarP(&slotsPath, "slots", "s", "", "path to timeslot data file (env: SCHEDULER_SLOTS_PATH)")
	rootCmd.Flags().StringVarP(&tasksPath, "tasks", "t", "", "path to task data file (env: SCHEDULER_TASKS_PATH)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "path a completed schedule is written to (env: SCHEDULER_OUTPUT_PATH)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "debug, info, warn, or error")
	rootCmd.Flags().StringVar(&logFormat, "log-format", "", "text or json")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg := config.NewDefault()
	if len(args) == 1 {
		cfg.ListenAddr = args[0]
	}
	if usersPath != "" {
		cfg.UsersPath = usersPath
	}
	if slotsPath != "" {
		cfg.SlotsPath = slotsPath
	}
	if tasksPath != "" {
		cfg.TasksPath = tasksPath
	}
	if outputPath != "" {
		cfg.OutputPath = outputPath
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.NewLogger(&logging.Config{
		Level:   parseLevel(cfg.LogLevel),
		Format:  parseFormat(cfg.LogFormat),
		Output:  os.Stdout,
		Version: Version,
	})

	st := store.New(logger)

	if cfg.UsersPath != "" {
		if err := st.LoadUsers(cfg.UsersPath); err != nil {
			return newLoadError("user", cfg.UsersPath, err)
		}
	}
	if cfg.SlotsPath != "" {
		if err := st.LoadSlots(cfg.SlotsPath); err != nil {
			return newLoadError("slot", cfg.SlotsPath, err)
		}
	}
	if cfg.TasksPath != "" {
		if err := st.LoadTasks(cfg.TasksPath); err != nil {
			return newLoadError("task", cfg.TasksPath, err)
		}
	}

	timeouts := schedcontext.DefaultTimeoutConfig()
	timeouts.Default = cfg.RequestTimeout

	server := rpc.NewServer(cfg.ListenAddr, st, logger, metrics.NewInMemoryCollector(), timeouts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("server: listening", "addr", cfg.ListenAddr)
	err := server.ListenAndServe(ctx)
	logger.Info("server: closed")

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseFormat(format string) logging.Format {
	if format == "json" {
		return logging.FormatJSON
	}
	return logging.FormatText
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
