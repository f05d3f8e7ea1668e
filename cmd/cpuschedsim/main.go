package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/khryptorgraphics/cpuschedsim/internal/config"
	"github.com/khryptorgraphics/cpuschedsim/pkg/api"
	"github.com/khryptorgraphics/cpuschedsim/pkg/cache"
	"github.com/khryptorgraphics/cpuschedsim/pkg/scheduler"
	"github.com/khryptorgraphics/cpuschedsim/pkg/store"
	"github.com/khryptorgraphics/cpuschedsim/pkg/types"
)

var (
	version = "dev"
	rootCmd *cobra.Command
)

func main() {
	rootCmd = &cobra.Command{
		Use:     "cpuschedsim",
		Short:   "Event-driven CPU scheduling simulator",
		Long:    "Simulates FCFS, Rate-Monotonic, EDF, and Cycle-Conservative EDF task scheduling and emits the resulting execution trace.",
		Version: version,
		Example: `  # Run a single task set from a file and print its trace
  cpuschedsim run --file taskset.yaml

  # Start the HTTP service
  cpuschedsim serve`,
	}

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("error executing command: %v", err)
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one task set and print its trace",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(file)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "path to a YAML or JSON task set definition")
	cmd.MarkFlagRequired("file")

	return cmd
}

func runOnce(file string) error {
	raw, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read task set: %w", err)
	}

	var input types.TaskInfo
	if err := yaml.Unmarshal(raw, &input); err != nil {
		return fmt.Errorf("failed to parse task set: %w", err)
	}

	trace, info, err := scheduler.Compute(input)
	if err != nil {
		return fmt.Errorf("compute failed: %w", err)
	}

	out := struct {
		Trace types.Trace `json:"trace"`
		Info  types.Info  `json:"info"`
	}{Trace: trace, Info: info}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP scheduling service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	logger.Info("starting cpuschedsim service")

	cfg := config.LoadConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := store.Open(ctx, cfg.Store, logger)
	if err != nil {
		logger.Warn("run history disabled: failed to connect to postgres", "error", err)
		st = nil
	} else {
		defer st.Close()
	}

	ch, err := cache.Open(ctx, cfg.Store, logger)
	if err != nil {
		logger.Warn("result cache disabled: failed to connect to redis", "error", err)
		ch = nil
	} else {
		defer ch.Close()
	}

	srv, err := api.NewServer(cfg, st, ch, logger)
	if err != nil {
		return fmt.Errorf("failed to create API server: %w", err)
	}

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	select {
	case <-signalChan:
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	return srv.Stop(shutdownCtx)
}
