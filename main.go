package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/pam-ai/pamgate/internal/app"
	"github.com/pam-ai/pamgate/internal/env"
	"github.com/pam-ai/pamgate/internal/logger"
	"github.com/pam-ai/pamgate/internal/version"
	"github.com/pam-ai/pamgate/pkg/format"
	"github.com/pam-ai/pamgate/pkg/nerdstats"
)

func main() {
	startTime := time.Now()
	vlog := log.New(log.Writer(), "", 0)
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.PrintVersionInfo(true, vlog)
		os.Exit(0)
	}
	version.PrintVersionInfo(false, vlog)

	lcfg := buildLoggerConfig()
	logInstance, styledLogger, cleanup, err := logger.NewWithTheme(lcfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	slog.SetDefault(logInstance)

	styledLogger.Info("Initialising", "version", version.Version, "pid", os.Getpid())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(startTime, styledLogger)
	if err != nil {
		logger.FatalWithLogger(styledLogger, "Failed to create application", "error", err)
	}

	if err := application.Run(ctx); err != nil {
		styledLogger.Error("Server stopped with error", "error", err)
	}

	reportProcessStats(styledLogger, startTime)

	styledLogger.Info("pamgate has shutdown")
}

func reportProcessStats(logger logger.StyledLogger, startTime time.Time) {
	runtime.GC()

	stats := nerdstats.Snapshot(startTime)

	logger.Info("Process Memory Stats",
		"heap_alloc", format.Bytes(stats.HeapAlloc),
		"heap_sys", format.Bytes(stats.HeapSys),
		"heap_inuse", format.Bytes(stats.HeapInuse),
		"heap_released", format.Bytes(stats.HeapReleased),
		"stack_inuse", format.Bytes(stats.StackInuse),
		"total_alloc", format.Bytes(stats.TotalAlloc),
		"memory_pressure", stats.GetMemoryPressure(),
	)

	logger.Info("Process Allocation Stats",
		"total_mallocs", stats.Mallocs,
		"total_frees", stats.Frees,
		"net_objects", stats.NetObjects(),
	)

	if stats.NumGC > 0 {
		logger.Info("Garbage Collection Stats",
			"num_gc_cycles", stats.NumGC,
			"last_gc", stats.LastGC.Format(time.RFC3339),
			"total_gc_time", format.Duration(stats.TotalGCTime),
			"gc_cpu_fraction", fmt.Sprintf("%.4f%%", stats.GCCPUFraction*100),
		)
	}

	logger.Info("Goroutine Stats",
		"num_goroutines", stats.NumGoroutines,
		"goroutine_health", stats.GetGoroutineHealthStatus(),
		"num_cgo_calls", stats.NumCgoCall,
	)

	if buildInfo := stats.GetBuildInfoSummary(); len(buildInfo) > 0 {
		var buildArgs []any
		for key, value := range buildInfo {
			buildArgs = append(buildArgs, key, value)
		}
		logger.Info("Build Info", buildArgs...)
	}

	logger.Info("Process Health Summary",
		"memory_pressure", stats.GetMemoryPressure(),
		"goroutine_status", stats.GetGoroutineHealthStatus(),
		"uptime", format.Duration(stats.Uptime),
		"avg_gc_pause", stats.AverageGCPause(),
	)
}

// buildLoggerConfig reads the logger settings, these come from the
// environment because the logger exists before the config file is read
func buildLoggerConfig() *logger.Config {
	return &logger.Config{
		Level:      env.GetEnvOrDefault("PAMGATE_LOG_LEVEL", "info"),
		FileOutput: env.GetEnvBoolOrDefault("PAMGATE_FILE_OUTPUT", false),
		LogDir:     env.GetEnvOrDefault("PAMGATE_LOG_DIR", "./logs"),
		MaxSize:    env.GetEnvIntOrDefault("PAMGATE_MAX_SIZE", 100),
		MaxBackups: env.GetEnvIntOrDefault("PAMGATE_MAX_BACKUPS", 5),
		MaxAge:     env.GetEnvIntOrDefault("PAMGATE_MAX_AGE", 30),
		Theme:      env.GetEnvOrDefault("PAMGATE_THEME", "default"),
	}
}
