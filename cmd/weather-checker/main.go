package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/weather-checker/internal/api/http"
	"github.com/i474232898/weather-checker/internal/checker"
	"github.com/i474232898/weather-checker/internal/config"
	"github.com/i474232898/weather-checker/internal/scheduler"
	"github.com/i474232898/weather-checker/internal/store"
)

const appName = "weather-checker"

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [run|serve]\n\n", appName)
	fmt.Fprintln(os.Stderr, "  run    resolve the location, fetch the forecast and print the report (default)")
	fmt.Fprintln(os.Stderr, "  serve  run the checker periodically and serve the results over HTTP")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	mode := flag.Arg(0)
	if mode == "" {
		mode = "run"
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	comps, err := build(cfg)
	if err != nil {
		log.Fatalf("failed to set up checker: %v", err)
	}

	code := 0
	switch mode {
	case "run":
		code = runOnce(comps)
	case "serve":
		serve(cfg, comps)
	default:
		usage()
		code = 2
	}

	closeLogged("checker", comps.checker)
	os.Exit(code)
}

func closeLogged(name string, c io.Closer) {
	if err := c.Close(); err != nil {
		log.Printf("error closing %s: %v", name, err)
	}
}

func runOnce(comps *components) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	comps.checker.OnProgress(func(percent int) {
		renderProgress(os.Stderr, percent)
	})

	result, err := comps.checker.Run(ctx, "", &checker.TreeParameters{NodeID: appName}, &checker.TreeEvent{Name: "cli", Occurred: time.Now().UTC()})
	if err != nil {
		renderError(os.Stderr, err)
		return 1
	}
	renderReport(os.Stdout, result, comps.checker.ResultObject())
	return 0
}

func serve(cfg *config.AppConfig, comps *components) {
	// In-memory store with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	// Scheduler that periodically runs the checker and stores the result.
	sched := scheduler.New(comps.checker, memStore, cfg.CheckInterval)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := httpapi.NewApp(appName)

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	httpapi.RegisterRoutes(app, appName, httpapi.Deps{
		Store:      memStore,
		Trigger:    sched,
		Forecaster: comps.service,
	})

	go func() {
		log.Printf("INFO: listening on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
