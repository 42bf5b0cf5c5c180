package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"outbreak/internal/app"
	"outbreak/internal/daylog"
	"outbreak/internal/driver"
	"outbreak/internal/outbreak"
	"outbreak/internal/report"
	"outbreak/internal/transport/observer"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	logger := log.New(os.Stderr, "outbreak: ", log.LstdFlags)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if cfg.Replay != "" {
		if err := replay(cfg, logger); err != nil {
			log.Fatalf("replay %s: %v", cfg.Replay, err)
		}
		return
	}

	runCfg, err := cfg.OutbreakConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	model, err := outbreak.New(runCfg)
	if err != nil {
		log.Fatalf("model: %v", err)
	}

	d := driver.New(model, driver.Options{Logger: logger, Interval: cfg.Interval, MaxDays: cfg.MaxDays})
	if !cfg.Quiet {
		d.Subscribe(newTable(os.Stdout))
	}

	var closers []func() error
	if cfg.DayLog != "" {
		w, err := daylog.Create(cfg.DayLog, daylog.HeaderFor(runCfg))
		if err != nil {
			log.Fatalf("day log: %v", err)
		}
		closers = append(closers, w.Close)
		d.Subscribe(w)
	}
	if cfg.Video != "" {
		v, err := report.NewVideo(cfg.Video, runCfg.Population, report.DefaultVideoOptions())
		if err != nil {
			log.Fatalf("video: %v", err)
		}
		closers = append(closers, v.Close)
		d.Subscribe(v)
	}

	var srv *http.Server
	if cfg.Serve != "" {
		hub := observer.NewHub(runCfg, 0)
		d.Subscribe(hub)
		srv = &http.Server{
			Addr:              cfg.Serve,
			Handler:           observer.NewServer(hub, logger).Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Printf("observer server: %v", err)
			}
		}()
		logger.Printf("observers: http://%s/observer/bootstrap", cfg.Serve)
	}

	sum, runErr := d.Run(ctx)
	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			logger.Printf("close: %v", err)
		}
	}
	if runErr != nil {
		log.Fatalf("run: %v (%d transitions pending)", runErr, model.PendingTransitions())
	}

	if err := writeExports(cfg, sum.Series, model, runCfg.Population); err != nil {
		log.Fatalf("export: %v", err)
	}
	printSummary(os.Stdout, sum)

	if srv != nil {
		logger.Printf("run finished; serving replays until interrupted")
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}

func writeExports(cfg *app.Config, series []outbreak.SeriesPoint, health report.HealthSource, n int) error {
	if cfg.Chart != "" {
		if err := writeFile(cfg.Chart, func(f *os.File) error {
			return report.WriteSeriesChart(f, series, report.DefaultChartSize)
		}); err != nil {
			return err
		}
	}
	if cfg.Snapshot != "" && health != nil {
		if err := writeFile(cfg.Snapshot, func(f *os.File) error {
			return report.WritePolarSnapshot(f, health, n, "Final state", 0)
		}); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
