package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/abhisek/phonix/internal/app"
	"github.com/abhisek/phonix/internal/logging"
	"github.com/abhisek/phonix/internal/remote"
	"github.com/abhisek/phonix/internal/render"
	"github.com/abhisek/phonix/internal/screens/trainer"
	"github.com/abhisek/phonix/internal/session"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	level, err := resolveLevel(cmd)
	if err != nil {
		return err
	}

	st, dbPath, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	logFile, err := logging.OpenFile(logging.PathNear(dbPath))
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := logging.Setup(logFile, logging.Options{Level: level, NoColor: true, TimeFormat: time.RFC3339})

	remoteCfg := remote.ConfigFromEnv()
	if s, _ := cmd.Flags().GetString("server"); s != "" {
		remoteCfg.BaseURL = s
	}
	logger.Info("starting trainer", "server", remoteCfg.BaseURL, "db", dbPath)

	if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
		stop := serveMetrics(addr, logger)
		defer stop()
	}

	eventRepo := st.EventRepo()
	caller := remote.WithLogging(remote.NewHTTPCaller(remoteCfg), eventRepo, logger)
	svc := remote.NewService(caller)
	submitter := remote.NewSubmitter(caller)
	sessCfg := session.ConfigFromEnv()

	run := func(ctx context.Context, ui *trainer.Bridge, in render.Input) error {
		o := session.New(session.Deps{
			Service:   svc,
			Submitter: submitter,
			UI:        ui,
			Input:     in,
			Events:    eventRepo,
			Logger:    logger,
			Config:    sessCfg,
			OnStage:   func(s session.Stage) { ui.Stage(s.Title()) },
		})
		err := o.Run(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("session ended", "error", err, "stage", o.Stage().String())
		}
		return err
	}

	noSplash, _ := cmd.Flags().GetBool("no-splash")
	return app.Run(app.Options{
		Trainer:    run,
		StatsRepo:  st.StatsRepo(),
		Server:     remoteCfg.BaseURL,
		SkipSplash: noSplash,
	})
}

// serveMetrics exposes the default Prometheus registry on addr until the
// returned stop func is called.
func serveMetrics(addr string, logger *slog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server stopped", "addr", addr, "error", err)
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("metrics server shutdown", "error", err)
		}
	}
}
