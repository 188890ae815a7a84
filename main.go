package main

import (
	"EligibilityBot/config"
	"EligibilityBot/content"
	"EligibilityBot/handler"
	"EligibilityBot/logging"
	"EligibilityBot/metrics"
	"EligibilityBot/repo"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading configuration")
	}
	if err := cfg.RequireBot(); err != nil {
		log.Fatal().Err(err).Msg("Error loading configuration")
	}

	logger, err := logging.New(cfg.Log, os.Stdout)
	if err != nil {
		log.Fatal().Err(err).Msg("Error configuring logger")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	catalog, err := content.Load(cfg.ContentPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Error loading content catalog")
	}

	submitter, err := repo.NewSubmitter(ctx, cfg.Submission, logger.With().Str("component", "submitter").Logger())
	if err != nil {
		logger.Fatal().Err(err).Msg("Error initializing submission backend")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	h := handler.NewEligibilityBotHandler(submitter, catalog, m, logger.With().Str("component", "bot").Logger())

	opts := []bot.Option{
		bot.WithDefaultHandler(h.Handler),
	}

	b, err := bot.New(cfg.TelegramBotToken, opts...)
	if err != nil {
		logger.Fatal().Err(err).Msg("error creating bot")
	}
	h.Register(b)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("backend", cfg.Submission.Backend).Msg("Bot started")
		b.Start(ctx)
		return nil
	})
	g.Go(func() error {
		h.RunPruner(ctx, max(cfg.SessionIdleTimeout/4, time.Second), cfg.SessionIdleTimeout)
		return nil
	})
	if cfg.MetricsAddr != "" {
		srv := metrics.NewServer(cfg.MetricsAddr, metrics.NewRouter(reg))
		g.Go(func() error {
			logger.Info().Str("addr", cfg.MetricsAddr).Msg("Metrics server listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("shutdown with error")
	}
	logger.Info().Msg("Bot stopped")
}
