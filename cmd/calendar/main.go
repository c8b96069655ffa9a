package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/upseller/upseller/gcal"
	"github.com/upseller/upseller/internal/api"
	"github.com/upseller/upseller/internal/biz/usecase"
	"github.com/upseller/upseller/internal/conf"
	"github.com/upseller/upseller/internal/data"
	"github.com/upseller/upseller/internal/logger"
	"github.com/upseller/upseller/internal/metrics"
)

func main() {
	log := logger.New("calendar")

	cfg, err := conf.LoadCalendar()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	repos, err := data.NewCalendarRepositories(cfg.AppointmentsDBPath, cfg.TokensDBPath, func(tokens gcal.TokenSource) *gcal.Client {
		return gcal.NewClient(cfg.GoogleAPIBaseURL, cfg.GoogleCalendarID, cfg.GoogleClientID, cfg.GoogleRedirectURI, tokens)
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open repositories")
	}

	invites, err := data.NewICSWriter(cfg.ICSDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to prepare ics directory")
	}

	m := metrics.NewMetrics()
	slots := usecase.NewSlotSuggesterUsecase(nil)
	confirmer := usecase.NewConfirmerUsecase(repos.Calendar, repos.Appointments, invites, log, m)
	exchanger := gcal.NewExchanger(cfg.GoogleTokenURL, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI)

	router := mux.NewRouter()
	api.NewCalendarHandler(slots, confirmer, repos.Calendar, repos.Appointments, repos.Tokens, exchanger, cfg.ICSDir, log).Register(router)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Msg("calendar service listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}
