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

	"github.com/upseller/upseller/internal/api"
	"github.com/upseller/upseller/internal/biz/domain"
	"github.com/upseller/upseller/internal/biz/usecase"
	"github.com/upseller/upseller/internal/conf"
	"github.com/upseller/upseller/internal/data"
	"github.com/upseller/upseller/internal/logger"
	"github.com/upseller/upseller/internal/metrics"
)

func main() {
	log := logger.New("master")

	cfg, err := conf.LoadMaster()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	state := data.NewAppState(domain.Mode(cfg.Mode))
	repos := data.NewMasterRepositories(cfg.MessengerBaseURL, cfg.CalendarBaseURL)
	m := metrics.NewMetrics()

	orchestrator := usecase.NewOrchestratorUsecase(
		repos.Conversations,
		state.Listings(),
		repos.Messenger,
		repos.Scheduler,
		nil,
		log,
		m,
	)

	router := mux.NewRouter()
	api.NewMasterHandler(state, orchestrator, repos.Conversations, log).Register(router)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Str("mode", cfg.Mode).Msg("master service listening")
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
