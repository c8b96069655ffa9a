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
	"github.com/upseller/upseller/internal/biz/usecase"
	"github.com/upseller/upseller/internal/conf"
	"github.com/upseller/upseller/internal/data"
	"github.com/upseller/upseller/internal/logger"
	"github.com/upseller/upseller/internal/metrics"
	"github.com/upseller/upseller/llm"
)

func main() {
	log := logger.New("messenger")

	cfg, err := conf.LoadMessenger()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	var llmClient *llm.Client
	if cfg.OpenAIAPIKey != "" {
		llmClient = llm.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
		log.Info().Msg("text generator enabled")
	} else {
		log.Info().Msg("no OpenAI API key, using rule-based replies only")
	}

	repos := data.NewMessengerRepositories(llmClient, log)
	m := metrics.NewMetrics()

	classifier := usecase.NewClassifierUsecase()
	negotiation := usecase.NewNegotiationUsecase(repos.Generator, nil, log, m)

	router := mux.NewRouter()
	api.NewMessengerHandler(classifier, negotiation, repos.Outbound, log).Register(router)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Msg("messenger service listening")
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
