// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/suryansh00001/AI-Search/internal/config"
	"github.com/suryansh00001/AI-Search/internal/domain/ports/adapter"
	aiAdapters "github.com/suryansh00001/AI-Search/internal/infra/adapters/ai"
	docAdapters "github.com/suryansh00001/AI-Search/internal/infra/adapters/document"
	searchAdapters "github.com/suryansh00001/AI-Search/internal/infra/adapters/search"
	"github.com/suryansh00001/AI-Search/internal/infra/api"
	"github.com/suryansh00001/AI-Search/internal/infra/logging"
	"github.com/suryansh00001/AI-Search/internal/infra/metrics"
	"github.com/suryansh00001/AI-Search/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (canned AI responses allowed)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Runtime.Dev {
		log.Printf("[DEV MODE] Enabled")
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- AI adapter (Gemini -> OpenAI -> noop in dev) ----
	var gen adapter.GenerationAdapter
	switch {
	case cfg.AI.GeminiKey != "":
		gen, err = aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.Model, cfg.AI.MaxTokens, cfg.AI.Temperature)
		if err != nil {
			log.Fatalf("gemini adapter: %v", err)
		}
		logger.Info().Str("provider", "gemini").Str("model", cfg.AI.Model).Msg("generation adapter ready")
	case cfg.AI.OpenAIKey != "":
		gen, err = aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.OpenAIBaseURL, cfg.AI.Model, cfg.AI.MaxTokens, cfg.AI.Temperature)
		if err != nil {
			log.Fatalf("openai adapter: %v", err)
		}
		logger.Info().Str("provider", "openai").Str("model", cfg.AI.Model).Msg("generation adapter ready")
	case cfg.Runtime.Dev:
		gen = aiAdapters.NewNoopAI()
		logger.Warn().Msg("no AI provider configured; using canned responses")
	default:
		log.Fatalf("no AI provider configured: set ai.gemini_key or ai.openai_key in %s", *cfgPath)
	}
	gen = aiAdapters.NewLimitedAI(gen, cfg.AI.ConcurrentLimit)
	gen = aiAdapters.NewRetryAI(gen, cfg.AI.MaxRetries, logger)

	// ---- Search ----
	var search adapter.SearchAdapter = searchAdapters.NewTavilyAdapter(cfg.Search.TavilyKey)
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Msg("redis unreachable; search cache disabled")
		} else {
			search = searchAdapters.NewCachedSearch(search, client, cfg.Search.CacheTTL, logger)
			defer client.Close()
		}
	}

	// ---- Documents ----
	docs := docAdapters.NewPDFAdapter(cfg.PDF.MaxChars)

	// ---- Pipeline + queue ----
	responder := usecase.NewResponder(search, docs, gen, cfg.Search.MaxResults, logger)
	queue := usecase.NewQueueManager(ctx, responder, cfg.Queue, logger)

	// ---- HTTP server ----
	srv := api.NewServer(queue, responder, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Routes(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
