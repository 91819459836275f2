package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/viper"
	"google.golang.org/genai"

	"github.com/RichardKnop/petrag"
	googlegenai "github.com/RichardKnop/petrag/adapter/google-genai"
	"github.com/RichardKnop/petrag/adapter/kakao"
	"github.com/RichardKnop/petrag/adapter/rest"
	"github.com/RichardKnop/petrag/adapter/store"
	"github.com/RichardKnop/petrag/adapter/tavily"
	"github.com/RichardKnop/petrag/api"
	"github.com/RichardKnop/petrag/internal/wiring"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := wiring.LoadConfig(); err != nil {
		log.Fatal("fatal error config file: ", err)
	}

	logger, err := wiring.NewLogger()
	if err != nil {
		log.Fatal("logger: ", err)
	}
	defer func() { _ = logger.Sync() }()

	// The client gets the API key from the environment variable `GEMINI_API_KEY`.
	genaiClient, err := genai.NewClient(ctx, nil)
	if err != nil {
		logger.Sugar().With("error", err).Fatal("genai client")
	}

	db, err := wiring.OpenDB(logger)
	if err != nil {
		logger.Sugar().With("error", err).Fatal("db")
	}
	defer db.Close()

	if err := store.Migrate(db); err != nil {
		logger.Sugar().With("error", err).Fatal("db migrate")
	}

	embedder, cleanup, err := wiring.NewEmbedder(genaiClient, logger)
	if err != nil {
		logger.Sugar().With("error", err).Fatal("embedder")
	}
	defer cleanup()

	index, err := wiring.NewVectorIndex(ctx, logger)
	if err != nil {
		logger.Sugar().With("error", err).Fatal("vector index")
	}

	lm, err := googlegenai.New(
		genaiClient,
		googlegenai.WithGenerativeModel(viper.GetString("adapter.generative.model")),
		googlegenai.WithThinkingBudget(viper.GetInt32("adapter.generative.thinking_budget")),
		googlegenai.WithLogger(logger),
	)
	if err != nil {
		logger.Sugar().With("error", err).Fatal("language model")
	}

	web, err := tavily.New(viper.GetString("tavily.api_key"), tavily.WithLogger(logger))
	if err != nil {
		logger.Sugar().With("error", err).Fatal("tavily adapter")
	}

	places, err := kakao.New(viper.GetString("kakao.api_key"), kakao.WithLogger(logger))
	if err != nil {
		logger.Sugar().With("error", err).Fatal("kakao adapter")
	}

	var (
		storeAdapter = store.New(db, store.WithLogger(logger))
		svc          = petrag.New(
			embedder,
			index,
			lm,
			petrag.WithConfig(wiring.PipelineConfig()),
			petrag.WithLogger(logger),
			petrag.WithWebSearcher(web),
			petrag.WithGeocoder(places),
			petrag.WithFacilitySearcher(places),
			petrag.WithStore(storeAdapter),
		)
		restAdapter = rest.New(svc, rest.WithLogger(logger))
		mux         = http.NewServeMux()
		h           = api.HandlerFromMux(restAdapter, mux)
		address     = net.JoinHostPort(viper.GetString("http.host"), viper.GetString("http.port"))
	)

	httpServer := &http.Server{
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
		Addr:              address,
		Handler:           h,
	}

	logger.Sugar().With("address", address).Info("listening")

	go func() {
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Sugar().With("error", err).Fatal("HTTP server error")
		}
		logger.Info("stopped serving new connections")
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	shutdownCtx, shutdownRelease := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownRelease()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().With("error", err).Error("HTTP shutdown error")
		return
	}
	logger.Info("graceful shutdown complete")
}
