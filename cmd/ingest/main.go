package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/genai"

	"github.com/RichardKnop/petrag"
	"github.com/RichardKnop/petrag/internal/wiring"
)

func main() {
	var (
		path      = flag.String("file", "knowledge.json", "JSON array of {id, content, metadata} records")
		batchSize = flag.Int("batch", petrag.DefaultIngestBatchSize, "documents per embedding call")
	)
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := wiring.LoadConfig(); err != nil {
		log.Fatal("fatal error config file: ", err)
	}

	logger, err := wiring.NewLogger()
	if err != nil {
		log.Fatal("logger: ", err)
	}
	defer func() { _ = logger.Sync() }()

	genaiClient, err := genai.NewClient(ctx, nil)
	if err != nil {
		logger.Sugar().With("error", err).Fatal("genai client")
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

	f, err := os.Open(*path)
	if err != nil {
		logger.Sugar().With("error", err, "file", *path).Fatal("open knowledge base")
	}
	defer f.Close()

	documents, err := petrag.ReadDocuments(f)
	if err != nil {
		logger.Sugar().With("error", err, "file", *path).Fatal("read knowledge base")
	}

	svc := petrag.New(embedder, index, nil, petrag.WithLogger(logger))

	saved, err := svc.Ingest(ctx, documents, *batchSize)
	if err != nil {
		logger.Sugar().With("error", err, "saved", saved).Error("ingestion failed")
		return
	}

	logger.Sugar().With("saved", saved, "read", len(documents)).Info("ingestion complete")
}
