package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/api"
	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/app"
	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/config"
	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/logging"
)

var handler *api.Handler

func init() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}

	application, err := app.New(context.Background(), cfg, logger, app.Options{})
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}

	handler = api.NewHandler(
		application.Ingestion,
		application.Enrichment,
		application.Dispatcher,
		logger.Named("api"),
	)
}

func main() {
	lambda.Start(handler.HandleAPIGateway)
}
