package main

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/app"
	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/config"
	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/logging"
	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/services"
)

var (
	enrichment *services.EnrichmentService
	logger     *zap.Logger
)

func init() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.ValidateEnrichment(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger, err = logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}

	application, err := app.New(context.Background(), cfg, logger, app.Options{})
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	enrichment = application.Enrichment
}

// handler runs one job. Jobs arrive through async invokes, so returning an
// error only makes Lambda retry the lead; per-lead failures are recorded on
// the lead itself and are not returned.
func handler(ctx context.Context, job services.EnrichmentJob) (*services.EnrichResponse, error) {
	logger.Info("Processing enrichment job",
		zap.String("lead_id", job.LeadID),
		zap.String("trigger_type", job.TriggerType))

	resp, err := enrichment.EnrichLead(ctx, job.UserID, services.EnrichRequest{
		LeadID:      job.LeadID,
		CompanyName: job.CompanyName,
	})
	if err != nil {
		return nil, fmt.Errorf("enrichment job for lead %s: %w", job.LeadID, err)
	}
	return resp, nil
}

func main() {
	lambda.Start(handler)
}
