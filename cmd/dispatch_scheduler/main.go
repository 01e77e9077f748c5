package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/app"
	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/config"
	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/logging"
	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/services"
)

// SchedulerEvent is the EventBridge rule payload
type SchedulerEvent struct {
	Source     string          `json:"source"`
	DetailType string          `json:"detail-type"`
	Detail     SchedulerDetail `json:"detail"`
}

// SchedulerDetail names the users whose pending leads should be enriched
type SchedulerDetail struct {
	UserIDs []string `json:"user_ids"`
	Limit   int      `json:"limit,omitempty"`
}

// SchedulerResponse represents the function response
type SchedulerResponse struct {
	Success        bool                                 `json:"success"`
	Message        string                               `json:"message"`
	ProcessingTime int64                                `json:"processing_time_ms"`
	Summaries      map[string]*services.DispatchSummary `json:"summaries"`
	Errors         []string                             `json:"errors,omitempty"`
}

var (
	dispatcher *services.Dispatcher
	logger     *zap.Logger
)

func init() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err = logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}

	application, err := app.New(context.Background(), cfg, logger, app.Options{})
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	dispatcher = application.Dispatcher
}

// HandleSchedulerEvent dispatches pending leads for every configured user
func HandleSchedulerEvent(ctx context.Context, event SchedulerEvent) (SchedulerResponse, error) {
	start := time.Now()
	limit := event.Detail.Limit
	if limit <= 0 {
		limit = 25
	}

	response := SchedulerResponse{
		Summaries: make(map[string]*services.DispatchSummary),
	}

	dispatched := 0
	for _, userID := range event.Detail.UserIDs {
		summary, err := dispatcher.DispatchPending(ctx, userID, limit)
		if err != nil {
			logger.Warn("Dispatch failed", zap.String("user_id", userID), zap.Error(err))
			response.Errors = append(response.Errors, fmt.Sprintf("%s: %v", userID, err))
			continue
		}
		response.Summaries[userID] = summary
		dispatched += summary.Dispatched
	}

	response.Success = len(response.Errors) == 0
	response.Message = fmt.Sprintf("Dispatched %d leads for %d users", dispatched, len(event.Detail.UserIDs))
	response.ProcessingTime = time.Since(start).Milliseconds()

	logger.Info("Scheduled dispatch completed",
		zap.String("source", event.Source),
		zap.Int("dispatched", dispatched),
		zap.Int64("processing_time_ms", response.ProcessingTime))

	return response, nil
}

func main() {
	lambda.Start(HandleSchedulerEvent)
}
