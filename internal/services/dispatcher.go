package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	lambdaclient "github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"go.uber.org/zap"

	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/logging"
	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/models"
)

// EnrichmentJob is the payload handed to the enrichment worker
type EnrichmentJob struct {
	UserID      string `json:"user_id"`
	LeadID      string `json:"lead_id"`
	CompanyName string `json:"company_name,omitempty"`
	TriggerType string `json:"trigger_type"` // manual | dispatch
}

// DispatchSummary reports which pending leads were handed to the worker
type DispatchSummary struct {
	Pending    int      `json:"pending"`
	Dispatched int      `json:"dispatched"`
	LeadIDs    []string `json:"leadIds"`
	Errors     []string `json:"errors,omitempty"`
}

// JobInvoker starts an enrichment job somewhere
type JobInvoker interface {
	InvokeJob(ctx context.Context, job EnrichmentJob) error
}

// LambdaAPI is the subset of the Lambda client used to start workers
type LambdaAPI interface {
	Invoke(ctx context.Context, params *lambdaclient.InvokeInput, optFns ...func(*lambdaclient.Options)) (*lambdaclient.InvokeOutput, error)
}

// LambdaInvoker runs jobs on the enrichment worker function asynchronously
type LambdaInvoker struct {
	client       LambdaAPI
	functionName string
}

func NewLambdaInvoker(client LambdaAPI, functionName string) *LambdaInvoker {
	return &LambdaInvoker{client: client, functionName: functionName}
}

// NewLambdaInvokerFromConfig creates an invoker with a client built from aws config
func NewLambdaInvokerFromConfig(awsCfg aws.Config, functionName string) *LambdaInvoker {
	return NewLambdaInvoker(lambdaclient.NewFromConfig(awsCfg), functionName)
}

func (l *LambdaInvoker) InvokeJob(ctx context.Context, job EnrichmentJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal enrichment job: %w", err)
	}

	_, err = l.client.Invoke(ctx, &lambdaclient.InvokeInput{
		FunctionName:   aws.String(l.functionName),
		InvocationType: lambdatypes.InvocationTypeEvent,
		Payload:        payload,
	})
	if err != nil {
		return fmt.Errorf("failed to invoke enrichment worker: %w", err)
	}
	return nil
}

// InlineInvoker runs jobs in-process; used where no worker function is deployed
type InlineInvoker struct {
	service *EnrichmentService
}

func NewInlineInvoker(service *EnrichmentService) *InlineInvoker {
	return &InlineInvoker{service: service}
}

func (i *InlineInvoker) InvokeJob(ctx context.Context, job EnrichmentJob) error {
	resp, err := i.service.EnrichLead(ctx, job.UserID, EnrichRequest{
		LeadID:      job.LeadID,
		CompanyName: job.CompanyName,
	})
	if err != nil {
		return err
	}
	if resp.Error != "" {
		return fmt.Errorf("lead %s: %s", job.LeadID, resp.Error)
	}
	return nil
}

// Dispatcher hands a user's pending leads to the enrichment worker
type Dispatcher struct {
	store   Store
	invoker JobInvoker
	logger  *zap.Logger
}

func NewDispatcher(store Store, invoker JobInvoker, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{store: store, invoker: invoker, logger: logging.OrNop(logger)}
}

// DispatchPending starts one job per pending lead, oldest first
func (d *Dispatcher) DispatchPending(ctx context.Context, userID string, limit int) (*DispatchSummary, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrInvalidRequest)
	}

	leads, err := d.store.ListLeadsByStatus(ctx, userID, models.LeadStatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending leads: %w", err)
	}

	summary := &DispatchSummary{Pending: len(leads), LeadIDs: []string{}}
	for _, lead := range leads {
		job := EnrichmentJob{
			UserID:      userID,
			LeadID:      lead.ID,
			TriggerType: "dispatch",
		}
		if err := d.invoker.InvokeJob(ctx, job); err != nil {
			d.logger.Warn("Failed to dispatch lead",
				zap.String("lead_id", lead.ID),
				zap.Error(err))
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", lead.ID, err))
			continue
		}
		summary.Dispatched++
		summary.LeadIDs = append(summary.LeadIDs, lead.ID)
	}

	d.logger.Info("Dispatched pending leads",
		zap.String("user_id", userID),
		zap.Int("pending", summary.Pending),
		zap.Int("dispatched", summary.Dispatched))

	return summary, nil
}
