package app

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/config"
	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/logging"
	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/models"
	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/services"
)

// Options changes how the services are wired
type Options struct {
	// Memory keeps everything in-process: no DynamoDB, no S3 archive, and
	// dispatched jobs run inline instead of on the worker function.
	Memory bool

	// Registerer receives the pipeline metrics; nil leaves them unregistered
	Registerer prometheus.Registerer
}

// App holds every service an entrypoint may need, wired once at startup
type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	Store      services.Store
	Metrics    *services.PipelineMetrics
	Ingestion  *services.IngestionService
	Enrichment *services.EnrichmentService
	Dispatcher *services.Dispatcher
}

// New builds the application graph from configuration
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts Options) (*App, error) {
	logger = logging.OrNop(logger)
	metrics := services.NewPipelineMetrics(opts.Registerer)

	var (
		awsCfg  aws.Config
		store   services.Store
		archive *services.PageArchive
	)
	if opts.Memory {
		store = services.NewMemoryStore()
	} else {
		if err := cfg.ValidateStore(); err != nil {
			return nil, err
		}
		var err error
		awsCfg, err = services.LoadAWSConfig(ctx, cfg.AWS)
		if err != nil {
			return nil, err
		}
		store = services.NewDynamoDBStoreFromConfig(awsCfg, cfg.AWS.DynamoDBTable, logger.Named("store"))
		if cfg.AWS.S3Bucket != "" {
			archive = services.NewPageArchiveFromConfig(awsCfg, cfg.AWS.S3Bucket)
		}
	}

	chains := buildChains(cfg, archive, metrics, logger)

	discovery := services.NewDomainDiscovery(
		services.NewHTTPProber(cfg.Discovery.ProbeTimeout),
		metrics,
		logger.Named("discovery"),
	)
	enrichment := services.NewEnrichmentService(
		store,
		discovery,
		services.NewHunterClient(cfg.Hunter),
		metrics,
		logger.Named("enrichment"),
	)

	var invoker services.JobInvoker
	if opts.Memory || cfg.AWS.EnrichWorkerLambda == "" {
		invoker = services.NewInlineInvoker(enrichment)
	} else {
		invoker = services.NewLambdaInvokerFromConfig(awsCfg, cfg.AWS.EnrichWorkerLambda)
	}

	return &App{
		Config:     cfg,
		Logger:     logger,
		Store:      store,
		Metrics:    metrics,
		Ingestion:  services.NewIngestionService(store, chains, metrics, logger.Named("ingestion")),
		Enrichment: enrichment,
		Dispatcher: services.NewDispatcher(store, invoker, logger.Named("dispatcher")),
	}, nil
}

func buildChains(cfg *config.Config, archive *services.PageArchive, metrics *services.PipelineMetrics, logger *zap.Logger) map[models.Platform]services.Extractor {
	fetcher := services.NewHTTPFetcher(cfg.Fetch.Timeout, cfg.Fetch.UserAgent)

	var renderer services.PageSource
	if cfg.Render.Enabled {
		renderer = services.NewChromeRenderer(cfg.Render, logger.Named("render"))
	}

	chains := make(map[models.Platform]services.Extractor)

	eventbrite := services.NewEventbriteChain(fetcher, renderer, logger.Named("eventbrite"))
	chains[models.PlatformEventbrite] = eventbrite.WithArchive(archive).WithMetrics(metrics)

	if err := cfg.ValidateExtraction(); err != nil {
		logger.Warn("Sympla extraction disabled", zap.Error(err))
	} else {
		extractor := services.NewOpenAIExtractor(cfg.OpenAI, logger.Named("openai"))
		sympla := services.NewSymplaChain(fetcher, renderer, extractor, logger.Named("sympla"))
		chains[models.PlatformSympla] = sympla.WithArchive(archive).WithMetrics(metrics)
	}

	return chains
}

// Close flushes the logger
func (a *App) Close() error {
	if err := a.Logger.Sync(); err != nil {
		return fmt.Errorf("sync logger: %w", err)
	}
	return nil
}
