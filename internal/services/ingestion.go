package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/logging"
	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/models"
)

// IngestRequest carries the links pasted by a user, one per line
type IngestRequest struct {
	Links  []string `json:"links"`
	UserID string   `json:"userId"`
}

// IngestResponse lists what was stored and every per-link problem
type IngestResponse struct {
	Success   bool                 `json:"success"`
	Processed int                  `json:"processed"`
	Results   []models.EventRecord `json:"results"`
	Errors    []string             `json:"errors,omitempty"`
}

// Extractor turns one listing URL into an event record
type Extractor interface {
	Extract(ctx context.Context, pageURL string) (*ExtractionResult, error)
}

// IngestionService extracts listings and stores them as pending leads
type IngestionService struct {
	store   Store
	chains  map[models.Platform]Extractor
	metrics *PipelineMetrics
	logger  *zap.Logger
}

func NewIngestionService(store Store, chains map[models.Platform]Extractor, metrics *PipelineMetrics, logger *zap.Logger) *IngestionService {
	return &IngestionService{
		store:   store,
		chains:  chains,
		metrics: metrics,
		logger:  logging.OrNop(logger),
	}
}

// Ingest processes links one after another. Only malformed requests fail the
// call; every per-link failure is reported in the response errors.
func (s *IngestionService) Ingest(ctx context.Context, req IngestRequest) (*IngestResponse, error) {
	if req.Links == nil {
		return nil, fmt.Errorf("%w: links are required", ErrInvalidRequest)
	}
	if strings.TrimSpace(req.UserID) == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrInvalidRequest)
	}

	resp := &IngestResponse{
		Success: true,
		Results: []models.EventRecord{},
	}

	for _, link := range req.Links {
		link = strings.TrimSpace(link)
		if link == "" {
			continue
		}
		if ctx.Err() != nil {
			resp.Errors = append(resp.Errors, fmt.Sprintf("Processamento interrompido: %s", link))
			continue
		}

		record, err := s.ingestLink(ctx, req.UserID, link)
		if err != nil {
			resp.Errors = append(resp.Errors, err.Error())
			continue
		}
		resp.Results = append(resp.Results, *record)
		resp.Processed++
	}

	s.logger.Info("Ingestion batch completed",
		zap.String("user_id", req.UserID),
		zap.Int("links", len(req.Links)),
		zap.Int("processed", resp.Processed),
		zap.Int("errors", len(resp.Errors)))

	return resp, nil
}

// ingestLink returns an error whose message is the user-facing warning for that link
func (s *IngestionService) ingestLink(ctx context.Context, userID, link string) (*models.EventRecord, error) {
	pageURL := NormalizeLink(link)
	platform := ClassifyURL(pageURL)

	if platform == models.PlatformUnrecognized {
		s.metrics.ObserveIngest(platform, "unsupported")
		return nil, fmt.Errorf("URL não suportada: %s", link)
	}
	chain, ok := s.chains[platform]
	if !ok {
		s.metrics.ObserveIngest(platform, "unavailable")
		return nil, fmt.Errorf("Extração indisponível para %s: %s", platform, link)
	}

	// Fetch, render and LM calls are skipped for links already stored
	exists, err := s.store.EventURLExists(ctx, pageURL)
	if err != nil {
		s.metrics.ObserveIngest(platform, "store_error")
		return nil, fmt.Errorf("Erro ao consultar %s: %v", link, err)
	}
	if exists {
		s.metrics.ObserveIngest(platform, "duplicate")
		return nil, fmt.Errorf("Evento já cadastrado: %s", link)
	}

	result, err := chain.Extract(ctx, pageURL)
	if err != nil {
		s.metrics.ObserveIngest(platform, "extraction_error")
		s.logger.Warn("Extraction failed",
			zap.String("url", pageURL),
			zap.String("platform", string(platform)),
			zap.Error(err))
		return nil, fmt.Errorf("Erro ao extrair %s: %v", link, err)
	}

	view, err := s.store.CreateCompleteLead(ctx, userID, *result.Record)
	if err != nil {
		if errors.Is(err, ErrDuplicateEvent) {
			s.metrics.ObserveIngest(platform, "duplicate")
			return nil, fmt.Errorf("Evento já cadastrado: %s", link)
		}
		s.metrics.ObserveIngest(platform, "store_error")
		s.logger.Error("Failed to store lead",
			zap.String("url", pageURL),
			zap.Error(err))
		return nil, fmt.Errorf("Erro ao salvar %s: %v", link, err)
	}

	record := *result.Record
	record.EventID = view.Event.ID
	record.OrganizerID = view.Organizer.ID
	record.LeadID = view.Lead.ID
	record.Organizer = view.Organizer.Name
	s.metrics.ObserveIngest(platform, "created")
	return &record, nil
}
