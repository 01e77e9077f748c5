package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/logging"
	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/models"
)

// EnrichRequest asks for contacts of the organizer behind a lead
type EnrichRequest struct {
	LeadID      string `json:"leadId"`
	CompanyName string `json:"companyName"`
}

// EnrichResponse reports what one enrichment run found and stored
type EnrichResponse struct {
	LeadID          string                    `json:"leadId,omitempty"`
	Success         bool                      `json:"success"`
	Status          models.LeadStatus         `json:"status,omitempty"`
	Contacts        []models.ContactCandidate `json:"contacts"`
	ContactsCreated int                       `json:"contactsCreated"`
	Website         string                    `json:"website,omitempty"`
	SearchDomain    string                    `json:"searchDomain,omitempty"`
	Error           string                    `json:"error,omitempty"`
}

const statusWriteTimeout = 10 * time.Second

// DomainFinder resolves an organizer name to its website domain
type DomainFinder interface {
	Discover(ctx context.Context, organizerName string) (string, error)
}

// EnrichmentService drives a lead through the search state machine
type EnrichmentService struct {
	store     Store
	discovery DomainFinder
	finder    EmailFinder
	metrics   *PipelineMetrics
	logger    *zap.Logger
	now       func() time.Time
}

func NewEnrichmentService(store Store, discovery DomainFinder, finder EmailFinder, metrics *PipelineMetrics, logger *zap.Logger) *EnrichmentService {
	return &EnrichmentService{
		store:     store,
		discovery: discovery,
		finder:    finder,
		metrics:   metrics,
		logger:    logging.OrNop(logger),
		now:       time.Now,
	}
}

// enrichRun accumulates what a run discovered and persisted
type enrichRun struct {
	domain          string
	websiteFound    bool
	persisted       bool
	candidates      []models.ContactCandidate
	contactsCreated int
}

// EnrichLead searches contacts for one lead. Failures while searching end up in
// the response and the lead status; the returned error is reserved for requests
// that could not start a search at all.
func (s *EnrichmentService) EnrichLead(ctx context.Context, userID string, req EnrichRequest) (*EnrichResponse, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(req.LeadID) == "" {
		return nil, fmt.Errorf("%w: user and lead id are required", ErrInvalidRequest)
	}

	view, err := s.store.GetLeadView(ctx, userID, req.LeadID)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.AdvanceLeadStatus(ctx, userID, req.LeadID, models.LeadStatusSearching, "", s.now()); err != nil {
		return nil, err
	}

	run := &enrichRun{}
	if view.Organizer.HasWebsite() {
		run.domain = models.DomainFromWebsite(view.Organizer.Website)
	}

	runErr := s.search(ctx, userID, view, req.CompanyName, run)

	status := models.LeadStatusNotFound
	switch {
	case runErr != nil && run.persisted:
		status = models.LeadStatusFound
	case runErr != nil:
		status = models.LeadStatusError
	case run.websiteFound || len(run.candidates) > 0:
		status = models.LeadStatusFound
	}

	resp := &EnrichResponse{
		LeadID:          req.LeadID,
		Success:         runErr == nil,
		Status:          status,
		Contacts:        run.candidates,
		ContactsCreated: run.contactsCreated,
		SearchDomain:    run.domain,
	}
	if resp.Contacts == nil {
		resp.Contacts = []models.ContactCandidate{}
	}
	if run.domain != "" {
		resp.Website = models.WebsiteFromDomain(run.domain)
	}

	// A cancelled search must still move the lead out of searching
	statusCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), statusWriteTimeout)
	defer cancel()
	if _, err := s.store.AdvanceLeadStatus(statusCtx, userID, req.LeadID, status, run.domain, s.now()); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("failed to record lead status: %w", err))
		resp.Success = false
	}
	if runErr != nil {
		resp.Error = runErr.Error()
		s.logger.Warn("Lead enrichment failed",
			zap.String("lead_id", req.LeadID),
			zap.String("status", string(status)),
			zap.Error(runErr))
	} else {
		s.logger.Info("Lead enrichment completed",
			zap.String("lead_id", req.LeadID),
			zap.String("status", string(status)),
			zap.String("domain", run.domain),
			zap.Int("contacts", len(run.candidates)),
			zap.Int("contacts_created", run.contactsCreated))
	}
	s.metrics.ObserveEnrichment(status)

	return resp, nil
}

func (s *EnrichmentService) search(ctx context.Context, userID string, view *models.LeadView, companyName string, run *enrichRun) error {
	if run.domain == "" {
		name := strings.TrimSpace(companyName)
		if name == "" || models.IsNotInformed(name) {
			name = view.Organizer.Name
		}
		if !models.IsNotInformed(name) {
			domain, err := s.discovery.Discover(ctx, name)
			switch {
			case err == nil:
				run.domain = domain
				run.websiteFound = true
			case !errors.Is(err, ErrDomainNotFound):
				return fmt.Errorf("domain discovery failed: %w", err)
			}
		}
	}

	if run.domain == "" {
		return nil
	}

	emails, err := s.finder.DomainSearch(ctx, run.domain)
	if err != nil {
		return fmt.Errorf("email search failed: %w", err)
	}
	run.candidates = FilterCandidates(emails)

	if run.websiteFound {
		updated, err := s.store.SetOrganizerWebsiteIfEmpty(ctx, userID, view.Organizer.ID, models.WebsiteFromDomain(run.domain))
		if err != nil {
			return fmt.Errorf("failed to store website: %w", err)
		}
		run.persisted = run.persisted || updated
	}

	for _, candidate := range run.candidates {
		_, created, err := s.store.UpsertContact(ctx, userID, view.Organizer.ID, candidate)
		if err != nil {
			return fmt.Errorf("failed to store contact %s: %w", candidate.Email, err)
		}
		run.persisted = true
		if created {
			run.contactsCreated++
		}
	}

	return nil
}

// EnrichBatch enriches several leads; a failing lead never stops the others
func (s *EnrichmentService) EnrichBatch(ctx context.Context, userID string, reqs []EnrichRequest) []EnrichResponse {
	responses := make([]EnrichResponse, 0, len(reqs))
	for _, req := range reqs {
		if ctx.Err() != nil {
			responses = append(responses, EnrichResponse{
				LeadID:   req.LeadID,
				Contacts: []models.ContactCandidate{},
				Error:    ctx.Err().Error(),
			})
			continue
		}

		resp, err := s.EnrichLead(ctx, userID, req)
		if err != nil {
			responses = append(responses, EnrichResponse{
				LeadID:   req.LeadID,
				Contacts: []models.ContactCandidate{},
				Error:    err.Error(),
			})
			continue
		}
		responses = append(responses, *resp)
	}
	return responses
}
