package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/config"
	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/models"
)

// EmailFinder looks up people with an email at a domain
type EmailFinder interface {
	DomainSearch(ctx context.Context, domain string) ([]HunterEmail, error)
}

// HunterEmail is one record of a domain search
type HunterEmail struct {
	Value      string `json:"value"`
	Type       string `json:"type"`
	Confidence int    `json:"confidence"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Position   string `json:"position"`
	Department string `json:"department"`
}

type hunterDomainSearchResponse struct {
	Data struct {
		Domain string        `json:"domain"`
		Emails []HunterEmail `json:"emails"`
	} `json:"data"`
	Errors []struct {
		ID      string `json:"id"`
		Code    int    `json:"code"`
		Details string `json:"details"`
	} `json:"errors"`
}

// HunterClient calls the Hunter domain-search API
type HunterClient struct {
	client *resty.Client
	apiKey string
	limit  int
}

// NewHunterClient creates a client from hunter settings
func NewHunterClient(cfg config.HunterConfig) *HunterClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.hunter.io/v2"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	limit := cfg.Limit
	if limit <= 0 {
		limit = 10
	}

	client := resty.New()
	client.SetBaseURL(strings.TrimSuffix(baseURL, "/"))
	client.SetTimeout(timeout)
	client.SetHeader("Accept", "application/json")

	return &HunterClient{client: client, apiKey: cfg.APIKey, limit: limit}
}

// DomainSearch returns every email Hunter knows for the domain
func (h *HunterClient) DomainSearch(ctx context.Context, domain string) ([]HunterEmail, error) {
	var result hunterDomainSearchResponse
	res, err := h.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"domain":  domain,
			"api_key": h.apiKey,
			"limit":   strconv.Itoa(h.limit),
		}).
		SetResult(&result).
		SetError(&result).
		Get("/domain-search")
	if err != nil {
		return nil, fmt.Errorf("hunter request failed: %w", err)
	}

	if res.IsError() {
		detail := res.Status()
		if len(result.Errors) > 0 {
			detail = result.Errors[0].Details
		}
		return nil, fmt.Errorf("hunter domain search for %s failed: %s", domain, detail)
	}

	return result.Data.Emails, nil
}

// FilterCandidates keeps emails with enough confidence, best first, capped
func FilterCandidates(emails []HunterEmail) []models.ContactCandidate {
	kept := make([]HunterEmail, 0, len(emails))
	for _, e := range emails {
		if e.Confidence >= models.MinContactConfidence && strings.TrimSpace(e.Value) != "" {
			kept = append(kept, e)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Confidence > kept[j].Confidence
	})
	if len(kept) > models.MaxContactsPerSearch {
		kept = kept[:models.MaxContactsPerSearch]
	}

	candidates := make([]models.ContactCandidate, 0, len(kept))
	for _, e := range kept {
		position := strings.TrimSpace(e.Position)
		if position == "" {
			position = strings.TrimSpace(e.Department)
		}
		candidates = append(candidates, models.ContactCandidate{
			Name:       contactName(e.FirstName, e.LastName),
			Email:      models.NormalizeEmail(e.Value),
			Position:   position,
			Confidence: e.Confidence,
		})
	}
	return candidates
}

func contactName(first, last string) string {
	first, last = strings.TrimSpace(first), strings.TrimSpace(last)
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	default:
		return last
	}
}
