package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/logging"
	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/models"
)

// minPageBytes is the smallest body still considered a real listing page
const minPageBytes = 100

// PageSource is one way of obtaining the HTML of a listing page
type PageSource interface {
	Name() string
	FetchPage(ctx context.Context, pageURL string) (string, error)
}

// PageParser turns page HTML into a canonical event record
type PageParser interface {
	Name() string
	Parse(ctx context.Context, pageURL, html string) (*models.EventRecord, error)
}

// TierAttempt records the outcome of a single tier of a chain
type TierAttempt struct {
	Tier     string        `json:"tier"`
	Success  bool          `json:"success"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// ExtractionResult is what a chain produces for one URL
type ExtractionResult struct {
	Record   *models.EventRecord `json:"record,omitempty"`
	Attempts []TierAttempt       `json:"attempts"`
}

// ExtractionChain runs page sources in order until one yields HTML, then runs
// parsers in order until one yields a record. Tier order is the slice order.
type ExtractionChain struct {
	Platform models.Platform
	Sources  []PageSource
	Parsers  []PageParser

	archive *PageArchive
	metrics *PipelineMetrics
	logger  *zap.Logger
}

// NewExtractionChain assembles a chain for a platform
func NewExtractionChain(platform models.Platform, sources []PageSource, parsers []PageParser, logger *zap.Logger) *ExtractionChain {
	return &ExtractionChain{
		Platform: platform,
		Sources:  sources,
		Parsers:  parsers,
		logger:   logging.OrNop(logger),
	}
}

// WithArchive stores every page obtained by the chain in S3
func (c *ExtractionChain) WithArchive(archive *PageArchive) *ExtractionChain {
	c.archive = archive
	return c
}

// WithMetrics records tier outcomes
func (c *ExtractionChain) WithMetrics(metrics *PipelineMetrics) *ExtractionChain {
	c.metrics = metrics
	return c
}

// Extract runs the chain for one URL
func (c *ExtractionChain) Extract(ctx context.Context, pageURL string) (*ExtractionResult, error) {
	result := &ExtractionResult{}

	html, err := c.fetch(ctx, pageURL, result)
	if err != nil {
		return result, err
	}

	if c.archive != nil {
		if _, err := c.archive.ArchivePage(ctx, c.Platform, pageURL, html); err != nil {
			c.logger.Warn("failed to archive page", zap.String("url", pageURL), zap.Error(err))
		}
	}

	record, err := c.parse(ctx, pageURL, html, result)
	if err != nil {
		return result, err
	}

	record.SourceURL = pageURL
	record.Platform = c.Platform
	record.Normalize()
	if err := record.Validate(); err != nil {
		return result, fmt.Errorf("%w: %v", ErrExtractionParse, err)
	}

	result.Record = record
	return result, nil
}

func (c *ExtractionChain) fetch(ctx context.Context, pageURL string, result *ExtractionResult) (string, error) {
	var errs []error
	for _, source := range c.Sources {
		start := time.Now()
		html, err := source.FetchPage(ctx, pageURL)
		if err == nil && len(html) < minPageBytes {
			err = fmt.Errorf("%w: content too short (%d bytes)", ErrFetchFailed, len(html))
		}
		c.record(result, source.Name(), start, err)

		if err == nil {
			return html, nil
		}

		c.logger.Info("page source failed, trying next tier",
			zap.String("url", pageURL),
			zap.String("tier", source.Name()),
			zap.Error(err))
		errs = append(errs, fmt.Errorf("%s: %w", source.Name(), err))

		if ctx.Err() != nil {
			break
		}
	}

	if len(errs) == 0 {
		return "", fmt.Errorf("%w: no page source configured", ErrFetchFailed)
	}
	return "", errors.Join(errs...)
}

func (c *ExtractionChain) parse(ctx context.Context, pageURL, html string, result *ExtractionResult) (*models.EventRecord, error) {
	var errs []error
	for _, parser := range c.Parsers {
		start := time.Now()
		record, err := parser.Parse(ctx, pageURL, html)
		if err == nil && record == nil {
			err = fmt.Errorf("%w: empty result", ErrExtractionParse)
		}
		c.record(result, parser.Name(), start, err)

		if err == nil {
			return record, nil
		}

		c.logger.Info("parser failed, trying next tier",
			zap.String("url", pageURL),
			zap.String("tier", parser.Name()),
			zap.Error(err))
		errs = append(errs, fmt.Errorf("%s: %w", parser.Name(), err))
	}

	if len(errs) == 0 {
		return nil, fmt.Errorf("%w: no parser configured", ErrExtractionParse)
	}
	return nil, errors.Join(errs...)
}

func (c *ExtractionChain) record(result *ExtractionResult, tier string, start time.Time, err error) {
	attempt := TierAttempt{
		Tier:     tier,
		Success:  err == nil,
		Duration: time.Since(start),
	}
	if err != nil {
		attempt.Error = err.Error()
	}
	result.Attempts = append(result.Attempts, attempt)

	if c.metrics != nil {
		c.metrics.ObserveTier(c.Platform, tier, err == nil, attempt.Duration)
	}
}
