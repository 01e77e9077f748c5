package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/config"
	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/models"
)

const symplaURL = "https://www.sympla.com.br/evento/festival-x/123456"

func TestSymplaChainFallsBackToRenderBeforeLLM(t *testing.T) {
	log := &callLog{}
	fetcher := &fakeSource{name: "direct_fetch", err: fmt.Errorf("%w: status 500", ErrFetchFailed), log: log}
	renderer := &fakeSource{name: "headless_render", html: pageHTML("<h1>X</h1>"), log: log}
	llm := &fakeCompleter{
		content: `{"nome_evento":"X","data_evento":"10 out - 2025","local":"São Paulo, SP","produtor":"ACME"}`,
		log:     log,
	}
	extractor := NewOpenAIExtractorWithClient(llm, config.OpenAIConfig{}, nil)

	chain := NewSymplaChain(fetcher, renderer, extractor, nil)
	result, err := chain.Extract(context.Background(), symplaURL)
	require.NoError(t, err)

	assert.Equal(t, []string{"direct_fetch", "headless_render", "llm"}, log.list())
	require.Len(t, result.Attempts, 3)
	assert.False(t, result.Attempts[0].Success)
	assert.True(t, result.Attempts[1].Success)
	assert.True(t, result.Attempts[2].Success)

	assert.Equal(t, "X", result.Record.Title)
	assert.Equal(t, "ACME", result.Record.Organizer)
	assert.Equal(t, symplaURL, result.Record.SourceURL)
	assert.Equal(t, models.PlatformSympla, result.Record.Platform)
}

func TestSymplaChainSkipsRenderWhenFetchSucceeds(t *testing.T) {
	log := &callLog{}
	fetcher := &fakeSource{name: "direct_fetch", html: pageHTML("<h1>X</h1>"), log: log}
	renderer := &fakeSource{name: "headless_render", html: pageHTML(""), log: log}
	llm := &fakeCompleter{content: `{"nome_evento":"X"}`, log: log}

	chain := NewSymplaChain(fetcher, renderer, NewOpenAIExtractorWithClient(llm, config.OpenAIConfig{}, nil), nil)
	result, err := chain.Extract(context.Background(), symplaURL)
	require.NoError(t, err)

	assert.Equal(t, []string{"direct_fetch", "llm"}, log.list())
	assert.Equal(t, models.NotInformed, result.Record.Date)
	assert.Equal(t, models.NotInformed, result.Record.Organizer)
}

func TestSymplaChainRenderFailureIsFatal(t *testing.T) {
	log := &callLog{}
	fetcher := &fakeSource{name: "direct_fetch", err: ErrFetchFailed, log: log}
	renderer := &fakeSource{name: "headless_render", err: fmt.Errorf("%w: navigation timeout", ErrRenderFailed), log: log}
	llm := &fakeCompleter{content: `{"nome_evento":"X"}`, log: log}

	chain := NewSymplaChain(fetcher, renderer, NewOpenAIExtractorWithClient(llm, config.OpenAIConfig{}, nil), nil)
	_, err := chain.Extract(context.Background(), symplaURL)
	require.Error(t, err)

	assert.True(t, errors.Is(err, ErrRenderFailed))
	assert.True(t, errors.Is(err, ErrFetchFailed))
	assert.Equal(t, []string{"direct_fetch", "headless_render"}, log.list())
	assert.Empty(t, llm.requests)
}

func TestExtractionChainTreatsTinyPagesAsFailures(t *testing.T) {
	log := &callLog{}
	first := &fakeSource{name: "direct_fetch", html: "<html></html>", log: log}
	second := &fakeSource{name: "headless_render", html: pageHTML("<h1>Show</h1>"), log: log}
	parser := &fakeParser{name: "p", record: &models.EventRecord{Title: "Show"}, log: log}

	chain := NewExtractionChain(models.PlatformEventbrite, []PageSource{first, second}, []PageParser{parser}, nil)
	result, err := chain.Extract(context.Background(), "https://www.eventbrite.com/e/show-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"direct_fetch", "headless_render", "p"}, log.list())
	assert.Contains(t, result.Attempts[0].Error, "content too short")
}

func TestExtractionChainTriesParsersInOrder(t *testing.T) {
	log := &callLog{}
	source := &fakeSource{name: "direct_fetch", html: pageHTML(""), log: log}
	first := &fakeParser{name: "structured_data", err: ErrNoStructuredData, log: log}
	second := &fakeParser{name: "html_heuristics", record: &models.EventRecord{Title: "Show"}, log: log}

	chain := NewExtractionChain(models.PlatformEventbrite, []PageSource{source}, []PageParser{first, second}, nil)
	result, err := chain.Extract(context.Background(), "https://www.eventbrite.com/e/show-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"direct_fetch", "structured_data", "html_heuristics"}, log.list())
	assert.Equal(t, "Show", result.Record.Title)
	assert.Equal(t, models.NotInformed, result.Record.Location)
}

func TestExtractionChainAllParsersFail(t *testing.T) {
	source := &fakeSource{name: "direct_fetch", html: pageHTML("")}
	first := &fakeParser{name: "structured_data", err: ErrNoStructuredData}
	second := &fakeParser{name: "html_heuristics", err: fmt.Errorf("%w: no title", ErrExtractionParse)}

	chain := NewExtractionChain(models.PlatformEventbrite, []PageSource{source}, []PageParser{first, second}, nil)
	result, err := chain.Extract(context.Background(), "https://www.eventbrite.com/e/show-1")
	require.Error(t, err)

	assert.True(t, errors.Is(err, ErrExtractionParse))
	assert.Nil(t, result.Record)
	assert.Len(t, result.Attempts, 3)
}

func TestExtractionChainRecordsMetrics(t *testing.T) {
	metrics := NewPipelineMetrics(prometheus.NewRegistry())
	source := &fakeSource{name: "direct_fetch", html: pageHTML("")}
	parser := &fakeParser{name: "p", record: &models.EventRecord{Title: "Show"}}

	chain := NewExtractionChain(models.PlatformEventbrite, []PageSource{source}, []PageParser{parser}, nil).WithMetrics(metrics)
	_, err := chain.Extract(context.Background(), "https://www.eventbrite.com/e/show-1")
	require.NoError(t, err)

	assert.Equal(t, 100.0, metrics.TierSuccessRate(models.PlatformEventbrite, "direct_fetch"))
	assert.Equal(t, 100.0, metrics.TierSuccessRate(models.PlatformEventbrite, "p"))
	assert.Equal(t, 0.0, metrics.TierSuccessRate(models.PlatformSympla, "p"))
}
