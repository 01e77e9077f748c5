package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/models"
)

func TestHeuristicParser(t *testing.T) {
	parser := NewHeuristicParser()

	t.Run("organized by anchor", func(t *testing.T) {
		page := `<html><head><title>Show X | Eventbrite</title></head><body>
			<h1>Show X</h1>
			<time datetime="2025-10-10T20:00">sex, 10 de out, 20:00</time>
			<div data-testid="venue-name">Audio Club</div>
			<div><p>Organized by <a href="https://www.eventbrite.com/o/acme-123">ACME Presents</a></p></div>
		</body></html>`

		record, err := parser.Parse(context.Background(), "", page)
		require.NoError(t, err)
		assert.Equal(t, "Show X", record.Title)
		assert.Equal(t, "sex, 10 de out, 20:00", record.Date)
		assert.Equal(t, "Audio Club", record.Location)
		assert.Equal(t, "ACME", record.Organizer)
		assert.Equal(t, "https://www.eventbrite.com/o/acme-123", record.OrganizerURL)
	})

	t.Run("organizer text after anchor", func(t *testing.T) {
		page := `<html><body><h1>Show X</h1><span>Organizado por: Coletivo Y</span></body></html>`
		record, err := parser.Parse(context.Background(), "", page)
		require.NoError(t, err)
		assert.Equal(t, "Coletivo Y", record.Organizer)
	})

	t.Run("profile link fallback", func(t *testing.T) {
		page := `<html><body><h1>Show X</h1><a href="/o/acme-1">By ACME</a></body></html>`
		record, err := parser.Parse(context.Background(), "", page)
		require.NoError(t, err)
		assert.Equal(t, "ACME", record.Organizer)
		assert.Equal(t, "/o/acme-1", record.OrganizerURL)
		assert.Equal(t, models.NotInformed, record.Date)
		assert.Equal(t, models.NotInformed, record.Location)
	})

	t.Run("title from document title", func(t *testing.T) {
		page := `<html><head><title>Show X | Eventbrite</title></head><body><p>nada</p></body></html>`
		record, err := parser.Parse(context.Background(), "", page)
		require.NoError(t, err)
		assert.Equal(t, "Show X", record.Title)
		assert.Equal(t, models.NotInformed, record.Organizer)
	})

	t.Run("long match is clipped to first line", func(t *testing.T) {
		long := "Audio Club\n" + strings.Repeat("texto longo ", 20)
		page := `<html><body><h1>Show X</h1><div data-testid="venue-name">` + long + `</div></body></html>`
		record, err := parser.Parse(context.Background(), "", page)
		require.NoError(t, err)
		assert.Equal(t, "Audio Club", record.Location)
	})

	t.Run("missing title", func(t *testing.T) {
		_, err := parser.Parse(context.Background(), "", `<html><body><p>sem título</p></body></html>`)
		assert.True(t, errors.Is(err, ErrExtractionParse))
	})
}

func TestStripOrganizerBoilerplate(t *testing.T) {
	tests := map[string]string{
		"By ACME":             "ACME",
		"por  Coletivo   Y":   "Coletivo Y",
		"Organized by ACME":   "ACME",
		"ACME Presents":       "ACME",
		"Produtora apresenta": "Produtora",
		"Bypass Records":      "Bypass Records",
		"":                    "",
	}
	for in, want := range tests {
		assert.Equal(t, want, StripOrganizerBoilerplate(in), in)
	}
}

func TestEventbriteChainPrefersStructuredData(t *testing.T) {
	page := ldJSONPage(`{"@type":"Event","name":"Do JSON-LD","organizer":{"name":"ACME"}}`)
	page = strings.Replace(page, "<body></body>", "<body><h1>Do HTML</h1>"+strings.Repeat(" ", minPageBytes)+"</body>", 1)
	log := &callLog{}
	fetcher := &fakeSource{name: "direct_fetch", html: page, log: log}

	chain := NewEventbriteChain(fetcher, nil, nil)
	result, err := chain.Extract(context.Background(), "https://www.eventbrite.com.br/e/show-1")
	require.NoError(t, err)
	assert.Equal(t, "Do JSON-LD", result.Record.Title)
	assert.Equal(t, models.PlatformEventbrite, result.Record.Platform)
	assert.Len(t, result.Attempts, 2)
}

func TestEventbriteChainFallsBackToHeuristics(t *testing.T) {
	fetcher := &fakeSource{name: "direct_fetch", html: pageHTML("<h1>Do HTML</h1>")}
	renderer := &fakeSource{name: "headless_render", html: pageHTML("")}

	chain := NewEventbriteChain(fetcher, renderer, nil)
	result, err := chain.Extract(context.Background(), "https://www.eventbrite.com/e/show-1")
	require.NoError(t, err)
	assert.Equal(t, "Do HTML", result.Record.Title)
	require.Len(t, result.Attempts, 3)
	assert.Equal(t, "structured_data", result.Attempts[1].Tier)
	assert.False(t, result.Attempts[1].Success)
	assert.Equal(t, "html_heuristics", result.Attempts[2].Tier)
}
