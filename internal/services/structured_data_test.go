package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/models"
)

func ldJSONPage(payload string) string {
	return `<html><head><script type="application/ld+json">` + payload + `</script></head><body></body></html>`
}

func TestStructuredDataParser(t *testing.T) {
	parser := NewStructuredDataParser()

	t.Run("graph with music event", func(t *testing.T) {
		page := ldJSONPage(`{"@context":"https://schema.org","@graph":[
			{"@type":"Organization","name":"Eventbrite"},
			{"@type":"MusicEvent","name":"Show X","startDate":"2025-10-10T20:00:00-03:00",
			 "location":{"@type":"Place","name":"Audio Club","address":{"addressLocality":"São Paulo","addressRegion":"SP"}},
			 "organizer":[{"@type":"Organization","name":"By ACME Presents","url":"https://www.eventbrite.com/o/acme-1"}]}
		]}`)

		record, err := parser.Parse(context.Background(), "", page)
		require.NoError(t, err)
		assert.Equal(t, "Show X", record.Title)
		assert.Equal(t, "10/10/2025 às 20:00", record.Date)
		assert.Equal(t, "Audio Club, São Paulo, SP", record.Location)
		assert.Equal(t, "ACME", record.Organizer)
		assert.Equal(t, "https://www.eventbrite.com/o/acme-1", record.OrganizerURL)
	})

	t.Run("array payload and string organizer", func(t *testing.T) {
		page := ldJSONPage(`[{"@type":"BreadcrumbList"},{"@type":["Event"],"name":"Feira","startDate":"2025-03-01","location":"Online","organizer":"Organizado por Coletivo Y"}]`)

		record, err := parser.Parse(context.Background(), "", page)
		require.NoError(t, err)
		assert.Equal(t, "Feira", record.Title)
		assert.Equal(t, "01/03/2025", record.Date)
		assert.Equal(t, "Online", record.Location)
		assert.Equal(t, "Coletivo Y", record.Organizer)
	})

	t.Run("missing fields use placeholder", func(t *testing.T) {
		record, err := parser.Parse(context.Background(), "", ldJSONPage(`{"@type":"Event","name":"Feira"}`))
		require.NoError(t, err)
		assert.Equal(t, models.NotInformed, record.Date)
		assert.Equal(t, models.NotInformed, record.Location)
		assert.Equal(t, models.NotInformed, record.Organizer)
	})

	t.Run("no event markup", func(t *testing.T) {
		_, err := parser.Parse(context.Background(), "", ldJSONPage(`{"@type":"Organization","name":"X"}`))
		assert.True(t, errors.Is(err, ErrNoStructuredData))
	})

	t.Run("malformed json is skipped", func(t *testing.T) {
		page := `<html><head><script type="application/ld+json">{broken</script>` +
			`<script type="application/ld+json">{"@type":"Event","name":"Feira"}</script></head></html>`
		record, err := parser.Parse(context.Background(), "", page)
		require.NoError(t, err)
		assert.Equal(t, "Feira", record.Title)
	})

	t.Run("event without name", func(t *testing.T) {
		_, err := parser.Parse(context.Background(), "", ldJSONPage(`{"@type":"Event","startDate":"2025-03-01"}`))
		assert.True(t, errors.Is(err, ErrExtractionParse))
	})
}

func TestFormatEventDate(t *testing.T) {
	assert.Equal(t, "05/11/2025 às 19:30", formatEventDate("2025-11-05T19:30:00"))
	assert.Equal(t, "05/11/2025 às 19:30", formatEventDate("2025-11-05T19:30"))
	assert.Equal(t, "05/11/2025", formatEventDate("2025-11-05"))
	assert.Equal(t, "sábado, 5 de novembro", formatEventDate(" sábado, 5 de novembro "))
	assert.Equal(t, "", formatEventDate(""))
}

func TestFormatLocation(t *testing.T) {
	place := map[string]any{
		"name":    "Teatro São Paulo",
		"address": map[string]any{"addressLocality": "São Paulo", "addressRegion": "SP"},
	}
	assert.Equal(t, "Teatro São Paulo, SP", formatLocation(place))

	street := map[string]any{
		"address": map[string]any{"streetAddress": "Rua Augusta, 100", "addressLocality": "São Paulo"},
	}
	assert.Equal(t, "Rua Augusta, 100, São Paulo", formatLocation(street))

	assert.Equal(t, "Rua X, 1", formatLocation(map[string]any{"address": "Rua X, 1"}))
	assert.Equal(t, "", formatLocation(nil))
}
