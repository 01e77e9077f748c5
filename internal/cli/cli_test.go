package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/app"
	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/config"
	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/models"
	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/services"
)

type stubExtractor struct{}

func (stubExtractor) Extract(_ context.Context, pageURL string) (*services.ExtractionResult, error) {
	record := &models.EventRecord{Title: "Show X", Organizer: "ACME", SourceURL: pageURL, Platform: models.PlatformEventbrite}
	record.Normalize()
	return &services.ExtractionResult{Record: record}, nil
}

type stubDomains struct{}

func (stubDomains) Discover(context.Context, string) (string, error) { return "acme.com.br", nil }

type stubEmails struct{}

func (stubEmails) DomainSearch(context.Context, string) ([]services.HunterEmail, error) {
	return []services.HunterEmail{{Value: "ana@acme.com.br", Confidence: 90, FirstName: "Ana"}}, nil
}

func testBuilder(store *services.MemoryStore) builder {
	return func(_ context.Context, _ *globalFlags) (*app.App, error) {
		enrichment := services.NewEnrichmentService(store, stubDomains{}, stubEmails{}, nil, nil)
		return &app.App{
			Config: config.Default(),
			Logger: zap.NewNop(),
			Store:  store,
			Ingestion: services.NewIngestionService(store, map[models.Platform]services.Extractor{
				models.PlatformEventbrite: stubExtractor{},
			}, nil, nil),
			Enrichment: enrichment,
			Dispatcher: services.NewDispatcher(store, services.NewInlineInvoker(enrichment), nil),
		}, nil
	}
}

func run(t *testing.T, store *services.MemoryStore, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(testBuilder(store), strings.NewReader(stdin))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestIngestCommand(t *testing.T) {
	store := services.NewMemoryStore()

	out, err := run(t, store, "", "--user", "u1", "ingest", "https://www.eventbrite.com/e/show-1", "https://example.com/x")
	require.NoError(t, err)

	assert.Contains(t, out, "Processed 1 of 2 links")
	assert.Contains(t, out, "+ Show X")
	assert.Contains(t, out, "! URL não suportada: https://example.com/x")

	pending, err := store.ListLeadsByStatus(context.Background(), "u1", models.LeadStatusPending, 0)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestIngestCommandReadsStdinAndEnriches(t *testing.T) {
	store := services.NewMemoryStore()

	out, err := run(t, store, "https://www.eventbrite.com/e/show-1\n\n", "--user", "u1", "--format", "json", "ingest", "-f", "-", "--enrich")
	require.NoError(t, err)

	var payload struct {
		Ingest     services.IngestResponse   `json:"ingest"`
		Enrichment []services.EnrichResponse `json:"enrichment"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, 1, payload.Ingest.Processed)
	require.Len(t, payload.Enrichment, 1)
	assert.Equal(t, models.LeadStatusFound, payload.Enrichment[0].Status)
	assert.Equal(t, 1, payload.Enrichment[0].ContactsCreated)
}

func TestIngestCommandRequiresLinks(t *testing.T) {
	_, err := run(t, services.NewMemoryStore(), "", "--user", "u1", "ingest")
	assert.Error(t, err)
}

func TestDispatchCommand(t *testing.T) {
	store := services.NewMemoryStore()
	_, err := run(t, store, "", "--user", "u1", "ingest", "https://www.eventbrite.com/e/show-1")
	require.NoError(t, err)

	out, err := run(t, store, "", "--user", "u1", "dispatch", "--limit", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Dispatched 1 of 1 pending leads")
}

func TestEnrichCommand(t *testing.T) {
	store := services.NewMemoryStore()
	view, err := store.CreateCompleteLead(context.Background(), "u1", models.EventRecord{
		Title: "Show X", Organizer: "ACME", SourceURL: "https://www.eventbrite.com/e/show-1",
	})
	require.NoError(t, err)

	out, err := run(t, store, "", "--user", "u1", "enrich", "--lead", view.Lead.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Lead "+view.Lead.ID+": found (acme.com.br)")
	assert.Contains(t, out, "<ana@acme.com.br>")

	_, err = run(t, store, "", "--user", "u1", "enrich")
	assert.Error(t, err, "--lead is required")
}

func TestReadLinks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "links.txt")
	require.NoError(t, os.WriteFile(path, []byte(" https://a\n\nhttps://b \n"), 0o600))

	links, err := readLinks(path, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a", "https://b"}, links)

	_, err = readLinks(filepath.Join(t.TempDir(), "missing.txt"), nil)
	assert.Error(t, err)
}
