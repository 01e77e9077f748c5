package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/config"
	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/logging"
	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/models"
)

// ChatCompleter is the subset of the OpenAI client the extractor needs
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIExtractor turns raw Sympla HTML into an EventRecord with one chat completion
type OpenAIExtractor struct {
	client       ChatCompleter
	model        string
	temperature  float32
	maxTokens    int
	timeout      time.Duration
	maxHTMLBytes int
	logger       *zap.Logger
}

// llmEvent mirrors the JSON object the model is asked to return
type llmEvent struct {
	Title     string `json:"nome_evento"`
	Date      string `json:"data_evento"`
	Location  string `json:"local"`
	Organizer string `json:"produtor"`
}

// NewOpenAIExtractor creates an extractor backed by the OpenAI API
func NewOpenAIExtractor(cfg config.OpenAIConfig, logger *zap.Logger) *OpenAIExtractor {
	return NewOpenAIExtractorWithClient(openai.NewClient(cfg.APIKey), cfg, logger)
}

// NewOpenAIExtractorWithClient creates an extractor with a custom completion client
func NewOpenAIExtractorWithClient(client ChatCompleter, cfg config.OpenAIConfig, logger *zap.Logger) *OpenAIExtractor {
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 500
	}
	maxHTML := cfg.MaxHTMLBytes
	if maxHTML <= 0 {
		maxHTML = 60000
	}

	return &OpenAIExtractor{
		client:       client,
		model:        model,
		temperature:  cfg.Temperature,
		maxTokens:    maxTokens,
		timeout:      cfg.Timeout,
		maxHTMLBytes: maxHTML,
		logger:       logging.OrNop(logger),
	}
}

func (o *OpenAIExtractor) Name() string { return "llm_extraction" }

// Parse sends a bounded prefix of the page to the model and validates the answer
func (o *OpenAIExtractor) Parse(ctx context.Context, pageURL, html string) (*models.EventRecord, error) {
	content := truncateUTF8(stripNonContent(html), o.maxHTMLBytes)
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: empty page content", ErrExtractionParse)
	}

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: o.temperature,
		MaxTokens:   o.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: symplaSystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildSymplaUserPrompt(pageURL, content),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no response choices from OpenAI", ErrExtractionParse)
	}

	o.logger.Debug("LLM extraction completed",
		zap.String("url", pageURL),
		zap.Int("tokens", resp.Usage.TotalTokens),
		zap.Float64("estimated_cost", calculateCost(resp.Usage.TotalTokens)))

	return parseLLMEvent(resp.Choices[0].Message.Content)
}

// parseLLMEvent cleans fences and decodes the model output into a normalized record
func parseLLMEvent(raw string) (*models.EventRecord, error) {
	cleaned := extractJSONObject(cleanJSONResponse(raw))

	var ev llmEvent
	if err := json.Unmarshal([]byte(cleaned), &ev); err != nil {
		return nil, fmt.Errorf("%w: failed to parse model response: %v", ErrExtractionParse, err)
	}

	record := &models.EventRecord{
		Title:     ev.Title,
		Date:      ev.Date,
		Location:  ev.Location,
		Organizer: ev.Organizer,
	}
	record.Normalize()

	if models.IsNotInformed(record.Title) {
		return nil, fmt.Errorf("%w: model could not identify the event name", ErrExtractionParse)
	}

	return record, nil
}

// cleanJSONResponse removes markdown code fences around the model output
func cleanJSONResponse(response string) string {
	cleaned := strings.TrimSpace(response)

	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
	} else if strings.HasPrefix(cleaned, "```JSON") {
		cleaned = strings.TrimPrefix(cleaned, "```JSON")
	}

	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
	}

	if strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimSuffix(cleaned, "```")
	}

	return strings.TrimSpace(cleaned)
}

// extractJSONObject drops chatter before the first brace and after the last one
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end <= start {
		return s
	}
	return s[start : end+1]
}

// stripNonContent removes tags that only waste prompt budget
func stripNonContent(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	doc.Find("script:not([type='application/ld+json']), style, noscript, svg, iframe").Remove()

	out, err := doc.Html()
	if err != nil {
		return html
	}
	return out
}

// truncateUTF8 cuts s to at most max bytes without splitting a rune
func truncateUTF8(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// calculateCost estimates spend for gpt-4o-mini at a blended per-token rate
func calculateCost(tokensUsed int) float64 {
	return float64(tokensUsed) * 0.0003 / 1000.0
}

const symplaSystemPrompt = `Você é um assistente que extrai dados de páginas de eventos do Sympla (sympla.com.br).

Responda SOMENTE com um objeto JSON válido, sem markdown e sem texto adicional, exatamente com as chaves:
{
  "nome_evento": "nome completo do evento",
  "data_evento": "data e horário exatamente como aparecem na página",
  "local": "nome do local e cidade",
  "produtor": "nome do produtor/organizador do evento"
}

Regras:
- Use "Não informado" para qualquer campo que não esteja presente na página.
- Copie "data_evento" literalmente, sem reformatar.
- O produtor normalmente aparece na seção "Sobre o produtor" ou próximo a "Produzido por". Não confunda o produtor com o local do evento.
- O nome do evento costuma estar no primeiro <h1> ou na tag og:title.
- O local costuma aparecer junto a um ícone de mapa ou na seção "Local".
- Não invente informações.`

func buildSymplaUserPrompt(pageURL, content string) string {
	return fmt.Sprintf("URL do evento: %s\n\nHTML da página:\n%s", pageURL, content)
}
