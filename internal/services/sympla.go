package services

import (
	"go.uber.org/zap"

	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/models"
)

// NewSymplaChain builds the Sympla strategy list. Sympla pages are rendered
// client side often enough that the headless browser is the second source,
// and only the language model copes with their markup.
func NewSymplaChain(fetcher PageSource, renderer PageSource, extractor PageParser, logger *zap.Logger) *ExtractionChain {
	sources := []PageSource{fetcher}
	if renderer != nil {
		sources = append(sources, renderer)
	}
	return NewExtractionChain(models.PlatformSympla, sources, []PageParser{extractor}, logger)
}
