package services

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/models"
)

var symplaDomains = []string{
	"sympla.com.br",
}

var eventbriteDomains = []string{
	"eventbrite.com",
	"eventbrite.com.br",
	"eventbrite.co.uk",
	"eventbrite.ca",
	"eventbrite.com.au",
	"eventbrite.ie",
	"eventbrite.de",
	"eventbrite.es",
	"eventbrite.fr",
	"eventbrite.it",
	"eventbrite.nl",
	"eventbrite.pt",
	"eventbrite.com.mx",
	"eventbrite.com.ar",
	"eventbrite.co",
	"eventbrite.cl",
}

// ClassifyURL decides which platform extractor applies to a raw link
func ClassifyURL(raw string) models.Platform {
	host, err := hostOf(raw)
	if err != nil {
		return models.PlatformUnrecognized
	}

	switch {
	case matchesDomain(host, symplaDomains):
		return models.PlatformSympla
	case matchesDomain(host, eventbriteDomains):
		return models.PlatformEventbrite
	default:
		return models.PlatformUnrecognized
	}
}

// NormalizeLink trims a submitted link and adds a scheme when it is missing
func NormalizeLink(raw string) string {
	link := strings.TrimSpace(raw)
	if link == "" {
		return ""
	}
	if !strings.Contains(link, "://") {
		link = "https://" + link
	}
	return link
}

func hostOf(raw string) (string, error) {
	link := NormalizeLink(raw)
	if link == "" {
		return "", fmt.Errorf("%w: empty url", ErrUnsupportedURL)
	}

	parsed, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("%w: scheme %q", ErrUnsupportedURL, parsed.Scheme)
	}

	host := strings.ToLower(strings.TrimSuffix(parsed.Hostname(), "."))
	if host == "" {
		return "", fmt.Errorf("%w: missing host", ErrUnsupportedURL)
	}
	return host, nil
}

func matchesDomain(host string, domains []string) bool {
	for _, domain := range domains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}
