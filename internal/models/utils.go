package models

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// GenerateID creates a new random entity ID
func GenerateID() string {
	return uuid.NewString()
}

// NormalizeSourceURL trims the URL and drops its fragment so the same listing
// always maps to the same uniqueness key
func NormalizeSourceURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if idx := strings.Index(trimmed, "#"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return trimmed
}

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidEmail performs basic email validation
func IsValidEmail(email string) bool {
	if email == "" {
		return false
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}

	if len(parts[0]) == 0 || len(parts[1]) == 0 {
		return false
	}

	return strings.Contains(parts[1], ".")
}

// IsValidURL performs basic URL validation
func IsValidURL(raw string) bool {
	if raw == "" {
		return false
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

// WebsiteFromDomain turns a bare domain into the website stored on an organizer
func WebsiteFromDomain(domain string) string {
	d := strings.TrimSpace(domain)
	if d == "" {
		return ""
	}
	if strings.HasPrefix(d, "http://") || strings.HasPrefix(d, "https://") {
		return d
	}
	return "https://" + d
}

// DomainFromWebsite strips scheme, www and path from a website
func DomainFromWebsite(website string) string {
	domain := strings.TrimSpace(website)
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")

	if idx := strings.Index(domain, "/"); idx >= 0 {
		domain = domain[:idx]
	}

	return strings.TrimPrefix(strings.ToLower(domain), "www.")
}
