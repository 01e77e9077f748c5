package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/models"
)

// maxFieldLength is the longest text accepted from a selector before cutting to its first line
const maxFieldLength = 100

var (
	eventbriteTitleSelectors = []string{
		"h1.event-title",
		`[data-testid="event-title"]`,
		"h1",
		`meta[property="og:title"]`,
		"title",
	}
	eventbriteDateSelectors = []string{
		`[data-testid="event-details__date"]`,
		".date-info",
		"time[datetime]",
		".event-details__data time",
		`[class*="date-and-time"]`,
	}
	eventbriteLocationSelectors = []string{
		`[data-testid="venue-name"]`,
		".location-info__address-text",
		".location-info",
		`[class*="location"] p`,
	}
	eventbriteOrganizerSelectors = []string{
		`[class*="organizer-name"]`,
		`[data-testid="organizer-name"]`,
		`[class*="eds-text-color--primary-brand"]`,
	}

	organizerAnchorPattern = regexp.MustCompile(`(?i)(organized by|organizado por)\s*:?\s*`)
	leadingBoilerplate     = regexp.MustCompile(`(?i)^(organized by|organizado por|by|por)\s+`)
	trailingBoilerplate    = regexp.MustCompile(`(?i)\s+(presents|apresenta)$`)
	whitespacePattern      = regexp.MustCompile(`\s+`)
	titleSiteSuffix        = regexp.MustCompile(`(?i)\s*[|\-]\s*eventbrite.*$`)
)

// NewEventbriteChain builds the Eventbrite strategy list: fetch directly, optionally
// render, then read JSON-LD before falling back to DOM heuristics.
func NewEventbriteChain(fetcher PageSource, renderer PageSource, logger *zap.Logger) *ExtractionChain {
	sources := []PageSource{fetcher}
	if renderer != nil {
		sources = append(sources, renderer)
	}
	parsers := []PageParser{NewStructuredDataParser(), NewHeuristicParser()}
	return NewExtractionChain(models.PlatformEventbrite, sources, parsers, logger)
}

// HeuristicParser scrapes an Eventbrite page using prioritized CSS selectors
type HeuristicParser struct{}

func NewHeuristicParser() *HeuristicParser {
	return &HeuristicParser{}
}

func (p *HeuristicParser) Name() string { return "html_heuristics" }

func (p *HeuristicParser) Parse(_ context.Context, _ string, html string) (*models.EventRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid html: %v", ErrExtractionParse, err)
	}

	title := titleSiteSuffix.ReplaceAllString(firstSelectorText(doc, eventbriteTitleSelectors), "")
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: no recognizable event title", ErrExtractionParse)
	}

	organizer, organizerURL := findOrganizer(doc)

	record := &models.EventRecord{
		Title:        title,
		Date:         firstSelectorText(doc, eventbriteDateSelectors),
		Location:     firstSelectorText(doc, eventbriteLocationSelectors),
		Organizer:    organizer,
		OrganizerURL: organizerURL,
	}
	record.Normalize()
	return record, nil
}

// firstSelectorText returns the text of the first selector with a non-empty match
func firstSelectorText(doc *goquery.Document, selectors []string) string {
	for _, sel := range selectors {
		match := doc.Find(sel).First()
		if match.Length() == 0 {
			continue
		}

		var text string
		if goquery.NodeName(match) == "meta" {
			text, _ = match.Attr("content")
		} else {
			text = match.Text()
			if strings.TrimSpace(text) == "" {
				text, _ = match.Attr("datetime")
			}
		}

		if text = clipField(text); text != "" {
			return text
		}
	}
	return ""
}

// clipField keeps only the first line of overly long matches
func clipField(text string) string {
	text = strings.TrimSpace(text)
	if len(text) > maxFieldLength {
		if idx := strings.IndexAny(text, "\r\n"); idx > 0 {
			text = text[:idx]
		}
	}
	return collapseWhitespace(text)
}

// findOrganizer tries the "Organized by" anchor, then profile links, then brand styled text
func findOrganizer(doc *goquery.Document) (string, string) {
	if name, href := organizerFromAnchor(doc); name != "" {
		return name, href
	}

	var name, href string
	doc.Find(`a[href*="/o/"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if text := StripOrganizerBoilerplate(clipField(s.Text())); text != "" {
			name = text
			href, _ = s.Attr("href")
			return false
		}
		return true
	})
	if name != "" {
		return name, href
	}

	return StripOrganizerBoilerplate(firstSelectorText(doc, eventbriteOrganizerSelectors)), ""
}

func organizerFromAnchor(doc *goquery.Document) (string, string) {
	var name, href string
	doc.Find("p, span, div, dt, dd, h2, h3, h4, strong, li").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		own := ownText(s)
		loc := organizerAnchorPattern.FindStringIndex(own)
		if loc == nil {
			return true
		}

		if rest := StripOrganizerBoilerplate(own[loc[1]:]); rest != "" {
			name = clipField(rest)
			return false
		}
		if link := s.Find("a").First(); link.Length() > 0 {
			if text := StripOrganizerBoilerplate(clipField(link.Text())); text != "" {
				name = text
				href, _ = link.Attr("href")
				return false
			}
		}
		if next := s.Next(); next.Length() > 0 {
			if text := StripOrganizerBoilerplate(clipField(next.Text())); text != "" {
				name = text
				if link := next.Find("a").First(); link.Length() > 0 {
					href, _ = link.Attr("href")
				} else if goquery.NodeName(next) == "a" {
					href, _ = next.Attr("href")
				}
				return false
			}
		}
		return true
	})
	return name, href
}

// ownText returns the text nodes directly under s, ignoring descendants
func ownText(s *goquery.Selection) string {
	var b strings.Builder
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		if goquery.NodeName(c) == "#text" {
			b.WriteString(c.Text())
		}
	})
	return collapseWhitespace(b.String())
}

// StripOrganizerBoilerplate removes "by"/"presents" style framing around a name
func StripOrganizerBoilerplate(name string) string {
	name = collapseWhitespace(name)
	name = leadingBoilerplate.ReplaceAllString(name, "")
	name = trailingBoilerplate.ReplaceAllString(name, "")
	return strings.TrimSpace(name)
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}
