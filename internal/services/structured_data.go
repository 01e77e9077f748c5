package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/models"
)

// StructuredDataParser reads schema.org Event objects embedded as JSON-LD
type StructuredDataParser struct{}

func NewStructuredDataParser() *StructuredDataParser {
	return &StructuredDataParser{}
}

func (p *StructuredDataParser) Name() string { return "structured_data" }

// Parse returns the first Event found in any ld+json block of the page
func (p *StructuredDataParser) Parse(_ context.Context, _ string, html string) (*models.EventRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid html: %v", ErrExtractionParse, err)
	}

	var event map[string]any
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var payload any
		if err := json.Unmarshal([]byte(strings.TrimSpace(s.Text())), &payload); err != nil {
			return true
		}
		event = findEventObject(payload)
		return event == nil
	})

	if event == nil {
		return nil, ErrNoStructuredData
	}

	record := &models.EventRecord{
		Title:    stringField(event, "name"),
		Date:     formatEventDate(stringField(event, "startDate")),
		Location: formatLocation(event["location"]),
	}

	if org := firstObject(event["organizer"]); org != nil {
		record.Organizer = StripOrganizerBoilerplate(stringField(org, "name"))
		record.OrganizerURL = stringField(org, "url")
	} else if name, ok := event["organizer"].(string); ok {
		record.Organizer = StripOrganizerBoilerplate(name)
	}

	record.Normalize()
	if models.IsNotInformed(record.Title) {
		return nil, fmt.Errorf("%w: event markup has no name", ErrExtractionParse)
	}
	return record, nil
}

// findEventObject walks arrays and @graph containers looking for an Event
func findEventObject(node any) map[string]any {
	switch v := node.(type) {
	case []any:
		for _, item := range v {
			if found := findEventObject(item); found != nil {
				return found
			}
		}
	case map[string]any:
		if isEventType(v["@type"]) {
			return v
		}
		if graph, ok := v["@graph"]; ok {
			return findEventObject(graph)
		}
	}
	return nil
}

func isEventType(t any) bool {
	switch v := t.(type) {
	case string:
		return strings.HasSuffix(v, "Event")
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && strings.HasSuffix(s, "Event") {
				return true
			}
		}
	}
	return false
}

func firstObject(node any) map[string]any {
	switch v := node.(type) {
	case map[string]any:
		return v
	case []any:
		for _, item := range v {
			if obj, ok := item.(map[string]any); ok {
				return obj
			}
		}
	}
	return nil
}

func stringField(obj map[string]any, key string) string {
	if obj == nil {
		return ""
	}
	if s, ok := obj[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

var eventDateLayouts = []struct {
	layout  string
	hasTime bool
}{
	{time.RFC3339, true},
	{"2006-01-02T15:04:05", true},
	{"2006-01-02T15:04", true},
	{"2006-01-02", false},
}

// formatEventDate renders an ISO date the way Brazilian listings show it.
// Values that do not parse are returned untouched.
func formatEventDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, l := range eventDateLayouts {
		t, err := time.Parse(l.layout, raw)
		if err != nil {
			continue
		}
		if l.hasTime {
			return t.Format("02/01/2006") + " às " + t.Format("15:04")
		}
		return t.Format("02/01/2006")
	}
	return raw
}

// formatLocation builds "venue, city, region" from a schema.org Place
func formatLocation(node any) string {
	if s, ok := node.(string); ok {
		return strings.TrimSpace(s)
	}
	place := firstObject(node)
	if place == nil {
		return ""
	}

	var address map[string]any
	if addr, ok := place["address"].(map[string]any); ok {
		address = addr
	}

	base := stringField(place, "name")
	if base == "" {
		base = stringField(address, "streetAddress")
	}
	if base == "" {
		if s, ok := place["address"].(string); ok {
			return strings.TrimSpace(s)
		}
	}

	parts := []string{}
	if base != "" {
		parts = append(parts, base)
	}
	lowerBase := strings.ToLower(base)
	for _, key := range []string{"addressLocality", "addressRegion"} {
		value := stringField(address, key)
		if value == "" || strings.Contains(lowerBase, strings.ToLower(value)) {
			continue
		}
		parts = append(parts, value)
	}
	return strings.Join(parts, ", ")
}
