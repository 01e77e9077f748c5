package models

import (
	"fmt"
	"strings"
	"time"
)

// NotInformed is the placeholder for any field an extractor could not find
const NotInformed = "Não informado"

// Platform identifies the ticketing site a URL belongs to
type Platform string

const (
	PlatformSympla       Platform = "sympla"
	PlatformEventbrite   Platform = "eventbrite"
	PlatformUnrecognized Platform = "unrecognized"
)

// EventRecord is the canonical output of every extraction strategy
type EventRecord struct {
	Title        string   `json:"title"`
	Date         string   `json:"date"`
	Location     string   `json:"location"`
	Organizer    string   `json:"organizer"`
	OrganizerURL string   `json:"organizerUrl,omitempty"`
	SourceURL    string   `json:"sourceUrl"`
	Platform     Platform `json:"platform"`

	// Set once the record has been persisted
	EventID     string `json:"eventId,omitempty"`
	OrganizerID string `json:"organizerId,omitempty"`
	LeadID      string `json:"leadId,omitempty"`
}

// Normalize trims every field and substitutes the placeholder for blanks
func (r *EventRecord) Normalize() {
	r.Title = orNotInformed(r.Title)
	r.Date = orNotInformed(r.Date)
	r.Location = orNotInformed(r.Location)
	r.Organizer = orNotInformed(r.Organizer)
	r.OrganizerURL = strings.TrimSpace(r.OrganizerURL)
	r.SourceURL = strings.TrimSpace(r.SourceURL)
}

// Validate makes sure the record can be persisted. A record without a title is useless
// downstream, everything else may carry the placeholder.
func (r *EventRecord) Validate() error {
	if IsNotInformed(r.Title) {
		return fmt.Errorf("event title is missing")
	}
	if r.SourceURL == "" {
		return fmt.Errorf("event source url is missing")
	}
	return nil
}

// OrganizerName returns the organizer to persist, falling back to the placeholder
func (r *EventRecord) OrganizerName() string {
	return orNotInformed(r.Organizer)
}

// Event is one ticketed listing, unique by source URL
type Event struct {
	// Primary Keys
	PK string `json:"-" dynamodbav:"PK"` // EVENT#{id}
	SK string `json:"-" dynamodbav:"SK"` // DETAILS

	ID          string    `json:"id" dynamodbav:"id"`
	UserID      string    `json:"userId" dynamodbav:"user_id"`
	OrganizerID string    `json:"organizerId" dynamodbav:"organizer_id"`
	Title       string    `json:"title" dynamodbav:"title"`
	Date        string    `json:"date" dynamodbav:"date"` // kept verbatim
	Location    string    `json:"location" dynamodbav:"location"`
	SourceURL   string    `json:"sourceUrl" dynamodbav:"source_url"`
	Platform    Platform  `json:"platform" dynamodbav:"platform"`
	CreatedAt   time.Time `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" dynamodbav:"updated_at"`
}

// NewEvent builds an event row from an extracted record
func NewEvent(userID, organizerID string, record EventRecord, now time.Time) *Event {
	id := GenerateID()
	return &Event{
		PK:          CreateEventPK(id),
		SK:          DetailsSK,
		ID:          id,
		UserID:      userID,
		OrganizerID: organizerID,
		Title:       record.Title,
		Date:        record.Date,
		Location:    record.Location,
		SourceURL:   NormalizeSourceURL(record.SourceURL),
		Platform:    record.Platform,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsNotInformed reports whether a value is blank or the placeholder
func IsNotInformed(value string) bool {
	v := strings.TrimSpace(value)
	return v == "" || strings.EqualFold(v, NotInformed)
}

func orNotInformed(value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return NotInformed
	}
	return v
}
