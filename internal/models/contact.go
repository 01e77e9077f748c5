package models

import (
	"fmt"
	"strings"
	"time"
)

// MinContactConfidence is the lowest email-finder score still worth keeping
const MinContactConfidence = 40

// MaxContactsPerSearch caps how many candidates a single search persists
const MaxContactsPerSearch = 5

// ContactCandidate is a person discovered by the email finder. Confidence is
// only meaningful for the search that produced it and is never stored.
type ContactCandidate struct {
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	Position   string `json:"position,omitempty"`
	Confidence int    `json:"confidence"`
}

// Contact belongs to exactly one organizer
type Contact struct {
	// Primary Keys
	PK string `json:"-" dynamodbav:"PK"` // ORGANIZER#{organizer_id}
	SK string `json:"-" dynamodbav:"SK"` // CONTACT#{email}

	ID          string    `json:"id" dynamodbav:"id"`
	OrganizerID string    `json:"organizerId" dynamodbav:"organizer_id"`
	UserID      string    `json:"userId" dynamodbav:"user_id"`
	Name        string    `json:"name,omitempty" dynamodbav:"contact_name,omitempty"`
	Email       string    `json:"email,omitempty" dynamodbav:"email,omitempty"`
	Position    string    `json:"position,omitempty" dynamodbav:"position,omitempty"`
	CreatedAt   time.Time `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" dynamodbav:"updated_at"`
}

// NewContact builds a contact row from a discovered candidate
func NewContact(userID, organizerID string, candidate ContactCandidate, now time.Time) *Contact {
	email := NormalizeEmail(candidate.Email)
	id := GenerateID()
	sk := CreateContactSK(email)
	if email == "" {
		sk = CreateContactIDSK(id)
	}
	return &Contact{
		PK:          CreateOrganizerPK(organizerID),
		SK:          sk,
		ID:          id,
		OrganizerID: organizerID,
		UserID:      userID,
		Name:        strings.TrimSpace(candidate.Name),
		Email:       email,
		Position:    strings.TrimSpace(candidate.Position),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate enforces that a contact can be reached or at least identified
func (c *Contact) Validate() error {
	if c.Name == "" && c.Email == "" {
		return fmt.Errorf("contact needs a name or an email")
	}
	if c.Email != "" && !IsValidEmail(c.Email) {
		return fmt.Errorf("invalid contact email: %s", c.Email)
	}
	return nil
}

// MergeMissing copies name and position from the candidate only where this
// contact has none. It returns true when anything changed.
func (c *Contact) MergeMissing(candidate ContactCandidate) bool {
	changed := false
	if c.Name == "" && strings.TrimSpace(candidate.Name) != "" {
		c.Name = strings.TrimSpace(candidate.Name)
		changed = true
	}
	if c.Position == "" && strings.TrimSpace(candidate.Position) != "" {
		c.Position = strings.TrimSpace(candidate.Position)
		changed = true
	}
	return changed
}
