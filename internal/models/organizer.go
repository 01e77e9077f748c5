package models

import (
	"fmt"
	"strings"
	"time"
)

// Organizer is the event-producing company tracked per user
type Organizer struct {
	// Primary Keys
	PK string `json:"-" dynamodbav:"PK"` // ORGANIZER#{id}
	SK string `json:"-" dynamodbav:"SK"` // PROFILE

	ID        string    `json:"id" dynamodbav:"id"`
	UserID    string    `json:"userId" dynamodbav:"user_id"`
	Name      string    `json:"name" dynamodbav:"name"`
	Website   string    `json:"website,omitempty" dynamodbav:"website,omitempty"`
	CreatedAt time.Time `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" dynamodbav:"updated_at"`
}

// NewOrganizer builds an organizer row for the given owner
func NewOrganizer(userID, name string, now time.Time) *Organizer {
	id := GenerateID()
	return &Organizer{
		PK:        CreateOrganizerPK(id),
		SK:        OrganizerProfileSK,
		ID:        id,
		UserID:    userID,
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks the organizer has an owner and a name
func (o *Organizer) Validate() error {
	if strings.TrimSpace(o.UserID) == "" {
		return fmt.Errorf("organizer user_id is required")
	}
	if strings.TrimSpace(o.Name) == "" {
		return fmt.Errorf("organizer name is required")
	}
	return nil
}

// HasWebsite reports whether the website was already discovered or entered
func (o *Organizer) HasWebsite() bool {
	return strings.TrimSpace(o.Website) != ""
}
