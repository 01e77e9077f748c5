package models

import (
	"errors"
	"fmt"
	"time"
)

// LeadStatus is the enrichment state of a lead
type LeadStatus string

// Lead search status constants
const (
	LeadStatusPending   LeadStatus = "pending"
	LeadStatusSearching LeadStatus = "searching"
	LeadStatusFound     LeadStatus = "found"
	LeadStatusNotFound  LeadStatus = "not_found"
	LeadStatusError     LeadStatus = "error"
)

// ErrorRetryCooldown is how long a failed lead waits before it may be searched again
const ErrorRetryCooldown = 24 * time.Hour

// ErrInvalidTransition is returned when a status change breaks the lead state machine
var ErrInvalidTransition = errors.New("invalid lead status transition")

// Lead links one organizer and one event for an owning user
type Lead struct {
	// Primary Keys
	PK string `json:"-" dynamodbav:"PK"` // LEAD#{id}
	SK string `json:"-" dynamodbav:"SK"` // DETAILS

	ID           string     `json:"id" dynamodbav:"id"`
	UserID       string     `json:"userId" dynamodbav:"user_id"`
	OrganizerID  string     `json:"organizerId" dynamodbav:"organizer_id"`
	EventID      string     `json:"eventId" dynamodbav:"event_id"`
	SearchStatus LeadStatus `json:"searchStatus" dynamodbav:"search_status"`
	Verified     bool       `json:"verified" dynamodbav:"verified"`
	LastSearchAt *time.Time `json:"lastSearchAt,omitempty" dynamodbav:"last_search_at,omitempty"`
	SearchDomain string     `json:"searchDomain,omitempty" dynamodbav:"search_domain,omitempty"`
	CreatedAt    time.Time  `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" dynamodbav:"updated_at"`

	// GSI Keys
	StatusKey string `json:"-" dynamodbav:"StatusKey,omitempty"` // USER#{user_id}#STATUS#{status}
}

// NewLead builds a pending lead for a freshly created event
func NewLead(userID, organizerID, eventID string, now time.Time) *Lead {
	id := GenerateID()
	return &Lead{
		PK:           CreateLeadPK(id),
		SK:           DetailsSK,
		ID:           id,
		UserID:       userID,
		OrganizerID:  organizerID,
		EventID:      eventID,
		SearchStatus: LeadStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
		StatusKey:    GenerateLeadStatusKey(userID, LeadStatusPending),
	}
}

// LeadView is the read model joining a lead with its organizer and event
type LeadView struct {
	Lead      Lead      `json:"lead"`
	Organizer Organizer `json:"organizer"`
	Event     Event     `json:"event"`
}

// ValidateLeadStatus checks if the status is one of the five known values
func ValidateLeadStatus(status string) bool {
	validStatuses := []LeadStatus{
		LeadStatusPending,
		LeadStatusSearching,
		LeadStatusFound,
		LeadStatusNotFound,
		LeadStatusError,
	}

	for _, valid := range validStatuses {
		if LeadStatus(status) == valid {
			return true
		}
	}
	return false
}

// CanTransition enforces pending -> searching -> {found, not_found, error} and the
// single backward edge error -> searching once the cooldown has elapsed.
func CanTransition(from, to LeadStatus, lastSearchAt *time.Time, now time.Time) error {
	switch from {
	case LeadStatusPending:
		if to == LeadStatusSearching {
			return nil
		}
	case LeadStatusSearching:
		switch to {
		case LeadStatusFound, LeadStatusNotFound, LeadStatusError:
			return nil
		}
	case LeadStatusError:
		if to == LeadStatusSearching {
			if lastSearchAt == nil || now.Sub(*lastSearchAt) >= ErrorRetryCooldown {
				return nil
			}
			return fmt.Errorf("%w: lead failed %s ago, retry allowed after %s",
				ErrInvalidTransition, now.Sub(*lastSearchAt).Round(time.Minute), ErrorRetryCooldown)
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// Apply moves the lead to a new status, stamping the search time and domain
func (l *Lead) Apply(to LeadStatus, searchDomain string, now time.Time) error {
	if err := CanTransition(l.SearchStatus, to, l.LastSearchAt, now); err != nil {
		return err
	}

	l.SearchStatus = to
	stamp := now
	l.LastSearchAt = &stamp
	if searchDomain != "" {
		l.SearchDomain = searchDomain
	}
	l.UpdatedAt = now
	l.StatusKey = GenerateLeadStatusKey(l.UserID, to)
	return nil
}
