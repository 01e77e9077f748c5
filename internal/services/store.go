package services

import (
	"context"
	"time"

	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/models"
)

// Store persists organizers, events, leads and contacts. Every method is scoped
// to the owning user; rows of another user are reported as ErrOwnershipMismatch.
type Store interface {
	// GetOrCreateOrganizer returns the user's organizer with that name, creating it when absent
	GetOrCreateOrganizer(ctx context.Context, userID, name string) (*models.Organizer, bool, error)

	// CreateEventWithOrganizer stores a new event. A source URL seen before yields ErrDuplicateEvent.
	CreateEventWithOrganizer(ctx context.Context, userID string, record models.EventRecord) (*models.Event, *models.Organizer, error)

	// EventURLExists reports whether an event was already stored for the source URL
	EventURLExists(ctx context.Context, sourceURL string) (bool, error)

	// CreateCompleteLead stores organizer, event and a pending lead together
	CreateCompleteLead(ctx context.Context, userID string, record models.EventRecord) (*models.LeadView, error)

	// UpsertContact creates the contact or fills only its empty fields
	UpsertContact(ctx context.Context, userID, organizerID string, candidate models.ContactCandidate) (*models.Contact, bool, error)

	// AdvanceLeadStatus applies a state machine transition
	AdvanceLeadStatus(ctx context.Context, userID, leadID string, to models.LeadStatus, searchDomain string, now time.Time) (*models.Lead, error)

	// SetOrganizerWebsiteIfEmpty back-fills the website, never overwriting one
	SetOrganizerWebsiteIfEmpty(ctx context.Context, userID, organizerID, website string) (bool, error)

	GetLeadView(ctx context.Context, userID, leadID string) (*models.LeadView, error)

	ListLeadsByStatus(ctx context.Context, userID string, status models.LeadStatus, limit int) ([]models.Lead, error)
}
