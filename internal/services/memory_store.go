package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/models"
)

// MemoryStore is an in-process Store with the same uniqueness and ownership
// rules as the DynamoDB store. It backs tests and local CLI runs.
type MemoryStore struct {
	mu sync.Mutex

	organizers map[string]*models.Organizer
	orgByName  map[string]string // name guard key -> organizer id
	events     map[string]*models.Event
	eventByURL map[string]string // normalized url -> event id
	leads      map[string]*models.Lead
	contacts   map[string]map[string]*models.Contact // organizer id -> contact SK -> contact
	now        func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		organizers: make(map[string]*models.Organizer),
		orgByName:  make(map[string]string),
		events:     make(map[string]*models.Event),
		eventByURL: make(map[string]string),
		leads:      make(map[string]*models.Lead),
		contacts:   make(map[string]map[string]*models.Contact),
		now:        time.Now,
	}
}

func (m *MemoryStore) GetOrCreateOrganizer(_ context.Context, userID, name string) (*models.Organizer, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	org, created, err := m.getOrCreateOrganizerLocked(userID, name)
	if err != nil {
		return nil, false, err
	}
	copied := *org
	return &copied, created, nil
}

func (m *MemoryStore) getOrCreateOrganizerLocked(userID, name string) (*models.Organizer, bool, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(name) == "" {
		return nil, false, fmt.Errorf("%w: organizer needs a user and a name", ErrInvalidRequest)
	}

	guard := models.CreateOrganizerNameGuardPK(userID, name)
	if id, ok := m.orgByName[guard]; ok {
		return m.organizers[id], false, nil
	}

	org := models.NewOrganizer(userID, name, m.now())
	m.organizers[org.ID] = org
	m.orgByName[guard] = org.ID
	return org, true, nil
}

func (m *MemoryStore) CreateEventWithOrganizer(_ context.Context, userID string, record models.EventRecord) (*models.Event, *models.Organizer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	event, org, err := m.createEventLocked(userID, record)
	if err != nil {
		return nil, nil, err
	}
	e, o := *event, *org
	return &e, &o, nil
}

// createEventLocked checks every constraint before writing anything so a
// failure leaves no partial rows behind
func (m *MemoryStore) createEventLocked(userID string, record models.EventRecord) (*models.Event, *models.Organizer, error) {
	sourceURL := models.NormalizeSourceURL(record.SourceURL)
	if sourceURL == "" {
		return nil, nil, fmt.Errorf("%w: event source url is required", ErrInvalidRequest)
	}
	if _, exists := m.eventByURL[sourceURL]; exists {
		return nil, nil, fmt.Errorf("%w: %s", ErrDuplicateEvent, sourceURL)
	}

	org, _, err := m.getOrCreateOrganizerLocked(userID, record.OrganizerName())
	if err != nil {
		return nil, nil, err
	}

	event := models.NewEvent(userID, org.ID, record, m.now())
	m.events[event.ID] = event
	m.eventByURL[sourceURL] = event.ID
	return event, org, nil
}

func (m *MemoryStore) EventURLExists(_ context.Context, sourceURL string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, exists := m.eventByURL[models.NormalizeSourceURL(sourceURL)]
	return exists, nil
}

func (m *MemoryStore) CreateCompleteLead(_ context.Context, userID string, record models.EventRecord) (*models.LeadView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	event, org, err := m.createEventLocked(userID, record)
	if err != nil {
		return nil, err
	}

	lead := models.NewLead(userID, org.ID, event.ID, m.now())
	m.leads[lead.ID] = lead

	return &models.LeadView{Lead: *lead, Organizer: *org, Event: *event}, nil
}

func (m *MemoryStore) UpsertContact(_ context.Context, userID, organizerID string, candidate models.ContactCandidate) (*models.Contact, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.ownedOrganizerLocked(userID, organizerID); err != nil {
		return nil, false, err
	}

	contact := models.NewContact(userID, organizerID, candidate, m.now())
	if err := contact.Validate(); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	byKey, ok := m.contacts[organizerID]
	if !ok {
		byKey = make(map[string]*models.Contact)
		m.contacts[organizerID] = byKey
	}

	if contact.Email != "" {
		if existing, ok := byKey[contact.SK]; ok {
			if existing.MergeMissing(candidate) {
				existing.UpdatedAt = m.now()
			}
			copied := *existing
			return &copied, false, nil
		}
	}

	byKey[contact.SK] = contact
	copied := *contact
	return &copied, true, nil
}

func (m *MemoryStore) AdvanceLeadStatus(_ context.Context, userID, leadID string, to models.LeadStatus, searchDomain string, now time.Time) (*models.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lead, err := m.ownedLeadLocked(userID, leadID)
	if err != nil {
		return nil, err
	}

	updated := *lead
	if err := updated.Apply(to, searchDomain, now); err != nil {
		return nil, err
	}
	*lead = updated

	copied := *lead
	return &copied, nil
}

func (m *MemoryStore) SetOrganizerWebsiteIfEmpty(_ context.Context, userID, organizerID, website string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	org, err := m.ownedOrganizerLocked(userID, organizerID)
	if err != nil {
		return false, err
	}
	if org.HasWebsite() || strings.TrimSpace(website) == "" {
		return false, nil
	}

	org.Website = website
	org.UpdatedAt = m.now()
	return true, nil
}

func (m *MemoryStore) GetLeadView(_ context.Context, userID, leadID string) (*models.LeadView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lead, err := m.ownedLeadLocked(userID, leadID)
	if err != nil {
		return nil, err
	}

	org, ok := m.organizers[lead.OrganizerID]
	if !ok {
		return nil, fmt.Errorf("%w: organizer %s", ErrNotFound, lead.OrganizerID)
	}
	event, ok := m.events[lead.EventID]
	if !ok {
		return nil, fmt.Errorf("%w: event %s", ErrNotFound, lead.EventID)
	}

	return &models.LeadView{Lead: *lead, Organizer: *org, Event: *event}, nil
}

func (m *MemoryStore) ListLeadsByStatus(_ context.Context, userID string, status models.LeadStatus, limit int) ([]models.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var leads []models.Lead
	for _, lead := range m.leads {
		if lead.UserID == userID && lead.SearchStatus == status {
			leads = append(leads, *lead)
		}
	}
	sort.Slice(leads, func(i, j int) bool {
		return leads[i].CreatedAt.Before(leads[j].CreatedAt)
	})

	if limit > 0 && len(leads) > limit {
		leads = leads[:limit]
	}
	return leads, nil
}

// Contacts returns the contacts stored for an organizer, ordered by email
func (m *MemoryStore) Contacts(organizerID string) []models.Contact {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Contact
	for _, c := range m.contacts[organizerID] {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}

func (m *MemoryStore) ownedOrganizerLocked(userID, organizerID string) (*models.Organizer, error) {
	org, ok := m.organizers[organizerID]
	if !ok {
		return nil, fmt.Errorf("%w: organizer %s", ErrNotFound, organizerID)
	}
	if org.UserID != userID {
		return nil, fmt.Errorf("%w: organizer %s", ErrOwnershipMismatch, organizerID)
	}
	return org, nil
}

func (m *MemoryStore) ownedLeadLocked(userID, leadID string) (*models.Lead, error) {
	lead, ok := m.leads[leadID]
	if !ok {
		return nil, fmt.Errorf("%w: lead %s", ErrNotFound, leadID)
	}
	if lead.UserID != userID {
		return nil, fmt.Errorf("%w: lead %s", ErrOwnershipMismatch, leadID)
	}
	return lead, nil
}
