package models

import (
	"errors"
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	now := time.Date(2025, 10, 10, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-23 * time.Hour)
	old := now.Add(-25 * time.Hour)
	exact := now.Add(-24 * time.Hour)

	testCases := []struct {
		name         string
		from         LeadStatus
		to           LeadStatus
		lastSearchAt *time.Time
		allowed      bool
	}{
		{"pending to searching", LeadStatusPending, LeadStatusSearching, nil, true},
		{"pending to found", LeadStatusPending, LeadStatusFound, nil, false},
		{"searching to found", LeadStatusSearching, LeadStatusFound, nil, true},
		{"searching to not_found", LeadStatusSearching, LeadStatusNotFound, nil, true},
		{"searching to error", LeadStatusSearching, LeadStatusError, nil, true},
		{"searching to pending", LeadStatusSearching, LeadStatusPending, nil, false},
		{"error retried after 23h", LeadStatusError, LeadStatusSearching, &recent, false},
		{"error retried after 25h", LeadStatusError, LeadStatusSearching, &old, true},
		{"error retried after exactly 24h", LeadStatusError, LeadStatusSearching, &exact, true},
		{"error to found", LeadStatusError, LeadStatusFound, &old, false},
		{"found is terminal", LeadStatusFound, LeadStatusSearching, &old, false},
		{"not_found is terminal", LeadStatusNotFound, LeadStatusSearching, &old, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := CanTransition(tc.from, tc.to, tc.lastSearchAt, now)
			if tc.allowed && err != nil {
				t.Errorf("Expected transition to be allowed, got: %v", err)
			}
			if !tc.allowed {
				if err == nil {
					t.Errorf("Expected transition %s -> %s to be rejected", tc.from, tc.to)
				} else if !errors.Is(err, ErrInvalidTransition) {
					t.Errorf("Expected ErrInvalidTransition, got: %v", err)
				}
			}
		})
	}
}

func TestLeadApply(t *testing.T) {
	now := time.Now()
	lead := NewLead("user-1", "org-1", "evt-1", now)

	if lead.SearchStatus != LeadStatusPending {
		t.Fatalf("New lead should be pending, got %s", lead.SearchStatus)
	}

	if err := lead.Apply(LeadStatusSearching, "", now); err != nil {
		t.Fatalf("pending -> searching should be allowed: %v", err)
	}
	if lead.LastSearchAt == nil || !lead.LastSearchAt.Equal(now) {
		t.Error("Applying a status should stamp LastSearchAt")
	}

	later := now.Add(time.Minute)
	if err := lead.Apply(LeadStatusFound, "acme.com.br", later); err != nil {
		t.Fatalf("searching -> found should be allowed: %v", err)
	}
	if lead.SearchDomain != "acme.com.br" {
		t.Errorf("Expected search domain acme.com.br, got %s", lead.SearchDomain)
	}
	if lead.StatusKey != GenerateLeadStatusKey("user-1", LeadStatusFound) {
		t.Errorf("Status GSI key not refreshed: %s", lead.StatusKey)
	}

	// A rejected transition must leave the lead untouched
	if err := lead.Apply(LeadStatusSearching, "other.com", later.Add(48*time.Hour)); err == nil {
		t.Error("found -> searching should be rejected")
	}
	if lead.SearchStatus != LeadStatusFound || lead.SearchDomain != "acme.com.br" {
		t.Error("Rejected transition mutated the lead")
	}
}

func TestValidateLeadStatus(t *testing.T) {
	for _, status := range []string{"pending", "searching", "found", "not_found", "error"} {
		if !ValidateLeadStatus(status) {
			t.Errorf("Status %q should be valid", status)
		}
	}
	for _, status := range []string{"", "done", "FOUND", "not-found"} {
		if ValidateLeadStatus(status) {
			t.Errorf("Status %q should be invalid", status)
		}
	}
}
