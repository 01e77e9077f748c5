package models

import (
	"testing"
	"time"
)

func TestEventRecordNormalize(t *testing.T) {
	record := EventRecord{
		Title:     "  Festival X ",
		Date:      "",
		Location:  "   ",
		Organizer: "ACME",
		SourceURL: " https://www.sympla.com.br/evento/x/123#info ",
	}
	record.Normalize()

	if record.Title != "Festival X" {
		t.Errorf("Title not trimmed: %q", record.Title)
	}
	if record.Date != NotInformed || record.Location != NotInformed {
		t.Errorf("Blank fields should become the placeholder: %+v", record)
	}
	if err := record.Validate(); err != nil {
		t.Errorf("Record should be valid: %v", err)
	}

	event := NewEvent("user-1", "org-1", record, time.Now())
	if event.SourceURL != "https://www.sympla.com.br/evento/x/123" {
		t.Errorf("Fragment should be dropped from source URL, got %s", event.SourceURL)
	}
}

func TestEventRecordValidateRequiresTitle(t *testing.T) {
	record := EventRecord{Title: NotInformed, SourceURL: "https://www.sympla.com.br/e/1"}
	if err := record.Validate(); err == nil {
		t.Error("A record without a title should not validate")
	}
}

func TestKeys(t *testing.T) {
	if got := CreateOrganizerNameGuardPK("u1", "  ACME   Produções "); got != "ORGNAME#u1#acme produções" {
		t.Errorf("Unexpected organizer guard key %q", got)
	}
	if got := CreateEventURLGuardPK("https://x.com/e#a"); got != "EVENTURL#https://x.com/e" {
		t.Errorf("Unexpected event guard key %q", got)
	}
	if got := GenerateLeadStatusKey("u1", LeadStatusPending); got != "USER#u1#STATUS#pending" {
		t.Errorf("Unexpected status key %q", got)
	}
}

func TestDomainHelpers(t *testing.T) {
	if got := WebsiteFromDomain("acme.com.br"); got != "https://acme.com.br" {
		t.Errorf("WebsiteFromDomain = %q", got)
	}
	if got := DomainFromWebsite("https://www.Acme.com.br/contato"); got != "acme.com.br" {
		t.Errorf("DomainFromWebsite = %q", got)
	}
}
