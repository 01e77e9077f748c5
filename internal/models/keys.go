package models

import (
	"fmt"
	"strings"
)

// Sort key constants
const (
	OrganizerProfileSK = "PROFILE"
	DetailsSK          = "DETAILS"
	UniqueSK           = "UNIQUE"
)

// CreateOrganizerPK creates the partition key for an organizer and its contacts
func CreateOrganizerPK(organizerID string) string {
	return fmt.Sprintf("ORGANIZER#%s", organizerID)
}

// CreateOrganizerNameGuardPK creates the key that enforces one organizer per (name, user)
func CreateOrganizerNameGuardPK(userID, name string) string {
	return fmt.Sprintf("ORGNAME#%s#%s", userID, NormalizeOrganizerKey(name))
}

// CreateEventPK creates the partition key for an event
func CreateEventPK(eventID string) string {
	return fmt.Sprintf("EVENT#%s", eventID)
}

// CreateEventURLGuardPK creates the key that makes an event source URL globally unique
func CreateEventURLGuardPK(sourceURL string) string {
	return fmt.Sprintf("EVENTURL#%s", NormalizeSourceURL(sourceURL))
}

// CreateLeadPK creates the partition key for a lead
func CreateLeadPK(leadID string) string {
	return fmt.Sprintf("LEAD#%s", leadID)
}

// CreateContactSK creates the sort key for a contact under its organizer
func CreateContactSK(email string) string {
	return fmt.Sprintf("CONTACT#%s", NormalizeEmail(email))
}

// CreateContactIDSK is used for contacts that have no email to key on
func CreateContactIDSK(contactID string) string {
	return fmt.Sprintf("CONTACT#ID#%s", contactID)
}

// GenerateLeadStatusKey creates the GSI key used to list a user's leads by status
func GenerateLeadStatusKey(userID string, status LeadStatus) string {
	return fmt.Sprintf("USER#%s#STATUS#%s", userID, status)
}

// NormalizeOrganizerKey folds an organizer name into its identity form
func NormalizeOrganizerKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
