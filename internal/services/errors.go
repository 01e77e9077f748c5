package services

import "errors"

var (
	// ErrUnsupportedURL is returned for hosts outside the known ticketing platforms
	ErrUnsupportedURL = errors.New("unsupported url")

	// ErrFetchFailed marks a tier that could not obtain the page; the chain moves on
	ErrFetchFailed = errors.New("page fetch failed")

	// ErrRenderFailed marks a headless browser navigation or crash failure
	ErrRenderFailed = errors.New("headless render failed")

	// ErrExtractionParse is returned when extractor output does not have the expected shape
	ErrExtractionParse = errors.New("extraction output could not be parsed")

	// ErrNoStructuredData is returned when a page carries no event-typed JSON-LD
	ErrNoStructuredData = errors.New("no structured event data on page")

	// ErrDuplicateEvent is returned when the event source URL was already ingested
	ErrDuplicateEvent = errors.New("event already ingested")

	// ErrOwnershipMismatch is returned when an entity belongs to another user
	ErrOwnershipMismatch = errors.New("entity belongs to another user")

	// ErrNotFound is returned when a referenced entity does not exist
	ErrNotFound = errors.New("not found")

	// ErrDomainNotFound is returned when no candidate domain answered a probe
	ErrDomainNotFound = errors.New("no responsive domain found")

	// ErrInvalidRequest is returned for malformed pipeline input
	ErrInvalidRequest = errors.New("invalid request")
)
