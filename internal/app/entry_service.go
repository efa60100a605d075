package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"journal/internal/domain"

	"github.com/google/uuid"
)

// ErrEntryNotFound indicates that the entry does not exist for the given
// owner. An entry owned by another user produces the same error as one that
// was never created.
var ErrEntryNotFound = errors.New("entry not found")

// Title and body limits are in bytes, matching the VARCHAR limits in the
// schema. The timezone offset bounds cover the real-world UTC+14..UTC-12
// range in JS getTimezoneOffset convention.
const (
	maxTitleLen = 128
	maxBodyLen  = 2048

	minTimezoneOffset = -720
	maxTimezoneOffset = 840
)

// EntryService encapsulates the journal entry use cases. Every operation is
// scoped by the authenticated user's UUID, which callers must take from the
// resolved session, never from request input.
type EntryService struct {
	entries domain.EntryRepository
	now     func() time.Time
}

// NewEntryService creates an EntryService backed by the given repository.
func NewEntryService(entries domain.EntryRepository) *EntryService {
	return &EntryService{entries: entries, now: time.Now}
}

func validateContent(title, body string) error {
	if len(title) > maxTitleLen {
		return fmt.Errorf("%w: title exceeds %d bytes", ErrValidation, maxTitleLen)
	}
	if len(body) > maxBodyLen {
		return fmt.Errorf("%w: body exceeds %d bytes", ErrValidation, maxBodyLen)
	}
	return nil
}

// Create validates the input and stores a new entry. The creation timestamp
// is captured in UTC; the client's timezone offset is stored alongside it so
// the local time can be reconstructed on fetch.
func (s *EntryService) Create(ctx context.Context, userUUID string, timezoneOffset int, title, body string) (*domain.Entry, error) {
	if timezoneOffset < minTimezoneOffset || timezoneOffset > maxTimezoneOffset {
		return nil, fmt.Errorf("%w: timezone offset out of range", ErrValidation)
	}
	if err := validateContent(title, body); err != nil {
		return nil, err
	}

	entry := &domain.Entry{
		UUID:           uuid.NewString(),
		UserUUID:       userUUID,
		Created:        s.now().UTC(),
		TimezoneOffset: timezoneOffset,
		Title:          title,
		Body:           body,
	}
	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Fetch returns the entry matching both UUID and owner.
func (s *EntryService) Fetch(ctx context.Context, entryUUID, userUUID string) (*domain.Entry, error) {
	entry, err := s.entries.GetByUUID(ctx, entryUUID, userUUID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrEntryNotFound
	}
	return entry, nil
}

// Update replaces the title and body of an owned entry. The creation
// timestamp is left untouched.
func (s *EntryService) Update(ctx context.Context, entryUUID, userUUID, title, body string) error {
	if err := validateContent(title, body); err != nil {
		return err
	}
	matched, err := s.entries.Update(ctx, entryUUID, userUUID, title, body)
	if err != nil {
		return err
	}
	if !matched {
		return ErrEntryNotFound
	}
	return nil
}

// Delete removes an owned entry.
func (s *EntryService) Delete(ctx context.Context, entryUUID, userUUID string) error {
	matched, err := s.entries.Delete(ctx, entryUUID, userUUID)
	if err != nil {
		return err
	}
	if !matched {
		return ErrEntryNotFound
	}
	return nil
}

// ListUUIDs returns the UUIDs of the user's entries, most recent first. A
// user with no entries gets an empty slice, not an error.
func (s *EntryService) ListUUIDs(ctx context.Context, userUUID string) ([]string, error) {
	return s.entries.ListUUIDs(ctx, userUUID)
}
