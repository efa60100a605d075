package domain

import (
	"context"
	"time"
)

// Entry represents a single journal entry. Created is the UTC instant of
// creation; TimezoneOffset is the client's offset in minutes at creation
// time, in JS getTimezoneOffset convention (positive = west of UTC).
type Entry struct {
	UUID           string
	UserUUID       string
	Created        time.Time
	TimezoneOffset int
	Title          string
	Body           string
}

// LocalCreated returns the creation instant rendered in the fixed zone the
// entry was written in, reconstructed from the stored offset.
func (e *Entry) LocalCreated() time.Time {
	zone := time.FixedZone("", -e.TimezoneOffset*60)
	return e.Created.In(zone)
}

// EntryRepository is the port for journal entry persistence. Every read and
// write is filtered by the (uuid, userUUID) pair, so an entry owned by
// someone else is indistinguishable from one that does not exist. Update and
// Delete report whether a row matched.
type EntryRepository interface {
	Create(ctx context.Context, e *Entry) error
	GetByUUID(ctx context.Context, uuid, userUUID string) (*Entry, error)
	Update(ctx context.Context, uuid, userUUID, title, body string) (bool, error)
	Delete(ctx context.Context, uuid, userUUID string) (bool, error)
	ListUUIDs(ctx context.Context, userUUID string) ([]string, error)
}
