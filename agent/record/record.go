/*
Package record includes the protocol records of the agent and the contracts of
the record store. Records are stored as entries: typed JSON blobs with
searchable tags. The Repo is the typed access to the store which the protocol
services and the orchestrators use.
*/
package record

import (
	"errors"
	"fmt"
	"time"

	"github.com/lainio/err2"
)

var (
	// ErrNotFound is returned when the record doesn't exist. It's
	// err2.ErrNotFound as well.
	ErrNotFound = fmt.Errorf("record %w", err2.ErrNotFound)

	// ErrExists is returned by Add when the record ID is already taken.
	ErrExists = errors.New("record already exists")
)

// Entry is the storage form of the record.
type Entry struct {
	Type string            `json:"type"`
	ID   string            `json:"id"`
	Data []byte            `json:"data"`
	Tags map[string]string `json:"tags,omitempty"`
}

// Record is implemented by all of the records.
type Record interface {
	Key() string
	Type() string
	Tags() map[string]string
	Stamps() *Timestamps
}

// Timestamps of the record. The Repo maintains them.
type Timestamps struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Timestamps) Stamps() *Timestamps {
	return t
}

func (t *Timestamps) touch(now time.Time, created bool) {
	if created || t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
}
