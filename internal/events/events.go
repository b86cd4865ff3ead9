package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/joeaphiboon/faculty-comparison/internal/dataset"
)

const (
	SubjectPrefix = "faculty.dataset."

	DefaultReloadSubject = SubjectPrefix + "reload"
	DefaultLoadedSubject = SubjectPrefix + "loaded"

	StreamName    = "FACULTY_DATASET"
	StreamMaxAge  = 7 * 24 * time.Hour
	StreamHistory = 64

	publishTimeout = 5 * time.Second
)

// ReloadRequest asks every replica to reload its dataset. The body is
// optional; an empty message works too.
type ReloadRequest struct {
	Reason      string `json:"reason,omitempty"`
	RequestedBy string `json:"requested_by,omitempty"`
}

type LoadedEvent struct {
	Version  uuid.UUID `json:"version"`
	Source   string    `json:"source"`
	Entities int       `json:"entities"`
	Columns  int       `json:"columns"`
	Skipped  []string  `json:"skipped,omitempty"`
	LoadedAt time.Time `json:"loaded_at"`
}

func NewLoadedEvent(ds *dataset.Dataset) LoadedEvent {
	return LoadedEvent{
		Version:  ds.Version,
		Source:   ds.Source,
		Entities: ds.Len(),
		Columns:  len(ds.Columns()),
		Skipped:  ds.Skipped(),
		LoadedAt: ds.LoadedAt,
	}
}
