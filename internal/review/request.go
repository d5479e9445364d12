package review

import (
	"time"

	"github.com/google/uuid"
)

// File is one artifact file submitted for review.
type File struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Request describes one review of an artifact snapshot. It is immutable once
// built: the same request can be handed to every reviewer concurrently. All
// reviewers share the single Deadline; a zero Deadline means no time limit.
type Request struct {
	CorrelationID string
	Root          string
	Files         []File
	Deadline      time.Time
}

// NewRequest builds a Request with a fresh correlation ID.
func NewRequest(root string, files []File, deadline time.Time) Request {
	return Request{
		CorrelationID: uuid.NewString(),
		Root:          root,
		Files:         files,
		Deadline:      deadline,
	}
}
