package ports

import (
	"context"
	"time"
)

// SourceWatcher reports changes to a deck source file
type SourceWatcher interface {
	// Watch polls path until ctx is done or Stop is called. The returned channel
	// is closed when watching ends.
	Watch(ctx context.Context, path string) (<-chan SourceChangeEvent, error)

	// Stop ends watching and closes the event channel
	Stop() error
}

// SourceChangeEvent describes one observed change
type SourceChangeEvent struct {
	Path      string
	Type      ChangeType
	Timestamp time.Time
}

// ChangeType represents the type of file change
type ChangeType int

const (
	// Modified indicates the content changed
	Modified ChangeType = iota
	// Created indicates the file appeared again after being removed
	Created
	// Deleted indicates the file was removed
	Deleted
)

// String returns the string representation of ChangeType
func (c ChangeType) String() string {
	switch c {
	case Modified:
		return "modified"
	case Created:
		return "created"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}
