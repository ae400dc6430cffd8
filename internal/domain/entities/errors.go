package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyDeck is returned when a deck has no slides
	ErrEmptyDeck = errors.New("deck must have at least one slide")

	// ErrSessionFinished is returned when a build session is used after Finish
	ErrSessionFinished = errors.New("build session already finished")

	// ErrUnknownFormat is returned for an output format nobody can write
	ErrUnknownFormat = errors.New("unknown output format")

	// ErrUnknownDeck is returned when a built-in deck name does not exist
	ErrUnknownDeck = errors.New("unknown built-in deck")
)

// LayoutMismatchError reports a slide layout that lacks the placeholders a render
// operation needs
type LayoutMismatchError struct {
	Layout  string
	Index   int
	Missing string
}

func (e *LayoutMismatchError) Error() string {
	if e.Layout == "" {
		return fmt.Sprintf("layout mismatch: no layout at index %d", e.Index)
	}
	return fmt.Sprintf("layout mismatch: layout %d (%q) has no %s placeholder", e.Index, e.Layout, e.Missing)
}

// UnsupportedNestingError reports content nested deeper than a group heading with
// flat children. Slide and Item are 1-based; zero means unknown.
type UnsupportedNestingError struct {
	Slide  int
	Item   int
	Depth  int
	Reason string
}

func (e *UnsupportedNestingError) Error() string {
	msg := "unsupported nesting"
	if e.Slide > 0 {
		msg += fmt.Sprintf(" in slide %d", e.Slide)
	}
	if e.Item > 0 {
		msg += fmt.Sprintf(" item %d", e.Item)
	}
	if e.Depth > 0 {
		msg += fmt.Sprintf(": depth %d exceeds 2", e.Depth)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// StorageWriteError reports a failure persisting the finished document
type StorageWriteError struct {
	Path string
	Op   string
	Err  error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("storage write %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageWriteError) Unwrap() error {
	return e.Err
}

// TitleTooLongError reports a title over the configured rune limit. Slide is 1-based.
type TitleTooLongError struct {
	Slide int
	Runes int
	Max   int
}

func (e *TitleTooLongError) Error() string {
	return fmt.Sprintf("slide %d title has %d characters, limit is %d", e.Slide, e.Runes, e.Max)
}
