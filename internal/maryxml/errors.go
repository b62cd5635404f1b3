package maryxml

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedMarkup matches every MalformedMarkupError via errors.Is.
	ErrMalformedMarkup = errors.New("malformed markup")

	// ErrInconsistentPronunciation matches every ConsistencyError via errors.Is.
	ErrInconsistentPronunciation = errors.New("inconsistent pronunciation")

	errNoRootElement = errors.New("no root element")
)

// MalformedMarkupError reports input that could not be parsed into a
// markup tree.
type MalformedMarkupError struct {
	Source string // file path, or empty for in-memory input
	Err    error
}

func (e *MalformedMarkupError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("malformed markup in %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("malformed markup: %v", e.Err)
}

func (e *MalformedMarkupError) Unwrap() error { return e.Err }

func (e *MalformedMarkupError) Is(target error) bool {
	return target == ErrMalformedMarkup
}

// ConsistencyError reports a word that was annotated with two different
// pronunciations.
type ConsistencyError struct {
	Word        string
	Existing    string
	Conflicting string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("word %q has conflicting pronunciations %q and %q",
		e.Word, e.Existing, e.Conflicting)
}

func (e *ConsistencyError) Is(target error) bool {
	return target == ErrInconsistentPronunciation
}
