package editor

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoActiveCamera       = errors.New("editor: no active camera")
	ErrNoPrimaryWindow      = errors.New("editor: no primary window")
	ErrStaleEntityReference = errors.New("editor: entity is not part of the level scene")
	ErrInvalidTransition    = errors.New("editor: invalid state transition")
	ErrNotLoaded            = errors.New("editor: no level loaded")
	ErrIndexOutOfRange      = errors.New("editor: item index out of range")
	ErrEmptyPath            = errors.New("editor: empty level path")
)

// SaveFailedError is returned when the document could not be written. The editor
// stays in Loaded with the document intact.
type SaveFailedError struct {
	Path string
	Err  error
}

func (e *SaveFailedError) Error() string {
	return fmt.Sprintf("save %s failed: %v", e.Path, e.Err)
}

func (e *SaveFailedError) Unwrap() error { return e.Err }

// LoadFailedError is returned when a requested level could not be loaded or the
// load timed out. The editor returns to Empty.
type LoadFailedError struct {
	Path        string
	Err         error
	Suggestions []string
}

func (e *LoadFailedError) Error() string {
	msg := fmt.Sprintf("load %s failed: %v", e.Path, e.Err)
	if len(e.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(e.Suggestions, ", ") + "?)"
	}
	return msg
}

func (e *LoadFailedError) Unwrap() error { return e.Err }
