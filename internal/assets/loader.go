package assets

import (
	"errors"
	"fmt"
	"log"
	"time"

	"hovercourse/internal/level"
)

var ErrLoadTimeout = errors.New("assets: load timed out")

const DefaultLoadTimeout = 10 * time.Second

// Loader reads level documents off the frame loop. Each Load starts one
// background read whose result is picked up by polling the returned Handle.
type Loader struct {
	AssetDir string
	Timeout  time.Duration // 0 disables the timeout
	Now      func() time.Time
}

func NewLoader(assetDir string, timeout time.Duration) *Loader {
	return &Loader{
		AssetDir: assetDir,
		Timeout:  timeout,
		Now:      time.Now,
	}
}

type result struct {
	doc *level.Document
	err error
}

// Handle is a pending level load.
type Handle struct {
	Path     string
	ch       chan result
	deadline time.Time
	now      func() time.Time

	done bool
	res  result
}

func (l *Loader) Load(path string) *Handle {
	now := l.Now
	if now == nil {
		now = time.Now
	}
	h := &Handle{
		Path: path,
		ch:   make(chan result, 1),
		now:  now,
	}
	if l.Timeout > 0 {
		h.deadline = now().Add(l.Timeout)
	}

	assetDir := l.AssetDir
	go func() {
		doc, err := level.Load(assetDir, path)
		h.ch <- result{doc: doc, err: err}
	}()
	log.Printf("Assets: loading %s", level.FilePath(assetDir, path))
	return h
}

// Suggest lists existing levels with names close to path.
func (l *Loader) Suggest(path string) []string {
	return Suggest(l.AssetDir, path, MaxSuggestions)
}

// Done returns an already completed handle.
func Done(path string, doc *level.Document, err error) *Handle {
	return &Handle{Path: path, done: true, res: result{doc: doc, err: err}}
}

// Pending returns a handle that never completes on its own.
func Pending(path string, deadline time.Time, now func() time.Time) *Handle {
	return &Handle{Path: path, ch: make(chan result), deadline: deadline, now: now}
}

// Poll never blocks. ready is false while the load is in flight; once ready, the
// result does not change.
func (h *Handle) Poll() (doc *level.Document, ready bool, err error) {
	if !h.done {
		select {
		case r := <-h.ch:
			h.done, h.res = true, r
		default:
			if !h.deadline.IsZero() && h.now().After(h.deadline) {
				h.done = true
				h.res = result{err: fmt.Errorf("%w: %s", ErrLoadTimeout, h.Path)}
			}
		}
	}
	if !h.done {
		return nil, false, nil
	}
	return h.res.doc, true, h.res.err
}
