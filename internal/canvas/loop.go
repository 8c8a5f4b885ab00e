package canvas

import (
	"image"
	"sync"
)

// Loop holds the most recent frame and redraws only when invalidated.
type Loop struct {
	mu      sync.Mutex
	dirty   bool
	frame   *image.NRGBA
	renders int
}

// NewLoop returns a loop whose first Frame call always renders.
func NewLoop() *Loop {
	return &Loop{dirty: true}
}

// Invalidate marks the cached frame stale.
func (l *Loop) Invalidate() {
	l.mu.Lock()
	l.dirty = true
	l.mu.Unlock()
}

// Frame returns the current frame, rendering scene first if the loop is dirty.
func (l *Loop) Frame(scene Scene) *image.NRGBA {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.dirty || l.frame == nil {
		l.frame = Render(scene)
		l.dirty = false
		l.renders++
	}
	return l.frame
}

// Dirty reports whether the next Frame call will redraw.
func (l *Loop) Dirty() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dirty
}

// Renders returns how many full redraws have happened.
func (l *Loop) Renders() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.renders
}
