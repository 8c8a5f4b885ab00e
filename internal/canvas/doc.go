// Package canvas composes the selection preview.
//
// Render is a pure function of a Scene: base bitmap, binarized, then every
// committed region tinted and outlined in its category colour, then the region
// being drawn. Nothing is patched incrementally; any change to the scene means
// a full redraw. Loop caches the last frame and only redraws after Invalidate.
package canvas
