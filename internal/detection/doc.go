// Package detection proposes text regions on a recipe photo so the user does
// not have to draw every rectangle by hand.
//
// The heuristic works on the display-sized bitmap:
//
//  1. Edge Detection: luma gradient against a fixed threshold
//  2. Window Scoring: sliding windows of several text-like sizes, scored by edge
//     density and by how horizontal the edge runs are
//  3. Merging: overlapping windows are merged until no two results overlap
//  4. Ordering: results are returned in reading order, top to bottom, then left
//     to right, so committing them keeps the natural order of the page
//
// # Coordinate System
//
// Bounds are in the pixel coordinates of the image passed in, with an inclusive
// top-left and exclusive bottom-right. Callers working in another space (for
// example unscaled source pixels) convert afterwards.
//
// # Limitations
//
// This is a heuristic. It works best on clean, high-contrast print; photos with
// heavy texture or handwriting produce poor suggestions.
package detection
