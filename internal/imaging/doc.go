// Package imaging implements the raster side of the recipe capture wizard.
//
// It owns image intake (MIME sniffing and decoding), the display Surface that
// scales a loaded photo to the available container width, the brightness
// threshold (binarization) filter used to preview OCR input, and the PNG
// snapshots taken of every committed selection region.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner, X growing
// rightward and Y growing downward. Rectangles follow image.Rectangle
// semantics: Min is inclusive, Max is exclusive.
//
// Two spaces matter to callers:
//   - Image space: pixels of the original, unscaled photo.
//   - Screen space: pixels of the display copy, i.e. image space multiplied by
//     Surface.Scale().
//
// This package never converts between them on the caller's behalf; see the
// selection package for the conversion helpers.
//
// # Immutability
//
// The original image handed to NewSurface is never written to. The display
// copy is rebuilt from the original on every Resize, and Binarize always works
// on a fresh clone, so repeated filtering with the same threshold yields the
// same pixels.
//
// # Thread Safety
//
// Surface is not safe for concurrent mutation; the wizard session serializes
// access. Binarize, SuggestThreshold and NewSnapshot are pure and may be
// called concurrently.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Data that does not sniff as an image (ErrNotImage)
//   - Crop rectangles that are empty or outside the source bounds
//   - Encoding errors while producing PNG snapshots
package imaging
