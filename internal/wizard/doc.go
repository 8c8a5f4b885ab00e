// Package wizard is one recipe-scanning session: upload, select regions, edit
// the recognized text, add details, preview the document.
//
// A Session owns every piece of mutable state (the loaded surface, the region
// model, the drawing controller, the render loop and the recipe) behind a single
// mutex. Recognition is the one long-running operation; it runs without the lock
// and is guarded by a busy flag instead, so the preview can still be rendered
// while OCR is in flight but nothing can change the regions under it.
//
// Nothing is persisted. Loading a new image or clearing the regions starts the
// region model over; moving back through the steps keeps it.
package wizard
