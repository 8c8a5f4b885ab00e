// Package ocr recognizes text in region snapshots using Tesseract.
//
// The rest of the module sees OCR only through the Engine interface: hand it a
// bitmap, get back the recognized paragraphs in reading order. A paragraph may
// contain embedded line breaks; splitting them is the caller's decision.
//
// # Prerequisites
//
// Tesseract must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr libtesseract-dev
//   - macOS: brew install tesseract
//
// Language data files are required for each language:
//   - Ubuntu/Debian: apt-get install tesseract-ocr-eng (for English)
//   - Other languages: tesseract-ocr-<lang> packages
//
// The default language is English ("eng"). A tessdata prefix can point the
// engine at a non-standard traineddata directory.
//
// # Engine Lifetime
//
// Creating a Tesseract client is expensive, so a TesseractEngine keeps a small
// pool of them. Each Recognize call borrows one client exclusively; no client is
// ever used by two goroutines at once. Close releases every pooled client, and an
// engine cannot be used after Close.
//
// # Error Handling
//
// If paragraph bounding boxes cannot be extracted (e.g., Tesseract version
// mismatch), Recognize logs the reason and falls back to the full page text as
// a single paragraph.
package ocr
