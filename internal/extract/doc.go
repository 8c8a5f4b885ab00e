// Package extract runs OCR over committed regions and turns the recognized
// paragraphs into ordered ingredient and instruction lists.
//
// One engine is acquired per Extract call and always closed before it returns.
// All regions are recognized concurrently, but results are aggregated in commit
// order, never completion order. Any failure fails the whole call; there is no
// partial result.
package extract
