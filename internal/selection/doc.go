// Package selection holds the user-drawn regions of a recipe photo and the
// pointer state machine that creates them.
//
// Two coordinate spaces exist. Screen space is what the client sees: pixels of
// the display-scaled preview. Image space is the unscaled source bitmap. Every
// stored coordinate is in image space; pointer positions cross over exactly once,
// through ToImageSpace, using the display scale read at the time of the event.
// ScreenPoint and ImagePoint are distinct types so the two can never be mixed
// without that conversion.
//
// The Model is an ordered collection. Commit order is significant: it decides the
// order of the recognized text lines in the finished recipe.
package selection
