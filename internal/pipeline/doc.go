// Package pipeline turns card screenshots into structured fields.
//
// AnalyzeCard reads the name, team, nationality and edition from one full
// card screenshot. ExtractStats reads ability scores from one or more
// screenshots of the stat list and merges them, earlier images first.
//
// Both entry points run their regions and images strictly in order through a
// single ocr.Batch. A region that cannot be cropped or that times out is
// logged and left empty; only an unavailable recognizer or a cancelled
// context aborts the call.
package pipeline
