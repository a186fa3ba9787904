// Package ocr runs text recognition on cropped card regions.
//
// An Engine opens a Session per Tesseract language string ("eng", "jpn+eng").
// Sessions wrap a native client and are not safe for concurrent use; a Batch
// opens them lazily for one unit of work and closes them all at the end.
//
// # Prerequisites
//
// Tesseract and its language data must be installed:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng tesseract-ocr-jpn
//   - macOS: brew install tesseract tesseract-lang
//
// A missing library or traineddata file is reported as ErrRecognitionUnavailable.
//
// # Timeouts
//
// Every Recognize call is bounded (DefaultTimeout unless configured). Tesseract
// cannot be interrupted, so a call that overruns keeps running; the session
// waits for it before accepting the next image or closing.
package ocr
