// Package extract turns raw recognized text into typed card fields.
//
// It holds the three text-only stages of the card pipeline:
//
//   - ByKeywords: line-anchored label search ("所属クラブ  FC Example" → "FC Example")
//   - EditionExtractor: edition/date regex with canonical reformatting
//   - StatTable: alias matching of ability-score lines into a StatMap
//
// Nothing in this package touches images or the recognition backend; every
// function is deterministic for a given input, which keeps the heuristics
// testable against captured OCR output.
//
// # Not Found
//
// Failure to find a field is never an error here. ByKeywords returns "",
// EditionExtractor.Extract reports ok=false, and StatTable simply leaves the
// key out of the map.
package extract
