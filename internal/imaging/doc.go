// Package imaging prepares card screenshots for text recognition.
//
// Regions are expressed as fractions of the source image so a single layout
// works at any capture resolution. A region is converted to a pixel rectangle,
// cropped, optionally scaled, and optionally binarized on BT.709 luminance
// before it is PNG-encoded for the recognizer.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner. Rectangles
// are half-open: Min is inclusive and Max is exclusive. Fractional regions
// that extend past the right or bottom edge are rejected with an
// *InvalidRegionError rather than clamped.
//
// # Binarization
//
// Card text is light on a dark panel. Binarize turns pixels brighter than the
// threshold black and everything else white, producing dark text on a light
// background.
//
// # Tooling
//
// RegionOverlay, the Probe functions and FindTextBlocks exist to tune layouts
// and thresholds against real captures. ImageCache is safe for concurrent use.
package imaging
