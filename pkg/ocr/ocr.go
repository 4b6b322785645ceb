// Package ocr translates recognition results into the formats served to
// clients.
//
// A predictor turns each uploaded file into pages of blocks, lines and words,
// every element carrying a resolved geometry and its scores. This package
// turns those pages into one of two representations:
//
// - JSON records, one per page, with scores rounded to two decimals
// - a single hOCR XHTML document covering every page
//
// Main Functions:
//
// - Recognize: Runs a predictor over the uploads and pairs pages with filenames
// - BuildRecords: Builds the JSON record tree
// - DocumentHOCR: Renders the hOCR document
// - Respond: Chooses between the two from an Accept header
//
// All conversions are pure: they perform no I/O and never modify their input.
package ocr
