// Package hocr implements parsing and generation of hOCR data, the
// XHTML-based standard format for representing OCR results.
//
// The package implements the hierarchy written by this project:
// Document → Pages → Areas → Paragraphs → Lines → Words.
//
// Key Types:
//
// - HOCR: Top-level structure representing an entire hOCR document
// - Page: Represents a single page with class 'ocr_page'
// - Area: Represents a content area with class 'ocr_carea'
// - Paragraph: Represents a paragraph with class 'ocr_par'
// - Line: Represents a line of text with class 'ocr_line'
// - Word: Represents a single word with class 'ocrx_word'
// - BoundingBox: Represents a rectangle with pixel coordinates
//
// Main Functions:
//
// - GenerateHOCRDocument: Renders a well-formed XHTML hOCR document
// - ParseHOCR: Parses hOCR HTML into the object model
// - ExtractHOCRText: Flattens a document to plain text
package hocr
