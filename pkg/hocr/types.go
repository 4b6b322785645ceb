package hocr

import (
	"fmt"
	"math"
	"strings"
)

// Capabilities lists the hOCR classes this package reads and writes
const Capabilities = "ocr_page ocr_carea ocr_par ocr_line ocrx_word"

// HOCR represents the entire hOCR document structure
type HOCR struct {
	Language     string            // Document language (xml:lang)
	System       string            // ocr-system metadata
	Capabilities string            // ocr-capabilities metadata
	Metadata     map[string]string // Other head metadata found while parsing
	Pages        []Page            // Pages in the document
}

// Page is one page of recognized text
// Corresponds to hOCR element with class: 'ocr_page'
type Page struct {
	ID         string      // Unique identifier
	Title      string      // Original title attribute (parsed documents only)
	PageNumber int         // Physical page number (ppageno)
	ImageName  string      // Source image filename
	Lang       string      // Language code for this page
	BBox       BoundingBox // Page coordinates
	Areas      []Area      // Content areas
}

// Class assign 'ocr_page' to 'Page' struct
func (Page) Class() string { return "ocr_page" }

// Properties renders the hOCR title attribute of the page
func (p Page) Properties() string {
	image := "image"
	if p.ImageName != "" {
		image = fmt.Sprintf("image %q", p.ImageName)
	}
	return fmt.Sprintf("%s; %s; ppageno %d", image, p.BBox, p.PageNumber)
}

// Area represents a content area (column or region)
// Corresponds to hOCR element with class: 'ocr_carea'
type Area struct {
	ID         string      // Unique identifier
	Lang       string      // Language code
	BBox       BoundingBox // Area coordinates
	Paragraphs []Paragraph // Paragraphs in this area
}

// Class assign 'ocr_carea' to 'Area' struct
func (Area) Class() string { return "ocr_carea" }

// Properties renders the hOCR title attribute of the area
func (a Area) Properties() string { return a.BBox.String() }

// Paragraph represents a paragraph within an area
// Corresponds to hOCR element with class: 'ocr_par'
type Paragraph struct {
	ID    string      // Unique identifier
	Lang  string      // Language code
	BBox  BoundingBox // Paragraph coordinates
	Lines []Line      // Text lines in this paragraph
}

// Class assign 'ocr_par' to 'Paragraph' struct
func (Paragraph) Class() string { return "ocr_par" }

// Properties renders the hOCR title attribute of the paragraph
func (p Paragraph) Properties() string { return p.BBox.String() }

// Line represents a line of text
// Corresponds to hOCR element with class: 'ocr_line'
type Line struct {
	ID          string      // Unique identifier
	BBox        BoundingBox // Line coordinates
	Baseline    string      // Baseline slope and offset, e.g. "0 0"
	XSize       int         // Line height in pixels
	XDescenders int
	XAscenders  int
	Words       []Word // Words in this line
}

// Class assign 'ocr_line' to 'Line' struct
func (Line) Class() string { return "ocr_line" }

// Properties renders the hOCR title attribute of the line
func (l Line) Properties() string {
	parts := []string{l.BBox.String()}
	if l.Baseline != "" {
		parts = append(parts, "baseline "+l.Baseline)
	}
	if l.XSize > 0 {
		parts = append(parts,
			fmt.Sprintf("x_size %d", l.XSize),
			fmt.Sprintf("x_descenders %d", l.XDescenders),
			fmt.Sprintf("x_ascenders %d", l.XAscenders),
		)
	}
	return strings.Join(parts, "; ")
}

// Word is a recognized word with bounding box
// Corresponds to hOCR element with class: 'ocrx_word'
type Word struct {
	ID         string      // Unique identifier
	Text       string      // The actual text content
	BBox       BoundingBox // Word coordinates
	Confidence float64     // Recognition confidence (0-100)
	Lang       string      // Language code
}

// Class assign 'ocrx_word' to 'Word' struct
func (Word) Class() string { return "ocrx_word" }

// Properties renders the hOCR title attribute of the word
func (w Word) Properties() string {
	return fmt.Sprintf("%s; x_wconf %d", w.BBox, int(math.Round(w.Confidence)))
}

// BoundingBox represents a rectangle in the document
// Used to store hOCR 'bbox' property values
type BoundingBox struct {
	X1 float64 // Left coordinate
	Y1 float64 // Top coordinate
	X2 float64 // Right coordinate
	Y2 float64 // Bottom coordinate
}

// NewBoundingBox creates a bounding box from the x1, y1, x2, y2 coordinates
// of an hOCR 'bbox' property. x1, y1 is the top-left corner.
func NewBoundingBox(x1, y1, x2, y2 float64) BoundingBox {
	return BoundingBox{
		X1: x1,
		Y1: y1,
		X2: x2,
		Y2: y2,
	}
}

// Width of the box
func (b BoundingBox) Width() float64 { return b.X2 - b.X1 }

// Height of the box
func (b BoundingBox) Height() float64 { return b.Y2 - b.Y1 }

// String renders the box as an hOCR bbox property with integer pixels
func (b BoundingBox) String() string {
	return fmt.Sprintf("bbox %d %d %d %d",
		int(math.Round(b.X1)), int(math.Round(b.Y1)),
		int(math.Round(b.X2)), int(math.Round(b.Y2)))
}
