package ocr

import (
	"github.com/gardar/ocrgate/pkg/geometry"
)

// UnknownLanguage is reported for pages whose language was not detected
const UnknownLanguage = "unknown"

// Result is the outcome of recognizing a batch of uploaded files.
// Pages and Filenames are parallel: Pages[i] was produced from the upload
// named Filenames[i]. A multi-page upload contributes one entry per page.
type Result struct {
	Pages     []Page
	Filenames []string
}

// Dimensions of a page in pixels
type Dimensions struct {
	Height int
	Width  int
}

// Orientation is an estimated rotation in degrees with an optional confidence
type Orientation struct {
	Value      int      `json:"value"`
	Confidence *float64 `json:"confidence"`
}

// Language is a detected language code with an optional confidence
type Language struct {
	Value      string   `json:"value"`
	Confidence *float64 `json:"confidence"`
}

// Known reports whether a language was actually detected
func (l Language) Known() bool {
	return l.Value != "" && l.Value != UnknownLanguage
}

// Page is one recognized page
type Page struct {
	Dimensions  Dimensions
	Orientation Orientation
	Language    Language
	Blocks      []Block
}

// Block is a region of related lines
type Block struct {
	Geometry        geometry.Geometry
	ObjectnessScore float64
	Lines           []Line
}

// Line is a sequence of words in reading order
type Line struct {
	Geometry        geometry.Geometry
	ObjectnessScore float64
	Words           []Word
}

// Word is a single transcribed token
type Word struct {
	Value           string
	Geometry        geometry.Geometry
	Confidence      float64
	ObjectnessScore float64
	CropOrientation Orientation
}

// Float returns a pointer to v, for optional confidences
func Float(v float64) *float64 {
	return &v
}
