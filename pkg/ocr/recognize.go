package ocr

import (
	"context"
	"fmt"
	"image"
)

const ContentTypePDF = "application/pdf"

// Input is one decoded upload handed to a predictor
type Input struct {
	Name        string
	ContentType string
	Content     []byte

	// Image is the decoded raster for image uploads, nil for PDFs
	Image image.Image
}

// IsPDF reports whether the input is a PDF document
func (in Input) IsPDF() bool {
	return in.ContentType == ContentTypePDF
}

// Options configure a predictor for a single request
type Options struct {
	Model          string   // Predictor name; empty selects the default
	Languages      []string // Language hints, in order of preference
	StraightPages  bool     // Report straight boxes instead of polygons
	DetectLanguage bool     // Ask the predictor to detect the page language
}

// Predictor recognizes the pages of one input. Implementations return the
// pages in document order and build every geometry through geometry.Resolve.
type Predictor interface {
	Predict(ctx context.Context, input Input) ([]Page, error)
}

// Recognize runs the predictor over every input in order. Each produced page
// is attributed to the input it came from, so Filenames repeats the name of a
// multi-page input once per page.
func Recognize(ctx context.Context, p Predictor, inputs []Input) (*Result, error) {
	result := &Result{}

	for i, input := range inputs {
		pages, err := p.Predict(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to recognize file %d (%s): %w", i+1, input.Name, err)
		}

		for _, page := range pages {
			result.Pages = append(result.Pages, page)
			result.Filenames = append(result.Filenames, input.Name)
		}
	}

	return result, nil
}
