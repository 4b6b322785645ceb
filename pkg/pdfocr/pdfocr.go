// Package pdfocr makes documents searchable by drawing an invisible hOCR text
// layer over page images or over the pages of an existing PDF.
//
// Each page gets its own optional content group ("OCR Text (Page N)"), so
// readers that support layers can toggle the recognized text. Words are
// scaled to their hOCR bounding boxes, which keeps selections aligned with
// the underlying image.
package pdfocr

import (
	"fmt"
	"log/slog"

	"github.com/gardar/ocrgate/pkg/hocr"
)

// AssembleWithOCR creates a PDF from page images and overlays the hOCR text.
// It accepts either raw hOCR data ([]byte) or a parsed document (*hocr.HOCR).
// Image i is used for hOCR page i.
func AssembleWithOCR(hocrInput any, imagesData [][]byte, config OCRConfig) ([]byte, error) {
	doc, err := resolveHOCR(hocrInput)
	if err != nil {
		return nil, err
	}

	if len(imagesData) == 0 {
		return nil, fmt.Errorf("no image data provided")
	}

	if config.StartPage < 1 {
		return nil, fmt.Errorf("start page must be at least 1, got %d", config.StartPage)
	}

	if len(imagesData) < len(doc.Pages) {
		return nil, fmt.Errorf("not enough images (%d) for HOCR pages (%d)", len(imagesData), len(doc.Pages))
	}

	images := make([]pageImage, 0, len(imagesData))

	for i, data := range imagesData {
		if len(data) == 0 {
			return nil, fmt.Errorf("image %d is empty", i+1)
		}

		img, err := preparePageImage(data)
		if err != nil {
			return nil, fmt.Errorf("image %d has invalid format: %w", i+1, err)
		}

		if config.Debug {
			slog.Debug("prepared page image", "page", i+1, "type", img.imageType, "width", img.width, "height", img.height)
		}

		images = append(images, img)
	}

	out, err := createPDFFromImage(doc, images, config)
	if err != nil {
		return nil, fmt.Errorf("error creating PDF from images: %w", err)
	}

	return out, nil
}

// ApplyOCR overlays the hOCR text on the pages of an existing PDF. PDFs that
// already carry a text layer with the configured name are rejected unless
// config.Force is set.
func ApplyOCR(inputPDFData []byte, hocrInput any, config OCRConfig) ([]byte, error) {
	doc, err := resolveHOCR(hocrInput)
	if err != nil {
		return nil, err
	}

	if len(inputPDFData) == 0 {
		return nil, fmt.Errorf("input PDF data is empty")
	}

	if config.StartPage < 1 {
		return nil, fmt.Errorf("start page must be at least 1, got %d", config.StartPage)
	}

	layers, err := CheckExistingOCRLayers(inputPDFData, config.LayerName)
	if err != nil {
		return nil, fmt.Errorf("layer detection failed: %w", err)
	}

	for _, warning := range layers.Warnings {
		slog.Warn(warning)
	}

	if layers.HasOCRLayer {
		if !config.Force {
			return nil, fmt.Errorf("%w: layer %q", ErrHasOCRLayer, layers.OCRLayerName)
		}

		slog.Warn("file already has OCR, reapplying will duplicate the text layer", "layer", layers.OCRLayerName)
	}

	out, err := modifyExistingPDF(inputPDFData, doc, config)
	if err != nil {
		return nil, fmt.Errorf("error modifying existing PDF: %w", err)
	}

	return out, nil
}

func resolveHOCR(input any) (*hocr.HOCR, error) {
	var doc *hocr.HOCR

	switch h := input.(type) {
	case []byte:
		parsed, err := hocr.ParseHOCR(h)
		if err != nil {
			return nil, fmt.Errorf("failed to parse HOCR data: %w", err)
		}
		doc = &parsed
	case *hocr.HOCR:
		if h == nil {
			return nil, fmt.Errorf("HOCR struct is nil")
		}
		doc = h
	default:
		return nil, fmt.Errorf("unsupported HOCR input type: %T", input)
	}

	if len(doc.Pages) == 0 {
		return nil, fmt.Errorf("HOCR data contains no pages")
	}

	return doc, nil
}
