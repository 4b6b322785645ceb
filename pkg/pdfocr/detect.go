package pdfocr

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// ErrHasOCRLayer is returned by ApplyOCR when the PDF already has a text
// layer with the configured name
var ErrHasOCRLayer = errors.New("file already has OCR")

var ocgPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/Type\s*/OCG\s*/Name\s*\(((?:\\.|[^\\)])*)\)`),
	regexp.MustCompile(`/OCG\s*<<[^>]*?/Name\s*\(((?:\\.|[^\\)])*)\)`),
	regexp.MustCompile(`/Name\s*\(((?:\\.|[^\\)])*)\)[\s\S]{1,50}/Type\s*/OCG`),
}

// detectPDFLayers finds the names of optional content groups in raw PDF data
func detectPDFLayers(pdfData []byte) ([]string, error) {
	if len(pdfData) == 0 {
		return nil, fmt.Errorf("empty PDF data")
	}

	content := string(pdfData)

	var layers []string
	seen := make(map[string]bool)

	for _, pattern := range ocgPatterns {
		for _, match := range pattern.FindAllStringSubmatch(content, -1) {
			name := decodePDFString(unescapePDFString(match[1]))

			if !seen[name] {
				seen[name] = true
				layers = append(layers, name)
			}
		}
	}

	return layers, nil
}

func unescapePDFString(s string) string {
	r := strings.NewReplacer(`\(`, "(", `\)`, ")", `\\`, `\`, `\r`, "\r", `\n`, "\n")
	return r.Replace(s)
}

// decodePDFString decodes UTF-16BE text strings marked by a byte order mark
func decodePDFString(s string) string {
	if !strings.HasPrefix(s, "\xfe\xff") {
		return s
	}

	decoded, err := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder().String(s)
	if err != nil {
		return s
	}

	return decoded
}

// LayerCheckResult contains the results of checking for OCR layers
type LayerCheckResult struct {
	Layers       []string // All detected layers
	HasOCRLayer  bool     // True if the specified OCR layer exists
	OCRLayerName string   // Name of the detected OCR layer (if any)
	Warnings     []string // Layers that might contain OCR from other tools
}

// CheckExistingOCRLayers checks a PDF for layers named like ocrLayerName,
// with or without a page suffix
func CheckExistingOCRLayers(pdfData []byte, ocrLayerName string) (LayerCheckResult, error) {
	result := LayerCheckResult{}

	layers, err := detectPDFLayers(pdfData)
	if err != nil {
		return result, fmt.Errorf("cannot analyze layers: %w", err)
	}

	result.Layers = layers

	pageLayer := regexp.MustCompile(fmt.Sprintf(`^%s\s*\(Page\s*\d+`, regexp.QuoteMeta(ocrLayerName)))

	for _, layer := range layers {
		if layer == ocrLayerName || pageLayer.MatchString(layer) {
			result.HasOCRLayer = true
			result.OCRLayerName = layer
			break
		}

		if strings.Contains(strings.ToLower(layer), "ocr") {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("existing layer detected that might contain OCR: %s", layer))
		}
	}

	return result, nil
}
