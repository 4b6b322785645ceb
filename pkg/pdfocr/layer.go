package pdfocr

import (
	"fmt"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/gardar/ocrgate/pkg/hocr"
)

// drawOCRLayer draws the words of a page onto its own layer
func drawOCRLayer(
	pdf *fpdf.Fpdf,
	page hocr.Page,
	config OCRConfig,
	pageNum int,
	transform func(x, y float64) (float64, float64),
) error {
	layerName := config.LayerName
	if pageNum > 0 {
		layerName = fmt.Sprintf("%s (Page %d)", config.LayerName, pageNum)
	}

	layer := pdf.AddLayer(layerName, true)
	pdf.BeginLayer(layer)
	pdf.SetFont(config.Font.Name, config.Font.Style, config.Font.Size)

	if config.Debug {
		pdf.SetTextColor(255, 0, 0)
	} else {
		pdf.SetAlpha(0.0, "Normal")
	}

	encodingErrors := 0
	wordCount := 0

	for _, area := range page.Areas {
		for _, paragraph := range area.Paragraphs {
			for _, line := range paragraph.Lines {
				for _, word := range line.Words {
					if !drawWord(pdf, word, transform, config) {
						encodingErrors++
					}
					wordCount++
				}
			}
		}
	}

	if config.Debug {
		pdf.SetTextColor(0, 0, 0)
	} else {
		pdf.SetAlpha(1.0, "Normal")
	}

	pdf.EndLayer()

	if wordCount > 0 && encodingErrors > wordCount/10 {
		return fmt.Errorf("character encoding issues in %d of %d words", encodingErrors, wordCount)
	}

	return nil
}

// drawWord renders a single word scaled to its box. It reports false when
// the text could not be encoded as Latin-1.
func drawWord(pdf *fpdf.Fpdf, word hocr.Word, transform func(x, y float64) (float64, float64), config OCRConfig) bool {
	if word.Text == "" {
		return true
	}

	font := config.Font

	x, y := transform(word.BBox.X1, word.BBox.Y1)
	x2, y2 := transform(word.BBox.X2, word.BBox.Y2)
	wordWidth := x2 - x

	ok := true

	// the core fonts only cover ISO-8859-1
	latin1, err := charmap.ISO8859_1.NewEncoder().String(word.Text)
	if err != nil {
		ok = false
		latin1 = word.Text
	}

	if strWidth := pdf.GetStringWidth(latin1); strWidth > 0 && wordWidth > 0 {
		pdf.SetFontSize(font.Size * wordWidth / strWidth)
	}

	fontSize, _ := pdf.GetFontSize()
	baseline := y + fontSize*font.AscentRatio

	pdf.Text(x, baseline, latin1)
	pdf.SetFontSize(font.Size)

	if config.Debug {
		pdf.Rect(x, y, wordWidth, y2-y, "D")
	}

	return ok
}
