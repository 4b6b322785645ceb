package ocr

import (
	"fmt"
	"math"

	"github.com/gardar/ocrgate/pkg/geometry"
	"github.com/gardar/ocrgate/pkg/hocr"
)

// DefaultLanguage is the document language used when no page reports one
const DefaultLanguage = "en"

// SystemInfo identifies the OCR system in the hOCR header
type SystemInfo struct {
	Name    string
	Version string
}

func (s SystemInfo) String() string {
	if s.Version == "" {
		return s.Name
	}
	return s.Name + " " + s.Version
}

// DocumentHOCR renders all pages as a single hOCR document
func DocumentHOCR(pages []Page, info SystemInfo) ([]byte, error) {
	doc, err := CreateHOCRDocument(pages, info)
	if err != nil {
		return nil, err
	}

	out, err := hocr.GenerateHOCRDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HOCR document: %w", err)
	}

	return []byte(out), nil
}

// CreateHOCRDocument converts recognized pages to the HOCR struct. The
// document language is taken from the first page, falling back to
// DefaultLanguage. A page element without a resolved geometry fails with
// geometry.ErrInvalidGeometry.
func CreateHOCRDocument(pages []Page, info SystemInfo) (*hocr.HOCR, error) {
	lang := DefaultLanguage
	if len(pages) > 0 && pages[0].Language.Known() {
		lang = pages[0].Language.Value
	}

	result := &hocr.HOCR{
		Language:     lang,
		System:       info.String(),
		Capabilities: hocr.Capabilities,
		Pages:        make([]hocr.Page, 0, len(pages)),
	}

	for i, page := range pages {
		ocrPage, err := CreateHOCRPage(page, i)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}

		result.Pages = append(result.Pages, ocrPage)
	}

	return result, nil
}

// CreateHOCRPage converts a single page. Normalized geometries are scaled to
// the page's pixel dimensions; polygons are replaced by their enclosing box.
func CreateHOCRPage(page Page, index int) (hocr.Page, error) {
	pageNum := index + 1
	width, height := page.Dimensions.Width, page.Dimensions.Height

	ocrPage := hocr.Page{
		ID:         fmt.Sprintf("page_%d", pageNum),
		PageNumber: index,
		BBox:       hocr.NewBoundingBox(0, 0, float64(width), float64(height)),
	}
	if page.Language.Known() {
		ocrPage.Lang = page.Language.Value
	}

	for bidx, block := range page.Blocks {
		if err := checkGeometry(block.Geometry, "block %d", bidx+1); err != nil {
			return ocrPage, err
		}

		box := scaleBox(block.Geometry, width, height)

		ocrParagraph := hocr.Paragraph{
			ID:   fmt.Sprintf("par_%d_%d", pageNum, bidx+1),
			BBox: box,
		}

		for lidx, line := range block.Lines {
			if err := checkGeometry(line.Geometry, "block %d line %d", bidx+1, lidx+1); err != nil {
				return ocrPage, err
			}

			ocrLine := convertLine(line, width, height)
			ocrLine.ID = fmt.Sprintf("line_%d_%d_%d", pageNum, bidx+1, lidx+1)

			for widx, word := range line.Words {
				if err := checkGeometry(word.Geometry, "block %d line %d word %d", bidx+1, lidx+1, widx+1); err != nil {
					return ocrPage, err
				}

				ocrLine.Words = append(ocrLine.Words, hocr.Word{
					ID:         fmt.Sprintf("word_%d_%d_%d_%d", pageNum, bidx+1, lidx+1, widx+1),
					Text:       word.Value,
					BBox:       scaleBox(word.Geometry, width, height),
					Confidence: word.Confidence * 100,
				})
			}

			ocrParagraph.Lines = append(ocrParagraph.Lines, ocrLine)
		}

		ocrPage.Areas = append(ocrPage.Areas, hocr.Area{
			ID:         fmt.Sprintf("block_%d_%d", pageNum, bidx+1),
			BBox:       box,
			Paragraphs: []hocr.Paragraph{ocrParagraph},
		})
	}

	return ocrPage, nil
}

func convertLine(line Line, width, height int) hocr.Line {
	box := scaleBox(line.Geometry, width, height)
	size := int(math.Round(box.Height()))

	return hocr.Line{
		BBox:        box,
		Baseline:    "0 0",
		XSize:       size,
		XDescenders: int(math.Round(box.Height() / 2)),
		XAscenders:  int(math.Round(box.Height() / 2)),
	}
}

// scaleBox converts a normalized geometry to a pixel bounding box
func scaleBox(g geometry.Geometry, width, height int) hocr.BoundingBox {
	b := g.Bounds()
	return hocr.NewBoundingBox(
		math.Round(b.XMin*float64(width)),
		math.Round(b.YMin*float64(height)),
		math.Round(b.XMax*float64(width)),
		math.Round(b.YMax*float64(height)),
	)
}
