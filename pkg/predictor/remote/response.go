package remote

import (
	"fmt"

	"github.com/gardar/ocrgate/pkg/geometry"
	"github.com/gardar/ocrgate/pkg/ocr"
)

type response struct {
	Pages []page `json:"pages"`
}

type page struct {
	Index       int             `json:"page_idx"`
	Dimensions  [2]int          `json:"dimensions"` // height, width
	Orientation ocr.Orientation `json:"orientation"`
	Language    ocr.Language    `json:"language"`
	Blocks      []block         `json:"blocks"`
}

type block struct {
	Geometry        [][2]float64 `json:"geometry"`
	ObjectnessScore float64      `json:"objectness_score"`
	Lines           []line       `json:"lines"`
}

type line struct {
	Geometry        [][2]float64 `json:"geometry"`
	ObjectnessScore float64      `json:"objectness_score"`
	Words           []word       `json:"words"`
}

type word struct {
	Value           string          `json:"value"`
	Confidence      float64         `json:"confidence"`
	Geometry        [][2]float64    `json:"geometry"`
	ObjectnessScore float64         `json:"objectness_score"`
	CropOrientation ocr.Orientation `json:"crop_orientation"`
}

func (r *response) toPages(opts ocr.Options) ([]ocr.Page, error) {
	pages := make([]ocr.Page, 0, len(r.Pages))

	for i, p := range r.Pages {
		page := ocr.Page{
			Dimensions: ocr.Dimensions{
				Height: p.Dimensions[0],
				Width:  p.Dimensions[1],
			},
			Orientation: p.Orientation,
			Language:    p.Language,
		}

		if !opts.DetectLanguage || !page.Language.Known() {
			page.Language = ocr.Language{Value: ocr.UnknownLanguage}
		}

		for bi, b := range p.Blocks {
			blk, err := convertBlock(b, opts.StraightPages)
			if err != nil {
				return nil, fmt.Errorf("page %d block %d: %w", i+1, bi+1, err)
			}

			page.Blocks = append(page.Blocks, blk)
		}

		pages = append(pages, page)
	}

	return pages, nil
}

func convertBlock(b block, straight bool) (ocr.Block, error) {
	g, err := resolve(b.Geometry, straight)
	if err != nil {
		return ocr.Block{}, err
	}

	blk := ocr.Block{
		Geometry:        g,
		ObjectnessScore: b.ObjectnessScore,
	}

	for _, l := range b.Lines {
		g, err := resolve(l.Geometry, straight)
		if err != nil {
			return blk, err
		}

		ln := ocr.Line{
			Geometry:        g,
			ObjectnessScore: l.ObjectnessScore,
		}

		for _, w := range l.Words {
			g, err := resolve(w.Geometry, straight)
			if err != nil {
				return blk, err
			}

			ln.Words = append(ln.Words, ocr.Word{
				Value:           w.Value,
				Geometry:        g,
				Confidence:      w.Confidence,
				ObjectnessScore: w.ObjectnessScore,
				CropOrientation: w.CropOrientation,
			})
		}

		blk.Lines = append(blk.Lines, ln)
	}

	return blk, nil
}

// resolve classifies raw points. Straight pages flatten polygons to their
// enclosing box.
func resolve(points [][2]float64, straight bool) (geometry.Geometry, error) {
	g, err := geometry.Resolve(points)
	if err != nil {
		return g, err
	}

	if straight && g.Kind() == geometry.KindPolygon {
		return geometry.NewBox(g.Bounds())
	}

	return g, nil
}
