package tesseract

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/gardar/ocrgate/pkg/geometry"
	"github.com/gardar/ocrgate/pkg/ocr"
)

type lineKey struct {
	block, par, line int
}

// buildPage groups word boxes into blocks and lines. Tesseract paragraphs are
// flattened: every line of a tesseract block becomes a line of the same
// block, in recognition order.
func buildPage(boxes []gosseract.BoundingBox, width, height int, straight bool) (ocr.Page, error) {
	page := ocr.Page{
		Dimensions: ocr.Dimensions{Height: height, Width: width},
	}

	if width <= 0 || height <= 0 {
		return page, fmt.Errorf("%w: empty image %dx%d", geometry.ErrInvalidGeometry, width, height)
	}

	blockIndex := make(map[int]int)
	lineIndex := make(map[lineKey]int)

	for _, b := range boxes {
		word, err := convertWord(b, width, height, straight)
		if err != nil {
			return page, err
		}

		bi, ok := blockIndex[b.BlockNum]
		if !ok {
			bi = len(page.Blocks)
			blockIndex[b.BlockNum] = bi
			page.Blocks = append(page.Blocks, ocr.Block{})
		}

		key := lineKey{b.BlockNum, b.ParNum, b.LineNum}

		li, ok := lineIndex[key]
		if !ok {
			li = len(page.Blocks[bi].Lines)
			lineIndex[key] = li
			page.Blocks[bi].Lines = append(page.Blocks[bi].Lines, ocr.Line{})
		}

		line := &page.Blocks[bi].Lines[li]
		line.Words = append(line.Words, word)
	}

	for bi := range page.Blocks {
		block := &page.Blocks[bi]

		for li := range block.Lines {
			line := &block.Lines[li]

			bounds := make([]geometry.Box, 0, len(line.Words))
			for _, w := range line.Words {
				bounds = append(bounds, w.Geometry.Bounds())
			}

			g, err := enclose(bounds, !straight)
			if err != nil {
				return page, err
			}

			line.Geometry = g
			line.ObjectnessScore = meanConfidence(line.Words)
		}

		bounds := make([]geometry.Box, 0, len(block.Lines))
		for _, l := range block.Lines {
			bounds = append(bounds, l.Geometry.Bounds())
		}

		g, err := enclose(bounds, !straight)
		if err != nil {
			return page, err
		}

		block.Geometry = g
		block.ObjectnessScore = meanLineScore(block.Lines)
	}

	return page, nil
}

func convertWord(b gosseract.BoundingBox, width, height int, straight bool) (ocr.Word, error) {
	var g geometry.Geometry
	var err error

	if straight {
		g, err = normalizedBox(b.Box, width, height)
	} else {
		g, err = normalizedPolygon(b.Box, width, height)
	}

	if err != nil {
		return ocr.Word{}, err
	}

	conf := confidence(b.Confidence)

	return ocr.Word{
		Value:           strings.TrimSpace(b.Word),
		Geometry:        g,
		Confidence:      conf,
		ObjectnessScore: conf,
	}, nil
}

// confidence converts a tesseract confidence (0-100, -1 for none) to [0,1]
func confidence(v float64) float64 {
	return math.Max(0, math.Min(1, v/100))
}

func normalizedBox(r image.Rectangle, width, height int) (geometry.Geometry, error) {
	w, h := float64(width), float64(height)

	return geometry.Resolve([][2]float64{
		{clamp(float64(r.Min.X) / w), clamp(float64(r.Min.Y) / h)},
		{clamp(float64(r.Max.X) / w), clamp(float64(r.Max.Y) / h)},
	})
}

func normalizedPolygon(r image.Rectangle, width, height int) (geometry.Geometry, error) {
	w, h := float64(width), float64(height)

	x0, y0 := clamp(float64(r.Min.X)/w), clamp(float64(r.Min.Y)/h)
	x1, y1 := clamp(float64(r.Max.X)/w), clamp(float64(r.Max.Y)/h)

	return geometry.Resolve([][2]float64{
		{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1},
	})
}

// enclose returns the smallest box or rectangle polygon around bounds
func enclose(bounds []geometry.Box, polygon bool) (geometry.Geometry, error) {
	if len(bounds) == 0 {
		return geometry.Geometry{}, fmt.Errorf("%w: nothing to enclose", geometry.ErrInvalidGeometry)
	}

	b := bounds[0]

	for _, o := range bounds[1:] {
		b.XMin = math.Min(b.XMin, o.XMin)
		b.YMin = math.Min(b.YMin, o.YMin)
		b.XMax = math.Max(b.XMax, o.XMax)
		b.YMax = math.Max(b.YMax, o.YMax)
	}

	if polygon {
		return geometry.Resolve([][2]float64{
			{b.XMin, b.YMin}, {b.XMax, b.YMin}, {b.XMax, b.YMax}, {b.XMin, b.YMax},
		})
	}

	return geometry.NewBox(b)
}

func meanConfidence(words []ocr.Word) float64 {
	if len(words) == 0 {
		return 0
	}

	var sum float64
	for _, w := range words {
		sum += w.Confidence
	}

	return sum / float64(len(words))
}

func meanLineScore(lines []ocr.Line) float64 {
	if len(lines) == 0 {
		return 0
	}

	var sum float64
	for _, l := range lines {
		sum += l.ObjectnessScore
	}

	return sum / float64(len(lines))
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
