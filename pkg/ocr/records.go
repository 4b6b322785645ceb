package ocr

import (
	"fmt"
	"strconv"

	"github.com/gardar/ocrgate/pkg/geometry"
)

// Record is the JSON result for a single recognized page
type Record struct {
	Name        string       `json:"name"`
	Orientation Orientation  `json:"orientation"`
	Language    Language     `json:"language"`
	Dimensions  [2]int       `json:"dimensions"` // height, width
	Pages       []RecordPage `json:"pages"`
}

type RecordPage struct {
	Blocks []RecordBlock `json:"blocks"`
}

type RecordBlock struct {
	Geometry        geometry.Geometry `json:"geometry"`
	ObjectnessScore float64           `json:"objectness_score"`
	Lines           []RecordLine      `json:"lines"`
}

type RecordLine struct {
	Geometry        geometry.Geometry `json:"geometry"`
	ObjectnessScore float64           `json:"objectness_score"`
	Words           []RecordWord      `json:"words"`
}

type RecordWord struct {
	Value           string            `json:"value"`
	Geometry        geometry.Geometry `json:"geometry"`
	ObjectnessScore float64           `json:"objectness_score"`
	Confidence      float64           `json:"confidence"`
	CropOrientation Orientation       `json:"crop_orientation"`
}

// RoundScore rounds a score to two decimals. The exact decimal value of v is
// rounded, ties to even, so 0.015 (stored just below the tie) becomes 0.01.
func RoundScore(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return r
}

// BuildRecords converts recognized pages into one Record per page. The page at
// index i is attributed to filenames[i]; both slices must have the same length.
func BuildRecords(pages []Page, filenames []string) ([]Record, error) {
	if len(pages) != len(filenames) {
		return nil, fmt.Errorf("%w: %d pages for %d filenames",
			ErrFilenameCountMismatch, len(pages), len(filenames))
	}

	records := make([]Record, 0, len(pages))
	for i, page := range pages {
		blocks, err := buildBlocks(page.Blocks)
		if err != nil {
			return nil, fmt.Errorf("page %d (%s): %w", i+1, filenames[i], err)
		}

		records = append(records, Record{
			Name:        filenames[i],
			Orientation: page.Orientation,
			Language:    page.Language,
			Dimensions:  [2]int{page.Dimensions.Height, page.Dimensions.Width},
			Pages: []RecordPage{
				{Blocks: blocks},
			},
		})
	}

	return records, nil
}

// BuildResultRecords is BuildRecords over a Result
func BuildResultRecords(res *Result) ([]Record, error) {
	if res == nil {
		return []Record{}, nil
	}
	return BuildRecords(res.Pages, res.Filenames)
}

func buildBlocks(blocks []Block) ([]RecordBlock, error) {
	out := make([]RecordBlock, 0, len(blocks))
	for bi, block := range blocks {
		if err := checkGeometry(block.Geometry, "block %d", bi+1); err != nil {
			return nil, err
		}

		lines, err := buildLines(block.Lines)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", bi+1, err)
		}

		out = append(out, RecordBlock{
			Geometry:        block.Geometry,
			ObjectnessScore: RoundScore(block.ObjectnessScore),
			Lines:           lines,
		})
	}
	return out, nil
}

func buildLines(lines []Line) ([]RecordLine, error) {
	out := make([]RecordLine, 0, len(lines))
	for li, line := range lines {
		if err := checkGeometry(line.Geometry, "line %d", li+1); err != nil {
			return nil, err
		}

		words, err := buildWords(line.Words)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", li+1, err)
		}

		out = append(out, RecordLine{
			Geometry:        line.Geometry,
			ObjectnessScore: RoundScore(line.ObjectnessScore),
			Words:           words,
		})
	}
	return out, nil
}

func buildWords(words []Word) ([]RecordWord, error) {
	out := make([]RecordWord, 0, len(words))
	for wi, word := range words {
		if err := checkGeometry(word.Geometry, "word %d", wi+1); err != nil {
			return nil, err
		}

		out = append(out, RecordWord{
			Value:           word.Value,
			Geometry:        word.Geometry,
			ObjectnessScore: RoundScore(word.ObjectnessScore),
			Confidence:      RoundScore(word.Confidence),
			CropOrientation: word.CropOrientation,
		})
	}
	return out, nil
}

// checkGeometry rejects elements whose geometry was never resolved
func checkGeometry(g geometry.Geometry, format string, args ...any) error {
	if g.IsZero() {
		return fmt.Errorf("%w: %s has no geometry", geometry.ErrInvalidGeometry, fmt.Sprintf(format, args...))
	}
	return nil
}
