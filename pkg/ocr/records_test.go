package ocr

import (
	"encoding/json"
	"testing"

	"github.com/gardar/ocrgate/pkg/geometry"
	"github.com/stretchr/testify/require"
)

func TestBuildRecords(t *testing.T) {
	pages := []Page{samplePage("en"), samplePage("fr")}

	records, err := BuildRecords(pages, []string{"a.png", "b.png"})
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.Equal(t, "a.png", records[0].Name)
	require.Equal(t, "b.png", records[1].Name)
	require.Equal(t, "fr", records[1].Language.Value)
	require.Equal(t, [2]int{1000, 2000}, records[0].Dimensions)

	// one record per page, each with a single-element page list
	require.Len(t, records[0].Pages, 1)

	block := records[0].Pages[0].Blocks[0]
	require.Equal(t, 0.88, block.ObjectnessScore)
	require.Equal(t, 0.92, block.Lines[0].ObjectnessScore)

	words := block.Lines[0].Words
	require.Equal(t, "Hello", words[0].Value)
	require.Equal(t, "world", words[1].Value)
	require.Equal(t, 0.99, words[0].Confidence)
	require.Equal(t, 0.12, words[1].Confidence)

	// shapes survive untouched
	require.Equal(t, geometry.KindBox, block.Geometry.Kind())
	require.Equal(t, geometry.KindPolygon, block.Lines[1].Geometry.Kind())
}

func TestBuildRecordsPreservesOrder(t *testing.T) {
	names := []string{"3.png", "1.png", "2.png"}
	pages := make([]Page, len(names))
	for i := range pages {
		pages[i] = samplePage("en")
		pages[i].Dimensions.Width = 100 * (i + 1)
	}

	records, err := BuildRecords(pages, names)
	require.NoError(t, err)

	for i, record := range records {
		require.Equal(t, names[i], record.Name)
		require.Equal(t, 100*(i+1), record.Dimensions[1])
	}
}

func TestBuildRecordsMismatch(t *testing.T) {
	_, err := BuildRecords([]Page{samplePage("en")}, []string{"a.png", "b.png"})
	require.ErrorIs(t, err, ErrFilenameCountMismatch)

	_, err = BuildRecords(nil, []string{"a.png"})
	require.ErrorIs(t, err, ErrFilenameCountMismatch)
}

func TestBuildRecordsEmpty(t *testing.T) {
	records, err := BuildRecords(nil, nil)
	require.NoError(t, err)
	require.NotNil(t, records)

	data, err := json.Marshal(records)
	require.NoError(t, err)
	require.Equal(t, "[]", string(data))
}

func TestRoundScore(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.994, 0.99},
		{0.996, 1},
		{0.125, 0.12}, // tie goes to even
		{0.375, 0.38}, // tie goes to even
		{0.015, 0.01}, // stored just below the tie
		{0.285, 0.28}, // stored just below the tie
		{0.5, 0.5},
		{0, 0},
		{1, 1},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, RoundScore(tt.in), "RoundScore(%v)", tt.in)
	}
}

func TestRoundScoreIdempotent(t *testing.T) {
	for i := 0; i <= 1000; i++ {
		v := float64(i) / 1000
		once := RoundScore(v)
		require.Equal(t, once, RoundScore(once), "RoundScore(%v)", v)
	}
}

func TestRecordJSON(t *testing.T) {
	page := Page{
		Dimensions:  Dimensions{Height: 10, Width: 20},
		Orientation: Orientation{Value: 0},
		Language:    Language{Value: UnknownLanguage},
		Blocks: []Block{{
			Geometry:        box(0, 0, 1, 1),
			ObjectnessScore: 1,
			Lines: []Line{{
				Geometry:        box(0, 0, 1, 1),
				ObjectnessScore: 1,
				Words:           []Word{word("x", box(0, 0, 1, 1), 1)},
			}},
		}},
	}

	records, err := BuildRecords([]Page{page}, []string{"x.png"})
	require.NoError(t, err)

	data, err := json.Marshal(records)
	require.NoError(t, err)

	geom := `{"xmin":0,"ymin":0,"xmax":1,"ymax":1}`
	require.JSONEq(t, `[{
		"name": "x.png",
		"orientation": {"value": 0, "confidence": null},
		"language": {"value": "unknown", "confidence": null},
		"dimensions": [10, 20],
		"pages": [{"blocks": [{
			"geometry": `+geom+`,
			"objectness_score": 1,
			"lines": [{
				"geometry": `+geom+`,
				"objectness_score": 1,
				"words": [{
					"value": "x",
					"geometry": `+geom+`,
					"objectness_score": 1,
					"confidence": 1,
					"crop_orientation": {"value": 0, "confidence": null}
				}]
			}]
		}]}]
	}]`, string(data))
}

func TestNormalizeLanguage(t *testing.T) {
	tests := map[string]string{
		"eng":            "en",
		"en-US":          "en",
		"deu":            "de",
		"isl":            "is",
		"eng+isl":        "en",
		"":               UnknownLanguage,
		"unknown":        UnknownLanguage,
		"not a language": UnknownLanguage,
	}

	for code, want := range tests {
		require.Equal(t, want, NormalizeLanguage(code), code)
	}
}
