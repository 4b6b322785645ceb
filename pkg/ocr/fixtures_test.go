package ocr

import (
	"github.com/gardar/ocrgate/pkg/geometry"
)

func box(xmin, ymin, xmax, ymax float64) geometry.Geometry {
	return geometry.MustResolve([][2]float64{{xmin, ymin}, {xmax, ymax}})
}

func word(value string, g geometry.Geometry, conf float64) Word {
	return Word{
		Value:           value,
		Geometry:        g,
		Confidence:      conf,
		ObjectnessScore: conf,
		CropOrientation: Orientation{Value: 0, Confidence: nil},
	}
}

// samplePage is a 1000x2000 page with one block of two lines
func samplePage(lang string) Page {
	return Page{
		Dimensions:  Dimensions{Height: 1000, Width: 2000},
		Orientation: Orientation{Value: 0, Confidence: Float(0.98)},
		Language:    Language{Value: lang, Confidence: Float(0.9)},
		Blocks: []Block{
			{
				Geometry:        box(0.1, 0.2, 0.3, 0.4),
				ObjectnessScore: 0.876,
				Lines: []Line{
					{
						Geometry:        box(0.1, 0.2, 0.3, 0.3),
						ObjectnessScore: 0.915,
						Words: []Word{
							word("Hello", box(0.1, 0.2, 0.2, 0.3), 0.994),
							word("world", box(0.21, 0.2, 0.3, 0.3), 0.125),
						},
					},
					{
						Geometry: geometry.MustResolve([][2]float64{
							{0.1, 0.31}, {0.3, 0.3}, {0.31, 0.4}, {0.11, 0.41},
						}),
						ObjectnessScore: 0.5,
						Words: []Word{
							word("", box(0.1, 0.31, 0.3, 0.4), 0.005),
						},
					},
				},
			},
		},
	}
}
