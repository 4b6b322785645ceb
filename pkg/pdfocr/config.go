package pdfocr

// OCRConfig holds the options for drawing the text layer
type OCRConfig struct {
	Debug     bool   // Draw the text in red with word boxes instead of hiding it
	Force     bool   // Reapply OCR even if the layer already exists
	LayerName string // Base name of the OCR layer; the page number is appended
	StartPage int    // First PDF page the hOCR pages are applied to
	Font      FontConfig
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() OCRConfig {
	return OCRConfig{
		LayerName: "OCR Text",
		StartPage: 1,
		Font:      DefaultFont,
	}
}

// FontConfig contains font settings for OCR text rendering
type FontConfig struct {
	Name        string  // Font name (e.g., "Helvetica")
	Style       string  // Font style ("", "B", "I", "BI")
	Size        float64 // Default font size
	AscentRatio float64 // Vertical positioning ratio
}

// DefaultFont is Helvetica, one of the PDF core fonts
var DefaultFont = FontConfig{
	Name:        "Helvetica",
	Style:       "",
	Size:        10,
	AscentRatio: 0.718,
}
