package docai

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/ocrgate/pkg/geometry"
	"github.com/gardar/ocrgate/pkg/ocr"
)

// PagesFromProto converts a Document AI response into recognized pages.
//
// Document AI reports blocks, lines and tokens as flat lists per page. They are
// nested by text anchor: a line belongs to the first block whose text range
// contains it, a token to the first such line. Lines outside every block are
// collected into one extra block at the end of the page.
func PagesFromProto(doc *documentaipb.Document, opts ocr.Options) ([]ocr.Page, error) {
	if doc == nil {
		return nil, errNoDocument
	}

	protoPages := append([]*documentaipb.Document_Page(nil), doc.Pages...)

	sort.SliceStable(protoPages, func(i, j int) bool {
		return protoPages[i].PageNumber < protoPages[j].PageNumber
	})

	pages := make([]ocr.Page, 0, len(protoPages))

	for i, p := range protoPages {
		page, err := convertPage(p, doc.Text, opts)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}

		pages = append(pages, page)
	}

	return pages, nil
}

func convertPage(p *documentaipb.Document_Page, text string, opts ocr.Options) (ocr.Page, error) {
	dim := p.GetDimension()

	page := ocr.Page{
		Dimensions: ocr.Dimensions{
			Height: int(math.Round(float64(dim.GetHeight()))),
			Width:  int(math.Round(float64(dim.GetWidth()))),
		},
		Orientation: convertOrientation(p.GetLayout()),
		Language:    ocr.Language{Value: ocr.UnknownLanguage},
	}

	if opts.DetectLanguage {
		page.Language = detectedLanguage(p.DetectedLanguages)
	}

	c := &converter{
		text:     text,
		dim:      dim,
		straight: opts.StraightPages,
	}

	assigned := make([]bool, len(p.Lines))

	for _, b := range p.Blocks {
		var lines []*documentaipb.Document_Page_Line

		for i, l := range p.Lines {
			if assigned[i] || !isElementInParent(l.GetLayout(), b.GetLayout()) {
				continue
			}

			assigned[i] = true
			lines = append(lines, l)
		}

		block, err := c.block(b.GetLayout(), lines, p.Tokens)
		if err != nil {
			return page, err
		}

		page.Blocks = append(page.Blocks, block)
	}

	var loose []*documentaipb.Document_Page_Line

	for i, l := range p.Lines {
		if !assigned[i] {
			loose = append(loose, l)
		}
	}

	if len(loose) > 0 {
		block, err := c.block(nil, loose, p.Tokens)
		if err != nil {
			return page, err
		}

		page.Blocks = append(page.Blocks, block)
	}

	return page, nil
}

type converter struct {
	text     string
	dim      *documentaipb.Document_Page_Dimension
	straight bool
}

// block converts a block layout and its lines. A nil layout stands for the
// implicit block of unassigned lines; its geometry encloses the lines.
func (c *converter) block(layout *documentaipb.Document_Page_Layout, protoLines []*documentaipb.Document_Page_Line, tokens []*documentaipb.Document_Page_Token) (ocr.Block, error) {
	block := ocr.Block{
		ObjectnessScore: float64(layout.GetConfidence()),
	}

	for _, l := range protoLines {
		line, err := c.line(l, tokens)
		if err != nil {
			return block, err
		}

		block.Lines = append(block.Lines, line)
	}

	if layout != nil {
		g, err := c.geometry(layout)
		if err != nil {
			return block, err
		}

		block.Geometry = g
		return block, nil
	}

	g, err := enclosing(block.Lines)
	if err != nil {
		return block, err
	}

	block.Geometry = g
	block.ObjectnessScore = meanLineScore(block.Lines)

	return block, nil
}

func (c *converter) line(l *documentaipb.Document_Page_Line, tokens []*documentaipb.Document_Page_Token) (ocr.Line, error) {
	g, err := c.geometry(l.GetLayout())
	if err != nil {
		return ocr.Line{}, err
	}

	line := ocr.Line{
		Geometry:        g,
		ObjectnessScore: float64(l.GetLayout().GetConfidence()),
	}

	for _, t := range tokens {
		if !isElementInParent(t.GetLayout(), l.GetLayout()) {
			continue
		}

		word, err := c.word(t)
		if err != nil {
			return line, err
		}

		line.Words = append(line.Words, word)
	}

	return line, nil
}

func (c *converter) word(t *documentaipb.Document_Page_Token) (ocr.Word, error) {
	layout := t.GetLayout()

	g, err := c.geometry(layout)
	if err != nil {
		return ocr.Word{}, err
	}

	conf := float64(layout.GetConfidence())

	return ocr.Word{
		Value:           tokenText(t, c.text),
		Geometry:        g,
		Confidence:      conf,
		ObjectnessScore: conf,
		CropOrientation: convertOrientation(layout),
	}, nil
}

// geometry resolves a layout's bounding polygon. Pixel vertices are
// normalized by the page dimension when no normalized vertices are present.
func (c *converter) geometry(layout *documentaipb.Document_Page_Layout) (geometry.Geometry, error) {
	points := c.points(layout.GetBoundingPoly())

	if len(points) == 0 {
		return geometry.Geometry{}, fmt.Errorf("%w: layout without bounding polygon", geometry.ErrInvalidGeometry)
	}

	if c.straight || len(points) < 3 {
		return straightBox(points)
	}

	return geometry.Resolve(points)
}

func (c *converter) points(poly *documentaipb.BoundingPoly) [][2]float64 {
	var points [][2]float64

	if nv := poly.GetNormalizedVertices(); len(nv) > 0 {
		for _, v := range nv {
			points = append(points, [2]float64{clamp(float64(v.X)), clamp(float64(v.Y))})
		}

		return points
	}

	w, h := float64(c.dim.GetWidth()), float64(c.dim.GetHeight())
	if w <= 0 || h <= 0 {
		return nil
	}

	for _, v := range poly.GetVertices() {
		points = append(points, [2]float64{clamp(float64(v.X) / w), clamp(float64(v.Y) / h)})
	}

	return points
}

func straightBox(points [][2]float64) (geometry.Geometry, error) {
	b := geometry.Box{XMin: 1, YMin: 1}

	for _, p := range points {
		b.XMin = math.Min(b.XMin, p[0])
		b.YMin = math.Min(b.YMin, p[1])
		b.XMax = math.Max(b.XMax, p[0])
		b.YMax = math.Max(b.YMax, p[1])
	}

	return geometry.NewBox(b)
}

func enclosing(lines []ocr.Line) (geometry.Geometry, error) {
	var points [][2]float64

	for _, l := range lines {
		b := l.Geometry.Bounds()
		points = append(points, [2]float64{b.XMin, b.YMin}, [2]float64{b.XMax, b.YMax})
	}

	return straightBox(points)
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

// convertOrientation maps the Document AI reading orientation to the
// rotation, in degrees, that was applied to the page content
func convertOrientation(layout *documentaipb.Document_Page_Layout) ocr.Orientation {
	switch layout.GetOrientation() {
	case documentaipb.Document_Page_Layout_PAGE_RIGHT:
		return ocr.Orientation{Value: -90}
	case documentaipb.Document_Page_Layout_PAGE_DOWN:
		return ocr.Orientation{Value: 180}
	case documentaipb.Document_Page_Layout_PAGE_LEFT:
		return ocr.Orientation{Value: 90}
	}

	return ocr.Orientation{Value: 0}
}

// detectedLanguage picks the most confident language of a page
func detectedLanguage(langs []*documentaipb.Document_Page_DetectedLanguage) ocr.Language {
	var best *documentaipb.Document_Page_DetectedLanguage

	for _, l := range langs {
		if best == nil || l.Confidence > best.Confidence {
			best = l
		}
	}

	if best == nil {
		return ocr.Language{Value: ocr.UnknownLanguage}
	}

	value := ocr.NormalizeLanguage(best.LanguageCode)
	if value == ocr.UnknownLanguage {
		return ocr.Language{Value: value}
	}

	return ocr.Language{
		Value:      value,
		Confidence: ocr.Float(float64(best.Confidence)),
	}
}

// isElementInParent reports whether the element's first text segment lies
// within the parent's
func isElementInParent(element, parent *documentaipb.Document_Page_Layout) bool {
	es := element.GetTextAnchor().GetTextSegments()
	ps := parent.GetTextAnchor().GetTextSegments()

	if len(es) == 0 || len(ps) == 0 {
		return false
	}

	return es[0].StartIndex >= ps[0].StartIndex && es[0].EndIndex <= ps[0].EndIndex
}

// tokenText extracts a token's text without the trailing break
func tokenText(t *documentaipb.Document_Page_Token, fullText string) string {
	text := textFromLayout(t.GetLayout(), fullText)
	text = strings.ReplaceAll(text, "\r", "")
	text = strings.ReplaceAll(text, "\n", " ")

	return strings.TrimSpace(text)
}

// textFromLayout extracts text from a layout's text anchor segments
func textFromLayout(layout *documentaipb.Document_Page_Layout, fullText string) string {
	segments := layout.GetTextAnchor().GetTextSegments()
	if len(segments) == 0 {
		return ""
	}

	runes := []rune(fullText)
	total := len(runes)

	var sb strings.Builder

	for _, seg := range segments {
		start := int(seg.StartIndex)
		end := int(seg.EndIndex)

		if start < 0 {
			start = 0
		}
		if end > total {
			end = total
		}
		if start > end {
			start = end
		}

		sb.WriteString(string(runes[start:end]))
	}

	return sb.String()
}
