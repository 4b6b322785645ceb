package hocr

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"
)

// ParseHOCR converts raw hOCR data into a structured HOCR object.
//
// Lines or paragraphs found outside the element that normally contains them
// are wrapped in an implicit parent, so the result always follows the
// page → area → paragraph → line → word nesting.
func ParseHOCR(data []byte) (HOCR, error) {
	result := HOCR{
		Metadata: make(map[string]string),
	}

	decoded, err := decodeCharset(data)
	if err != nil {
		return result, err
	}

	doc, err := html.Parse(bytes.NewReader(decoded))
	if err != nil {
		return result, err
	}

	extractDocumentMeta(&result, doc)

	for _, n := range findClass(doc, "ocr_page") {
		result.Pages = append(result.Pages, processPage(n))
	}

	if len(result.Pages) == 0 {
		return result, fmt.Errorf("no ocr_page elements found in HOCR data")
	}
	return result, nil
}

// decodeCharset converts Latin-1 declared documents to UTF-8
func decodeCharset(data []byte) ([]byte, error) {
	head := strings.ToLower(string(data[:min(len(data), 1024)]))
	idx := strings.Index(head, "charset=")
	if idx < 0 {
		return data, nil
	}

	fields := strings.FieldsFunc(head[idx+len("charset="):], func(r rune) bool {
		return r == '"' || r == ';' || r == '\'' || r == '>' || r == ' ' || r == '/'
	})
	if len(fields) == 0 {
		return data, nil
	}

	switch fields[0] {
	case "iso-8859-1", "latin1", "latin-1", "windows-1252":
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", fields[0], err)
		}
		return decoded, nil
	}
	return data, nil
}

// ParseTitle breaks down an hOCR title attribute into its components
// Example input: "bbox 100 200 300 400; x_wconf 95"
func ParseTitle(title string) map[string][]string {
	result := make(map[string][]string)
	for _, part := range strings.Split(title, ";") {
		items := strings.Fields(part)
		if len(items) > 0 {
			result[items[0]] = items[1:]
		}
	}
	return result
}

// ParseBoundingBoxFromTitle extracts a bounding box from a title string
// Returns nil if the title has no complete bbox property
func ParseBoundingBoxFromTitle(title string) *BoundingBox {
	bbox, ok := ParseTitle(title)["bbox"]
	if !ok || len(bbox) < 4 {
		return nil
	}

	var v [4]float64
	for i := range v {
		f, err := strconv.ParseFloat(bbox[i], 64)
		if err != nil {
			return nil
		}
		v[i] = f
	}

	result := NewBoundingBox(v[0], v[1], v[2], v[3])
	return &result
}

// extractDocumentMeta reads the html language and the head metadata
func extractDocumentMeta(result *HOCR, doc *html.Node) {
	walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}

		switch n.Data {
		case "html":
			for _, a := range n.Attr {
				if a.Key == "lang" || a.Key == "xml:lang" {
					result.Language = a.Val
				}
			}
		case "meta":
			name, content := getAttrVal(n, "name"), getAttrVal(n, "content")
			switch name {
			case "":
			case "ocr-system":
				result.System = content
			case "ocr-capabilities":
				result.Capabilities = content
			default:
				result.Metadata[name] = content
			}
		case "body":
			return false
		}
		return true
	})
}

// processPage extracts page information and its areas
func processPage(n *html.Node) Page {
	page := Page{
		ID:    getAttrVal(n, "id"),
		Lang:  getAttrVal(n, "lang"),
		Title: getAttrVal(n, "title"),
	}

	if bbox := ParseBoundingBoxFromTitle(page.Title); bbox != nil {
		page.BBox = *bbox
	}

	props := ParseTitle(page.Title)
	if image, ok := props["image"]; ok && len(image) > 0 {
		page.ImageName = strings.Trim(strings.Join(image, " "), `"`)
	}
	if ppageno, ok := props["ppageno"]; ok && len(ppageno) > 0 {
		page.PageNumber, _ = strconv.Atoi(ppageno[0])
	}

	for _, child := range findChildren(n, "ocr_carea", "ocr_par", "ocr_line") {
		switch {
		case hasClass(child, "ocr_carea"):
			page.Areas = append(page.Areas, processArea(child))
		case hasClass(child, "ocr_par"):
			page.Areas = append(page.Areas, Area{Paragraphs: []Paragraph{processParagraph(child)}})
		default:
			page.Areas = append(page.Areas, Area{Paragraphs: []Paragraph{{Lines: []Line{processLine(child)}}}})
		}
	}

	return page
}

// processArea extracts area information and its paragraphs
func processArea(n *html.Node) Area {
	area := Area{
		ID:   getAttrVal(n, "id"),
		Lang: getAttrVal(n, "lang"),
	}
	if bbox := ParseBoundingBoxFromTitle(getAttrVal(n, "title")); bbox != nil {
		area.BBox = *bbox
	}

	var loose []Line
	for _, child := range findChildren(n, "ocr_par", "ocr_line") {
		if hasClass(child, "ocr_par") {
			area.Paragraphs = append(area.Paragraphs, processParagraph(child))
			continue
		}
		loose = append(loose, processLine(child))
	}
	if len(loose) > 0 {
		area.Paragraphs = append(area.Paragraphs, Paragraph{BBox: area.BBox, Lines: loose})
	}

	return area
}

// processParagraph extracts paragraph information and its lines
func processParagraph(n *html.Node) Paragraph {
	paragraph := Paragraph{
		ID:   getAttrVal(n, "id"),
		Lang: getAttrVal(n, "lang"),
	}
	if bbox := ParseBoundingBoxFromTitle(getAttrVal(n, "title")); bbox != nil {
		paragraph.BBox = *bbox
	}

	for _, child := range findChildren(n, "ocr_line") {
		paragraph.Lines = append(paragraph.Lines, processLine(child))
	}

	return paragraph
}

// processLine extracts line information and its words
func processLine(n *html.Node) Line {
	title := getAttrVal(n, "title")
	line := Line{
		ID: getAttrVal(n, "id"),
	}
	if bbox := ParseBoundingBoxFromTitle(title); bbox != nil {
		line.BBox = *bbox
	}

	props := ParseTitle(title)
	if baseline, ok := props["baseline"]; ok {
		line.Baseline = strings.Join(baseline, " ")
	}
	line.XSize = firstInt(props["x_size"])
	line.XDescenders = firstInt(props["x_descenders"])
	line.XAscenders = firstInt(props["x_ascenders"])

	for _, child := range findChildren(n, "ocrx_word") {
		line.Words = append(line.Words, processWord(child))
	}

	return line
}

// processWord extracts a word element's text and properties
func processWord(n *html.Node) Word {
	title := getAttrVal(n, "title")
	word := Word{
		ID:   getAttrVal(n, "id"),
		Lang: getAttrVal(n, "lang"),
		Text: extractTextContent(n),
	}
	if bbox := ParseBoundingBoxFromTitle(title); bbox != nil {
		word.BBox = *bbox
	}

	props := ParseTitle(title)
	if conf, ok := props["x_wconf"]; ok && len(conf) > 0 {
		word.Confidence, _ = strconv.ParseFloat(conf[0], 64)
	}

	return word
}

// findClass returns all elements below n carrying the class, without
// descending into matches
func findClass(n *html.Node, class string) []*html.Node {
	var result []*html.Node
	walk(n, func(c *html.Node) bool {
		if hasClass(c, class) {
			result = append(result, c)
			return false
		}
		return true
	})
	return result
}

// findChildren returns the outermost descendants of n carrying any of the
// classes, in document order
func findChildren(n *html.Node, classes ...string) []*html.Node {
	var result []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, func(d *html.Node) bool {
			for _, class := range classes {
				if hasClass(d, class) {
					result = append(result, d)
					return false
				}
			}
			return true
		})
	}
	return result
}

// walk visits n and its descendants depth-first; returning false from fn
// skips the node's children
func walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, c := range strings.Fields(getAttrVal(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// extractTextContent gets all text from a node and its children
func extractTextContent(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		return true
	})
	return strings.TrimSpace(b.String())
}

// Get the value of a specific attribute from a node
func getAttrVal(n *html.Node, attrName string) string {
	for _, attr := range n.Attr {
		if attr.Key == attrName {
			return attr.Val
		}
	}
	return ""
}

func firstInt(values []string) int {
	if len(values) == 0 {
		return 0
	}
	v, _ := strconv.Atoi(values[0])
	return v
}
