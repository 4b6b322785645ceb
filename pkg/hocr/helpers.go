package hocr

import (
	"strings"
)

// ExtractHOCRText extracts all text from an HOCR document.
// Words are separated by spaces, lines by newlines, paragraphs by a blank
// line and pages by a form feed.
func ExtractHOCRText(hocrDoc *HOCR) string {
	var pages []string

	for _, page := range hocrDoc.Pages {
		var paragraphs []string
		for _, area := range page.Areas {
			for _, para := range area.Paragraphs {
				if text := paragraphText(para); text != "" {
					paragraphs = append(paragraphs, text)
				}
			}
		}
		pages = append(pages, strings.Join(paragraphs, "\n\n"))
	}

	return strings.Join(pages, "\n\f")
}

func paragraphText(para Paragraph) string {
	lines := make([]string, 0, len(para.Lines))
	for _, line := range para.Lines {
		if text := LineText(line); text != "" {
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, "\n")
}

// LineText joins the non-empty words of a line with single spaces
func LineText(line Line) string {
	words := make([]string, 0, len(line.Words))
	for _, word := range line.Words {
		if word.Text != "" {
			words = append(words, word.Text)
		}
	}
	return strings.Join(words, " ")
}

// WordCount returns the number of words on a page
func (p Page) WordCount() int {
	count := 0
	for _, area := range p.Areas {
		for _, para := range area.Paragraphs {
			for _, line := range para.Lines {
				count += len(line.Words)
			}
		}
	}
	return count
}
