package pdfocr

import (
	"bytes"
	"io"

	"codeberg.org/go-pdf/fpdf"
	"codeberg.org/go-pdf/fpdf/contrib/gofpdi"

	"github.com/gardar/ocrgate/pkg/hocr"
)

// modifyExistingPDF imports the pages of an existing PDF and overlays the
// OCR text. hOCR page i lands on PDF page StartPage+i; pages are sized by
// the hOCR page box, whose units are the PDF points of the rasterized page.
func modifyExistingPDF(inputPDFData []byte, doc *hocr.HOCR, config OCRConfig) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "", "")
	importer := gofpdi.NewImporter()
	rs := io.ReadSeeker(bytes.NewReader(inputPDFData))

	identity := func(x, y float64) (float64, float64) {
		return x, y
	}

	for i, page := range doc.Pages {
		targetPage := i + config.StartPage

		pdf.AddPageFormat("P", fpdf.SizeType{Wd: page.BBox.X2, Ht: page.BBox.Y2})

		tpl := importer.ImportPageFromStream(pdf, &rs, targetPage, "/MediaBox")
		importer.UseImportedTemplate(pdf, tpl, 0, 0, page.BBox.X2, 0)

		if err := drawOCRLayer(pdf, page, config, i+1, identity); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
