package pdfocr

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/gardar/ocrgate/pkg/hocr"
)

type pageImage struct {
	data      []byte
	imageType string
	width     int
	height    int
}

// preparePageImage detects the image type. Formats fpdf cannot embed
// (BMP, TIFF, WebP) are re-encoded as PNG.
func preparePageImage(data []byte) (pageImage, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return pageImage{}, fmt.Errorf("failed to decode image config: %w", err)
	}

	img := pageImage{
		data:      data,
		imageType: strings.ToUpper(format),
		width:     cfg.Width,
		height:    cfg.Height,
	}

	switch format {
	case "jpeg", "png", "gif":
		return img, nil
	}

	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return pageImage{}, fmt.Errorf("failed to decode %s image: %w", format, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, decoded); err != nil {
		return pageImage{}, fmt.Errorf("failed to convert %s image to PNG: %w", format, err)
	}

	img.data = buf.Bytes()
	img.imageType = "PNG"

	return img, nil
}

// createPDFFromImage builds a new PDF from images with their corresponding
// OCR data. Pages are sized by the hOCR page box, or by the image when the
// page has none.
func createPDFFromImage(doc *hocr.HOCR, images []pageImage, config OCRConfig) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "A4", "")

	for i := config.StartPage - 1; i < len(doc.Pages) && i < len(images); i++ {
		page := doc.Pages[i]
		img := images[i]

		hocrW, hocrH := page.BBox.X2, page.BBox.Y2
		if hocrW <= 0 || hocrH <= 0 {
			hocrW, hocrH = float64(img.width), float64(img.height)
		}

		w, h := hocrW, hocrH

		pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})

		imageName := fmt.Sprintf("img%d", i)
		opts := fpdf.ImageOptions{ReadDpi: false, ImageType: img.imageType}

		pdf.RegisterImageOptionsReader(imageName, opts, bytes.NewReader(img.data))
		pdf.ImageOptions(imageName, 0, 0, w, h, false, opts, 0, "")

		transform := func(x, y float64) (float64, float64) {
			return normalizeCoords(x, y, hocrW, hocrH, w, h)
		}

		if err := drawOCRLayer(pdf, page, config, i+1, transform); err != nil {
			return nil, fmt.Errorf("failed to draw OCR layer for page %d: %w", i+1, err)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return buf.Bytes(), nil
}

// normalizeCoords rescales hOCR bounding box coordinates to PDF coordinates
func normalizeCoords(x, y, hocrW, hocrH, pdfW, pdfH float64) (float64, float64) {
	nx := (x / hocrW) * pdfW
	ny := (y / hocrH) * pdfH
	return nx, ny
}
