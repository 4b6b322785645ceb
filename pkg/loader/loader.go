// Package loader turns uploaded files into predictor inputs.
//
// Images are decoded up front so unreadable uploads are rejected before any
// predictor runs. Besides the standard library formats (JPEG, PNG, GIF) the
// loader registers BMP, TIFF and WebP decoders. PDFs are passed through
// untouched for predictors that read them natively.
package loader

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/gardar/ocrgate/pkg/ocr"
)

// File is a raw upload
type File struct {
	Name        string
	ContentType string
	Content     []byte
}

var pdfMagic = []byte("%PDF-")

// Load decodes every file in order. The first unreadable file fails the whole
// batch with an ocr.InputError naming it.
func Load(files []File) ([]ocr.Input, error) {
	if len(files) == 0 {
		return nil, ocr.InputErrorf("no files uploaded")
	}

	inputs := make([]ocr.Input, 0, len(files))
	for _, f := range files {
		in, err := LoadFile(f)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, in)
	}

	return inputs, nil
}

// LoadFile decodes a single upload
func LoadFile(f File) (ocr.Input, error) {
	if len(f.Content) == 0 {
		return ocr.Input{}, ocr.InputErrorf("file %q is empty", f.Name)
	}

	if bytes.HasPrefix(f.Content, pdfMagic) {
		return ocr.Input{
			Name:        f.Name,
			ContentType: ocr.ContentTypePDF,
			Content:     f.Content,
		}, nil
	}

	img, format, err := image.Decode(bytes.NewReader(f.Content))
	if err != nil {
		return ocr.Input{}, ocr.InputErrorf("unsupported file format %s for file %q: %v",
			DetectContentType(f), f.Name, err)
	}

	return ocr.Input{
		Name:        f.Name,
		ContentType: "image/" + format,
		Content:     f.Content,
		Image:       img,
	}, nil
}

// DetectContentType returns the declared content type of an upload, sniffing
// the content when none was sent
func DetectContentType(f File) string {
	if ct := strings.TrimSpace(f.ContentType); ct != "" && ct != "application/octet-stream" {
		return ct
	}
	return http.DetectContentType(f.Content)
}
