package loader

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/gardar/ocrgate/pkg/ocr"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func encodeImage(t *testing.T, encode func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.Black)

	var buf bytes.Buffer
	require.NoError(t, encode(&buf, img))
	return buf.Bytes()
}

func pngBytes(t *testing.T) []byte {
	return encodeImage(t, func(b *bytes.Buffer, img image.Image) error { return png.Encode(b, img) })
}

func TestLoadImages(t *testing.T) {
	bmpData := encodeImage(t, func(b *bytes.Buffer, img image.Image) error { return bmp.Encode(b, img) })

	inputs, err := Load([]File{
		{Name: "a.png", Content: pngBytes(t)},
		{Name: "b.bmp", Content: bmpData},
	})
	require.NoError(t, err)
	require.Len(t, inputs, 2)

	require.Equal(t, "a.png", inputs[0].Name)
	require.Equal(t, "image/png", inputs[0].ContentType)
	require.Equal(t, image.Rect(0, 0, 4, 3), inputs[0].Image.Bounds())

	require.Equal(t, "b.bmp", inputs[1].Name)
	require.Equal(t, "image/bmp", inputs[1].ContentType)
}

func TestLoadPDF(t *testing.T) {
	in, err := LoadFile(File{Name: "doc.pdf", Content: []byte("%PDF-1.7\n...")})
	require.NoError(t, err)
	require.True(t, in.IsPDF())
	require.Nil(t, in.Image)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(nil)
	require.True(t, ocr.IsInputError(err))

	_, err = Load([]File{{Name: "empty.png"}})
	require.True(t, ocr.IsInputError(err))
	require.Contains(t, err.Error(), "empty.png")

	_, err = Load([]File{
		{Name: "ok.png", Content: pngBytes(t)},
		{Name: "notes.txt", ContentType: "text/plain", Content: []byte("hello")},
	})
	require.True(t, ocr.IsInputError(err))
	require.Contains(t, err.Error(), "text/plain")
	require.Contains(t, err.Error(), "notes.txt")
}

func TestDetectContentType(t *testing.T) {
	require.Equal(t, "image/png", DetectContentType(File{Content: pngBytes(t)}))
	require.Equal(t, "image/png", DetectContentType(File{ContentType: "application/octet-stream", Content: pngBytes(t)}))
	require.Equal(t, "image/jpeg", DetectContentType(File{ContentType: "image/jpeg"}))
}
