package remote

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gardar/ocrgate/pkg/geometry"
	"github.com/gardar/ocrgate/pkg/ocr"
)

const sampleResponse = `{
  "pages": [{
    "page_idx": 0,
    "dimensions": [1000, 2000],
    "orientation": {"value": 0, "confidence": null},
    "language": {"value": "en", "confidence": 0.87},
    "blocks": [{
      "geometry": [[0.1, 0.2], [0.3, 0.4]],
      "objectness_score": 0.915,
      "lines": [{
        "geometry": [[0.1, 0.2], [0.3, 0.2], [0.3, 0.3], [0.1, 0.3]],
        "objectness_score": 0.8,
        "words": [{
          "value": "Hello",
          "confidence": 0.994,
          "geometry": [[0.1, 0.2], [0.2, 0.3]],
          "objectness_score": 0.9,
          "crop_orientation": {"value": 0, "confidence": 0.99}
        }]
      }]
    }]
  }]
}`

func TestPredict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		require.Equal(t, "false", r.FormValue("straight_pages"))
		require.Equal(t, "true", r.FormValue("detect_language"))
		require.Equal(t, "en,fr", r.FormValue("languages"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		data, err := io.ReadAll(file)
		require.NoError(t, err)
		require.Equal(t, "scan.png", header.Filename)
		require.Equal(t, "image/png", header.Header.Get("Content-Type"))
		require.Equal(t, []byte("png"), data)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, sampleResponse)
	}))
	defer server.Close()

	p, err := New(Config{URL: server.URL + "/"}, ocr.Options{
		Languages:      []string{"en", "fr"},
		DetectLanguage: true,
	})
	require.NoError(t, err)

	pages, err := p.Predict(context.Background(), ocr.Input{Name: "scan.png", ContentType: "image/png", Content: []byte("png")})
	require.NoError(t, err)
	require.Len(t, pages, 1)

	page := pages[0]
	require.Equal(t, ocr.Dimensions{Height: 1000, Width: 2000}, page.Dimensions)
	require.Nil(t, page.Orientation.Confidence)
	require.Equal(t, "en", page.Language.Value)
	require.Equal(t, 0.87, *page.Language.Confidence)

	block := page.Blocks[0]
	require.Equal(t, geometry.KindBox, block.Geometry.Kind())
	require.Equal(t, 0.915, block.ObjectnessScore)
	require.Equal(t, geometry.KindPolygon, block.Lines[0].Geometry.Kind())

	word := block.Lines[0].Words[0]
	require.Equal(t, "Hello", word.Value)
	require.Equal(t, 0.99, *word.CropOrientation.Confidence)
}

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)

	return server
}

func TestPredictStraightPages(t *testing.T) {
	server := serve(t, http.StatusOK, sampleResponse)

	p, err := New(Config{URL: server.URL}, ocr.Options{StraightPages: true})
	require.NoError(t, err)

	pages, err := p.Predict(context.Background(), ocr.Input{Name: "a.png"})
	require.NoError(t, err)

	line := pages[0].Blocks[0].Lines[0]
	box, ok := line.Geometry.Box()
	require.True(t, ok)
	require.Equal(t, geometry.Box{XMin: 0.1, YMin: 0.2, XMax: 0.3, YMax: 0.3}, box)

	require.Equal(t, ocr.UnknownLanguage, pages[0].Language.Value)
}

func TestPredictInvalidGeometry(t *testing.T) {
	server := serve(t, http.StatusOK, `{"pages":[{"dimensions":[10,10],"blocks":[{"geometry":[[0.1,0.2]]}]}]}`)

	p, err := New(Config{URL: server.URL}, ocr.Options{})
	require.NoError(t, err)

	_, err = p.Predict(context.Background(), ocr.Input{Name: "a.png"})
	require.ErrorIs(t, err, geometry.ErrInvalidGeometry)
	require.False(t, ocr.IsInputError(err))
}

func TestPredictStatus(t *testing.T) {
	rejected := serve(t, http.StatusUnsupportedMediaType, "unsupported file format")

	p, err := New(Config{URL: rejected.URL}, ocr.Options{})
	require.NoError(t, err)

	_, err = p.Predict(context.Background(), ocr.Input{Name: "a.gif"})
	require.True(t, ocr.IsInputError(err))
	require.Contains(t, err.Error(), "unsupported file format")

	broken := serve(t, http.StatusInternalServerError, "boom")

	p, err = New(Config{URL: broken.URL}, ocr.Options{})
	require.NoError(t, err)

	_, err = p.Predict(context.Background(), ocr.Input{Name: "a.png"})
	require.Error(t, err)
	require.False(t, ocr.IsInputError(err))
}

func TestNewRequiresURL(t *testing.T) {
	_, err := NewFactory(Config{})(ocr.Options{})
	require.Error(t, err)
}
