package ocr

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gardar/ocrgate/pkg/geometry"
)

func TestIsHOCRRequest(t *testing.T) {
	tests := []struct {
		accept string
		want   bool
	}{
		{"", false},
		{"application/json", false},
		{"*/*", false},
		{"text/vnd.hocr+html", true},
		{"text/vnd.hocr+xml", true},
		{"text/xml", true},
		{"application/xml", true},
		{"application/xhtml+xml", true},
		{"text/html", true},
		{"TEXT/XML; charset=utf-8", true},
		{"application/json, text/xml", false},
		{"application/json;q=0.5, text/xml", true},
		{"text/xml;q=0, application/json", false},
		{"image/png, text/vnd.hocr+html", true},
		{"not a media type", false},
	}

	for _, tt := range tests {
		t.Run(tt.accept, func(t *testing.T) {
			require.Equal(t, tt.want, IsHOCRRequest(tt.accept))
		})
	}
}

func TestRespondHOCR(t *testing.T) {
	res := &Result{Pages: []Page{samplePage("en")}, Filenames: []string{"a.png"}}

	resp, err := Respond("text/vnd.hocr+html", res, testInfo)
	require.NoError(t, err)
	require.True(t, resp.IsHOCR())
	require.Equal(t, "text/xml", resp.ContentType)
	require.Nil(t, resp.Records)
	require.Contains(t, string(resp.Body), `class="ocr_page"`)
}

func TestRespondJSON(t *testing.T) {
	res := &Result{Pages: []Page{samplePage("en")}, Filenames: []string{"a.png"}}

	for _, accept := range []string{"application/json", ""} {
		resp, err := Respond(accept, res, testInfo)
		require.NoError(t, err)
		require.False(t, resp.IsHOCR())
		require.Equal(t, "application/json", resp.ContentType)
		require.Nil(t, resp.Body)
		require.Len(t, resp.Records, 1)
		require.Equal(t, "a.png", resp.Records[0].Name)
	}
}

func TestRespondMismatch(t *testing.T) {
	res := &Result{Pages: []Page{samplePage("en")}}

	_, err := Respond("", res, testInfo)
	require.ErrorIs(t, err, ErrFilenameCountMismatch)
	require.False(t, IsInputError(err))
}

func TestRespondUnresolvedGeometry(t *testing.T) {
	page := samplePage("en")
	page.Blocks = []Block{{ObjectnessScore: 0.5}}

	res := &Result{Pages: []Page{page}, Filenames: []string{"a.png"}}

	for _, accept := range []string{"", "application/json", "text/xml"} {
		_, err := Respond(accept, res, testInfo)
		require.ErrorIs(t, err, geometry.ErrInvalidGeometry, "accept %q", accept)
		require.False(t, IsInputError(err))
	}

	page = samplePage("en")
	page.Blocks[0].Lines[0].Words[1].Geometry = geometry.Geometry{}

	_, err := Respond("", &Result{Pages: []Page{page}, Filenames: []string{"a.png"}}, testInfo)
	require.ErrorIs(t, err, geometry.ErrInvalidGeometry)
	require.Contains(t, err.Error(), "word 2")

	_, err = CreateHOCRDocument([]Page{page}, testInfo)
	require.ErrorIs(t, err, geometry.ErrInvalidGeometry)
}

func TestRespondNilResult(t *testing.T) {
	resp, err := Respond("text/xml", nil, testInfo)
	require.NoError(t, err)
	require.Contains(t, string(resp.Body), `xml:lang="en"`)
}
