package server

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gardar/ocrgate/pkg/loader"
	"github.com/gardar/ocrgate/pkg/ocr"
)

func valueModel(r *http.Request) string {
	if val := r.FormValue("model"); val != "" {
		return val
	}

	if val := r.FormValue("reco_arch"); val != "" {
		return val
	}

	return ""
}

func valueLanguages(r *http.Request) []string {
	var langs []string

	for _, val := range r.Form["languages"] {
		for _, l := range strings.Split(val, ",") {
			if l = strings.TrimSpace(l); l != "" {
				langs = append(langs, l)
			}
		}
	}

	return langs
}

func valueBool(r *http.Request, key string, fallback bool) (bool, error) {
	val := strings.TrimSpace(r.FormValue(key))

	if val == "" {
		return fallback, nil
	}

	b, err := strconv.ParseBool(val)

	if err != nil {
		return false, ocr.InputErrorf("invalid value %q for %s", val, key)
	}

	return b, nil
}

func valueOptions(r *http.Request) (ocr.Options, error) {
	straight, err := valueBool(r, "straight_pages", true)

	if err != nil {
		return ocr.Options{}, err
	}

	detect, err := valueBool(r, "detect_language", false)

	if err != nil {
		return ocr.Options{}, err
	}

	return ocr.Options{
		Model:          valueModel(r),
		Languages:      valueLanguages(r),
		StraightPages:  straight,
		DetectLanguage: detect,
	}, nil
}

// readFiles reads every upload of the "files" field in order, falling back
// to a single "file" field
func readFiles(r *http.Request) ([]loader.File, error) {
	if r.MultipartForm == nil {
		return nil, ocr.InputErrorf("no files uploaded")
	}

	headers := r.MultipartForm.File["files"]

	if len(headers) == 0 {
		headers = r.MultipartForm.File["file"]
	}

	if len(headers) == 0 {
		return nil, ocr.InputErrorf("no files uploaded")
	}

	files := make([]loader.File, 0, len(headers))

	for _, header := range headers {
		f, err := header.Open()

		if err != nil {
			return nil, ocr.InputErrorf("failed to open %q: %v", header.Filename, err)
		}

		data, err := io.ReadAll(f)
		f.Close()

		if err != nil {
			return nil, ocr.InputErrorf("failed to read %q: %v", header.Filename, err)
		}

		files = append(files, loader.File{
			Name: header.Filename,

			Content:     data,
			ContentType: header.Header.Get("Content-Type"),
		})
	}

	return files, nil
}
