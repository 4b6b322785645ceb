package ocr

import (
	"mime"
	"slices"
	"strconv"
	"strings"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeHOCR = "text/xml"
)

// hocrTypes are the media types answered with an hOCR document
var hocrTypes = map[string]bool{
	"text/xml":              true,
	"application/xml":       true,
	"application/xhtml+xml": true,
	"text/html":             true,
	"text/vnd.hocr+html":    true,
	"text/vnd.hocr+xml":     true,
}

// Response is the output artifact of a recognition request. Exactly one of
// Records and Body is set, matching ContentType.
type Response struct {
	ContentType string
	Records     []Record
	Body        []byte
}

// IsHOCR reports whether the response carries an hOCR document
func (r *Response) IsHOCR() bool {
	return r.ContentType == ContentTypeHOCR
}

// Respond selects the output format from an Accept header value and builds
// it from the result: hOCR for XML-like media types, JSON records otherwise.
func Respond(accept string, res *Result, info SystemInfo) (*Response, error) {
	if res == nil {
		res = &Result{}
	}

	if IsHOCRRequest(accept) {
		body, err := DocumentHOCR(res.Pages, info)
		if err != nil {
			return nil, err
		}
		return &Response{ContentType: ContentTypeHOCR, Body: body}, nil
	}

	records, err := BuildRecords(res.Pages, res.Filenames)
	if err != nil {
		return nil, err
	}
	return &Response{ContentType: ContentTypeJSON, Records: records}, nil
}

// IsHOCRRequest reports whether an Accept header asks for hOCR. Entries are
// considered by descending quality; the first one naming an hOCR type, JSON
// or a wildcard decides. An empty header means JSON.
func IsHOCRRequest(accept string) bool {
	for _, mediaType := range acceptedTypes(accept) {
		switch {
		case hocrTypes[mediaType]:
			return true
		case mediaType == ContentTypeJSON, strings.HasSuffix(mediaType, "/*"):
			return false
		}
	}
	return false
}

type acceptEntry struct {
	mediaType string
	quality   float64
}

// acceptedTypes parses an Accept header into media types ordered by quality.
// Entries with q=0 and unparsable entries are dropped.
func acceptedTypes(accept string) []string {
	var entries []acceptEntry
	for _, part := range strings.Split(accept, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		mediaType, params, err := mime.ParseMediaType(part)
		if err != nil {
			continue
		}

		quality := 1.0
		if q, ok := params["q"]; ok {
			if v, err := strconv.ParseFloat(q, 64); err == nil {
				quality = v
			}
		}
		if quality <= 0 {
			continue
		}

		entries = append(entries, acceptEntry{mediaType: mediaType, quality: quality})
	}

	slices.SortStableFunc(entries, func(a, b acceptEntry) int {
		switch {
		case a.quality > b.quality:
			return -1
		case a.quality < b.quality:
			return 1
		}
		return 0
	})

	types := make([]string, len(entries))
	for i, e := range entries {
		types[i] = e.mediaType
	}
	return types
}
