package server

import (
	"net/http"

	"github.com/gardar/ocrgate/pkg/loader"
	"github.com/gardar/ocrgate/pkg/ocr"
)

func (h *Handler) handleOCR(w http.ResponseWriter, r *http.Request) {
	if h.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.fail(w, r, &ocr.InputError{Err: err})
		return
	}

	defer r.MultipartForm.RemoveAll()

	opts, err := valueOptions(r)

	if err != nil {
		h.fail(w, r, err)
		return
	}

	files, err := readFiles(r)

	if err != nil {
		h.fail(w, r, err)
		return
	}

	inputs, err := loader.Load(files)

	if err != nil {
		h.fail(w, r, err)
		return
	}

	p, err := h.registry.New(opts)

	if err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := ocr.Recognize(r.Context(), p, inputs)

	if err != nil {
		h.fail(w, r, err)
		return
	}

	resp, err := ocr.Respond(r.Header.Get("Accept"), result, h.info)

	if err != nil {
		h.fail(w, r, err)
		return
	}

	if resp.IsHOCR() {
		w.Header().Set("Content-Type", resp.ContentType)
		w.WriteHeader(http.StatusOK)
		w.Write(resp.Body)
		return
	}

	writeJson(w, resp.Records)
}
