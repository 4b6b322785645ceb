package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gardar/ocrgate/pkg/ocr"
	"github.com/gardar/ocrgate/pkg/predictor"
)

type Handler struct {
	registry  *predictor.Registry
	info      ocr.SystemInfo
	maxUpload int64
}

func NewHandler(registry *predictor.Registry, info ocr.SystemInfo, maxUpload int64) (*Handler, error) {
	if registry == nil {
		return nil, errors.New("predictor registry is required")
	}

	h := &Handler{
		registry:  registry,
		info:      info,
		maxUpload: maxUpload,
	}

	return h, nil
}

func (h *Handler) Attach(r chi.Router) {
	r.Get("/health", h.handleHealth)

	r.Post("/", h.handleOCR)
	r.Post("/ocr", h.handleOCR)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJson(w, map[string]string{"status": "ok"})
}

func writeJson(w http.ResponseWriter, v any) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, code int, err error) {
	text := http.StatusText(code)

	if err != nil {
		text = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	json.NewEncoder(w).Encode(map[string]string{"error": text})
}

// errorStatus maps client mistakes to 4xx and everything else to 500
func errorStatus(err error) int {
	var maxBytes *http.MaxBytesError

	switch {
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case ocr.IsInputError(err):
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := errorStatus(err)

	if code >= http.StatusInternalServerError {
		slog.Error("ocr request failed", "path", r.URL.Path, "error", err)
	}

	writeError(w, code, err)
}
