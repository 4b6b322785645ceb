// Package remote recognizes documents with an inference service reachable
// over HTTP.
//
// The service receives each upload as a multipart "file" field and answers
// with the docTR export format: a list of pages holding blocks, lines and
// words whose geometries are lists of normalized [x, y] points.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/gardar/ocrgate/pkg/ocr"
	"github.com/gardar/ocrgate/pkg/predictor"
)

// Model is the registry name of the remote predictor
const Model = "remote"

type Config struct {
	URL     string
	Timeout time.Duration
}

type Predictor struct {
	url    string
	client *http.Client
	opts   ocr.Options
}

func New(cfg Config, opts ocr.Options) (*Predictor, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("remote predictor is not configured: missing url")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Predictor{
		url:    strings.TrimRight(cfg.URL, "/"),
		client: &http.Client{Timeout: timeout},
		opts:   opts,
	}, nil
}

func NewFactory(cfg Config) predictor.Factory {
	return func(opts ocr.Options) (ocr.Predictor, error) {
		return New(cfg, opts)
	}
}

func (p *Predictor) Predict(ctx context.Context, input ocr.Input) ([]ocr.Page, error) {
	body, contentType, err := p.encode(input)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := strings.TrimSpace(string(data))

		switch resp.StatusCode {
		case http.StatusBadRequest, http.StatusUnsupportedMediaType, http.StatusUnprocessableEntity:
			return nil, ocr.InputErrorf("inference rejected %s: %s", input.Name, msg)
		}

		return nil, fmt.Errorf("inference failed with status %d: %s", resp.StatusCode, msg)
	}

	var result response

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return result.toPages(p.opts)
}

func (p *Predictor) encode(input ocr.Input) (io.Reader, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, input.Name))
	h.Set("Content-Type", input.ContentType)

	part, err := writer.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}

	if _, err := part.Write(input.Content); err != nil {
		return nil, "", fmt.Errorf("copy file data: %w", err)
	}

	if err := writer.WriteField("straight_pages", strconv.FormatBool(p.opts.StraightPages)); err != nil {
		return nil, "", err
	}

	if err := writer.WriteField("detect_language", strconv.FormatBool(p.opts.DetectLanguage)); err != nil {
		return nil, "", err
	}

	if len(p.opts.Languages) > 0 {
		if err := writer.WriteField("languages", strings.Join(p.opts.Languages, ",")); err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return body, writer.FormDataContentType(), nil
}
