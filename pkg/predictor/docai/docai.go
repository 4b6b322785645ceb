// Package docai recognizes documents with Google Document AI.
//
// Uploads are sent as raw documents to an OCR processor. The response is
// converted into the block, line and word hierarchy of package ocr using the
// normalized vertices Document AI reports for every layout element.
//
// Authentication uses the configured credentials file, or the
// GOOGLE_APPLICATION_CREDENTIALS environment variable when none is set.
package docai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gardar/ocrgate/pkg/ocr"
	"github.com/gardar/ocrgate/pkg/predictor"
)

// Model is the registry name of the Document AI predictor
const Model = "docai"

type Predictor struct {
	processor Processor
	opts      ocr.Options

	debugDir string
}

func New(processor Processor, opts ocr.Options) *Predictor {
	return &Predictor{
		processor: processor,
		opts:      opts,
	}
}

// NewFactory returns a registry factory that talks to the configured
// processor
func NewFactory(cfg Config) predictor.Factory {
	return func(opts ocr.Options) (ocr.Predictor, error) {
		client, err := NewClient(cfg)
		if err != nil {
			return nil, err
		}

		p := New(client, opts)
		p.debugDir = cfg.DebugDir

		return p, nil
	}
}

func (p *Predictor) Predict(ctx context.Context, input ocr.Input) ([]ocr.Page, error) {
	hints := make([]string, 0, len(p.opts.Languages))

	for _, l := range p.opts.Languages {
		if code := ocr.NormalizeLanguage(l); code != ocr.UnknownLanguage {
			hints = append(hints, code)
		}
	}

	req := newProcessRequest(input.Content, input.ContentType, hints)

	doc, err := p.processor.ProcessDocument(ctx, req)
	if err != nil {
		return nil, err
	}

	if p.debugDir != "" {
		if err := writeDebugDocument(p.debugDir, input.Name, doc); err != nil {
			slog.Warn("failed to write document ai response", "file", input.Name, "error", err)
		}
	}

	pages, err := PagesFromProto(doc, p.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to convert document: %w", err)
	}

	return pages, nil
}
