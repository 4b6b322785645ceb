// Package predictor selects and builds the OCR engine for a request.
//
// Engines register a Factory under a model name. The registry builds a fresh
// ocr.Predictor per request from the request options, so language hints and
// geometry settings never leak between requests.
package predictor

import (
	"errors"
	"sort"
	"strings"

	"github.com/gardar/ocrgate/pkg/ocr"

	"golang.org/x/time/rate"
)

// Factory builds a predictor configured for a single request
type Factory func(opts ocr.Options) (ocr.Predictor, error)

type Registry struct {
	defaultModel string
	firstModel   string
	factories    map[string]Factory

	limiter *rate.Limiter
}

// NewRegistry creates an empty registry. Requests without a model use
// defaultModel; when it is empty or never registered the first registered
// model is used.
func NewRegistry(defaultModel string) *Registry {
	return &Registry{
		defaultModel: strings.ToLower(defaultModel),
		factories:    make(map[string]Factory),
	}
}

// SetLimiter throttles every predictor built by the registry. A nil limiter
// disables throttling.
func (r *Registry) SetLimiter(l *rate.Limiter) {
	r.limiter = l
}

func (r *Registry) Register(model string, f Factory) {
	model = strings.ToLower(model)

	if r.firstModel == "" {
		r.firstModel = model
	}

	r.factories[model] = f
}

// New builds the predictor named by opts.Model. An unknown model or invalid
// options are reported as ocr.InputError.
func (r *Registry) New(opts ocr.Options) (ocr.Predictor, error) {
	model := strings.ToLower(strings.TrimSpace(opts.Model))

	if model == "" {
		model = r.DefaultModel()
	}

	f, ok := r.factories[model]

	if !ok {
		return nil, ocr.InputErrorf("unknown model %q (available: %s)", opts.Model, strings.Join(r.Models(), ", "))
	}

	opts.Model = model

	p, err := f(opts)

	if err != nil {
		if ocr.IsInputError(err) {
			return nil, err
		}

		return nil, &ocr.InputError{Err: err}
	}

	if p == nil {
		return nil, errors.New("predictor factory returned nil: " + model)
	}

	if r.limiter != nil {
		p = NewLimited(r.limiter, p)
	}

	return p, nil
}

// Models lists the registered model names in sorted order
func (r *Registry) Models() []string {
	models := make([]string, 0, len(r.factories))

	for m := range r.factories {
		models = append(models, m)
	}

	sort.Strings(models)

	return models
}

// DefaultModel is the model used when a request names none
func (r *Registry) DefaultModel() string {
	if _, ok := r.factories[r.defaultModel]; ok {
		return r.defaultModel
	}

	return r.firstModel
}
