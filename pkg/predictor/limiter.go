package predictor

import (
	"context"

	"github.com/gardar/ocrgate/pkg/ocr"

	"golang.org/x/time/rate"
)

type limitedPredictor struct {
	limiter   *rate.Limiter
	predictor ocr.Predictor
}

// NewLimited waits on l before every call to p
func NewLimited(l *rate.Limiter, p ocr.Predictor) ocr.Predictor {
	return &limitedPredictor{
		limiter:   l,
		predictor: p,
	}
}

func (p *limitedPredictor) Predict(ctx context.Context, input ocr.Input) ([]ocr.Page, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	return p.predictor.Predict(ctx, input)
}
