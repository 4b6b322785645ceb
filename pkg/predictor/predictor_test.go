package predictor

import (
	"context"
	"errors"
	"testing"

	"github.com/gardar/ocrgate/pkg/ocr"
	"github.com/stretchr/testify/require"

	"golang.org/x/time/rate"
)

type stubPredictor struct {
	opts ocr.Options
}

func (s *stubPredictor) Predict(ctx context.Context, input ocr.Input) ([]ocr.Page, error) {
	return []ocr.Page{{Dimensions: ocr.Dimensions{Height: 1, Width: 1}}}, nil
}

func stubFactory(opts ocr.Options) (ocr.Predictor, error) {
	return &stubPredictor{opts: opts}, nil
}

func TestRegistryDefault(t *testing.T) {
	r := NewRegistry("")
	r.Register("Tesseract", stubFactory)
	r.Register("remote", stubFactory)

	require.Equal(t, "tesseract", r.DefaultModel())
	require.Equal(t, []string{"remote", "tesseract"}, r.Models())

	p, err := r.New(ocr.Options{Languages: []string{"eng"}})
	require.NoError(t, err)

	stub := p.(*stubPredictor)
	require.Equal(t, "tesseract", stub.opts.Model)
	require.Equal(t, []string{"eng"}, stub.opts.Languages)

	p, err = r.New(ocr.Options{Model: " REMOTE "})
	require.NoError(t, err)
	require.Equal(t, "remote", p.(*stubPredictor).opts.Model)
}

func TestRegistryUnregisteredDefault(t *testing.T) {
	r := NewRegistry("tesseract")
	r.Register("docai", stubFactory)
	r.Register("remote", stubFactory)

	require.Equal(t, "docai", r.DefaultModel())

	p, err := r.New(ocr.Options{})
	require.NoError(t, err)
	require.Equal(t, "docai", p.(*stubPredictor).opts.Model)

	_, err = r.New(ocr.Options{Model: "tesseract"})
	require.True(t, ocr.IsInputError(err))
}

func TestRegistryUnknownModel(t *testing.T) {
	r := NewRegistry("tesseract")
	r.Register("tesseract", stubFactory)

	_, err := r.New(ocr.Options{Model: "crnn_vgg16_bn"})
	require.Error(t, err)
	require.True(t, ocr.IsInputError(err))
	require.Contains(t, err.Error(), "crnn_vgg16_bn")
	require.Contains(t, err.Error(), "tesseract")
}

func TestRegistryFactoryError(t *testing.T) {
	r := NewRegistry("docai")
	r.Register("docai", func(opts ocr.Options) (ocr.Predictor, error) {
		return nil, errors.New("document ai is not configured")
	})

	_, err := r.New(ocr.Options{})
	require.True(t, ocr.IsInputError(err))
	require.EqualError(t, err, "document ai is not configured")
}

func TestRegistryLimiter(t *testing.T) {
	r := NewRegistry("tesseract")
	r.Register("tesseract", stubFactory)
	r.SetLimiter(rate.NewLimiter(rate.Inf, 1))

	p, err := r.New(ocr.Options{})
	require.NoError(t, err)

	_, ok := p.(*limitedPredictor)
	require.True(t, ok)

	pages, err := p.Predict(context.Background(), ocr.Input{Name: "a.png"})
	require.NoError(t, err)
	require.Len(t, pages, 1)
}

func TestLimitedCanceled(t *testing.T) {
	l := rate.NewLimiter(rate.Limit(0.001), 1)
	require.True(t, l.Allow())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLimited(l, &stubPredictor{}).Predict(ctx, ocr.Input{})
	require.Error(t, err)
}
