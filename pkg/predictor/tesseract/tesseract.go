// Package tesseract recognizes images with a local Tesseract installation
// through gosseract.
package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"golang.org/x/text/language"

	"github.com/gardar/ocrgate/pkg/ocr"
	"github.com/gardar/ocrgate/pkg/predictor"
)

// Model is the registry name of the Tesseract predictor
const Model = "tesseract"

type Config struct {
	// Languages used when a request sends no hints
	Languages []string

	TessdataPrefix string
}

// Engine is the subset of gosseract.Client the predictor drives
type Engine interface {
	SetLanguage(langs ...string) error
	SetImageFromBytes(data []byte) error
	GetBoundingBoxesVerbose() ([]gosseract.BoundingBox, error)
	Close() error
}

type Predictor struct {
	cfg  Config
	opts ocr.Options

	newEngine func() (Engine, error)
}

func New(cfg Config, opts ocr.Options) *Predictor {
	p := &Predictor{
		cfg:  cfg,
		opts: opts,
	}

	p.newEngine = p.gosseractEngine

	return p
}

func NewFactory(cfg Config) predictor.Factory {
	return func(opts ocr.Options) (ocr.Predictor, error) {
		return New(cfg, opts), nil
	}
}

func (p *Predictor) gosseractEngine() (Engine, error) {
	client := gosseract.NewClient()

	if p.cfg.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(p.cfg.TessdataPrefix); err != nil {
			client.Close()
			return nil, err
		}
	}

	return client, nil
}

func (p *Predictor) Predict(ctx context.Context, input ocr.Input) ([]ocr.Page, error) {
	if input.IsPDF() {
		return nil, ocr.InputErrorf("model %s does not support PDF input (%s)", Model, input.Name)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	width, height, err := imageSize(input)
	if err != nil {
		return nil, err
	}

	engine, err := p.newEngine()
	if err != nil {
		return nil, fmt.Errorf("failed to create tesseract client: %w", err)
	}
	defer engine.Close()

	langs := p.languages()

	if err := engine.SetLanguage(langs...); err != nil {
		return nil, ocr.InputErrorf("unsupported languages %v: %v", langs, err)
	}

	if err := engine.SetImageFromBytes(input.Content); err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}

	boxes, err := engine.GetBoundingBoxesVerbose()
	if err != nil {
		return nil, fmt.Errorf("failed to recognize image: %w", err)
	}

	page, err := buildPage(boxes, width, height, p.opts.StraightPages)
	if err != nil {
		return nil, err
	}

	page.Language = ocr.Language{Value: ocr.UnknownLanguage}

	// tesseract does not detect languages; a single configured model is
	// the best available answer
	if p.opts.DetectLanguage && len(langs) == 1 {
		page.Language.Value = ocr.NormalizeLanguage(langs[0])
	}

	return []ocr.Page{page}, nil
}

func (p *Predictor) languages() []string {
	src := p.opts.Languages
	if len(src) == 0 {
		src = p.cfg.Languages
	}

	var langs []string

	for _, l := range src {
		if l = tesseractLanguage(l); l != "" {
			langs = append(langs, l)
		}
	}

	if len(langs) == 0 {
		return []string{"eng"}
	}

	return langs
}

// tesseractLanguage maps a language code to the ISO 639-2 name of a
// tesseract model ("en" becomes "eng"). Script models like "chi_sim" are
// passed through.
func tesseractLanguage(code string) string {
	code = strings.TrimSpace(code)

	if code == "" || strings.Contains(code, "_") {
		return code
	}

	tag, err := language.Parse(code)
	if err != nil {
		return code
	}

	base, _ := tag.Base()

	if iso3 := base.ISO3(); iso3 != "" {
		return iso3
	}

	return code
}

func imageSize(input ocr.Input) (int, int, error) {
	if input.Image != nil {
		b := input.Image.Bounds()
		return b.Dx(), b.Dy(), nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(input.Content))
	if err != nil {
		return 0, 0, ocr.InputErrorf("unsupported file format for file %q: %v", input.Name, err)
	}

	return cfg.Width, cfg.Height, nil
}
