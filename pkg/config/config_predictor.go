package config

import (
	"golang.org/x/time/rate"

	"github.com/gardar/ocrgate/pkg/predictor"
	"github.com/gardar/ocrgate/pkg/predictor/docai"
	"github.com/gardar/ocrgate/pkg/predictor/remote"
	"github.com/gardar/ocrgate/pkg/predictor/tesseract"
)

// Registry builds the predictor registry for the configured engines.
// Document AI and the remote service are only registered when configured.
func (c *Config) Registry() *predictor.Registry {
	r := predictor.NewRegistry(c.Predictor.Default)

	if !c.Predictor.Tesseract.Disabled {
		r.Register(tesseract.Model, tesseract.NewFactory(tesseract.Config{
			Languages:      c.Predictor.Tesseract.Languages,
			TessdataPrefix: c.Predictor.Tesseract.TessdataPrefix,
		}))
	}

	if cfg := c.Predictor.DocAI; cfg != nil {
		r.Register(docai.Model, docai.NewFactory(docai.Config{
			ProjectID:       cfg.ProjectID,
			Location:        cfg.Location,
			ProcessorID:     cfg.ProcessorID,
			CredentialsFile: cfg.CredentialsFile,
			DebugDir:        cfg.DebugDir,
		}))
	}

	if cfg := c.Predictor.Remote; cfg != nil {
		r.Register(remote.Model, remote.NewFactory(remote.Config{
			URL:     cfg.URL,
			Timeout: cfg.Timeout,
		}))
	}

	r.SetLimiter(c.createLimiter())

	return r
}

func (c *Config) createLimiter() *rate.Limiter {
	if c.Server.RateLimit <= 0 {
		return nil
	}

	return rate.NewLimiter(rate.Limit(c.Server.RateLimit), c.Server.RateBurst)
}
