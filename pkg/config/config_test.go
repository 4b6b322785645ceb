package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gardar/ocrgate/pkg/ocr"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Equal(t, int64(50<<20), cfg.MaxUploadBytes())
	require.Equal(t, ocr.SystemInfo{Name: "ocrgate", Version: "0.1.0"}, cfg.SystemInfo())

	r := cfg.Registry()
	require.Equal(t, []string{"tesseract"}, r.Models())
	require.Equal(t, "tesseract", r.DefaultModel())
}

func TestLoadFile(t *testing.T) {
	t.Setenv("OCRGATE_REMOTE", "http://doctr:8000/ocr")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/secrets/sa.json")

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9090"
  max_upload_mb: 10
  rate_limit: 2.5
  cors_origins: ["https://example.com"]
system:
  version: "1.2.3"
predictor:
  default: remote
  tesseract:
    languages: [eng, isl]
  docai:
    project_id: my-project
    location: eu
    processor_id: abc123
  remote:
    url: ${OCRGATE_REMOTE}
    timeout: 30s
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.Server.Addr)
	require.Equal(t, int64(10<<20), cfg.MaxUploadBytes())
	require.Equal(t, 1, cfg.Server.RateBurst)
	require.Equal(t, []string{"https://example.com"}, cfg.Server.CORSOrigins)
	require.Equal(t, "ocrgate 1.2.3", cfg.SystemInfo().String())

	require.Equal(t, []string{"eng", "isl"}, cfg.Predictor.Tesseract.Languages)
	require.Equal(t, "/secrets/sa.json", cfg.Predictor.DocAI.CredentialsFile)
	require.Equal(t, "http://doctr:8000/ocr", cfg.Predictor.Remote.URL)
	require.Equal(t, 30*time.Second, cfg.Predictor.Remote.Timeout)

	r := cfg.Registry()
	require.Equal(t, []string{"docai", "remote", "tesseract"}, r.Models())
	require.Equal(t, "remote", r.DefaultModel())
	require.NotNil(t, cfg.createLimiter())
}

func TestParseUnknownField(t *testing.T) {
	_, err := Parse([]byte("server:\n  port: 80\n"))
	require.Error(t, err)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestTesseractDisabled(t *testing.T) {
	cfg, err := Parse([]byte("predictor:\n  default: ''\n  tesseract:\n    disabled: true\n  remote:\n    url: http://localhost\n"))
	require.NoError(t, err)

	r := cfg.Registry()
	require.Equal(t, []string{"remote"}, r.Models())
	require.Equal(t, "remote", r.DefaultModel())
}

func TestTesseractDisabledKeepsDefault(t *testing.T) {
	cfg, err := Parse([]byte("predictor:\n  tesseract:\n    disabled: true\n  remote:\n    url: http://localhost\n"))
	require.NoError(t, err)
	require.Equal(t, "tesseract", cfg.Predictor.Default)

	r := cfg.Registry()
	require.Equal(t, []string{"remote"}, r.Models())
	require.Equal(t, "remote", r.DefaultModel())

	_, err = r.New(ocr.Options{})
	require.NoError(t, err)
}
