// Package config loads the YAML configuration shared by the server and the
// command line tool.
package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gardar/ocrgate/pkg/ocr"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	System    SystemConfig    `yaml:"system"`
	Predictor PredictorConfig `yaml:"predictor"`
}

type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	MaxUploadMB int64    `yaml:"max_upload_mb"`
	RateLimit   float64  `yaml:"rate_limit"` // predictor calls per second, 0 disables
	RateBurst   int      `yaml:"rate_burst"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type SystemConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

type PredictorConfig struct {
	Default   string          `yaml:"default"`
	Tesseract TesseractConfig `yaml:"tesseract"`
	DocAI     *DocAIConfig    `yaml:"docai"`
	Remote    *RemoteConfig   `yaml:"remote"`
}

type TesseractConfig struct {
	Disabled       bool     `yaml:"disabled"`
	Languages      []string `yaml:"languages"`
	TessdataPrefix string   `yaml:"tessdata_prefix"`
}

type DocAIConfig struct {
	ProjectID       string `yaml:"project_id"`
	Location        string `yaml:"location"`
	ProcessorID     string `yaml:"processor_id"`
	CredentialsFile string `yaml:"credentials_file"`
	DebugDir        string `yaml:"debug_dir"`
}

type RemoteConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        ":8080",
			MaxUploadMB: 50,
			RateBurst:   1,
			CORSOrigins: []string{"*"},
		},
		System: SystemConfig{
			Name:    "ocrgate",
			Version: "0.1.0",
		},
		Predictor: PredictorConfig{
			Default: "tesseract",
			Tesseract: TesseractConfig{
				Languages: []string{"eng"},
			},
		},
	}
}

// Load reads the configuration file at path. Environment variables in the
// file are expanded and unknown keys are rejected. An empty path returns
// the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// Parse decodes a YAML document over the defaults
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	data = []byte(os.ExpandEnv(string(data)))

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	if cfg.Server.MaxUploadMB <= 0 {
		cfg.Server.MaxUploadMB = 50
	}

	if cfg.Server.RateBurst <= 0 {
		cfg.Server.RateBurst = 1
	}

	if cfg.Predictor.DocAI != nil && cfg.Predictor.DocAI.CredentialsFile == "" {
		cfg.Predictor.DocAI.CredentialsFile = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	}

	return cfg, nil
}

// SystemInfo identifies the service in hOCR output
func (c *Config) SystemInfo() ocr.SystemInfo {
	return ocr.SystemInfo{
		Name:    c.System.Name,
		Version: c.System.Version,
	}
}

// MaxUploadBytes is the request body limit of the upload endpoint
func (c *Config) MaxUploadBytes() int64 {
	return c.Server.MaxUploadMB << 20
}
