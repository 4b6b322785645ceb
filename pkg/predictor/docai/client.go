package docai

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"
	"google.golang.org/protobuf/encoding/protojson"
)

// Processor sends raw document bytes to Document AI
type Processor interface {
	ProcessDocument(ctx context.Context, req *documentaipb.ProcessRequest) (*documentaipb.Document, error)
}

// Client is a Processor backed by the Document AI API. A connection is
// opened per call.
type Client struct {
	cfg Config
}

func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Client{cfg: cfg}, nil
}

func (c *Client) ProcessDocument(ctx context.Context, req *documentaipb.ProcessRequest) (*documentaipb.Document, error) {
	opts := []option.ClientOption{
		option.WithEndpoint(c.cfg.endpoint()),
	}

	if path := c.cfg.credentialsFile(); path != "" {
		opts = append(opts, option.WithCredentialsFile(path))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Document AI client: %w", err)
	}
	defer client.Close()

	req.Name = c.cfg.processorName()

	resp, err := client.ProcessDocument(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to process document: %w", err)
	}

	if resp.Document == nil {
		return nil, errNoDocument
	}

	return resp.Document, nil
}

// newProcessRequest builds the request for raw document bytes
func newProcessRequest(content []byte, mimeType string, languageHints []string) *documentaipb.ProcessRequest {
	req := &documentaipb.ProcessRequest{
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  content,
				MimeType: mimeType,
			},
		},
		SkipHumanReview: true,
	}

	if len(languageHints) > 0 {
		req.ProcessOptions = &documentaipb.ProcessOptions{
			OcrConfig: &documentaipb.OcrConfig{
				Hints: &documentaipb.OcrConfig_Hints{
					LanguageHints: languageHints,
				},
			},
		}
	}

	return req
}

// MarshalDocument renders a Document AI response as indented JSON
func MarshalDocument(doc *documentaipb.Document) ([]byte, error) {
	return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(doc)
}

// UnmarshalDocument reads a Document AI response saved as JSON
func UnmarshalDocument(data []byte) (*documentaipb.Document, error) {
	doc := &documentaipb.Document{}

	if err := (protojson.UnmarshalOptions{DiscardUnknown: true}).Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}

	return doc, nil
}

func writeDebugDocument(dir, name string, doc *documentaipb.Document) error {
	data, err := MarshalDocument(doc)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if base == "" || base == "." {
		base = "document"
	}

	return os.WriteFile(filepath.Join(dir, base+".docai.json"), data, 0644)
}
