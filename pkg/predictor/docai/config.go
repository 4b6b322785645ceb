package docai

import (
	"errors"
	"fmt"
	"os"
)

// Config holds the Google Document AI processor settings
type Config struct {
	ProjectID   string
	Location    string
	ProcessorID string

	// CredentialsFile falls back to GOOGLE_APPLICATION_CREDENTIALS when empty
	CredentialsFile string

	// DebugDir, when set, receives the raw API response of every call as JSON
	DebugDir string
}

// Validate checks that the processor can be addressed
func (c Config) Validate() error {
	var missing []string

	if c.ProjectID == "" {
		missing = append(missing, "project_id")
	}

	if c.Location == "" {
		missing = append(missing, "location")
	}

	if c.ProcessorID == "" {
		missing = append(missing, "processor_id")
	}

	if len(missing) > 0 {
		return fmt.Errorf("document ai is not configured: missing %v", missing)
	}

	return nil
}

func (c Config) credentialsFile() string {
	if c.CredentialsFile != "" {
		return c.CredentialsFile
	}

	return os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
}

func (c Config) endpoint() string {
	return fmt.Sprintf("%s-documentai.googleapis.com:443", c.Location)
}

func (c Config) processorName() string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s", c.ProjectID, c.Location, c.ProcessorID)
}

var errNoDocument = errors.New("document ai returned no document")
