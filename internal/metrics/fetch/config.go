package fetch

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
)

// Config is the batch metrics configuration dropped into the inputs
// directory by the harness.
type Config struct {
	AuthToken string `json:"authToken"`
	APIURL    string `json:"apiURL"`
	BatchID   string `json:"batchID"`
	ProjectID string `json:"projectID"`
}

// LoadConfig reads and validates a batch metrics config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch config: %w", err)
	}
	var cfg Config
	if err := sonic.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse batch config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every required field is present.
func (c *Config) Validate() error {
	switch {
	case c.AuthToken == "":
		return fmt.Errorf("batch config missing authToken")
	case c.APIURL == "":
		return fmt.Errorf("batch config missing apiURL")
	case c.BatchID == "":
		return fmt.Errorf("batch config missing batchID")
	case c.ProjectID == "":
		return fmt.Errorf("batch config missing projectID")
	}
	return nil
}
