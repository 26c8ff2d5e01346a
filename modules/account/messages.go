package account

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed messages.yaml
var defaultMessages []byte

// Catalog maps response codes to user-facing texts.
type Catalog struct {
	Errors  map[string]string `yaml:"errors"`
	Success map[string]string `yaml:"success"`
}

// LoadCatalog parses a YAML catalog. Codes missing from data fall back to
// the built-in texts.
func LoadCatalog(data []byte) (*Catalog, error) {
	c := DefaultCatalog()

	var override Catalog
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parse message catalog: %w", err)
	}
	for k, v := range override.Errors {
		c.Errors[k] = v
	}
	for k, v := range override.Success {
		c.Success[k] = v
	}
	return c, nil
}

// DefaultCatalog returns the built-in English texts.
func DefaultCatalog() *Catalog {
	var c Catalog
	if err := yaml.Unmarshal(defaultMessages, &c); err != nil {
		panic(fmt.Sprintf("account: invalid embedded messages: %v", err))
	}
	if c.Errors == nil {
		c.Errors = map[string]string{}
	}
	if c.Success == nil {
		c.Success = map[string]string{}
	}
	return &c
}

func (c *Catalog) errorText(code string) string {
	if msg, ok := c.Errors[code]; ok {
		return msg
	}
	return code
}

func (c *Catalog) successText(code string) string {
	if msg, ok := c.Success[code]; ok {
		return msg
	}
	return code
}
