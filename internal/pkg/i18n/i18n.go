package i18n

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Translator resolves message keys to human-readable strings. It is used only
// for response messages and has no effect on control flow.
type Translator interface {
	Translate(key string, args ...interface{}) string
}

// Catalog is a Translator backed by a key -> template map loaded from a YAML
// locale file. A missing key resolves to the key itself, so the zero value is
// a usable identity translator.
type Catalog struct {
	messages map[string]string
}

// NewCatalog creates an empty catalog (identity translator)
func NewCatalog() *Catalog {
	return &Catalog{messages: map[string]string{}}
}

// LoadCatalog reads a locale file (e.g. "configs/locales/en.yaml") into a catalog
func LoadCatalog(dir, locale string) (*Catalog, error) {
	path := filepath.Join(dir, locale+".yaml")

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read locale file %s: %w", path, err)
	}

	messages := map[string]string{}
	if err := yaml.Unmarshal(content, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse locale file %s: %w", path, err)
	}

	return &Catalog{messages: messages}, nil
}

// Translate resolves a key, formatting the template with args when present
func (c *Catalog) Translate(key string, args ...interface{}) string {
	var template string
	if c != nil && c.messages != nil {
		template = c.messages[key]
	}
	if template == "" {
		template = key
	}

	if len(args) == 0 {
		return template
	}
	return fmt.Sprintf(template, args...)
}
