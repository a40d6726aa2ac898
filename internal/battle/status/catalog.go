package status

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/duskhollow/battle-ui-go/internal/battle/events"
)

// Definition is the display metadata for one status effect.
type Definition struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Type        string `yaml:"type"` // buff, debuff, dot, hot
}

// Info converts the definition into the event-stream snapshot form.
func (d Definition) Info() *events.StatusInfo {
	return &events.StatusInfo{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Type:        d.Type,
	}
}

// Catalog holds the known status effect definitions. Lookups for unknown
// ids synthesize a minimal definition from the id string instead of
// failing, so an icon is always displayable.
type Catalog struct {
	logger *zap.Logger
	defs   map[string]Definition
}

// NewCatalog creates an empty catalog. Every lookup will synthesize.
func NewCatalog(logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{
		logger: logger,
		defs:   make(map[string]Definition),
	}
}

// catalogFile is the on-disk YAML shape.
type catalogFile struct {
	Statuses []Definition `yaml:"statuses"`
}

// LoadCatalog reads status definitions from a YAML file.
func LoadCatalog(path string, logger *zap.Logger) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read status catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse status catalog: %w", err)
	}

	catalog := NewCatalog(logger)
	for _, def := range file.Statuses {
		if def.ID == "" {
			return nil, fmt.Errorf("status catalog entry without id")
		}
		catalog.defs[def.ID] = def
	}

	catalog.logger.Info("status catalog loaded",
		zap.String("path", path),
		zap.Int("definitions", len(catalog.defs)),
	)
	return catalog, nil
}

// Register adds or replaces a definition.
func (c *Catalog) Register(def Definition) {
	if def.ID == "" {
		return
	}
	c.defs[def.ID] = def
}

// Lookup returns the definition for a status id, synthesizing one from the
// id string when the catalog has no entry.
func (c *Catalog) Lookup(statusID string) Definition {
	if def, ok := c.defs[statusID]; ok {
		return def
	}

	c.logger.Debug("no definition for status; synthesizing from id",
		zap.String("status_id", statusID),
	)
	return Synthesize(statusID)
}

// Known reports whether the catalog has a real entry for the id.
func (c *Catalog) Known(statusID string) bool {
	_, ok := c.defs[statusID]
	return ok
}

// Synthesize builds a minimal display definition from a raw status id:
// common prefixes are stripped and the remainder is title-cased, so
// "status_burn" displays as "Burn".
func Synthesize(statusID string) Definition {
	name := statusID
	for _, prefix := range []string{"status_", "effect_", "buff_", "debuff_"} {
		if strings.HasPrefix(name, prefix) {
			name = strings.TrimPrefix(name, prefix)
			break
		}
	}
	name = titleCase(strings.ReplaceAll(name, "_", " "))
	if name == "" {
		name = statusID
	}

	return Definition{
		ID:          statusID,
		Name:        name,
		Description: name,
		Type:        "unknown",
	}
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
