package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/toolprompts/logging"
	"github.com/jonwraymond/toolprompts/prompts"
)

// ErrInvalidCatalog is returned when a catalog cannot be decoded.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Catalog is the decoded form of a catalog file.
type Catalog struct {
	Tools map[string][]string `yaml:"tools"`
}

// Parse decodes catalog YAML. An empty document yields an empty catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if c.Tools == nil {
		c.Tools = make(map[string][]string)
	}
	return &c, nil
}

// Load reads and decodes the catalog at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Names returns the tool names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.Tools))
	for name := range c.Tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply registers every entry of the catalog.
func (c *Catalog) Apply(r *prompts.Registry) {
	for name, list := range c.Tools {
		r.Register(name, list)
	}
}

// Marshal encodes the catalog back to YAML.
func (c *Catalog) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// FromRegistry builds a catalog holding every entry of r.
func FromRegistry(r *prompts.Registry) *Catalog {
	return &Catalog{Tools: r.All()}
}

// Loader applies one catalog file to a registry.
type Loader struct {
	path     string
	registry *prompts.Registry

	mu     sync.Mutex
	loaded map[string]struct{}
}

// NewLoader creates a Loader for the file at path.
func NewLoader(path string, r *prompts.Registry) *Loader {
	return &Loader{
		path:     path,
		registry: r,
		loaded:   make(map[string]struct{}),
	}
}

// Path returns the catalog path.
func (l *Loader) Path() string {
	return l.path
}

// Reload reads the file, applies it, and drops names the file no longer
// lists. On error the registry is left unchanged.
func (l *Loader) Reload() error {
	c, err := Load(l.path)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for name := range l.loaded {
		if _, ok := c.Tools[name]; !ok {
			l.registry.Remove(name)
			removed++
		}
	}
	c.Apply(l.registry)

	l.loaded = make(map[string]struct{}, len(c.Tools))
	for name := range c.Tools {
		l.loaded[name] = struct{}{}
	}

	logging.Info().
		Add(logging.Component("catalog")).
		Add(logging.Path(l.path)).
		Add(logging.ToolCount(len(c.Tools))).
		Add(logging.Int("removed", removed)).
		Msg("catalog loaded")
	return nil
}
