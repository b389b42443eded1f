// Package curriculum provides read-only lookup of exam-board specifications.
package curriculum

import (
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed specs/*.yaml
var embeddedSpecs embed.FS

// Loader loads and caches specifications. The built-in specifications are
// always available; an optional directory can add or override entries.
type Loader struct {
	specs map[string]Specification
	mu    sync.RWMutex
}

// NewLoader creates a loader with the embedded specifications plus any
// YAML files found under dir. An empty dir loads only the embedded set.
func NewLoader(dir string) (*Loader, error) {
	l := &Loader{specs: make(map[string]Specification)}

	if err := l.loadEmbedded(); err != nil {
		return nil, fmt.Errorf("loading embedded specifications: %w", err)
	}
	if dir != "" {
		if err := l.loadDir(dir); err != nil {
			return nil, fmt.Errorf("loading specification dir: %w", err)
		}
	}

	slog.Info("curriculum specifications loaded", "count", len(l.specs))
	return l, nil
}

// Get returns the specification for an (examBoard, keyStage, subject)
// triple, e.g. ("ocr", "ks4", "computer-science").
func (l *Loader) Get(examBoard, keyStage, subject string) (Specification, bool) {
	return l.GetByKey(Key(examBoard, keyStage, subject))
}

// GetByKey returns the specification with the given key.
func (l *Loader) GetByKey(key string) (Specification, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.specs[key]
	return s, ok
}

// All returns every loaded specification sorted by display name, the
// order selection menus present them in.
func (l *Loader) All() []Specification {
	l.mu.RLock()
	defer l.mu.RUnlock()
	specs := make([]Specification, 0, len(l.specs))
	for _, s := range l.specs {
		specs = append(specs, s)
	}
	c := collate.New(language.BritishEnglish)
	sort.Slice(specs, func(i, j int) bool {
		if cmp := c.CompareString(specs[i].Name, specs[j].Name); cmp != 0 {
			return cmp < 0
		}
		return specs[i].ID < specs[j].ID
	})
	return specs
}

func (l *Loader) loadEmbedded() error {
	entries, err := embeddedSpecs.ReadDir("specs")
	if err != nil {
		return err
	}
	for _, e := range entries {
		data, err := embeddedSpecs.ReadFile("specs/" + e.Name())
		if err != nil {
			return err
		}
		if err := l.addSpec(data, e.Name()); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadDir(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ".yaml") && !strings.HasSuffix(path, ".yml") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := l.addSpec(data, path); err != nil {
			slog.Warn("skipping invalid specification YAML", "path", path, "error", err)
		}
		return nil
	})
}

func (l *Loader) addSpec(data []byte, source string) error {
	var spec Specification
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return fmt.Errorf("parsing %s: %w", source, err)
	}
	if spec.ID == "" {
		return fmt.Errorf("%s: specification id is required", source)
	}

	l.mu.Lock()
	l.specs[spec.ID] = spec
	l.mu.Unlock()
	return nil
}
