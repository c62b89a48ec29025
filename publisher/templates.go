package publisher

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"auto_presentation_generator/generator"
	"auto_presentation_generator/pptx"
)

// Templates loads slide templates by catalog name and keeps them for reuse.
// Templates are never mutated: each deck works on its own clone.
type Templates struct {
	dir string

	mu     sync.Mutex
	loaded map[string]*pptx.Template
}

// NewTemplates reads <dir>/<Name>.pptx when present and falls back to the
// built-in rendition of the named template otherwise.
func NewTemplates(dir string) *Templates {
	return &Templates{dir: dir, loaded: make(map[string]*pptx.Template)}
}

// Load returns the template for name ("" selects the default).
func (t *Templates) Load(name string) (*pptx.Template, error) {
	if name == "" {
		name = generator.DefaultTemplate
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if tpl, ok := t.loaded[name]; ok {
		return tpl, nil
	}

	tpl, err := t.open(name)
	if err != nil {
		return nil, err
	}
	t.loaded[name] = tpl
	return tpl, nil
}

func (t *Templates) open(name string) (*pptx.Template, error) {
	if t.dir != "" {
		path := filepath.Join(t.dir, name+"."+pptx.Extension)
		tpl, err := pptx.OpenTemplate(path)
		if err == nil {
			return tpl, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load template %s: %w", name, err)
		}
	}
	return pptx.BuiltinNamed(name)
}
