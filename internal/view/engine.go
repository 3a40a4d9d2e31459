package view

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

const templateExt = ".tpl"

// Engine renders pongo2 templates from an fs.FS, optionally shadowed by a
// directory on disk. Parsed templates are cached by name.
type Engine struct {
	set *pongo2.TemplateSet

	mu     sync.Mutex
	parsed map[string]*pongo2.Template
}

// NewEngine builds an Engine over files. When overrideDir is set, templates
// found there win over the ones in files.
func NewEngine(files fs.FS, overrideDir string) (*Engine, error) {
	var loaders []pongo2.TemplateLoader
	if dir := strings.TrimSpace(overrideDir); dir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(dir)
		if err != nil {
			return nil, fmt.Errorf("view: template dir %q: %w", dir, err)
		}
		loaders = append(loaders, loader)
	}
	if files != nil {
		loaders = append(loaders, pongo2.NewFSLoader(files))
	}
	if len(loaders) == 0 {
		return nil, errors.New("view: no template source")
	}
	return &Engine{
		set:    pongo2.NewSet("briefing", loaders...),
		parsed: make(map[string]*pongo2.Template),
	}, nil
}

// Render executes the named template (".tpl" optional) with data and writes
// the result to w. Nothing is written when execution fails.
func (e *Engine) Render(w io.Writer, name string, data any) error {
	tmpl, err := e.template(name)
	if err != nil {
		return err
	}
	ctx, err := contextOf(data)
	if err != nil {
		return fmt.Errorf("view: convert data: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(ctx, &buf); err != nil {
		return fmt.Errorf("view: execute %q: %w", name, err)
	}
	_, err = buf.WriteTo(w)
	return err
}

func (e *Engine) template(name string) (*pongo2.Template, error) {
	if !strings.HasSuffix(name, templateExt) {
		name += templateExt
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.parsed[name]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("view: load %q: %w", name, err)
	}
	e.parsed[name] = tmpl
	return tmpl, nil
}

// contextOf round-trips data through JSON so templates address fields by
// their json names.
func contextOf(data any) (pongo2.Context, error) {
	if data == nil {
		return pongo2.Context{}, nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return pongo2.Context(out), nil
}
