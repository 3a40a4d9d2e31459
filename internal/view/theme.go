package view

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

const (
	DefaultThemeName    = "evolux"
	DefaultThemeVariant = "light"
)

// DefaultManifest is the built-in briefing theme.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":       "#0f766e",
			"brand-ink":   "#ffffff",
			"surface":     "#ffffff",
			"background":  "#f4f6f8",
			"text":        "#1f2933",
			"muted":       "#52606d",
			"border":      "#d9e2ec",
			"danger":      "#b42318",
			"radius":      "8px",
			"font-family": "system-ui, -apple-system, 'Segoe UI', sans-serif",
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"surface":    "#1f2933",
					"background": "#111827",
					"text":       "#f5f7fa",
					"muted":      "#9aa5b1",
					"border":     "#3e4c59",
				},
			},
		},
	}
}

// ThemeConfig resolves a manifest and variant into the renderer configuration
// consumed by the page template. Variant tokens override the base tokens and
// every token is also exposed as a "--name" CSS variable.
func ThemeConfig(manifest *theme.Manifest, variant string) (*theme.RendererConfig, error) {
	if manifest == nil {
		return nil, fmt.Errorf("view: theme manifest is nil")
	}
	variant = strings.TrimSpace(variant)

	tokens := copyStringMap(manifest.Tokens)
	partials := copyStringMap(manifest.Templates)
	assets := manifest.Assets
	files := copyStringMap(assets.Files)

	if variant != "" {
		v, ok := manifest.Variants[variant]
		if !ok && variant != DefaultThemeVariant {
			return nil, fmt.Errorf("view: theme %q has no variant %q", manifest.Name, variant)
		}
		for key, value := range v.Tokens {
			tokens[key] = value
		}
		for key, value := range v.Templates {
			partials[key] = value
		}
		for key, value := range v.Assets.Files {
			files[key] = value
		}
		if v.Assets.Prefix != "" {
			assets.Prefix = v.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	prefix := strings.TrimRight(assets.Prefix, "/")
	return &theme.RendererConfig{
		Theme:    manifest.Name,
		Variant:  variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			if prefix == "" {
				return file
			}
			return prefix + "/" + strings.TrimLeft(file, "/")
		},
	}, nil
}

// SelectTheme asks a go-theme selector for name/variant and resolves the
// selection's manifest.
func SelectTheme(selector theme.ThemeSelector, name, variant string) (*theme.RendererConfig, error) {
	if selector == nil {
		return ThemeConfig(DefaultManifest(), variant)
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("view: select theme %q: %w", name, err)
	}
	if selection == nil || selection.Manifest == nil {
		return nil, fmt.Errorf("view: theme %q resolved without a manifest", name)
	}
	return ThemeConfig(selection.Manifest, selection.Variant)
}

// CSSVarsStyle renders CSS variables as a sorted declaration list.
func CSSVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString("; ")
	}
	return strings.TrimSpace(b.String())
}

func copyStringMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

// ManifestSelector serves a fixed set of manifests keyed by name. Empty names
// resolve to DefaultThemeName and empty variants to DefaultThemeVariant.
type ManifestSelector map[string]*theme.Manifest

var _ theme.ThemeSelector = ManifestSelector(nil)

// NewManifestSelector indexes manifests by name. The built-in manifest is
// always present unless one of manifests overrides it.
func NewManifestSelector(manifests ...*theme.Manifest) ManifestSelector {
	out := ManifestSelector{DefaultThemeName: DefaultManifest()}
	for _, manifest := range manifests {
		if manifest == nil || manifest.Name == "" {
			continue
		}
		out[manifest.Name] = manifest
	}
	return out
}

func (s ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if name == "" {
		name = DefaultThemeName
	}
	if variant == "" {
		variant = DefaultThemeVariant
	}
	manifest, ok := s[name]
	if !ok {
		return nil, fmt.Errorf("view: unknown theme %q", name)
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}
