// Package i18n loads the storefront message catalogs.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var embedded embed.FS

// DefaultLocale is the locale every catalog falls back to.
const DefaultLocale = "es"

// Bundle holds flattened catalogs keyed by locale then dotted message key.
type Bundle struct {
	dict     map[string]map[string]string
	fallback string
	locale   string
}

// Default loads the embedded catalogs with locale as the active language.
func Default(locale string) (*Bundle, error) {
	return Load(embedded, "locales", locale, DefaultLocale)
}

// MustDefault is Default for package-level wiring and tests; it panics on a broken catalog.
func MustDefault() *Bundle {
	b, err := Default(DefaultLocale)
	if err != nil {
		panic(err)
	}
	return b
}

// Load reads every <locale>.yaml file in dir. The fallback catalog is required.
func Load(fsys fs.FS, dir, locale, fallback string) (*Bundle, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("i18n: read %s: %w", dir, err)
	}
	b := &Bundle{
		dict:     map[string]map[string]string{},
		fallback: fallback,
		locale:   strings.ToLower(strings.TrimSpace(locale)),
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".yaml") {
			continue
		}
		raw, err := fs.ReadFile(fsys, dir+"/"+name)
		if err != nil {
			return nil, fmt.Errorf("i18n: read %s: %w", name, err)
		}
		var tree map[string]any
		if err := yaml.Unmarshal(raw, &tree); err != nil {
			return nil, fmt.Errorf("i18n: unmarshal %s: %w", name, err)
		}
		flat := map[string]string{}
		flatten("", tree, flat)
		b.dict[strings.TrimSuffix(name, ".yaml")] = flat
	}
	if _, ok := b.dict[fallback]; !ok {
		return nil, fmt.Errorf("i18n: fallback locale %s not loaded", fallback)
	}
	if _, ok := b.dict[b.locale]; !ok {
		b.locale = fallback
	}
	return b, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case string:
			out[key] = val
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

// Locale returns the active locale.
func (b *Bundle) Locale() string { return b.locale }

// Supported lists loaded locales.
func (b *Bundle) Supported() []string {
	out := make([]string, 0, len(b.dict))
	for k := range b.dict {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Has reports whether key exists in the active or fallback catalog.
func (b *Bundle) Has(key string) bool {
	if _, ok := b.dict[b.locale][key]; ok {
		return true
	}
	_, ok := b.dict[b.fallback][key]
	return ok
}

// T returns the message for key in the active locale, then the fallback, and finally key itself.
func (b *Bundle) T(key string) string {
	if b == nil {
		return key
	}
	if v, ok := b.dict[b.locale][key]; ok {
		return v
	}
	if v, ok := b.dict[b.fallback][key]; ok {
		return v
	}
	return key
}
