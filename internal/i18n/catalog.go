// Package i18n holds the bilingual lookup tables of the intake form.
//
// Each locale is a flat key to text mapping loaded from locales/<lang>.yaml.
// Lookups of unknown keys return the key itself, so a missing entry shows up
// as the raw key instead of an empty label; Missing reports such gaps.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// Language is a supported UI and payload language.
type Language string

const (
	BG Language = "bg"
	EN Language = "en"
)

// Languages lists the supported languages in display order.
var Languages = []Language{BG, EN}

// ParseLanguage accepts "bg" or "en" in any case.
func ParseLanguage(s string) (Language, bool) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case BG:
		return BG, true
	case EN:
		return EN, true
	}
	return "", false
}

// Catalog maps language to its key/text table.
type Catalog struct {
	tables map[Language]map[string]string
}

// Load reads the embedded locale files.
func Load() (*Catalog, error) {
	return LoadFS(localeFS, "locales")
}

// MustLoad is Load for program start-up.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// LoadFS reads <dir>/<lang>.yaml for every supported language from fsys.
func LoadFS(fsys fs.FS, dir string) (*Catalog, error) {
	c := &Catalog{tables: make(map[Language]map[string]string, len(Languages))}
	for _, lang := range Languages {
		name := path.Join(dir, string(lang)+".yaml")
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", name, err)
		}
		table := make(map[string]string)
		if err := yaml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", name, err)
		}
		c.tables[lang] = table
	}
	return c, nil
}

// New builds a catalog from in-memory tables.
func New(tables map[Language]map[string]string) *Catalog {
	c := &Catalog{tables: make(map[Language]map[string]string, len(tables))}
	for lang, table := range tables {
		copied := make(map[string]string, len(table))
		for k, v := range table {
			copied[k] = v
		}
		c.tables[lang] = copied
	}
	return c
}

// Lookup returns the text for key and whether it exists.
func (c *Catalog) Lookup(lang Language, key string) (string, bool) {
	v, ok := c.tables[lang][key]
	return v, ok
}

// T returns the text for key, or key itself when absent.
func (c *Catalog) T(lang Language, key string) string {
	if v, ok := c.Lookup(lang, key); ok {
		return v
	}
	return key
}

// For binds the catalog to one language.
func (c *Catalog) For(lang Language) Translator {
	return Translator{catalog: c, Lang: lang}
}

// Missing lists, per language, keys that exist in another language but not
// in this one. Languages without gaps are omitted.
func (c *Catalog) Missing() map[Language][]string {
	all := make(map[string]struct{})
	for _, table := range c.tables {
		for k := range table {
			all[k] = struct{}{}
		}
	}

	out := make(map[Language][]string)
	for _, lang := range Languages {
		table := c.tables[lang]
		for k := range all {
			if _, ok := table[k]; !ok {
				out[lang] = append(out[lang], k)
			}
		}
		sort.Strings(out[lang])
		if len(out[lang]) == 0 {
			delete(out, lang)
		}
	}
	return out
}

// Translator is a Catalog fixed to one language.
type Translator struct {
	catalog *Catalog
	Lang    Language
}

// T returns the text for key in the bound language.
func (t Translator) T(key string) string {
	return t.catalog.T(t.Lang, key)
}

// Has reports whether key exists in the bound language.
func (t Translator) Has(key string) bool {
	_, ok := t.catalog.Lookup(t.Lang, key)
	return ok
}
