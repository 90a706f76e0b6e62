// Package locale resolves message keys to localized strings. Catalogs are
// embedded YAML files, one per language, keyed by the language code at the
// top level.
package locale

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yml
var localeFiles embed.FS

// DefaultLanguage is served when nothing in Accept-Language matches, and
// backs keys missing from another catalog.
var DefaultLanguage = language.English

// Catalog holds flattened messages per language. It is read-only after Load.
type Catalog struct {
	messages map[language.Tag]map[string]string
	tags     []language.Tag
	matcher  language.Matcher
}

// Load parses every embedded catalog.
func Load() (*Catalog, error) {
	files, err := fs.Glob(localeFiles, "locales/*.yml")
	if err != nil {
		return nil, fmt.Errorf("list locale files: %w", err)
	}

	c := &Catalog{
		messages: make(map[language.Tag]map[string]string),
		tags:     []language.Tag{DefaultLanguage},
	}

	for _, file := range files {
		data, err := localeFiles.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}

		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", file, err)
		}

		code := strings.TrimSuffix(path.Base(file), ".yml")
		tag, err := language.Parse(code)
		if err != nil {
			return nil, fmt.Errorf("locale file %s: %w", file, err)
		}

		flat := make(map[string]string)
		flatten("", doc[code], flat)
		c.messages[tag] = flat
		if tag != DefaultLanguage {
			c.tags = append(c.tags, tag)
		}
	}

	if _, ok := c.messages[DefaultLanguage]; !ok {
		return nil, fmt.Errorf("missing %s catalog", DefaultLanguage)
	}

	c.matcher = language.NewMatcher(c.tags)
	return c, nil
}

func flatten(prefix string, node any, out map[string]string) {
	switch v := node.(type) {
	case map[string]any:
		for key, child := range v {
			if prefix != "" {
				key = prefix + "." + key
			}
			flatten(key, child, out)
		}
	case string:
		out[prefix] = v
	}
}

// Match picks the best supported language for an Accept-Language header.
func (c *Catalog) Match(acceptLanguage string) language.Tag {
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return DefaultLanguage
	}
	_, index, confidence := c.matcher.Match(prefs...)
	if confidence == language.No {
		return DefaultLanguage
	}
	return c.tags[index]
}

// Translate returns the message for key in tag, falling back to the default
// language and finally to the key itself.
func (c *Catalog) Translate(tag language.Tag, key string) string {
	if msg, ok := c.messages[tag][key]; ok {
		return msg
	}
	if msg, ok := c.messages[DefaultLanguage][key]; ok {
		return msg
	}
	return key
}

// Has reports whether key exists in the default catalog.
func (c *Catalog) Has(key string) bool {
	_, ok := c.messages[DefaultLanguage][key]
	return ok
}

// Languages lists the supported languages, default first.
func (c *Catalog) Languages() []language.Tag {
	return append([]language.Tag(nil), c.tags...)
}

// Message translates key into the best language for an Accept-Language header.
func (c *Catalog) Message(acceptLanguage, key string) string {
	return c.Translate(c.Match(acceptLanguage), key)
}
