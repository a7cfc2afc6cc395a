// Package localize resolves announcement strings and numbers for a locale.
package localize

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// Localizer maps a (key, default, locale) triple to a localized string.
// Implementations return fallback when they cannot resolve key.
type Localizer interface {
	Localize(key, fallback string, locale language.Tag) string
}

// Func adapts a function to the Localizer interface.
type Func func(key, fallback string, locale language.Tag) string

func (f Func) Localize(key, fallback string, locale language.Tag) string {
	return f(key, fallback, locale)
}

// Fallback is a Localizer that always returns the default string.
var Fallback Localizer = Func(func(_, fallback string, _ language.Tag) string { return fallback })

//go:embed strings/*.yaml
var builtin embed.FS

// Table is a Localizer backed by per-locale string tables.
type Table struct {
	tags    []language.Tag
	strings []map[string]string
	matcher language.Matcher
}

// NewTable builds a Table from string tables keyed by locale.
func NewTable(tables map[language.Tag]map[string]string) *Table {
	tags := make([]language.Tag, 0, len(tables))
	for tag := range tables {
		tags = append(tags, tag)
	}
	// English first so it is the matcher's default; the rest in a stable order.
	sort.Slice(tags, func(i, j int) bool {
		if (tags[i] == language.English) != (tags[j] == language.English) {
			return tags[i] == language.English
		}
		return tags[i].String() < tags[j].String()
	})

	t := &Table{tags: tags, strings: make([]map[string]string, len(tags))}
	for i, tag := range tags {
		t.strings[i] = tables[tag]
	}
	t.matcher = language.NewMatcher(tags)
	return t
}

// Builtin returns the Table of string files shipped with the binary.
func Builtin() (*Table, error) {
	return LoadFS(builtin, "strings")
}

// LoadFS reads every <locale>.yaml file in dir. Each file is a flat map of
// key to string.
func LoadFS(fsys fs.FS, dir string) (*Table, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading string tables in %s: %w", dir, err)
	}

	tables := make(map[language.Tag]map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || path.Ext(name) != ".yaml" {
			continue
		}
		tag, err := language.Parse(strings.TrimSuffix(name, ".yaml"))
		if err != nil {
			return nil, fmt.Errorf("string table %s: %w", name, err)
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		table := make(map[string]string)
		if err := yaml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		tables[tag] = table
	}
	return NewTable(tables), nil
}

// Locales returns the locales the table carries strings for.
func (t *Table) Locales() []language.Tag {
	return append([]language.Tag(nil), t.tags...)
}

func (t *Table) Localize(key, fallback string, locale language.Tag) string {
	if t == nil || len(t.tags) == 0 {
		return fallback
	}
	_, idx, conf := t.matcher.Match(locale)
	if conf == language.No || idx < 0 || idx >= len(t.strings) {
		return fallback
	}
	if s, ok := t.strings[idx][key]; ok && s != "" {
		return s
	}
	return fallback
}

// Integer formats n with the locale's digit grouping.
func Integer(locale language.Tag, n int) string {
	return message.NewPrinter(locale).Sprintf("%d", n)
}

// ParseLocale parses a BCP 47 identifier, returning fallback when s is empty
// or malformed. Underscore separators ("en_US") are accepted.
func ParseLocale(s string, fallback language.Tag) language.Tag {
	s = strings.TrimSpace(strings.ReplaceAll(s, "_", "-"))
	if s == "" {
		return fallback
	}
	tag, err := language.Parse(s)
	if err != nil {
		return fallback
	}
	return tag
}
