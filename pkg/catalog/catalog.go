// Package catalog holds the built-in phrase content shipped with the app,
// indexed by mode and language.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"tableflip.dev/anchor/pkg/phrase"
)

//go:embed content/*.yaml
var contentFS embed.FS

// Catalog maps (mode, language) to built-in content. It is immutable once
// built and safe for concurrent reads.
type Catalog struct {
	entries map[key]phrase.Content
}

type key struct {
	mode     string
	language string
}

var (
	builtIn     *Catalog
	builtInOnce sync.Once
)

// BuiltIn returns the catalog embedded in the binary. The content is part of
// the build, so a parse failure is a programming error and panics.
func BuiltIn() *Catalog {
	builtInOnce.Do(func() {
		c, err := Parse(contentFS, "content/*.yaml")
		if err != nil {
			panic(err)
		}
		builtIn = c
	})
	return builtIn
}

// New returns an empty catalog; use Add to populate it.
func New() *Catalog {
	return &Catalog{entries: make(map[key]phrase.Content)}
}

// Add registers content for (mode, language), replacing any previous entry.
func (c *Catalog) Add(mode, lang string, content phrase.Content) *Catalog {
	c.entries[key{mode: mode, language: Normalize(lang)}] = content
	return c
}

// Lookup returns the content for (mode, language). It does not fall back to
// another language.
func (c *Catalog) Lookup(mode, lang string) (phrase.Content, bool) {
	if c == nil {
		return nil, false
	}
	content, ok := c.entries[key{mode: mode, language: Normalize(lang)}]
	return content, ok
}

// Languages lists the languages that have content for mode.
func (c *Catalog) Languages(mode string) []string {
	langs := make([]string, 0)
	for k := range c.entries {
		if k.mode == mode {
			langs = append(langs, k.language)
		}
	}
	sort.Strings(langs)
	return langs
}

// Normalize reduces a language tag to its base language ("pt-BR" -> "pt").
// Tags that do not parse are lowercased and returned as is.
func Normalize(lang string) string {
	lang = strings.TrimSpace(lang)
	tag, err := language.Parse(lang)
	if err != nil {
		return strings.ToLower(lang)
	}
	base, _ := tag.Base()
	return base.String()
}

type contentFile struct {
	Mode    string            `yaml:"mode"`
	Content map[string]bucket `yaml:"content"`
}

type bucket struct {
	Phrases []phrase.Phrase   `yaml:"phrases"`
	Phased  *phrase.PhasedSet `yaml:"phased"`
}

// Parse reads every file matching pattern in fsys. Each file holds one mode
// with a flat or phased bucket per language.
func Parse(fsys fs.FS, pattern string) (*Catalog, error) {
	names, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	c := New()
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("catalog: read %s: %w", name, err)
		}
		var f contentFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("catalog: parse %s: %w", name, err)
		}
		if f.Mode == "" {
			f.Mode = strings.TrimSuffix(path.Base(name), path.Ext(name))
		}
		for lang, b := range f.Content {
			content, err := b.content()
			if err != nil {
				return nil, fmt.Errorf("catalog: %s/%s: %w", f.Mode, lang, err)
			}
			c.Add(f.Mode, lang, content)
		}
	}
	return c, nil
}

func (b bucket) content() (phrase.Content, error) {
	switch {
	case b.Phased != nil && len(b.Phrases) > 0:
		return nil, fmt.Errorf("both phrases and phased given")
	case b.Phased != nil:
		for _, p := range phrase.Phases() {
			if err := uniqueIDs(b.Phased.In(p)); err != nil {
				return nil, fmt.Errorf("%s: %w", p, err)
			}
		}
		return *b.Phased, nil
	default:
		if err := uniqueIDs(b.Phrases); err != nil {
			return nil, err
		}
		return phrase.Flat(b.Phrases), nil
	}
}

func uniqueIDs(list []phrase.Phrase) error {
	seen := make(map[string]struct{}, len(list))
	for _, p := range list {
		if p.ID == "" {
			return fmt.Errorf("phrase %q has no id", p.Text)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("duplicate phrase id %q", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}
