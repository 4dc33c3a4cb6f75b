// Package rules supplies the one concrete authz.Config implementation
// this repo ships: a thin adapter over an on-disk INI document, the
// wire format rules and groups files are written in.
package rules

import (
	"fmt"

	"gopkg.in/ini.v1"

	"github.com/DalavanCloud/subversion/authz"
)

// INIConfig adapts a parsed *ini.File to authz.Config. Section and key
// names are kept exactly as written (ini.v1 defaults to
// case-insensitive section lookups for the DEFAULT section only; every
// other section and key here is matched by exact string, which is what
// a path rule or user name requires).
type INIConfig struct {
	file *ini.File
}

// LoadFile parses path as an authz rules document.
func LoadFile(path string) (*INIConfig, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		AllowNonUniqueSections:  false,
		SkipUnrecognizableLines: false,
	}, path)
	if err != nil {
		return nil, fmt.Errorf("rules: parse %s: %w", path, err)
	}
	return &INIConfig{file: f}, nil
}

// LoadBytes parses an in-memory rules document, for retrieval
// collaborators that fetch content without a local file (e.g. a
// versioned path inside a repository).
func LoadBytes(name string, data []byte) (*INIConfig, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		AllowNonUniqueSections: false,
	}, data)
	if err != nil {
		return nil, fmt.Errorf("rules: parse %s: %w", name, err)
	}
	return &INIConfig{file: f}, nil
}

func (c *INIConfig) HasSection(name string) bool {
	_, err := c.file.GetSection(name)
	return err == nil
}

func (c *INIConfig) EnumerateSections(visit authz.Visitor) {
	for _, s := range c.file.SectionStrings() {
		// ini.v1 always reports an implicit DEFAULT section for
		// entries that precede any [section] header; a rules document
		// has no such entries, so skip it rather than surface a
		// section name nothing in the document wrote.
		if s == ini.DefaultSection {
			continue
		}
		if !visit(s, "") {
			return
		}
	}
}

func (c *INIConfig) EnumerateEntries(section string, visit authz.Visitor) {
	sec, err := c.file.GetSection(section)
	if err != nil {
		return
	}
	for _, key := range sec.KeyStrings() {
		if !visit(key, sec.Key(key).String()) {
			return
		}
	}
}

func (c *INIConfig) Get(section, key string) (string, bool) {
	sec, err := c.file.GetSection(section)
	if err != nil {
		return "", false
	}
	if !sec.HasKey(key) {
		return "", false
	}
	return sec.Key(key).String(), true
}

var _ authz.Config = (*INIConfig)(nil)
