package templates

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileStore overlays templates loaded from a YAML resource file onto the
// built-in tables. Entries missing from the file resolve through the static
// store, so a partial file is fine.
type FileStore struct {
	roles      map[string]string
	techniques map[string]string
	fallback   *StaticStore
}

type templateFile struct {
	Roles      map[string]string `yaml:"roles"`
	Techniques map[string]string `yaml:"techniques"`
}

// LoadStore reads role and technique templates from a YAML file. Every loaded
// template must contain the {query} placeholder.
func LoadStore(path string) (*FileStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template file: %w", err)
	}

	var file templateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing template file %s: %w", path, err)
	}

	for name, tmpl := range file.Roles {
		if !strings.Contains(tmpl, "{query}") {
			return nil, fmt.Errorf("role template %q is missing the {query} placeholder", name)
		}
	}
	for name, tmpl := range file.Techniques {
		if !strings.Contains(tmpl, "{query}") {
			return nil, fmt.Errorf("technique template %q is missing the {query} placeholder", name)
		}
	}

	return &FileStore{
		roles:      file.Roles,
		techniques: file.Techniques,
		fallback:   NewStaticStore(),
	}, nil
}

func (s *FileStore) RoleTemplate(role string) string {
	if t, ok := s.roles[role]; ok {
		return t
	}
	return s.fallback.RoleTemplate(role)
}

func (s *FileStore) TechniqueTemplate(technique string) string {
	if t, ok := s.techniques[technique]; ok {
		return t
	}
	return s.fallback.TechniqueTemplate(technique)
}
