package config

import "fmt"

// ModuleRef identifies a versioned runtime module by the settings entry that
// pins its version. The value is resolved at render time via RequiredParam.
type ModuleRef struct {
	Section string
	Key     string
}

// Model is the unified, format-agnostic representation of all loaded
// settings, keyed by section and then by key.
type Model struct {
	sections map[string]map[string]string
}

// NewModel creates and returns an initialized, empty Model.
func NewModel() *Model {
	return &Model{
		sections: make(map[string]map[string]string),
	}
}

// Set stores a value under the given section and key, creating the section
// if needed. Later calls overwrite earlier ones, which gives multi-file
// loads their "last file wins" merge semantics.
func (m *Model) Set(section, key, value string) {
	sec, ok := m.sections[section]
	if !ok {
		sec = make(map[string]string)
		m.sections[section] = sec
	}
	sec[key] = value
}

// Param looks up an optional setting. The boolean reports whether the key is
// present; absent keys return an empty string and are not an error.
func (m *Model) Param(section, key string) (string, bool) {
	sec, ok := m.sections[section]
	if !ok {
		return "", false
	}
	value, ok := sec[key]
	return value, ok
}

// RequiredParam looks up a setting that must be present. A missing section
// or key is reported as an error naming both halves of the lookup.
func (m *Model) RequiredParam(section, key string) (string, error) {
	value, ok := m.Param(section, key)
	if !ok {
		return "", fmt.Errorf("missing required setting %q in section %q", key, section)
	}
	return value, nil
}

// SectionCount returns the number of loaded sections. This is primarily for
// startup logging.
func (m *Model) SectionCount() int {
	return len(m.sections)
}
