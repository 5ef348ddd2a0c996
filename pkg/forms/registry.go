// pkg/forms/registry.go
package forms

import (
	"encoding/json"
	"os"
	"strings"
)

// LoadRegistry reads and validates the form registry at path.
func LoadRegistry(path string) (*FormRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRegistry(data)
}

// ParseRegistry validates and unmarshals raw registry JSON.
func ParseRegistry(data []byte) (*FormRegistry, error) {
	if err := ValidateRegistryBytes(data); err != nil {
		return nil, err
	}
	var reg FormRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

// Form looks up a form definition by type or alias, case-insensitively.
// "10-K/A" resolves to the 10-K definition when listed as an alias.
func (r *FormRegistry) Form(formType string) (*FormDefinition, bool) {
	want := strings.ToUpper(strings.TrimSpace(formType))
	for i := range r.Forms {
		f := &r.Forms[i]
		if strings.ToUpper(f.Type) == want {
			return f, true
		}
		for _, alias := range f.Aliases {
			if strings.ToUpper(alias) == want {
				return f, true
			}
		}
	}
	return nil, false
}

// Supports reports whether the registry knows the form type.
func (r *FormRegistry) Supports(formType string) bool {
	_, ok := r.Form(formType)
	return ok
}

// Section returns the named section of a form definition.
func (f *FormDefinition) Section(id string) (*SectionDefinition, bool) {
	for i := range f.Sections {
		if f.Sections[i].ID == id {
			return &f.Sections[i], true
		}
	}
	return nil, false
}

// SectionFor resolves a section for a form type, falling back to the
// 10-K definition when the form is unknown or lacks the section. Older
// filings often follow the 10-K item layout even under other form types.
func (r *FormRegistry) SectionFor(formType, sectionID string) (*SectionDefinition, bool) {
	if f, ok := r.Form(formType); ok {
		if s, ok := f.Section(sectionID); ok {
			return s, true
		}
	}
	if f, ok := r.Form("10-K"); ok {
		return f.Section(sectionID)
	}
	return nil, false
}
