// pkg/forms/schema.go
package forms

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

type FormRegistry struct {
	Version     string           `json:"version"`
	LastUpdated string           `json:"lastUpdated"`
	Forms       []FormDefinition `json:"forms"`
}

type FormDefinition struct {
	Type        string              `json:"type"`
	DisplayName string              `json:"displayName"`
	Description string              `json:"description"`
	Category    string              `json:"category"`
	Aliases     []string            `json:"aliases"`
	Sections    []SectionDefinition `json:"sections"`
	Tags        []string            `json:"tags"`
}

// SectionDefinition describes how to locate one item of a filing in its
// plain-text rendering. Markers are matched case-insensitively and the
// last occurrence of a start marker wins, which skips past the table of
// contents at the top of most filings.
type SectionDefinition struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	StartMarkers []string `json:"startMarkers"`
	EndMarkers   []string `json:"endMarkers"`
}

const registrySchema = `{
  "type": "object",
  "required": ["version", "forms"],
  "properties": {
    "version": {"type": "string", "minLength": 1},
    "lastUpdated": {"type": "string"},
    "forms": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["type", "displayName", "category"],
        "properties": {
          "type": {"type": "string", "minLength": 1},
          "displayName": {"type": "string"},
          "description": {"type": "string"},
          "category": {
            "type": "string",
            "enum": ["annual", "quarterly", "current", "ownership", "proxy", "registration", "other"]
          },
          "aliases": {"type": "array", "items": {"type": "string"}},
          "tags": {"type": "array", "items": {"type": "string"}},
          "sections": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["id", "title", "startMarkers", "endMarkers"],
              "properties": {
                "id": {"type": "string", "minLength": 1},
                "title": {"type": "string"},
                "startMarkers": {"type": "array", "minItems": 1, "items": {"type": "string"}},
                "endMarkers": {"type": "array", "items": {"type": "string"}}
              }
            }
          }
        }
      }
    }
  }
}`

// ValidateRegistryBytes checks raw registry JSON against the registry
// schema before it is unmarshaled.
func ValidateRegistryBytes(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(registrySchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("registry validation failed: %v", errs)
	}

	return nil
}
