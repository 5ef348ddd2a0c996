// cmd/tools/registry-updater/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"edgar-content-service/pkg/forms"
)

var registryPath string

func main() {
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	sectionCmd := flag.NewFlagSet("add-section", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)

	// Add command flags
	typeAdd := addCmd.String("type", "", "Form type (e.g., 10-K)")
	displayName := addCmd.String("displayName", "", "Display Name (e.g., Annual Report)")
	description := addCmd.String("description", "", "Description")
	category := addCmd.String("category", "", "Category (annual, quarterly, current, ownership, proxy, registration, other)")
	aliases := addCmd.String("aliases", "", "Comma-separated form aliases (e.g., 10-K/A)")
	addCmd.StringVar(&registryPath, "path", "configs/form-registry.json", "Path to registry file")

	// Add-section command flags
	typeSection := sectionCmd.String("type", "", "Form type the section belongs to")
	sectionID := sectionCmd.String("id", "", "Section ID (e.g., risk_factors)")
	sectionTitle := sectionCmd.String("title", "", "Section title (e.g., Risk Factors)")
	startMarkers := sectionCmd.String("startMarkers", "", "Comma-separated start markers (e.g., 'item 1a')")
	endMarkers := sectionCmd.String("endMarkers", "", "Comma-separated end markers (e.g., 'item 1b,item 2')")
	sectionCmd.StringVar(&registryPath, "path", "configs/form-registry.json", "Path to registry file")

	// Update command flags
	typeUpdate := updateCmd.String("type", "", "Form type to update")
	field := updateCmd.String("field", "", "Field to update (displayName, description, category, aliases)")
	value := updateCmd.String("value", "", "New value for the field")
	updateCmd.StringVar(&registryPath, "path", "configs/form-registry.json", "Path to registry file")

	// Validate command flags
	validateCmd.StringVar(&registryPath, "path", "configs/form-registry.json", "Path to registry file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add":
		addCmd.Parse(os.Args[2:])
		if *typeAdd == "" || *displayName == "" || *category == "" {
			fmt.Println("Error: type, displayName and category are required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		form := forms.FormDefinition{
			Type:        *typeAdd,
			DisplayName: *displayName,
			Description: *description,
			Category:    *category,
			Aliases:     splitList(*aliases),
			Sections:    []forms.SectionDefinition{},
			Tags:        []string{},
		}
		if err := addForm(&form); err != nil {
			fmt.Printf("Error adding form: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added form: %s\n", *typeAdd)

	case "add-section":
		sectionCmd.Parse(os.Args[2:])
		if *typeSection == "" || *sectionID == "" || *startMarkers == "" {
			fmt.Println("Error: type, id and startMarkers are required for add-section.")
			sectionCmd.Usage()
			os.Exit(1)
		}
		section := forms.SectionDefinition{
			ID:           *sectionID,
			Title:        *sectionTitle,
			StartMarkers: splitList(*startMarkers),
			EndMarkers:   splitList(*endMarkers),
		}
		if err := addSection(*typeSection, &section); err != nil {
			fmt.Printf("Error adding section: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added section %s to form %s\n", *sectionID, *typeSection)

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *typeUpdate == "" || *field == "" || *value == "" {
			fmt.Println("Error: type, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		if err := updateForm(*typeUpdate, *field, *value); err != nil {
			fmt.Printf("Error updating form: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated form %s, field %s to %s\n", *typeUpdate, *field, *value)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		if err := validateRegistry(); err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Registry validation passed.")

	case "help":
		fallthrough
	default:
		help()
	}
}

func addForm(form *forms.FormDefinition) error {
	reg, err := forms.LoadRegistry(registryPath)
	if err != nil {
		// If file doesn't exist, create new registry
		if os.IsNotExist(err) {
			reg = &forms.FormRegistry{
				Version:     "1.0.0",
				LastUpdated: time.Now().Format(time.RFC3339),
				Forms:       []forms.FormDefinition{},
			}
		} else {
			return fmt.Errorf("failed to load registry: %w", err)
		}
	}

	if reg.Supports(form.Type) {
		return fmt.Errorf("form type %s already exists", form.Type)
	}

	reg.Forms = append(reg.Forms, *form)
	reg.LastUpdated = time.Now().Format(time.RFC3339)

	return saveRegistry(reg, registryPath)
}

func addSection(formType string, section *forms.SectionDefinition) error {
	reg, err := forms.LoadRegistry(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	found := false
	for i := range reg.Forms {
		if !strings.EqualFold(reg.Forms[i].Type, formType) {
			continue
		}
		found = true
		for _, existing := range reg.Forms[i].Sections {
			if existing.ID == section.ID {
				return fmt.Errorf("section %s already exists on form %s", section.ID, formType)
			}
		}
		reg.Forms[i].Sections = append(reg.Forms[i].Sections, *section)
		break
	}

	if !found {
		return fmt.Errorf("form type %s not found", formType)
	}

	reg.LastUpdated = time.Now().Format(time.RFC3339)
	return saveRegistry(reg, registryPath)
}

func updateForm(formType, field, value string) error {
	reg, err := forms.LoadRegistry(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	found := false
	for i := range reg.Forms {
		if !strings.EqualFold(reg.Forms[i].Type, formType) {
			continue
		}
		found = true
		switch field {
		case "displayName":
			reg.Forms[i].DisplayName = value
		case "description":
			reg.Forms[i].Description = value
		case "category":
			reg.Forms[i].Category = value
		case "aliases":
			reg.Forms[i].Aliases = splitList(value)
		default:
			return fmt.Errorf("unknown field: %s", field)
		}
		break
	}

	if !found {
		return fmt.Errorf("form type %s not found", formType)
	}

	reg.LastUpdated = time.Now().Format(time.RFC3339)
	return saveRegistry(reg, registryPath)
}

func validateRegistry() error {
	// LoadRegistry runs the schema validation on the way in.
	reg, err := forms.LoadRegistry(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	types := make(map[string]bool)
	for _, form := range reg.Forms {
		key := strings.ToUpper(form.Type)
		if types[key] {
			return fmt.Errorf("duplicate form type: %s", form.Type)
		}
		types[key] = true

		sections := make(map[string]bool)
		for _, section := range form.Sections {
			if sections[section.ID] {
				return fmt.Errorf("form %s has duplicate section ID: %s", form.Type, section.ID)
			}
			sections[section.ID] = true
		}
	}

	fmt.Printf("Registry validation passed. Found %d forms.\n", len(reg.Forms))
	return nil
}

// saveRegistry handles saving the registry to file
func saveRegistry(reg *forms.FormRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	// Re-validate before writing so a bad edit never lands on disk.
	if err := forms.ValidateRegistryBytes(data); err != nil {
		return err
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	err = os.WriteFile(path, data, 0644)
	if err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}

	return nil
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func help() {
	fmt.Print(`
Usage: registry-updater <command> [flags]

Commands:
  add          Add a new form type to the registry
  add-section  Add a section definition to an existing form
  update       Update an existing form's field
  validate     Validate the registry file
  help         Show this help message

Examples:
  registry-updater add -type 20-F -displayName "Annual Report (Foreign Private Issuer)" -category annual -aliases 20-F/A
  registry-updater add-section -type 20-F -id risk_factors -title "Risk Factors" -startMarkers "item 3.d,risk factors" -endMarkers "item 4"
  registry-updater update -type 20-F -field description -value "Annual report filed by foreign private issuers"
  registry-updater validate -path configs/form-registry.json

Use 'registry-updater <command> -h' for more information about a command.
`)
}
