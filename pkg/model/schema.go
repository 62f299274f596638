// pkg/model/schema.go
package model

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultEventValue is the expected content of an event participation column
const DefaultEventValue = "Yes"

// Schema maps the logical contact fields onto the column names of an input table
type Schema struct {
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Email     string `yaml:"email"`
	Phone     string `yaml:"phone"`
	Address   string `yaml:"address"`
	City      string `yaml:"city"`
	State     string `yaml:"state"`
	Zip       string `yaml:"zip"`

	// EventColumn is optional; when empty the event flag is not validated
	EventColumn string `yaml:"event_column"`
	EventValue  string `yaml:"event_value"`
}

// DefaultSchema returns the column names used by the CRM contact export
func DefaultSchema() Schema {
	return Schema{
		FirstName:  "First name",
		LastName:   "Last name",
		Email:      "email",
		Phone:      "Phone",
		Address:    "Address",
		City:       "City",
		State:      "State",
		Zip:        "Zip",
		EventValue: DefaultEventValue,
	}
}

// LoadSchema reads a YAML schema file. Fields left out keep their default names.
func LoadSchema(path string) (Schema, error) {
	schema := DefaultSchema()

	data, err := os.ReadFile(path)
	if err != nil {
		return schema, fmt.Errorf("failed to read schema file: %w", err)
	}
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return schema, fmt.Errorf("failed to parse schema file %s: %w", path, err)
	}
	return schema.withDefaults(), nil
}

func (s Schema) withDefaults() Schema {
	def := DefaultSchema()
	fill := func(v *string, d string) {
		if strings.TrimSpace(*v) == "" {
			*v = d
		}
	}
	fill(&s.FirstName, def.FirstName)
	fill(&s.LastName, def.LastName)
	fill(&s.Email, def.Email)
	fill(&s.Phone, def.Phone)
	fill(&s.Address, def.Address)
	fill(&s.City, def.City)
	fill(&s.State, def.State)
	fill(&s.Zip, def.Zip)
	fill(&s.EventValue, def.EventValue)
	return s
}

// RequiredColumns returns the columns every input table must carry
func (s Schema) RequiredColumns() []string {
	return []string{s.LastName, s.FirstName, s.Email, s.Phone, s.Address, s.City, s.State, s.Zip}
}

// MissingColumns returns the required columns absent from the table
func (s Schema) MissingColumns(t *Table) []string {
	var missing []string
	for _, col := range s.RequiredColumns() {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	return missing
}
