package content

import "fmt"

// Type identifies one of the content hub collections.
type Type string

const (
	// TypeAgents is the AI agent catalog.
	TypeAgents Type = "agents"
	// TypeTasks is the task definition catalog.
	TypeTasks Type = "tasks"
	// TypeData is the reference data file catalog.
	TypeData Type = "data"
	// TypeTemplates is the document template catalog.
	TypeTemplates Type = "templates"
)

// Types lists every content type in tab display order.
func Types() []Type {
	return []Type{TypeAgents, TypeTasks, TypeTemplates, TypeData}
}

// IsValid checks if the content type is supported.
func (t Type) IsValid() bool {
	switch t {
	case TypeAgents, TypeTasks, TypeData, TypeTemplates:
		return true
	}
	return false
}

// Label returns the human-readable tab label.
func (t Type) Label() string {
	switch t {
	case TypeAgents:
		return "Agents"
	case TypeTasks:
		return "Tasks"
	case TypeData:
		return "Data"
	case TypeTemplates:
		return "Templates"
	}
	return string(t)
}

// ParseType validates a raw content type name.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.IsValid() {
		return "", fmt.Errorf("unknown content type %q", s)
	}
	return t, nil
}
