package content

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/kuberocketai/contenthub/internal/domain"
	domcontent "github.com/kuberocketai/contenthub/internal/domain/content"
)

// envelope names the JSON keys each generated collection file uses.
type envelope struct {
	items      string
	total      string
	categories string
}

var envelopes = map[domcontent.Type]envelope{
	domcontent.TypeAgents:    {items: "agents", total: "totalAgents", categories: "specializations"},
	domcontent.TypeTasks:     {items: "tasks", total: "totalTasks", categories: "categories"},
	domcontent.TypeData:      {items: "dataFiles", total: "totalDatafiles", categories: "categories"},
	domcontent.TypeTemplates: {items: "templates", total: "totalTemplates", categories: "categories"},
}

// Agent-only fields.
const (
	fieldRole            = "role"
	fieldWhenToUse       = "whenToUse"
	fieldSpecializations = "specializations"
)

type metadataDTO struct {
	GeneratedAt string `json:"generatedAt"`
	Version     string `json:"version"`
}

// Decode parses a generated collection file of the given type.
// Structural problems are reported as domain.ErrInvalidContent.
func Decode(t domcontent.Type, data []byte) (domcontent.Collection, error) {
	env, ok := envelopes[t]
	if !ok {
		return domcontent.Collection{}, fmt.Errorf("unknown content type %q", t)
	}

	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil || root == nil {
		return domcontent.Collection{}, invalid("invalid %s data structure", env.items)
	}

	rawItems, ok := root[env.items]
	if !ok || !isArray(rawItems) {
		return domcontent.Collection{}, invalid("invalid %s data structure", env.items)
	}
	var fields []map[string]any
	if err := json.Unmarshal(rawItems, &fields); err != nil {
		return domcontent.Collection{}, invalid("invalid %s data structure", env.items)
	}

	meta, err := decodeMetadata(root["metadata"], env)
	if err != nil {
		return domcontent.Collection{}, err
	}

	items := make([]domcontent.Item, 0, len(fields))
	for i, f := range fields {
		if t == domcontent.TypeAgents {
			f = normalizeAgent(f)
		}
		item, err := domcontent.NewItem(f)
		if err != nil {
			return domcontent.Collection{}, invalid("%s[%d]: %v", env.items, i, err)
		}
		items = append(items, item)
	}

	return domcontent.NewCollection(t, items, meta), nil
}

func decodeMetadata(raw json.RawMessage, env envelope) (domcontent.Metadata, error) {
	var fields map[string]json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &fields) != nil || fields == nil {
		return domcontent.Metadata{}, invalid("invalid %s metadata", env.items)
	}

	var total int
	rawTotal, ok := fields[env.total]
	if !ok || json.Unmarshal(rawTotal, &total) != nil {
		return domcontent.Metadata{}, invalid("invalid %s metadata", env.items)
	}

	var dto metadataDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return domcontent.Metadata{}, invalid("invalid %s metadata", env.items)
	}

	// Categories are optional; a malformed list is treated as absent.
	var categories []string
	if rawCats, ok := fields[env.categories]; ok {
		_ = json.Unmarshal(rawCats, &categories)
	}

	return domcontent.Metadata{
		TotalItems:  total,
		Categories:  categories,
		GeneratedAt: dto.GeneratedAt,
		Version:     dto.Version,
	}, nil
}

// normalizeAgent fills whenToUse and mirrors specializations into the
// shared category field.
func normalizeAgent(f map[string]any) map[string]any {
	if s, _ := f[fieldWhenToUse].(string); s == "" {
		f[fieldWhenToUse] = fallbackWhenToUse(f)
	}
	if _, ok := f[domcontent.FieldCategories]; !ok {
		if specs, ok := f[fieldSpecializations]; ok {
			f[domcontent.FieldCategories] = specs
		}
	}
	return f
}

func fallbackWhenToUse(f map[string]any) string {
	role, _ := f[fieldRole].(string)
	if role == "" {
		return "Consult with this agent for specialized tasks and expert guidance"
	}
	return fmt.Sprintf("Consult with %s for specialized tasks and expert guidance", role)
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidContent, fmt.Sprintf(format, args...))
}
