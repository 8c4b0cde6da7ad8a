package category

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kuberocketai/contenthub/internal/domain/content"
)

// MaxLabelLength is the longest label accepted without a warning.
const MaxLabelLength = 50

var invalidLabelChars = regexp.MustCompile(`[^a-zA-Z0-9\s-]`)

// Severity ranks a rule violation.
type Severity string

const (
	// SeverityError fails validation.
	SeverityError Severity = "error"
	// SeverityWarning is reported but does not fail validation.
	SeverityWarning Severity = "warning"
	// SeverityInfo is a style hint.
	SeverityInfo Severity = "info"
)

// Report collects validation findings.
type Report struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Infos    []string `json:"infos"`
}

// Valid reports whether no errors were found.
func (r Report) Valid() bool { return len(r.Errors) == 0 }

func (r *Report) add(sev Severity, msg string) {
	switch sev {
	case SeverityError:
		r.Errors = append(r.Errors, msg)
	case SeverityWarning:
		r.Warnings = append(r.Warnings, msg)
	default:
		r.Infos = append(r.Infos, msg)
	}
}

func (r *Report) merge(prefix string, o Report) {
	for _, m := range o.Errors {
		r.Errors = append(r.Errors, prefix+m)
	}
	for _, m := range o.Warnings {
		r.Warnings = append(r.Warnings, prefix+m)
	}
	for _, m := range o.Infos {
		r.Infos = append(r.Infos, prefix+m)
	}
}

// ValidateLabels checks a label list for blanks, duplicates, stray whitespace and casing.
func ValidateLabels(labels []string) Report {
	var r Report
	seen := make(map[string]struct{}, len(labels))
	var dups []string

	for i, c := range labels {
		trimmed := strings.TrimSpace(c)
		if trimmed == "" {
			r.add(SeverityError, fmt.Sprintf("category at index %d is empty or whitespace-only", i))
			continue
		}
		if _, ok := seen[trimmed]; ok {
			if !slices.Contains(dups, trimmed) {
				dups = append(dups, trimmed)
			}
		} else {
			seen[trimmed] = struct{}{}
		}
		if trimmed != c {
			r.add(SeverityWarning, fmt.Sprintf("category %q has leading/trailing whitespace", c))
		}
		if strings.ToLower(trimmed) == trimmed || strings.ToUpper(trimmed) == trimmed {
			r.add(SeverityWarning, fmt.Sprintf("category %q should use Title Case", c))
		}
	}

	if len(dups) > 0 {
		r.add(SeverityError, "duplicate categories found: "+strings.Join(dups, ", "))
	}
	return r
}

// Rule is a single check over one item's labels.
type Rule struct {
	ID       string
	Severity Severity
	// Check returns an empty string when the labels pass.
	Check func(labels []string) string
}

// DefaultRules returns the checks applied to every content type.
func DefaultRules() []Rule {
	return []Rule{
		{ID: "not-empty", Severity: SeverityWarning, Check: func(labels []string) string {
			if len(labels) == 0 {
				return "no categories specified"
			}
			return ""
		}},
		{ID: "no-duplicates", Severity: SeverityError, Check: func(labels []string) string {
			if len(Normalize(labels)) != len(labels) {
				return "duplicate categories found"
			}
			return ""
		}},
		{ID: "valid-format", Severity: SeverityError, Check: func(labels []string) string {
			var bad []string
			for _, c := range labels {
				t := strings.TrimSpace(c)
				if t == "" || t != c || invalidLabelChars.MatchString(c) {
					bad = append(bad, c)
				}
			}
			return listMessage("invalid categories", bad)
		}},
		{ID: "reasonable-length", Severity: SeverityWarning, Check: func(labels []string) string {
			var long []string
			for _, c := range labels {
				if utf8.RuneCountInString(c) > MaxLabelLength {
					long = append(long, c)
				}
			}
			return listMessage("overly long categories", long)
		}},
		{ID: "title-case", Severity: SeverityInfo, Check: func(labels []string) string {
			var off []string
			for _, c := range labels {
				if c != titleCase(c) {
					off = append(off, c)
				}
			}
			return listMessage("non-title-case categories", off)
		}},
	}
}

// Policy restricts the labels allowed for one content type.
type Policy struct {
	Allowed  []string
	Required []string
	Min      int
	Max      int
}

// DefaultPolicy returns the built-in label policy for a content type.
func DefaultPolicy(t content.Type) (Policy, bool) {
	p, ok := policies[t]
	return p, ok
}

var policies = map[content.Type]Policy{
	content.TypeAgents: {
		Allowed: []string{
			"Development", "Testing", "Architecture", "DevOps", "Security",
			"Product Management", "Project Management", "Analysis", "Design",
			"Documentation", "Marketing", "Sales", "Support",
		},
		Min: 1, Max: 3,
	},
	content.TypeTemplates: {
		Allowed: []string{
			"Analysis", "Architecture", "Framework Core", "Marketing", "Product",
			"Project Management", "Testing", "Documentation", "Development",
			"Process", "Planning", "Reporting",
		},
		Min: 1, Max: 4,
	},
	content.TypeData: {
		Allowed: []string{
			"Analysis", "Architecture", "Development", "Framework Core", "Management",
			"Product", "Testing", "Standards", "Best Practices", "Methodologies",
			"Principles", "Guidelines",
		},
		Min: 1, Max: 3,
	},
	content.TypeTasks: {
		Allowed: []string{
			"Development", "Testing", "Deployment", "Analysis", "Setup", "Configuration",
			"Integration", "Automation", "Validation", "Documentation", "Maintenance",
		},
		Min: 1, Max: 2,
	},
}

// Validator applies a rule set to item labels.
type Validator struct {
	rules []Rule
}

// NewValidator creates a Validator from DefaultRules plus the policy's restrictions.
func NewValidator(p *Policy) *Validator {
	rules := DefaultRules()
	if p != nil {
		rules = append(rules, policyRules(*p)...)
	}
	return &Validator{rules: rules}
}

// Rules returns the active rule IDs.
func (v *Validator) Rules() []string {
	out := make([]string, len(v.rules))
	for i, r := range v.rules {
		out[i] = r.ID
	}
	return out
}

// Validate runs every rule against labels.
func (v *Validator) Validate(labels []string) Report {
	var r Report
	for _, rule := range v.rules {
		if msg := rule.Check(labels); msg != "" {
			r.add(rule.Severity, msg)
		}
	}
	return r
}

// ValidateCollection checks the metadata/items invariants of a collection and every item's labels.
func (v *Validator) ValidateCollection(col content.Collection, field string) Report {
	var r Report
	meta := col.Metadata()

	if meta.TotalItems != col.Len() {
		r.add(SeverityError, fmt.Sprintf("item count mismatch: actual %d, metadata %d", col.Len(), meta.TotalItems))
	}
	r.merge("metadata: ", ValidateLabels(meta.Categories))

	if meta.GeneratedAt == "" {
		r.add(SeverityWarning, "metadata should have generatedAt")
	}
	if meta.Version == "" {
		r.add(SeverityWarning, "metadata should have version")
	}

	extracted := Extract(col.Items(), field)
	missing, extra := Diff(extracted, Normalize(meta.Categories))
	if len(missing) > 0 {
		r.add(SeverityWarning, "categories in items but not in metadata: "+strings.Join(missing, ", "))
	}
	if len(extra) > 0 {
		r.add(SeverityWarning, "categories in metadata but not in items: "+strings.Join(extra, ", "))
	}

	for _, it := range col.Items() {
		r.merge(fmt.Sprintf("item %s: ", it.ID()), v.Validate(it.Strings(field)))
	}
	return r
}

func policyRules(p Policy) []Rule {
	var rules []Rule
	if len(p.Allowed) > 0 {
		rules = append(rules, Rule{ID: "allowed-categories", Severity: SeverityError, Check: func(labels []string) string {
			var bad []string
			for _, c := range labels {
				if !slices.Contains(p.Allowed, c) {
					bad = append(bad, c)
				}
			}
			return listMessage("disallowed categories", bad)
		}})
	}
	if len(p.Required) > 0 {
		rules = append(rules, Rule{ID: "required-categories", Severity: SeverityError, Check: func(labels []string) string {
			var missing []string
			for _, req := range p.Required {
				if !slices.Contains(labels, req) {
					missing = append(missing, req)
				}
			}
			return listMessage("missing required categories", missing)
		}})
	}
	if p.Min > 0 {
		rules = append(rules, Rule{ID: "min-categories", Severity: SeverityError, Check: func(labels []string) string {
			if len(labels) < p.Min {
				return fmt.Sprintf("at least %d categories required, got %d", p.Min, len(labels))
			}
			return ""
		}})
	}
	if p.Max > 0 {
		rules = append(rules, Rule{ID: "max-categories", Severity: SeverityWarning, Check: func(labels []string) string {
			if len(labels) > p.Max {
				return fmt.Sprintf("at most %d categories recommended, got %d", p.Max, len(labels))
			}
			return ""
		}})
	}
	return rules
}

func listMessage(prefix string, labels []string) string {
	if len(labels) == 0 {
		return ""
	}
	return prefix + ": " + strings.Join(labels, ", ")
}

// titleCase upper-cases the first rune of each space-separated word and lower-cases the rest.
func titleCase(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}
