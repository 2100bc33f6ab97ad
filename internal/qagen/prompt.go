package qagen

import (
	"fmt"
	"sort"
	"strings"
)

// Template builds the prompt for one seed pair. Build is pure: the same
// inputs always produce the same prompt.
type Template struct {
	// Name identifies the template on the CLI.
	Name string

	// DefaultTemperature is used when the operator does not override
	// sampling temperature for the run.
	DefaultTemperature float64

	build func(category, topic string, count int) string
}

// Build renders the prompt for a seed. Inputs are passed through verbatim;
// they feed a model, not an interpreter, so no escaping is needed.
func (t Template) Build(category, topic string, count int) string {
	return t.build(category, topic, count)
}

// templates holds the built-in prompt variants. The two entries cover the
// two original pipeline flavors: exploratory topical generation at high
// temperature, and flat factual generation at zero temperature.
var templates = map[string]Template{
	"topical": {
		Name:               "topical",
		DefaultTemperature: 0.7,
		build: func(category, topic string, count int) string {
			var b strings.Builder
			fmt.Fprintf(&b, "Generate %d specific questions about %s related to %s.\n", count, topic, category)
			b.WriteString("Each question should be detailed and focused on important aspects.\n")
			b.WriteString("For each question, also provide a comprehensive answer.\n")
			b.WriteString("Format the response as a JSON array with objects containing 'question' and 'answer' keys.")
			return b.String()
		},
	},
	"factual": {
		Name:               "factual",
		DefaultTemperature: 0.0,
		build: func(category, topic string, count int) string {
			var b strings.Builder
			fmt.Fprintf(&b, "Generate %d factually correct and in-depth question and answer pairs about %s (%s).\n", count, topic, category)
			b.WriteString("Answers must be accurate and self-contained.\n")
			b.WriteString("Format the response as a JSON array with objects containing 'question' and 'answer' keys.")
			return b.String()
		},
	},
}

// TemplateByName returns the named template.
func TemplateByName(name string) (Template, error) {
	t, ok := templates[name]
	if !ok {
		return Template{}, fmt.Errorf("unknown template %q (available: %s)", name, strings.Join(TemplateNames(), ", "))
	}
	return t, nil
}

// TemplateNames lists the built-in template names, sorted.
func TemplateNames() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
