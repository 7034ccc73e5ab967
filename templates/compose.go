package templates

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cdevos2017/cot6930-200-a1/utils"
)

var placeholderRe = regexp.MustCompile(`\{([a-z_]+)\}`)

// Expand substitutes the named placeholders in template. Placeholders in the
// template that have no entry in values produce an error; placeholder text
// introduced by a substituted value is left alone.
func Expand(template string, values map[string]string) (string, error) {
	var missing []string
	out := placeholderRe.ReplaceAllStringFunc(template, func(m string) string {
		name := strings.Trim(m, "{}")
		if v, ok := values[name]; ok {
			return v
		}
		missing = append(missing, name)
		return m
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("template references unknown placeholders: %s", strings.Join(missing, ", "))
	}
	return out, nil
}

// Fill inserts the query into a template. Templates without the {query}
// placeholder pass the query through unchanged.
func Fill(template, query string) string {
	if strings.Contains(template, "{query}") {
		return strings.ReplaceAll(template, "{query}", query)
	}
	return query
}

// Compose combines the role template and the technique template into one
// composed template string: the role template is substituted into the
// technique template's {query} slot, so the result still carries the {query}
// placeholder for the actual query text.
//
// Compose never fails. A technique template with placeholders the composer
// cannot satisfy logs a diagnostic and falls back to the plain role template;
// a composition that loses the {query} placeholder falls back to Identity.
func Compose(store Store, role, technique string, logger utils.Logger) string {
	roleTemplate := store.RoleTemplate(role)
	if technique == "" {
		return ensureQuery(roleTemplate)
	}

	techniqueTemplate := store.TechniqueTemplate(technique)
	composed, err := Expand(techniqueTemplate, map[string]string{
		"query": roleTemplate,
		"role":  role,
	})
	if err != nil {
		if logger != nil {
			logger.Warn("failed to apply technique template, using role template",
				"technique", technique, "error", err)
		}
		composed = roleTemplate
	}
	return ensureQuery(composed)
}

func ensureQuery(template string) string {
	if strings.Contains(template, "{query}") {
		return template
	}
	return Identity
}
