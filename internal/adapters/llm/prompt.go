package llm

import "strings"

// RenderTemplate substitutes {name} placeholders in an instruction template
// with the matching values from vars. Unknown placeholders are left as-is.
func RenderTemplate(template string, vars map[string]string) string {
	if len(vars) == 0 {
		return template
	}

	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
