package utils

import "strings"

// RenderTemplate substitutes {{name}} placeholders in body with the given
// values. Unknown placeholders are left untouched.
func RenderTemplate(body string, vars map[string]string) string {
	out := body
	for name, value := range vars {
		out = strings.ReplaceAll(out, "{{"+name+"}}", value)
	}
	return out
}
