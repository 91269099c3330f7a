package document

import (
	"regexp"
	"strings"
)

// placeholderRe accepts whitespace inside the braces: {{ staff_name }} and
// {{staff_name}} are equivalent.
var placeholderRe = regexp.MustCompile(`\{\{\s*([a-z_]+)\s*\}\}`)

// Substitute replaces every known placeholder in a clause body. Unknown
// names are left verbatim so authoring mistakes stay visible on the
// rendered document.
func Substitute(text string, values map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(text, func(m string) string {
		name := strings.TrimSpace(strings.Trim(m, "{}"))
		if v, ok := values[name]; ok {
			return v
		}
		return m
	})
}
