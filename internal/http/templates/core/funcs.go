package core

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Deps holds optional dependencies for constructing the core template func map.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
}

// Funcs returns a template.FuncMap containing helpers that are broadly useful across templates.
func Funcs(deps Deps) template.FuncMap {
	funcs := template.FuncMap{
		"sectionTmpl":  deps.ContentTemplateFor,
		"add":          func(a, b int) int { return a + b },
		"sub":          func(a, b int) int { return a - b },
		"contains":     strings.Contains,
		"formatNumber": formatNumber,
		"formatPoints": formatPoints,
		"initials":     Initials,
		"roleClass":    roleClass,
	}

	addRenderFuncs(funcs, deps)
	return funcs
}

func addRenderFuncs(funcs template.FuncMap, deps Deps) {
	funcs["renderSection"] = func(page string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 - rendered by our own html/template set; values were escaped during ExecuteTemplate.
		return template.HTML(buf.String()), nil
	}

	// toJSON emits a value into a <script type="application/json"> block.
	// The encoder escapes <, > and & so the output cannot close the script element.
	funcs["toJSON"] = func(v any) (template.JS, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		// #nosec G203 - HTML-escaped JSON produced above.
		return template.JS(b), nil
	}
}

// formatNumber formats an integer with comma separators for thousands.
func formatNumber(v any) string {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int64:
		n = x
	case int32:
		n = int64(x)
	default:
		return fmt.Sprint(v)
	}

	neg := n < 0
	if neg {
		n = -n
	}
	s := strconv.FormatInt(n, 10)
	if len(s) > 3 {
		var b strings.Builder
		prefix := len(s) % 3
		if prefix == 0 {
			prefix = 3
		}
		b.WriteString(s[:prefix])
		for i := prefix; i < len(s); i += 3 {
			b.WriteByte(',')
			b.WriteString(s[i : i+3])
		}
		s = b.String()
	}
	if neg {
		return "-" + s
	}
	return s
}

// formatPoints drops the fraction for whole point totals (half points exist).
func formatPoints(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// Initials returns the uppercase initials of the first and last words of name,
// or of the single word when there is only one.
func Initials(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	out := firstRune(fields[0])
	if len(fields) > 1 {
		out += firstRune(fields[len(fields)-1])
	}
	return strings.ToUpper(out)
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}

func roleClass(role any) string {
	switch fmt.Sprint(role) {
	case "admin":
		return "badge-warning"
	case "member":
		return "badge-info"
	default:
		return "badge-light"
	}
}
