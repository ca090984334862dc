// Package prompt renders the pipeline's LLM prompt templates: opaque
// strings with named {{.Field}} placeholders, one struct of values per
// call site (topic, criteria, seed-rewrite history, and so on).
//
// Grounded on pkg/strings.TextTemplate's text/template wrapper style —
// parse-then-execute into a builder — generalized here to return the
// rendered string directly instead of accumulating into a shared
// builder across calls, since every prompt render is independent.
package prompt

import (
	"strings"
	"text/template"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/xerrors"
)

// Render parses tmpl as a text/template body and executes it against
// data, returning the rendered string.
func Render(tmpl string, data any) (string, error) {
	t, err := template.New("prompt").Parse(tmpl)
	if err != nil {
		return "", xerrors.Wrap(err, xerrors.ConfigError, "parse prompt template")
	}
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", xerrors.Wrap(err, xerrors.ConfigError, "execute prompt template")
	}
	return b.String(), nil
}

// MustRender is Render for the pipeline's own built-in templates, which
// are constants never expected to fail to parse; a failure here is a
// programming error, not a runtime condition callers should handle.
func MustRender(tmpl string, data any) string {
	out, err := Render(tmpl, data)
	if err != nil {
		panic(err)
	}
	return out
}
