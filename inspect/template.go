package inspect

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"sort"
	"strings"
	"text/template"
	"time"
	"unicode/utf8"

	"github.com/x4b1/mqbackup"
)

var (
	//go:embed summary.tmpl
	summaryFile string
	//nolint:gochecknoglobals // is the easiest way to initialise once the template
	summaryTemplate = template.Must(template.New("summary").Funcs(funcMap).Parse(summaryFile))
	//nolint:gochecknoglobals // is the easiest way to initialise once the template
	funcMap = template.FuncMap{
		"prettyBody": prettyBody,
		"formatDate": formatDate,
		"join":       strings.Join,
		"properties": formatProperties,
	}
)

// prettyBody indents json bodies, other text bodies are kept and binary ones are summarised.
func prettyBody(b []byte) string {
	var prettyJSON bytes.Buffer
	if err := json.Indent(&prettyJSON, b, "    ", "  "); err == nil {
		return prettyJSON.String()
	}
	if utf8.Valid(b) {
		return string(b)
	}

	return "<binary>"
}

func formatDate(d time.Time) string {
	return d.Format(time.RFC3339)
}

func formatProperties(p mqbackup.Properties) string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"("+p.Kind(k)+")="+mqbackup.FormatValue(p[k]))
	}

	return strings.Join(parts, " ")
}
