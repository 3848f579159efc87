// Package dashboard renders Grafana dashboards over the GreptimeDB tables
// the simulator writes to.
package dashboard

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"citadel-sim/internal/telemetry"
)

//go:embed templates/*.json.tmpl
var templates embed.FS

var funcMap = template.FuncMap{
	"env": func(key string) (string, error) {
		v := os.Getenv(key)
		if v == "" {
			return "", fmt.Errorf("environment variable %s not set", key)
		}
		return v, nil
	},
}

// tables exposes the active table names to the templates.
type tables struct {
	Scans   string
	Attacks string
	State   string
}

// Render parses the embedded dashboard templates and writes the rendered
// dashboards to outDir.
func Render(outDir string) error {
	names, err := fs.Glob(templates, "templates/*.json.tmpl")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	data := tables{
		Scans:   telemetry.ScanTableName,
		Attacks: telemetry.AttackTableName,
		State:   telemetry.StateTableName,
	}
	for _, name := range names {
		base := filepath.Base(name)
		t, err := template.New(base).Funcs(funcMap).ParseFS(templates, name)
		if err != nil {
			return err
		}
		var b strings.Builder
		if err := t.Execute(&b, data); err != nil {
			return fmt.Errorf("render %s: %w", base, err)
		}
		outPath := filepath.Join(outDir, strings.TrimSuffix(base, ".tmpl"))
		if err := os.WriteFile(outPath, []byte(b.String()), 0o644); err != nil {
			return err
		}
	}
	return nil
}
