package pages

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
)

//go:embed templates/securedrop.html.tmpl
var templates embed.FS

var page = template.Must(template.ParseFS(templates, "templates/securedrop.html.tmpl"))

type pageData struct {
	SecureDropURL string
	Path          string
	Healthy       bool
}

// Render produces one page variant. assetPath prefixes links to static
// assets; PROD needs "securedrop/" to match the CDN routing.
func Render(securedropURL, assetPath string, healthy bool) ([]byte, error) {
	var buf bytes.Buffer
	err := page.Execute(&buf, pageData{
		SecureDropURL: securedropURL,
		Path:          assetPath,
		Healthy:       healthy,
	})
	if err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}

// Build renders both variants into dir, replacing whatever was there.
func Build(dir, securedropURL, stage string) error {
	assetPath := ""
	if stage == "PROD" {
		assetPath = "securedrop/"
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("clear build dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create build dir: %w", err)
	}

	variants := map[string]bool{
		"index.html":       true,
		"maintenance.html": false,
	}
	for name, healthy := range variants {
		body, err := Render(securedropURL, assetPath, healthy)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, name), body, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}
