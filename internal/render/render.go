// Package render writes suggestions as a static HTML page.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"

	"github.com/kevinmichaelchen/star-suggest/internal/models"
)

//go:embed templates/suggest.html.tmpl
var templates embed.FS

var page = template.Must(template.ParseFS(templates, "templates/suggest.html.tmpl"))

type pageData struct {
	User  string
	Repos []models.Repo
}

// HTML renders the suggestion page for user.
func HTML(user string, repos []models.Repo) ([]byte, error) {
	var buf bytes.Buffer
	if err := page.Execute(&buf, pageData{User: user, Repos: repos}); err != nil {
		return nil, fmt.Errorf("rendering suggestions: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile renders the page and writes it to path.
func WriteFile(path, user string, repos []models.Repo) error {
	html, err := HTML(user, repos)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, html, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
