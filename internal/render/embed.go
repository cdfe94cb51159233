package render

import (
	"embed"
	"strings"
)

//go:embed templates/*.tmpl
var EmbeddedTemplates embed.FS

// GetEmbeddedTemplate returns an embedded template body by name.
// The name should not include the .tmpl extension.
func GetEmbeddedTemplate(name string) (string, bool) {
	data, err := EmbeddedTemplates.ReadFile("templates/" + name + ".tmpl")
	if err != nil {
		return "", false
	}
	return string(data), true
}

// ListEmbeddedTemplates returns the names of all embedded templates.
func ListEmbeddedTemplates() []string {
	entries, err := EmbeddedTemplates.ReadDir("templates")
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".tmpl") {
			names = append(names, strings.TrimSuffix(entry.Name(), ".tmpl"))
		}
	}
	return names
}
