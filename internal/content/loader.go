package content

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"samforge/internal/logging"
)

// Library is a handle to the content library root.
type Library struct {
	Root string
}

// NewLibrary opens the content library at root.
func NewLibrary(root string) (*Library, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("content library: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content library %s is not a directory", root)
	}
	return &Library{Root: root}, nil
}

// LoadTemplates loads every template under templateDir (relative to the
// library root). Files starting with underscore and anything inside a
// _partials directory are skipped; templates with missing required front
// matter are skipped with a warning rather than failing the load.
func (l *Library) LoadTemplates(templateDir string) ([]*Template, error) {
	timer := logging.StartTimer(logging.CategoryCorpus, "LoadTemplates")
	defer timer.Stop()

	dir := filepath.Join(l.Root, templateDir)
	var templates []*Template

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), "_") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(info.Name(), "_") || !strings.HasSuffix(info.Name(), ".md") {
			return nil
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		tmpl, perr := ParseTemplate(path, string(raw))
		if perr != nil {
			logging.Get(logging.CategoryCorpus).Warn("Skipping template: %v", perr)
			return nil
		}
		templates = append(templates, tmpl)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.Corpus("Loaded %d templates from %s", len(templates), templateDir)
	return templates, nil
}

// LoadPartial reads a partial by name from the _partials directory beside
// the given template.
func (l *Library) LoadPartial(name, templatePath string) (string, error) {
	path := filepath.Join(filepath.Dir(templatePath), "_partials", name+".md")
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("partial %s: %w", name, err)
	}
	return strings.TrimSpace(string(raw)), nil
}
