// Package corpus expone los datos de entrenamiento empaquetados con el binario.
package corpus

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data
var files embed.FS

var (
	ErrUnknownCategory = errors.New("unknown corpus category")
	ErrEmptyCategory   = errors.New("corpus category has no conversations")
)

// DefaultCategories son las categorías que el bot entrena siempre.
var DefaultCategories = []string{"english.greetings", "english.conversations"}

// Category es un archivo de corpus: sus etiquetas y sus conversaciones.
type Category struct {
	Name          string
	Tags          []string   `yaml:"categories"`
	Conversations [][]string `yaml:"conversations"`
}

// Load lee una categoría con nombre punteado, p.ej. "english.greetings".
func Load(name string) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.Contains(name, "/") {
		return Category{}, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}
	file := path.Join("data", strings.ReplaceAll(name, ".", "/")+".yml")

	raw, err := files.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Category{}, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
		}
		return Category{}, fmt.Errorf("read corpus %s: %w", name, err)
	}

	var cat Category
	if err := yaml.Unmarshal(raw, &cat); err != nil {
		return Category{}, fmt.Errorf("parse corpus %s: %w", name, err)
	}
	cat.Name = name

	conversations := cat.Conversations[:0]
	for _, conv := range cat.Conversations {
		if len(conv) > 0 {
			conversations = append(conversations, conv)
		}
	}
	cat.Conversations = conversations
	if len(cat.Conversations) == 0 {
		return Category{}, fmt.Errorf("%w: %q", ErrEmptyCategory, name)
	}
	return cat, nil
}

// Available lista las categorías empaquetadas en orden alfabético.
func Available() ([]string, error) {
	var names []string
	err := fs.WalkDir(files, "data", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".yml" {
			return nil
		}
		rel := strings.TrimSuffix(strings.TrimPrefix(p, "data/"), ".yml")
		names = append(names, strings.ReplaceAll(rel, "/", "."))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}
