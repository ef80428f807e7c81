// Package schema holds the table metadata the repository layer works from:
// table names, primary keys, columns and the fillable allow-list.
package schema

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"unicode"

	pluralizer "github.com/gertd/go-pluralize"
	"gopkg.in/yaml.v3"
)

//go:embed schema.yaml
var manifest []byte

var pluralizeClient = pluralizer.NewClient()

var (
	// ErrUnknownModel is returned when a model or table is not registered.
	ErrUnknownModel = errors.New("unknown model")

	// ErrInvalidManifest is returned when the manifest fails validation.
	ErrInvalidManifest = errors.New("invalid schema manifest")
)

// Model describes one table.
type Model struct {
	Name       string   `yaml:"name"`
	Table      string   `yaml:"table"`
	PrimaryKey string   `yaml:"primary_key"`
	Columns    []string `yaml:"columns"`
	Fillable   []string `yaml:"fillable"`
	Hidden     []string `yaml:"hidden"`

	columns  map[string]bool
	fillable map[string]bool
	hidden   map[string]bool
}

// HasColumn reports whether col belongs to the table.
func (m *Model) HasColumn(col string) bool {
	return m.columns[col]
}

// IsFillable reports whether col may be mass-assigned.
func (m *Model) IsFillable(col string) bool {
	return m.fillable[col]
}

// Visible returns the columns in manifest order, without hidden ones.
func (m *Model) Visible() []string {
	out := make([]string, 0, len(m.Columns))
	for _, c := range m.Columns {
		if !m.hidden[c] {
			out = append(out, c)
		}
	}
	return out
}

// Filter keeps the fillable entries of data. The primary key is never
// fillable.
func (m *Model) Filter(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		if k != m.PrimaryKey && m.fillable[k] {
			out[k] = v
		}
	}
	return out
}

func (m *Model) init() error {
	if m.Name == "" {
		return fmt.Errorf("%w: model without name", ErrInvalidManifest)
	}
	if m.Table == "" {
		m.Table = TableName(m.Name)
	}
	if m.PrimaryKey == "" {
		m.PrimaryKey = "id"
	}

	m.columns = toSet(m.Columns)
	m.fillable = toSet(m.Fillable)
	m.hidden = toSet(m.Hidden)

	if len(m.columns) != len(m.Columns) {
		return fmt.Errorf("%w: %s has duplicate columns", ErrInvalidManifest, m.Name)
	}
	if !m.columns[m.PrimaryKey] {
		return fmt.Errorf("%w: %s primary key %q is not a column", ErrInvalidManifest, m.Name, m.PrimaryKey)
	}
	for _, set := range [][]string{m.Fillable, m.Hidden} {
		for _, c := range set {
			if !m.columns[c] {
				return fmt.Errorf("%w: %s references unknown column %q", ErrInvalidManifest, m.Name, c)
			}
		}
	}
	if m.fillable[m.PrimaryKey] {
		return fmt.Errorf("%w: %s primary key cannot be fillable", ErrInvalidManifest, m.Name)
	}
	return nil
}

// Registry indexes models by name and by table.
type Registry struct {
	byName  map[string]*Model
	byTable map[string]*Model
	tables  []string
}

type manifestFile struct {
	Models []*Model `yaml:"models"`
}

// Load parses and validates a YAML manifest.
func Load(data []byte) (*Registry, error) {
	var file manifestFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}

	r := &Registry{
		byName:  make(map[string]*Model, len(file.Models)),
		byTable: make(map[string]*Model, len(file.Models)),
	}
	for _, m := range file.Models {
		if err := m.init(); err != nil {
			return nil, err
		}
		if _, dup := r.byName[m.Name]; dup {
			return nil, fmt.Errorf("%w: model %s declared twice", ErrInvalidManifest, m.Name)
		}
		if _, dup := r.byTable[m.Table]; dup {
			return nil, fmt.Errorf("%w: table %s declared twice", ErrInvalidManifest, m.Table)
		}
		r.byName[m.Name] = m
		r.byTable[m.Table] = m
		r.tables = append(r.tables, m.Table)
	}
	return r, nil
}

var loadDefault = sync.OnceValues(func() (*Registry, error) {
	return Load(manifest)
})

// Default returns the registry built from the embedded manifest.
func Default() (*Registry, error) {
	return loadDefault()
}

// Model looks a model up by name.
func (r *Registry) Model(name string) (*Model, error) {
	m, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, name)
	}
	return m, nil
}

// ByTable looks a model up by table name.
func (r *Registry) ByTable(table string) (*Model, error) {
	m, ok := r.byTable[table]
	if !ok {
		return nil, fmt.Errorf("%w: table %s", ErrUnknownModel, table)
	}
	return m, nil
}

// Tables returns table names in manifest order.
func (r *Registry) Tables() []string {
	return slices.Clone(r.tables)
}

// TableName derives a table name from a model name: TaskTag -> task_tags.
func TableName(model string) string {
	snake := toSnakeCase(model)
	parts := strings.Split(snake, "_")
	parts[len(parts)-1] = pluralizeClient.Plural(parts[len(parts)-1])
	return strings.Join(parts, "_")
}

func toSnakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return set
}
