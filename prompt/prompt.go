package prompt

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// embeddedPrompts holds the default templates shipped in the binary.
//
//go:embed prompts/*.txt
var embeddedPrompts embed.FS

// ErrNotFound indicates no search directory or embedded file has the prompt.
var ErrNotFound = errors.New("prompt not found")

// Loader loads and renders prompt templates. Directories added with
// AddSearchDir override the embedded defaults. Safe for concurrent use.
type Loader struct {
	mu      sync.Mutex
	dirs    []string                      // Directories to search
	cache   map[string]*template.Template // Parsed templates
	funcMap template.FuncMap
}

// NewLoader creates a loader searching dirs, in order, before the
// embedded templates.
func NewLoader(dirs ...string) *Loader {
	return &Loader{
		dirs:    slices.Clone(dirs),
		cache:   make(map[string]*template.Template),
		funcMap: defaultFuncMap(),
	}
}

// AddSearchDir adds a directory searched before the existing ones.
func (l *Loader) AddSearchDir(dir string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dirs = append([]string{dir}, l.dirs...)
	l.cache = make(map[string]*template.Template)
}

// Load renders a prompt without variables.
func (l *Loader) Load(name string) (string, error) {
	return l.LoadWithVars(name, nil)
}

// LoadWithVars renders a prompt with vars.
func (l *Loader) LoadWithVars(name string, vars map[string]any) (string, error) {
	tmpl, err := l.template(name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", name, err)
	}
	return buf.String(), nil
}

// Exists reports whether a prompt can be loaded.
func (l *Loader) Exists(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, err := l.loadRaw(name)
	return err == nil
}

// List returns every available prompt name, sorted.
func (l *Loader) List() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	names := make(map[string]bool)
	add := func(entries []fs.DirEntry) {
		for _, entry := range entries {
			if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".txt") {
				names[strings.TrimSuffix(entry.Name(), ".txt")] = true
			}
		}
	}

	for _, dir := range l.dirs {
		if entries, err := os.ReadDir(dir); err == nil {
			add(entries)
		}
	}
	if entries, err := embeddedPrompts.ReadDir("prompts"); err == nil {
		add(entries)
	}

	out := make([]string, 0, len(names))
	for name := range names {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

func (l *Loader) template(name string) (*template.Template, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if tmpl, ok := l.cache[name]; ok {
		return tmpl, nil
	}

	content, err := l.loadRaw(name)
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New(name).Funcs(l.funcMap).Option("missingkey=zero").Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parse prompt template %s: %w", name, err)
	}

	l.cache[name] = tmpl
	return tmpl, nil
}

// loadRaw returns the unparsed template. Callers hold mu.
func (l *Loader) loadRaw(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	filename := name + ".txt"

	for _, dir := range l.dirs {
		data, err := os.ReadFile(filepath.Join(dir, filename))
		if err == nil {
			return string(data), nil
		}
	}

	data, err := embeddedPrompts.ReadFile("prompts/" + filename)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return string(data), nil
}

func defaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"join":    strings.Join,
		"trim":    strings.TrimSpace,
		"upper":   strings.ToUpper,
		"lower":   strings.ToLower,
		"title":   cases.Title(language.English).String,
		"indent":  indentString,
		"default": defaultValue,
		"quote":   quoteString,
	}
}

// indentString indents every non-empty line.
func indentString(indent int, s string) string {
	if s == "" {
		return s
	}
	prefix := strings.Repeat(" ", indent)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

// defaultValue returns def when value is nil or empty.
func defaultValue(def, value any) any {
	if value == nil {
		return def
	}
	if s, ok := value.(string); ok && s == "" {
		return def
	}
	return value
}

func quoteString(s string) string {
	return fmt.Sprintf("%q", s)
}
