// Package prefs handles Stockroom user preferences persistence.
// Preferences are stored in ~/.config/stockroom/prefs.toml.
package prefs

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-faster/errors"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/stockroom/internal/catalog"
)

// Prefs holds user preferences for Stockroom.
type Prefs struct {
	Theme string `toml:"theme"`
	// Sort is the persisted product table sort; nil means server order.
	Sort *catalog.Sort `toml:"products_sort,omitempty"`
}

const (
	defaultPrefsPath = "~/.config/stockroom/prefs.toml"
	defaultTheme     = "Nightfox"
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from the given path, falling back to defaults if missing.
// A malformed sort entry is dropped rather than reported.
func Load(path string) (Prefs, error) {
	prefs := Prefs{Theme: defaultTheme}

	resolved, err := resolvePath(path)
	if err != nil {
		return prefs, nil
	}

	file, err := os.Open(resolved)
	if err != nil {
		return prefs, nil // Graceful degradation, missing or unreadable
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs, nil
	}

	var base struct {
		Theme string `toml:"theme"`
	}
	if err := toml.Unmarshal(bytes, &base); err != nil {
		return prefs, nil
	}
	prefs.Theme = base.Theme

	// A bad sort entry must not take the theme down with it.
	var sorted struct {
		Sort *catalog.Sort `toml:"products_sort"`
	}
	if err := toml.Unmarshal(bytes, &sorted); err == nil {
		prefs.Sort = sorted.Sort
	}

	if strings.TrimSpace(prefs.Theme) == "" {
		prefs.Theme = defaultTheme
	}
	if !prefs.Sort.Valid() {
		prefs.Sort = nil
	}

	return prefs, nil
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return errors.Wrap(err, "resolve path")
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create prefs dir")
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "marshal prefs")
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return errors.Wrap(err, "write prefs")
	}

	return nil
}

// Update loads the current preferences, applies fn and saves the result.
func Update(path string, fn func(*Prefs)) error {
	current, _ := Load(path)
	fn(&current)
	return Save(path, current)
}

// File persists individual preferences to one prefs file. It is safe for
// concurrent use.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile returns a File backed by path; empty uses DefaultPath.
func NewFile(path string) *File {
	if strings.TrimSpace(path) == "" {
		path = defaultPrefsPath
	}
	return &File{path: path}
}

// Path returns the unexpanded prefs path.
func (f *File) Path() string {
	return f.path
}

// Sort returns the stored sort preference, or nil when none or malformed.
func (f *File) Sort() *catalog.Sort {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, _ := Load(f.path)
	return p.Sort
}

// SaveSort overwrites the stored sort; nil removes it.
func (f *File) SaveSort(sort *catalog.Sort) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Update(f.path, func(p *Prefs) {
		p.Sort = sort.Clone()
	})
}

// SaveTheme stores the selected theme name.
func (f *File) SaveTheme(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Update(f.path, func(p *Prefs) {
		p.Theme = name
	})
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "resolve home dir")
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
