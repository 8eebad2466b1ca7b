// Package properties loads Java-style key=value files such as key.properties.
package properties

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/magiconair/properties"
)

// Source is an ordered, read-only view of a loaded properties file.
type Source struct {
	path   string
	keys   []string
	values map[string]string
}

// newLoader returns the loader used for credential files. Bytes are read as
// ISO-8859-1 like java.util.Properties.load(InputStream); \uXXXX escapes
// still decode. Expansion of ${...} is disabled because passwords may
// contain it.
func newLoader() *properties.Loader {
	return &properties.Loader{
		Encoding:         properties.ISO_8859_1,
		DisableExpansion: true,
	}
}

// LoadFile opens path, parses it and closes the handle before returning.
// A missing file is reported with an error satisfying os.IsNotExist.
func LoadFile(path string) (*Source, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	f, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", abs, err)
	}

	src, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", abs, err)
	}
	src.path = abs
	return src, nil
}

// Parse parses properties text.
func Parse(data []byte) (*Source, error) {
	p, err := newLoader().LoadBytes(data)
	if err != nil {
		return nil, err
	}

	src := &Source{
		keys:   p.Keys(),
		values: make(map[string]string, p.Len()),
	}
	for _, k := range src.keys {
		v, _ := p.Get(k)
		src.values[k] = v
	}
	return src, nil
}

// Path returns the absolute path the source was loaded from, or "" for
// sources parsed from memory.
func (s *Source) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Get returns the value for key and whether it was present.
func (s *Source) Get(key string) (string, bool) {
	if s == nil {
		return "", false
	}
	v, ok := s.values[key]
	return v, ok
}

// Lookup returns a pointer to a copy of the value, or nil when the key is absent.
func (s *Source) Lookup(key string) *string {
	v, ok := s.Get(key)
	if !ok {
		return nil
	}
	return &v
}

// Keys returns the keys in file order.
func (s *Source) Keys() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len returns the number of keys.
func (s *Source) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}
