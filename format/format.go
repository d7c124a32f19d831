// Package format is the registry of named record formats.
package format

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/pnsafonov/bitread/format/schema"
	"github.com/pnsafonov/bitread/pkg/decode"
	"github.com/pnsafonov/bitread/pkg/errors"
)

// Format is a named record layout. The program is compiled on first use.
type Format struct {
	Name        string
	Description string
	// Schema is used when CompileFn is nil.
	Schema    decode.Schema
	CompileFn func() (*decode.Program, error)

	once sync.Once
	prog *decode.Program
	err  error
}

// Program returns the compiled program, compiling it once.
func (f *Format) Program() (*decode.Program, error) {
	f.once.Do(func() {
		if f.CompileFn != nil {
			f.prog, f.err = f.CompileFn()
			return
		}
		f.prog, f.err = decode.Compile(f.Schema)
	})
	return f.prog, f.err
}

// Decode decodes buf with the format program.
func (f *Format) Decode(buf []byte) (*decode.Record, error) {
	p, err := f.Program()
	if err != nil {
		return nil, err
	}
	return p.Decode(buf)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]*Format{}
)

// Register adds a format. Formats usually register from init, a duplicate name
// panics.
func Register(f *Format) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, ok := registry[f.Name]; ok {
		panic(fmt.Sprintf("%s: format already registered", f.Name))
	}
	registry[f.Name] = f
}

// Get looks up a format by name.
func Get(name string) (*Format, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[name]
	if !ok {
		return nil, errors.NotFound(errors.PhaseConfig, "format", name)
	}
	return f, nil
}

// Names returns registered format names sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	ns := maps.Keys(registry)
	slices.Sort(ns)
	return ns
}

// FromFile returns an unregistered format for a YAML schema file. The format
// name is the schema meta id or the file name without extension.
func FromFile(path string) (*Format, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	t, err := schema.Parse(r)
	if err != nil {
		return nil, errors.ParseFailed(path, err)
	}
	s, err := t.Schema()
	if err != nil {
		return nil, errors.ParseFailed(path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	f := &Format{Name: s.Name, Schema: s}
	if t.Meta != nil {
		f.Description = t.Meta.Title
	}
	return f, nil
}

// RegisterDir registers every *.yaml and *.yml schema in dir.
func RegisterDir(dir string) error {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		m, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return err
		}
		paths = append(paths, m...)
	}
	slices.Sort(paths)

	for _, p := range paths {
		f, err := FromFile(p)
		if err != nil {
			return err
		}
		registryMu.RLock()
		_, exists := registry[f.Name]
		registryMu.RUnlock()
		if exists {
			return errors.InvalidInput(errors.PhaseConfig, []string{f.Name}, fmt.Sprintf("%s: format already registered", p))
		}
		Register(f)
		decode.Logger().Debug("registered schema", zap.String("format", f.Name), zap.String("path", p))
	}
	return nil
}
