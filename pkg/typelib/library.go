package typelib

import (
	"errors"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	fbio "github.com/matzehuels/fbnet/pkg/io"
	"github.com/matzehuels/fbnet/pkg/network"
)

// Extensions lists the file extensions indexed as type definitions.
var Extensions = []string{".fbt", ".sub", ".adp"}

// Library maps type names to definition files. It is safe for concurrent
// use once [Library.Index] has returned.
type Library struct {
	dirs   []string
	logger *log.Logger

	mu      sync.RWMutex
	files   map[string]string
	cache   map[string]network.Interface
	indexed bool
	group   singleflight.Group
}

// Option configures a [Library].
type Option func(*Library)

// WithLogger sets the logger for index and parse diagnostics.
func WithLogger(l *log.Logger) Option { return func(lib *Library) { lib.logger = l } }

// New creates a library over dirs. Nothing is read until [Library.Index].
func New(dirs []string, opts ...Option) *Library {
	lib := &Library{
		dirs:   dirs,
		logger: log.New(io.Discard),
		files:  map[string]string{},
		cache:  map[string]network.Interface{},
	}
	for _, opt := range opts {
		opt(lib)
	}
	return lib
}

// Index walks every directory once. Missing directories are skipped; later
// directories override earlier ones on name clashes. Calling Index again
// is a no-op.
func (l *Library) Index() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.indexed {
		return nil
	}

	for _, dir := range l.dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == dir && errors.Is(err, fs.ErrNotExist) {
					return fs.SkipAll
				}
				return err
			}
			if d.IsDir() || !isDefinition(path) {
				return nil
			}
			stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			l.files[stem] = path
			if rel, err := filepath.Rel(dir, path); err == nil {
				l.files[QualifiedName(rel)] = path
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	l.indexed = true
	l.logger.Debug("type library indexed", "dirs", len(l.dirs), "entries", len(l.files))
	return nil
}

// QualifiedName converts a library-relative file path to a namespaced type
// name: "iec61499/events/E_SPLIT.fbt" becomes "iec61499::events::E_SPLIT".
func QualifiedName(rel string) string {
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	return strings.Join(strings.Split(filepath.ToSlash(rel), "/"), "::")
}

func isDefinition(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Len returns the number of index keys.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.files)
}

// Path returns the definition file for typeName, trying the qualified name
// first and then the part after the last "::".
func (l *Library) Path(typeName string) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if p, ok := l.files[typeName]; ok {
		return p, true
	}
	if i := strings.LastIndex(typeName, "::"); i >= 0 {
		p, ok := l.files[typeName[i+2:]]
		return p, ok
	}
	return "", false
}

// Lookup returns the parsed interface of typeName. Unknown types and
// unreadable definitions report false; the latter are logged. Concurrent
// lookups of the same type parse the file once.
func (l *Library) Lookup(typeName string) (network.Interface, bool) {
	l.mu.RLock()
	iface, ok := l.cache[typeName]
	l.mu.RUnlock()
	if ok {
		return iface, true
	}

	path, ok := l.Path(typeName)
	if !ok {
		return network.Interface{}, false
	}

	v, err, _ := l.group.Do(typeName, func() (any, error) {
		iface, err := fbio.ImportInterface(path)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.cache[typeName] = iface
		l.mu.Unlock()
		return iface, nil
	})
	if err != nil {
		l.logger.Debug("unreadable type definition", "type", typeName, "path", path, "err", err)
		return network.Interface{}, false
	}
	return v.(network.Interface), true
}
