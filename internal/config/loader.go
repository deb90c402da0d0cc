package config

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// ErrInvalid marks a catalog that parsed but failed verification. Such a
// catalog is never installed; the previous one stays live.
var ErrInvalid = errors.New("invalid catalog")

// Loader reads the YAML puzzle catalog and watches it for changes. Every
// load — initial, explicit reload, and file-watch reload — runs through the
// verify hook before the catalog becomes current.
type Loader struct {
	path     string
	verify   func(*CatalogConfig) error
	mu       sync.RWMutex
	current  *CatalogConfig
	onChange []func(*CatalogConfig)
	watcher  *fsnotify.Watcher
}

// NewLoader creates a Loader and performs the initial load. verify, when
// non-nil, gates every load: a catalog failing it is rejected with ErrInvalid.
func NewLoader(path string, verify func(*CatalogConfig) error) (*Loader, error) {
	l := &Loader{path: path, verify: verify}
	cfg, err := l.load()
	if err != nil {
		return nil, err
	}
	l.current = cfg
	return l, nil
}

// Config returns the current (latest) catalog.
func (l *Loader) Config() *CatalogConfig {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// OnChange registers a callback invoked whenever the catalog reloads.
func (l *Loader) OnChange(fn func(*CatalogConfig)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = append(l.onChange, fn)
}

// Watch starts a background goroutine that hot-reloads the catalog on file
// changes. Call the returned stop function to clean up.
func (l *Loader) Watch() (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("catalog watcher: %w", err)
	}
	if err := w.Add(l.path); err != nil {
		w.Close()
		return nil, fmt.Errorf("catalog watcher add %s: %w", l.path, err)
	}
	l.watcher = w

	done := make(chan struct{})
	go func() {
		defer w.Close()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
					cfg, err := l.load()
					if err != nil {
						// Unreadable or invalid: keep serving the old catalog.
						continue
					}
					l.mu.Lock()
					l.current = cfg
					callbacks := make([]func(*CatalogConfig), len(l.onChange))
					copy(callbacks, l.onChange)
					l.mu.Unlock()
					for _, fn := range callbacks {
						fn(cfg)
					}
				}
			case <-w.Errors:
				// Ignore watcher errors.
			case <-done:
				return
			}
		}
	}()

	return func() { close(done) }, nil
}

// Reload forces an immediate re-read of the catalog file. A catalog that
// fails verification is not installed and the old one keeps serving.
func (l *Loader) Reload() (*CatalogConfig, error) {
	cfg, err := l.load()
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.current = cfg
	callbacks := make([]func(*CatalogConfig), len(l.onChange))
	copy(callbacks, l.onChange)
	l.mu.Unlock()
	for _, fn := range callbacks {
		fn(cfg)
	}
	return cfg, nil
}

func (l *Loader) load() (*CatalogConfig, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", l.path, err)
	}
	var cfg CatalogConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", l.path, err)
	}
	// Apply defaults.
	if cfg.Engine.Oracle == "" {
		cfg.Engine.Oracle = "heuristic"
	}
	if cfg.Engine.OracleWorkers == 0 {
		cfg.Engine.OracleWorkers = 8
	}
	if cfg.Engine.OracleTimeoutMs == 0 {
		cfg.Engine.OracleTimeoutMs = 2000
	}
	if l.verify != nil {
		if err := l.verify(&cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
	}
	return &cfg, nil
}
