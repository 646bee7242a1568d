package config

import (
	"log"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a config file and the mapping files it references, and
// reloads the config when any of them changes
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	mu       sync.RWMutex
	config   *Config
	files    map[string]bool
	dirs     map[string]bool
	handlers []func(*Config)
	done     chan struct{}
	stopOnce sync.Once
}

// NewWatcher loads the config at path and prepares a watcher for it
func NewWatcher(path string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	cfg, err := Load(path)
	if err != nil {
		w.Close()
		return nil, err
	}

	cw := &Watcher{
		path:    path,
		watcher: w,
		config:  cfg,
		files:   make(map[string]bool),
		dirs:    make(map[string]bool),
		done:    make(chan struct{}),
	}

	if err := cw.track(cfg); err != nil {
		w.Close()
		return nil, err
	}

	return cw, nil
}

// track watches the directories of the config file and every mapping file.
// Directories are watched instead of files so atomic saves via rename are
// seen.
func (w *Watcher) track(cfg *Config) error {
	files := make(map[string]bool)
	for _, p := range append([]string{w.path}, cfg.MappingFiles()...) {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		files[abs] = true

		dir := filepath.Dir(abs)
		if w.dirs[dir] {
			continue
		}
		if err := w.watcher.Add(dir); err != nil {
			return err
		}
		w.dirs[dir] = true
	}

	w.mu.Lock()
	w.files = files
	w.mu.Unlock()
	return nil
}

// Start starts watching for changes
func (w *Watcher) Start() {
	go w.watch()
}

// Stop stops the watcher. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.watcher.Close()
	})
}

// OnReload registers a handler to be called when config is reloaded
func (w *Watcher) OnReload(handler func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, handler)
}

// Get returns the current config
func (w *Watcher) Get() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.config
}

// Watched reports whether changes to path trigger a reload
func (w *Watcher) Watched(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.files[abs]
}

func (w *Watcher) watch() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if w.Watched(event.Name) {
				w.reload()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Config watcher error: %v", err)
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		log.Printf("Failed to reload config: %v", err)
		return
	}

	if err := w.track(cfg); err != nil {
		log.Printf("Failed to watch mapping files: %v", err)
	}

	w.mu.Lock()
	w.config = cfg
	handlers := make([]func(*Config), len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.Unlock()

	log.Printf("Config reloaded from %s", w.path)

	for _, handler := range handlers {
		handler(cfg)
	}
}
