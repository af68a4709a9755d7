package archive

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// settleDelay gives the OS time to finish writing a dropped archive before
// ingestion starts; subsequent writes reset the timer.
const settleDelay = 2 * time.Second

// Watcher observes an exports directory and invokes the callback for every
// newly written *.zip archive once writes have settled.
type Watcher struct {
	dir      string
	onExport func(path string)

	fw      *fsnotify.Watcher
	mu      sync.Mutex
	pending map[string]*time.Timer
	done    chan struct{}
}

func NewWatcher(dir string, onExport func(path string)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}
	return &Watcher{
		dir:      dir,
		onExport: onExport,
		fw:       fw,
		pending:  make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}, nil
}

// Start launches the event loop. Close stops it.
func (w *Watcher) Start() {
	go w.loop()
	log.Info().Str("dir", w.dir).Msg("watching exports directory")
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".zip") {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			w.schedule(event.Name)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			log.Err(err).Msg("exports watcher error")
		}
	}
}

func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Reset(settleDelay)
		return
	}
	w.pending[path] = time.AfterFunc(settleDelay, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		log.Info().Str("path", path).Msg("ingesting new export")
		w.onExport(path)
	})
}

func (w *Watcher) Close() error {
	close(w.done)
	w.mu.Lock()
	for _, t := range w.pending {
		t.Stop()
	}
	w.pending = map[string]*time.Timer{}
	w.mu.Unlock()
	return w.fw.Close()
}
