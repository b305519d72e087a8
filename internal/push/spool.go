package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// SpoolProvider turns JSON event frames dropped into a directory into
// events. Writers should create the file under another name and rename it
// to *.json once complete. A frame stays on disk until a listener for its
// kind has received it.
type SpoolProvider struct {
	*Emitter

	dir    string
	logger *zap.Logger

	mu       sync.Mutex
	ingestMu sync.Mutex
	watcher  *fsnotify.Watcher
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

var _ Service = (*SpoolProvider)(nil)

// NewSpoolProvider creates a provider watching dir.
func NewSpoolProvider(dir string, logger *zap.Logger) *SpoolProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SpoolProvider{
		Emitter: NewEmitter(),
		dir:     dir,
		logger:  logger,
	}
}

// Dir returns the watched directory.
func (p *SpoolProvider) Dir() string {
	return p.dir
}

// Start creates the spool directory, emits any frames already present that
// have a listener and watches for new ones.
func (p *SpoolProvider) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.watcher != nil {
		p.mu.Unlock()
		return nil
	}

	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		p.mu.Unlock()
		return fmt.Errorf("creating spool directory %s: %w", p.dir, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		p.mu.Unlock()
		return fmt.Errorf("creating spool watcher: %w", err)
	}
	if err := watcher.Add(p.dir); err != nil {
		watcher.Close()
		p.mu.Unlock()
		return fmt.Errorf("watching spool directory %s: %w", p.dir, err)
	}

	p.watcher = watcher
	p.stopCh = make(chan struct{})

	p.wg.Add(1)
	go p.watchLoop(watcher, p.stopCh)
	p.mu.Unlock()

	// Listeners may take their own locks, so frames are emitted unlocked.
	if err := p.ingestBacklog(); err != nil {
		return err
	}

	p.logger.Info("watching push spool", zap.String("dir", p.dir))
	return nil
}

// AddEventListener registers l for kind and, once started, rescans the
// spool so frames held back for lack of a listener are delivered.
func (p *SpoolProvider) AddEventListener(kind EventKind, l Listener) func() {
	remove := p.Emitter.AddEventListener(kind, l)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.watcher != nil {
		// Bridge.Register subscribes while holding its own lock.
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			if err := p.ingestBacklog(); err != nil {
				p.logger.Warn("rescanning spool", zap.Error(err))
			}
		}()
	}
	return remove
}

func (p *SpoolProvider) ingestBacklog() error {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return fmt.Errorf("reading spool directory %s: %w", p.dir, err)
	}
	for _, e := range entries {
		if !e.IsDir() && isFrameFile(e.Name()) {
			p.ingest(filepath.Join(p.dir, e.Name()))
		}
	}
	return nil
}

// RequestPermission makes sure the drop directory exists.
func (p *SpoolProvider) RequestPermission(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return fmt.Errorf("creating spool directory %s: %w", p.dir, err)
	}
	return nil
}

// Close stops watching.
func (p *SpoolProvider) Close() error {
	p.mu.Lock()
	watcher := p.watcher
	stopCh := p.stopCh
	p.watcher = nil
	p.mu.Unlock()

	if watcher == nil {
		return nil
	}

	close(stopCh)
	err := watcher.Close()
	p.wg.Wait()
	return err
}

func (p *SpoolProvider) watchLoop(watcher *fsnotify.Watcher, stopCh chan struct{}) {
	defer p.wg.Done()

	for {
		select {
		case <-stopCh:
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if isFrameFile(ev.Name) {
				p.ingest(ev.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Warn("spool watcher error", zap.Error(err))
		}
	}
}

// ingest emits the frame stored at path and removes the file once a
// listener took it. An empty file is left alone because the writer has not
// finished yet; undecodable frames are discarded.
func (p *SpoolProvider) ingest(path string) {
	p.ingestMu.Lock()
	defer p.ingestMu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			p.logger.Warn("reading spool file", zap.String("path", path), zap.Error(err))
		}
		return
	}
	if len(data) == 0 {
		return
	}

	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		p.logger.Warn("dropping undecodable spool file", zap.String("path", path), zap.Error(err))
		p.remove(path)
		return
	}
	if !ev.Kind.Valid() {
		p.logger.Warn("dropping spool file with unknown event",
			zap.String("path", path),
			zap.String("event", string(ev.Kind)),
		)
		p.remove(path)
		return
	}

	if p.Emit(ev) == 0 {
		p.logger.Debug("holding spool file until a listener subscribes",
			zap.String("path", path),
			zap.String("event", string(ev.Kind)),
		)
		return
	}
	p.remove(path)
}

func (p *SpoolProvider) remove(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		p.logger.Warn("removing spool file", zap.String("path", path), zap.Error(err))
	}
}

func isFrameFile(name string) bool {
	return strings.HasSuffix(name, ".json")
}
