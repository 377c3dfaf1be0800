package workspace

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pnguyen215/shell-sub002/pkg/logging"
)

const watcherSubsystem = "Watcher"

// ChangeOp is what happened to a watched file.
type ChangeOp string

const (
	OpCreated ChangeOp = "created"
	OpUpdated ChangeOp = "updated"
	OpRemoved ChangeOp = "removed"
)

// ChangeEvent reports a settled change to a profile.conf or SSH bundle.
type ChangeEvent struct {
	Workspace string    `json:"workspace" yaml:"workspace"`
	File      string    `json:"file" yaml:"file"`
	Path      string    `json:"path" yaml:"path"`
	Op        ChangeOp  `json:"op" yaml:"op"`
	Time      time.Time `json:"time" yaml:"time"`
}

type pending struct {
	event ChangeEvent
	timer *time.Timer
}

// Watcher reports changes to the configuration files of one workspace.
// Bursts of events for the same file within the debounce interval are
// merged into one ChangeEvent.
type Watcher struct {
	mu       sync.Mutex
	ws       Profile
	debounce time.Duration
	pending  map[string]*pending
}

// NewWatcher returns a Watcher for workspace ws. A zero debounce uses 300ms.
func (m *Manager) NewWatcher(ws string, debounce time.Duration) (*Watcher, error) {
	p, err := m.Get(ws)
	if err != nil {
		return nil, err
	}
	if p.SSHDir == "" {
		p.SSHDir = filepath.Join(p.Dir, SSHDirName)
	}
	if debounce == 0 {
		debounce = 300 * time.Millisecond
	}
	return &Watcher{ws: p, debounce: debounce, pending: make(map[string]*pending)}, nil
}

// Run watches until ctx is done, sending events on changes. It returns
// once the watch is torn down.
func (w *Watcher) Run(ctx context.Context, changes chan<- ChangeEvent) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(w.ws.Dir); err != nil {
		return err
	}
	if err := fw.Add(w.ws.SSHDir); err != nil {
		logging.Warn(watcherSubsystem, "Not watching %s: %v", w.ws.SSHDir, err)
	}

	logging.Info(watcherSubsystem, "Watching workspace %s", w.ws.Name)

	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				w.cancelPending()
				return nil
			}
			w.handle(event, changes)

		case err, ok := <-fw.Errors:
			if !ok {
				w.cancelPending()
				return nil
			}
			logging.Error(watcherSubsystem, err, "Filesystem watcher error")
		}
	}
}

func (w *Watcher) relevant(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return false
	}
	if filepath.Dir(path) == w.ws.Dir {
		return name == ConfFileName
	}
	return filepath.Dir(path) == w.ws.SSHDir && strings.HasSuffix(name, confExt)
}

func (w *Watcher) handle(event fsnotify.Event, changes chan<- ChangeEvent) {
	if !w.relevant(event.Name) {
		return
	}

	var op ChangeOp
	switch {
	case event.Op&fsnotify.Create == fsnotify.Create:
		op = OpCreated
	case event.Op&fsnotify.Write == fsnotify.Write:
		op = OpUpdated
	case event.Op&fsnotify.Remove == fsnotify.Remove,
		event.Op&fsnotify.Rename == fsnotify.Rename:
		op = OpRemoved
	default:
		return
	}

	w.schedule(ChangeEvent{
		Workspace: w.ws.Name,
		File:      filepath.Base(event.Name),
		Path:      event.Name,
		Op:        op,
		Time:      time.Now(),
	}, changes)
}

func (w *Watcher) schedule(event ChangeEvent, changes chan<- ChangeEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()

	key := event.Path
	if p, ok := w.pending[key]; ok {
		p.timer.Stop()
		event.Op = mergeOps(p.event.Op, event.Op)
	}

	timer := time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		p, ok := w.pending[key]
		if ok {
			delete(w.pending, key)
		}
		w.mu.Unlock()

		if !ok {
			return
		}
		select {
		case changes <- p.event:
			logging.Debug(watcherSubsystem, "Emitted %s %s", p.event.Op, p.event.Path)
		default:
			logging.Warn(watcherSubsystem, "Change channel full, dropping event for %s", p.event.Path)
		}
	})
	w.pending[key] = &pending{event: event, timer: timer}
}

// mergeOps folds a burst of operations on one file into one.
func mergeOps(prev, next ChangeOp) ChangeOp {
	switch {
	case prev == OpRemoved && next == OpCreated:
		// An atomic replace shows up as remove/rename followed by create.
		return OpUpdated
	case prev == OpCreated && next != OpRemoved:
		return OpCreated
	default:
		return next
	}
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, p := range w.pending {
		p.timer.Stop()
	}
	w.pending = make(map[string]*pending)
}
