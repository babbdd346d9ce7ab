// Package watch notifies callers when files under a set of root
// directories change, so a host application can invalidate cached token
// streams instead of polling.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// sourceExtensions lists the file extensions the scanner actually
// tokenizes. Events for anything else (a swap file, a .git object, a
// compiled artifact) are dropped before they ever reach onChange.
var sourceExtensions = map[string]bool{
	".gl":    true,
	".glint": true,
}

// isSourceFile reports whether path has an extension the scanner tokenizes.
func isSourceFile(path string) bool {
	return sourceExtensions[filepath.Ext(path)]
}

// Op mirrors the underlying fsnotify operation bits without leaking the
// fsnotify type into callers.
type Op uint32

const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
	OpChmod
)

// Event describes a single filesystem change, coalesced by debounce so a
// burst of writes to the same path is reported once.
type Event struct {
	Path string
	Op   Op
	Time time.Time
}

// Watcher watches a fixed set of root directories for changes.
type Watcher struct {
	w     *fsnotify.Watcher
	roots []string
}

// New creates a Watcher and registers each root with the OS-native watch.
// fsnotify only watches the directories it is told about, not their
// descendants, so a root that is itself a directory is walked and every
// subdirectory under it is added individually.
func New(roots ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, root := range roots {
		if err := addRecursive(w, root); err != nil {
			w.Close()

			return nil, err
		}
	}

	return &Watcher{w: w, roots: roots}, nil
}

// addRecursive registers root with w, and if root is a directory, every
// directory beneath it as well.
func addRecursive(w *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return w.Add(root)
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return w.Add(path)
		}

		return nil
	})
}

// Close stops the underlying OS watch.
func (w *Watcher) Close() error {
	return w.w.Close()
}

// Run delivers debounced change events to onChange until ctx is canceled.
// Multiple raw events for the same path within debounce collapse into one
// call, so an editor's autosave-then-format sequence doesn't trigger a
// rescan per intermediate write.
func (w *Watcher) Run(ctx context.Context, debounce time.Duration, onChange func(Event)) error {
	pending := make(map[string]Event)

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}

	flush := func() {
		for _, ev := range pending {
			onChange(ev)
		}

		pending = make(map[string]Event)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.w.Events:
			if !ok {
				flush()

				return nil
			}

			if !isSourceFile(ev.Name) {
				continue
			}

			pending[ev.Name] = Event{Path: ev.Name, Op: convertOp(ev.Op), Time: time.Now()}

			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}

			timer.Reset(debounce)

		case <-timer.C:
			flush()

		case err, ok := <-w.w.Errors:
			if !ok {
				flush()

				return nil
			}

			if err != nil {
				return err
			}
		}
	}
}

func convertOp(op fsnotify.Op) Op {
	var out Op

	if op&fsnotify.Create != 0 {
		out |= OpCreate
	}

	if op&fsnotify.Write != 0 {
		out |= OpWrite
	}

	if op&fsnotify.Remove != 0 {
		out |= OpRemove
	}

	if op&fsnotify.Rename != 0 {
		out |= OpRename
	}

	if op&fsnotify.Chmod != 0 {
		out |= OpChmod
	}

	return out
}
