package profile

import (
	"context"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/njchilds90/kses"
)

// Watcher serves the policy stored in a profile file and reloads it when
// the file changes. Readers always get a complete policy: a reload builds a
// new one and swaps it in, and a reload that fails keeps the old one.
type Watcher struct {
	path    string
	opts    []Option
	log     zerolog.Logger
	fsw     *fsnotify.Watcher
	current atomic.Pointer[kses.Policy]
}

// NewWatcher loads the profile at path and starts watching its directory.
// Call Run to process change events and Close to release the watcher.
func NewWatcher(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path: abs,
		opts: opts,
		log:  newOptions(opts).log.With().Str("profile", abs).Logger(),
	}
	if err := w.Reload(); err != nil {
		return nil, err
	}

	w.fsw, err = fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Editors often replace the file instead of writing to it, so watch the
	// directory and pick out events for the file.
	if err := w.fsw.Add(filepath.Dir(abs)); err != nil {
		w.fsw.Close()
		return nil, err
	}
	return w, nil
}

// Policy returns the current policy. It must not be modified.
func (w *Watcher) Policy() *kses.Policy {
	return w.current.Load()
}

// Filter filters text with the current policy.
func (w *Watcher) Filter(text string) string {
	return kses.Filter(text, w.Policy())
}

// Reload reads the profile file again. On error the previous policy stays
// in place.
func (w *Watcher) Reload() error {
	p, err := Load(w.path, w.opts...)
	if err != nil {
		return err
	}
	w.current.Store(p)
	w.log.Info().Int("tags", len(p.AllowedTags)).Msg("profile loaded")
	return nil
}

// Run processes file system events until ctx is done or the watcher is
// closed.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.log.Debug().Str("op", event.Op.String()).Msg("profile changed, reloading")
			if err := w.Reload(); err != nil {
				w.log.Error().Err(err).Msg("cannot reload profile, keeping the previous one")
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Error().Err(err).Msg("profile watcher error")
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
