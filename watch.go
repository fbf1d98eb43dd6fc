package meshlog

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchConfig watches the options file at path and applies changes to d
// until ctx is done: an edited save_level becomes d.SetLevel, an edited
// log_file becomes d.SetTarget. Unchanged keys are left alone so an
// unrelated edit never reopens the live log file.
//
// Rename and remove events are treated as atomic replaces (the way editors
// save): the watch is re-added once the new file appears. Malformed
// intermediate saves are skipped and reported at LevelDebug through d
// itself.
//
// The watcher runs on its own goroutine; WatchConfig returns once the watch
// is established.
func WatchConfig(ctx context.Context, path string, d *Dispatcher) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating config watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return fmt.Errorf("watching config file %s: %w", path, err)
	}

	// Seed the delta comparison with whatever is live now; if the file is
	// unreadable the first successful reload applies everything.
	last, _ := LoadConfig(path)

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
					!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
					continue
				}

				if event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
					// Atomic writes replace the inode; wait for the new file
					// and re-add the watch.
					time.Sleep(200 * time.Millisecond)
					if _, err := os.Stat(path); os.IsNotExist(err) {
						d.Debug("config file removed, keeping current settings",
							String("path", path))
						continue
					}
					if err := watcher.Add(path); err != nil {
						d.Debug("config watch re-add failed", Err(err))
						continue
					}
				} else {
					// Give the editor time to finish writing.
					time.Sleep(100 * time.Millisecond)
				}

				cfg, err := LoadConfig(path)
				if err != nil {
					d.Debug("config reload skipped", Err(err))
					continue
				}
				applyConfigDelta(d, last, cfg)
				last = cfg

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				d.Debug("config watcher error", Err(err))
			}
		}
	}()

	return nil
}

// applyConfigDelta pushes only the changed settings into the dispatcher.
func applyConfigDelta(d *Dispatcher, old, next Config) {
	if next.SaveLevel != old.SaveLevel {
		d.SetLevel(ParseLevel(next.SaveLevel))
	}
	if next.LogFile != old.LogFile && next.LogFile != "" {
		d.SetTarget(next.LogFile)
	}
}
