package meshlog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func watchFixture(t *testing.T) (string, *Dispatcher, *testSink, Config) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "options.toml")
	cfg := DefaultConfig()
	cfg.LogFile = filepath.Join(t.TempDir(), "mesh.log")
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}
	d, s := newTestDispatcher(t)
	return path, d, s, cfg
}

func TestWatchConfigAppliesLevelChange(t *testing.T) {
	path, d, s, cfg := watchFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := WatchConfig(ctx, path, d); err != nil {
		t.Fatalf("WatchConfig = %v", err)
	}

	cfg.SaveLevel = "Debug"
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	ok := waitFor(t, 5*time.Second, func() bool {
		for _, l := range s.Levels() {
			if l == LevelDebug {
				return true
			}
		}
		return false
	})
	if !ok {
		t.Fatalf("watcher never forwarded the new level; calls = %v", s.Levels())
	}
}

func TestWatchConfigAppliesTargetChange(t *testing.T) {
	path, d, s, cfg := watchFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := WatchConfig(ctx, path, d); err != nil {
		t.Fatalf("WatchConfig = %v", err)
	}

	newTarget := filepath.Join(t.TempDir(), "rotated.log")
	cfg.LogFile = newTarget
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	ok := waitFor(t, 5*time.Second, func() bool {
		for _, tgt := range s.Targets() {
			if tgt == newTarget {
				return true
			}
		}
		return false
	})
	if !ok {
		t.Fatalf("watcher never forwarded the new target; calls = %v", s.Targets())
	}
}

func TestWatchConfigIgnoresUnrelatedChange(t *testing.T) {
	path, d, s, cfg := watchFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := WatchConfig(ctx, path, d); err != nil {
		t.Fatalf("WatchConfig = %v", err)
	}

	// Only the queue size changes; the live dispatcher must be left alone.
	cfg.QueueSize = 42
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	time.Sleep(700 * time.Millisecond)
	if n := len(s.Levels()); n != 0 {
		t.Errorf("unrelated edit forwarded %d level changes", n)
	}
	if n := len(s.Targets()); n != 0 {
		t.Errorf("unrelated edit forwarded %d target changes", n)
	}
}

func TestWatchConfigSkipsMalformedSave(t *testing.T) {
	path, d, s, cfg := watchFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := WatchConfig(ctx, path, d); err != nil {
		t.Fatalf("WatchConfig = %v", err)
	}

	// A half-written save must not disturb the dispatcher...
	if err := os.WriteFile(path, []byte("save_level = [broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(500 * time.Millisecond)
	if len(s.Levels()) != 0 {
		t.Errorf("malformed save forwarded level changes: %v", s.Levels())
	}

	// ...and the watcher keeps working afterwards.
	cfg.SaveLevel = "StreamDetail"
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}
	ok := waitFor(t, 5*time.Second, func() bool {
		for _, l := range s.Levels() {
			if l == LevelStreamDetail {
				return true
			}
		}
		return false
	})
	if !ok {
		t.Fatal("watcher did not recover after a malformed save")
	}
}

func TestWatchConfigMissingFile(t *testing.T) {
	d, _ := newTestDispatcher(t)

	err := WatchConfig(context.Background(), filepath.Join(t.TempDir(), "absent.toml"), d)
	if err == nil {
		t.Fatal("WatchConfig should fail for a missing file")
	}
}

func TestWatchConfigStopsOnCancel(t *testing.T) {
	path, d, s, cfg := watchFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	if err := WatchConfig(ctx, path, d); err != nil {
		t.Fatalf("WatchConfig = %v", err)
	}
	cancel()
	time.Sleep(100 * time.Millisecond)

	cfg.SaveLevel = "Debug"
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	time.Sleep(500 * time.Millisecond)
	if len(s.Levels()) != 0 {
		t.Errorf("canceled watcher still forwarded changes: %v", s.Levels())
	}
}
