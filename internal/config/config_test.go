package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/1broseidon/xscreensplit/internal/layout"
)

func TestLoadSettings_Defaults(t *testing.T) {
	dir := t.TempDir()

	s, err := LoadSettings(dir)
	if err != nil {
		t.Fatalf("LoadSettings error: %v", err)
	}
	if s.XrandrBinary != DefaultBinary || s.CallTimeout != DefaultCallTimeout || s.Prefix != DefaultPrefix {
		t.Fatalf("unexpected defaults: %+v", s)
	}
	if s.ProfileDir != dir || s.DefaultProfile != DefaultProfile || s.LogLevel != DefaultLogLevel {
		t.Fatalf("unexpected defaults: %+v", s)
	}
	if s.File != "" {
		t.Fatalf("File = %q, want empty when no settings file exists", s.File)
	}
}

func TestLoadSettings_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	content := "xrandr_binary: /opt/bin/xrandr\ncall_timeout: 2s\nprefix: split-\n"
	if err := os.WriteFile(filepath.Join(dir, "settings.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	t.Setenv("XSCREENSPLIT_LOG_LEVEL", "debug")
	t.Setenv("XSCREENSPLIT_DEFAULT_PROFILE", "work")

	s, err := LoadSettings(dir)
	if err != nil {
		t.Fatalf("LoadSettings error: %v", err)
	}
	if s.XrandrBinary != "/opt/bin/xrandr" || s.CallTimeout != 2*time.Second || s.Prefix != "split-" {
		t.Fatalf("file values not applied: %+v", s)
	}
	if s.LogLevel != "debug" || s.DefaultProfile != "work" {
		t.Fatalf("env values not applied: %+v", s)
	}
	if s.File == "" {
		t.Fatalf("expected settings file to be recorded")
	}
}

func TestLoadSettings_Invalid(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "settings.yaml"), []byte("log_level: loud\n"), 0644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	_, err := LoadSettings(dir)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path != "log_level" {
		t.Fatalf("expected log_level validation error, got %v", err)
	}
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err := DefaultConfigDir()
	if err != nil {
		t.Fatalf("DefaultConfigDir error: %v", err)
	}
	if dir != "/tmp/xdg/x-screen-split" {
		t.Fatalf("dir = %q", dir)
	}
}

func TestStore_Lifecycle(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "profiles"))

	if err := store.EnsureDefault(""); err != nil {
		t.Fatalf("EnsureDefault error: %v", err)
	}
	data, err := store.Read(DefaultProfile)
	if err != nil {
		t.Fatalf("Read default error: %v", err)
	}
	if string(data) != layout.Example {
		t.Fatalf("default profile should contain the example layout")
	}

	if err := store.Create("work"); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := store.Create("work"); !errors.Is(err, ErrProfileExists) {
		t.Fatalf("expected ErrProfileExists, got %v", err)
	}
	if err := os.WriteFile(filepath.Join(store.Dir, "legacy.yml"), []byte(layout.Example), 0644); err != nil {
		t.Fatalf("write legacy: %v", err)
	}
	if err := os.WriteFile(filepath.Join(store.Dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("write notes: %v", err)
	}

	names, err := store.List()
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if want := []string{"configs", "legacy", "work"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("List = %v, want %v", names, want)
	}

	root, err := store.Load("legacy")
	if err != nil {
		t.Fatalf("Load legacy error: %v", err)
	}
	if ok, diag := layout.Verify(root); !ok {
		t.Fatalf("legacy profile invalid: %s", diag)
	}

	if err := store.Delete("work"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := store.Read("work"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
	if err := store.Delete("work"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound on second delete, got %v", err)
	}
}

func TestStore_LoadParseError(t *testing.T) {
	store := NewStore(t.TempDir())
	if err := os.WriteFile(filepath.Join(store.Dir, "broken.yaml"), []byte("nodes: oops\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := store.Load("broken")
	var perr *layout.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *layout.ParseError, got %v", err)
	}
}

func TestStore_RejectsBadNames(t *testing.T) {
	store := NewStore(t.TempDir())
	for _, name := range []string{"", "../etc", "a/b", ".."} {
		if _, err := store.Path(name); err == nil {
			t.Fatalf("Path(%q) should fail", name)
		}
	}
}

func TestStore_ListMissingDir(t *testing.T) {
	names, err := NewStore(filepath.Join(t.TempDir(), "missing")).List()
	if err != nil || names != nil {
		t.Fatalf("List on missing dir = %v, %v", names, err)
	}
}

func TestStore_Watch(t *testing.T) {
	store := NewStore(t.TempDir())
	if err := store.Create("work"); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	path, err := store.Path("work")
	if err != nil {
		t.Fatalf("Path() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- store.Watch(ctx, "work", 20*time.Millisecond, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// The watcher may not be registered yet, so keep touching the file.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for waiting := true; waiting; {
		select {
		case <-changed:
			waiting = false
		case <-tick.C:
			if err := os.WriteFile(path, []byte(layout.Example), 0644); err != nil {
				t.Fatalf("write: %v", err)
			}
		case <-deadline:
			t.Fatal("no change reported")
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Watch() error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestStore_WatchIgnoresOtherProfiles(t *testing.T) {
	store := NewStore(t.TempDir())
	for _, name := range []string{"work", "home"} {
		if err := store.Create(name); err != nil {
			t.Fatalf("Create(%q) error: %v", name, err)
		}
	}
	other, _ := store.Path("home")

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- store.Watch(ctx, "work", 10*time.Millisecond, func() { calls++ })
	}()
	for i := 0; i < 5; i++ {
		time.Sleep(50 * time.Millisecond)
		if err := os.WriteFile(other, []byte(layout.Example), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := <-done; err != nil {
		t.Fatalf("Watch() error: %v", err)
	}
	if calls != 0 {
		t.Fatalf("onChange called %d times for another profile", calls)
	}
}

func TestStore_EnsureDefaultNamed(t *testing.T) {
	store := NewStore(t.TempDir())
	if err := store.EnsureDefault("work"); err != nil {
		t.Fatalf("EnsureDefault error: %v", err)
	}
	names, err := store.List()
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if want := []string{"work"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("profiles = %v, want %v", names, want)
	}

	// An existing profile is left untouched.
	path, _ := store.Path("work")
	if err := os.WriteFile(path, []byte("nodes:\n  - type: window\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := store.EnsureDefault("work"); err != nil {
		t.Fatalf("second EnsureDefault error: %v", err)
	}
	data, _ := store.Read("work")
	if string(data) != "nodes:\n  - type: window\n" {
		t.Fatalf("existing profile overwritten: %q", data)
	}
}
