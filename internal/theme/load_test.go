package theme

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestLoadFileColorsTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.yaml")
	writeFile(t, path, `
colors:
  success: "142.1 76.2% 36.3%"
  destructive: "#ef4444"
  muted-foreground: "215 20% 65%"
`)

	tokens, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if v, ok := tokens.Lookup(TokenDestructive); !ok || v != "#ef4444" {
		t.Errorf("destructive = %q, %v", v, ok)
	}
	if v, ok := tokens.Lookup(TokenMutedForeground); !ok || v != "215 20% 65%" {
		t.Errorf("muted-foreground = %q, %v", v, ok)
	}
}

func TestLoadFileTopLevelCSSNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.json")
	writeFile(t, path, `{"--success": "10 50% 50%", "foreground": "0 0% 90%"}`)

	tokens, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if v, _ := tokens.Lookup(TokenSuccess); v != "10 50% 50%" {
		t.Errorf("success = %q, want %q", v, "10 50% 50%")
	}
	if v, _ := tokens.Lookup(TokenForeground); v != "0 0% 90%" {
		t.Errorf("foreground = %q", v)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile("/nonexistent/theme.yaml"); err == nil {
		t.Error("LoadFile should fail for a missing file")
	}
}

func TestNewWatcherBadPath(t *testing.T) {
	for _, path := range []string{"", "/nonexistent/dir/theme.yaml"} {
		if _, err := NewWatcher(path); err == nil {
			t.Errorf("NewWatcher(%q) should fail", path)
		}
	}
}

func newTestWatcher(t *testing.T, initial string, opts ...WatchOption) (*Watcher, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "theme.yaml")
	writeFile(t, path, initial)

	w, err := NewWatcher(path, opts...)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	t.Cleanup(func() { w.Close() })

	// Give fsnotify time to start watching.
	time.Sleep(50 * time.Millisecond)
	return w, path
}

func nextReload(t *testing.T, w *Watcher) Reload {
	t.Helper()
	select {
	case r, ok := <-w.Reloads():
		if !ok {
			t.Fatal("reloads closed")
		}
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a theme reload")
	}
	return Reload{}
}

func TestWatcherReloadsTokens(t *testing.T) {
	w, path := newTestWatcher(t, "colors: {}\n")
	if w.Path() != path {
		t.Errorf("Path() = %q, want %q", w.Path(), path)
	}

	writeFile(t, path, "colors:\n  success: \"#00ff00\"\n")

	r := nextReload(t, w)
	if r.Err != nil {
		t.Fatalf("reload error: %v", r.Err)
	}
	if got, _ := r.Tokens.Lookup(TokenSuccess); got != "#00ff00" {
		t.Errorf("success = %q, want #00ff00", got)
	}
}

func TestWatcherReportsParseErrors(t *testing.T) {
	w, path := newTestWatcher(t, "colors: {}\n")

	writeFile(t, path, "colors: [unterminated\n")

	if r := nextReload(t, w); r.Err == nil {
		t.Errorf("broken yaml reloaded without error: %v", r.Tokens)
	}
}

func TestWatcherCoalescesBurstOfWrites(t *testing.T) {
	w, path := newTestWatcher(t, "colors: {}\n", WithSettle(200*time.Millisecond))

	for _, hex := range []string{"#110000", "#220000", "#330000", "#440000"} {
		writeFile(t, path, "colors:\n  primary: \""+hex+"\"\n")
		time.Sleep(20 * time.Millisecond)
	}

	r := nextReload(t, w)
	if got, _ := r.Tokens.Lookup(TokenPrimary); got != "#440000" {
		t.Errorf("primary = %q, want the last write #440000", got)
	}
	select {
	case r := <-w.Reloads():
		t.Errorf("burst produced a second reload: %+v", r)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestWatcherSeesReplacedFile(t *testing.T) {
	w, path := newTestWatcher(t, "colors: {}\n")

	// Save the way editors do: write a sibling, then rename it over.
	tmp := filepath.Join(filepath.Dir(path), ".theme.yaml.swp")
	writeFile(t, tmp, "colors:\n  destructive: \"#ff0000\"\n")
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("Rename: %v", err)
	}

	r := nextReload(t, w)
	if got, _ := r.Tokens.Lookup(TokenDestructive); got != "#ff0000" {
		t.Errorf("destructive = %q, want #ff0000", got)
	}
}

func TestWatcherIgnoresUnrelatedFiles(t *testing.T) {
	w, path := newTestWatcher(t, "colors: {}\n")

	writeFile(t, filepath.Join(filepath.Dir(path), "other.yaml"), "colors: {}\n")
	if err := os.Chmod(path, 0o600); err != nil {
		t.Fatalf("Chmod: %v", err)
	}

	select {
	case r := <-w.Reloads():
		t.Errorf("unexpected reload: %+v", r)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherIgnoresRemoval(t *testing.T) {
	w, path := newTestWatcher(t, "colors: {}\n")

	if err := os.Remove(path); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	select {
	case r := <-w.Reloads():
		t.Errorf("removal produced a reload: %+v", r)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherCloseEndsReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.yaml")
	writeFile(t, path, "colors: {}\n")

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if _, ok := <-w.Reloads(); ok {
		t.Error("Reloads should be closed after Close")
	}
}
