package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Buffer.MaxLines != 10000 {
		t.Errorf("MaxLines = %d, want 10000", cfg.Buffer.MaxLines)
	}
	if cfg.Debounce() != 150*time.Millisecond {
		t.Errorf("Debounce() = %v, want 150ms", cfg.Debounce())
	}
	if !cfg.Display.LevelColors {
		t.Error("level colors should default on")
	}
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Buffer.MaxLines != 10000 {
		t.Errorf("MaxLines = %d, want default", cfg.Buffer.MaxLines)
	}
}

func TestLoadReadsFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path := filepath.Join(dir, "logmux", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	body := "[buffer]\nmax_lines = 500\n\n[filter]\ndebounce_ms = 50\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Buffer.MaxLines != 500 {
		t.Errorf("MaxLines = %d, want 500", cfg.Buffer.MaxLines)
	}
	if cfg.Debounce() != 50*time.Millisecond {
		t.Errorf("Debounce() = %v, want 50ms", cfg.Debounce())
	}
	// Untouched sections keep their defaults.
	if cfg.Theme.Name != "subtle" {
		t.Errorf("Theme.Name = %q, want subtle", cfg.Theme.Name)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("LOGMUX_MAX_LINES", "2500")
	t.Setenv("LOGMUX_DEBOUNCE_MS", "75")
	t.Setenv("LOGMUX_EXPORT_DIR", "/tmp/exports")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Buffer.MaxLines != 2500 {
		t.Errorf("MaxLines = %d, want 2500", cfg.Buffer.MaxLines)
	}
	if cfg.Filter.DebounceMs != 75 {
		t.Errorf("DebounceMs = %d, want 75", cfg.Filter.DebounceMs)
	}
	if cfg.Export.Dir != "/tmp/exports" {
		t.Errorf("Export.Dir = %q", cfg.Export.Dir)
	}
}

func TestNamedThemes(t *testing.T) {
	for _, name := range ThemeNames() {
		theme, ok := NamedTheme(name)
		if !ok {
			t.Errorf("NamedTheme(%q) not found", name)
			continue
		}
		if theme.Name != name {
			t.Errorf("theme %q has Name %q", name, theme.Name)
		}
		if theme.Levels.Error == "" {
			t.Errorf("theme %q has no error color", name)
		}
	}
	if _, ok := NamedTheme("no-such-theme"); ok {
		t.Error("unknown theme name resolved")
	}
}

func TestNextThemeNameCycles(t *testing.T) {
	names := ThemeNames()
	seen := map[string]bool{}
	cur := names[0]
	for range names {
		seen[cur] = true
		cur = NextThemeName(cur)
	}
	if cur != names[0] {
		t.Errorf("cycle did not wrap: ended at %q", cur)
	}
	if len(seen) != len(names) {
		t.Errorf("cycle visited %d themes, want %d", len(seen), len(names))
	}
	if got := NextThemeName("no-such-theme"); got != names[0] {
		t.Errorf("NextThemeName(unknown) = %q, want %q", got, names[0])
	}
}

func TestLoadResolvesThemeByName(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path := filepath.Join(dir, "logmux", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[theme]\nname = \"nord\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want, _ := NamedTheme("nord")
	if cfg.Theme != want {
		t.Errorf("theme = %+v, want nord palette", cfg.Theme)
	}
}

func TestThemeAndDisplayEnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("LOGMUX_THEME", "dracula")
	t.Setenv("LOGMUX_LEVEL_COLORS", "false")
	t.Setenv("LOGMUX_LINE_WRAP", "true")
	t.Setenv("LOGMUX_SIDE_PANEL", "1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Theme.Name != "dracula" {
		t.Errorf("Theme.Name = %q, want dracula", cfg.Theme.Name)
	}
	want, _ := NamedTheme("dracula")
	if cfg.Theme.Bookmark != want.Bookmark {
		t.Errorf("Bookmark color = %q, want dracula palette %q", cfg.Theme.Bookmark, want.Bookmark)
	}
	if cfg.Display.LevelColors {
		t.Error("LevelColors should be overridden off")
	}
	if !cfg.Display.WrapLines {
		t.Error("WrapLines should be overridden on")
	}
	if !cfg.Display.SidePanel {
		t.Error("SidePanel should be overridden on")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg := DefaultConfig()
	cfg.Buffer.MaxLines = 777
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Buffer.MaxLines != 777 {
		t.Errorf("MaxLines = %d, want 777", loaded.Buffer.MaxLines)
	}
}
