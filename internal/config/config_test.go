package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	if cfg.Data.Path != want.Data.Path {
		t.Errorf("data.path = %q, want %q", cfg.Data.Path, want.Data.Path)
	}
	if cfg.Intro.InitialDelay != 2*time.Second {
		t.Errorf("intro.initial_delay = %v, want 2s", cfg.Intro.InitialDelay)
	}
	if cfg.Intro.PopupDuration != 3*time.Second {
		t.Errorf("intro.popup_duration = %v, want 3s", cfg.Intro.PopupDuration)
	}
	if cfg.Card.BarcodeValue != "1256" {
		t.Errorf("card.barcode_value = %q, want 1256", cfg.Card.BarcodeValue)
	}
	if !cfg.Speech.Enabled || cfg.Speech.Engine != "auto" {
		t.Errorf("speech = %+v, want enabled auto", cfg.Speech)
	}
	if len(cfg.Speech.Welcome) != 1 {
		t.Errorf("speech.welcome = %v, want one part", cfg.Speech.Welcome)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[data]
path = "https://example.com/data.csv"

[intro]
autostart = true
spin = "2s"

[speech]
voice = "Samantha"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("GREETCARD_CONFIG", path)
	t.Setenv("GREETCARD_CARD_BARCODE_VALUE", "9999")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Data.Path != "https://example.com/data.csv" {
		t.Errorf("data.path = %q", cfg.Data.Path)
	}
	if !cfg.Intro.Autostart {
		t.Error("intro.autostart should be true")
	}
	if cfg.Intro.Spin != 2*time.Second {
		t.Errorf("intro.spin = %v, want 2s", cfg.Intro.Spin)
	}
	if cfg.Intro.HeightToWidth != 800*time.Millisecond {
		t.Errorf("intro.height_to_width = %v, want default 800ms", cfg.Intro.HeightToWidth)
	}
	if cfg.Speech.Voice != "Samantha" {
		t.Errorf("speech.voice = %q", cfg.Speech.Voice)
	}
	if cfg.Card.BarcodeValue != "9999" {
		t.Errorf("card.barcode_value = %q, want env override 9999", cfg.Card.BarcodeValue)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[data\npath = "), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for malformed TOML")
	}
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Card.Title = "HAPPY HOLIDAYS"
	cfg.Intro.PopupDuration = 4500 * time.Millisecond
	cfg.Speech.Welcome = []string{"one", "two"}

	if err := WriteDefault(path, cfg, false); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(raw), "# greetcard configuration") {
		t.Errorf("missing header comment:\n%s", raw)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Card.Title != "HAPPY HOLIDAYS" {
		t.Errorf("card.title = %q", got.Card.Title)
	}
	if got.Intro.PopupDuration != 4500*time.Millisecond {
		t.Errorf("intro.popup_duration = %v", got.Intro.PopupDuration)
	}
	if len(got.Speech.Welcome) != 2 || got.Speech.Welcome[1] != "two" {
		t.Errorf("speech.welcome = %v", got.Speech.Welcome)
	}

	if err := WriteDefault(path, cfg, false); err == nil {
		t.Fatal("expected an error when the file exists and overwrite is off")
	}
	if err := WriteDefault(path, cfg, true); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
}

func TestPathPrecedence(t *testing.T) {
	t.Setenv("GREETCARD_CONFIG", "/tmp/from-env.toml")
	if got := Path("/tmp/explicit.toml"); got != "/tmp/explicit.toml" {
		t.Errorf("explicit path = %q", got)
	}
	if got := Path(""); got != "/tmp/from-env.toml" {
		t.Errorf("env path = %q", got)
	}
	t.Setenv("GREETCARD_CONFIG", "")
	t.Setenv("HOME", "/home/card")
	if got := Path(""); got != "/home/card/.config/greetcard/config.toml" {
		t.Errorf("home path = %q", got)
	}
}

func TestDomainConversions(t *testing.T) {
	cfg := Default()
	if cfg.Timing().Spin != 1200*time.Millisecond {
		t.Errorf("timing spin = %v", cfg.Timing().Spin)
	}
	if cfg.DragPhysics().MaxTilt != 10 {
		t.Errorf("max tilt = %v", cfg.DragPhysics().MaxTilt)
	}
	if s := cfg.Scale(); s.CellWidth != 8 || s.CellHeight != 16 {
		t.Errorf("scale = %+v", s)
	}
	if cfg.SpeechOptions().Lang != "en-US" {
		t.Errorf("speech lang = %q", cfg.SpeechOptions().Lang)
	}
	if d := cfg.CardDefaults(); d.BarcodeValue != "1256" || d.Message != "HI people, xoay the card" {
		t.Errorf("card defaults = %+v", d)
	}
}
