package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/jask/greetcard/internal/card"
	"github.com/jask/greetcard/internal/dataset"
	"github.com/jask/greetcard/internal/interaction"
	"github.com/jask/greetcard/internal/intro"
	"github.com/jask/greetcard/internal/speech"
)

// Config holds application configuration.
type Config struct {
	Data    DataConfig    `mapstructure:"data"`
	Card    CardConfig    `mapstructure:"card"`
	Intro   IntroConfig   `mapstructure:"intro"`
	Physics PhysicsConfig `mapstructure:"physics"`
	Speech  SpeechConfig  `mapstructure:"speech"`
	Log     LogConfig     `mapstructure:"log"`
}

// DataConfig locates the personalization dataset.
type DataConfig struct {
	// Path is a file path (relative to the working directory) or an http(s) URL.
	Path    string        `mapstructure:"path"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CardConfig holds what the card shows when the record is blank, and its size.
type CardConfig struct {
	Title         string `mapstructure:"title"`
	BarcodeValue  string `mapstructure:"barcode_value"`
	BarcodeHeight int    `mapstructure:"barcode_height"`
	PopupMessage  string `mapstructure:"popup_message"`
	Width         int    `mapstructure:"width"`
	Height        int    `mapstructure:"height"`
}

// IntroConfig holds the opening sequence timing.
type IntroConfig struct {
	// Autostart skips the start confirmation and runs after InitialDelay.
	Autostart     bool          `mapstructure:"autostart"`
	InitialDelay  time.Duration `mapstructure:"initial_delay"`
	HeightToWidth time.Duration `mapstructure:"height_to_width"`
	Spin          time.Duration `mapstructure:"spin"`
	PopupDelay    time.Duration `mapstructure:"popup_delay"`
	PopupDuration time.Duration `mapstructure:"popup_duration"`
}

// PhysicsConfig holds the drag tuning.
type PhysicsConfig struct {
	RotationSensitivity float64       `mapstructure:"rotation_sensitivity"`
	TiltSensitivity     float64       `mapstructure:"tilt_sensitivity"`
	MaxTilt             float64       `mapstructure:"max_tilt"`
	SnapDuration        time.Duration `mapstructure:"snap_duration"`
	CellWidth           float64       `mapstructure:"cell_width"`
	CellHeight          float64       `mapstructure:"cell_height"`
}

// SpeechConfig holds the narrator settings.
type SpeechConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Engine    string        `mapstructure:"engine"`
	Voice     string        `mapstructure:"voice"`
	Lang      string        `mapstructure:"lang"`
	Rate      float64       `mapstructure:"rate"`
	Pitch     float64       `mapstructure:"pitch"`
	Volume    float64       `mapstructure:"volume"`
	Welcome   []string      `mapstructure:"welcome"`
	PartPause time.Duration `mapstructure:"part_pause"`
}

// LogConfig holds logging settings. Logs go to a file because the card owns
// the terminal.
type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

// Default returns the built-in configuration.
func Default() Config {
	timing := intro.DefaultTiming()
	physics := interaction.DefaultPhysics()
	scale := interaction.DefaultScale()
	voice := speech.DefaultOptions()
	return Config{
		Data: DataConfig{Path: dataset.DefaultPath, Timeout: 5 * time.Second},
		Card: CardConfig{
			Title:         "SEASON'S GREETINGS",
			BarcodeValue:  "1256",
			BarcodeHeight: 3,
			PopupMessage:  "HI people, xoay the card",
			Width:         56,
			Height:        13,
		},
		Intro: IntroConfig{
			InitialDelay:  timing.InitialDelay,
			HeightToWidth: timing.HeightToWidth,
			Spin:          timing.Spin,
			PopupDelay:    timing.PopupDelay,
			PopupDuration: timing.PopupDuration,
		},
		Physics: PhysicsConfig{
			RotationSensitivity: physics.RotationSensitivity,
			TiltSensitivity:     physics.TiltSensitivity,
			MaxTilt:             physics.MaxTilt,
			SnapDuration:        physics.SnapDuration,
			CellWidth:           scale.CellWidth,
			CellHeight:          scale.CellHeight,
		},
		Speech: SpeechConfig{
			Enabled:   true,
			Engine:    "auto",
			Lang:      voice.Lang,
			Rate:      voice.Rate,
			Pitch:     voice.Pitch,
			Volume:    voice.Volume,
			Welcome:   voice.Welcome,
			PartPause: voice.PartPause,
		},
		Log: LogConfig{Level: "info", Path: defaultLogPath()},
	}
}

// Path returns the config file location: explicit, then GREETCARD_CONFIG,
// then $HOME/.config/greetcard/config.toml.
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv("GREETCARD_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "greetcard", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix
// GREETCARD_. A missing config file is not an error; an unreadable one is.
func Load(explicit string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetConfigType("toml")
	v.SetConfigFile(Path(explicit))

	v.SetEnvPrefix("GREETCARD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil && !missing(err) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("data.path", d.Data.Path)
	v.SetDefault("data.timeout", d.Data.Timeout)

	v.SetDefault("card.title", d.Card.Title)
	v.SetDefault("card.barcode_value", d.Card.BarcodeValue)
	v.SetDefault("card.barcode_height", d.Card.BarcodeHeight)
	v.SetDefault("card.popup_message", d.Card.PopupMessage)
	v.SetDefault("card.width", d.Card.Width)
	v.SetDefault("card.height", d.Card.Height)

	v.SetDefault("intro.autostart", d.Intro.Autostart)
	v.SetDefault("intro.initial_delay", d.Intro.InitialDelay)
	v.SetDefault("intro.height_to_width", d.Intro.HeightToWidth)
	v.SetDefault("intro.spin", d.Intro.Spin)
	v.SetDefault("intro.popup_delay", d.Intro.PopupDelay)
	v.SetDefault("intro.popup_duration", d.Intro.PopupDuration)

	v.SetDefault("physics.rotation_sensitivity", d.Physics.RotationSensitivity)
	v.SetDefault("physics.tilt_sensitivity", d.Physics.TiltSensitivity)
	v.SetDefault("physics.max_tilt", d.Physics.MaxTilt)
	v.SetDefault("physics.snap_duration", d.Physics.SnapDuration)
	v.SetDefault("physics.cell_width", d.Physics.CellWidth)
	v.SetDefault("physics.cell_height", d.Physics.CellHeight)

	v.SetDefault("speech.enabled", d.Speech.Enabled)
	v.SetDefault("speech.engine", d.Speech.Engine)
	v.SetDefault("speech.voice", d.Speech.Voice)
	v.SetDefault("speech.lang", d.Speech.Lang)
	v.SetDefault("speech.rate", d.Speech.Rate)
	v.SetDefault("speech.pitch", d.Speech.Pitch)
	v.SetDefault("speech.volume", d.Speech.Volume)
	v.SetDefault("speech.welcome", d.Speech.Welcome)
	v.SetDefault("speech.part_pause", d.Speech.PartPause)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.path", d.Log.Path)
}

func missing(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

func defaultLogPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "greetcard", "greetcard.log")
}

// fileConfig is the on-disk layout written by WriteDefault. Durations are
// written as strings such as "800ms".
type fileConfig struct {
	Data struct {
		Path    string `toml:"path"`
		Timeout string `toml:"timeout"`
	} `toml:"data"`
	Card struct {
		Title         string `toml:"title"`
		BarcodeValue  string `toml:"barcode_value"`
		BarcodeHeight int    `toml:"barcode_height"`
		PopupMessage  string `toml:"popup_message"`
		Width         int    `toml:"width"`
		Height        int    `toml:"height"`
	} `toml:"card"`
	Intro struct {
		Autostart     bool   `toml:"autostart"`
		InitialDelay  string `toml:"initial_delay"`
		HeightToWidth string `toml:"height_to_width"`
		Spin          string `toml:"spin"`
		PopupDelay    string `toml:"popup_delay"`
		PopupDuration string `toml:"popup_duration"`
	} `toml:"intro"`
	Physics struct {
		RotationSensitivity float64 `toml:"rotation_sensitivity"`
		TiltSensitivity     float64 `toml:"tilt_sensitivity"`
		MaxTilt             float64 `toml:"max_tilt"`
		SnapDuration        string  `toml:"snap_duration"`
		CellWidth           float64 `toml:"cell_width"`
		CellHeight          float64 `toml:"cell_height"`
	} `toml:"physics"`
	Speech struct {
		Enabled   bool     `toml:"enabled"`
		Engine    string   `toml:"engine"`
		Voice     string   `toml:"voice"`
		Lang      string   `toml:"lang"`
		Rate      float64  `toml:"rate"`
		Pitch     float64  `toml:"pitch"`
		Volume    float64  `toml:"volume"`
		Welcome   []string `toml:"welcome"`
		PartPause string   `toml:"part_pause"`
	} `toml:"speech"`
	Log struct {
		Level string `toml:"level"`
		Path  string `toml:"path"`
	} `toml:"log"`
}

const defaultHeader = `# greetcard configuration
# Every key can be overridden with GREETCARD_<SECTION>_<KEY>, e.g. GREETCARD_DATA_PATH.

`

// WriteDefault writes cfg as TOML to path, creating the directory if needed.
// An existing file is left alone unless overwrite is set.
func WriteDefault(path string, cfg Config, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config %s already exists", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	var fc fileConfig
	fc.Data.Path = cfg.Data.Path
	fc.Data.Timeout = cfg.Data.Timeout.String()
	fc.Card.Title = cfg.Card.Title
	fc.Card.BarcodeValue = cfg.Card.BarcodeValue
	fc.Card.BarcodeHeight = cfg.Card.BarcodeHeight
	fc.Card.PopupMessage = cfg.Card.PopupMessage
	fc.Card.Width = cfg.Card.Width
	fc.Card.Height = cfg.Card.Height
	fc.Intro.Autostart = cfg.Intro.Autostart
	fc.Intro.InitialDelay = cfg.Intro.InitialDelay.String()
	fc.Intro.HeightToWidth = cfg.Intro.HeightToWidth.String()
	fc.Intro.Spin = cfg.Intro.Spin.String()
	fc.Intro.PopupDelay = cfg.Intro.PopupDelay.String()
	fc.Intro.PopupDuration = cfg.Intro.PopupDuration.String()
	fc.Physics.RotationSensitivity = cfg.Physics.RotationSensitivity
	fc.Physics.TiltSensitivity = cfg.Physics.TiltSensitivity
	fc.Physics.MaxTilt = cfg.Physics.MaxTilt
	fc.Physics.SnapDuration = cfg.Physics.SnapDuration.String()
	fc.Physics.CellWidth = cfg.Physics.CellWidth
	fc.Physics.CellHeight = cfg.Physics.CellHeight
	fc.Speech.Enabled = cfg.Speech.Enabled
	fc.Speech.Engine = cfg.Speech.Engine
	fc.Speech.Voice = cfg.Speech.Voice
	fc.Speech.Lang = cfg.Speech.Lang
	fc.Speech.Rate = cfg.Speech.Rate
	fc.Speech.Pitch = cfg.Speech.Pitch
	fc.Speech.Volume = cfg.Speech.Volume
	fc.Speech.Welcome = cfg.Speech.Welcome
	fc.Speech.PartPause = cfg.Speech.PartPause.String()
	fc.Log.Level = cfg.Log.Level
	fc.Log.Path = cfg.Log.Path

	var buf bytes.Buffer
	buf.WriteString(defaultHeader)
	if err := toml.NewEncoder(&buf).Encode(fc); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Timing returns the intro timing.
func (c Config) Timing() intro.Timing {
	return intro.Timing{
		InitialDelay:  c.Intro.InitialDelay,
		HeightToWidth: c.Intro.HeightToWidth,
		Spin:          c.Intro.Spin,
		PopupDelay:    c.Intro.PopupDelay,
		PopupDuration: c.Intro.PopupDuration,
	}
}

// DragPhysics returns the drag tuning.
func (c Config) DragPhysics() interaction.Physics {
	return interaction.Physics{
		RotationSensitivity: c.Physics.RotationSensitivity,
		TiltSensitivity:     c.Physics.TiltSensitivity,
		MaxTilt:             c.Physics.MaxTilt,
		SnapDuration:        c.Physics.SnapDuration,
	}
}

// Scale returns the cell-to-pixel scale for pointer events.
func (c Config) Scale() interaction.Scale {
	return interaction.Scale{CellWidth: c.Physics.CellWidth, CellHeight: c.Physics.CellHeight}
}

// SpeechOptions returns the narrator options.
func (c Config) SpeechOptions() speech.Options {
	return speech.Options{
		Lang:      c.Speech.Lang,
		Rate:      c.Speech.Rate,
		Pitch:     c.Speech.Pitch,
		Volume:    c.Speech.Volume,
		Voice:     c.Speech.Voice,
		Welcome:   c.Speech.Welcome,
		PartPause: c.Speech.PartPause,
	}
}

// CardDefaults returns what the card shows in place of blank fields.
func (c Config) CardDefaults() card.Defaults {
	return card.Defaults{BarcodeValue: c.Card.BarcodeValue, Message: c.Card.PopupMessage}
}
