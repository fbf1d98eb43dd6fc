package meshlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config mirrors the logging section of a meshwire deployment's options
// file. Level values are names ("Detail", "warning"); ParseLevel decides
// what they mean.
type Config struct {
	LogFile       string `toml:"log_file"`
	AppendLog     bool   `toml:"append_log"`
	ConsoleOutput bool   `toml:"console_output"`
	SaveLevel     string `toml:"save_level"`
	QueueLevel    string `toml:"queue_level"`
	DumpTrigger   string `toml:"dump_trigger"`
	QueueSize     int    `toml:"queue_size"`
}

// DefaultConfig returns the settings a deployment runs with when it has no
// options file: persist Detail, queue Debug, dump the queue on Warning.
func DefaultConfig() Config {
	return Config{
		LogFile:       DefaultLogFile,
		AppendLog:     false,
		ConsoleOutput: true,
		SaveLevel:     LevelDetail.String(),
		QueueLevel:    LevelDebug.String(),
		DumpTrigger:   LevelWarning.String(),
		QueueSize:     500,
	}
}

// LoadConfig reads a TOML options file and applies environment overrides on
// top (MESHLOG_LEVEL, MESHLOG_FILE, MESHLOG_CONSOLE). A missing file is not
// an error; defaults plus environment apply. A .env next to the config file
// is honored for development setups.
//
// Malformed level names are rejected here, naming the offending key, so a
// bad deployment fails at startup instead of silently logging nothing.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	_ = godotenv.Load(filepath.Join(filepath.Dir(path), ".env"))
	applyEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes the config as TOML, creating or truncating path.
func (c Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Options converts the config into dispatcher Options. The queue settings
// have no Options equivalent; use FileSink for the full surface.
func (c Config) Options() Options {
	return Options{
		LogFile: c.LogFile,
		Append:  c.AppendLog,
		Console: c.ConsoleOutput,
		Level:   ParseLevel(c.SaveLevel),
	}
}

// FileSink builds the fully-optioned default sink the config describes,
// including the verbose-history queue.
func (c Config) FileSink() *FileSink {
	path := c.LogFile
	if path == "" {
		path = DefaultLogFile
	}
	opts := []FileOption{
		FileAppend(c.AppendLog),
		FileLevel(ParseLevel(c.SaveLevel)),
		FileQueue(c.QueueSize, ParseLevel(c.QueueLevel), ParseLevel(c.DumpTrigger)),
	}
	if c.ConsoleOutput {
		opts = append(opts, FileConsoleEcho(os.Stdout))
	}
	return NewFileSink(path, opts...)
}

func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv("MESHLOG_LEVEL"); ok {
		cfg.SaveLevel = v
	}
	if v, ok := os.LookupEnv("MESHLOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := os.LookupEnv("MESHLOG_CONSOLE"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.ConsoleOutput = b
		}
	}
}

func (c Config) validate() error {
	levels := []struct {
		key   string
		value string
	}{
		{"save_level", c.SaveLevel},
		{"queue_level", c.QueueLevel},
		{"dump_trigger", c.DumpTrigger},
	}
	for _, l := range levels {
		if ParseLevel(l.value) == LevelInvalid {
			return fmt.Errorf("invalid %s %q", l.key, l.value)
		}
	}
	return nil
}
