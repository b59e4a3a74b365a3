// SPDX-License-Identifier: EPL-2.0

// Package config assembles the command line configuration from defaults,
// an optional JSON play file, SOUNDSHADER_* environment variables and
// flags, in increasing order of precedence.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
)

var (
	ErrNoShader          = errors.New("shader path is required")
	ErrInvalidDuration   = errors.New("duration must be positive")
	ErrInvalidSampleRate = errors.New("sample rate out of range")
	ErrInvalidBitDepth   = errors.New("bit depth must be 16, 24 or 32")
	ErrOutputConflict    = errors.New("output and record are mutually exclusive")
)

// MaxSampleRate bounds SampleRate and ExportRate.
const MaxSampleRate = 384000

type Config struct {
	ShaderPath string
	Assets     []string

	// Output selects batch rendering to a WAV file.
	Output string
	// Record writes what live playback sent to the device.
	Record string

	Duration   time.Duration
	SampleRate int

	// ExportRate resamples written files. Zero keeps the render rate.
	ExportRate int
	Mono       bool
	BitDepth   int

	LogLevel  string
	LogFormat string
}

func Defaults() Config {
	return Config{
		Duration:   10 * time.Second,
		SampleRate: 48000,
		BitDepth:   16,
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

// PlayFile is the JSON play description.
type PlayFile struct {
	ShaderSource string   `json:"shader_source"`
	Inputs       []string `json:"inputs"`
	Output       string   `json:"output,omitempty"`
}

// LoadPlayFile reads a play file. Relative paths inside it are resolved
// against the file's directory.
func LoadPlayFile(path string) (PlayFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PlayFile{}, fmt.Errorf("%w", err)
	}

	var pf PlayFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return PlayFile{}, fmt.Errorf("parse %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	pf.ShaderSource = resolve(dir, pf.ShaderSource)
	for i, in := range pf.Inputs {
		pf.Inputs[i] = resolve(dir, in)
	}
	pf.Output = resolve(dir, pf.Output)

	return pf, nil
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

func (c *Config) applyPlayFile(pf PlayFile) {
	if pf.ShaderSource != "" {
		c.ShaderPath = pf.ShaderSource
	}
	if len(pf.Inputs) > 0 {
		c.Assets = pf.Inputs
	}
	if pf.Output != "" {
		c.Output = pf.Output
	}
}

func (c *Config) applyEnv() {
	c.ShaderPath = envStr("SOUNDSHADER_SHADER", c.ShaderPath)
	if v := envStr("SOUNDSHADER_ASSETS", ""); v != "" {
		c.Assets = strings.Split(v, ",")
	}
	c.Output = envStr("SOUNDSHADER_OUTPUT", c.Output)
	c.Record = envStr("SOUNDSHADER_RECORD", c.Record)
	c.Duration = envDuration("SOUNDSHADER_DURATION", c.Duration)
	c.SampleRate = envInt("SOUNDSHADER_SAMPLE_RATE", c.SampleRate)
	c.ExportRate = envInt("SOUNDSHADER_EXPORT_RATE", c.ExportRate)
	c.BitDepth = envInt("SOUNDSHADER_BIT_DEPTH", c.BitDepth)
	c.Mono = envBool("SOUNDSHADER_MONO", c.Mono)
	c.LogLevel = envStr("SOUNDSHADER_LOG_LEVEL", c.LogLevel)
	c.LogFormat = envStr("SOUNDSHADER_LOG_FORMAT", c.LogFormat)
}

// Load builds a Config from args (without the program name).
func Load(name string, args []string) (Config, error) {
	cfg := Defaults()

	var (
		flags    Config
		playFile string
		assets   stringList
	)

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&playFile, "config", envStr("SOUNDSHADER_CONFIG", ""), "JSON play file")
	fs.StringVar(&flags.ShaderPath, "shader", "", "GLSL file defining mainSound")
	fs.Var(&assets, "asset", "audio file bound as the next asset (repeatable)")
	fs.StringVar(&flags.Output, "out", "", "render to this WAV file instead of playing")
	fs.StringVar(&flags.Record, "record", "", "while playing, record the output to this WAV file")
	fs.DurationVar(&flags.Duration, "duration", 0, "length to play or render")
	fs.IntVar(&flags.SampleRate, "rate", 0, "render sample rate in Hz for -out")
	fs.IntVar(&flags.ExportRate, "export-rate", 0, "resample written WAV files to this rate")
	fs.BoolVar(&flags.Mono, "mono", false, "downmix written WAV files to mono")
	fs.IntVar(&flags.BitDepth, "bits", 0, "WAV bit depth: 16, 24 or 32")
	fs.StringVar(&flags.LogLevel, "log-level", "", "debug, info, warn or error")
	fs.StringVar(&flags.LogFormat, "log-format", "", "text or json")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if playFile != "" {
		pf, err := LoadPlayFile(playFile)
		if err != nil {
			return Config{}, err
		}
		cfg.applyPlayFile(pf)
	}

	cfg.applyEnv()

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "shader":
			cfg.ShaderPath = flags.ShaderPath
		case "asset":
			cfg.Assets = assets
		case "out":
			cfg.Output = flags.Output
		case "record":
			cfg.Record = flags.Record
		case "duration":
			cfg.Duration = flags.Duration
		case "rate":
			cfg.SampleRate = flags.SampleRate
		case "export-rate":
			cfg.ExportRate = flags.ExportRate
		case "mono":
			cfg.Mono = flags.Mono
		case "bits":
			cfg.BitDepth = flags.BitDepth
		case "log-level":
			cfg.LogLevel = flags.LogLevel
		case "log-format":
			cfg.LogFormat = flags.LogFormat
		}
	})

	if err := cfg.expandHome(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// expandHome resolves a leading "~" in every path.
func (c *Config) expandHome() error {
	paths := []*string{&c.ShaderPath, &c.Output, &c.Record}
	for i := range c.Assets {
		paths = append(paths, &c.Assets[i])
	}

	for _, p := range paths {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("%s: %w", *p, err)
		}
		*p = expanded
	}
	return nil
}

func (c Config) Validate() error {
	if c.ShaderPath == "" {
		return ErrNoShader
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%v: %w", c.Duration, ErrInvalidDuration)
	}
	if c.SampleRate <= 0 || c.SampleRate > MaxSampleRate {
		return fmt.Errorf("%d: %w", c.SampleRate, ErrInvalidSampleRate)
	}
	if c.ExportRate < 0 || c.ExportRate > MaxSampleRate {
		return fmt.Errorf("export %d: %w", c.ExportRate, ErrInvalidSampleRate)
	}
	switch c.BitDepth {
	case 16, 24, 32:
	default:
		return fmt.Errorf("%d: %w", c.BitDepth, ErrInvalidBitDepth)
	}
	if c.Output != "" && c.Record != "" {
		return ErrOutputConflict
	}
	return nil
}

type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// envDuration accepts a Go duration ("1m30s") or plain seconds.
func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return time.Duration(f * float64(time.Second))
	}
	return fallback
}
