// Package config loads and writes the .logicsim.yaml settings file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when no --config flag is given.
const DefaultPath = ".logicsim.yaml"

// Config holds user preferences for the command-line front end.
type Config struct {
	Color          bool   `yaml:"color"`
	Uppercase      bool   `yaml:"uppercase"`
	MaxRows        int    `yaml:"max_rows"`
	ShowSimplified bool   `yaml:"show_simplified"`
	LogLevel       string `yaml:"log_level"`
}

// Default returns the settings used when no file exists.
func Default() Config {
	return Config{
		Color:          true,
		Uppercase:      false,
		MaxRows:        0,
		ShowSimplified: true,
		LogLevel:       "warn",
	}
}

// Load reads path on top of the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	config := Default()
	if path == "" {
		path = DefaultPath
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return config, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil {
		// an empty file has no document
		if errors.Is(err, io.EOF) {
			return config, nil
		}
		return config, fmt.Errorf("parse %s: %w", path, err)
	}
	return config, config.Validate()
}

// Validate reports settings that cannot be applied.
func (c Config) Validate() error {
	if c.MaxRows < 0 {
		return fmt.Errorf("max_rows must not be negative, got %d", c.MaxRows)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (zapcore.Level, error) {
	if c.LogLevel == "" {
		return zapcore.WarnLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return lvl, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}

// Write stores c at path, creating or truncating the file.
func Write(path string, c Config) error {
	if path == "" {
		path = DefaultPath
	}
	d, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(d)
	return err
}
