package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel string   `yaml:"log_level" validate:"oneof=debug info warn error"`
	Workers  int      `yaml:"workers" validate:"gte=0,lte=256"`
	Metrics  bool     `yaml:"metrics"`
	Gates    []string `yaml:"gates" validate:"dive,oneof=AND OR NOT NAND NOR XOR XNOR"`
}

func defaultConfig() Config {
	return Config{
		LogLevel: "warn",
		Workers:  1,
	}
}

var configValidator = validator.New()

func (c Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		msgs := make([]string, 0, len(fieldErrs))
		for _, e := range fieldErrs {
			msgs = append(msgs, fmt.Sprintf("%s=%v fails %s %s", strings.ToLower(e.Field()), e.Value(), e.Tag(), e.Param()))
		}
		return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// loadConfig starts from defaults and overlays the YAML file at path, if any.
// Unknown keys are rejected. An empty file yields the defaults. Gate names are
// matched case-insensitively, like the gates command arguments.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	for i, name := range cfg.Gates {
		cfg.Gates[i] = strings.ToUpper(strings.TrimSpace(name))
	}
	return cfg, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.Sampling = nil
	return config.Build()
}
