// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"fmt"
	"os"
	"runtime"

	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v2"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

type config struct {
	Format    string `toml:"format"`
	Workers   int    `toml:"workers"`
	LogLevel  string `toml:"log_level"`
	KeepGoing bool   `toml:"keep_going"`
	Raw       bool   `toml:"raw"`
}

func defaultConfig() config {
	return config{
		Format:   formatText,
		LogLevel: "warn",
	}
}

// loadConfig returns the defaults overlaid with the TOML file at path.
// An empty path means no file. Unknown keys are an error.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// applyFlags overrides cfg with the flags set on the command line.
func (cfg *config) applyFlags(c *cli.Context) {
	if c.IsSet("format") {
		cfg.Format = c.String("format")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("keep-going") {
		cfg.KeepGoing = c.Bool("keep-going")
	}
	if c.IsSet("raw") {
		cfg.Raw = c.Bool("raw")
	}
}

func (cfg *config) validate() error {
	switch cfg.Format {
	case formatText, formatJSON, formatYAML:
	default:
		return fmt.Errorf("unknown format %q", cfg.Format)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("invalid worker count %d", cfg.Workers)
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	return nil
}
