// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"rsc.io/punycode"
)

// An op is one direction of conversion.
type op struct {
	name string
	host func(string) (string, error) // whole host names
	raw  func(string) (string, error) // bare RFC 3492, for --raw
}

var (
	encodeOp = op{"encode", punycode.ToASCII, punycode.EncodeRaw}
	decodeOp = op{"decode", punycode.ToUnicode, punycode.DecodeRaw}
)

// A result is the outcome of converting one input.
type result struct {
	Input  string `json:"input" yaml:"input"`
	Output string `json:"output,omitempty" yaml:"output,omitempty"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

func run(c *cli.Context, o op) error {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return cli.Exit(err, 2)
	}
	cfg.applyFlags(c)
	if err := cfg.validate(); err != nil {
		return cli.Exit(err, 2)
	}
	log, err := newLogger(cfg.LogLevel, c.App.ErrWriter)
	if err != nil {
		return cli.Exit(err, 2)
	}
	defer log.Sync()

	inputs, err := readInputs(c, cfg.Raw)
	if err != nil {
		return cli.Exit(err, 2)
	}

	fn := o.host
	if cfg.Raw {
		fn = o.raw
	}
	results, err := convert(c.Context, log, fn, inputs, cfg.Workers, cfg.KeepGoing)
	if err != nil {
		return cli.Exit(err, 1)
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	log.Debug("conversion finished",
		zap.String("command", o.name),
		zap.Bool("raw", cfg.Raw),
		zap.Int("inputs", len(inputs)),
		zap.Int("failed", failed),
		zap.Int("workers", cfg.Workers))

	if err := writeResults(c.App.Writer, cfg.Format, results); err != nil {
		return cli.Exit(err, 1)
	}
	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d inputs failed", failed, len(inputs)), 1)
	}
	return nil
}

// readInputs returns the command arguments, or else the non-blank lines of standard input.
// Lines are trimmed of surrounding space unless raw is set,
// in which case only empty lines are skipped.
func readInputs(c *cli.Context, raw bool) ([]string, error) {
	if c.NArg() > 0 {
		return c.Args().Slice(), nil
	}
	var inputs []string
	s := bufio.NewScanner(c.App.Reader)
	for s.Scan() {
		line := s.Text()
		if !raw {
			line = strings.TrimSpace(line)
		}
		if line != "" {
			inputs = append(inputs, line)
		}
	}
	return inputs, s.Err()
}

// convert applies fn to every input using at most workers goroutines.
// Results are in input order. Unless keepGoing is set, the first failure
// stops the conversion and is returned as the error.
func convert(ctx context.Context, log *zap.Logger, fn func(string) (string, error), inputs []string, workers int, keepGoing bool) ([]result, error) {
	results := make([]result, len(inputs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, in := range inputs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			out, err := fn(in)
			if err != nil {
				log.Warn("conversion failed", zap.String("input", in), zap.Error(err))
				results[i] = result{Input: in, Error: err.Error()}
				if !keepGoing {
					return fmt.Errorf("%q: %w", in, err)
				}
				return nil
			}
			results[i] = result{Input: in, Output: out}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func writeResults(w io.Writer, format string, results []result) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(results); err != nil {
			return err
		}
		return enc.Close()
	}
	// One line per input; a failed input leaves its line empty.
	bw := bufio.NewWriter(w)
	for _, r := range results {
		fmt.Fprintln(bw, r.Output)
	}
	return bw.Flush()
}

// newLogger returns a console logger writing to w at the named level.
func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), lvl)
	return zap.New(core).Named("punycode"), nil
}
