// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Punycode converts host names to and from their ASCII form.
//
// Usage:
//
//	punycode encode [flags] [host...]
//	punycode decode [flags] [host...]
//
// With no host arguments, punycode reads one host per line from standard input.
// By default each input is a whole host name: it is trimmed, lower-cased,
// split on dots, and converted label by label. With --raw, each input is
// passed untrimmed to the bare RFC 3492 transform instead.
//
// Text output has one line per input. With --keep-going, a failed input
// leaves its line empty and the failure is logged to standard error.
//
// Flags may also be set in a TOML file named by --config:
//
//	format = "json"     # text, json or yaml
//	workers = 4
//	log_level = "info"
//	keep_going = true
//	raw = false
//
// Flags given on the command line override the file.
//
// The exit status is 1 if any input failed to convert
// and 2 if the command line or configuration is invalid.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "punycode: %v\n", err)
		if coder, ok := err.(cli.ExitCoder); ok {
			os.Exit(coder.ExitCode())
		}
		os.Exit(2)
	}
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:                   "punycode",
		Usage:                  "convert host names to and from Punycode (RFC 3492)",
		Reader:                 stdin,
		Writer:                 stdout,
		ErrWriter:              stderr,
		UseShortOptionHandling: true,

		// main reports errors and picks the exit status.
		ExitErrHandler: func(*cli.Context, error) {},

		Commands: []*cli.Command{
			{
				Name:      "encode",
				Aliases:   []string{"e"},
				Usage:     "convert Unicode host names to ASCII",
				ArgsUsage: "[host...]",
				Flags:     convertFlags(),
				Action: func(c *cli.Context) error {
					return run(c, encodeOp)
				},
			},
			{
				Name:      "decode",
				Aliases:   []string{"d"},
				Usage:     "convert ASCII host names to Unicode",
				ArgsUsage: "[host...]",
				Flags:     convertFlags(),
				Action: func(c *cli.Context) error {
					return run(c, decodeOp)
				},
			},
		},
	}
}

func convertFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "TOML config file",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "output format: text, json or yaml",
			Value:   formatText,
		},
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"w"},
			Usage:   "number of concurrent conversions (0 = GOMAXPROCS)",
		},
		&cli.BoolFlag{
			Name:  "raw",
			Usage: "apply the bare RFC 3492 transform to each input, with no xn-- prefix or host splitting",
		},
		&cli.BoolFlag{
			Name:    "keep-going",
			Aliases: []string{"k"},
			Usage:   "report failed inputs and continue instead of stopping at the first failure",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "log level: debug, info, warn or error",
			Value: "warn",
		},
	}
}
