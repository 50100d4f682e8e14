// Copyright 2022 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// rlpdump is a pretty-printer for RLP data.
package main

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strings"

	"github.com/PigCharid/ethereum-rlp/rlp"
	"github.com/fatih/color"
	"github.com/golang/snappy"
	"github.com/inconshreveable/log15"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
)

var (
	hexFlag = &cli.StringFlag{
		Name:  "hex",
		Usage: "dump given hex data",
	}
	noASCIIFlag = &cli.BoolFlag{
		Name:  "noascii",
		Usage: "don't print ASCII strings readably",
	}
	singleFlag = &cli.BoolFlag{
		Name:  "single",
		Usage: "print only the first element, discard the rest",
	}
	snappyFlag = &cli.BoolFlag{
		Name:  "snappy",
		Usage: "input is snappy-compressed",
	}
	maxDepthFlag = &cli.IntFlag{
		Name:  "maxdepth",
		Usage: "maximum list nesting depth",
		Value: rlp.DefaultMaxDepth,
	}
	noColorFlag = &cli.BoolFlag{
		Name:  "nocolor",
		Usage: "disable colored output",
	}
	verbosityFlag = &cli.IntFlag{
		Name:  "verbosity",
		Usage: "logging verbosity: 0=crit, 1=error, 2=warn, 3=info, 4=debug",
		Value: int(log15.LvlWarn),
	}
)

func newApp() *cli.App {
	return &cli.App{
		Name:      "rlpdump",
		Usage:     "pretty-print RLP data",
		ArgsUsage: "[<filename>]",
		Description: `Dumps RLP data from the given file in readable form.
If the filename is omitted, data is read from stdin.`,
		Flags: []cli.Flag{
			hexFlag,
			noASCIIFlag,
			singleFlag,
			snappyFlag,
			maxDepthFlag,
			noColorFlag,
			verbosityFlag,
		},
		Action: run,
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	log15.Root().SetHandler(log15.LvlFilterHandler(
		log15.Lvl(ctx.Int(verbosityFlag.Name)),
		log15.StreamHandler(os.Stderr, log15.TerminalFormat()),
	))
	color.NoColor = ctx.Bool(noColorFlag.Name) || !isatty.IsTerminal(os.Stdout.Fd())

	data, err := readInput(ctx)
	if err != nil {
		return err
	}
	if ctx.Bool(snappyFlag.Name) {
		if data, err = snappy.Decode(nil, data); err != nil {
			return fmt.Errorf("snappy: %v", err)
		}
	}
	log15.Debug("Read input", "bytes", len(data))

	cfg := dumpConfig{noASCII: ctx.Bool(noASCIIFlag.Name)}
	dec := rlp.Decoder{MaxDepth: ctx.Int(maxDepthFlag.Name)}
	return dumpAll(os.Stdout, data, dec, cfg, ctx.Bool(singleFlag.Name))
}

func readInput(ctx *cli.Context) ([]byte, error) {
	switch {
	case ctx.IsSet(hexFlag.Name):
		s := strings.TrimPrefix(strings.TrimSpace(ctx.String(hexFlag.Name)), "0x")
		data, err := hex.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("invalid hex input: %v", err)
		}
		return data, nil
	case ctx.NArg() > 0:
		fname := ctx.Args().First()
		data, err := ioutil.ReadFile(fname)
		if err != nil {
			return nil, err
		}
		log15.Debug("Opened input file", "file", fname)
		return data, nil
	default:
		return ioutil.ReadAll(os.Stdin)
	}
}

// dumpAll prints every top-level value in data. With single set, only the
// first value is printed.
func dumpAll(out io.Writer, data []byte, dec rlp.Decoder, cfg dumpConfig, single bool) error {
	r := rlp.NewReader(bytes.NewReader(data), 0, dec)
	for n := 0; ; n++ {
		it, err := r.ReadItem()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			log15.Error("Invalid RLP input", "value", n, "err", err)
			return err
		}
		dump(out, it, 0, cfg)
		fmt.Fprintln(out)
		if single {
			return nil
		}
	}
}
