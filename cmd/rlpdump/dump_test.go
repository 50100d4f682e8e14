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

package main

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/PigCharid/ethereum-rlp/rlp"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func TestDump(t *testing.T) {
	tests := []struct {
		input  string
		cfg    dumpConfig
		output string
	}{
		{input: "80", output: `""`},
		{input: "C0", output: "[]"},
		{input: "83646F67", output: `"dog"`},
		{input: "83646F67", cfg: dumpConfig{noASCII: true}, output: "646f67"},
		{input: "8204FF", output: "04ff"},
		{
			input:  "C88363617483646F67",
			output: "[\n  \"cat\",\n  \"dog\"\n]",
		},
		{
			input:  "C5C0C3820102",
			output: "[\n  [],\n  [\n    0102\n  ]\n]",
		},
	}
	for _, test := range tests {
		input, _ := hex.DecodeString(test.input)
		it, err := rlp.Decode(input)
		require.NoError(t, err)

		var out bytes.Buffer
		dump(&out, it, 0, test.cfg)
		assert.Equal(t, test.output, out.String(), "input %s", test.input)
	}
}

func TestDumpAll(t *testing.T) {
	input, _ := hex.DecodeString("0183646F67C0")

	var out bytes.Buffer
	require.NoError(t, dumpAll(&out, input, rlp.Decoder{}, dumpConfig{}, false))
	assert.Equal(t, "01\n\"dog\"\n[]\n", out.String())

	out.Reset()
	require.NoError(t, dumpAll(&out, input, rlp.Decoder{}, dumpConfig{}, true))
	assert.Equal(t, "01\n", out.String())
}

func TestDumpAllErrors(t *testing.T) {
	input, _ := hex.DecodeString("83646F6783")
	var out bytes.Buffer
	err := dumpAll(&out, input, rlp.Decoder{}, dumpConfig{}, false)
	assert.True(t, errors.Is(err, rlp.ErrTruncated), "got %v", err)
	assert.Equal(t, "\"dog\"\n", out.String())

	input, _ = hex.DecodeString("C3C2C100")
	err = dumpAll(&out, input, rlp.Decoder{MaxDepth: 2}, dumpConfig{}, false)
	assert.True(t, errors.Is(err, rlp.ErrTooDeep), "got %v", err)
}

func TestIsASCII(t *testing.T) {
	assert.True(t, isASCII([]byte("hello world")))
	assert.False(t, isASCII([]byte{0x01}))
	assert.False(t, isASCII([]byte("日本")))
}

func TestAppFlags(t *testing.T) {
	app := newApp()
	names := make(map[string]bool)
	for _, f := range app.Flags {
		for _, n := range f.Names() {
			names[n] = true
		}
	}
	for _, n := range []string{"hex", "noascii", "single", "snappy", "maxdepth", "nocolor", "verbosity"} {
		assert.True(t, names[n], "missing flag %s", n)
	}
}
