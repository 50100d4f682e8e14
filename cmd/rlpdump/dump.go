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
	"fmt"
	"io"
	"strings"

	"github.com/PigCharid/ethereum-rlp/rlp"
	"github.com/fatih/color"
)

type dumpConfig struct {
	noASCII bool
}

var (
	textColor = color.New(color.FgGreen).SprintFunc()
	hexColor  = color.New(color.FgYellow).SprintFunc()
)

// dump writes it in readable form. Printable strings are quoted, other
// strings are written in hex, lists are bracketed with one element per line.
func dump(out io.Writer, it rlp.Item, depth int, cfg dumpConfig) {
	if !it.IsList() {
		fmt.Fprint(out, ws(depth), formatString(it, cfg))
		return
	}
	if it.Len() == 0 {
		fmt.Fprint(out, ws(depth), "[]")
		return
	}
	fmt.Fprintln(out, ws(depth)+"[")
	for i, e := range it.Items() {
		if i > 0 {
			fmt.Fprint(out, ",\n")
		}
		dump(out, e, depth+1, cfg)
	}
	fmt.Fprint(out, "\n", ws(depth), "]")
}

func formatString(it rlp.Item, cfg dumpConfig) string {
	str := it.Bytes()
	if len(str) == 0 {
		return textColor(`""`)
	}
	if !cfg.noASCII && isASCII(str) {
		return textColor(fmt.Sprintf("%q", str))
	}
	return hexColor(fmt.Sprintf("%x", str))
}

// isASCII reports whether b is printable ASCII. This is stricter than
// Item.Text, which accepts any printable UTF-8.
func isASCII(b []byte) bool {
	for _, c := range b {
		if c < 32 || c > 126 {
			return false
		}
	}
	return true
}

func ws(n int) string {
	return strings.Repeat("  ", n)
}
