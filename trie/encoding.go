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

package trie

// Trie keys are dealt with in three distinct encodings:
//
// KEYBYTES encoding contains the actual key and nothing else. This encoding is the
// input to most API functions.
//
// HEX encoding contains one byte for each nibble of the key and an optional trailing
// 'terminator' byte of value 0x10 which indicates whether or not the node at the key
// contains a value. Hex key encoding is used for nodes loaded in memory.
//
// COMPACT encoding ("hex prefix encoding" in the Yellow Paper) packs two nibbles per
// byte behind a flag byte. The high nibble of the flag byte carries bit 0x20 for a
// terminated (leaf) key and bit 0x10 for an odd number of nibbles; for odd keys the
// low nibble holds the first nibble of the key. Compact encoding is what ends up in
// the RLP encoding of short nodes.
// compact编码用于节点的RLP编码，hex编码用于内存中的节点

const terminator = 16

// hexToCompact converts a hex key to its compact form.
func hexToCompact(hex []byte) []byte {
	var flag byte
	if hasTerm(hex) {
		flag = 1 << 5
		hex = hex[:len(hex)-1]
	}
	out := make([]byte, len(hex)/2+1)
	if len(hex)%2 == 1 {
		// 奇数长度：第一个nibble放在标志字节的低四位
		flag |= 1<<4 | hex[0]
		hex = hex[1:]
	}
	out[0] = flag
	packNibbles(hex, out[1:])
	return out
}

// compactToHex converts a compact key back to hex form, restoring the
// terminator for leaf keys.
func compactToHex(compact []byte) []byte {
	if len(compact) == 0 {
		return compact
	}
	base := keybytesToHex(compact)
	// base[0] holds the flag nibble: 0/1 extension even/odd, 2/3 leaf even/odd.
	if base[0] < 2 {
		base = base[:len(base)-1]
	}
	// Drop the flag nibble, and the padding nibble for even keys.
	chop := 2 - base[0]&1
	return base[chop:]
}

// keybytesToHex splits every byte into two nibbles and appends the terminator.
func keybytesToHex(str []byte) []byte {
	nibbles := make([]byte, len(str)*2+1)
	for i, b := range str {
		nibbles[i*2] = b >> 4
		nibbles[i*2+1] = b & 0x0f
	}
	nibbles[len(nibbles)-1] = terminator
	return nibbles
}

// hexToKeybytes turns hex nibbles into key bytes.
// This can only be used for keys of even length.
func hexToKeybytes(hex []byte) []byte {
	if hasTerm(hex) {
		hex = hex[:len(hex)-1]
	}
	if len(hex)&1 != 0 {
		panic("can't convert hex key of odd length")
	}
	key := make([]byte, len(hex)/2)
	packNibbles(hex, key)
	return key
}

func packNibbles(nibbles []byte, out []byte) {
	for bi, ni := 0, 0; ni < len(nibbles); bi, ni = bi+1, ni+2 {
		out[bi] = nibbles[ni]<<4 | nibbles[ni+1]
	}
}

// prefixLen returns the length of the common prefix of a and b.
func prefixLen(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for ; i < n && a[i] == b[i]; i++ {
	}
	return i
}

// hasTerm returns whether a hex key has the terminator flag.
func hasTerm(s []byte) bool {
	return len(s) > 0 && s[len(s)-1] == terminator
}
