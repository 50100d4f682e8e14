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

package rlp

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Item is an RLP value. It is either a byte string or an ordered list of
// items. The zero Item is the empty byte string.
//
// Items are immutable: constructors copy their arguments and accessors
// return copies, so an Item never shares memory with a decoded buffer.
// Item是RLP值，要么是字节串，要么是Item的有序列表。
type Item struct {
	list  bool
	str   []byte
	elems []Item
}

// Bytes returns a byte string item holding a copy of b.
func Bytes(b []byte) Item {
	return Item{str: copyBytes(b)}
}

// Text returns a byte string item holding the bytes of s.
func Text(s string) Item {
	if s == "" {
		return Item{}
	}
	return Item{str: []byte(s)}
}

// List returns a list item containing the given elements in order.
func List(elems ...Item) Item {
	if len(elems) == 0 {
		return Item{list: true}
	}
	l := make([]Item, len(elems))
	copy(l, elems)
	return Item{list: true, elems: l}
}

// IsList reports whether it is a list.
func (it Item) IsList() bool {
	return it.list
}

// Bytes returns a copy of the payload of a byte string item.
// It returns nil for lists.
func (it Item) Bytes() []byte {
	if it.list {
		return nil
	}
	return copyBytes(it.str)
}

// Len returns the payload length of a string or the number of list elements.
func (it Item) Len() int {
	if it.list {
		return len(it.elems)
	}
	return len(it.str)
}

// At returns the i'th list element. It panics if it is not a list or i is
// out of range, like indexing a slice.
func (it Item) At(i int) Item {
	if !it.list {
		panic("rlp: At called on byte string item")
	}
	return it.elems[i]
}

// Items returns a copy of the elements of a list item.
// It returns nil for byte strings.
func (it Item) Items() []Item {
	if !it.list || len(it.elems) == 0 {
		return nil
	}
	l := make([]Item, len(it.elems))
	copy(l, it.elems)
	return l
}

// Equal reports whether it and other are structurally identical.
func (it Item) Equal(other Item) bool {
	if it.list != other.list {
		return false
	}
	if !it.list {
		return bytes.Equal(it.str, other.str)
	}
	if len(it.elems) != len(other.elems) {
		return false
	}
	for i := range it.elems {
		if !it.elems[i].Equal(other.elems[i]) {
			return false
		}
	}
	return true
}

// Text returns the payload as a string if it is valid UTF-8 and contains no
// control characters. The result is a display convenience only: it does not
// change how the item is encoded.
// 仅用于展示，不影响编码。
func (it Item) Text() (string, bool) {
	if it.list || !utf8.Valid(it.str) {
		return "", false
	}
	s := string(it.str)
	for _, r := range s {
		if unicode.IsControl(r) {
			return "", false
		}
	}
	return s, true
}

// String renders the item for debugging. Printable strings are quoted,
// other strings are shown in hex.
func (it Item) String() string {
	var sb strings.Builder
	it.format(&sb)
	return sb.String()
}

func (it Item) format(sb *strings.Builder) {
	if !it.list {
		if s, ok := it.Text(); ok {
			fmt.Fprintf(sb, "%q", s)
		} else {
			fmt.Fprintf(sb, "0x%x", it.str)
		}
		return
	}
	sb.WriteByte('[')
	for i, e := range it.elems {
		if i > 0 {
			sb.WriteString(", ")
		}
		e.format(sb)
	}
	sb.WriteByte(']')
}

// copyBytes returns a copy of b. Empty input yields nil so that all empty
// strings share one representation.
func copyBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
