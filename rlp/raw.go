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

// RawValue represents an encoded RLP value and can be used to delay
// RLP decoding or to precompute an encoding.
type RawValue []byte

// Split returns the content of first RLP value and any
// bytes after the value as subslices of b.
// Split不复制数据，返回的切片引用b
func Split(b []byte) (k Kind, content, rest []byte, err error) {
	h, err := DecodeLength(b)
	if err != nil {
		return 0, nil, b, err
	}
	if h.Kind == SingleByte {
		return h.Kind, b[:1], b[1:], nil
	}
	end := h.HeaderSize + h.PayloadSize
	return h.Kind, b[h.HeaderSize:end], b[end:], nil
}

// SplitString splits b into the content of an RLP string
// and any remaining bytes after the string.
func SplitString(b []byte) (content, rest []byte, err error) {
	k, content, rest, err := Split(b)
	if err != nil {
		return nil, b, err
	}
	if k.IsList() {
		return nil, b, ErrExpectedString
	}
	return content, rest, nil
}

// SplitList splits b into the content of a list and any remaining
// bytes after the list.
func SplitList(b []byte) (content, rest []byte, err error) {
	k, content, rest, err := Split(b)
	if err != nil {
		return nil, b, err
	}
	if !k.IsList() {
		return nil, b, ErrExpectedList
	}
	return content, rest, nil
}

// CountValues counts the number of encoded values in b.
func CountValues(b []byte) (int, error) {
	i := 0
	for ; len(b) > 0; i++ {
		_, _, rest, err := Split(b)
		if err != nil {
			return 0, err
		}
		b = rest
	}
	return i, nil
}
