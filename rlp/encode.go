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
	"io"
)

// Encode returns the canonical encoding of it. Encoding never fails.
// 编码
func Encode(it Item) []byte {
	buf := getEncBuffer()
	defer encBufferPool.Put(buf)

	buf.writeItem(it)
	return buf.makeBytes()
}

// AppendEncoded appends the canonical encoding of it to dst.
func AppendEncoded(dst []byte, it Item) []byte {
	w := NewEncoderBuffer(nil)
	defer w.Flush()

	w.WriteItem(it)
	return w.AppendToBytes(dst)
}

// EncodeTo writes the canonical encoding of it to w.
func EncodeTo(w io.Writer, it Item) error {
	buf := NewEncoderBuffer(w)
	buf.WriteItem(it)
	return buf.Flush()
}

// EncodedSize returns the length of Encode(it) without encoding.
func EncodedSize(it Item) int {
	if !it.list {
		if len(it.str) == 1 && it.str[0] < stringOffset {
			return 1
		}
		return headsize(uint64(len(it.str))) + len(it.str)
	}
	payload := 0
	for _, e := range it.elems {
		payload += EncodedSize(e)
	}
	return headsize(uint64(payload)) + payload
}

// ListSize returns the encoded size of an RLP list with the given
// content size.
func ListSize(contentSize uint64) uint64 {
	return uint64(headsize(contentSize)) + contentSize
}

// StringSize returns the encoded size of an RLP string holding b.
func StringSize(b []byte) uint64 {
	if len(b) == 1 && b[0] < stringOffset {
		return 1
	}
	return uint64(headsize(uint64(len(b)))) + uint64(len(b))
}
