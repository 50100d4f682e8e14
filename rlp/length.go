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
	"fmt"
	"math/bits"
)

// Kind classifies the prefix byte of an encoded value.
// 根据第一个字节判断值的类型
type Kind uint8

const (
	SingleByte  Kind = iota // 0x00-0x7f, the byte is its own encoding
	EmptyString             // 0x80
	ShortString             // 0x81-0xb7
	LongString              // 0xb8-0xbf
	EmptyList               // 0xc0
	ShortList               // 0xc1-0xf7
	LongList                // 0xf8-0xff
)

// Prefix byte offsets.
const (
	stringOffset     = 0x80
	longStringOffset = 0xb7
	listOffset       = 0xc0
	longListOffset   = 0xf7

	// maxShortSize is the largest payload size that fits the one-byte header.
	maxShortSize = 55
)

func (k Kind) String() string {
	switch k {
	case SingleByte:
		return "SingleByte"
	case EmptyString:
		return "EmptyString"
	case ShortString:
		return "ShortString"
	case LongString:
		return "LongString"
	case EmptyList:
		return "EmptyList"
	case ShortList:
		return "ShortList"
	case LongList:
		return "LongList"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(k))
	}
}

// IsList reports whether values of kind k are lists.
func (k Kind) IsList() bool {
	return k == EmptyList || k == ShortList || k == LongList
}

// Header describes the prefix of an encoded value.
type Header struct {
	Kind        Kind
	HeaderSize  uint64 // bytes occupied by the prefix
	PayloadSize uint64 // bytes of payload following the prefix
}

// Size returns the total encoded size of the value.
func (h Header) Size() uint64 {
	return h.HeaderSize + h.PayloadSize
}

// EncodeLength returns the long-form header for a payload of the given size:
// one byte holding offset plus the width of size, followed by size in
// big-endian form without leading zero bytes. The offset is 0xb7 for strings
// and 0xf7 for lists.
func EncodeLength(size uint64, offset byte) []byte {
	return appendLength(make([]byte, 0, 9), size, offset)
}

func appendLength(dst []byte, size uint64, offset byte) []byte {
	n := intsize(size)
	dst = append(dst, offset+byte(n))
	for i := n - 1; i >= 0; i-- {
		dst = append(dst, byte(size>>(8*uint(i))))
	}
	return dst
}

// appendHeader appends the short or long header for a payload of the given
// size. smallOffset is 0x80 or 0xc0.
func appendHeader(dst []byte, size uint64, smallOffset byte) []byte {
	if size <= maxShortSize {
		return append(dst, smallOffset+byte(size))
	}
	return appendLength(dst, size, smallOffset+maxShortSize)
}

// headsize returns the size of the header for a payload of the given size.
func headsize(size uint64) int {
	if size <= maxShortSize {
		return 1
	}
	return 1 + intsize(size)
}

// intsize computes the minimum number of bytes required to store i.
func intsize(i uint64) int {
	return (bits.Len64(i) + 7) / 8
}

// DecodeLength parses the prefix at the start of buf. The returned header is
// checked against len(buf): buf must contain the whole value, but may extend
// past it.
//
// Non-canonical prefixes are rejected: a single byte below 0x80 wrapped in a
// string header, long-form sizes below 56 and sizes with leading zero bytes.
func DecodeLength(buf []byte) (Header, error) {
	h, err := parseHeader(buf)
	if err != nil {
		return Header{}, err
	}
	if err := checkAvailable(buf, h); err != nil {
		return Header{}, err
	}
	// 单字节小于0x80时必须直接编码
	if h.Kind == ShortString && h.PayloadSize == 1 && buf[1] < stringOffset {
		return Header{}, ErrNonCanonical
	}
	return h, nil
}

// parseHeader reads the prefix byte and any size bytes that follow it.
// It does not look at the payload.
func parseHeader(buf []byte) (Header, error) {
	if len(buf) == 0 {
		return Header{}, ErrEmptyInput
	}
	b := buf[0]
	switch {
	case b < stringOffset:
		return Header{Kind: SingleByte, HeaderSize: 0, PayloadSize: 1}, nil
	case b == stringOffset:
		return Header{Kind: EmptyString, HeaderSize: 1}, nil
	case b <= longStringOffset:
		return Header{Kind: ShortString, HeaderSize: 1, PayloadSize: uint64(b - stringOffset)}, nil
	case b < listOffset:
		slen := b - longStringOffset
		size, err := readSize(buf[1:], slen)
		if err != nil {
			return Header{}, err
		}
		return Header{Kind: LongString, HeaderSize: 1 + uint64(slen), PayloadSize: size}, nil
	case b == listOffset:
		return Header{Kind: EmptyList, HeaderSize: 1}, nil
	case b <= longListOffset:
		return Header{Kind: ShortList, HeaderSize: 1, PayloadSize: uint64(b - listOffset)}, nil
	default:
		slen := b - longListOffset
		size, err := readSize(buf[1:], slen)
		if err != nil {
			return Header{}, err
		}
		return Header{Kind: LongList, HeaderSize: 1 + uint64(slen), PayloadSize: size}, nil
	}
}

// checkAvailable verifies that buf holds the full value described by h.
// The comparison avoids computing HeaderSize+PayloadSize, which can overflow
// for hostile size fields.
func checkAvailable(buf []byte, h Header) error {
	avail := uint64(len(buf))
	if avail < h.HeaderSize || avail-h.HeaderSize < h.PayloadSize {
		return ErrTruncated
	}
	return nil
}

// readSize reads a big-endian size of slen bytes from b.
func readSize(b []byte, slen byte) (uint64, error) {
	if int(slen) > len(b) {
		return 0, ErrTruncated
	}
	if b[0] == 0 {
		return 0, ErrNonCanonical
	}
	var s uint64
	for _, c := range b[:slen] {
		s = s<<8 | uint64(c)
	}
	// Long-form sizes must not fit the short form.
	if s <= maxShortSize {
		return 0, ErrNonCanonical
	}
	return s, nil
}
