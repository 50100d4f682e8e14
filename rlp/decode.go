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
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when decoding a zero-length buffer.
	ErrEmptyInput = errors.New("rlp: empty input")
	// ErrTruncated is returned when a header or payload extends past the
	// end of the available input, including the end of an enclosing list.
	ErrTruncated = errors.New("rlp: value size exceeds available input length")
	// ErrInvalidPrefix is returned for prefix bytes that map to no kind.
	ErrInvalidPrefix = errors.New("rlp: invalid prefix")
	// ErrTooDeep is returned when lists nest deeper than the decoder allows.
	ErrTooDeep = errors.New("rlp: nesting depth exceeds limit")
	// ErrNonCanonical is returned for size information that has a shorter
	// valid encoding.
	ErrNonCanonical = errors.New("rlp: non-canonical size information")
	// ErrTrailingData is returned when input remains after the first value.
	ErrTrailingData = errors.New("rlp: input contains more than one value")

	ErrExpectedString = errors.New("rlp: expected String or Byte")
	ErrExpectedList   = errors.New("rlp: expected List")
)

// DefaultMaxDepth is the list nesting limit used by Decode.
const DefaultMaxDepth = 1024

// DecodeError reports where in the input decoding failed.
// Err is one of the sentinel errors of this package.
type DecodeError struct {
	Err    error
	Offset int // position of the offending prefix in the input
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v (at offset %d)", e.Err, e.Offset)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decoder decodes RLP values with a configurable nesting bound.
type Decoder struct {
	// MaxDepth bounds list nesting. A top-level list has depth one.
	// Values <= 0 select DefaultMaxDepth.
	MaxDepth int
}

// Decode parses b as exactly one RLP value.
func Decode(b []byte) (Item, error) {
	return Decoder{}.Decode(b)
}

// Decode parses b as exactly one RLP value. The returned item does not
// reference b.
func (d Decoder) Decode(b []byte) (Item, error) {
	if len(b) == 0 {
		return Item{}, &DecodeError{Err: ErrEmptyInput}
	}
	maxDepth := d.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	it, size, err := decodeValue(b, 0, 0, maxDepth)
	if err != nil {
		return Item{}, err
	}
	if size != len(b) {
		return Item{}, &DecodeError{Err: ErrTrailingData, Offset: size}
	}
	return it, nil
}

// decodeValue decodes the value at the start of buf. base is the offset of
// buf within the original input and depth the number of enclosing lists.
// It returns the item and the number of bytes it occupies.
// 递归解码，depth记录当前所在列表的层数
func decodeValue(buf []byte, base, depth, maxDepth int) (Item, int, error) {
	h, err := DecodeLength(buf)
	if err != nil {
		return Item{}, 0, &DecodeError{Err: err, Offset: base}
	}
	// h.Size() fits in int: DecodeLength checked it against len(buf).
	size := int(h.Size())
	payload := buf[h.HeaderSize:size]

	switch h.Kind {
	case SingleByte:
		return Item{str: []byte{buf[0]}}, 1, nil
	case EmptyString:
		return Item{}, size, nil
	case ShortString, LongString:
		return Item{str: copyBytes(payload)}, size, nil
	case EmptyList, ShortList, LongList:
		if depth+1 > maxDepth {
			return Item{}, 0, &DecodeError{Err: ErrTooDeep, Offset: base}
		}
		elems, err := decodeElems(payload, base+int(h.HeaderSize), depth+1, maxDepth)
		if err != nil {
			return Item{}, 0, err
		}
		return Item{list: true, elems: elems}, size, nil
	default:
		return Item{}, 0, &DecodeError{Err: ErrInvalidPrefix, Offset: base}
	}
}

// decodeElems decodes the concatenated elements of a list payload.
// Each element must fit inside the payload; an element whose header claims
// more bytes than remain is reported as ErrTruncated.
func decodeElems(payload []byte, base, depth, maxDepth int) ([]Item, error) {
	var elems []Item
	for pos := 0; pos < len(payload); {
		it, size, err := decodeValue(payload[pos:], base+pos, depth, maxDepth)
		if err != nil {
			return nil, err
		}
		elems = append(elems, it)
		pos += size
	}
	return elems, nil
}
