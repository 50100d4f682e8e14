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
	"bufio"
	"bytes"
	"errors"
	"io"
	"math"
)

// Reader reads consecutive top-level RLP values from an input stream.
type Reader struct {
	r         *bufio.Reader
	dec       Decoder
	remaining uint64 // bytes left under the input limit
	limited   bool
	offset    int // bytes consumed by completed values
}

// NewReader creates a Reader. If inputLimit is > 0, reading fails with
// ErrTruncated once a value would extend past the limit. Without an explicit
// limit, readers that report their length (such as *bytes.Reader) are
// limited to that length.
func NewReader(r io.Reader, inputLimit uint64, dec Decoder) *Reader {
	s := &Reader{dec: dec}
	if inputLimit > 0 {
		s.remaining, s.limited = inputLimit, true
	} else if lr, ok := r.(interface{ Len() int }); ok {
		s.remaining, s.limited = uint64(lr.Len()), true
	}
	if br, ok := r.(*bufio.Reader); ok {
		s.r = br
	} else {
		s.r = bufio.NewReader(r)
	}
	return s
}

// ReadRaw returns the full encoding of the next value without decoding its
// payload. It returns io.EOF when the input ends at a value boundary.
func (s *Reader) ReadRaw() (RawValue, error) {
	if s.limited && s.remaining == 0 {
		return nil, io.EOF
	}
	first, err := s.r.ReadByte()
	if err != nil {
		return nil, err
	}
	if err := s.consume(1); err != nil {
		return nil, err
	}
	raw := make([]byte, 1, 9)
	raw[0] = first
	// Read the size bytes of long-form headers.
	switch {
	case first > longStringOffset && first < listOffset:
		raw, err = s.readN(raw, uint64(first-longStringOffset))
	case first > longListOffset:
		raw, err = s.readN(raw, uint64(first-longListOffset))
	}
	if err != nil {
		return nil, err
	}
	h, err := parseHeader(raw)
	if err != nil {
		return nil, &DecodeError{Err: err, Offset: s.offset}
	}
	if h.Kind != SingleByte {
		if raw, err = s.readN(raw, h.PayloadSize); err != nil {
			return nil, err
		}
	}
	s.offset += len(raw)
	return RawValue(raw), nil
}

// ReadItem decodes the next value. It returns io.EOF when the input ends at
// a value boundary.
func (s *Reader) ReadItem() (Item, error) {
	start := s.offset
	raw, err := s.ReadRaw()
	if err != nil {
		return Item{}, err
	}
	it, err := s.dec.Decode(raw)
	if err != nil {
		var derr *DecodeError
		if errors.As(err, &derr) {
			derr.Offset += start
		}
		return Item{}, err
	}
	return it, nil
}

// readN appends n bytes from the input to buf. The buffer grows with the
// data actually read, so a hostile size does not cause a large allocation.
func (s *Reader) readN(buf []byte, n uint64) ([]byte, error) {
	if n == 0 {
		return buf, nil
	}
	if n > math.MaxInt64 {
		return nil, &DecodeError{Err: ErrTruncated, Offset: s.offset}
	}
	if err := s.consume(n); err != nil {
		return nil, err
	}
	b := bytes.NewBuffer(buf)
	if _, err := io.CopyN(b, s.r, int64(n)); err != nil {
		if err == io.EOF {
			return nil, &DecodeError{Err: ErrTruncated, Offset: s.offset}
		}
		return nil, err
	}
	return b.Bytes(), nil
}

// consume charges n bytes against the input limit.
func (s *Reader) consume(n uint64) error {
	if !s.limited {
		return nil
	}
	if n > s.remaining {
		return &DecodeError{Err: ErrTruncated, Offset: s.offset}
	}
	s.remaining -= n
	return nil
}
