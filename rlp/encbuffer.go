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
	"sync"

	"github.com/holiman/uint256"
)

// encBuffer collects string data and list header positions. List headers
// are only materialized when the output is assembled, because a list's size
// is unknown until all of its elements have been written.
// 列表头在最后拼接输出时才写入
type encBuffer struct {
	str    []byte     // string data, contains everything except list headers
	lheads []listhead // all list headers
	lhsize int        // sum of sizes of all encoded list headers
}

type listhead struct {
	offset int // index of this header in string data
	size   int // total size of encoded data (including list headers)
}

// encode writes head to the given buffer, which must be at least
// 9 bytes long. It returns the encoded bytes.
func (head *listhead) encode(buf []byte) []byte {
	return appendHeader(buf[:0], uint64(head.size), listOffset)
}

var encBufferPool = sync.Pool{
	New: func() interface{} { return new(encBuffer) },
}

func getEncBuffer() *encBuffer {
	buf := encBufferPool.Get().(*encBuffer)
	buf.reset()
	return buf
}

func (w *encBuffer) reset() {
	w.lhsize = 0
	w.str = w.str[:0]
	w.lheads = w.lheads[:0]
}

// size returns the length of the encoded data.
func (w *encBuffer) size() int {
	return len(w.str) + w.lhsize
}

// makeBytes creates the encoder output.
func (w *encBuffer) makeBytes() []byte {
	out := make([]byte, w.size())
	w.copyTo(out)
	return out
}

func (w *encBuffer) copyTo(dst []byte) {
	strpos := 0
	pos := 0
	for _, head := range w.lheads {
		// write string data before header
		n := copy(dst[pos:], w.str[strpos:head.offset])
		pos += n
		strpos += n
		// write the header
		enc := head.encode(dst[pos:])
		pos += len(enc)
	}
	// copy string data after the last list header
	copy(dst[pos:], w.str[strpos:])
}

// writeTo writes the encoder output to out.
func (w *encBuffer) writeTo(out io.Writer) (err error) {
	var headbuf [9]byte
	strpos := 0
	for _, head := range w.lheads {
		// write string data before header
		if head.offset-strpos > 0 {
			n, err := out.Write(w.str[strpos:head.offset])
			strpos += n
			if err != nil {
				return err
			}
		}
		// write the header
		enc := head.encode(headbuf[:])
		if _, err = out.Write(enc); err != nil {
			return err
		}
	}
	if strpos < len(w.str) {
		// write string data after the last list header
		_, err = out.Write(w.str[strpos:])
	}
	return err
}

func (w *encBuffer) writeBytes(b []byte) {
	if len(b) == 1 && b[0] < stringOffset {
		// fits single byte, no string header
		w.str = append(w.str, b[0])
		return
	}
	w.str = appendHeader(w.str, uint64(len(b)), stringOffset)
	w.str = append(w.str, b...)
}

func (w *encBuffer) writeString(s string) {
	if len(s) == 1 && s[0] < stringOffset {
		w.str = append(w.str, s[0])
		return
	}
	w.str = appendHeader(w.str, uint64(len(s)), stringOffset)
	w.str = append(w.str, s...)
}

func (w *encBuffer) writeUint64(i uint64) {
	switch {
	case i == 0:
		w.str = append(w.str, stringOffset)
	case i < stringOffset:
		w.str = append(w.str, byte(i))
	default:
		s := intsize(i)
		w.str = append(w.str, stringOffset+byte(s))
		for j := s - 1; j >= 0; j-- {
			w.str = append(w.str, byte(i>>(8*uint(j))))
		}
	}
}

func (w *encBuffer) writeUint256(z *uint256.Int) {
	bitlen := z.BitLen()
	if bitlen <= 64 {
		w.writeUint64(z.Uint64())
		return
	}
	b := z.Bytes32()
	w.writeBytes(b[32-(bitlen+7)/8:])
}

func (w *encBuffer) list() int {
	w.lheads = append(w.lheads, listhead{offset: len(w.str), size: w.lhsize})
	return len(w.lheads) - 1
}

func (w *encBuffer) listEnd(index int) {
	lh := &w.lheads[index]
	lh.size = w.size() - lh.offset - lh.size
	w.lhsize += headsize(uint64(lh.size))
}

// writeItem encodes it recursively.
func (w *encBuffer) writeItem(it Item) {
	if !it.list {
		w.writeBytes(it.str)
		return
	}
	idx := w.list()
	for _, e := range it.elems {
		w.writeItem(e)
	}
	w.listEnd(idx)
}

// EncoderBuffer is a buffer for incremental encoding.
//
// The zero value is NOT ready for use. To get a usable buffer,
// create it using NewEncoderBuffer.
type EncoderBuffer struct {
	buf *encBuffer
	dst io.Writer
}

// NewEncoderBuffer creates an encoder buffer. dst may be nil when the output
// is only retrieved with ToBytes or AppendToBytes.
func NewEncoderBuffer(dst io.Writer) EncoderBuffer {
	return EncoderBuffer{buf: getEncBuffer(), dst: dst}
}

// Reset truncates the buffer and sets the output destination.
func (w *EncoderBuffer) Reset(dst io.Writer) {
	if w.buf == nil {
		w.buf = getEncBuffer()
	}
	w.buf.reset()
	w.dst = dst
}

// Flush writes encoded RLP data to the output writer. This can only be called once.
// If you want to re-use the buffer after Flush, you must call Reset.
func (w *EncoderBuffer) Flush() error {
	var err error
	if w.dst != nil {
		err = w.buf.writeTo(w.dst)
	}
	encBufferPool.Put(w.buf)
	*w = EncoderBuffer{}
	return err
}

// ToBytes returns the encoded bytes.
func (w EncoderBuffer) ToBytes() []byte {
	return w.buf.makeBytes()
}

// AppendToBytes appends the encoded bytes to dst.
func (w EncoderBuffer) AppendToBytes(dst []byte) []byte {
	size := w.buf.size()
	out := append(dst, make([]byte, size)...)
	w.buf.copyTo(out[len(dst):])
	return out
}

// Write appends b directly to the encoder output. b must be a complete
// RLP encoding.
func (w EncoderBuffer) Write(b []byte) (int, error) {
	w.buf.str = append(w.buf.str, b...)
	return len(b), nil
}

// WriteItem encodes it.
func (w EncoderBuffer) WriteItem(it Item) {
	w.buf.writeItem(it)
}

// WriteBytes encodes b as an RLP string.
func (w EncoderBuffer) WriteBytes(b []byte) {
	w.buf.writeBytes(b)
}

// WriteString encodes s as an RLP string.
func (w EncoderBuffer) WriteString(s string) {
	w.buf.writeString(s)
}

// WriteUint64 encodes an unsigned integer.
func (w EncoderBuffer) WriteUint64(i uint64) {
	w.buf.writeUint64(i)
}

// WriteUint256 encodes z as an unsigned integer.
func (w EncoderBuffer) WriteUint256(z *uint256.Int) {
	w.buf.writeUint256(z)
}

// List starts a list. It returns an internal index. Call ListEnd with
// this index after encoding the content to finish the list.
func (w EncoderBuffer) List() int {
	return w.buf.list()
}

// ListEnd finishes the given list.
func (w EncoderBuffer) ListEnd(index int) {
	w.buf.listEnd(index)
}
