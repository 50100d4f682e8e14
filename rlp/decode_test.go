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
	"encoding/hex"
	"errors"
	"testing"

	"github.com/davecgh/go-spew/spew"
	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unhex(str string) []byte {
	b, err := hex.DecodeString(str)
	if err != nil {
		panic("invalid hex string: " + str)
	}
	return b
}

func TestDecodeScenarios(t *testing.T) {
	for i, test := range encTests {
		it, err := Decode(unhex(test.output))
		if err != nil {
			t.Errorf("test %d: unexpected error %v", i, err)
			continue
		}
		if !it.Equal(test.it) {
			t.Errorf("test %d: mismatch\ngot  %v\nwant %v", i, it, test.it)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		input  string
		err    error
		offset int
	}{
		{"", ErrEmptyInput, 0},
		{"836467", ErrTruncated, 0}, // claims length 3, has 2
		{"C883636174836467", ErrTruncated, 0},
		{"C3836467", ErrTruncated, 1}, // element overflows its list
		{"C20183", ErrTruncated, 2},
		{"B8", ErrTruncated, 0},
		{"8105", ErrNonCanonical, 0},
		{"C28105", ErrNonCanonical, 1},
		{"B80561", ErrNonCanonical, 0},
		{"C4C3B90000", ErrNonCanonical, 2},
		{"F80100", ErrNonCanonical, 0},
		{"0000", ErrTrailingData, 1},
		{"C0C0", ErrTrailingData, 1},
		{"83646F6700", ErrTrailingData, 4},
	}
	for i, test := range tests {
		_, err := Decode(unhex(test.input))
		if !errors.Is(err, test.err) {
			t.Errorf("test %d (%s): got error %v, want %v", i, test.input, err, test.err)
			continue
		}
		var derr *DecodeError
		if !errors.As(err, &derr) {
			t.Errorf("test %d: error %T is not a *DecodeError", i, err)
			continue
		}
		assert.Equal(t, test.offset, derr.Offset, "test %d (%s)", i, test.input)
	}
}

func nested(depth int) []byte {
	// depth nested empty lists: [[[...]]]
	enc := []byte{0xc0}
	for i := 1; i < depth; i++ {
		enc = Encode(List(mustDecode(enc)))
	}
	return enc
}

func mustDecode(b []byte) Item {
	it, err := Decoder{MaxDepth: 1 << 20}.Decode(b)
	if err != nil {
		panic(err)
	}
	return it
}

func TestDecodeDepth(t *testing.T) {
	dec := Decoder{MaxDepth: 3}
	_, err := dec.Decode(nested(3))
	assert.NoError(t, err)

	_, err = dec.Decode(nested(4))
	assert.True(t, errors.Is(err, ErrTooDeep), "got %v", err)
	var derr *DecodeError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, 3, derr.Offset)

	// strings do not count towards depth
	_, err = dec.Decode(Encode(List(List(List(Text("dog"))))))
	assert.NoError(t, err)

	_, err = Decode(nested(DefaultMaxDepth))
	assert.NoError(t, err)
	_, err = Decode(nested(DefaultMaxDepth + 1))
	assert.True(t, errors.Is(err, ErrTooDeep), "got %v", err)
}

func TestDecodeDoesNotAlias(t *testing.T) {
	input := unhex("C88363617483646F67")
	it, err := Decode(input)
	require.NoError(t, err)
	for i := range input {
		input[i] = 0
	}
	assert.Equal(t, []byte("cat"), it.At(0).Bytes())
	assert.Equal(t, []byte("dog"), it.At(1).Bytes())
}

func TestDecodeSingleByte(t *testing.T) {
	for b := 0; b < 0x80; b++ {
		it, err := Decode([]byte{byte(b)})
		require.NoError(t, err)
		assert.Equal(t, []byte{byte(b)}, it.Bytes())
	}
	for b := 0x80; b < 0x100; b++ {
		it, err := Decode([]byte{0x81, byte(b)})
		require.NoError(t, err)
		assert.Equal(t, []byte{byte(b)}, it.Bytes())
	}
}

func TestDecodeLongString(t *testing.T) {
	s := bytes.Repeat([]byte{'z'}, 56)
	it, err := Decode(append([]byte{0xb8, 0x38}, s...))
	require.NoError(t, err)
	assert.Equal(t, s, it.Bytes())
}

// randomItem fills an item tree from fuzzer input.
func randomItem(f *fuzz.Fuzzer, depth int) Item {
	var isList bool
	f.Fuzz(&isList)
	if !isList || depth == 0 {
		var b []byte
		f.Fuzz(&b)
		return Bytes(b)
	}
	var n uint8
	f.Fuzz(&n)
	elems := make([]Item, n%8)
	for i := range elems {
		elems[i] = randomItem(f, depth-1)
	}
	return List(elems...)
}

func TestRoundTripFuzz(t *testing.T) {
	f := fuzz.New().NilChance(0.1).NumElements(0, 80)
	for i := 0; i < 500; i++ {
		it := randomItem(f, 5)
		enc := Encode(it)
		require.Equal(t, EncodedSize(it), len(enc))

		dec, err := Decode(enc)
		if err != nil {
			t.Fatalf("decode error %v\ninput %x\nitem %s", err, enc, spew.Sdump(it))
		}
		if !dec.Equal(it) {
			t.Fatalf("round trip mismatch\ngot  %v\nwant %v", dec, it)
		}
		if !bytes.Equal(Encode(dec), enc) {
			t.Fatalf("re-encoding differs for %x", enc)
		}
	}
}

func TestDecodeFuzzNoPanic(t *testing.T) {
	f := fuzz.New().NumElements(0, 64)
	for i := 0; i < 2000; i++ {
		var input []byte
		f.Fuzz(&input)
		it, err := Decode(input)
		if err != nil {
			var derr *DecodeError
			require.True(t, errors.As(err, &derr), "error %v is not a *DecodeError", err)
			continue
		}
		// anything accepted is canonical
		require.Equal(t, input, Encode(it), "input %x", input)
	}
}

func BenchmarkDecode(b *testing.B) {
	enc := Encode(encTests[len(encTests)-1].it)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Decode(enc); err != nil {
			b.Fatal(err)
		}
	}
}
