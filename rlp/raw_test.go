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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		input     string
		kind      Kind
		val, rest string
		err       error
	}{
		{input: "01FFFF", kind: SingleByte, val: "01", rest: "FFFF"},
		{input: "80FFFF", kind: EmptyString, val: "", rest: "FFFF"},
		{input: "C0FFFF", kind: EmptyList, val: "", rest: "FFFF"},
		{input: "83636174", kind: ShortString, val: "636174", rest: ""},
		{input: "C3636174FF", kind: ShortList, val: "636174", rest: "FF"},

		{input: "", err: ErrEmptyInput, rest: ""},
		{input: "8161", err: ErrNonCanonical, rest: "8161"},
		{input: "B800", err: ErrNonCanonical, rest: "B800"},
		{input: "81", err: ErrTruncated, rest: "81"},
		{input: "C601020304", err: ErrTruncated, rest: "C601020304"},
	}
	for i, test := range tests {
		kind, val, rest, err := Split(unhex(test.input))
		if test.err != nil {
			assert.True(t, errors.Is(err, test.err), "test %d: got %v, want %v", i, err, test.err)
		} else {
			require.NoError(t, err, "test %d", i)
			assert.Equal(t, test.kind, kind, "test %d", i)
			assert.Equal(t, unhex(test.val), val, "test %d", i)
		}
		assert.True(t, bytes.Equal(unhex(test.rest), rest), "test %d: rest %x", i, rest)
	}
}

func TestSplitTypes(t *testing.T) {
	_, _, err := SplitString(unhex("C0"))
	assert.Equal(t, ErrExpectedString, err)
	_, _, err = SplitList(unhex("80"))
	assert.Equal(t, ErrExpectedList, err)

	content, rest, err := SplitString(unhex("83636174C0"))
	require.NoError(t, err)
	assert.Equal(t, []byte("cat"), content)
	assert.Equal(t, unhex("C0"), rest)

	content, rest, err = SplitList(unhex("C20102"))
	require.NoError(t, err)
	assert.Equal(t, unhex("0102"), content)
	assert.Empty(t, rest)
}

func TestCountValues(t *testing.T) {
	tests := []struct {
		input string
		count int
		err   error
	}{
		{"", 0, nil},
		{"00", 1, nil},
		{"80", 1, nil},
		{"C0", 1, nil},
		{"01020304", 4, nil},
		{"01C0C101C103", 4, nil},
		{"01C30102", 0, ErrTruncated},
		{"8101", 0, ErrNonCanonical},
	}
	for i, test := range tests {
		count, err := CountValues(unhex(test.input))
		if test.err != nil {
			assert.True(t, errors.Is(err, test.err), "test %d: got %v", i, err)
			continue
		}
		require.NoError(t, err, "test %d", i)
		assert.Equal(t, test.count, count, "test %d", i)
	}
}

func TestRawValueItemOf(t *testing.T) {
	raw := RawValue(unhex("C88363617483646F67"))
	it, err := ItemOf(struct {
		A uint
		R RawValue
	}{1, raw})
	require.NoError(t, err)
	assert.Equal(t, unhex("CA01C88363617483646F67"), Encode(it))
}
