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
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUint(t *testing.T) {
	tests := []struct {
		i   uint64
		enc string
	}{
		{0, "80"},
		{1, "01"},
		{127, "7F"},
		{128, "8180"},
		{256, "820100"},
		{1024, "820400"},
		{0xFFFFFF, "83FFFFFF"},
		{0xFFFFFFFFFFFFFFFF, "88FFFFFFFFFFFFFFFF"},
	}
	for _, test := range tests {
		it := Uint(test.i)
		assert.Equal(t, unhex(test.enc), Encode(it), "%d", test.i)

		v, err := it.Uint64()
		require.NoError(t, err)
		assert.Equal(t, test.i, v)
	}
}

func TestUintErrors(t *testing.T) {
	_, err := Bytes([]byte{0x00, 0x01}).Uint64()
	assert.Equal(t, ErrCanonInt, err)

	_, err = Bytes(make([]byte, 9)).Uint64()
	assert.Equal(t, ErrCanonInt, err)

	_, err = Bytes([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9}).Uint64()
	assert.Equal(t, ErrUintOverflow, err)

	_, err = List().Uint64()
	assert.Equal(t, ErrExpectedString, err)
}

func TestUint256(t *testing.T) {
	z := new(uint256.Int).Lsh(uint256.NewInt(1), 255)
	it := Uint256(z)
	assert.Equal(t, 32, it.Len())
	got, err := it.Uint256()
	require.NoError(t, err)
	assert.True(t, z.Eq(got))

	assert.Equal(t, unhex("80"), Encode(Uint256(nil)))
	assert.Equal(t, unhex("80"), Encode(Uint256(uint256.NewInt(0))))
	assert.Equal(t, unhex("7F"), Encode(Uint256(uint256.NewInt(127))))

	_, err = Bytes(make([]byte, 33)).Uint256()
	assert.Equal(t, ErrCanonInt, err)
	b := make([]byte, 33)
	b[0] = 1
	_, err = Bytes(b).Uint256()
	assert.Equal(t, ErrUintOverflow, err)
}

func TestBigInt(t *testing.T) {
	i, _ := new(big.Int).SetString("102030405060708090A0B0C0D0E0F2", 16)
	it, err := BigInt(i)
	require.NoError(t, err)
	assert.Equal(t, unhex("8F102030405060708090A0B0C0D0E0F2"), Encode(it))

	got, err := it.BigInt()
	require.NoError(t, err)
	assert.Equal(t, 0, i.Cmp(got))

	it, err = BigInt(big.NewInt(0))
	require.NoError(t, err)
	assert.Equal(t, unhex("80"), Encode(it))

	_, err = BigInt(big.NewInt(-1))
	assert.Error(t, err)

	// big integers have no width limit
	huge := new(big.Int).Lsh(big.NewInt(1), 1000)
	it, err = BigInt(huge)
	require.NoError(t, err)
	got, err = it.BigInt()
	require.NoError(t, err)
	assert.Equal(t, 0, huge.Cmp(got))
}
