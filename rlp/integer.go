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
	"math/big"

	"github.com/holiman/uint256"
)

// Integers are not a wire-level concept. By convention an unsigned integer
// is the byte string of its big-endian representation without leading
// zeros, so zero is the empty string.
// 整数按大端、无前导零的字节串编码，0编码为空串

var (
	ErrCanonInt     = errors.New("rlp: non-canonical integer (leading zero bytes)")
	ErrUintOverflow = errors.New("rlp: uint overflow")
)

// Uint returns the byte string item for the integer i.
func Uint(i uint64) Item {
	if i == 0 {
		return Item{}
	}
	s := intsize(i)
	b := make([]byte, s)
	for j := 0; j < s; j++ {
		b[j] = byte(i >> (8 * uint(s-1-j)))
	}
	return Item{str: b}
}

// Uint256 returns the byte string item for the integer z.
func Uint256(z *uint256.Int) Item {
	if z == nil || z.IsZero() {
		return Item{}
	}
	b := z.Bytes32()
	return Item{str: copyBytes(b[32-(z.BitLen()+7)/8:])}
}

// BigInt returns the byte string item for the non-negative integer i.
// Negative values are not representable and yield an error.
func BigInt(i *big.Int) (Item, error) {
	if i == nil {
		return Item{}, nil
	}
	if i.Sign() < 0 {
		return Item{}, errors.New("rlp: cannot encode negative big.Int")
	}
	return Item{str: copyBytes(i.Bytes())}, nil
}

// Uint64 interprets a byte string item as an integer.
func (it Item) Uint64() (uint64, error) {
	b, err := it.intBytes(8)
	if err != nil {
		return 0, err
	}
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v, nil
}

// Uint256 interprets a byte string item as a 256-bit integer.
func (it Item) Uint256() (*uint256.Int, error) {
	b, err := it.intBytes(32)
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes(b), nil
}

// BigInt interprets a byte string item as an integer of unbounded size.
func (it Item) BigInt() (*big.Int, error) {
	b, err := it.intBytes(-1)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(b), nil
}

// intBytes validates the integer encoding; max < 0 disables the width limit.
func (it Item) intBytes(max int) ([]byte, error) {
	if it.list {
		return nil, ErrExpectedString
	}
	b := it.str
	if len(b) > 0 && b[0] == 0 {
		return nil, ErrCanonInt
	}
	if max >= 0 && len(b) > max {
		return nil, ErrUintOverflow
	}
	return b, nil
}
