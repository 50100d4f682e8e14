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

/*
Package rlp implements the RLP serialization format.
    rlp包实现了RLP序列化格式

The purpose of RLP (Recursive Length Prefix) is to encode arbitrarily nested arrays of
binary data. The only purpose of RLP is to encode structure; encoding specific atomic
data types (eg. strings, ints, floats) is left up to higher-order protocols.
    RLP的唯一目的是对结构进行编码；编码特定的原子数据类型由高阶协议决定。

Items

An Item is either a byte string or an ordered list of Items. Items are values: they
are never modified after construction and never share memory with a decoded buffer.

    it := rlp.List(rlp.Text("cat"), rlp.Text("dog"))
    enc := rlp.Encode(it) // C8 83636174 83646F67

Encoding Rules
    编码规则

A byte string of length one whose value is below 0x80 is its own encoding. Any other
byte string of length N < 56 is prefixed by the byte 0x80+N; longer strings are
prefixed by 0xB7 plus the width of N, followed by N in big-endian form.

A list is encoded by concatenating the encodings of its elements. If the concatenation
has length M < 56 it is prefixed by 0xC0+M, otherwise by 0xF7 plus the width of M,
followed by M in big-endian form.
    列表：先编码所有元素并拼接，再根据总长度加前缀。

Decoding Rules
    解码规则

Decode accepts exactly one canonical value. It returns a *DecodeError wrapping one of
ErrEmptyInput, ErrTruncated, ErrNonCanonical, ErrTooDeep, ErrTrailingData or
ErrInvalidPrefix; use errors.Is to test for a specific condition. List nesting is bounded
by Decoder.MaxDepth.

Integers

By convention an unsigned integer is the byte string of its big-endian representation
without leading zero bytes, so zero is the empty string. Uint, Uint256 and BigInt build
such items and Item.Uint64, Item.Uint256 and Item.BigInt read them back.
    在以太坊中，整数必须以无前导零的大端二进制形式表示（从而使整数值零等效于空字符串）。

Go Values

ItemOf converts Go values using reflection:

If the type implements the Marshaler interface, ItemOf calls MarshalRLP. It does not
call MarshalRLP on nil pointer values.

A nil pointer to a struct type, slice or array always converts to an empty list unless
the slice or array has element type byte. A nil pointer to any other value converts to
the empty string.

Struct values convert to a list of their public fields. Recursive struct types are
supported. Slices and arrays convert to lists, except that byte slices and byte arrays
convert to byte strings. Go strings convert to byte strings. Unsigned integers, bool,
big.Int and uint256.Int follow the integer convention. An interface value converts as the
value contained in the interface; a nil interface converts to the empty list.

Signed integers, floating point numbers, maps, channels and functions are not supported.

Struct Tags

As with other encoding packages, the "-" tag ignores fields.

    type StructWithIgnoredField struct{
        Ignored uint `rlp:"-"`
        Field   uint
    }

The "tail" tag, which may only be used on the last exported struct field, splices the
elements of a slice into the enclosing list. A tail byte slice is an ordinary string
element, since byte slices convert to strings.

    type StructWithTail struct{
        Field   uint
        Tail    []string `rlp:"tail"`
    }

The "optional" tag says that the field may be omitted if it is zero-valued. If this tag is
used on a struct field, all subsequent public fields must also be declared optional. The
output list contains all values up to the last non-zero optional field.
    “可选”标记表示，如果字段为零值，则可以省略该字段。
*/
package rlp
