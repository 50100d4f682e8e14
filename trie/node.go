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

package trie

import (
	"fmt"
	"io"
	"strings"

	"github.com/PigCharid/ethereum-rlp/rlp"
)

var indices = []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "a", "b", "c", "d", "e", "f", "[17]"}

type node interface {
	cache() (hashNode, bool)
	encode(w rlp.EncoderBuffer)
	fstring(string) string
}

type (
	// 分支节点，16个子节点加一个值
	fullNode struct {
		Children [17]node // Actual trie node data to encode/decode (needs custom encoder)
		flags    nodeFlag
	}
	// 扩展节点或叶子节点
	shortNode struct {
		Key   []byte
		Val   node
		flags nodeFlag
	}
	hashNode  []byte
	valueNode []byte
)

// EncodeRLP encodes a full node into the consensus RLP format.
func (n *fullNode) EncodeRLP(w io.Writer) error {
	eb := rlp.NewEncoderBuffer(w)
	n.encode(eb)
	return eb.Flush()
}

func (n *fullNode) copy() *fullNode   { copy := *n; return &copy }
func (n *shortNode) copy() *shortNode { copy := *n; return &copy }

// nodeFlag contains caching-related metadata about a node.
type nodeFlag struct {
	hash  hashNode // cached hash of the node (may be nil)
	dirty bool     // whether the node has changes that must be written to the database
}

func (n *fullNode) cache() (hashNode, bool)  { return n.flags.hash, n.flags.dirty }
func (n *shortNode) cache() (hashNode, bool) { return n.flags.hash, n.flags.dirty }
func (n hashNode) cache() (hashNode, bool)   { return nil, true }
func (n valueNode) cache() (hashNode, bool)  { return nil, true }

// Pretty printing.
func (n *fullNode) String() string  { return n.fstring("") }
func (n *shortNode) String() string { return n.fstring("") }
func (n hashNode) String() string   { return n.fstring("") }
func (n valueNode) String() string  { return n.fstring("") }

func (n *fullNode) fstring(ind string) string {
	resp := fmt.Sprintf("[\n%s  ", ind)
	for i, node := range &n.Children {
		if node == nil {
			resp += fmt.Sprintf("%s: <nil> ", indices[i])
		} else {
			resp += fmt.Sprintf("%s: %v", indices[i], node.fstring(ind+"  "))
		}
	}
	return resp + fmt.Sprintf("\n%s] ", ind)
}
func (n *shortNode) fstring(ind string) string {
	return fmt.Sprintf("{%x: %v} ", n.Key, n.Val.fstring(ind+"  "))
}
func (n hashNode) fstring(ind string) string {
	return fmt.Sprintf("<%x> ", []byte(n))
}
func (n valueNode) fstring(ind string) string {
	return fmt.Sprintf("%x ", []byte(n))
}

// Node encodings. Children whose encoding is shorter than a hash are embedded
// in their parent, others were replaced by hashNodes during hashing.

func (n *fullNode) encode(w rlp.EncoderBuffer) {
	offset := w.List()
	for _, c := range n.Children {
		if c != nil {
			c.encode(w)
		} else {
			w.WriteBytes(nil)
		}
	}
	w.ListEnd(offset)
}

func (n *shortNode) encode(w rlp.EncoderBuffer) {
	offset := w.List()
	w.WriteBytes(n.Key)
	if n.Val != nil {
		n.Val.encode(w)
	} else {
		w.WriteBytes(nil)
	}
	w.ListEnd(offset)
}

func (n hashNode) encode(w rlp.EncoderBuffer) {
	w.WriteBytes(n)
}

func (n valueNode) encode(w rlp.EncoderBuffer) {
	w.WriteBytes(n)
}

// decodeNode parses the RLP encoding of a trie node.
func decodeNode(hash, buf []byte) (node, error) {
	if len(buf) == 0 {
		return nil, &decodeError{what: io.ErrUnexpectedEOF}
	}
	it, err := rlp.Decode(buf)
	if err != nil {
		return nil, &decodeError{what: err}
	}
	n, err := decodeItem(hash, it)
	if err != nil {
		return nil, wrapError(err, "node")
	}
	return n, nil
}

func decodeItem(hash []byte, it rlp.Item) (node, error) {
	if !it.IsList() {
		return nil, rlp.ErrExpectedList
	}
	switch it.Len() {
	case 2:
		n, err := decodeShort(hash, it)
		return n, wrapError(err, "short")
	case 17:
		n, err := decodeFull(hash, it)
		return n, wrapError(err, "full")
	default:
		return nil, fmt.Errorf("invalid number of list elements: %v", it.Len())
	}
}

func decodeShort(hash []byte, it rlp.Item) (node, error) {
	kit := it.At(0)
	if kit.IsList() {
		return nil, rlp.ErrExpectedString
	}
	flag := nodeFlag{hash: hash}
	key := compactToHex(kit.Bytes())
	if hasTerm(key) {
		// value node
		val := it.At(1)
		if val.IsList() {
			return nil, fmt.Errorf("invalid value node: %v", rlp.ErrExpectedString)
		}
		return &shortNode{key, valueNode(val.Bytes()), flag}, nil
	}
	r, err := decodeRef(it.At(1))
	if err != nil {
		return nil, wrapError(err, "val")
	}
	return &shortNode{key, r, flag}, nil
}

func decodeFull(hash []byte, it rlp.Item) (*fullNode, error) {
	n := &fullNode{flags: nodeFlag{hash: hash}}
	for i := 0; i < 16; i++ {
		cld, err := decodeRef(it.At(i))
		if err != nil {
			return n, wrapError(err, fmt.Sprintf("[%d]", i))
		}
		n.Children[i] = cld
	}
	val := it.At(16)
	if val.IsList() {
		return n, fmt.Errorf("invalid value node: %v", rlp.ErrExpectedString)
	}
	if val.Len() > 0 {
		n.Children[16] = valueNode(val.Bytes())
	}
	return n, nil
}

const hashLen = len(Hash{})

func decodeRef(it rlp.Item) (node, error) {
	switch {
	case it.IsList():
		// 'embedded' node reference. The encoding must be smaller
		// than a hash in order to be valid.
		if size := rlp.EncodedSize(it); size > hashLen {
			err := fmt.Errorf("oversized embedded node (size is %d bytes, want size < %d)", size, hashLen)
			return nil, err
		}
		return decodeItem(nil, it)
	case it.Len() == 0:
		// empty node
		return nil, nil
	case it.Len() == hashLen:
		return hashNode(it.Bytes()), nil
	default:
		return nil, fmt.Errorf("invalid RLP string size %d (want 0 or 32)", it.Len())
	}
}

// wraps a decoding error with information about the path to the
// invalid child node (for debugging encoding issues).
type decodeError struct {
	what  error
	stack []string
}

func wrapError(err error, ctx string) error {
	if err == nil {
		return nil
	}
	if decErr, ok := err.(*decodeError); ok {
		decErr.stack = append(decErr.stack, ctx)
		return decErr
	}
	return &decodeError{err, []string{ctx}}
}

func (err *decodeError) Error() string {
	return fmt.Sprintf("%v (decode path: %s)", err.what, strings.Join(err.stack, "<-"))
}

func (err *decodeError) Unwrap() error {
	return err.what
}
