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
	"encoding/hex"
	"fmt"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"golang.org/x/crypto/sha3"
)

// Hash is the keccak-256 hash of a node encoding.
type Hash [32]byte

// BytesToHash sets b to hash. If b is larger than len(h), b will be cropped from the left.
func BytesToHash(b []byte) Hash {
	var h Hash
	if len(b) > len(h) {
		b = b[len(b)-len(h):]
	}
	copy(h[len(h)-len(b):], b)
	return h
}

// HexToHash sets byte representation of s to hash. Invalid hex input
// yields the zero hash.
func HexToHash(s string) Hash {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	b, _ := hex.DecodeString(s)
	return BytesToHash(b)
}

// Bytes gets the byte representation of the underlying hash.
func (h Hash) Bytes() []byte { return h[:] }

// Hex converts a hash to a hex string.
func (h Hash) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

func (h Hash) String() string { return h.Hex() }

func keccak256(data []byte) Hash {
	var h Hash
	d := sha3.NewLegacyKeccak256()
	d.Write(data)
	d.Sum(h[:0])
	return h
}

// MissingNodeError is returned by the trie functions (TryGet, TryUpdate, TryDelete)
// in the case where a trie node is not present in the local database.
type MissingNodeError struct {
	NodeHash Hash   // hash of the missing node
	Path     []byte // hex-encoded path to the missing node
}

func (err *MissingNodeError) Error() string {
	return fmt.Sprintf("missing trie node %x (path %x)", err.NodeHash, err.Path)
}

// Config defines the settings of a node database.
type Config struct {
	Cache int // Memory allowance (MB) to use for caching trie nodes in memory
}

// Database stores encoded trie nodes keyed by their hash. Clean nodes read
// from disk are kept in a fastcache.
// 节点数据库：leveldb持久化，fastcache缓存
type Database struct {
	diskdb *leveldb.DB
	cleans *fastcache.Cache
}

// NewDatabase wraps an opened leveldb instance.
func NewDatabase(diskdb *leveldb.DB, config *Config) *Database {
	var cleans *fastcache.Cache
	if config != nil && config.Cache > 0 {
		cleans = fastcache.New(config.Cache * 1024 * 1024)
	}
	return &Database{
		diskdb: diskdb,
		cleans: cleans,
	}
}

// OpenDatabase opens or creates a leveldb node store at path.
func OpenDatabase(path string, config *Config) (*Database, error) {
	db, err := leveldb.OpenFile(path, &opt.Options{ErrorIfMissing: false})
	if err != nil {
		return nil, err
	}
	return NewDatabase(db, config), nil
}

// NewMemoryDatabase creates a node store that lives only in memory.
func NewMemoryDatabase() *Database {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		// Memory storage cannot fail to open.
		panic(err)
	}
	return NewDatabase(db, &Config{Cache: 16})
}

// Close releases the underlying store.
func (db *Database) Close() error {
	if db.cleans != nil {
		db.cleans.Reset()
	}
	return db.diskdb.Close()
}

// Node retrieves an encoded trie node from the store.
func (db *Database) Node(hash Hash) ([]byte, error) {
	if hash == (Hash{}) {
		return nil, leveldb.ErrNotFound
	}
	if db.cleans != nil {
		if enc := db.cleans.Get(nil, hash[:]); enc != nil {
			return enc, nil
		}
	}
	enc, err := db.diskdb.Get(hash[:], nil)
	if err != nil {
		return nil, err
	}
	if db.cleans != nil {
		db.cleans.Set(hash[:], enc)
	}
	return enc, nil
}

// node retrieves and decodes a trie node. A nil node with nil error means
// the node is absent.
func (db *Database) node(hash Hash) (node, error) {
	enc, err := db.Node(hash)
	switch {
	case err == leveldb.ErrNotFound:
		return nil, nil
	case err != nil:
		return nil, err
	case len(enc) == 0:
		return nil, nil
	}
	return decodeNode(hash[:], enc)
}

// write flushes a batch of encoded nodes to disk and the clean cache.
func (db *Database) write(batch *leveldb.Batch, nodes map[Hash][]byte) error {
	if err := db.diskdb.Write(batch, nil); err != nil {
		log.Error("Failed to write trie nodes", "count", len(nodes), "err", err)
		return err
	}
	if db.cleans != nil {
		for hash, enc := range nodes {
			db.cleans.Set(hash[:], enc)
		}
	}
	return nil
}
