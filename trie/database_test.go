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
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syndtr/goleveldb/leveldb"
)

// Tests that the trie database returns a not found error if attempting
// to retrieve the meta root.
func TestDatabaseMetarootFetch(t *testing.T) {
	db := NewMemoryDatabase()
	defer db.Close()

	_, err := db.Node(Hash{})
	assert.Equal(t, leveldb.ErrNotFound, err)

	_, err = db.Node(Hash{1, 2})
	assert.Equal(t, leveldb.ErrNotFound, err)
}

func TestDatabaseMissingNode(t *testing.T) {
	db := NewMemoryDatabase()
	defer db.Close()

	_, err := New(Hash{1, 2, 3}, db)
	var missing *MissingNodeError
	require.True(t, errors.As(err, &missing), "got %v", err)
	assert.Equal(t, Hash{1, 2, 3}, missing.NodeHash)
	assert.Empty(t, missing.Path)
}

func TestDatabaseCleanCache(t *testing.T) {
	db := NewMemoryDatabase()
	defer db.Close()

	tr := NewEmpty(db)
	tr.Update([]byte("dog"), []byte("puppy"))
	root, _, err := tr.Commit()
	require.NoError(t, err)

	enc, err := db.Node(root)
	require.NoError(t, err)
	assert.Equal(t, root, keccak256(enc))

	// the clean cache answers without touching disk
	cached := db.cleans.Get(nil, root[:])
	assert.Equal(t, enc, cached)
}

func TestDatabaseReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodes")

	db, err := OpenDatabase(path, &Config{Cache: 1})
	require.NoError(t, err)
	tr := NewEmpty(db)
	for _, kv := range [][2]string{{"do", "verb"}, {"dog", "puppy"}, {"doge", "coin"}, {"horse", "stallion"}} {
		tr.Update([]byte(kv[0]), []byte(kv[1]))
	}
	root, _, err := tr.Commit()
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = OpenDatabase(path, nil)
	require.NoError(t, err)
	defer db.Close()

	tr, err = New(root, db)
	require.NoError(t, err)
	assert.Equal(t, []byte("coin"), tr.Get([]byte("doge")))
	assert.Equal(t, []byte("stallion"), tr.Get([]byte("horse")))
	assert.Equal(t, root, tr.Hash())
}

func TestHexToHash(t *testing.T) {
	h := HexToHash("0x0102")
	assert.Equal(t, byte(1), h[30])
	assert.Equal(t, byte(2), h[31])
	assert.Equal(t, "0x"+strings.Repeat("0", 60)+"0102", h.Hex())
	assert.Equal(t, h, BytesToHash(h.Bytes()))
}
