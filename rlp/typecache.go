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
	"fmt"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
)

// 如何根据类型找到对应的转换器

// typeinfo is an entry in the type cache.
// 缓冲类型的转换信息
type typeinfo struct {
	converter    converter // 转换器
	converterErr error     // error from makeConverter
}

// tags represents struct tags.
type tags struct {
	// rlp:"optional" allows for a field to be missing in the output list.
	// If this is set, all subsequent fields must also be optional.
	optional bool
	// rlp:"tail" controls whether this field swallows additional list elements.
	// It can only be set for the last field, which must be of slice type.
	tail bool
	// rlp:"-" ignores fields.
	ignored bool
}

// typekey is the key of a type in typeCache. It includes the struct tags because
// they might generate a different converter.
// typekey是typeCache中类型的键。它包括struct标记，因为它们可能生成不同的转换器。
type typekey struct {
	reflect.Type
	tags
}

type converter func(reflect.Value) (Item, error)

var theTC = newTypeCache()

// 核心数据结构 Map的key是类型，value是对应的转换器
type typeCache struct {
	cur atomic.Value
	// This lock synchronizes writers.
	mu   sync.Mutex
	next map[typekey]*typeinfo
}

func newTypeCache() *typeCache {
	c := new(typeCache)
	c.cur.Store(make(map[typekey]*typeinfo))
	return c
}

func cachedConverter(typ reflect.Type) (converter, error) {
	info := theTC.info(typ)
	return info.converter, info.converterErr
}

func (c *typeCache) info(typ reflect.Type) *typeinfo {
	key := typekey{Type: typ}
	if info := c.cur.Load().(map[typekey]*typeinfo)[key]; info != nil {
		return info
	}

	// Not in the cache, need to generate info for this type.
	// 不在缓存中，需要生成此类型的信息。
	return c.generate(typ, tags{})
}

func (c *typeCache) generate(typ reflect.Type, tags tags) *typeinfo {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.cur.Load().(map[typekey]*typeinfo)
	if info := cur[typekey{typ, tags}]; info != nil {
		return info
	}

	// Copy cur to next.
	c.next = make(map[typekey]*typeinfo, len(cur)+1)
	for k, v := range cur {
		c.next[k] = v
	}

	// Generate.
	info := c.infoWhileGenerating(typ, tags)

	// next -> cur
	c.cur.Store(c.next)
	c.next = nil
	return info
}

func (c *typeCache) infoWhileGenerating(typ reflect.Type, tags tags) *typeinfo {
	key := typekey{typ, tags}
	if info := c.next[key]; info != nil {
		return info
	}
	// Put a dummy value into the cache before generating.
	// If the generator tries to lookup itself, it will get
	// the dummy value and won't call itself recursively.
	//在生成之前，将一个伪值放入缓存。如果生成器尝试查找自身，它将获得伪值，并且不会递归调用自身。
	info := new(typeinfo)
	c.next[key] = info
	info.generate(typ, tags)
	return info
}

func (i *typeinfo) generate(typ reflect.Type, tags tags) {
	i.converter, i.converterErr = makeConverter(typ, tags)
}

type field struct {
	index    int
	info     *typeinfo
	optional bool
	tail     bool
}

// structFields resolves the typeinfo of all public fields in a struct type.
func structFields(typ reflect.Type) (fields []field, err error) {
	var (
		anyOptional bool
		lastPublic  = lastPublicField(typ)
	)
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if f.PkgPath != "" { // unexported
			continue
		}
		ts, err := parseStructTag(typ, i, lastPublic)
		if err != nil {
			return nil, err
		}
		if ts.ignored {
			continue
		}
		// If any field has the "optional" tag, subsequent fields must also have it.
		if ts.optional || ts.tail {
			anyOptional = true
		} else if anyOptional {
			return nil, fmt.Errorf(`rlp: struct field %v.%s needs "optional" tag`, typ, f.Name)
		}
		info := theTC.infoWhileGenerating(f.Type, ts)
		fields = append(fields, field{index: i, info: info, optional: ts.optional, tail: ts.tail})
	}
	return fields, nil
}

// firstOptionalField returns the index of the first field with "optional" tag.
func firstOptionalField(fields []field) int {
	for i, f := range fields {
		if f.optional {
			return i
		}
	}
	return len(fields)
}

type structFieldError struct {
	typ   reflect.Type
	field int
	err   error
}

func (e structFieldError) Error() string {
	return fmt.Sprintf("%v (struct field %v.%s)", e.err, e.typ, e.typ.Field(e.field).Name)
}

func (e structFieldError) Unwrap() error {
	return e.err
}

func parseStructTag(typ reflect.Type, fi, lastPublic int) (tags, error) {
	f := typ.Field(fi)
	var ts tags
	for _, t := range strings.Split(f.Tag.Get("rlp"), ",") {
		switch t = strings.TrimSpace(t); t {
		case "":
		case "-":
			ts.ignored = true
		case "optional":
			ts.optional = true
			if ts.tail {
				return ts, fmt.Errorf(`rlp: invalid struct tag "optional" for %v.%s (also has "tail" tag)`, typ, f.Name)
			}
		case "tail":
			ts.tail = true
			if fi != lastPublic {
				return ts, fmt.Errorf(`rlp: invalid struct tag "tail" for %v.%s (must be on last field)`, typ, f.Name)
			}
			if ts.optional {
				return ts, fmt.Errorf(`rlp: invalid struct tag "tail" for %v.%s (also has "optional" tag)`, typ, f.Name)
			}
			if f.Type.Kind() != reflect.Slice {
				return ts, fmt.Errorf(`rlp: invalid struct tag "tail" for %v.%s (field type is not slice)`, typ, f.Name)
			}
		default:
			return ts, fmt.Errorf("rlp: unknown struct tag %q on %v.%s", t, typ, f.Name)
		}
	}
	return ts, nil
}

func lastPublicField(typ reflect.Type) int {
	last := 0
	for i := 0; i < typ.NumField(); i++ {
		if typ.Field(i).PkgPath == "" {
			last = i
		}
	}
	return last
}

// typeNilIsString reports whether a nil pointer to typ converts to the
// empty string. Other nil pointers convert to the empty list.
func typeNilIsString(typ reflect.Type) bool {
	k := typ.Kind()
	switch {
	case isUint(k) || k == reflect.String || k == reflect.Bool:
		return true
	case isByteArray(typ):
		return true
	case typ == bigInt || typ == u256Int:
		return true
	default:
		return false
	}
}

func isUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isByte(typ reflect.Type) bool {
	return typ.Kind() == reflect.Uint8 && !typ.Implements(marshalerInterface)
}

func isByteArray(typ reflect.Type) bool {
	return (typ.Kind() == reflect.Slice || typ.Kind() == reflect.Array) && isByte(typ.Elem())
}
