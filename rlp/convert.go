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
	"math/big"
	"reflect"

	"github.com/holiman/uint256"
)

// Marshaler is implemented by types that provide their own Item form.
type Marshaler interface {
	MarshalRLP() (Item, error)
}

var (
	marshalerInterface = reflect.TypeOf(new(Marshaler)).Elem()
	itemType           = reflect.TypeOf(Item{})
	rawValueType       = reflect.TypeOf(RawValue{})
	bigInt             = reflect.TypeOf(big.Int{})
	u256Int            = reflect.TypeOf(uint256.Int{})
)

// ItemOf converts a Go value to an Item. Unsigned integers, bool and *big.Int
// follow the integer convention, strings and byte arrays become byte strings,
// structs, slices and arrays become lists. See the package documentation for
// the full rules.
func ItemOf(val interface{}) (Item, error) {
	if val == nil {
		return List(), nil
	}
	rval := reflect.ValueOf(val)
	conv, err := cachedConverter(rval.Type())
	if err != nil {
		return Item{}, err
	}
	return conv(rval)
}

// EncodeToBytes returns the RLP encoding of val.
// 通过反射把Go值转换成Item后编码
func EncodeToBytes(val interface{}) ([]byte, error) {
	it, err := ItemOf(val)
	if err != nil {
		return nil, err
	}
	return Encode(it), nil
}

// makeConverter creates a converter function for the given type.
func makeConverter(typ reflect.Type, _ tags) (converter, error) {
	kind := typ.Kind()
	switch {
	case typ == itemType:
		return convertItem, nil
	case typ == rawValueType:
		return convertRawValue, nil
	case typ.AssignableTo(reflect.PtrTo(bigInt)):
		return convertBigIntPtr, nil
	case typ.AssignableTo(bigInt):
		return convertBigIntNoPtr, nil
	case typ == reflect.PtrTo(u256Int):
		return convertU256IntPtr, nil
	case typ == u256Int:
		return convertU256IntNoPtr, nil
	case kind == reflect.Ptr:
		return makePtrConverter(typ)
	case typ.Implements(marshalerInterface):
		return convertMarshaler, nil
	case reflect.PtrTo(typ).Implements(marshalerInterface):
		return makeMarshalerPtrConverter(typ), nil
	case isUint(kind):
		return convertUint, nil
	case kind == reflect.Bool:
		return convertBool, nil
	case kind == reflect.String:
		return convertString, nil
	case isByteArray(typ):
		return convertByteArray, nil
	case kind == reflect.Slice || kind == reflect.Array:
		return makeSliceConverter(typ)
	case kind == reflect.Struct:
		return makeStructConverter(typ)
	case kind == reflect.Interface:
		return convertInterface, nil
	default:
		return nil, fmt.Errorf("rlp: type %v is not RLP-serializable", typ)
	}
}

func convertItem(val reflect.Value) (Item, error) {
	return val.Interface().(Item), nil
}

func convertRawValue(val reflect.Value) (Item, error) {
	return Decode(val.Bytes())
}

func convertUint(val reflect.Value) (Item, error) {
	return Uint(val.Uint()), nil
}

func convertBool(val reflect.Value) (Item, error) {
	if val.Bool() {
		return Uint(1), nil
	}
	return Uint(0), nil
}

func convertBigIntPtr(val reflect.Value) (Item, error) {
	ptr := val.Interface().(*big.Int)
	if ptr == nil {
		return Item{}, nil
	}
	return BigInt(ptr)
}

func convertBigIntNoPtr(val reflect.Value) (Item, error) {
	i := val.Interface().(big.Int)
	return BigInt(&i)
}

func convertU256IntPtr(val reflect.Value) (Item, error) {
	return Uint256(val.Interface().(*uint256.Int)), nil
}

func convertU256IntNoPtr(val reflect.Value) (Item, error) {
	i := val.Interface().(uint256.Int)
	return Uint256(&i), nil
}

func convertString(val reflect.Value) (Item, error) {
	return Text(val.String()), nil
}

func convertByteArray(val reflect.Value) (Item, error) {
	if val.Kind() == reflect.Slice {
		return Bytes(val.Bytes()), nil
	}
	b := make([]byte, val.Len())
	reflect.Copy(reflect.ValueOf(b), val)
	return Bytes(b), nil
}

func convertInterface(val reflect.Value) (Item, error) {
	if val.IsNil() {
		// Convert empty interface to empty list.
		return List(), nil
	}
	eval := val.Elem()
	conv, err := cachedConverter(eval.Type())
	if err != nil {
		return Item{}, err
	}
	return conv(eval)
}

func makeSliceConverter(typ reflect.Type) (converter, error) {
	etypeinfo := theTC.infoWhileGenerating(typ.Elem(), tags{})
	if etypeinfo.converterErr != nil {
		return nil, etypeinfo.converterErr
	}

	// Tail slices use the same conversion, the struct converter splices
	// their elements into the enclosing list.
	conv := func(val reflect.Value) (Item, error) {
		elems, err := convertElems(val, etypeinfo.converter)
		if err != nil {
			return Item{}, err
		}
		return List(elems...), nil
	}
	return conv, nil
}

func convertElems(val reflect.Value, conv converter) ([]Item, error) {
	vlen := val.Len()
	if vlen == 0 {
		return nil, nil
	}
	elems := make([]Item, vlen)
	for i := 0; i < vlen; i++ {
		e, err := conv(val.Index(i))
		if err != nil {
			return nil, err
		}
		elems[i] = e
	}
	return elems, nil
}

func makeStructConverter(typ reflect.Type) (converter, error) {
	fields, err := structFields(typ)
	if err != nil {
		return nil, err
	}
	for _, f := range fields {
		if f.info.converterErr != nil {
			return nil, structFieldError{typ, f.index, f.info.converterErr}
		}
	}

	firstOptional := firstOptionalField(fields)
	conv := func(val reflect.Value) (Item, error) {
		// Trailing zero-valued optional fields are left out.
		// 可选字段从最后一个非零字段开始截断
		lastField := len(fields) - 1
		for ; lastField >= firstOptional; lastField-- {
			if !val.Field(fields[lastField].index).IsZero() {
				break
			}
		}
		var elems []Item
		for i := 0; i <= lastField; i++ {
			f := fields[i]
			it, err := f.info.converter(val.Field(f.index))
			if err != nil {
				return Item{}, structFieldError{typ, f.index, err}
			}
			// Tail byte slices are a single string element.
			if f.tail && it.IsList() {
				elems = append(elems, it.elems...)
				continue
			}
			elems = append(elems, it)
		}
		return List(elems...), nil
	}
	return conv, nil
}

// makePtrConverter creates a converter for pointer types. A nil pointer
// becomes the empty string or the empty list depending on the element type.
func makePtrConverter(typ reflect.Type) (converter, error) {
	etype := typ.Elem()
	etypeinfo := theTC.infoWhileGenerating(etype, tags{})
	if etypeinfo.converterErr != nil {
		return nil, etypeinfo.converterErr
	}
	nilIsString := typeNilIsString(etype)

	conv := func(val reflect.Value) (Item, error) {
		if val.IsNil() {
			if nilIsString {
				return Item{}, nil
			}
			return List(), nil
		}
		return etypeinfo.converter(val.Elem())
	}
	return conv, nil
}

func convertMarshaler(val reflect.Value) (Item, error) {
	switch val.Kind() {
	case reflect.Ptr, reflect.Interface:
		if val.IsNil() {
			return List(), nil
		}
	}
	return val.Interface().(Marshaler).MarshalRLP()
}

func makeMarshalerPtrConverter(typ reflect.Type) converter {
	return func(val reflect.Value) (Item, error) {
		if val.CanAddr() {
			return val.Addr().Interface().(Marshaler).MarshalRLP()
		}
		// Copy the value to make it addressable.
		ptr := reflect.New(typ)
		ptr.Elem().Set(val)
		return ptr.Interface().(Marshaler).MarshalRLP()
	}
}
