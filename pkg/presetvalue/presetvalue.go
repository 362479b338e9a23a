// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package presetvalue holds the dynamic values found in a presets document.
// Preset fields are open-ended (vendor maps, cache variable objects, mixed
// scalar types), so they are kept as a tagged variant instead of a fixed
// struct. Object keys keep their declaration order.
package presetvalue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"slices"

	"github.com/goccy/go-yaml"
)

type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindObject:
		return "object"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is one JSON value. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	num  json.Number
	str  string
	list []Value
	obj  *Object
}

var ErrTrailingData = errors.New("unexpected data after top-level value")

func Null() Value {
	return Value{}
}

func NewBool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

func NewNumber(n json.Number) Value {
	return Value{kind: KindNumber, num: n}
}

func NewString(s string) Value {
	return Value{kind: KindString, str: s}
}

func NewList(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindList, list: items}
}

func NewObjectValue(o *Object) Value {
	if o == nil {
		o = NewObject()
	}
	return Value{kind: KindObject, obj: o}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == KindNull
}

func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

func (v Value) AsNumber() (json.Number, bool) {
	return v.num, v.kind == KindNumber
}

func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsList returns the list items. The slice is shared with v.
func (v Value) AsList() ([]Value, bool) {
	return v.list, v.kind == KindList
}

// AsObject returns the object. The object is shared with v.
func (v Value) AsObject() (*Object, bool) {
	return v.obj, v.kind == KindObject
}

// Clone returns a deep copy.
func (v Value) Clone() Value {
	switch v.kind {
	case KindList:
		items := make([]Value, len(v.list))
		for i, item := range v.list {
			items[i] = item.Clone()
		}
		return NewList(items...)
	case KindObject:
		return NewObjectValue(v.obj.Clone())
	}
	return v
}

// String renders scalars plainly and containers as compact JSON.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindNumber:
		return v.num.String()
	case KindString:
		return v.str
	}
	b, err := v.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<%s>", v.kind)
	}
	return string(b)
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindNumber:
		return json.Marshal(v.num)
	case KindString:
		return json.Marshal(v.str)
	case KindList:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case KindObject:
		return v.obj.MarshalJSON()
	}
	return nil, fmt.Errorf("cannot marshal value of kind %s", v.kind)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (v Value) MarshalYAML() (interface{}, error) {
	return v.yamlValue(), nil
}

func (v Value) yamlValue() interface{} {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		if i, err := v.num.Int64(); err == nil {
			return i
		}
		if f, err := v.num.Float64(); err == nil {
			return f
		}
		return v.num.String()
	case KindString:
		return v.str
	case KindList:
		items := make([]interface{}, len(v.list))
		for i, item := range v.list {
			items[i] = item.yamlValue()
		}
		return items
	case KindObject:
		return v.obj.yamlValue()
	}
	return nil
}

// Object is a JSON object that remembers key order.
type Object struct {
	keys   []string
	fields map[string]Value
}

func NewObject() *Object {
	return &Object{fields: map[string]Value{}}
}

func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the keys in declaration order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return slices.Clone(o.keys)
}

func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}
	v, ok := o.fields[key]
	return v, ok
}

func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Set replaces the value of an existing key in place or appends a new key.
func (o *Object) Set(key string, v Value) {
	if _, ok := o.fields[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.fields[key] = v
}

func (o *Object) Delete(key string) {
	if _, ok := o.fields[key]; !ok {
		return
	}
	delete(o.fields, key)
	o.keys = slices.DeleteFunc(o.keys, func(k string) bool { return k == key })
}

// All iterates the fields in declaration order.
func (o *Object) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if o == nil {
			return
		}
		for _, k := range o.keys {
			if !yield(k, o.fields[k]) {
				return
			}
		}
	}
}

// Clone returns a deep copy.
func (o *Object) Clone() *Object {
	c := &Object{
		keys:   make([]string, 0, o.Len()),
		fields: make(map[string]Value, o.Len()),
	}
	for k, v := range o.All() {
		c.Set(k, v.Clone())
	}
	return c
}

func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	i := 0
	for k, v := range o.All() {
		if i > 0 {
			buf.WriteByte(',')
		}
		i++
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := v.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (o *Object) UnmarshalJSON(data []byte) error {
	v, err := Parse(data)
	if err != nil {
		return err
	}
	obj, ok := v.AsObject()
	if !ok {
		return fmt.Errorf("expected a JSON object, got %s", v.Kind())
	}
	*o = *obj
	return nil
}

func (o *Object) MarshalYAML() (interface{}, error) {
	return o.yamlValue(), nil
}

func (o *Object) yamlValue() yaml.MapSlice {
	out := make(yaml.MapSlice, 0, o.Len())
	for k, v := range o.All() {
		out = append(out, yaml.MapItem{Key: k, Value: v.yamlValue()})
	}
	return out
}

// Parse decodes a single JSON value, keeping object key order and number
// literals as written.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decode(dec)
	if err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, ErrTrailingData
	}
	return v, nil
}

func decode(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeList(dec)
		}
		return Value{}, fmt.Errorf("unexpected delimiter %q at offset %d", t, dec.InputOffset())
	case string:
		return NewString(t), nil
	case bool:
		return NewBool(t), nil
	case json.Number:
		return NewNumber(t), nil
	case nil:
		return Null(), nil
	}
	return Value{}, fmt.Errorf("unexpected token %v at offset %d", tok, dec.InputOffset())
}

func decodeObject(dec *json.Decoder) (Value, error) {
	obj := NewObject()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, ok := tok.(string)
		if !ok {
			return Value{}, fmt.Errorf("expected object key at offset %d", dec.InputOffset())
		}
		v, err := decode(dec)
		if err != nil {
			return Value{}, fmt.Errorf("field %q: %w", key, err)
		}
		obj.Set(key, v)
	}
	// closing brace
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return NewObjectValue(obj), nil
}

func decodeList(dec *json.Decoder) (Value, error) {
	items := []Value{}
	for dec.More() {
		v, err := decode(dec)
		if err != nil {
			return Value{}, fmt.Errorf("index %d: %w", len(items), err)
		}
		items = append(items, v)
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return NewList(items...), nil
}
