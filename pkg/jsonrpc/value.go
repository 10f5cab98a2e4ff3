package jsonrpc

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind discriminates the variant a Value currently holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
)

// Value is a tagged sum mirroring a JSON value: null, bool, integer,
// double, string, ordered array, or ordered map of Value. It round-trips
// losslessly through JSON (spec §3, invariant 3) and is used anywhere a
// schema is dynamic — tool arguments, input schemas, raw decoded params.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	arr  []Value
	obj  map[string]Value
	keys []string // preserves insertion order for KindObject
}

func Null() Value                { return Value{kind: KindNull} }
func Bool(b bool) Value          { return Value{kind: KindBool, b: b} }
func Int(i int64) Value          { return Value{kind: KindInt, i: i} }
func Float(f float64) Value      { return Value{kind: KindFloat, f: f} }
func String(s string) Value      { return Value{kind: KindString, s: s} }
func Array(items []Value) Value  { return Value{kind: KindArray, arr: items} }

// Object builds a Value from an ordered key list and backing map so
// field order survives round trips.
func Object(keys []string, fields map[string]Value) Value {
	return Value{kind: KindObject, keys: keys, obj: fields}
}

// EmptyObject is the canonical `{}` Value used for unit-parameter methods.
func EmptyObject() Value {
	return Value{kind: KindObject, keys: []string{}, obj: map[string]Value{}}
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsBool() (bool, bool)       { return v.b, v.kind == KindBool }
func (v Value) AsInt() (int64, bool)       { return v.i, v.kind == KindInt }
func (v Value) AsFloat() (float64, bool) {
	if v.kind == KindFloat {
		return v.f, true
	}
	if v.kind == KindInt {
		return float64(v.i), true
	}
	return 0, false
}
func (v Value) AsString() (string, bool)       { return v.s, v.kind == KindString }
func (v Value) AsArray() ([]Value, bool)       { return v.arr, v.kind == KindArray }
func (v Value) AsObject() (map[string]Value, bool) { return v.obj, v.kind == KindObject }

// Field returns the value for key in an object Value, and whether it exists.
func (v Value) Field(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	f, ok := v.obj[key]
	return f, ok
}

// MarshalJSON encodes the Value in its natural JSON shape.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindInt:
		return json.Marshal(v.i)
	case KindFloat:
		return json.Marshal(v.f)
	case KindString:
		return json.Marshal(v.s)
	case KindArray:
		return json.Marshal(v.arr)
	case KindObject:
		buf := []byte{'{'}
		for idx, k := range v.keys {
			if idx > 0 {
				buf = append(buf, ',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			vb, err := json.Marshal(v.obj[k])
			if err != nil {
				return nil, err
			}
			buf = append(buf, kb...)
			buf = append(buf, ':')
			buf = append(buf, vb...)
		}
		buf = append(buf, '}')
		return buf, nil
	default:
		return nil, fmt.Errorf("jsonrpc: value has unknown kind %d", v.kind)
	}
}

// UnmarshalJSON decodes any JSON value into its matching Value variant,
// preserving object key order via json.Decoder's token stream.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	parsed, err := decodeToken(dec, tok)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func decodeToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return Value{}, err
		}
		return Float(f), nil
	case string:
		return String(t), nil
	case json.Delim:
		switch t {
		case '[':
			var items []Value
			for dec.More() {
				next, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				item, err := decodeToken(dec, next)
				if err != nil {
					return Value{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return Value{}, err
			}
			if items == nil {
				items = []Value{}
			}
			return Array(items), nil
		case '{':
			keys := []string{}
			fields := map[string]Value{}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("jsonrpc: object key is not a string: %v", keyTok)
				}
				valTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				val, err := decodeToken(dec, valTok)
				if err != nil {
					return Value{}, err
				}
				keys = append(keys, key)
				fields[key] = val
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return Value{}, err
			}
			return Object(keys, fields), nil
		}
	}
	return Value{}, fmt.Errorf("jsonrpc: unexpected token %v", tok)
}

// Decode re-encodes v and decodes the result into dst, the bridge between
// the dynamic Value world and a handler's concrete Parameters/Result type
// (spec §9, "handler registry without subtype polymorphism").
func (v Value) Decode(dst any) error {
	raw, err := v.MarshalJSON()
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

// ValueOf re-encodes src (a concrete Go value) into a Value.
func ValueOf(src any) (Value, error) {
	raw, err := json.Marshal(src)
	if err != nil {
		return Value{}, err
	}
	var v Value
	if err := json.Unmarshal(raw, &v); err != nil {
		return Value{}, err
	}
	return v, nil
}

