package records

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a JSON value. The zero Value is null.
//
// Numbers are held as their literal JSON text so that ids and positions are written to the
// sink exactly as Trello returned them. Objects keep the key order of the source document.
type Value struct {
	kind   Kind
	b      bool
	s      string
	items  []Value
	keys   []string
	fields map[string]Value
}

// Field is a single key/value pair of an object.
type Field struct {
	Key   string
	Value Value
}

func NullValue() Value {
	return Value{}
}

func BoolValue(b bool) Value {
	return Value{kind: Bool, b: b}
}

func NumberValue(n json.Number) Value {
	return Value{kind: Number, s: string(n)}
}

func IntValue(n int64) Value {
	return Value{kind: Number, s: strconv.FormatInt(n, 10)}
}

func StringValue(s string) Value {
	return Value{kind: String, s: s}
}

func ArrayValue(items ...Value) Value {
	return Value{kind: Array, items: append([]Value{}, items...)}
}

func ObjectValue(fields ...Field) Value {
	v := Value{kind: Object, fields: map[string]Value{}}
	for _, f := range fields {
		v.set(f.Key, f.Value)
	}

	return v
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == Null
}

// IsContainer is true for arrays and objects, the only values the flattener descends into.
func (v Value) IsContainer() bool {
	return v.kind == Array || v.kind == Object
}

func (v Value) Bool() bool {
	return v.b
}

func (v Value) Number() json.Number {
	if v.kind == Number {
		return json.Number(v.s)
	}

	return ""
}

// Text returns the string held by a String value and "" for everything else.
func (v Value) Text() string {
	if v.kind == String {
		return v.s
	}

	return ""
}

// Len returns the number of elements of an array or fields of an object.
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.items)
	case Object:
		return len(v.keys)
	default:
		return 0
	}
}

func (v Value) Items() []Value {
	if v.kind != Array {
		return nil
	}

	return append([]Value{}, v.items...)
}

func (v Value) Keys() []string {
	if v.kind != Object {
		return nil
	}

	return append([]string{}, v.keys...)
}

func (v Value) Get(key string) (Value, bool) {
	if v.kind != Object {
		return Value{}, false
	}

	f, ok := v.fields[key]

	return f, ok
}

// Path follows a chain of object keys, e.g. v.Path("value", "text").
func (v Value) Path(keys ...string) (Value, bool) {
	p := v
	for _, k := range keys {
		next, ok := p.Get(k)
		if !ok {
			return Value{}, false
		}
		p = next
	}

	return p, true
}

// Without returns a copy of an object with the named field removed. Any other value is
// returned unchanged.
func (v Value) Without(key string) Value {
	if v.kind != Object {
		return v
	}

	if _, ok := v.fields[key]; !ok {
		return v
	}

	w := Value{kind: Object, fields: map[string]Value{}}
	for _, k := range v.keys {
		if k != key {
			w.set(k, v.fields[k])
		}
	}

	return w
}

// Native converts the value to the plain Go types used by encoding/json and the Sheets API:
// nil, bool, json.Number, string, []any and map[string]any.
func (v Value) Native() any {
	switch v.kind {
	case Bool:
		return v.b

	case Number:
		return json.Number(v.s)

	case String:
		return v.s

	case Array:
		list := make([]any, len(v.items))
		for i, item := range v.items {
			list[i] = item.Native()
		}
		return list

	case Object:
		m := make(map[string]any, len(v.keys))
		for _, k := range v.keys {
			m[k] = v.fields[k].Native()
		}
		return m

	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.kind {
	case Null:
		return "null"
	case Bool:
		return strconv.FormatBool(v.b)
	case Number, String:
		return v.s
	default:
		b, _ := v.MarshalJSON()
		return string(b)
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer

	if err := v.encode(&b); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}

func (v *Value) UnmarshalJSON(b []byte) error {
	w, err := Decode(b)
	if err != nil {
		return err
	}

	*v = w

	return nil
}

// each visits the children of a container in order. Array elements are keyed by their index.
func (v Value) each(f func(key string, child Value)) {
	switch v.kind {
	case Array:
		for i, item := range v.items {
			f(strconv.Itoa(i), item)
		}

	case Object:
		for _, k := range v.keys {
			f(k, v.fields[k])
		}
	}
}

// set is last-write-wins, a repeated key keeps its first position.
func (v *Value) set(key string, child Value) {
	if _, ok := v.fields[key]; !ok {
		v.keys = append(v.keys, key)
	}

	v.fields[key] = child
}

func (v Value) encode(b *bytes.Buffer) error {
	switch v.kind {
	case Null:
		b.WriteString("null")

	case Bool:
		b.WriteString(strconv.FormatBool(v.b))

	case Number:
		b.WriteString(v.s)

	case String:
		s, err := json.Marshal(v.s)
		if err != nil {
			return err
		}
		b.Write(s)

	case Array:
		b.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := item.encode(b); err != nil {
				return err
			}
		}
		b.WriteByte(']')

	case Object:
		b.WriteByte('{')
		for i, k := range v.keys {
			if i > 0 {
				b.WriteByte(',')
			}
			key, err := json.Marshal(k)
			if err != nil {
				return err
			}
			b.Write(key)
			b.WriteByte(':')
			if err := v.fields[k].encode(b); err != nil {
				return err
			}
		}
		b.WriteByte('}')

	default:
		return fmt.Errorf("invalid JSON value kind %v", v.kind)
	}

	return nil
}

// Decode parses a single JSON document.
func Decode(b []byte) (Value, error) {
	return DecodeReader(bytes.NewReader(b))
}

func DecodeReader(r io.Reader) (Value, error) {
	d := json.NewDecoder(r)
	d.UseNumber()

	v, err := decode(d)
	if err != nil {
		return Value{}, err
	}

	if _, err := d.Token(); err != io.EOF {
		return Value{}, fmt.Errorf("unexpected data after JSON value")
	}

	return v, nil
}

func decode(d *json.Decoder) (Value, error) {
	token, err := d.Token()
	if err == io.EOF {
		return Value{}, io.ErrUnexpectedEOF
	} else if err != nil {
		return Value{}, err
	}

	switch t := token.(type) {
	case nil:
		return NullValue(), nil

	case bool:
		return BoolValue(t), nil

	case json.Number:
		return NumberValue(t), nil

	case string:
		return StringValue(t), nil

	case json.Delim:
		switch t {
		case '[':
			v := Value{kind: Array, items: []Value{}}
			for d.More() {
				item, err := decode(d)
				if err != nil {
					return Value{}, err
				}
				v.items = append(v.items, item)
			}

			if _, err := d.Token(); err != nil {
				return Value{}, err
			}

			return v, nil

		case '{':
			v := Value{kind: Object, fields: map[string]Value{}}
			for d.More() {
				token, err := d.Token()
				if err != nil {
					return Value{}, err
				}

				key, ok := token.(string)
				if !ok {
					return Value{}, fmt.Errorf("invalid object key %v", token)
				}

				child, err := decode(d)
				if err != nil {
					return Value{}, err
				}

				v.set(key, child)
			}

			if _, err := d.Token(); err != nil {
				return Value{}, err
			}

			return v, nil
		}
	}

	return Value{}, fmt.Errorf("unexpected JSON token '%v'", token)
}
