package model

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"math"
	"math/big"
	"sort"
	"strconv"
)

// Kind is the JSON type held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

var kindNames = []string{"null", "bool", "number", "string", "array", "object"}

func (k Kind) String() string {
	if k < KindNull || k > KindObject {
		return "unknown"
	}
	return kindNames[k]
}

func parseKind(s string) (Kind, bool) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), true
		}
	}
	return KindNull, false
}

// Value is any JSON-representable value. The zero Value is JSON null.
// Numbers keep the text they were decoded from, so 1 and 1.0 survive a
// round trip as written while still comparing equal.
type Value struct {
	kind    Kind
	boolean bool
	number  json.Number
	str     string
	array   []Value
	object  map[string]Value
}

func NullValue() Value {
	return Value{}
}

func BoolValue(b bool) Value {
	return Value{kind: KindBool, boolean: b}
}

func NumberValue(f float64) Value {
	return Value{kind: KindNumber, number: json.Number(strconv.FormatFloat(f, 'g', -1, 64))}
}

func IntValue(i int64) Value {
	return Value{kind: KindNumber, number: json.Number(strconv.FormatInt(i, 10))}
}

func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

func ArrayValue(items ...Value) Value {
	array := make([]Value, len(items))
	copy(array, items)
	return Value{kind: KindArray, array: array}
}

func ObjectValue(members map[string]Value) Value {
	object := make(map[string]Value, len(members))
	for key, member := range members {
		object[key] = member
	}
	return Value{kind: KindObject, object: object}
}

// ValueOf converts a Go value into a Value. It accepts what encoding/json
// produces when decoding into an interface (with or without UseNumber) plus
// the common Go scalar types.
func ValueOf(raw any) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return NullValue(), nil
	case Value:
		return v, nil
	case bool:
		return BoolValue(v), nil
	case string:
		return StringValue(v), nil
	case json.Number:
		if _, err := v.Float64(); err != nil {
			return Value{}, &DecodeError{Kind: ErrTypeMismatch, Err: fmt.Errorf("invalid number %q", v.String())}
		}
		return Value{kind: KindNumber, number: v}, nil
	case float64:
		return NumberValue(v), nil
	case float32:
		return NumberValue(float64(v)), nil
	case int:
		return IntValue(int64(v)), nil
	case int32:
		return IntValue(int64(v)), nil
	case int64:
		return IntValue(v), nil
	case uint32:
		return IntValue(int64(v)), nil
	case []Value:
		return ArrayValue(v...), nil
	case map[string]Value:
		return ObjectValue(v), nil
	case []any:
		items := make([]Value, len(v))
		for i, item := range v {
			converted, err := ValueOf(item)
			if err != nil {
				return Value{}, err
			}
			items[i] = converted
		}
		return Value{kind: KindArray, array: items}, nil
	case map[string]any:
		members := make(map[string]Value, len(v))
		for key, member := range v {
			converted, err := ValueOf(member)
			if err != nil {
				return Value{}, err
			}
			members[key] = converted
		}
		return Value{kind: KindObject, object: members}, nil
	default:
		return Value{}, &DecodeError{Kind: ErrTypeMismatch, Err: fmt.Errorf("unsupported value type %T", raw)}
	}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == KindNull
}

func (v Value) AsBool() (bool, bool) {
	return v.boolean, v.kind == KindBool
}

func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := v.number.Float64()
	return f, err == nil
}

func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

func (v Value) AsArray() ([]Value, bool) {
	return v.array, v.kind == KindArray
}

func (v Value) AsObject() (map[string]Value, bool) {
	return v.object, v.kind == KindObject
}

// Interface returns the value as the Go types encoding/json uses for
// interface{} targets, with numbers as json.Number.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.boolean
	case KindNumber:
		return v.number
	case KindString:
		return v.str
	case KindArray:
		items := make([]any, len(v.array))
		for i, item := range v.array {
			items[i] = item.Interface()
		}
		return items
	case KindObject:
		members := make(map[string]any, len(v.object))
		for key, member := range v.object {
			members[key] = member.Interface()
		}
		return members
	default:
		return nil
	}
}

func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}

	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.boolean == other.boolean
	case KindNumber:
		return numbersEqual(v.number, other.number)
	case KindString:
		return v.str == other.str
	case KindArray:
		return valuesEqual(v.array, other.array)
	case KindObject:
		if len(v.object) != len(other.object) {
			return false
		}
		for key, member := range v.object {
			otherMember, ok := other.object[key]
			if !ok || !member.Equal(otherMember) {
				return false
			}
		}
		return true
	}
	return false
}

// numbersEqual compares integers exactly and everything else as float64.
func numbersEqual(a, b json.Number) bool {
	if a == b {
		return true
	}
	if ia, ok := new(big.Int).SetString(a.String(), 10); ok {
		if ib, ok := new(big.Int).SetString(b.String(), 10); ok {
			return ia.Cmp(ib) == 0
		}
	}
	fa, errA := a.Float64()
	fb, errB := b.Float64()
	if errA != nil || errB != nil {
		return false
	}
	return fa == fb
}

func valuesEqual(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func (v Value) Hash() uint64 {
	h := newHasher()
	v.hash(h)
	return h.sum()
}

func (v Value) hash(h *hasher) {
	h.tag(byte(v.kind))

	switch v.kind {
	case KindBool:
		if v.boolean {
			h.tag(1)
		} else {
			h.tag(0)
		}
	case KindNumber:
		if f, err := v.number.Float64(); err == nil {
			h.float(f)
		} else {
			h.string(v.number.String())
		}
	case KindString:
		h.string(v.str)
	case KindArray:
		h.length(len(v.array))
		for _, item := range v.array {
			item.hash(h)
		}
	case KindObject:
		keys := sortedKeys(v.object)
		h.length(len(keys))
		for _, key := range keys {
			h.string(key)
			v.object[key].hash(h)
		}
	}
}

// String renders the value as JSON.
func (v Value) String() string {
	data, err := v.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("%v", v.Interface())
	}
	return string(data)
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindBool:
		return json.Marshal(v.boolean)
	case KindNumber:
		if f, err := v.number.Float64(); err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, fmt.Errorf("invalid number %q", v.number.String())
		}
		return json.Marshal(v.number)
	case KindString:
		return json.Marshal(v.str)
	case KindArray:
		if v.array == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.array)
	case KindObject:
		if v.object == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(v.object)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var raw any
	if err := decoder.Decode(&raw); err != nil {
		return err
	}

	parsed, err := ValueOf(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MarshalXML writes the value as the given element with a type attribute.
// Array items become <item> children and object members <member key="...">
// children.
func (v Value) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "type"}, Value: v.kind.String()})

	switch v.kind {
	case KindNull:
		return e.EncodeElement("", start)
	case KindBool:
		return e.EncodeElement(strconv.FormatBool(v.boolean), start)
	case KindNumber:
		return e.EncodeElement(v.number.String(), start)
	case KindString:
		return e.EncodeElement(v.str, start)
	}

	if err := e.EncodeToken(start); err != nil {
		return err
	}

	switch v.kind {
	case KindArray:
		for _, item := range v.array {
			if err := item.MarshalXML(e, xml.StartElement{Name: xml.Name{Local: "item"}}); err != nil {
				return err
			}
		}
	case KindObject:
		if err := encodeXMLMembers(e, v.object); err != nil {
			return err
		}
	}

	return e.EncodeToken(start.End())
}

func (v *Value) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	kind := KindString
	if typeName, ok := xmlAttr(start, "type"); ok {
		parsed, ok := parseKind(typeName)
		if !ok {
			return &DecodeError{Kind: ErrTypeMismatch, Field: start.Name.Local, Err: fmt.Errorf("unknown value type %q", typeName)}
		}
		kind = parsed
	}

	switch kind {
	case KindNull:
		*v = NullValue()
		return d.Skip()
	case KindArray:
		items := []Value{}
		err := decodeXMLChildren(d, func(child xml.StartElement) error {
			var item Value
			if err := d.DecodeElement(&item, &child); err != nil {
				return err
			}
			items = append(items, item)
			return nil
		})
		if err != nil {
			return err
		}
		*v = Value{kind: KindArray, array: items}
		return nil
	case KindObject:
		members, err := decodeXMLMembers(d)
		if err != nil {
			return err
		}
		*v = Value{kind: KindObject, object: members}
		return nil
	}

	var text string
	if err := d.DecodeElement(&text, &start); err != nil {
		return err
	}

	switch kind {
	case KindBool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return &DecodeError{Kind: ErrTypeMismatch, Field: start.Name.Local, Err: err}
		}
		*v = BoolValue(b)
	case KindNumber:
		if _, err := strconv.ParseFloat(text, 64); err != nil || !json.Valid([]byte(text)) {
			return &DecodeError{Kind: ErrTypeMismatch, Field: start.Name.Local, Err: fmt.Errorf("invalid number %q", text)}
		}
		*v = Value{kind: KindNumber, number: json.Number(text)}
	default:
		*v = StringValue(text)
	}
	return nil
}

func encodeXMLMembers(e *xml.Encoder, members map[string]Value) error {
	for _, key := range sortedKeys(members) {
		member := xml.StartElement{
			Name: xml.Name{Local: "member"},
			Attr: []xml.Attr{{Name: xml.Name{Local: "key"}, Value: key}},
		}
		if err := members[key].MarshalXML(e, member); err != nil {
			return err
		}
	}
	return nil
}

func decodeXMLMembers(d *xml.Decoder) (map[string]Value, error) {
	members := map[string]Value{}
	err := decodeXMLChildren(d, func(child xml.StartElement) error {
		key, ok := xmlAttr(child, "key")
		if !ok {
			return &DecodeError{Kind: ErrTypeMismatch, Field: child.Name.Local, Err: fmt.Errorf("object member without key")}
		}
		var member Value
		if err := d.DecodeElement(&member, &child); err != nil {
			return err
		}
		members[key] = member
		return nil
	})
	return members, err
}

// decodeXMLChildren calls fn for every child element until the end of the
// enclosing element. fn must consume the child it is given.
func decodeXMLChildren(d *xml.Decoder, fn func(child xml.StartElement) error) error {
	for {
		token, err := d.Token()
		if err != nil {
			return err
		}
		switch t := token.(type) {
		case xml.StartElement:
			if err := fn(t); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

func xmlAttr(start xml.StartElement, name string) (string, bool) {
	for _, attr := range start.Attr {
		if attr.Name.Local == name {
			return attr.Value, true
		}
	}
	return "", false
}

func sortedKeys(m map[string]Value) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
