package evaluator

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// Tags used by the tagged JSON encoding.
const (
	tagString    = "string"
	tagInteger   = "integer"
	tagFloat     = "float"
	tagBoolean   = "boolean"
	tagNull      = "null"
	tagAttrSet   = "attrset"
	tagList      = "list"
	tagPath      = "path"
	tagStorePath = "store_path"
)

type taggedValue struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

// MarshalTagged encodes a fully evaluated value as {"type": tag, "value": v}.
// Suspended thunks, functions and derivations cannot be encoded.
func MarshalTagged(obj Object) ([]byte, error) {
	tv, err := toTagged(obj)
	if err != nil {
		return nil, err
	}
	return json.Marshal(tv)
}

func toTagged(obj Object) (*taggedValue, error) {
	if t, ok := obj.(*Thunk); ok {
		if !t.Evaluated() {
			return nil, fmt.Errorf("cannot encode an unevaluated thunk")
		}
		obj = t.value
	}

	var tag string
	var payload interface{}
	switch v := obj.(type) {
	case *String:
		tag, payload = tagString, v.Value
	case *Integer:
		tag, payload = tagInteger, v.Value
	case *Float:
		tag, payload = tagFloat, v.Value
	case *Boolean:
		tag, payload = tagBoolean, v.Value
	case *Null:
		return &taggedValue{Type: tagNull}, nil
	case *Path:
		tag, payload = tagPath, v.Value
	case *StorePath:
		tag, payload = tagStorePath, v.Value
	case *List:
		items := make([]*taggedValue, 0, v.Len())
		for _, el := range v.Elements() {
			item, err := toTagged(el)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		tag, payload = tagList, items
	case *AttrSet:
		fields := make(map[string]*taggedValue, v.Len())
		var err error
		v.Range(func(name string, el Object) bool {
			fields[name], err = toTagged(el)
			return err == nil
		})
		if err != nil {
			return nil, err
		}
		tag, payload = tagAttrSet, fields
	default:
		return nil, fmt.Errorf("cannot encode a %s", TypeName(obj))
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &taggedValue{Type: tag, Value: raw}, nil
}

// UnmarshalTagged decodes the output of MarshalTagged.
func UnmarshalTagged(data []byte) (Object, error) {
	var tv taggedValue
	if err := json.Unmarshal(data, &tv); err != nil {
		return nil, err
	}
	return fromTagged(&tv)
}

func fromTagged(tv *taggedValue) (Object, error) {
	switch tv.Type {
	case tagNull:
		return NULL, nil
	case tagString, tagPath, tagStorePath:
		var s string
		if err := decodePayload(tv, &s); err != nil {
			return nil, err
		}
		switch tv.Type {
		case tagPath:
			return &Path{Value: s}, nil
		case tagStorePath:
			return &StorePath{Value: s}, nil
		}
		return &String{Value: s}, nil
	case tagInteger:
		var i int64
		if err := decodePayload(tv, &i); err != nil {
			return nil, err
		}
		return &Integer{Value: i}, nil
	case tagFloat:
		var f float64
		if err := decodePayload(tv, &f); err != nil {
			return nil, err
		}
		return &Float{Value: f}, nil
	case tagBoolean:
		var b bool
		if err := decodePayload(tv, &b); err != nil {
			return nil, err
		}
		return nativeBoolToBooleanObject(b), nil
	case tagList:
		var items []*taggedValue
		if err := decodePayload(tv, &items); err != nil {
			return nil, err
		}
		elems := make([]Object, len(items))
		for i, item := range items {
			v, err := fromTagged(item)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return NewList(elems), nil
	case tagAttrSet:
		var fields map[string]*taggedValue
		if err := decodePayload(tv, &fields); err != nil {
			return nil, err
		}
		values := make(map[string]Object, len(fields))
		for k, item := range fields {
			v, err := fromTagged(item)
			if err != nil {
				return nil, err
			}
			values[k] = v
		}
		return AttrSetFromMap(values), nil
	}
	return nil, fmt.Errorf("unknown value type %q", tv.Type)
}

func decodePayload(tv *taggedValue, dst interface{}) error {
	if len(tv.Value) == 0 {
		return fmt.Errorf("%s value has no payload", tv.Type)
	}
	dec := json.NewDecoder(bytes.NewReader(tv.Value))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decoding %s value: %w", tv.Type, err)
	}
	return nil
}
