package evaluator

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/funvibe/nixeval/internal/config"
)

// JSONBuiltins returns toJSON and fromJSON.
func JSONBuiltins() map[string]*BuiltinFunction {
	return map[string]*BuiltinFunction{
		"toJSON":   {Fname: "toJSON", Arity: 1, Fn: builtinToJSON},
		"fromJSON": {Fname: "fromJSON", Arity: 1, Fn: builtinFromJSON},
	}
}

func builtinToJSON(e *Evaluator, args []Object) (Object, error) {
	s, err := e.ToJSON(args[0])
	if err != nil {
		return nil, err
	}
	return &String{Value: s}, nil
}

// ToJSON forces obj completely and renders it the way builtins.toJSON does.
func (e *Evaluator) ToJSON(obj Object) (string, error) {
	v, err := e.toJSONValue(obj)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", unsupported("cannot encode JSON: %v", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// toJSONValue converts a value into plain Go data. Sets with __toString or
// outPath serialize as strings; derivations as their output path.
func (e *Evaluator) toJSONValue(obj Object) (interface{}, error) {
	v, err := e.Force(obj)
	if err != nil {
		return nil, err
	}
	switch v := v.(type) {
	case *String:
		return v.Value, nil
	case *Integer:
		return v.Value, nil
	case *Float:
		return v.Value, nil
	case *Boolean:
		return v.Value, nil
	case *Null:
		return nil, nil
	case *Path:
		return v.Value, nil
	case *StorePath:
		return v.Value, nil
	case *Derivation:
		return v.Drv.OutPath(), nil
	case *List:
		out := make([]interface{}, 0, v.Len())
		for _, el := range v.Elements() {
			j, err := e.toJSONValue(el)
			if err != nil {
				return nil, err
			}
			out = append(out, j)
		}
		return out, nil
	case *AttrSet:
		if v.Has(config.ToStringAttr) {
			return e.coerceToString(v, false)
		}
		if out, ok := v.Get(config.OutPathAttr); ok {
			return e.toJSONValue(out)
		}
		out := make(map[string]interface{}, v.Len())
		for _, k := range v.Keys() {
			el, _ := v.Get(k)
			j, err := e.toJSONValue(el)
			if err != nil {
				return nil, err
			}
			out[k] = j
		}
		return out, nil
	}
	return nil, unsupported("cannot convert %s to JSON", TypeName(v))
}

func builtinFromJSON(e *Evaluator, args []Object) (Object, error) {
	s, err := e.forceString(args[0], "fromJSON")
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, unsupported("cannot parse JSON: %v", err)
	}
	if dec.More() {
		return nil, unsupported("cannot parse JSON: trailing data")
	}
	return fromJSONValue(raw)
}

func fromJSONValue(raw interface{}) (Object, error) {
	switch v := raw.(type) {
	case nil:
		return NULL, nil
	case bool:
		return nativeBoolToBooleanObject(v), nil
	case string:
		return &String{Value: v}, nil
	case json.Number:
		return jsonNumber(string(v))
	case []interface{}:
		elems := make([]Object, len(v))
		for i, el := range v {
			obj, err := fromJSONValue(el)
			if err != nil {
				return nil, err
			}
			elems[i] = obj
		}
		return NewList(elems), nil
	case map[string]interface{}:
		values := make(map[string]Object, len(v))
		for k, el := range v {
			obj, err := fromJSONValue(el)
			if err != nil {
				return nil, err
			}
			values[k] = obj
		}
		return AttrSetFromMap(values), nil
	}
	return nil, unsupported("unexpected JSON value %T", raw)
}

// jsonNumber keeps integral numbers as integers and everything else, or
// anything too large for an int64, as a float.
func jsonNumber(n string) (Object, error) {
	if !strings.ContainsAny(n, ".eE") {
		if i, err := strconv.ParseInt(n, 10, 64); err == nil {
			return &Integer{Value: i}, nil
		}
	}
	f, err := strconv.ParseFloat(n, 64)
	if err != nil {
		return nil, unsupported("invalid JSON number %s", n)
	}
	return &Float{Value: f}, nil
}
