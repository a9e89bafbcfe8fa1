package evaluator

import (
	"strconv"
	"strings"

	"github.com/funvibe/nixeval/internal/config"
	"github.com/funvibe/nixeval/internal/prettyprinter"
)

// Display renders obj in Nix-like syntax without forcing anything.
// Suspended thunks print as <thunk>; a set or list inside itself prints as
// «repeated».
func Display(obj Object) string {
	var b strings.Builder
	display(&b, obj, map[Object]bool{})
	return b.String()
}

func display(b *strings.Builder, obj Object, active map[Object]bool) {
	if t, ok := obj.(*Thunk); ok {
		t.mu.Lock()
		evaluated, v := t.state == thunkEvaluated, t.value
		t.mu.Unlock()
		if !evaluated {
			b.WriteString("<thunk>")
			return
		}
		obj = v
	}

	switch obj := obj.(type) {
	case *List:
		if obj.Len() == 0 {
			b.WriteString("[ ]")
			return
		}
		if active[obj] {
			b.WriteString("«repeated»")
			return
		}
		active[obj] = true
		defer delete(active, obj)
		b.WriteString("[ ")
		for _, el := range obj.Elements() {
			display(b, el, active)
			b.WriteByte(' ')
		}
		b.WriteString("]")
	case *AttrSet:
		if obj.Len() == 0 {
			b.WriteString("{ }")
			return
		}
		if active[obj] {
			b.WriteString("«repeated»")
			return
		}
		active[obj] = true
		defer delete(active, obj)
		b.WriteString("{ ")
		obj.Range(func(name string, v Object) bool {
			b.WriteString(prettyprinter.FormatAttrName(name))
			b.WriteString(" = ")
			display(b, v, active)
			b.WriteString("; ")
			return true
		})
		b.WriteString("}")
	default:
		b.WriteString(obj.Inspect())
	}
}

// coerceToString converts a value for interpolation and toString. With
// joinLists, lists become their space-separated elements as toString does;
// otherwise they are displayed.
func (e *Evaluator) coerceToString(obj Object, joinLists bool) (string, error) {
	v, err := e.Force(obj)
	if err != nil {
		return "", err
	}
	switch v := v.(type) {
	case *String:
		return v.Value, nil
	case *Integer:
		return strconv.FormatInt(v.Value, 10), nil
	case *Float:
		return formatFloat(v.Value), nil
	case *Boolean:
		return strconv.FormatBool(v.Value), nil
	case *Null:
		return "", nil
	case *Path:
		return v.Value, nil
	case *StorePath:
		return v.Value, nil
	case *Derivation:
		return v.Drv.OutPath(), nil
	case *AttrSet:
		if fn, ok := v.Get(config.ToStringAttr); ok {
			s, err := e.ApplyForced(fn, v)
			if err != nil {
				return "", err
			}
			return e.coerceToString(s, joinLists)
		}
		if out, ok := v.Get(config.OutPathAttr); ok {
			return e.coerceToString(out, joinLists)
		}
	case *List:
		if joinLists {
			parts := make([]string, 0, v.Len())
			for _, el := range v.Elements() {
				s, err := e.coerceToString(el, true)
				if err != nil {
					return "", err
				}
				parts = append(parts, s)
			}
			return strings.Join(parts, " "), nil
		}
	}
	full, err := e.DeepForce(v)
	if err != nil {
		return "", err
	}
	return Display(full), nil
}
