package evaluator

import "github.com/funvibe/nixeval/internal/config"

// objectsEqual compares two values structurally, forcing as deep as needed.
// Integers and floats compare numerically; functions are equal only to
// themselves.
func (e *Evaluator) objectsEqual(a, b Object) (bool, error) {
	a, err := e.Force(a)
	if err != nil {
		return false, err
	}
	b, err = e.Force(b)
	if err != nil {
		return false, err
	}
	if a == b {
		return true, nil
	}

	switch aVal := a.(type) {
	case *Integer:
		switch bVal := b.(type) {
		case *Integer:
			return aVal.Value == bVal.Value, nil
		case *Float:
			return float64(aVal.Value) == bVal.Value, nil
		}
	case *Float:
		switch bVal := b.(type) {
		case *Float:
			return aVal.Value == bVal.Value, nil
		case *Integer:
			return aVal.Value == float64(bVal.Value), nil
		}
	case *String:
		if bVal, ok := b.(*String); ok {
			return aVal.Value == bVal.Value, nil
		}
	case *Boolean:
		if bVal, ok := b.(*Boolean); ok {
			return aVal.Value == bVal.Value, nil
		}
	case *Null:
		_, ok := b.(*Null)
		return ok, nil
	case *Path:
		if bVal, ok := b.(*Path); ok {
			return aVal.Value == bVal.Value, nil
		}
	case *StorePath:
		if bVal, ok := b.(*StorePath); ok {
			return aVal.Value == bVal.Value, nil
		}
	case *List:
		bVal, ok := b.(*List)
		if !ok || aVal.Len() != bVal.Len() {
			return false, nil
		}
		for i := 0; i < aVal.Len(); i++ {
			eq, err := e.objectsEqual(aVal.At(i), bVal.At(i))
			if err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	case *AttrSet:
		switch bVal := b.(type) {
		case *AttrSet:
			return e.attrsEqual(aVal, bVal)
		case *Derivation:
			return e.attrsEqual(aVal, bVal.Attrs())
		}
	case *Derivation:
		switch bVal := b.(type) {
		case *Derivation:
			return aVal.DrvPath == bVal.DrvPath, nil
		case *AttrSet:
			return e.attrsEqual(aVal.Attrs(), bVal)
		}
	case *BuiltinRef:
		if bVal, ok := b.(*BuiltinRef); ok {
			return aVal.Builtin == bVal.Builtin, nil
		}
	}
	return false, nil
}

func (e *Evaluator) attrsEqual(a, b *AttrSet) (bool, error) {
	// Derivation-like sets compare by output path.
	aDrv, err := e.isDerivationSet(a)
	if err != nil {
		return false, err
	}
	bDrv, err := e.isDerivationSet(b)
	if err != nil {
		return false, err
	}
	if aDrv && bDrv {
		ao, _ := a.Get(config.OutPathAttr)
		bo, _ := b.Get(config.OutPathAttr)
		return e.objectsEqual(ao, bo)
	}

	if a.Len() != b.Len() {
		return false, nil
	}
	for _, k := range a.Keys() {
		bv, ok := b.Get(k)
		if !ok {
			return false, nil
		}
		av, _ := a.Get(k)
		eq, err := e.objectsEqual(av, bv)
		if err != nil || !eq {
			return false, err
		}
	}
	return true, nil
}

// isDerivationSet reports whether set has type = "derivation" and an outPath.
func (e *Evaluator) isDerivationSet(set *AttrSet) (bool, error) {
	t, ok := set.Get("type")
	if !ok || !set.Has(config.OutPathAttr) {
		return false, nil
	}
	t, err := e.Force(t)
	if err != nil {
		return false, err
	}
	s, ok := t.(*String)
	return ok && s.Value == config.DerivationType, nil
}
