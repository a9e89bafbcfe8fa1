package evaluator

import (
	"strings"

	"github.com/funvibe/nixeval/internal/config"
	"github.com/funvibe/nixeval/internal/store"
)

// DerivationBuiltins returns the derivation primitive.
func DerivationBuiltins() map[string]*BuiltinFunction {
	return map[string]*BuiltinFunction{
		"derivation": {Fname: "derivation", Arity: 1, Fn: builtinDerivation},
	}
}

func builtinDerivation(e *Evaluator, args []Object) (Object, error) {
	attrs, err := e.forceAttrs(args[0], "derivation")
	if err != nil {
		return nil, err
	}
	name, err := requiredAttr(e, attrs, "name")
	if err != nil {
		return nil, err
	}
	if name == "" || strings.ContainsRune(name, '/') {
		return nil, unsupported("derivation: invalid name '%s'", name)
	}
	system := e.System
	if v, ok := attrs.Get("system"); ok {
		if system, err = e.forceString(v, "derivation system"); err != nil {
			return nil, err
		}
	}

	drv := store.NewDerivation(name, system, "")
	builder, err := requiredAttr(e, attrs, "builder")
	if err != nil {
		return nil, err
	}
	drv.Builder = builder

	if v, ok := attrs.Get("args"); ok {
		l, err := e.forceList(v, "derivation args")
		if err != nil {
			return nil, err
		}
		for _, el := range l.Elements() {
			s, err := e.envString(drv, el)
			if err != nil {
				return nil, err
			}
			drv.Args = append(drv.Args, s)
		}
	}

	outputs := []string{config.DefaultOutput}
	if v, ok := attrs.Get("outputs"); ok {
		if outputs, err = e.stringList(v, "derivation outputs"); err != nil {
			return nil, err
		}
		if len(outputs) == 0 {
			return nil, unsupported("derivation '%s' has no outputs", name)
		}
	}
	for _, out := range outputs {
		if _, dup := drv.Outputs[out]; dup {
			return nil, unsupported("derivation '%s' has duplicate output '%s'", name, out)
		}
		drv.Outputs[out] = ""
	}

	for _, k := range attrs.Keys() {
		if k == "args" {
			continue
		}
		v, _ := attrs.Get(k)
		s, err := e.envString(drv, v)
		if err != nil {
			return nil, err
		}
		drv.Env[k] = s
	}
	drv.Env["builder"] = builder
	drv.Env["system"] = system

	drv.ComputeOutputs()
	d := &Derivation{Drv: drv, DrvPath: drv.StorePath()}
	if e.WriteStore {
		if _, err := drv.WriteToStore(e.StoreRoot); err != nil {
			return nil, ioError(d.DrvPath, err)
		}
		e.Logger.Info().Str("drv", d.DrvPath).Str("root", e.StoreRoot).Msg("wrote derivation")
	}
	return d, nil
}

func requiredAttr(e *Evaluator, attrs *AttrSet, name string) (string, error) {
	v, ok := attrs.Get(name)
	if !ok {
		return "", unsupported("derivation: required attribute '%s' missing", name)
	}
	return e.forceStringOrPath(v, "derivation "+name)
}

// envString renders an attribute for the derivation environment, recording
// referenced derivations and store paths as inputs.
func (e *Evaluator) envString(drv *store.Derivation, obj Object) (string, error) {
	v, err := e.Force(obj)
	if err != nil {
		return "", err
	}
	switch v := v.(type) {
	case *Derivation:
		addInputDrv(drv, v.DrvPath, config.DefaultOutput)
		return v.Drv.OutPath(), nil
	case *StorePath:
		addInputSrc(drv, v.Value)
		return v.Value, nil
	case *List:
		parts := make([]string, 0, v.Len())
		for _, el := range v.Elements() {
			s, err := e.envString(drv, el)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, " "), nil
	case *AttrSet:
		if !v.Has(config.ToStringAttr) {
			if out, ok := v.Get(config.OutPathAttr); ok {
				return e.envString(drv, out)
			}
		}
	case *Function, *BuiltinRef, *PartialApplication:
		return "", unsupported("cannot coerce a function to a string")
	}
	return e.coerceToString(v, true)
}

func addInputDrv(drv *store.Derivation, path, output string) {
	for _, o := range drv.InputDrvs[path] {
		if o == output {
			return
		}
	}
	drv.InputDrvs[path] = append(drv.InputDrvs[path], output)
}

func addInputSrc(drv *store.Derivation, path string) {
	for _, p := range drv.InputSrcs {
		if p == path {
			return
		}
	}
	drv.InputSrcs = append(drv.InputSrcs, path)
}
