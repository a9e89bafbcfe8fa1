package evaluator

import (
	"github.com/funvibe/nixeval/internal/config"
	"github.com/funvibe/nixeval/internal/store"
)

// Derivation wraps a store derivation with its computed .drv path.
type Derivation struct {
	Drv     *store.Derivation
	DrvPath string
}

func (d *Derivation) Type() ObjectType { return DERIVATION_OBJ }
func (d *Derivation) Inspect() string  { return "<derivation " + d.Drv.Name + ">" }

// Attrs exposes the derivation as an attribute set: its environment, each
// output path, and the name, system, builder, drvPath, outPath and type
// attributes.
func (d *Derivation) Attrs() *AttrSet {
	values := map[string]Object{}
	for k, v := range d.Drv.Env {
		values[k] = &String{Value: v}
	}
	args := make([]Object, len(d.Drv.Args))
	for i, a := range d.Drv.Args {
		args[i] = &String{Value: a}
	}
	outputs := make([]Object, 0, len(d.Drv.Outputs))
	for _, name := range d.Drv.OutputNames() {
		outputs = append(outputs, &String{Value: name})
		values[name] = &StorePath{Value: d.Drv.Outputs[name]}
	}
	values["name"] = &String{Value: d.Drv.Name}
	values["system"] = &String{Value: d.Drv.System}
	values["builder"] = &String{Value: d.Drv.Builder}
	values["args"] = NewList(args)
	values["outputs"] = NewList(outputs)
	values["drvPath"] = &StorePath{Value: d.DrvPath}
	values[config.OutPathAttr] = &StorePath{Value: d.Drv.OutPath()}
	values["type"] = &String{Value: config.DerivationType}
	return AttrSetFromMap(values)
}
