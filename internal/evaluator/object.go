package evaluator

type ObjectType string

const (
	STRING_OBJ     = "STRING"
	INTEGER_OBJ    = "INTEGER"
	FLOAT_OBJ      = "FLOAT"
	BOOLEAN_OBJ    = "BOOLEAN"
	NULL_OBJ       = "NULL"
	LIST_OBJ       = "LIST"
	ATTRSET_OBJ    = "ATTRSET"
	THUNK_OBJ      = "THUNK"
	FUNCTION_OBJ   = "FUNCTION"
	BUILTIN_OBJ    = "BUILTIN"
	PARTIAL_OBJ    = "PARTIAL_APPLICATION"
	PATH_OBJ       = "PATH"
	STORE_PATH_OBJ = "STORE_PATH"
	DERIVATION_OBJ = "DERIVATION"
)

// Object is a runtime value. Inspect renders it in source-like syntax.
type Object interface {
	Type() ObjectType
	Inspect() string
}

// TypeName returns the name builtins.typeOf reports for obj.
func TypeName(obj Object) string {
	switch obj.(type) {
	case *String:
		return "string"
	case *Integer:
		return "int"
	case *Float:
		return "float"
	case *Boolean:
		return "bool"
	case *Null:
		return "null"
	case *List:
		return "list"
	case *AttrSet, *Derivation:
		return "set"
	case *Function, *BuiltinRef, *PartialApplication:
		return "lambda"
	case *Path, *StorePath:
		return "path"
	case *Thunk:
		return "thunk"
	}
	return "unknown"
}
