package evaluator

import (
	"strconv"
	"strings"

	"github.com/funvibe/nixeval/internal/prettyprinter"
)

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return `"` + prettyprinter.EscapeString(s.Value) + `"` }

type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return strconv.FormatInt(i.Value, 10) }

type Float struct {
	Value float64
}

func (f *Float) Type() ObjectType { return FLOAT_OBJ }
func (f *Float) Inspect() string  { return formatFloat(f.Value) }

// formatFloat prints five fractional digits, then trims trailing zeros and a
// trailing dot.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', 5, 64)
	if strings.ContainsRune(s, '.') {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		return "0"
	}
	return s
}

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }

type Null struct{}

func (n *Null) Type() ObjectType { return NULL_OBJ }
func (n *Null) Inspect() string  { return "null" }

var (
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
	NULL  = &Null{}
)

func nativeBoolToBooleanObject(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

// Path is a filesystem path outside the store.
type Path struct {
	Value string
}

func (p *Path) Type() ObjectType { return PATH_OBJ }
func (p *Path) Inspect() string  { return p.Value }

// StorePath is a validated /nix/store/<hash>-<name> path.
type StorePath struct {
	Value string
}

func (p *StorePath) Type() ObjectType { return STORE_PATH_OBJ }
func (p *StorePath) Inspect() string  { return p.Value }
