package evaluator

import (
	"math"

	"github.com/JohnCGriffin/overflow"

	"github.com/funvibe/nixeval/internal/ast"
	"github.com/funvibe/nixeval/internal/utils"
)

func (e *Evaluator) evalPrefixExpression(node *ast.PrefixExpression, scope *Scope) (Object, error) {
	right, err := e.evalForced(node.Right, scope)
	if err != nil {
		return nil, err
	}
	switch node.Operator {
	case "!":
		b, ok := right.(*Boolean)
		if !ok {
			return nil, unsupported("operator ! not supported for %s", TypeName(right))
		}
		return nativeBoolToBooleanObject(!b.Value), nil
	case "-":
		switch right := right.(type) {
		case *Integer:
			if right.Value == math.MinInt64 {
				return nil, unsupported("integer overflow in negation")
			}
			return &Integer{Value: -right.Value}, nil
		case *Float:
			return &Float{Value: -right.Value}, nil
		}
	case "+":
		switch right.(type) {
		case *Integer, *Float:
			return right, nil
		}
	}
	return nil, unsupported("unknown operator: %s%s", node.Operator, TypeName(right))
}

func (e *Evaluator) evalInfixExpression(node *ast.InfixExpression, scope *Scope) (Object, error) {
	switch node.Operator {
	case "&&", "||", "->":
		return e.evalLogical(node, scope)
	}
	left, err := e.evalForced(node.Left, scope)
	if err != nil {
		return nil, err
	}
	right, err := e.evalForced(node.Right, scope)
	if err != nil {
		return nil, err
	}
	return e.binaryOp(node.Operator, left, right)
}

// evalLogical short-circuits && || and ->; both operands must be booleans.
func (e *Evaluator) evalLogical(node *ast.InfixExpression, scope *Scope) (Object, error) {
	l, err := e.evalBool(node.Left, scope, node.Operator)
	if err != nil {
		return nil, err
	}
	switch {
	case node.Operator == "&&" && !l:
		return FALSE, nil
	case node.Operator == "||" && l:
		return TRUE, nil
	case node.Operator == "->" && !l:
		return TRUE, nil
	}
	r, err := e.evalBool(node.Right, scope, node.Operator)
	if err != nil {
		return nil, err
	}
	return nativeBoolToBooleanObject(r), nil
}

func (e *Evaluator) evalBool(node ast.Expression, scope *Scope, op string) (bool, error) {
	v, err := e.Eval(node, scope)
	if err != nil {
		return false, err
	}
	b, err := forceAs[*Boolean](e, v, "operand of "+op, "a bool")
	if err != nil {
		return false, err
	}
	return b.Value, nil
}

// binaryOp applies a strict binary operator to forced operands.
func (e *Evaluator) binaryOp(op string, left, right Object) (Object, error) {
	switch op {
	case "==", "!=":
		eq, err := e.objectsEqual(left, right)
		if err != nil {
			return nil, err
		}
		return nativeBoolToBooleanObject(eq == (op == "==")), nil
	case "++":
		l, lok := left.(*List)
		r, rok := right.(*List)
		if !lok || !rok {
			return nil, e.operandError(op, left, right)
		}
		return l.Concat(r), nil
	case "//":
		if l, ok := left.(*AttrSet); ok {
			if r, ok := right.(*AttrSet); ok {
				return l.Update(r), nil
			}
		}
		if l, ok := left.(*Integer); ok {
			if r, ok := right.(*Integer); ok {
				return intDiv(l.Value, r.Value)
			}
		}
		return nil, e.operandError(op, left, right)
	case "+":
		return e.evalPlus(left, right)
	case "<", ">", "<=", ">=":
		return compareOp(op, left, right)
	}
	return arithmetic(op, left, right)
}

func (e *Evaluator) evalPlus(left, right Object) (Object, error) {
	switch l := left.(type) {
	case *String:
		switch r := right.(type) {
		case *String:
			return &String{Value: l.Value + r.Value}, nil
		case *Path:
			return &String{Value: l.Value + r.Value}, nil
		case *StorePath:
			return &String{Value: l.Value + r.Value}, nil
		}
	case *Path, *StorePath:
		base := left.Inspect()
		switch r := right.(type) {
		case *String:
			return makePath(utils.JoinPath(base, r.Value)), nil
		case *Path:
			return makePath(utils.JoinPath(base, r.Value)), nil
		case *StorePath:
			return makePath(utils.JoinPath(base, r.Value)), nil
		}
	case *Integer, *Float:
		return arithmetic("+", left, right)
	}
	return nil, e.operandError("+", left, right)
}

func (e *Evaluator) operandError(op string, left, right Object) error {
	return unsupported("operator %s not supported for %s and %s", op, TypeName(left), TypeName(right))
}

// arithmetic handles + - * / on numbers. Mixed operands promote to float;
// / always yields a float.
func arithmetic(op string, left, right Object) (Object, error) {
	li, lInt := left.(*Integer)
	ri, rInt := right.(*Integer)
	if lInt && rInt && op != "/" {
		var v int64
		var ok bool
		switch op {
		case "+":
			v, ok = overflow.Add64(li.Value, ri.Value)
		case "-":
			v, ok = overflow.Sub64(li.Value, ri.Value)
		case "*":
			v, ok = overflow.Mul64(li.Value, ri.Value)
		default:
			return nil, unsupported("unknown operator: int %s int", op)
		}
		if !ok {
			return nil, unsupported("integer overflow in %d %s %d", li.Value, op, ri.Value)
		}
		return &Integer{Value: v}, nil
	}

	lf, lok := toFloat(left)
	rf, rok := toFloat(right)
	if !lok || !rok {
		return nil, unsupported("operator %s not supported for %s and %s", op, TypeName(left), TypeName(right))
	}
	switch op {
	case "+":
		return &Float{Value: lf + rf}, nil
	case "-":
		return &Float{Value: lf - rf}, nil
	case "*":
		return &Float{Value: lf * rf}, nil
	case "/":
		if rf == 0 {
			return nil, unsupported("division by zero")
		}
		return &Float{Value: lf / rf}, nil
	}
	return nil, unsupported("unknown operator: %s", op)
}

func compareOp(op string, left, right Object) (Object, error) {
	c, err := compareValues(left, right)
	if err != nil {
		return nil, err
	}
	switch op {
	case "<":
		return nativeBoolToBooleanObject(c < 0), nil
	case ">":
		return nativeBoolToBooleanObject(c > 0), nil
	case "<=":
		return nativeBoolToBooleanObject(c <= 0), nil
	}
	return nativeBoolToBooleanObject(c >= 0), nil
}

// compareValues orders numbers numerically and strings or paths bytewise.
func compareValues(left, right Object) (int, error) {
	if li, ok := left.(*Integer); ok {
		if ri, ok := right.(*Integer); ok {
			return cmpOrdered(li.Value, ri.Value), nil
		}
	}
	if lf, ok := toFloat(left); ok {
		if rf, ok := toFloat(right); ok {
			return cmpOrdered(lf, rf), nil
		}
	}
	switch l := left.(type) {
	case *String:
		if r, ok := right.(*String); ok {
			return cmpOrdered(l.Value, r.Value), nil
		}
	case *Path:
		if r, ok := right.(*Path); ok {
			return cmpOrdered(l.Value, r.Value), nil
		}
	}
	return 0, unsupported("cannot compare %s with %s", TypeName(left), TypeName(right))
}

func cmpOrdered[T int64 | float64 | string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func toFloat(obj Object) (float64, bool) {
	switch obj := obj.(type) {
	case *Integer:
		return float64(obj.Value), true
	case *Float:
		return obj.Value, true
	}
	return 0, false
}

func intDiv(a, b int64) (Object, error) {
	if b == 0 {
		return nil, unsupported("division by zero")
	}
	q, ok := overflow.Div64(a, b)
	if !ok {
		return nil, unsupported("integer overflow in %d // %d", a, b)
	}
	return &Integer{Value: q}, nil
}
