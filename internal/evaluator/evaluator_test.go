package evaluator

import (
	"errors"
	"testing"
)

// evalDisplay evaluates src, forces it completely and renders it.
func evalDisplay(t *testing.T, e *Evaluator, src string) string {
	t.Helper()
	v, err := e.Evaluate(src)
	if err != nil {
		t.Fatalf("Evaluate(%q) error: %v", src, err)
	}
	v, err = e.DeepForce(v)
	if err != nil {
		t.Fatalf("DeepForce(%q) error: %v", src, err)
	}
	return Display(v)
}

func TestEvaluateExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2", "3"},
		{"1 + 2.5", "3.5"},
		{"7 / 2", "3.5"},
		{"6 / 3", "2"},
		{"7 // 2", "3"},
		{"2 * 3 - 1", "5"},
		{"-5", "-5"},
		{`"a" + "b"`, `"ab"`},
		{`"x${toString 1}y"`, `"x1y"`},
		{`"n: ${"a" + "b"}"`, `"n: ab"`},
		{"[ 1 2 ] ++ [ 3 ]", "[ 1 2 3 ]"},
		{"[ ]", "[ ]"},
		{"{ }", "{ }"},
		{"{ a = 1; } // { b = 2; }", "{ a = 1; b = 2; }"},
		{"{ a = 1; } // { a = 2; }", "{ a = 2; }"},
		{"let x = 1; y = x + 1; in y", "2"},
		{"rec { x = y; y = 1; }.x", "1"},
		{"rec { a = 1; b = a + 1; }", "{ a = 1; b = 2; }"},
		{"let f = x: x * 2; in f 3", "6"},
		{"let add = a: b: a + b; in add 1 2", "3"},
		{"with { a = 1; }; a", "1"},
		{"let a = 2; in with { a = 1; }; a", "1"},
		{`if 1 < 2 then "y" else "n"`, `"y"`},
		{"if null then 1 else 2", "2"},
		{"if 0 then 1 else 2", "1"},
		{`if "" then 1 else 2`, "1"},
		{"if [ ] then 1 else 2", "1"},
		{"if { } then 1 else 2", "1"},
		{"if false then 1 else 2", "2"},
		{"{ a.b = 1; a.c = 2; }", "{ a = { b = 1; c = 2; }; }"},
		{"{ a = { b = 1; }; a.c = 2; }", "{ a = { b = 1; c = 2; }; }"},
		{"{ a = { b = 1; }; }.a.b", "1"},
		{"{ a = { b = 1; }; }.a.c or 5", "5"},
		{"{ a = 1; } ? a", "true"},
		{"{ a = { b = 1; }; } ? a.c", "false"},
		{"!true", "false"},
		{"true -> false", "false"},
		{"false -> throw \"unused\"", "true"},
		{"true || throw \"unused\"", "true"},
		{"false && throw \"unused\"", "false"},
		{"1 == 1.0", "true"},
		{"[ 1 { a = 2; } ] == [ 1 { a = 2; } ]", "true"},
		{`"a" < "b"`, "true"},
		{"let inherit ({ a = 1; b = 2; }) a; in a", "1"},
		{"let x = 3; in { inherit x; }", "{ x = 3; }"},
		{`{ ${"a" + "b"} = 1; }`, "{ ab = 1; }"},
		{`{ "quoted key" = 1; }`, `{ "quoted key" = 1; }`},
		{"let x = { __functor = self: y: y + 1; }; in x 1", "2"},
		{`assert 1 == 1; "ok"`, `"ok"`},
		{"let { x = 1; body = x + 1; }", "2"},
		{"builtins.add 1 2", "3"},
		{"let add1 = builtins.add 1; in add1 2", "3"},
		{"map (x: x * 2) [ 1 2 3 ]", "[ 2 4 6 ]"},
		{"builtins.map (x: x * 2) [ 1 2 3 ]", "[ 2 4 6 ]"},
		{"let xs = [ 1 2 3 ]; in map (x: x * 2) xs", "[ 2 4 6 ]"},
		{"builtins.builtins.length [ 1 ]", "1"},
		{"builtins.tryEval (throw \"x\")", "{ success = false; value = false; }"},
		{"builtins.tryEval 1", "{ success = true; value = 1; }"},
		{"{ a = throw \"lazy\"; b = 1; }.b", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := evalDisplay(t, New(), tt.input)
			if got != tt.expected {
				t.Errorf("Evaluate(%q) = %s, want %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestEvaluateErrors(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"throw \"boom\"", ErrThrown},
		{"abort \"no\"", ErrAborted},
		{"builtins.tryEval (abort \"no\")", ErrAborted},
		{"let x = x; in x", ErrInfiniteRecursion},
		{"rec { a = b; b = a; }.a", ErrInfiniteRecursion},
		{"assert false; 1", ErrUnsupportedExpression},
		{"undefinedVariable", ErrUnsupportedExpression},
		{"{ a = 1; a = 2; }", ErrUnsupportedExpression},
		{"9223372036854775807 + 1", ErrUnsupportedExpression},
		{"99999999999999999999", ErrUnsupportedLiteral},
		{"1 / 0", ErrUnsupportedExpression},
		{"1 // 0", ErrUnsupportedExpression},
		{`1 + "a"`, ErrUnsupportedExpression},
		{"1 2", ErrUnsupportedExpression},
		{"{ }.missing", ErrUnsupportedExpression},
		{"1 +", ErrParse},
		{"", ErrNoExpression},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := New().Evaluate(tt.input)
			if err == nil {
				t.Fatalf("Evaluate(%q) succeeded, want %v", tt.input, tt.want)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Evaluate(%q) error = %v, want %v", tt.input, err, tt.want)
			}
		})
	}
}

func TestErrorLocation(t *testing.T) {
	_, err := New().Evaluate("let x = 1; in\n  x + \"a\"")
	var ee *Error
	if !errors.As(err, &ee) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if ee.Line != 2 {
		t.Errorf("error line = %d, want 2 (%v)", ee.Line, err)
	}
}

func TestErrorReasonMatching(t *testing.T) {
	_, err := New().Evaluate(`throw "boom"`)
	if !errors.Is(err, &Error{Kind: KindThrown, Reason: "boom"}) {
		t.Errorf("error %v does not match reason boom", err)
	}
	if errors.Is(err, &Error{Kind: KindThrown, Reason: "other"}) {
		t.Errorf("error %v matched a different reason", err)
	}
}

func TestFailedThunkRetries(t *testing.T) {
	e := New()
	calls := 0
	th := newNativeThunk(func(e *Evaluator) (Object, error) {
		calls++
		if calls == 1 {
			return nil, newError(KindThrown, "first")
		}
		return &Integer{Value: 7}, nil
	})
	if _, err := e.Force(th); err == nil {
		t.Fatal("first force succeeded, want error")
	}
	if th.Evaluated() {
		t.Fatal("thunk marked evaluated after failure")
	}
	v, err := e.Force(th)
	if err != nil {
		t.Fatalf("second force: %v", err)
	}
	if Display(v) != "7" {
		t.Errorf("second force = %s, want 7", Display(v))
	}
	if _, err := e.Force(th); err != nil || calls != 2 {
		t.Errorf("third force recomputed: calls = %d, err = %v", calls, err)
	}
}

func TestScopeMut(t *testing.T) {
	e := New()
	e.ScopeMut().Set("answer", &Integer{Value: 42})
	if got := evalDisplay(t, e, "answer + 1"); got != "43" {
		t.Errorf("answer + 1 = %s, want 43", got)
	}
	e.ScopeMut().Delete("answer")
	if _, err := e.Evaluate("answer"); err == nil {
		t.Error("answer still bound after Delete")
	}
}

func TestRegisterBuiltin(t *testing.T) {
	e := New()
	e.RegisterBuiltin(&pairBuiltin{})
	tests := []struct {
		input    string
		expected string
	}{
		{"pair 1 2", "[ 1 2 ]"},
		{"builtins.pair 1 2", "[ 1 2 ]"},
		{"let p = pair 1; in p 2", "[ 1 2 ]"},
	}
	for _, tt := range tests {
		if got := evalDisplay(t, e, tt.input); got != tt.expected {
			t.Errorf("Evaluate(%q) = %s, want %s", tt.input, got, tt.expected)
		}
	}
}

// pairBuiltin is an external builtin that asks for more arguments with an
// ArityError.
type pairBuiltin struct{}

func (pairBuiltin) Name() string { return "pair" }

func (pairBuiltin) Call(args []Object) (Object, error) {
	if len(args) < 2 {
		return nil, &ArityError{Builtin: "pair", Expected: 2, Got: len(args)}
	}
	return NewList(args), nil
}

func TestMaxDepth(t *testing.T) {
	const countdown = "let f = n: if n == 0 then 0 else 1 + f (n - 1); in f "
	e := New()
	e.MaxDepth = 50
	if got := evalDisplay(t, e, countdown+"40"); got != "40" {
		t.Errorf("f 40 = %s, want 40", got)
	}
	_, err := e.Evaluate(countdown + "100")
	if !errors.Is(err, ErrUnsupportedExpression) {
		t.Errorf("deep recursion error = %v, want unsupported expression", err)
	}
	if got := evalDisplay(t, e, countdown+"40"); got != "40" {
		t.Errorf("f 40 after overflow = %s, want 40", got)
	}
}

func TestDeepRecursion(t *testing.T) {
	const countdown = "let f = n: if n == 0 then 0 else 1 + f (n - 1); in f "
	tests := []string{"5000", "9000"}
	for _, n := range tests {
		if got := evalDisplay(t, New(), countdown+n); got != n {
			t.Errorf("f %s = %s, want %s", n, got, n)
		}
	}
}

func TestCurriedLambdaIsFunction(t *testing.T) {
	v, err := New().Evaluate("(x: y: x + y) 1")
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	fn, ok := v.(*Function)
	if !ok {
		t.Fatalf("(x: y: x + y) 1 = %T, want *Function", v)
	}
	if fn.Param != "y" {
		t.Errorf("remaining parameter = %q, want %q", fn.Param, "y")
	}
}

func TestListDisplayRoundTrip(t *testing.T) {
	tests := []string{
		"[ ]",
		"[ 1 2 3 ]",
		`[ 1 2.5 "a" true null ]`,
		`[ [ 1 ] [ ] "x y" ]`,
		"[ { a = 1; } 3 ]",
	}
	for _, src := range tests {
		e := New()
		first := evalDisplay(t, e, src)
		v, err := e.Evaluate(first)
		if err != nil {
			t.Fatalf("Evaluate(Display(%q)) error: %v", src, err)
		}
		list, ok := v.(*List)
		if !ok {
			t.Fatalf("Evaluate(%q) = %T, want *List", first, v)
		}
		orig, _ := e.Evaluate(src)
		if list.Len() != orig.(*List).Len() {
			t.Errorf("length after round trip of %q = %d, want %d", src, list.Len(), orig.(*List).Len())
		}
		if second := evalDisplay(t, e, first); second != first {
			t.Errorf("Display changed after round trip: %s then %s", first, second)
		}
	}
}

func TestLetBindingEvaluatedOnce(t *testing.T) {
	e := New()
	counter := &countBuiltin{}
	e.RegisterBuiltin(counter)
	if got := evalDisplay(t, e, "let x = count 1; in [ x x (x + x) ]"); got != "[ 1 1 2 ]" {
		t.Errorf("result = %s, want [ 1 1 2 ]", got)
	}
	if counter.calls != 1 {
		t.Errorf("count called %d times, want 1", counter.calls)
	}
}

// countBuiltin returns its argument and records how often it ran.
type countBuiltin struct {
	calls int
}

func (*countBuiltin) Name() string { return "count" }

func (c *countBuiltin) Call(args []Object) (Object, error) {
	c.calls++
	return args[0], nil
}
