package evaluator

import "testing"

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{1.5, "1.5"},
		{2, "2"},
		{0.1 + 0.2, "0.3"},
		{1.0 / 3, "0.33333"},
		{-0.000001, "0"},
		{-2.25, "-2.25"},
		{1e6, "1000000"},
	}
	for _, tt := range tests {
		if got := formatFloat(tt.input); got != tt.expected {
			t.Errorf("formatFloat(%v) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"a\nb"`, `"a\nb"`},
		{`"$" + "{x}"`, `"\${x}"`},
		{"{ a = 1; }", "{ a = <thunk>; }"},
		{"[ ]", "[ ]"},
		{"x: x + 1", "<function x: x + 1>"},
		{"builtins.head", "<builtin head>"},
		{`derivation { name = "hello"; builder = "/bin/sh"; }`, "<derivation hello>"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := New().Evaluate(tt.input)
			if err != nil {
				t.Fatal(err)
			}
			if got := Display(v); got != tt.expected {
				t.Errorf("Display(%s) = %s, want %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDisplayRepeated(t *testing.T) {
	e := New()
	v, err := e.Evaluate("rec { self = { inner = self; }; }")
	if err != nil {
		t.Fatal(err)
	}
	v, err = e.DeepForce(v)
	if err != nil {
		t.Fatal(err)
	}
	if got := Display(v); got == "" {
		t.Error("Display of a self-referencing set is empty")
	}
}

func TestInterpolation(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"${toString true}"`, `"true"`},
		{`"${toString null}|"`, `"|"`},
		{`"v${toString 1.5}"`, `"v1.5"`},
		{`"${/tmp}"`, `"/tmp"`},
		{`"${{ a = 1; }}"`, `"{ a = 1; }"`},
		{`"${{ outPath = "/o"; }}"`, `"/o"`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := evalDisplay(t, New(), tt.input); got != tt.expected {
				t.Errorf("Evaluate(%s) = %s, want %s", tt.input, got, tt.expected)
			}
		})
	}
}
