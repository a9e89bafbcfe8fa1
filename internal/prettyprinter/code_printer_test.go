package prettyprinter

import "testing"

func TestEscapeString(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{`say "hi"`, `say \"hi\"`},
		{`back\slash`, `back\\slash`},
		{"a\nb\tc\r", `a\nb\tc\r`},
		{"${x}", `\${x}`},
		{"$x and $", "$x and $"},
	}
	for _, tt := range tests {
		if got := EscapeString(tt.in); got != tt.want {
			t.Errorf("EscapeString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatAttrName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"foo", "foo"},
		{"foo-bar'", "foo-bar'"},
		{"_x1", "_x1"},
		{"1x", `"1x"`},
		{"", `""`},
		{"a b", `"a b"`},
		{"a.b", `"a.b"`},
		{"if", `"if"`},
		{"or", `"or"`},
	}
	for _, tt := range tests {
		if got := FormatAttrName(tt.in); got != tt.want {
			t.Errorf("FormatAttrName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
