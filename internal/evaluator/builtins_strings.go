package evaluator

import (
	"regexp"
	"strings"
)

// StringBuiltins returns string, regex and version primitives.
func StringBuiltins() map[string]*BuiltinFunction {
	return map[string]*BuiltinFunction{
		"concatStringsSep": {Fname: "concatStringsSep", Arity: 2, Fn: builtinConcatStringsSep},
		"stringLength":     {Fname: "stringLength", Arity: 1, Fn: builtinStringLength},
		"substring":        {Fname: "substring", Arity: 3, Fn: builtinSubstring},
		"replaceStrings":   {Fname: "replaceStrings", Arity: 3, Fn: builtinReplaceStrings},
		"split":            {Fname: "split", Arity: 2, Fn: builtinSplit},
		"match":            {Fname: "match", Arity: 2, Fn: builtinMatch},
		"splitVersion":     {Fname: "splitVersion", Arity: 1, Fn: builtinSplitVersion},
		"compareVersions":  {Fname: "compareVersions", Arity: 2, Fn: builtinCompareVersions},
		"parseDrvName":     {Fname: "parseDrvName", Arity: 1, Fn: builtinParseDrvName},
	}
}

func builtinConcatStringsSep(e *Evaluator, args []Object) (Object, error) {
	sep, err := e.forceString(args[0], "concatStringsSep separator")
	if err != nil {
		return nil, err
	}
	l, err := e.forceList(args[1], "concatStringsSep")
	if err != nil {
		return nil, err
	}
	parts := make([]string, 0, l.Len())
	for _, el := range l.Elements() {
		s, err := e.forceStringOrPath(el, "concatStringsSep element")
		if err != nil {
			return nil, err
		}
		parts = append(parts, s)
	}
	return &String{Value: strings.Join(parts, sep)}, nil
}

func builtinStringLength(e *Evaluator, args []Object) (Object, error) {
	s, err := e.forceStringOrPath(args[0], "stringLength")
	if err != nil {
		return nil, err
	}
	return &Integer{Value: int64(len(s))}, nil
}

// builtinSubstring takes start and length in bytes; a negative length means
// the rest of the string.
func builtinSubstring(e *Evaluator, args []Object) (Object, error) {
	start, err := e.forceInt(args[0], "substring start")
	if err != nil {
		return nil, err
	}
	length, err := e.forceInt(args[1], "substring length")
	if err != nil {
		return nil, err
	}
	s, err := e.forceStringOrPath(args[2], "substring")
	if err != nil {
		return nil, err
	}
	if start < 0 {
		return nil, unsupported("negative start position in substring")
	}
	n := int64(len(s))
	if start >= n {
		return &String{Value: ""}, nil
	}
	end := n
	if length >= 0 && start+length < n {
		end = start + length
	}
	return &String{Value: s[start:end]}, nil
}

// builtinReplaceStrings scans left to right trying each pattern in order at
// every position. An empty pattern matches between every character.
func builtinReplaceStrings(e *Evaluator, args []Object) (Object, error) {
	from, err := e.stringList(args[0], "replaceStrings from")
	if err != nil {
		return nil, err
	}
	to, err := e.stringList(args[1], "replaceStrings to")
	if err != nil {
		return nil, err
	}
	if len(from) != len(to) {
		return nil, unsupported("replaceStrings: 'from' and 'to' lists differ in length (%d and %d)", len(from), len(to))
	}
	s, err := e.forceString(args[2], "replaceStrings")
	if err != nil {
		return nil, err
	}
	return &String{Value: replaceStrings(s, from, to)}, nil
}

func replaceStrings(s string, from, to []string) string {
	var b strings.Builder
	for p := 0; p <= len(s); {
		found := false
		for i, pat := range from {
			if !strings.HasPrefix(s[p:], pat) || (pat != "" && p == len(s)) {
				continue
			}
			found = true
			b.WriteString(to[i])
			if pat == "" {
				if p < len(s) {
					b.WriteByte(s[p])
				}
				p++
			} else {
				p += len(pat)
			}
			break
		}
		if !found {
			if p < len(s) {
				b.WriteByte(s[p])
			}
			p++
		}
	}
	return b.String()
}

func (e *Evaluator) stringList(obj Object, what string) ([]string, error) {
	l, err := e.forceList(obj, what)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, l.Len())
	for _, el := range l.Elements() {
		s, err := e.forceString(el, what+" element")
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (e *Evaluator) compileRegex(pattern string) (*regexp.Regexp, error) {
	if e.regexCache != nil {
		if re, ok := e.regexCache.Get(pattern); ok {
			return re, nil
		}
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, unsupported("invalid regular expression '%s': %v", pattern, err)
	}
	if e.regexCache != nil {
		e.regexCache.Add(pattern, re)
	}
	return re, nil
}

// groupList converts submatch indexes to a list of captured strings, with
// null for groups that did not participate.
func groupList(s string, loc []int) *List {
	groups := make([]Object, 0, len(loc)/2-1)
	for i := 2; i < len(loc); i += 2 {
		if loc[i] < 0 {
			groups = append(groups, NULL)
			continue
		}
		groups = append(groups, &String{Value: s[loc[i]:loc[i+1]]})
	}
	return NewList(groups)
}

// builtinSplit returns the text between matches interleaved with a list of
// each match's capture groups.
func builtinSplit(e *Evaluator, args []Object) (Object, error) {
	pattern, err := e.forceString(args[0], "split regex")
	if err != nil {
		return nil, err
	}
	s, err := e.forceString(args[1], "split")
	if err != nil {
		return nil, err
	}
	re, err := e.compileRegex(pattern)
	if err != nil {
		return nil, err
	}
	var out []Object
	last := 0
	for _, loc := range re.FindAllStringSubmatchIndex(s, -1) {
		out = append(out, &String{Value: s[last:loc[0]]}, groupList(s, loc))
		last = loc[1]
	}
	out = append(out, &String{Value: s[last:]})
	return NewList(out), nil
}

// builtinMatch matches the whole string and returns the capture groups, or
// null when it does not match.
func builtinMatch(e *Evaluator, args []Object) (Object, error) {
	pattern, err := e.forceString(args[0], "match regex")
	if err != nil {
		return nil, err
	}
	s, err := e.forceString(args[1], "match")
	if err != nil {
		return nil, err
	}
	re, err := e.compileRegex("^(?:" + pattern + ")$")
	if err != nil {
		return nil, err
	}
	loc := re.FindStringSubmatchIndex(s)
	if loc == nil {
		return NULL, nil
	}
	return groupList(s, loc), nil
}

func builtinSplitVersion(e *Evaluator, args []Object) (Object, error) {
	v, err := e.forceString(args[0], "splitVersion")
	if err != nil {
		return nil, err
	}
	var parts []Object
	for rest := v; ; {
		var c string
		c, rest = nextVersionComponent(rest)
		if c == "" {
			break
		}
		parts = append(parts, &String{Value: c})
	}
	return NewList(parts), nil
}

func builtinCompareVersions(e *Evaluator, args []Object) (Object, error) {
	a, err := e.forceString(args[0], "compareVersions")
	if err != nil {
		return nil, err
	}
	b, err := e.forceString(args[1], "compareVersions")
	if err != nil {
		return nil, err
	}
	return &Integer{Value: int64(compareVersions(a, b))}, nil
}

// builtinParseDrvName splits at the first dash followed by a non-letter.
func builtinParseDrvName(e *Evaluator, args []Object) (Object, error) {
	s, err := e.forceString(args[0], "parseDrvName")
	if err != nil {
		return nil, err
	}
	name, version := parseDrvName(s)
	return AttrSetFromMap(map[string]Object{
		"name":    &String{Value: name},
		"version": &String{Value: version},
	}), nil
}

func parseDrvName(s string) (name, version string) {
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '-' && !isASCIILetter(s[i+1]) {
			return s[:i], s[i+1:]
		}
	}
	return s, ""
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// nextVersionComponent skips separators and returns a run of digits or a
// run of other characters, plus the remaining input.
func nextVersionComponent(s string) (string, string) {
	for len(s) > 0 && (s[0] == '.' || s[0] == '-') {
		s = s[1:]
	}
	if s == "" {
		return "", ""
	}
	i := 0
	if isDigit(s[0]) {
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	} else {
		for i < len(s) && !isDigit(s[i]) && s[i] != '.' && s[i] != '-' {
			i++
		}
	}
	return s[:i], s[i:]
}

func compareVersions(a, b string) int {
	for a != "" || b != "" {
		var c1, c2 string
		c1, a = nextVersionComponent(a)
		c2, b = nextVersionComponent(b)
		if componentLess(c1, c2) {
			return -1
		}
		if componentLess(c2, c1) {
			return 1
		}
	}
	return 0
}

// componentLess orders version components: numbers numerically, "pre"
// before everything, and letters before numbers.
func componentLess(c1, c2 string) bool {
	n1, ok1 := versionNumber(c1)
	n2, ok2 := versionNumber(c2)
	switch {
	case ok1 && ok2:
		return n1 < n2
	case c1 == "" && ok2:
		return true
	case c1 == "pre" && c2 != "pre":
		return true
	case c2 == "pre":
		return false
	case ok2:
		return true
	case ok1:
		return false
	}
	return c1 < c2
}

func versionNumber(c string) (int64, bool) {
	if c == "" {
		return 0, false
	}
	var n int64
	for i := 0; i < len(c); i++ {
		if !isDigit(c[i]) {
			return 0, false
		}
		n = n*10 + int64(c[i]-'0')
	}
	return n, true
}
