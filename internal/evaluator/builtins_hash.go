package evaluator

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// HashBuiltins returns hashString and hasContext.
func HashBuiltins() map[string]*BuiltinFunction {
	return map[string]*BuiltinFunction{
		"hashString": {Fname: "hashString", Arity: 2, Fn: builtinHashString},
		"hasContext": {Fname: "hasContext", Arity: 1, Fn: builtinHasContext},
	}
}

var hashFuncs = map[string]func([]byte) []byte{
	"md5":    func(b []byte) []byte { s := md5.Sum(b); return s[:] },
	"sha1":   func(b []byte) []byte { s := sha1.Sum(b); return s[:] },
	"sha256": func(b []byte) []byte { s := sha256.Sum256(b); return s[:] },
	"sha512": func(b []byte) []byte { s := sha512.Sum512(b); return s[:] },
	"blake3": func(b []byte) []byte { s := blake3.Sum256(b); return s[:] },
}

func builtinHashString(e *Evaluator, args []Object) (Object, error) {
	algo, err := e.forceString(args[0], "hashString type")
	if err != nil {
		return nil, err
	}
	s, err := e.forceString(args[1], "hashString")
	if err != nil {
		return nil, err
	}
	fn, ok := hashFuncs[algo]
	if !ok {
		return nil, unsupported("unknown hash algorithm '%s'", algo)
	}
	return &String{Value: hex.EncodeToString(fn([]byte(s)))}, nil
}

// builtinHasContext is always false: strings carry no store context.
func builtinHasContext(e *Evaluator, args []Object) (Object, error) {
	if _, err := e.forceString(args[0], "hasContext"); err != nil {
		return nil, err
	}
	return FALSE, nil
}
