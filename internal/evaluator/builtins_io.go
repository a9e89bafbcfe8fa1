package evaluator

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/funvibe/nixeval/internal/store"
	"github.com/funvibe/nixeval/internal/utils"
)

// IOBuiltins returns path manipulation and file system primitives.
func IOBuiltins() map[string]*BuiltinFunction {
	return map[string]*BuiltinFunction{
		"baseNameOf":   {Fname: "baseNameOf", Arity: 1, Fn: builtinBaseNameOf},
		"dirOf":        {Fname: "dirOf", Arity: 1, Fn: builtinDirOf},
		"pathExists":   {Fname: "pathExists", Arity: 1, Fn: builtinPathExists},
		"readFile":     {Fname: "readFile", Arity: 1, Fn: builtinReadFile},
		"readDir":      {Fname: "readDir", Arity: 1, Fn: builtinReadDir},
		"readFileType": {Fname: "readFileType", Arity: 1, Fn: builtinReadFileType},
		"toPath":       {Fname: "toPath", Arity: 1, Fn: builtinToPath},
		"storePath":    {Fname: "storePath", Arity: 1, Fn: builtinStorePath},
		"path":         {Fname: "path", Arity: 1, Fn: builtinPath},
	}
}

// builtinBaseNameOf always returns a string, even for a path.
func builtinBaseNameOf(e *Evaluator, args []Object) (Object, error) {
	p, err := e.forceStringOrPath(args[0], "baseNameOf")
	if err != nil {
		return nil, err
	}
	return &String{Value: utils.BaseName(p)}, nil
}

// builtinDirOf keeps the argument's type: paths give paths, strings give
// strings.
func builtinDirOf(e *Evaluator, args []Object) (Object, error) {
	v, err := e.Force(args[0])
	if err != nil {
		return nil, err
	}
	switch v := v.(type) {
	case *Path:
		return makePath(utils.DirName(v.Value)), nil
	case *StorePath:
		return makePath(utils.DirName(v.Value)), nil
	}
	s, err := e.forceStringOrPath(v, "dirOf")
	if err != nil {
		return nil, err
	}
	return &String{Value: utils.DirName(s)}, nil
}

// filePath resolves a path or string argument against the current file.
func (e *Evaluator) filePath(obj Object, what string) (string, error) {
	p, err := e.forceStringOrPath(obj, what)
	if err != nil {
		return "", err
	}
	return utils.ResolvePath(e.loader.CurrentDir(), p), nil
}

func builtinPathExists(e *Evaluator, args []Object) (Object, error) {
	p, err := e.filePath(args[0], "pathExists")
	if err != nil {
		return nil, err
	}
	_, err = os.Stat(p)
	return nativeBoolToBooleanObject(err == nil), nil
}

func builtinReadFile(e *Evaluator, args []Object) (Object, error) {
	p, err := e.filePath(args[0], "readFile")
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, ioError(p, unwrapPathError(err))
	}
	return &String{Value: string(data)}, nil
}

// builtinReadDir maps each entry name to its file type.
func builtinReadDir(e *Evaluator, args []Object) (Object, error) {
	p, err := e.filePath(args[0], "readDir")
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(p)
	if err != nil {
		return nil, ioError(p, unwrapPathError(err))
	}
	values := make(map[string]Object, len(entries))
	for _, entry := range entries {
		values[entry.Name()] = &String{Value: fileTypeName(entry.Type())}
	}
	return AttrSetFromMap(values), nil
}

func builtinReadFileType(e *Evaluator, args []Object) (Object, error) {
	p, err := e.filePath(args[0], "readFileType")
	if err != nil {
		return nil, err
	}
	info, err := os.Lstat(p)
	if err != nil {
		return nil, ioError(p, unwrapPathError(err))
	}
	return &String{Value: fileTypeName(info.Mode().Type())}, nil
}

func fileTypeName(mode fs.FileMode) string {
	switch {
	case mode.IsRegular():
		return "regular"
	case mode.IsDir():
		return "directory"
	case mode&fs.ModeSymlink != 0:
		return "symlink"
	}
	return "unknown"
}

func unwrapPathError(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}
	return err
}

func builtinToPath(e *Evaluator, args []Object) (Object, error) {
	p, err := e.forceStringOrPath(args[0], "toPath")
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(p) {
		return nil, unsupported("string '%s' doesn't represent an absolute path", p)
	}
	return makePath(filepath.Clean(p)), nil
}

// builtinPath keeps paths as they are and turns absolute strings into a
// store path or a plain path.
func builtinPath(e *Evaluator, args []Object) (Object, error) {
	v, err := e.Force(args[0])
	if err != nil {
		return nil, err
	}
	switch v.(type) {
	case *Path, *StorePath:
		return v, nil
	}
	p, err := e.forceStringOrPath(v, "path")
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(p) {
		return nil, unsupported("string '%s' doesn't represent an absolute path", p)
	}
	return makePath(filepath.Clean(p)), nil
}

func builtinStorePath(e *Evaluator, args []Object) (Object, error) {
	p, err := e.forceStringOrPath(args[0], "storePath")
	if err != nil {
		return nil, err
	}
	if err := store.ValidateStorePath(p); err != nil {
		return nil, unsupported("path '%s' is not in the Nix store: %v", p, err)
	}
	return &StorePath{Value: p}, nil
}
