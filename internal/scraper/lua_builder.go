// Package scraper compiles Lua scraper scripts and keeps their bytecode for reuse.
package scraper

import (
	"sync"

	"github.com/reelcast/reelcast/filesystem"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

var bytecodeCache sync.Map

// Compile returns the bytecode for the script at path, compiling it on first use.
func Compile(path string) (*lua.FunctionProto, error) {
	if cached, ok := bytecodeCache.Load(path); ok {
		return cached.(*lua.FunctionProto), nil
	}

	file, err := filesystem.API().Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	chunk, err := parse.Parse(file, path)
	if err != nil {
		return nil, err
	}

	proto, err := lua.Compile(chunk, path)
	if err != nil {
		return nil, err
	}

	bytecodeCache.Store(path, proto)
	return proto, nil
}

// PreCompileAndLoad runs the script at path inside L, reusing cached bytecode when available.
func PreCompileAndLoad(L *lua.LState, path string) error {
	proto, err := Compile(path)
	if err != nil {
		return err
	}

	L.Push(L.NewFunctionFromProto(proto))
	return L.PCall(0, lua.MultRet, nil)
}

// Forget drops the cached bytecode for path, e.g. after the script was edited or removed.
func Forget(path string) {
	bytecodeCache.Delete(path)
}
