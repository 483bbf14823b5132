// Package custom runs local Lua scripts as stream providers.
package custom

import (
	"fmt"

	libs "github.com/metafates/mangal-lua-libs"
	"github.com/reelcast/reelcast/constant"
	"github.com/reelcast/reelcast/internal/scraper"
	lua "github.com/yuin/gopher-lua"
)

// Load executes the script at path and checks that it defines the streams function.
func Load(path string) (*Scraper, error) {
	meta, err := ReadMeta(path)
	if err != nil {
		return nil, err
	}

	state := lua.NewState()
	libs.Preload(state)
	registerTLSClient(state)

	if err := scraper.PreCompileAndLoad(state, path); err != nil {
		state.Close()
		return nil, fmt.Errorf("load %s: %w", meta.ID, err)
	}

	if state.GetGlobal(constant.StreamsFn).Type() != lua.LTFunction {
		state.Close()
		return nil, fmt.Errorf("function %s is required but not defined in %s", constant.StreamsFn, meta.ID)
	}

	return &Scraper{meta: meta, state: state}, nil
}
