package custom

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/reelcast/reelcast/constant"
	"github.com/reelcast/reelcast/rank"
	"github.com/reelcast/reelcast/stream"
	lua "github.com/yuin/gopher-lua"
)

// Scraper is a loaded Lua script.
// An LState is not safe for concurrent use, so calls are serialized.
type Scraper struct {
	meta   Meta
	state  *lua.LState
	mu     sync.Mutex
	closed bool
}

// ErrClosed is returned by calls on a closed scraper.
var ErrClosed = errors.New("scraper is closed")

// ID returns the scraper id.
func (s *Scraper) ID() string {
	return s.meta.ID
}

// Name returns the display name declared by the script.
func (s *Scraper) Name() string {
	return s.meta.Name
}

// Meta returns the script header.
func (s *Scraper) Meta() Meta {
	return s.meta
}

// FetchStreams calls the script's streams function for key.
// The call is aborted when ctx is done.
func (s *Scraper) FetchStreams(ctx context.Context, key stream.Key) ([]stream.Stream, error) {
	episode := lua.LValue(lua.LNil)
	if key.EpisodeID != "" {
		episode = lua.LString(key.EpisodeID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	s.state.SetContext(ctx)
	defer s.state.RemoveContext()

	val, err := s.call(constant.StreamsFn, lua.LTTable, lua.LString(key.ContentID), lua.LString(key.ContentType), episode)
	if err != nil {
		return nil, err
	}

	streams, err := streamsFromTable(val.(*lua.LTable), s.meta.ID)
	if err != nil {
		return nil, err
	}

	return rank.Dedupe(streams), nil
}

// Close releases the Lua state, waiting for a running call to return. It is safe to call twice.
func (s *Scraper) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		s.state.Close()
	}
}

func (s *Scraper) call(fn string, retType lua.LValueType, args ...lua.LValue) (lua.LValue, error) {
	luaFn := s.state.GetGlobal(fn)
	if luaFn.Type() != lua.LTFunction {
		return nil, fmt.Errorf("function %s is not defined", fn)
	}

	err := s.state.CallByParam(lua.P{
		Fn:      luaFn,
		NRet:    1,
		Protect: true,
	}, args...)
	if err != nil {
		return nil, err
	}

	retval := s.state.Get(-1)
	s.state.Pop(1)

	if retval.Type() != retType {
		return nil, fmt.Errorf("%s returned %s, expected %s", fn, retval.Type(), retType)
	}

	return retval, nil
}
