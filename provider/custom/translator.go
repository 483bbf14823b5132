package custom

import (
	"errors"
	"fmt"

	"github.com/reelcast/reelcast/stream"
	lua "github.com/yuin/gopher-lua"
)

func getString(table *lua.LTable, key string) string {
	val := table.RawGetString(key)
	if val.Type() == lua.LTString {
		return val.String()
	}
	return ""
}

func getInt64(table *lua.LTable, key string) int64 {
	if n, ok := table.RawGetString(key).(lua.LNumber); ok && n > 0 {
		return int64(n)
	}
	return 0
}

func getBool(table *lua.LTable, key string) bool {
	return lua.LVAsBool(table.RawGetString(key))
}

func getStringMap(table *lua.LTable, key string) map[string]string {
	tbl, ok := table.RawGetString(key).(*lua.LTable)
	if !ok {
		return nil
	}

	m := make(map[string]string)
	tbl.ForEach(func(k, v lua.LValue) {
		m[k.String()] = v.String()
	})
	return m
}

func streamFromTable(table *lua.LTable, providerID string) (stream.Stream, error) {
	url := getString(table, "url")
	if url == "" {
		return stream.Stream{}, errors.New("stream must have url")
	}

	return stream.Stream{
		URL:         url,
		Name:        getString(table, "name"),
		Title:       getString(table, "title"),
		Description: getString(table, "description"),
		ProviderID:  providerID,
		SizeBytes:   getInt64(table, "size"),
		Headers:     getStringMap(table, "headers"),
		Cached:      getBool(table, "cached"),
		Hints:       hintsFromTable(table),
	}, nil
}

// hintsFromTable reads the optional "hints" subtable. A top-level filename is accepted too.
func hintsFromTable(table *lua.LTable) stream.Hints {
	hints := stream.Hints{Filename: getString(table, "filename")}

	tbl, ok := table.RawGetString("hints").(*lua.LTable)
	if !ok {
		return hints
	}

	hints.Cached = getBool(tbl, "cached")
	hints.BingeGroup = getString(tbl, "binge_group")
	if name := getString(tbl, "filename"); name != "" {
		hints.Filename = name
	}
	return hints
}

// streamsFromTable converts an array of stream tables. Malformed entries are skipped;
// the first conversion error is returned only when nothing usable was found.
func streamsFromTable(table *lua.LTable, providerID string) ([]stream.Stream, error) {
	var (
		streams []stream.Stream
		errs    []error
	)

	table.ForEach(func(k, v lua.LValue) {
		if k.Type() != lua.LTNumber {
			return
		}

		tbl, ok := v.(*lua.LTable)
		if !ok {
			errs = append(errs, fmt.Errorf("entry %s is %s, expected table", k, v.Type()))
			return
		}

		s, err := streamFromTable(tbl, providerID)
		if err != nil {
			errs = append(errs, err)
			return
		}
		streams = append(streams, s)
	})

	if len(streams) == 0 && len(errs) > 0 {
		return nil, errs[0]
	}

	return streams, nil
}
