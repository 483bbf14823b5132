package constant

// Scraper Function Identifiers - the global function a Lua scraper must define.
const (
	StreamsFn = "Streams"
)

// SourceTemplate is a Go text/template for scaffolding new Lua scraper files.
const SourceTemplate = `{{ $divider := repeat "-" (plus (max (len .URL) (len .Name) (len .Author) 3) 12) }}{{ $divider }}
-- @name    {{ .Name }}
-- @url     {{ .URL }}
-- @logo    {{ .Logo }}
-- @author  {{ .Author }}
-- @license MIT
{{ $divider }}


---@alias hints { cached: boolean|nil, filename: string|nil, binge_group: string|nil }
---@alias stream { url: string, name: string|nil, title: string|nil, description: string|nil, size: number|nil, cached: boolean|nil, headers: table|nil, hints: hints|nil }


----- IMPORTS -----
--- END IMPORTS ---



----- VARIABLES -----
--- END VARIABLES ---



----- MAIN -----

--- Lists playable streams for the given content.
-- @param content_id string External content identifier (e.g. tt0111161)
-- @param content_type string "movie" or "series"
-- @param episode_id string|nil Episode identifier for series
-- @return stream[] Table of streams
function {{ .StreamsFn }}(content_id, content_type, episode_id)
	return {}
end


--- END MAIN ---




----- HELPERS -----
--- END HELPERS ---

-- ex: ts=4 sw=4 et filetype=lua
`
