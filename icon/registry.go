package icon

// Icon identifies a symbol in the registry.
type Icon int

const (
	Lua Icon = iota + 1
	Success
	Fail
	Progress
	Warn
	Search
	Play
	Cached
	Auto
	Addon
	Scraper
)

var icons = map[Icon]*iconDef{
	Lua: {
		emoji:   "🌙",
		nerd:    "\ue620",
		plain:   "Lua",
		kaomoji: "(＾ｰ^)",
		squares: "◧",
	},
	Success: {
		emoji:   "✅",
		nerd:    "\uf00c",
		plain:   "Success",
		kaomoji: "(ᵔ◡ᵔ)",
		squares: "▣",
	},
	Fail: {
		emoji:   "💀",
		nerd:    "\uf00d",
		plain:   "Error",
		kaomoji: "(╥﹏╥)",
		squares: "▨",
	},
	Progress: {
		emoji:   "⏳",
		nerd:    "\uf110",
		plain:   "...",
		kaomoji: "(• ◡•)",
		squares: "◫",
	},
	Warn: {
		emoji:   "⚠️",
		nerd:    "\uf071",
		plain:   "Warning",
		kaomoji: "(°ㅂ°╬)",
		squares: "◬",
	},
	Search: {
		emoji:   "🔍",
		nerd:    "\uf002",
		plain:   "?",
		kaomoji: "(⊙_⊙)",
		squares: "◎",
	},
	Play: {
		emoji:   "▶️",
		nerd:    "\uf04b",
		plain:   ">",
		kaomoji: "ᕕ( ᐛ )ᕗ",
		squares: "▶",
	},
	Cached: {
		emoji:   "⚡",
		nerd:    "\uf0e7",
		plain:   "+",
		kaomoji: "(ง'̀-'́)ง",
		squares: "◆",
	},
	Auto: {
		emoji:   "🔄",
		nerd:    "\uf021",
		plain:   "auto",
		kaomoji: "(~˘▾˘)~",
		squares: "◇",
	},
	Addon: {
		emoji:   "📦",
		nerd:    "\uf187",
		plain:   "addon",
		kaomoji: "[¬º-°]¬",
		squares: "■",
	},
	Scraper: {
		emoji:   "🕸️",
		nerd:    "\uf0ac",
		plain:   "scraper",
		kaomoji: "(｀・ω・´)",
		squares: "□",
	},
}
