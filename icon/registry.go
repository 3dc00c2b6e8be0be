package icon

// Icon identifies a symbol in the registry.
type Icon int

const (
	Locked Icon = iota + 1
	Calibrating
	Waiting
	Ad
	Seek
	Copy
	Search
	Speaker
	Fail
	Success
)

var icons = map[Icon]*iconDef{
	Locked: {
		emoji:   "🔒",
		nerd:    "",
		plain:   "[locked]",
		kaomoji: "(•̀ᴗ•́)و",
		squares: "■",
	},
	Calibrating: {
		emoji:   "🧭",
		nerd:    "",
		plain:   "[calibrating]",
		kaomoji: "(・・ )?",
		squares: "◧",
	},
	Waiting: {
		emoji:   "⏳",
		nerd:    "",
		plain:   "[waiting]",
		kaomoji: "(－_－) zzZ",
		squares: "□",
	},
	Ad: {
		emoji:   "📺",
		nerd:    "",
		plain:   "[ad]",
		kaomoji: "(╯°□°)╯",
		squares: "▣",
	},
	Seek: {
		emoji:   "⏩",
		nerd:    "",
		plain:   ">>",
		kaomoji: "ε=ε=(ノ≧∇≦)ノ",
		squares: "▶",
	},
	Copy: {
		emoji:   "📋",
		nerd:    "",
		plain:   "[copied]",
		kaomoji: "φ(..)",
		squares: "▤",
	},
	Search: {
		emoji:   "🔍",
		nerd:    "",
		plain:   "/",
		kaomoji: "(⊙_⊙)",
		squares: "▢",
	},
	Speaker: {
		emoji:   "🗣",
		nerd:    "",
		plain:   "-",
		kaomoji: "(o´▽`o)",
		squares: "▪",
	},
	Fail: {
		emoji:   "💀",
		nerd:    "",
		plain:   "X",
		kaomoji: "(×_×)",
		squares: "▨",
	},
	Success: {
		emoji:   "✅",
		nerd:    "",
		plain:   "✓",
		kaomoji: "(ᵔᴥᵔ)",
		squares: "▩",
	},
}
