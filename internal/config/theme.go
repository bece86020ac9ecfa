package config

// themeOrder is the cycle order for the built-in palettes
var themeOrder = []string{"subtle", "dracula", "nord", "monochrome"}

var themes = map[string]ThemeConfig{
	"subtle": {
		Name:          "subtle",
		LineNumbers:   "240",
		StatusBar:     "236",
		StatusBarText: "252",
		FilterMatch:   "226",
		Bookmark:      "39",
		PaneBorder:    "240",
		ActiveBorder:  "39",
		Levels: LogLevelColors{
			Trace: "240",
			Debug: "244",
			Info:  "250",
			Warn:  "214",
			Error: "167",
		},
	},
	"dracula": {
		Name:          "dracula",
		LineNumbers:   "61",
		StatusBar:     "236",
		StatusBarText: "253",
		FilterMatch:   "228",
		Bookmark:      "141",
		PaneBorder:    "61",
		ActiveBorder:  "141",
		Levels: LogLevelColors{
			Trace: "103",
			Debug: "61",
			Info:  "253",
			Warn:  "215",
			Error: "210",
		},
	},
	"nord": {
		Name:          "nord",
		LineNumbers:   "60",
		StatusBar:     "237",
		StatusBarText: "254",
		FilterMatch:   "222",
		Bookmark:      "110",
		PaneBorder:    "60",
		ActiveBorder:  "110",
		Levels: LogLevelColors{
			Trace: "60",
			Debug: "109",
			Info:  "254",
			Warn:  "222",
			Error: "174",
		},
	},
	"monochrome": {
		Name:          "monochrome",
		LineNumbers:   "242",
		StatusBar:     "235",
		StatusBarText: "255",
		FilterMatch:   "255",
		Bookmark:      "255",
		PaneBorder:    "240",
		ActiveBorder:  "255",
		Levels: LogLevelColors{
			Trace: "238",
			Debug: "242",
			Info:  "250",
			Warn:  "253",
			Error: "231",
		},
	},
}

// ThemeNames returns the built-in palette names in cycle order
func ThemeNames() []string {
	return themeOrder
}

// NamedTheme looks up a built-in palette by name
func NamedTheme(name string) (ThemeConfig, bool) {
	t, ok := themes[name]
	return t, ok
}

// NextThemeName returns the palette after name in the cycle, wrapping
// around. Unknown names restart the cycle.
func NextThemeName(name string) string {
	for i, n := range themeOrder {
		if n == name {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// resolveTheme replaces the color fields with the named palette when
// the name is a built-in. Unknown names keep whatever colors the file
// set, so custom palettes stay possible.
func resolveTheme(cfg *Config) {
	if t, ok := NamedTheme(cfg.Theme.Name); ok {
		cfg.Theme = t
	}
}
