package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Keymap struct {
	Select map[string]string `toml:"select"`
	Edit   map[string]string `toml:"edit"`
}

type GridOptions struct {
	SelectionMode      string `toml:"selection-mode"`
	Fill               *bool  `toml:"fill"`
	FooterRow          *bool  `toml:"footer-row"`
	ErrorDisplayMS     int    `toml:"error-display-ms"`
	ResizeDebounceMS   int    `toml:"resize-debounce-ms"`
	RowHeaderWidth     int    `toml:"row-header-width"`
	DefaultColumnWidth string `toml:"default-column-width"`
}

func (g GridOptions) FillEnabled() bool      { return g.Fill == nil || *g.Fill }
func (g GridOptions) FooterRowEnabled() bool { return g.FooterRow == nil || *g.FooterRow }

type Theme struct {
	Theme                string `toml:"theme"`
	Foreground           string `toml:"foreground"`
	Background           string `toml:"background"`
	HeaderForeground     string `toml:"header-foreground"`
	HeaderBackground     string `toml:"header-background"`
	SelectionForeground  string `toml:"selection-foreground"`
	SelectionBackground  string `toml:"selection-background"`
	PrimaryForeground    string `toml:"primary-foreground"`
	PrimaryBackground    string `toml:"primary-background"`
	FillBackground       string `toml:"fill-background"`
	FooterForeground     string `toml:"footer-foreground"`
	ErrorForeground      string `toml:"error-foreground"`
	ErrorBackground      string `toml:"error-background"`
	StatuslineForeground string `toml:"statusline-foreground"`
	StatuslineBackground string `toml:"statusline-background"`
}

type Config struct {
	Grid   GridOptions `toml:"grid"`
	Theme  Theme       `toml:"theme"`
	Keymap Keymap      `toml:"keymap"`
}

func Default() Config {
	on := true
	fill, footer := on, on
	return Config{
		Grid: GridOptions{
			SelectionMode:      "multiple-cell",
			Fill:               &fill,
			FooterRow:          &footer,
			ErrorDisplayMS:     3000,
			ResizeDebounceMS:   100,
			RowHeaderWidth:     5,
			DefaultColumnWidth: "*",
		},
		Theme: Theme{
			Theme:                "",
			Foreground:           "#B3B1AD",
			Background:           "#0A0E14",
			HeaderForeground:     "#E6B450",
			HeaderBackground:     "#0F1419",
			SelectionForeground:  "#B3B1AD",
			SelectionBackground:  "#27425A",
			PrimaryForeground:    "#0A0E14",
			PrimaryBackground:    "#59C2FF",
			FillBackground:       "#3E4B59",
			FooterForeground:     "#5C6773",
			ErrorForeground:      "#FFFFFF",
			ErrorBackground:      "#D95757",
			StatuslineForeground: "#B3B1AD",
			StatuslineBackground: "#0F1419",
		},
		Keymap: Keymap{
			Select: map[string]string{
				"ctrl+c":    "quit",
				"ctrl+q":    "quit",
				"ctrl+d":    "fill_down",
				"del":       "clear_cells",
				"ctrl+s":    "save",
				"alt+a":     "sort_ascending",
				"alt+z":     "sort_descending",
				"alt+right": "widen_column",
				"alt+left":  "narrow_column",
			},
			Edit: map[string]string{
				"ctrl+c": "cancel",
			},
		},
	}
}

func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg Config
	if _, err := toml.Decode(string(data), &userCfg); err != nil {
		return cfg, err
	}

	if userCfg.Grid.SelectionMode != "" {
		cfg.Grid.SelectionMode = userCfg.Grid.SelectionMode
	}
	if userCfg.Grid.Fill != nil {
		cfg.Grid.Fill = userCfg.Grid.Fill
	}
	if userCfg.Grid.FooterRow != nil {
		cfg.Grid.FooterRow = userCfg.Grid.FooterRow
	}
	if userCfg.Grid.ErrorDisplayMS > 0 {
		cfg.Grid.ErrorDisplayMS = userCfg.Grid.ErrorDisplayMS
	}
	if userCfg.Grid.ResizeDebounceMS > 0 {
		cfg.Grid.ResizeDebounceMS = userCfg.Grid.ResizeDebounceMS
	}
	if userCfg.Grid.RowHeaderWidth > 0 {
		cfg.Grid.RowHeaderWidth = userCfg.Grid.RowHeaderWidth
	}
	if userCfg.Grid.DefaultColumnWidth != "" {
		cfg.Grid.DefaultColumnWidth = userCfg.Grid.DefaultColumnWidth
	}
	if userCfg.Theme.Theme != "" {
		cfg.Theme.Theme = userCfg.Theme.Theme
	}
	if cfg.Theme.Theme != "" {
		theme, err := LoadTheme(cfg.Theme.Theme)
		if err != nil {
			return cfg, err
		}
		mergeTheme(&cfg.Theme, theme)
	}
	mergeTheme(&cfg.Theme, userCfg.Theme)
	for k, v := range userCfg.Keymap.Select {
		cfg.Keymap.Select[k] = v
	}
	for k, v := range userCfg.Keymap.Edit {
		cfg.Keymap.Edit[k] = v
	}

	return cfg, nil
}

func mergeTheme(dst *Theme, src Theme) {
	set := func(d *string, s string) {
		if s != "" {
			*d = s
		}
	}
	set(&dst.Foreground, src.Foreground)
	set(&dst.Background, src.Background)
	set(&dst.HeaderForeground, src.HeaderForeground)
	set(&dst.HeaderBackground, src.HeaderBackground)
	set(&dst.SelectionForeground, src.SelectionForeground)
	set(&dst.SelectionBackground, src.SelectionBackground)
	set(&dst.PrimaryForeground, src.PrimaryForeground)
	set(&dst.PrimaryBackground, src.PrimaryBackground)
	set(&dst.FillBackground, src.FillBackground)
	set(&dst.FooterForeground, src.FooterForeground)
	set(&dst.ErrorForeground, src.ErrorForeground)
	set(&dst.ErrorBackground, src.ErrorBackground)
	set(&dst.StatuslineForeground, src.StatuslineForeground)
	set(&dst.StatuslineBackground, src.StatuslineBackground)
}

func ThemePath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "theme", name+".toml"), nil
}

func LoadTheme(name string) (Theme, error) {
	path, err := ThemePath(name)
	if err != nil {
		return Theme{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, err
	}
	var t Theme
	if _, err := toml.Decode(string(data), &t); err == nil && t != (Theme{}) {
		return t, nil
	}
	var wrap struct {
		Theme Theme `toml:"theme"`
	}
	if _, err := toml.Decode(string(data), &wrap); err != nil {
		return Theme{}, err
	}
	return wrap.Theme, nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("QGRID_CONFIG_HOME"); v != "" {
		return filepath.Join(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "qgrid"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "qgrid"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
