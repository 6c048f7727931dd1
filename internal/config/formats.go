package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Format tells the loader how to read a data file.
type Format struct {
	Name      string   `toml:"name"`
	FileTypes []string `toml:"file-types"`
	// Kind is "csv" or "xlsx".
	Kind      string `toml:"kind"`
	Delimiter string `toml:"delimiter"`
	Comment   string `toml:"comment"`
}

type Formats struct {
	Formats []Format `toml:"format"`
}

func DefaultFormats() Formats {
	return Formats{Formats: []Format{
		{Name: "csv", FileTypes: []string{"csv"}, Kind: "csv", Delimiter: ","},
		{Name: "tsv", FileTypes: []string{"tsv", "tab"}, Kind: "csv", Delimiter: "\t"},
		{Name: "xlsx", FileTypes: []string{"xlsx", "xlsm"}, Kind: "xlsx"},
	}}
}

func (f Formats) Match(path string) *Format {
	base := filepath.Base(path)
	baseLower := strings.ToLower(base)
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
	for i := range f.Formats {
		format := &f.Formats[i]
		for _, ft := range format.FileTypes {
			ftLower := strings.ToLower(ft)
			if ftLower == ext || ftLower == baseLower {
				return format
			}
			if strings.HasPrefix(ftLower, ".") && strings.TrimPrefix(ftLower, ".") == ext {
				return format
			}
		}
	}
	return nil
}

// LoadFormats returns the user's formats.toml entries ahead of the
// built-in ones, so user file types win.
func LoadFormats() (Formats, error) {
	def := DefaultFormats()
	path, err := FormatsPath()
	if err != nil {
		return def, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return def, nil
		}
		return def, err
	}

	var cfg Formats
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return def, err
	}
	cfg.Formats = append(cfg.Formats, def.Formats...)
	return cfg, nil
}

func FormatsPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "formats.toml"), nil
}
