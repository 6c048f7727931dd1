package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// ColumnSpec is one [[column]] block of a data file's sidecar.
type ColumnSpec struct {
	ID         string   `toml:"id"`
	Header     string   `toml:"header"`
	Property   string   `toml:"property"`
	Width      string   `toml:"width"`
	Editable   bool     `toml:"editable"`
	Selectable *bool    `toml:"selectable"`
	Sortable   bool     `toml:"sortable"`
	Resizable  bool     `toml:"resizable"`
	RowSpan    int      `toml:"row-span"`
	Type       string   `toml:"type"`
	Validators []string `toml:"validators"`
}

func (c ColumnSpec) IsSelectable() bool { return c.Selectable == nil || *c.Selectable }

type Columns struct {
	Columns []ColumnSpec `toml:"column"`
}

// ColumnsPath is the sidecar next to a data file.
func ColumnsPath(dataPath string) string {
	return dataPath + ".qgrid.toml"
}

// LoadColumns reads the sidecar of dataPath. A missing sidecar yields no
// columns and no error.
func LoadColumns(dataPath string) (Columns, error) {
	path := ColumnsPath(dataPath)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Columns{}, nil
		}
		return Columns{}, err
	}
	var cols Columns
	if _, err := toml.Decode(string(data), &cols); err != nil {
		return Columns{}, fmt.Errorf("%s: %w", path, err)
	}
	return cols, nil
}
