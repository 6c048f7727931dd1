// Package dataset loads tabular files into grid rows and writes edits
// back.
package dataset

import (
	"cmp"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/google/uuid"

	"github.com/kobzarvs/qgrid/internal/config"
	"github.com/kobzarvs/qgrid/internal/edit"
	"github.com/kobzarvs/qgrid/internal/table"
)

// KeyField holds each row's stable key. It never collides with a header.
const KeyField = "\x00key"

var ErrUnknownFormat = errors.New("unknown data format")

type Dataset struct {
	Path    string
	Format  config.Format
	Sheet   string
	Headers []string

	rows  []table.Row
	dirty bool
}

// Open reads path with the first format matching its name. sheet picks
// a worksheet of a workbook and is ignored for text formats.
func Open(path string, formats config.Formats, sheet string) (*Dataset, error) {
	f := formats.Match(path)
	if f == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
	d := &Dataset{Path: path, Format: *f}
	var records [][]string
	var err error
	switch f.Kind {
	case "csv":
		records, err = readCSV(path, *f)
	case "xlsx":
		d.Sheet, records, err = readXLSX(path, sheet)
	default:
		return nil, fmt.Errorf("%s: %w %q", path, ErrUnknownFormat, f.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	d.load(records)
	return d, nil
}

func (d *Dataset) load(records [][]string) {
	if len(records) == 0 {
		return
	}
	d.Headers = uniqueHeaders(records[0])
	d.rows = make([]table.Row, 0, len(records)-1)
	base, _ := filepath.Abs(d.Path)
	for i, rec := range records[1:] {
		r := table.Row{KeyField: uuid.NewSHA1(uuid.NameSpaceOID, []byte(base+":"+d.Sheet+":"+strconv.Itoa(i))).String()}
		for j, h := range d.Headers {
			if j < len(rec) {
				r[h] = rec[j]
			} else {
				r[h] = ""
			}
		}
		d.rows = append(d.rows, r)
	}
}

// uniqueHeaders names blank headers by position and suffixes repeats, so
// every header can serve as a column id.
func uniqueHeaders(in []string) []string {
	out := make([]string, len(in))
	seen := make(map[string]int, len(in))
	for i, h := range in {
		if h == "" {
			h = columnName(i)
		}
		if n := seen[h]; n > 0 {
			seen[h] = n + 1
			h = fmt.Sprintf("%s_%d", h, n+1)
		}
		seen[h]++
		out[i] = h
	}
	return out
}

// columnName is the spreadsheet letter name of a zero-based column.
func columnName(i int) string {
	name := ""
	for i++; i > 0; i = (i - 1) / 26 {
		name = string(rune('A'+(i-1)%26)) + name
	}
	return name
}

func Key(r table.Row) string {
	k, _ := r[KeyField].(string)
	return k
}

func (d *Dataset) Rows() []table.Row { return d.rows }

func (d *Dataset) Dirty() bool { return d.dirty }

// Apply writes committed updates into their rows. field maps a column id
// to the row field it edits.
func (d *Dataset) Apply(updates []edit.DataUpdate, field func(columnID string) string) {
	for _, u := range updates {
		for id, v := range u.Updates {
			u.Row[field(id)] = v
		}
	}
	if len(updates) > 0 {
		d.dirty = true
	}
}

// AppendRow adds a record built from values under a fresh key.
func (d *Dataset) AppendRow(values map[string]any, field func(columnID string) string) table.Row {
	r := table.Row{KeyField: uuid.NewString()}
	for _, h := range d.Headers {
		r[h] = ""
	}
	for id, v := range values {
		r[field(id)] = v
	}
	d.rows = append(d.rows, r)
	d.dirty = true
	return r
}

// Sort orders rows by field with compare. The sort is stable so equal
// rows keep their relative order.
func (d *Dataset) Sort(field string, compare func(a, b any) int, ascending bool) {
	rows := slices.Clone(d.rows)
	slices.SortStableFunc(rows, func(a, b table.Row) int {
		c := compare(a[field], b[field])
		if !ascending {
			c = -c
		}
		return cmp.Compare(c, 0)
	})
	d.rows = rows
}

// Save writes the rows back to the file they were read from.
func (d *Dataset) Save() error {
	var err error
	switch d.Format.Kind {
	case "csv":
		err = writeCSV(d.Path, d.Format, d.Headers, d.records())
	case "xlsx":
		err = writeXLSX(d.Path, d.Sheet, d.Headers, d.records())
	default:
		err = ErrUnknownFormat
	}
	if err != nil {
		return fmt.Errorf("%s: %w", d.Path, err)
	}
	d.dirty = false
	return nil
}

func (d *Dataset) records() [][]string {
	out := make([][]string, len(d.rows))
	for i, r := range d.rows {
		rec := make([]string, len(d.Headers))
		for j, h := range d.Headers {
			rec[j] = render(r[h])
		}
		out[i] = rec
	}
	return out
}

func render(v any) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return table.Text{}.Render(v)
}

// DefaultColumns declares one editable text column per header, used when
// a file has no column sidecar.
func (d *Dataset) DefaultColumns(width string) []config.ColumnSpec {
	out := make([]config.ColumnSpec, len(d.Headers))
	for i, h := range d.Headers {
		out[i] = config.ColumnSpec{ID: h, Header: h, Property: h, Width: width, Editable: true}
	}
	return out
}
