package table

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// CellType renders a value for display. Every column has one.
type CellType interface {
	Render(v any) string
}

// Editable cell types turn raw editor input into a value and check it.
type Editable interface {
	CellType
	ParseRawInput(original, updated any) any
	Validate(v any) error
}

// Sortable cell types order two values.
type Sortable interface {
	Compare(a, b any) int
}

type Text struct{}

func (Text) Render(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func (Text) ParseRawInput(_, updated any) any {
	return updated
}

func (Text) Validate(any) error { return nil }

func (t Text) Compare(a, b any) int {
	return strings.Compare(t.Render(a), t.Render(b))
}

var errNotNumber = errors.New("not a number")

// Number stores float64 values. Input that does not parse is kept as text
// so Validate can report it.
type Number struct {
	Precision int
}

func (n Number) Render(v any) string {
	f, ok := toFloat(v)
	if !ok {
		return Text{}.Render(v)
	}
	prec := -1
	if n.Precision > 0 {
		prec = n.Precision
	}
	return strconv.FormatFloat(f, 'f', prec, 64)
}

func (Number) ParseRawInput(_, updated any) any {
	s, ok := updated.(string)
	if !ok {
		return updated
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func (Number) Validate(v any) error {
	if v == nil {
		return nil
	}
	if _, ok := toFloat(v); !ok {
		return errNotNumber
	}
	return nil
}

func (Number) Compare(a, b any) int {
	fa, oka := toFloat(a)
	fb, okb := toFloat(b)
	switch {
	case !oka && !okb:
		return 0
	case !oka:
		return -1
	case !okb:
		return 1
	case fa < fb:
		return -1
	case fa > fb:
		return 1
	}
	return 0
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}
	return 0, false
}

// CellTypeByName maps config names to built-in cell types.
func CellTypeByName(name string) (CellType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text":
		return Text{}, nil
	case "number":
		return Number{}, nil
	}
	return nil, fmt.Errorf("unknown cell type %q", name)
}
