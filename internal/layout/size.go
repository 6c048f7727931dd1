package layout

import (
	"strconv"
	"strings"
)

type Kind int

const (
	Pixels Kind = iota
	Flex
)

// Size is a declared column width: a fixed pixel amount or a flexible
// weight that shares whatever the fixed columns leave over.
type Size struct {
	Kind  Kind
	Value float64
}

func Px(v float64) Size   { return Size{Kind: Pixels, Value: v} }
func Star(w float64) Size { return Size{Kind: Flex, Value: w} }

// ParseSize reads "120", "120px", "*", "2*" or "2.5*". Unparseable or
// negative declarations fall back to 0px for fixed columns and a weight
// of 1 for flexible ones. An empty declaration is a weight of 1.
func ParseSize(s string) Size {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return Star(1)
	case strings.HasSuffix(s, "*"):
		num := strings.TrimSpace(strings.TrimSuffix(s, "*"))
		if num == "" {
			return Star(1)
		}
		w, ok := parseNonNegative(num)
		if !ok {
			return Star(1)
		}
		return Star(w)
	case strings.HasSuffix(strings.ToLower(s), "px"):
		v, ok := parseNonNegative(strings.TrimSpace(s[:len(s)-2]))
		if !ok {
			return Px(0)
		}
		return Px(v)
	}
	v, ok := parseNonNegative(s)
	if !ok {
		return Px(0)
	}
	return Px(v)
}

func ParseSizes(specs []string) []Size {
	out := make([]Size, len(specs))
	for i, s := range specs {
		out[i] = ParseSize(s)
	}
	return out
}

func (s Size) String() string {
	v := strconv.FormatFloat(s.Value, 'f', -1, 64)
	if s.Kind == Flex {
		return v + "*"
	}
	return v + "px"
}

func parseNonNegative(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || v != v {
		return 0, false
	}
	return v, true
}
