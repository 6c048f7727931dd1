package table

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

func Required(v any) error {
	if IsEmpty(v) {
		return errors.New("required")
	}
	return nil
}

func MaxLen(n int) Validator {
	return func(v any) error {
		if utf8.RuneCountInString(Text{}.Render(v)) > n {
			return fmt.Errorf("max %d characters", n)
		}
		return nil
	}
}

func Min(min float64) Validator {
	return func(v any) error {
		if f, ok := toFloat(v); ok && f < min {
			return fmt.Errorf("must be at least %s", strconv.FormatFloat(min, 'f', -1, 64))
		}
		return nil
	}
}

func Max(max float64) Validator {
	return func(v any) error {
		if f, ok := toFloat(v); ok && f > max {
			return fmt.Errorf("must be at most %s", strconv.FormatFloat(max, 'f', -1, 64))
		}
		return nil
	}
}

// Match rejects non-empty values that don't match pattern.
func Match(pattern string) (Validator, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return func(v any) error {
		s := Text{}.Render(v)
		if s == "" || re.MatchString(s) {
			return nil
		}
		return errors.New("invalid format")
	}, nil
}

// ParseValidator reads a validator string such as "required", "max-len:20",
// "min:0", "max:100" or "match:^[A-Z]+$".
func ParseValidator(spec string) (Validator, error) {
	name, arg, _ := strings.Cut(strings.TrimSpace(spec), ":")
	switch name {
	case "required":
		return Required, nil
	case "max-len":
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("validator %q: bad length", spec)
		}
		return MaxLen(n), nil
	case "min", "max":
		f, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, fmt.Errorf("validator %q: bad bound", spec)
		}
		if name == "min" {
			return Min(f), nil
		}
		return Max(f), nil
	case "match":
		v, err := Match(arg)
		if err != nil {
			return nil, fmt.Errorf("validator %q: %w", spec, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("unknown validator %q", spec)
}

// IsEmpty reports whether a value counts as blank input.
func IsEmpty(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

