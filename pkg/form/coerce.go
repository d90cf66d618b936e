package form

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-studyform/pkg/model"
)

// Coerce converts a raw input string into the value stored for field.
// Text and date keep the raw string, select keeps the literal option ("" is
// the unselected placeholder) and number is parsed with ParseNumber. A kind
// outside the enumeration is ErrUnknownKind.
func Coerce(field model.Field, raw string) (any, error) {
	switch field.Kind {
	case model.FieldKindNumber:
		return ParseNumber(raw), nil
	case model.FieldKindText, model.FieldKindDate, model.FieldKindSelect:
		return raw, nil
	}
	return nil, fmt.Errorf("%w %q (field %q)", ErrUnknownKind, field.Kind, field.Name)
}

// ParseNumber reads the longest numeric prefix of raw, ignoring leading
// whitespace, the way a browser number input reports its value. Input with no
// numeric prefix yields NaN.
func ParseNumber(raw string) float64 {
	s := strings.TrimLeft(raw, " \t\n\r\f\v")
	if s == "" {
		return math.NaN()
	}

	sign := ""
	body := s
	if body[0] == '+' || body[0] == '-' {
		sign = body[:1]
		body = body[1:]
	}
	if strings.HasPrefix(body, "Infinity") {
		if sign == "-" {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}

	end := numericPrefix(body)
	if end == 0 {
		return math.NaN()
	}
	value, err := strconv.ParseFloat(sign+body[:end], 64)
	if err != nil {
		return math.NaN()
	}
	return value
}

func numericPrefix(s string) int {
	i := 0
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits+frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		exp := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			exp++
		}
		if exp > 0 {
			i = j
		}
	}
	return i
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
