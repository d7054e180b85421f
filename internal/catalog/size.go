package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

var sizePattern = regexp.MustCompile(`^([\d.]+)([a-zA-Z]+)$`)

// ErrInvalidSize is returned when a size string is not <number><unit>.
var ErrInvalidSize = errors.New("invalid size")

// Size is a parsed variant size such as "500ml". Value keeps the original
// digits so that String reproduces the input exactly.
type Size struct {
	Value string `json:"value"`
	Unit  string `json:"unit"`
}

// ParseSize splits a combined size string into value and unit.
func ParseSize(s string) (Size, error) {
	m := sizePattern.FindStringSubmatch(s)
	if m == nil {
		return Size{}, fmt.Errorf("%w: %q (expected e.g. 500ml)", ErrInvalidSize, s)
	}
	return Size{Value: m[1], Unit: m[2]}, nil
}

func (s Size) String() string {
	return s.Value + s.Unit
}

// Amount returns the numeric part of the size.
func (s Size) Amount() (float64, error) {
	return strconv.ParseFloat(s.Value, 64)
}
