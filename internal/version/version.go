// Package version parses and increments dot-separated numeric versions
// such as "1.2.3".
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is an ordered tuple of non-negative integers.
type Version []int

// Parse splits s on "." and converts every part to a non-negative integer.
func Parse(s string) (Version, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("empty version")
	}
	parts := strings.Split(s, ".")
	v := make(Version, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid version %q: component %q is not a non-negative integer", s, p)
		}
		v[i] = n
	}
	return v, nil
}

// String joins the components with ".".
func (v Version) String() string {
	return Format(v)
}

// Compare returns -1, 0 or 1. Components are compared left to right and a
// version that is a strict prefix of the other sorts first.
func (v Version) Compare(o Version) int {
	for i := 0; i < len(v) && i < len(o); i++ {
		switch {
		case v[i] < o[i]:
			return -1
		case v[i] > o[i]:
			return 1
		}
	}
	switch {
	case len(v) < len(o):
		return -1
	case len(v) > len(o):
		return 1
	}
	return 0
}

// Bump returns a copy of v with amount added to the last component.
func (v Version) Bump(amount int) Version {
	out := make(Version, len(v))
	copy(out, v)
	out[len(out)-1] += amount
	return out
}

// Increment parses s, adds amount to its last component and formats it back.
func Increment(s string, amount int) (string, error) {
	if amount < 0 {
		return "", fmt.Errorf("increment must be non-negative, got %d", amount)
	}
	v, err := Parse(s)
	if err != nil {
		return "", err
	}
	return v.Bump(amount).String(), nil
}

// Format joins components with ".".
func Format(components []int) string {
	parts := make([]string, len(components))
	for i, c := range components {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, ".")
}
