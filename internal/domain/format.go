package domain

import (
	"fmt"
	"strings"
)

// VersionFormat selects how the version to publish is determined.
type VersionFormat string

const (
	FormatExact      VersionFormat = "exact"
	FormatTemplate   VersionFormat = "template"
	FormatDetect     VersionFormat = "detect"
	FormatAutoDetect VersionFormat = "autodetect"
)

// ParseVersionFormat maps a step input to a VersionFormat, ignoring case.
func ParseVersionFormat(s string) (VersionFormat, error) {
	switch f := VersionFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatExact, FormatTemplate, FormatDetect, FormatAutoDetect:
		return f, nil
	default:
		return "", fmt.Errorf("unknown version format %q", s)
	}
}
