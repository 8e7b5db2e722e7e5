package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rohankatakam/startrend/internal/models"
)

// Formatter renders one search response
type Formatter interface {
	Format(resp *models.SearchResponse, w io.Writer) error
}

// Format selects how results are rendered
type Format string

const (
	FormatTable Format = "table" // ranked table with a summary footer
	FormatJSON  Format = "json"  // machine-readable response
	FormatQuiet Format = "quiet" // one repository per line, for scripts
)

// ParseFormat parses a --format value. Empty selects DefaultFormat.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultFormat(), nil
	case FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatQuiet:
		return FormatQuiet, nil
	default:
		return "", fmt.Errorf("invalid format %q: must be table, json, or quiet", s)
	}
}

// NewFormatter creates the formatter for f
func NewFormatter(f Format, useColors bool) Formatter {
	switch f {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatQuiet:
		return &QuietFormatter{}
	default:
		return &TableFormatter{Colors: useColors}
	}
}

// DefaultFormat returns the format to use when none was requested
func DefaultFormat() Format {
	if f := os.Getenv("STARTREND_FORMAT"); f != "" {
		switch Format(strings.ToLower(f)) {
		case FormatTable, FormatJSON, FormatQuiet:
			return Format(strings.ToLower(f))
		}
	}
	return FormatTable
}

// ColorMode controls colored table output
type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// ParseColorMode parses a --color value
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	default:
		return ColorAuto, fmt.Errorf("invalid color mode %q: must be auto, always, or never", s)
	}
}

// ResolveColors decides whether to color output. Auto honours NO_COLOR, dumb terminals and CI.
func ResolveColors(mode ColorMode) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" || os.Getenv("CI") == "true" {
		return false
	}
	return true
}

func statusLabel(s models.GrowthStatus) string {
	switch s {
	case models.StatusComplete:
		return "ok"
	case models.StatusRateLimited:
		return "rate limited"
	case models.StatusErrored:
		return "unavailable"
	default:
		return string(s)
	}
}
