// Package report implements report rendering and the timed writer.
package report

import "firestige.xyz/snooper/internal/core"

// Format selects the report rendering mode.
type Format string

const (
	FormatRaw     Format = "raw"
	FormatVerbose Format = "verbose"
	FormatReport  Format = "report"
)

// ParseFormat validates a format string. Matching is case-sensitive.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatRaw, FormatVerbose, FormatReport:
		return Format(s), nil
	default:
		return "", core.ErrInvalidFormat
	}
}
