package engine

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// spreadPattern matches quotes like "T+50bps", "G-10bps", "ms+30bps".
var spreadPattern = regexp.MustCompile(`(?i)^([A-Za-z]+)([+-])(\d+)bps$`)

// ParseSpread parses a spread quote into its benchmark code and a signed
// decimal spread (50 bps -> 0.0050). Returns *FormatError when the text
// does not match the grammar.
func ParseSpread(text string) (BenchmarkCode, decimal.Decimal, error) {
	match := spreadPattern.FindStringSubmatch(strings.TrimSpace(text))
	if match == nil {
		return "", decimal.Decimal{}, &FormatError{Text: text}
	}

	benchmark := BenchmarkCode(strings.ToUpper(match[1]))

	bps, err := strconv.ParseInt(match[3], 10, 64)
	if err != nil {
		return "", decimal.Decimal{}, &FormatError{Text: text}
	}
	if match[2] == "-" {
		bps = -bps
	}

	// 1 bp = 10^-4 in decimal fraction terms.
	return benchmark, decimal.New(bps, -4), nil
}
