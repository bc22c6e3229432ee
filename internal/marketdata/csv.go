package marketdata

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"bond-rv-analyzer/internal/engine"
)

// LoadBundleFile reads a market-data bundle from a CSV file. Each record
// starts with a section tag:
//
//	benchmark,<code>,<rate>
//	funding,<ccy>,<rate>
//	sofr,<tenor>,<t_rate>,<t_sofr_spread>
//	fair,<CCY_SECTOR>,<rating>,<tenor|*>,<ytm>
//
// Lines starting with '#' are comments. Rates are decimal fractions.
func LoadBundleFile(path string) (Bundle, error) {
	file, err := os.Open(path)
	if err != nil {
		return Bundle{}, fmt.Errorf("open market data file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return Bundle{}, fmt.Errorf("read market data file: %w", err)
	}

	bundle := Bundle{
		BenchmarkRates:  map[string]decimal.Decimal{},
		FundingRates:    map[string]decimal.Decimal{},
		SofrSpreads:     map[string]engine.SofrSpreadEntry{},
		FairValueCurves: FairValueCurves{},
	}

	for i, record := range records {
		line := i + 1
		if len(record) == 0 {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(record[0])) {
		case "benchmark":
			if len(record) != 3 {
				return Bundle{}, fmt.Errorf("line %d: benchmark record needs 3 fields", line)
			}
			rate, err := parseRate(record[2], line)
			if err != nil {
				return Bundle{}, err
			}
			bundle.BenchmarkRates[strings.ToUpper(strings.TrimSpace(record[1]))] = rate
		case "funding":
			if len(record) != 3 {
				return Bundle{}, fmt.Errorf("line %d: funding record needs 3 fields", line)
			}
			rate, err := parseRate(record[2], line)
			if err != nil {
				return Bundle{}, err
			}
			bundle.FundingRates[strings.ToUpper(strings.TrimSpace(record[1]))] = rate
		case "sofr":
			if len(record) != 4 {
				return Bundle{}, fmt.Errorf("line %d: sofr record needs 4 fields", line)
			}
			tRate, err := parseRate(record[2], line)
			if err != nil {
				return Bundle{}, err
			}
			spread, err := parseRate(record[3], line)
			if err != nil {
				return Bundle{}, err
			}
			tenor := strings.TrimSpace(record[1])
			bundle.SofrSpreads[tenor] = engine.SofrSpreadEntry{TRate: tRate, TSofrSpread: spread}
		case "fair":
			if len(record) != 5 {
				return Bundle{}, fmt.Errorf("line %d: fair record needs 5 fields", line)
			}
			ytm, err := parseRate(record[4], line)
			if err != nil {
				return Bundle{}, err
			}
			curveKey := strings.ToUpper(strings.TrimSpace(record[1]))
			rating := strings.ToUpper(strings.TrimSpace(record[2]))
			tenor := strings.TrimSpace(record[3])
			if _, ok := bundle.FairValueCurves[curveKey]; !ok {
				bundle.FairValueCurves[curveKey] = map[string]map[string]decimal.Decimal{}
			}
			if _, ok := bundle.FairValueCurves[curveKey][rating]; !ok {
				bundle.FairValueCurves[curveKey][rating] = map[string]decimal.Decimal{}
			}
			bundle.FairValueCurves[curveKey][rating][tenor] = ytm
		default:
			return Bundle{}, fmt.Errorf("line %d: unknown record type %q", line, record[0])
		}
	}

	if bundle.Empty() {
		return Bundle{}, fmt.Errorf("market data file %s contains no records", path)
	}
	return bundle, nil
}

func parseRate(field string, line int) (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(strings.TrimSpace(field))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("line %d: invalid rate %q: %w", line, field, err)
	}
	return rate, nil
}
