package engine

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Classification is the resolved quote for a bond: the benchmark that
// drives normalisation, the signed decimal spread over it, and whether
// the bond is treated as SOFR-equivalent. SOFR-equivalent bonds resolve
// to the Treasury benchmark; the equivalence arithmetic always runs off
// the Treasury leg.
type Classification struct {
	Benchmark      BenchmarkCode
	Spread         decimal.Decimal
	SofrEquivalent bool
	// SpreadOverridden is set when the fixed/floating pairing heuristic
	// replaced the bond's own quoted spread with its counterpart's.
	SpreadOverridden bool
}

type pairingKey struct {
	currency string
	tenor    int
	rating   string
	sector   string
	coupon   CouponType
}

// PairingIndex resolves fixed/floating counterparts sharing
// {currency, tenor, rating, sector}. It is built once per batch; when
// several bonds share a key, the first in batch order wins.
type PairingIndex struct {
	byKey map[pairingKey]*Bond
}

// BuildPairingIndex indexes a batch for counterpart lookups.
func BuildPairingIndex(bonds []Bond) *PairingIndex {
	idx := &PairingIndex{byKey: make(map[pairingKey]*Bond, len(bonds))}
	for i := range bonds {
		b := &bonds[i]
		key := pairingKey{
			currency: strings.ToUpper(b.Currency),
			tenor:    b.Tenor,
			rating:   strings.ToUpper(b.Rating),
			sector:   strings.ToUpper(b.Sector),
			coupon:   b.CouponType,
		}
		if _, exists := idx.byKey[key]; !exists {
			idx.byKey[key] = b
		}
	}
	return idx
}

// FixedCounterpart returns the first FIXED bond in the batch sharing the
// given bond's currency, tenor, rating, and sector.
func (idx *PairingIndex) FixedCounterpart(b Bond) (*Bond, bool) {
	if idx == nil {
		return nil, false
	}
	key := pairingKey{
		currency: strings.ToUpper(b.Currency),
		tenor:    b.Tenor,
		rating:   strings.ToUpper(b.Rating),
		sector:   strings.ToUpper(b.Sector),
		coupon:   CouponFixed,
	}
	fixed, ok := idx.byKey[key]
	return fixed, ok
}

// HasSofrEquivalentMarker reports whether the bond carries the explicit
// "sofr equivalent" marker (either hyphenation) in its spread text or
// its name.
func HasSofrEquivalentMarker(b Bond) bool {
	spread := strings.ToLower(b.SpreadText)
	name := strings.ToLower(b.Name)
	for _, marker := range []string{"sofr equivalent", "sofr-equivalent"} {
		if strings.Contains(spread, marker) || strings.Contains(name, marker) {
			return true
		}
	}
	return false
}

// IsZeroSofrFloatQuote reports whether a FLOAT bond is quoted flat over
// SOFR ("S+0bps", with optional spacing, or spelled "SOFR+0bps"), which
// is treated as an implicit SOFR-equivalent marker.
func IsZeroSofrFloatQuote(b Bond) bool {
	if b.CouponType != CouponFloat {
		return false
	}
	quote := strings.ToLower(strings.ReplaceAll(b.SpreadText, " ", ""))
	return quote == "s+0bps" || quote == "sofr+0bps"
}

// Classify resolves a bond's benchmark and spread, consulting the batch
// index for fixed/floating pairing. The explicit marker wins; the
// S+XXbps pairing override is a fallback. A malformed spread on an
// unmarked bond returns *FormatError.
func Classify(b Bond, idx *PairingIndex) (Classification, error) {
	if HasSofrEquivalentMarker(b) || IsZeroSofrFloatQuote(b) {
		return classifyMarked(b, idx), nil
	}

	bench, spread, err := ParseSpread(b.SpreadText)
	if err != nil {
		return Classification{}, err
	}

	// Fallback path: a parseable S+XXbps FLOAT bond paired with a
	// Treasury-quoted FIXED counterpart is re-classified as
	// SOFR-equivalent, adopting the counterpart's Treasury spread. The
	// bond's own quoted magnitude is deliberately discarded here.
	if bench == BenchmarkSOFR && b.CouponType == CouponFloat {
		if fixed, ok := idx.FixedCounterpart(b); ok {
			if fBench, fSpread, ferr := ParseSpread(fixed.SpreadText); ferr == nil && fBench == BenchmarkTreasury {
				return Classification{
					Benchmark:        BenchmarkTreasury,
					Spread:           fSpread,
					SofrEquivalent:   true,
					SpreadOverridden: true,
				}, nil
			}
		}
	}

	return Classification{Benchmark: bench, Spread: spread}, nil
}

// classifyMarked resolves an explicitly marked SOFR-equivalent bond.
// FLOAT bonds borrow the Treasury spread of their FIXED counterpart when
// one exists and is itself Treasury-quoted; everything else defaults to
// T+0.
func classifyMarked(b Bond, idx *PairingIndex) Classification {
	cls := Classification{
		Benchmark:      BenchmarkTreasury,
		Spread:         decimal.Zero,
		SofrEquivalent: true,
	}
	if b.CouponType != CouponFloat {
		return cls
	}
	fixed, ok := idx.FixedCounterpart(b)
	if !ok {
		return cls
	}
	if fBench, fSpread, err := ParseSpread(fixed.SpreadText); err == nil && fBench == BenchmarkTreasury {
		cls.Spread = fSpread
	}
	return cls
}
