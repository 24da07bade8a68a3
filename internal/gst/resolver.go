// Package gst decides how a GST percentage is split across tax heads.
//
// Intra-state supplies split the rate evenly between CGST and SGST;
// inter-state supplies charge the full rate as IGST. When either state is
// empty or unknown the resolver falls through to the inter-state branch;
// that is a documented default, not a verified business rule.
package gst

import (
	"regexp"
	"strconv"
	"strings"
)

// TaxSplit is the per-head breakdown of a GST percentage.
type TaxSplit struct {
	CGST float64 `json:"cgstRate"`
	SGST float64 `json:"sgstRate"`
	IGST float64 `json:"igstRate"`
}

// Total returns the combined percentage across all three heads.
func (s TaxSplit) Total() float64 {
	return s.CGST + s.SGST + s.IGST
}

// NormalizeState canonicalizes a free-text state name for comparison:
// any parenthetical qualifier is stripped, surrounding space trimmed and
// the result lower-cased. "Gujarat (24)" and "gujarat" compare equal.
func NormalizeState(state string) string {
	if idx := strings.Index(state, "("); idx >= 0 {
		state = state[:idx]
	}
	return strings.ToLower(strings.TrimSpace(state))
}

// IsIntraState reports whether both states are known and refer to the same
// jurisdiction.
func IsIntraState(companyState, partyState string) bool {
	company := NormalizeState(companyState)
	party := NormalizeState(partyState)
	return company != "" && party != "" && company == party
}

// Split resolves the CGST/SGST vs IGST breakdown for a supply. The three
// components always sum to rate, and at most one branch is non-zero.
func Split(rate float64, companyState, partyState string) TaxSplit {
	if IsIntraState(companyState, partyState) {
		half := rate / 2
		return TaxSplit{CGST: half, SGST: half}
	}
	return TaxSplit{IGST: rate}
}

var ratePattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// RateFromLedgerName extracts a numeric GST rate from a tax ledger's display
// name, e.g. "Output CGST 9%" yields 9. Returns 0 when no numeric token is
// present. This is a fallback for legacy ledgers without an explicit rate
// attribute; new tax ledgers carry Ledger.TaxRate and never hit this path.
func RateFromLedgerName(name string) float64 {
	token := ratePattern.FindString(name)
	if token == "" {
		return 0
	}
	rate, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0
	}
	return rate
}
