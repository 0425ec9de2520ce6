// Package hts provides formatting helpers for Harmonized Tariff Schedule
// codes and the external verification links built from them.
package hts

import (
	"net/url"
	"strings"
)

// searchBaseURL is the official USITC tariff schedule search page.
const searchBaseURL = "https://hts.usitc.gov/search"

// LinkCode normalizes an HTS code for the external registry's search box.
// The registry does not expect the trailing statistical zero pair, so a
// trailing "00" is stripped; all other codes pass through unchanged.
func LinkCode(code string) string {
	if strings.HasSuffix(code, "00") {
		return strings.TrimSuffix(code, "00")
	}
	return code
}

// VerificationURL builds the USITC search URL for a code.
func VerificationURL(code string) string {
	return searchBaseURL + "?query=" + url.QueryEscape(LinkCode(code))
}

// Chapter extracts the two-digit chapter prefix from a dot-delimited code.
// Used as a display fallback when the backend omits the chapter field.
func Chapter(code string) string {
	code = strings.TrimSpace(code)
	head, _, _ := strings.Cut(code, ".")
	if len(head) >= 2 {
		return head[:2]
	}
	return head
}
