package accounts

import (
	"regexp"
	"strings"
)

// EmailDomain is the fixed organizational domain of every derived address.
const EmailDomain = "biat-it.tn"

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizePart reduces a display-name fragment to its canonical form:
// lowercase ASCII letters and digits only. Total function, idempotent.
func NormalizePart(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return nonAlnum.ReplaceAllString(s, "")
}

// DeriveEmail returns the canonical address for the given names, e.g.
// DeriveEmail("Jane", "O'Doe") == "jane.odoe@biat-it.tn". It is applied on
// every save, overwriting whatever email the caller supplied.
func DeriveEmail(firstName, lastName string) string {
	return NormalizePart(firstName) + "." + NormalizePart(lastName) + "@" + EmailDomain
}
