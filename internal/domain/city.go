package domain

import "strings"

// CityMatches is the tolerant matching policy used to offer requests to workers:
// case-insensitive, and a request city matches when it equals, contains, or is
// contained by the worker's city ("Delhi" matches "New Delhi" and "New Delhi NCR").
// An empty request or query city never matches.
func CityMatches(requestCity, queryCity string) bool {
	rc := strings.ToLower(strings.TrimSpace(requestCity))
	qc := strings.ToLower(strings.TrimSpace(queryCity))
	if rc == "" || qc == "" {
		return false
	}
	return rc == qc || strings.Contains(rc, qc) || strings.Contains(qc, rc)
}
