package domain

import "strings"

const unknownDescription = "Unknown"

// FailureCategory groups load failures for display.
type FailureCategory string

// Failure categories, matched from the failure text.
const (
	FailureNetwork             FailureCategory = "network"
	FailureNotFound            FailureCategory = "not_found"
	FailureAccessDenied        FailureCategory = "access_denied"
	FailureUpstreamUnavailable FailureCategory = "upstream_unavailable"
	FailureSecurity            FailureCategory = "security"
	FailureFormat              FailureCategory = "format"
	FailureUnknown             FailureCategory = "unknown"
)

// failureMatchers is checked in order; the first matching substring wins.
var failureMatchers = []struct {
	category FailureCategory
	needles  []string
}{
	{FailureNotFound, []string{"http 404", "not found", "no such file"}},
	{FailureAccessDenied, []string{"http 401", "http 403", "forbidden", "unauthorized", "permission denied"}},
	{FailureUpstreamUnavailable, []string{
		"http 500", "http 502", "http 503", "http 504", "service unavailable", "bad gateway",
	}},
	{FailureSecurity, []string{"cors", "x509", "certificate", "tls:"}},
	{FailureFormat, []string{"parse", "format", "unsupported source scheme", "no data rows", "empty document"}},
	{FailureNetwork, []string{
		"network", "connection refused", "connection reset", "no such host", "timeout", "deadline exceeded", "dial tcp", "eof",
	}},
}

// ClassifyFailure maps a failure description to a category by substring matching.
func ClassifyFailure(message string) FailureCategory {
	if message == "" {
		return FailureUnknown
	}
	lower := strings.ToLower(message)
	for _, m := range failureMatchers {
		for _, needle := range m.needles {
			if strings.Contains(lower, needle) {
				return m.category
			}
		}
	}
	return FailureUnknown
}

// Description returns a human-readable description of the category.
func (c FailureCategory) Description() string {
	switch c {
	case FailureNetwork:
		return "Network error"
	case FailureNotFound:
		return "Sheet not found"
	case FailureAccessDenied:
		return "Access denied"
	case FailureUpstreamUnavailable:
		return "Source temporarily unavailable"
	case FailureSecurity:
		return "Security error"
	case FailureFormat:
		return "Unexpected data format"
	default:
		return unknownDescription
	}
}

// Hint suggests what the user can do about the failure.
func (c FailureCategory) Hint() string {
	switch c {
	case FailureNetwork:
		return "Check your connection and retry."
	case FailureNotFound:
		return "Check the sheet URL in your settings."
	case FailureAccessDenied:
		return "Publish the sheet to the web or share it publicly."
	case FailureUpstreamUnavailable:
		return "The sheet host is having trouble, retry in a few minutes."
	case FailureSecurity:
		return "The source could not be reached securely."
	case FailureFormat:
		return "Make sure the sheet is exported as CSV with a header row."
	default:
		return "Retry, or run with --verbose for details."
	}
}
