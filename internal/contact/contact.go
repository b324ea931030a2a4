// Package contact normalizes and validates local 10-digit phone numbers.
// The backend stores contacts without the leading "0"; the UI always
// displays and validates them with it. These helpers are the single place
// where that conversion happens.
package contact

import "strings"

// NormalizeForCompare strips a single leading "0" if present. Used only for
// equality comparisons, never for display.
func NormalizeForCompare(phone string) string {
	if strings.HasPrefix(phone, "0") {
		return phone[1:]
	}
	return phone
}

// EnsureLeadingZero converts a backend-format contact back to display
// format. Nine digits always gain the zero, so numbers whose stored part
// itself begins with "0" round-trip through NormalizeForCompare; anything
// else is prefixed only when it does not already start with "0". Empty
// input stays empty.
func EnsureLeadingZero(phone string) string {
	if isNineDigits(phone) {
		return "0" + phone
	}
	if phone == "" || strings.HasPrefix(phone, "0") {
		return phone
	}
	return "0" + phone
}

func isNineDigits(phone string) bool {
	if len(phone) != 9 {
		return false
	}
	for i := 0; i < len(phone); i++ {
		if phone[i] < '0' || phone[i] > '9' {
			return false
		}
	}
	return true
}

// ForBackend converts a display-format contact to the backend's stored
// format by stripping the single leading zero.
func ForBackend(phone string) string {
	return NormalizeForCompare(phone)
}

// Valid reports whether a contact field is acceptable: empty, or exactly
// "0" followed by nine digits.
func Valid(phone string) bool {
	if phone == "" {
		return true
	}
	if len(phone) != 10 || phone[0] != '0' {
		return false
	}
	for i := 1; i < len(phone); i++ {
		if phone[i] < '0' || phone[i] > '9' {
			return false
		}
	}
	return true
}

// AtLeastOne reports whether at least one of the two contact fields is
// filled in, which every sale requires before submission.
func AtLeastOne(contact01, contact02 string) bool {
	return contact01 != "" || contact02 != ""
}
