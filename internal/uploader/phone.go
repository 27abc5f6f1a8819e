package uploader

import "strings"

// Phone-number extraction is a naming convention, not a parse: handset
// recorder apps name files like "Call recording 9876543210_211006_085843.m4a".
// Both policies are deliberately literal about that format.

// ExtractPhoneNumber takes the third space-separated token of the first
// underscore-delimited segment of fileName, normalized via CleanNumber.
// Returns "" when the name does not follow the convention.
func ExtractPhoneNumber(fileName string) string {
	segment := strings.SplitN(fileName, "_", 2)[0]
	tokens := strings.Fields(segment)
	if len(tokens) < 3 {
		return ""
	}
	return CleanNumber(tokens[2])
}

// CleanNumber strips a leading "+91", else a leading "91", else a single
// leading "0" from raw.
func CleanNumber(raw string) string {
	switch {
	case strings.HasPrefix(raw, "+91"):
		return raw[3:]
	case strings.HasPrefix(raw, "91"):
		return raw[2:]
	case strings.HasPrefix(raw, "0"):
		return raw[1:]
	default:
		return raw
	}
}
