package textutil

import "strings"

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileNamePart replaces filesystem-unsafe characters in a filename
// fragment. Slashes, backslashes, colons, and asterisks become underscores;
// other unsafe characters are removed. Runs of whitespace collapse to a
// single space and the result is trimmed.
func SanitizeFileNamePart(part string) string {
	part = strings.TrimSpace(part)
	if part == "" {
		return ""
	}
	return CollapseWhitespace(fileNameReplacer.Replace(part))
}

// CollapseWhitespace normalizes internal whitespace runs to single spaces and
// trims the boundaries.
func CollapseWhitespace(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
