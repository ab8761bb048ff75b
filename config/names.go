package config

import (
	"strings"
	"unicode"
)

// badFileName replaces names which end up empty after cleaning.
const badFileName = "_unnamed_"

// CleanFileName makes result file name out of stylesheet base name: path and
// list separators, control and platform specific characters are dropped,
// leading dots are removed so results never become hidden files.
func CleanFileName(in string) string {
	out := strings.Map(func(sym rune) rune {
		if unicode.IsControl(sym) || strings.ContainsRune(forbiddenChars, sym) {
			return -1
		}
		return sym
	}, in)
	out = trimName(strings.TrimLeft(out, "."))
	if len(out) == 0 {
		return badFileName
	}
	if reservedName(out) {
		return "_" + out
	}
	return out
}
