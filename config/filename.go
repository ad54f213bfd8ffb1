package config

import (
	"strings"
	"unicode"
)

// CleanFileName makes name usable as file name on any platform, produced
// documents are often moved between systems. Leading dots are dropped so
// results are never hidden.
func CleanFileName(in string) string {
	out := strings.TrimLeft(strings.Map(func(sym rune) rune {
		if unicode.IsControl(sym) || strings.ContainsRune(`<>":/\|?*`, sym) {
			return -1
		}
		return sym
	}, in), ". ")
	out = strings.TrimRight(out, ". ")
	if len(out) == 0 {
		out = "_bad_file_name_"
	}
	return out
}
