package mapper

import (
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

var (
	countriesOnce sync.Once
	countries     map[string]language.Region
)

func countryNames() map[string]language.Region {
	countriesOnce.Do(func() {
		countries = make(map[string]language.Region)
		namers := []display.Namer{display.Regions(language.English), display.Regions(language.French)}
		for a := 'A'; a <= 'Z'; a++ {
			for b := 'A'; b <= 'Z'; b++ {
				r, err := language.ParseRegion(string([]rune{a, b}))
				if err != nil || !r.IsCountry() {
					continue
				}
				// reserved codes (FX) share names with their canonical region
				r = r.Canonicalize()
				for _, n := range namers {
					name := foldName(n.Name(r))
					if _, seen := countries[name]; len(name) > 0 && !seen {
						countries[name] = r
					}
				}
			}
		}
	})
	return countries
}

func foldName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Country returns ISO 3166 alpha-2 code and English name for country given as
// code or as English or French name.
func Country(in string) (string, string, bool) {
	in = strings.TrimSpace(in)
	if len(in) == 0 {
		return "", "", false
	}
	var (
		r  language.Region
		ok bool
	)
	if len(in) == 2 || len(in) == 3 {
		if reg, err := language.ParseRegion(in); err == nil && reg.IsCountry() {
			r, ok = reg.Canonicalize(), true
		}
	}
	if !ok {
		r, ok = countryNames()[foldName(in)]
	}
	if !ok {
		return "", "", false
	}
	return r.String(), display.Regions(language.English).Name(r), true
}

// countryFromAddress tries comma separated parts of free form address
// starting from the last one.
func countryFromAddress(addr string) (string, string, bool) {
	parts := strings.Split(addr, ",")
	for i := len(parts) - 1; i >= 0; i-- {
		if code, name, ok := Country(parts[i]); ok {
			return code, name, true
		}
	}
	return "", "", false
}
