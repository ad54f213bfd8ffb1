package common

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

func compact(in string) string {
	s := strings.TrimSpace(in)
	// Be forgiving about common separators.
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '-' || unicode.IsSpace(r):
			return -1
		default:
			return r
		}
	}, s)
	return strings.ToUpper(s)
}

// NormalizeISBN removes separators and verifies ISBN-10 or ISBN-13 check digit.
func NormalizeISBN(in string) (string, error) {
	s := strings.TrimPrefix(compact(in), "ISBN")
	switch len(s) {
	case 10:
		sum := 0
		for i := range 10 {
			c := s[i]
			var d int
			switch {
			case c >= '0' && c <= '9':
				d = int(c - '0')
			case c == 'X' && i == 9:
				d = 10
			default:
				return "", fmt.Errorf("isbn must be digits with optional trailing X, got %q", c)
			}
			sum += (10 - i) * d
		}
		if sum%11 != 0 {
			return "", fmt.Errorf("isbn-10 %s has wrong check digit", s)
		}
	case 13:
		if !strings.HasPrefix(s, "978") && !strings.HasPrefix(s, "979") {
			return "", fmt.Errorf("isbn-13 must start with 978 or 979, got %s", s[:3])
		}
		sum := 0
		for i := range 13 {
			c := s[i]
			if c < '0' || c > '9' {
				return "", fmt.Errorf("isbn-13 must be digits only, got %q", c)
			}
			w := 1
			if i%2 == 1 {
				w = 3
			}
			sum += w * int(c-'0')
		}
		if sum%10 != 0 {
			return "", fmt.Errorf("isbn-13 %s has wrong check digit", s)
		}
	default:
		return "", fmt.Errorf("isbn must be 10 or 13 characters, got %d", len(s))
	}
	return s, nil
}

// NormalizeISSN returns ISSN in its canonical NNNN-NNNC form after verifying
// check digit.
func NormalizeISSN(in string) (string, error) {
	s := strings.TrimPrefix(compact(in), "ISSN")
	if len(s) != 8 {
		return "", fmt.Errorf("issn must be 8 characters, got %d", len(s))
	}
	sum := 0
	for i := range 8 {
		c := s[i]
		var d int
		switch {
		case c >= '0' && c <= '9':
			d = int(c - '0')
		case c == 'X' && i == 7:
			d = 10
		default:
			return "", fmt.Errorf("issn must be digits with optional trailing X, got %q", c)
		}
		sum += (8 - i) * d
	}
	if sum%11 != 0 {
		return "", fmt.Errorf("issn %s has wrong check digit", s)
	}
	return s[:4] + "-" + s[4:], nil
}

var doiRe = regexp.MustCompile(`^10\.\d{4,9}/\S+$`)

// NormalizeDOI strips resolver prefixes and checks DOI syntax.
func NormalizeDOI(in string) (string, error) {
	s := strings.TrimSpace(in)
	for _, p := range []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/", "http://dx.doi.org/", "doi:"} {
		if len(s) >= len(p) && strings.EqualFold(s[:len(p)], p) {
			s = s[len(p):]
			break
		}
	}
	if !doiRe.MatchString(s) {
		return "", fmt.Errorf("doi %q does not match 10.NNNN/suffix", in)
	}
	return s, nil
}
