package password

import "unicode"

type Policy struct {
	MinLength     int
	RequireLetter bool
	RequireDigit  bool
}

// DefaultPolicy: mínimo 8 caracteres, al menos una letra y un número.
var DefaultPolicy = Policy{MinLength: 8, RequireLetter: true, RequireDigit: true}

func (p Policy) Validate(s string) (ok bool, reasons []string) {
	if len([]rune(s)) < p.MinLength {
		reasons = append(reasons, "too_short")
	}
	var hasL, hasD bool
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			hasL = true
		case unicode.IsDigit(r):
			hasD = true
		}
	}
	if p.RequireLetter && !hasL {
		reasons = append(reasons, "missing_letter")
	}
	if p.RequireDigit && !hasD {
		reasons = append(reasons, "missing_digit")
	}
	return len(reasons) == 0, reasons
}
