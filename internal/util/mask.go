package util

import "strings"

// MaskEmail reduce un email a una forma apta para logs: conserva la primera
// letra del usuario y del dominio ("m…@r….dev"). Entradas sin '@' también se
// truncan para no filtrar identificadores.
func MaskEmail(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	at := strings.IndexByte(s, '@')
	if at <= 0 {
		switch {
		case s == "":
			return ""
		case len(s) <= 3:
			return "***"
		default:
			return s[:1] + "…" + s[len(s)-1:]
		}
	}
	local := s[:at]
	if len(local) > 1 {
		local = local[:1] + "…"
	}
	domain := strings.Split(s[at+1:], ".")
	if len(domain[0]) > 1 {
		domain[0] = domain[0][:1] + "…"
	}
	return local + "@" + strings.Join(domain, ".")
}
