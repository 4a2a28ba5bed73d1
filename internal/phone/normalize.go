package phone

import "strings"

var stripper = strings.NewReplacer("-", "", " ", "", "(", "", ")", "")

// Normalize converts a raw phone string into a dialable E.164-ish form.
//
// This is a best-effort heuristic for US numbers, not validation:
// - 10 digits get a +1 country code
// - 11 digits starting with 1 get a leading +
// - anything else without a leading + gets one prepended
//
// An empty input yields an empty output.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	s := stripper.Replace(raw)
	switch {
	case len(s) == 10 && allDigits(s):
		return "+1" + s
	case len(s) == 11 && s[0] == '1' && allDigits(s):
		return "+" + s
	case !strings.HasPrefix(s, "+"):
		return "+" + s
	default:
		return s
	}
}

// Digits counts the decimal digits in s.
func Digits(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			n++
		}
	}
	return n
}

func allDigits(s string) bool {
	return s != "" && Digits(s) == len(s)
}
