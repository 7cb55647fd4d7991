package services

import "strconv"

// formatRupiah renders an amount in the smallest currency unit with
// dot thousands separators, e.g. 30000 -> "30.000".
func formatRupiah(amount int64) string {
	s := strconv.FormatInt(amount, 10)
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}

	n := len(s)
	if n <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}

	out := make([]byte, 0, n+n/3)
	head := n % 3
	if head > 0 {
		out = append(out, s[:head]...)
	}
	for i := head; i < n; i += 3 {
		if len(out) > 0 {
			out = append(out, '.')
		}
		out = append(out, s[i:i+3]...)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
