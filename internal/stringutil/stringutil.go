package stringutil

// EqualStringsASCIIIgnoreCase reports whether s1 and s2 are equal under ASCII case folding. Bytes outside of
// the A-Z and a-z ranges must match exactly. Used to decode boolean path segments without allocating.
func EqualStringsASCIIIgnoreCase(s1, s2 string) bool {
	// Easy case.
	if len(s1) != len(s2) {
		return false
	}
	for i := 0; i < len(s1); i++ {
		if !EqualASCIIIgnoreCase(s1[i], s2[i]) {
			return false
		}
	}
	return true
}

// EqualASCIIIgnoreCase performs case-insensitive comparison of two ASCII bytes.
func EqualASCIIIgnoreCase(s, t uint8) bool {
	// Easy case.
	if t == s {
		return true
	}

	// Make s < t to simplify what follows.
	if t < s {
		t, s = s, t
	}

	// ASCII only, s/t must be upper/lower case
	if 'A' <= s && s <= 'Z' && t == s+'a'-'A' {
		return true
	}

	return false
}
