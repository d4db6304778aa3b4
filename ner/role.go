package ner

// RoleFromSpeaker derives a PERSON entity's case role from the speaker
// label attached to its source chunk. WITNESS, SUSPECT, and VICTIM
// match as case-insensitive substrings; any of OFFICER, DETECTIVE, or DET collapse
// to the single role OFFICER. A speaker matching none of these, or a
// nil speaker, yields no role.
func RoleFromSpeaker(speaker *string) *string {
	if speaker == nil {
		return nil
	}
	s := *speaker

	switch {
	case containsASCII(s, "WITNESS"):
		return strPtr("WITNESS")
	case containsASCII(s, "SUSPECT"):
		return strPtr("SUSPECT")
	case containsASCII(s, "VICTIM"):
		return strPtr("VICTIM")
	case containsASCII(s, "OFFICER"), containsASCII(s, "DETECTIVE"), containsASCII(s, "DET"):
		return strPtr("OFFICER")
	}
	return nil
}

func strPtr(s string) *string { return &s }

func containsASCII(haystack, needle string) bool {
	return indexASCII(toLowerASCII(haystack), toLowerASCII(needle)) >= 0
}
