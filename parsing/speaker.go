package parsing

import (
	"regexp"
	"strings"
)

// speakerPattern pairs a regex with the submatch index carrying the
// speaker name. Order matters: more specific patterns run first, the
// generic ALL-CAPS fallback runs last.
type speakerPattern struct {
	re    *regexp.Regexp
	group int
}

var speakerPatterns = []speakerPattern{
	{regexp.MustCompile(`(?i)^((?:DET\.?|DETECTIVE|OFFICER|OFC\.?|SGT\.?|SERGEANT|LT\.?|LIEUTENANT|CPT\.?|CAPTAIN|CHIEF|DEPUTY|AGENT|INSPECTOR|INVESTIGATOR)\s+[A-Z][A-Z\s.\-']+)\s*:\s*`), 1},
	{regexp.MustCompile(`(?i)^((?:MR\.?|MRS\.?|MS\.?|MISS|DR\.?|PROF\.?|JUDGE|HON\.?|THE\s+HONORABLE)\s+[A-Z][A-Z\s.\-']+)\s*:\s*`), 1},
	{regexp.MustCompile(`(?i)^(THE\s+(?:COURT|WITNESS|DEFENDANT|PLAINTIFF|PROSECUTOR|DEFENSE|STATE|GOVERNMENT|ACCUSED))\s*:\s*`), 1},
	{regexp.MustCompile(`(?i)^(WITNESS|VICTIM|SUSPECT|COMPLAINANT|DEFENDANT|PLAINTIFF|PROSECUTOR|ATTORNEY|COUNSEL|CLERK|BAILIFF|REPORTER)\s*:\s*`), 1},
	{regexp.MustCompile(`(?i)^(WITNESS\s*#?\d+)\s*:\s*`), 1},
	{regexp.MustCompile(`(?i)^([QA])\s*[.:]\s*`), 1},
	{regexp.MustCompile(`^([A-Z][A-Z\s.\-']{1,30})\s*:\s*`), 1},
}

var abbreviationOrder = []struct{ abbrev, full string }{
	{"DET ", "DETECTIVE "},
	{"OFC ", "OFFICER "},
	{"SGT ", "SERGEANT "},
	{"LT ", "LIEUTENANT "},
	{"CPT ", "CAPTAIN "},
	{"DR ", "DR. "},
	{"MR ", "MR. "},
	{"MRS ", "MRS. "},
	{"MS ", "MS. "},
	{"HON ", "HONORABLE "},
}

type speakerDetection struct {
	speaker     *string
	cleanedText string
}

// detectSpeaker finds a speaker label at the start of text and
// returns it separately from the remaining text. Labels must appear
// at the very start of the block.
func detectSpeaker(text string) speakerDetection {
	stripped := strings.TrimSpace(text)
	if stripped == "" {
		return speakerDetection{speaker: nil, cleanedText: text}
	}

	for _, sp := range speakerPatterns {
		loc := sp.re.FindStringSubmatchIndex(stripped)
		if loc == nil {
			continue
		}
		groupStart, groupEnd := loc[2*sp.group], loc[2*sp.group+1]
		speaker := strings.ToUpper(strings.Join(strings.Fields(strings.TrimSpace(stripped[groupStart:groupEnd])), " "))
		remaining := strings.TrimSpace(stripped[loc[1]:])
		return speakerDetection{speaker: &speaker, cleanedText: remaining}
	}

	return speakerDetection{speaker: nil, cleanedText: text}
}

// normalizeSpeakerName expands common rank/title abbreviations so
// "DET SMITH" and "DETECTIVE SMITH" collapse to one canonical form.
// Only the undotted abbreviation followed by a space is expanded; a
// dotted form such as "DET. SMITH" is kept as written.
func normalizeSpeakerName(speaker string) string {
	if speaker == "" {
		return speaker
	}
	normalized := strings.ToUpper(strings.TrimSpace(speaker))
	for _, a := range abbreviationOrder {
		if strings.HasPrefix(normalized, a.abbrev) {
			normalized = a.full + normalized[len(a.abbrev):]
			break
		}
	}
	return normalized
}
