package ner

import "regexp"

type ruleMatch struct {
	entityType EntityType
	text       string
	startChar  int
	endChar    int
	confidence float64
}

var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\(\d{3}\)\s*\d{3}[-.\s]?\d{4}`),
	regexp.MustCompile(`\+\d{1,3}[-.\s]?\d{1,4}[-.\s]?\d{1,4}[-.\s]?\d{1,9}`),
	regexp.MustCompile(`\b\d{3}[-.\s]\d{3}[-.\s]\d{4}\b`),
}

var addressPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b\d+\s+[A-Za-z0-9\s]+\b(?:Street|St\.?|Avenue|Ave\.?|Road|Rd\.?|Boulevard|Blvd\.?|Drive|Dr\.?|Lane|Ln\.?|Court|Ct\.?|Place|Pl\.?|Way|Circle|Cir\.?)\b`),
	regexp.MustCompile(`(?i)\bP\.?O\.?\s*Box\s*\d+\b`),
}

var weaponKeywords = []string{
	"gun", "pistol", "revolver", "rifle", "shotgun", "firearm", "knife", "blade",
	"dagger", "machete", "sword", "bat", "baseball bat", "club", "hammer", "axe",
	"crowbar", "brass knuckles", "taser", "stun gun", "pepper spray", "mace",
}

var evidenceKeywords = []string{
	"fingerprint", "fingerprints", "dna", "blood", "hair", "fiber", "fibers",
	"footprint", "footprints", "shell casing", "shell casings", "bullet", "bullets",
	"cufflink", "cufflinks", "wallet", "id card", "driver's license", "license plate",
	"surveillance", "cctv", "camera", "photograph", "photographs", "document",
	"receipt", "phone records", "text messages", "email", "emails",
}

const (
	phoneConfidence    = 0.85
	addressConfidence  = 0.80
	weaponConfidence   = 0.90
	evidenceConfidence = 0.85
)

func extractPhones(text string) []ruleMatch {
	var matches []ruleMatch
	seen := make(map[[2]int]bool)
	for _, p := range phonePatterns {
		for _, loc := range p.FindAllStringIndex(text, -1) {
			start, end := loc[0], loc[1]
			if end-start < 7 {
				continue
			}
			span := [2]int{start, end}
			if seen[span] {
				continue
			}
			seen[span] = true
			matches = append(matches, ruleMatch{EntityPhone, text[start:end], start, end, phoneConfidence})
		}
	}
	return matches
}

func extractAddresses(text string) []ruleMatch {
	var matches []ruleMatch
	seen := make(map[[2]int]bool)
	for _, p := range addressPatterns {
		for _, loc := range p.FindAllStringIndex(text, -1) {
			start, end := loc[0], loc[1]
			span := [2]int{start, end}
			if seen[span] {
				continue
			}
			seen[span] = true
			matches = append(matches, ruleMatch{EntityAddress, text[start:end], start, end, addressConfidence})
		}
	}
	return matches
}

func extractKeywordSpans(text string, keywords []string, entityType EntityType, confidence float64) []ruleMatch {
	lower := toLowerASCII(text)
	var matches []ruleMatch
	for _, kw := range keywords {
		start := 0
		for {
			idx := indexASCII(lower[start:], kw)
			if idx < 0 {
				break
			}
			absStart := start + idx
			absEnd := absStart + len(kw)
			if isWordBoundaryMatch(text, absStart, absEnd) {
				matches = append(matches, ruleMatch{entityType, text[absStart:absEnd], absStart, absEnd, confidence})
			}
			start = absStart + len(kw)
		}
	}
	return matches
}

func extractWeapons(text string) []ruleMatch {
	return extractKeywordSpans(text, weaponKeywords, EntityWeapon, weaponConfidence)
}

func extractEvidence(text string) []ruleMatch {
	return extractKeywordSpans(text, evidenceKeywords, EntityEvidence, evidenceConfidence)
}

// extractAllRuleBased runs every closed-vocabulary extractor and
// returns matches sorted by start position, exactly as the reference
// extractor does.
func extractAllRuleBased(text string) []ruleMatch {
	var all []ruleMatch
	all = append(all, extractPhones(text)...)
	all = append(all, extractAddresses(text)...)
	all = append(all, extractWeapons(text)...)
	all = append(all, extractEvidence(text)...)

	for i := 1; i < len(all); i++ {
		for j := i; j > 0 && all[j-1].startChar > all[j].startChar; j-- {
			all[j-1], all[j] = all[j], all[j-1]
		}
	}
	return all
}

func isWordBoundaryMatch(text string, start, end int) bool {
	if start > 0 && isAlnum(text[start-1]) {
		return false
	}
	if end < len(text) && isAlnum(text[end]) {
		return false
	}
	return true
}

func isAlnum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func toLowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 32
		}
	}
	return string(b)
}

func indexASCII(haystack, needle string) int {
	n := len(needle)
	if n == 0 || n > len(haystack) {
		return -1
	}
	for i := 0; i+n <= len(haystack); i++ {
		if haystack[i:i+n] == needle {
			return i
		}
	}
	return -1
}
