package rag

import (
	"fmt"
	"strings"
)

// systemPrompt is the fixed forensic system prompt: evidence-only,
// mandatory citation, no probabilistic language, no guilt judgements,
// no contradiction resolution.
const systemPrompt = `You are a forensic evidence reporting system for law enforcement investigations.

CRITICAL RULES:
1. You MUST answer ONLY using the provided evidence.
2. You MUST NOT add facts that are not in the evidence.
3. You MUST NOT guess, assume, or infer beyond what is explicitly stated.
4. You MUST cite sources for every factual claim using [Source N] format.
5. If evidence is insufficient to answer, say so clearly.
6. You MUST NOT use probabilistic language like "likely", "probably", "might have".
7. You MUST NOT make guilt determinations or judgments.
8. You MUST NOT resolve contradictions - report them as found.

Your answers will be used in legal proceedings. Accuracy and citation are mandatory.`

// buildEvidenceContext assembles the three evidence sections: numbered
// retrieved chunks, known graph relationships, and the relevant
// timeline. Each chunk is rendered verbatim — never summarized.
func buildEvidenceContext(chunks []RetrievedChunk, facts []GraphFact, events []TimelineEventRef) string {
	var sections []string

	if len(chunks) > 0 {
		var chunkSection []string
		chunkSection = append(chunkSection, "RETRIEVED EVIDENCE:")
		for i, c := range chunks {
			speakerInfo := ""
			if c.Speaker != nil && *c.Speaker != "" {
				speakerInfo = fmt.Sprintf(" (Speaker: %s)", *c.Speaker)
			}
			chunkSection = append(chunkSection, fmt.Sprintf("\n[Source %d: %s]%s\n%q", i+1, c.ChunkID, speakerInfo, c.Text))
		}
		sections = append(sections, strings.Join(chunkSection, "\n"))
	}

	if len(facts) > 0 {
		factSection := []string{"\nKNOWN RELATIONSHIPS:"}
		for _, f := range facts {
			factSection = append(factSection, fmt.Sprintf("- %s %s %s", f.Subject, f.Predicate, f.Object))
		}
		sections = append(sections, strings.Join(factSection, "\n"))
	}

	if len(events) > 0 {
		eventSection := []string{"\nTIMELINE:"}
		for _, e := range events {
			eventSection = append(eventSection, fmt.Sprintf("- [%s] %s", e.Timestamp, e.Description))
		}
		sections = append(sections, strings.Join(eventSection, "\n"))
	}

	if len(sections) == 0 {
		return "No relevant evidence found."
	}
	return strings.Join(sections, "\n")
}

// truncateContext cuts the context at a configured token budget,
// backing off to the last complete [Source N] boundary rather than
// splitting a source mid-excerpt.
func truncateContext(context string, maxTokens int) string {
	const charsPerToken = 4
	maxChars := maxTokens * charsPerToken
	if len(context) <= maxChars {
		return context
	}

	truncated := context[:maxChars]
	if idx := strings.LastIndex(truncated, "\n[Source"); idx > 0 {
		truncated = truncated[:idx]
	}
	return truncated + "\n[Context truncated due to length]"
}

// formatLimitations combines every limitation source while
// deduplicating and preserving first-occurrence order.
func formatLimitations(groups ...[]string) []string {
	var all []string
	for _, g := range groups {
		all = append(all, g...)
	}

	seen := make(map[string]bool, len(all))
	var unique []string
	for _, lim := range all {
		if seen[lim] {
			continue
		}
		seen[lim] = true
		unique = append(unique, lim)
	}
	return unique
}

// buildUserPrompt builds the final user-role prompt: evidence
// context, the question, citation instructions, and any known
// limitations.
func buildUserPrompt(question, context string, limitations []string) string {
	parts := []string{
		"EVIDENCE CONTEXT:",
		context,
		"",
		"QUESTION:",
		question,
		"",
		"Provide a factual answer citing the sources provided. Each claim must reference a [Source N].",
	}

	if len(limitations) > 0 {
		parts = append(parts, "", "KNOWN LIMITATIONS:")
		for _, lim := range limitations {
			parts = append(parts, "- "+lim)
		}
	}
	return strings.Join(parts, "\n")
}
