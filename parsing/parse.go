package parsing

import (
	"log/slog"
	"time"

	"github.com/evidencegraph/forensic/timegrammar"
)

// Config controls structural parsing thresholds.
type Config struct {
	// MinPageRepetition is the minimum number of distinct pages a line
	// must repeat on before it's classified as running header/footer.
	MinPageRepetition int
	// MaxSectionHeaderLength caps how long a candidate header line may be.
	MaxSectionHeaderLength int
}

// DefaultConfig returns the spec-mandated parsing defaults.
func DefaultConfig() Config {
	return Config{MinPageRepetition: 2, MaxSectionHeaderLength: 50}
}

// Parse transforms a document's content blocks into structurally
// parsed blocks: header/footer tags, section assignment, speaker
// extraction, and raw timestamp spans. Deterministic, no shared
// mutable state across calls.
func Parse(doc Document, cfg Config) Result {
	start := time.Now()
	if len(doc.Blocks) == 0 {
		return Result{DocumentID: doc.DocumentID, CaseID: doc.CaseID, SourceFile: doc.SourceFile}
	}

	headerFooter := detectHeadersFooters(doc.Blocks, cfg.MinPageRepetition)
	sections := assignSections(doc.Blocks, cfg.MaxSectionHeaderLength)

	parsed := make([]ParsedBlock, 0, len(doc.Blocks))
	for _, b := range doc.Blocks {
		hf := headerFooter[b.BlockID]
		section := sections[b.BlockID]

		speakerResult := detectSpeaker(b.Text)
		var speaker *string
		if speakerResult.speaker != nil {
			normalized := normalizeSpeakerName(*speakerResult.speaker)
			speaker = &normalized
		}

		rawTimestamps := extractRawTimestamps(speakerResult.cleanedText)

		parsed = append(parsed, ParsedBlock{
			BlockID:       b.BlockID,
			Page:          b.Page,
			Text:          speakerResult.cleanedText,
			Confidence:    b.Confidence,
			Speaker:       speaker,
			IsHeader:      hf.isHeader,
			IsFooter:      hf.isFooter,
			Section:       section,
			RawTimestamps: rawTimestamps,
		})
	}

	slog.Debug("parsing: document parsed",
		"document_id", doc.DocumentID,
		"blocks", len(doc.Blocks),
		"elapsed", time.Since(start))

	return Result{
		DocumentID:   doc.DocumentID,
		CaseID:       doc.CaseID,
		SourceFile:   doc.SourceFile,
		ParsedBlocks: parsed,
	}
}

// extractRawTimestamps returns the raw timestamp text of every span
// the shared grammar finds, in order of appearance, with no
// interpretation performed.
func extractRawTimestamps(text string) []string {
	spans := timegrammar.Extract(text)
	out := make([]string, 0, len(spans))
	for _, s := range spans {
		out = append(out, s.Text)
	}
	return out
}
