package cleaning

import (
	"log/slog"
	"time"

	"github.com/evidencegraph/forensic/parsing"
)

// Config controls semantic cleaning behavior.
type Config struct {
	// ReferenceDate anchors time-only timestamp normalization. Zero
	// value means "no reference date" (lower confidence, per P4 spec).
	ReferenceDate time.Time
	// RemoveOCRArtifacts toggles isolated OCR-artifact stripping.
	RemoveOCRArtifacts bool
}

// DefaultConfig returns the spec-mandated cleaning defaults.
func DefaultConfig() Config {
	return Config{RemoveOCRArtifacts: true}
}

// Result is the mandatory P4 output: one per input document.
type Result struct {
	DocumentID    string
	CaseID        string
	SourceFile    string
	CleanedBlocks []CleanedBlock
}

// Clean transforms a P3 parsing result into semantically cleaned
// blocks. Applies, per block and in order: encoding normalization,
// whitespace normalization, OCR-noise removal, timestamp
// normalization. Deterministic, no shared mutable state.
func Clean(result parsing.Result, cfg Config) Result {
	start := time.Now()

	cleaned := make([]CleanedBlock, 0, len(result.ParsedBlocks))
	for _, block := range result.ParsedBlocks {
		cleaned = append(cleaned, cleanBlock(block, cfg))
	}

	slog.Debug("cleaning: document cleaned",
		"document_id", result.DocumentID,
		"blocks", len(cleaned),
		"elapsed", time.Since(start))

	return Result{
		DocumentID:    result.DocumentID,
		CaseID:        result.CaseID,
		SourceFile:    result.SourceFile,
		CleanedBlocks: cleaned,
	}
}

func cleanBlock(block parsing.ParsedBlock, cfg Config) CleanedBlock {
	text := fixEncoding(block.Text)
	text = normalizeWhitespace(text)
	if cfg.RemoveOCRArtifacts {
		text = removeNoise(text)
	}

	normalizedTimestamps := make([]NormalizedTimestamp, 0, len(block.RawTimestamps))
	for _, raw := range block.RawTimestamps {
		normalizedTimestamps = append(normalizedTimestamps, NormalizeTimestamp(raw, cfg.ReferenceDate))
	}

	return CleanedBlock{
		BlockID:              block.BlockID,
		Page:                 block.Page,
		CleanText:            text,
		Confidence:           block.Confidence,
		Speaker:              block.Speaker,
		Section:              block.Section,
		IsHeader:             block.IsHeader,
		IsFooter:             block.IsFooter,
		RawTimestamps:        block.RawTimestamps,
		NormalizedTimestamps: normalizedTimestamps,
	}
}

// CleanText cleans a bare text snippet without a full block structure
// (encoding, whitespace, OCR-noise — no timestamp work, since there's
// no raw-timestamp list to normalize outside block context).
func CleanText(text string, removeOCRArtifacts bool) string {
	text = fixEncoding(text)
	text = normalizeWhitespace(text)
	if removeOCRArtifacts {
		text = removeNoise(text)
	}
	return text
}
