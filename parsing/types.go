// Package parsing implements P3 structural parsing: it identifies
// form, not meaning. Header/footer tagging, section assignment,
// speaker extraction, and raw timestamp spotting are all pattern
// matching — no summarization, interpretation, or inference. The only
// change made to a block's text is that a leading speaker label is
// moved out of it into the block's Speaker field.
package parsing

// ContentBlock is one block of pre-extracted document content — the
// input shape this stage consumes. It is produced by an external
// collaborator (the raw document extractor) outside this module.
type ContentBlock struct {
	BlockID    string
	Page       int
	Text       string
	Confidence float64
}

// Document groups a document's content blocks under their case and
// document identifiers.
type Document struct {
	DocumentID string
	CaseID     string
	SourceFile string
	Blocks     []ContentBlock
}

// ParsedBlock is a ContentBlock after structural parsing: the speaker
// label (if any) stripped from the text and recorded separately,
// header/footer flags, the current section, and raw timestamp spans.
type ParsedBlock struct {
	BlockID       string
	Page          int
	Text          string
	Confidence    float64
	Speaker       *string
	IsHeader      bool
	IsFooter      bool
	Section       *string
	RawTimestamps []string
}

// Result is the mandatory P3 output: one per input document.
type Result struct {
	DocumentID   string
	CaseID       string
	SourceFile   string
	ParsedBlocks []ParsedBlock
}
