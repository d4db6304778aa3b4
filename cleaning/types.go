// Package cleaning implements P4 semantic cleaning: encoding, whitespace,
// and OCR-noise normalization plus timestamp normalization to ISO-8601.
// It cleans text; it never understands it — no summarization, no NLP,
// no inference. Same input always produces the same output.
package cleaning

// NormalizedTimestamp is a timestamp normalized to ISO-8601, or a null
// ISO with low confidence when normalization is ambiguous.
type NormalizedTimestamp struct {
	Original   string  `json:"original"`
	ISO        *string `json:"iso"`
	Confidence float64 `json:"confidence"`
}

// CleanedBlock is a P3 parsed block after semantic cleaning.
type CleanedBlock struct {
	BlockID               string                `json:"block_id"`
	Page                  int                   `json:"page"`
	CleanText             string                `json:"clean_text"`
	Confidence            float64               `json:"confidence"`
	Speaker               *string               `json:"speaker"`
	Section               *string               `json:"section"`
	IsHeader              bool                  `json:"is_header"`
	IsFooter              bool                  `json:"is_footer"`
	RawTimestamps         []string              `json:"raw_timestamps"`
	NormalizedTimestamps  []NormalizedTimestamp `json:"normalized_timestamps"`
}
