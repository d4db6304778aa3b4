package forensic

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds all configuration for the forensic evidence-graph engine.
// Every sub-struct maps to one pipeline stage; defaults mirror spec.md §6.
type Config struct {
	// DBPath is the full path to the SQLite database file. If empty,
	// defaults to ~/.forensic/<DBName>.db
	DBPath string `json:"db_path" yaml:"db_path"`

	// DBName names the database when DBPath is empty. Defaults to "forensic".
	DBName string `json:"db_name" yaml:"db_name"`

	// StorageDir controls where the database is created when DBPath is
	// not explicitly set: "home" (default) uses ~/.forensic/, "local"
	// uses the current working directory.
	StorageDir string `json:"storage_dir" yaml:"storage_dir"`

	Parsing   ParsingConfig   `json:"parsing" yaml:"parsing"`
	Cleaning  CleaningConfig  `json:"cleaning" yaml:"cleaning"`
	Chunking  ChunkingConfig  `json:"chunking" yaml:"chunking"`
	NER       NERConfig       `json:"ner" yaml:"ner"`
	Vector    VectorConfig    `json:"vector" yaml:"vector"`
	Graph     GraphConfig     `json:"graph" yaml:"graph"`
	Timeline  TimelineConfig  `json:"timeline" yaml:"timeline"`
	RAG       RAGConfig       `json:"rag" yaml:"rag"`

	// Chat is the LLM used exclusively by the P11 synthesis step.
	Chat LLMConfig `json:"chat" yaml:"chat"`

	// Embedding is the model used exclusively by the P7 vectorization step.
	Embedding LLMConfig `json:"embedding" yaml:"embedding"`
}

// LLMConfig configures a single injected-capability endpoint.
type LLMConfig struct {
	Provider string `json:"provider" yaml:"provider"`
	Model    string `json:"model" yaml:"model"`
	BaseURL  string `json:"base_url" yaml:"base_url"`
	APIKey   string `json:"api_key" yaml:"api_key"`
}

// ParsingConfig controls P3 structural parsing.
type ParsingConfig struct {
	// MinPageRepetition is the minimum number of pages a candidate line
	// must repeat on before it is classified as a running header/footer.
	MinPageRepetition int `json:"min_page_repetition" yaml:"min_page_repetition"`
}

// CleaningConfig controls P4 semantic cleaning.
type CleaningConfig struct {
	// ReferenceDate anchors time-only timestamps ("3:00 PM" with no
	// date) during normalization. Zero value means "no reference date",
	// which lowers confidence per spec §4.2.
	ReferenceDate time.Time `json:"reference_date" yaml:"reference_date"`
}

// ChunkingConfig controls P5 logical chunking.
type ChunkingConfig struct {
	// MaxTokens is the token ceiling before an oversized block is split.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`
}

// NERConfig controls P6 entity annotation.
type NERConfig struct {
	// StatisticalConfidence is not passed on to P6: the engine runs ner
	// with its default config, which assigns a fixed 0.85 to spans
	// produced by the injected statistical labeler.
	StatisticalConfidence float64 `json:"statistical_confidence" yaml:"statistical_confidence"`
}

// VectorConfig controls P7 vector embedding and indexing.
type VectorConfig struct {
	// IndexType names the nearest-neighbor index variant, "Flat" or
	// "IVF". vectorindex does not read it; search is always exact vec0 KNN.
	IndexType string `json:"index_type" yaml:"index_type"`
	// Dimension is the embedding vector width; must match the injected model.
	Dimension int `json:"dimension" yaml:"dimension"`
}

// GraphConfig controls P8 knowledge graph construction.
type GraphConfig struct {
	// Concurrency bounds the number of chunks processed in parallel.
	Concurrency int `json:"concurrency" yaml:"concurrency"`
}

// TimelineConfig controls P9 timeline reconstruction.
type TimelineConfig struct {
	// GapThresholdMinutes is the minimum gap duration reported at all.
	GapThresholdMinutes int `json:"gap_threshold_minutes" yaml:"gap_threshold_minutes"`
	// SignificantGapMinutes is the threshold above which a gap is
	// classified SIGNIFICANT rather than MODERATE.
	SignificantGapMinutes int `json:"significant_gap_minutes" yaml:"significant_gap_minutes"`
}

// RAGConfig controls P11 evidence-bound answering.
type RAGConfig struct {
	TopK                   int     `json:"top_k" yaml:"top_k"`
	MinScore               float64 `json:"min_score" yaml:"min_score"`
	IncludeGraph           bool    `json:"include_graph" yaml:"include_graph"`
	IncludeTimeline        bool    `json:"include_timeline" yaml:"include_timeline"`
	IncludeContradictions  bool    `json:"include_contradictions" yaml:"include_contradictions"`
	MaxContextTokens       int     `json:"max_context_tokens" yaml:"max_context_tokens"`
	// QueryTimeout bounds the whole answer_query call per spec §5.
	QueryTimeout time.Duration `json:"query_timeout" yaml:"query_timeout"`
}

// DefaultConfig returns a Config with the defaults spec.md §6 specifies.
func DefaultConfig() Config {
	return Config{
		DBName:     "forensic",
		StorageDir: "home",
		Parsing: ParsingConfig{
			MinPageRepetition: 2,
		},
		Cleaning: CleaningConfig{},
		Chunking: ChunkingConfig{
			MaxTokens: 512,
		},
		NER: NERConfig{
			StatisticalConfidence: 0.85,
		},
		Vector: VectorConfig{
			IndexType: "Flat",
			Dimension: 768,
		},
		Graph: GraphConfig{
			Concurrency: 8,
		},
		Timeline: TimelineConfig{
			GapThresholdMinutes:   60,
			SignificantGapMinutes: 120,
		},
		RAG: RAGConfig{
			TopK:                  5,
			MinScore:              0.0,
			IncludeGraph:          true,
			IncludeTimeline:       true,
			IncludeContradictions: true,
			MaxContextTokens:      3000,
			QueryTimeout:          30 * time.Second,
		},
		Chat: LLMConfig{
			Provider: "ollama",
			Model:    "llama3.1:8b",
			BaseURL:  "http://localhost:11434",
		},
		Embedding: LLMConfig{
			Provider: "ollama",
			Model:    "nomic-embed-text",
			BaseURL:  "http://localhost:11434",
		},
	}
}

// resolveStorageDir computes the final database path from config fields.
func (c *Config) resolveStorageDir() string {
	if c.DBPath != "" {
		return c.DBPath
	}

	name := c.DBName
	if name == "" {
		name = "forensic"
	}

	switch c.StorageDir {
	case "local", "cwd":
		return name + ".db"
	default: // "home" or empty
		home, err := os.UserHomeDir()
		if err != nil {
			return name + ".db"
		}
		dir := filepath.Join(home, ".forensic")
		return filepath.Join(dir, name+".db")
	}
}
