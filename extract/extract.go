// Package extract adapts the teacher's format-specific file parsers
// (PDF/DOCX/XLSX/PPTX, in parser/) to the ContentBlock input shape P3
// structural parsing expects. It is the "raw document extractor"
// parsing.ContentBlock's doc comment calls an external collaborator:
// nothing in parsing/, cleaning/, chunker/, ner/, vectorindex/, graph/,
// timeline/, or rag/ imports this package. It exists so the pipeline
// can be exercised end-to-end against a real file instead of only
// against hand-built ContentBlocks, via cmd/extract-demo.
package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/evidencegraph/forensic/parser"
	"github.com/evidencegraph/forensic/parsing"
)

// nativeConfidence is assigned to blocks produced by a format's native
// parser (PDF text layer, DOCX/XLSX/PPTX XML). visionConfidence is
// assigned when the parser fell back to image-based extraction, which
// carries higher uncertainty about the recovered text.
const (
	nativeConfidence = 1.0
	visionConfidence = 0.75
)

// ToDocument runs the registered parser for path's extension and
// flattens its section tree into a flat ContentBlock list: one block
// for every section with non-blank content, parents before their
// children, in document order.
func ToDocument(ctx context.Context, reg *parser.Registry, path, caseID, documentID string) (parsing.Document, error) {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	p, err := reg.Get(format)
	if err != nil {
		return parsing.Document{}, fmt.Errorf("extract: %w", err)
	}

	result, err := p.Parse(ctx, path)
	if err != nil {
		return parsing.Document{}, fmt.Errorf("extract: parsing %s: %w", path, err)
	}

	confidence := nativeConfidence
	if result.Method == "vision" {
		confidence = visionConfidence
	}

	var blocks []parsing.ContentBlock
	counter := 0
	var walk func(sections []parser.Section)
	walk = func(sections []parser.Section) {
		for _, s := range sections {
			if strings.TrimSpace(s.Content) != "" {
				counter++
				blocks = append(blocks, parsing.ContentBlock{
					BlockID:    documentID + "-b" + strconv.Itoa(counter),
					Page:       s.PageNumber,
					Text:       sectionText(s),
					Confidence: confidence,
				})
			}
			if len(s.Children) > 0 {
				walk(s.Children)
			}
		}
	}
	walk(result.Sections)

	return parsing.Document{
		DocumentID: documentID,
		CaseID:     caseID,
		SourceFile: path,
		Blocks:     blocks,
	}, nil
}

// sectionText prepends a section's heading to its content, separated
// by a newline, so a titled paragraph or table caption stays in the
// same block as its body.
func sectionText(s parser.Section) string {
	if s.Heading == "" {
		return s.Content
	}
	return s.Heading + "\n" + s.Content
}
