package parsing

import (
	"regexp"
	"strings"
)

var pageNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*page\s+\d+\s*(?:of|/)\s*\d+\s*$`),
	regexp.MustCompile(`^\s*[-—]+\s*\d+\s*[-—]+\s*$`),
	regexp.MustCompile(`^\s*\d+\s*$`),
	regexp.MustCompile(`(?i)^\s*[\[(]?\s*page\s*\d+\s*[\])]?\s*$`),
	regexp.MustCompile(`^\s*\d+\s*\|\s*.+$|^.+\s*\|\s*\d+\s*$`),
}

// headerFooterFlags reports is_header/is_footer for one block.
type headerFooterFlags struct {
	isHeader bool
	isFooter bool
}

// normalizeForComparison lowercases and collapses whitespace so minor
// rendering variations still match as the same repeated text.
func normalizeForComparison(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

func isPageNumber(text string) bool {
	stripped := strings.TrimSpace(text)
	if stripped == "" {
		return false
	}
	for _, p := range pageNumberPatterns {
		if p.MatchString(stripped) {
			return true
		}
	}
	return false
}

func isShortRepeatedCandidate(text string) bool {
	return len(strings.TrimSpace(text)) <= 100
}

// detectHeadersFooters tags every block as header/footer/neither using
// three rules: page-number patterns, text repeated across at least
// minPageRepetition distinct pages, and within-page position (first
// block on a page is a header, last is a footer, conservative default
// for everything else repeated is header).
func detectHeadersFooters(blocks []ContentBlock, minPageRepetition int) map[string]headerFooterFlags {
	results := make(map[string]headerFooterFlags, len(blocks))
	if len(blocks) == 0 {
		return results
	}

	blocksByPage := make(map[int][]ContentBlock)
	var pageOrder []int
	for _, b := range blocks {
		if _, ok := blocksByPage[b.Page]; !ok {
			pageOrder = append(pageOrder, b.Page)
		}
		blocksByPage[b.Page] = append(blocksByPage[b.Page], b)
	}

	textPages := make(map[string]map[int]bool)
	for _, b := range blocks {
		if !isShortRepeatedCandidate(b.Text) {
			continue
		}
		normalized := normalizeForComparison(b.Text)
		if normalized == "" {
			continue
		}
		if textPages[normalized] == nil {
			textPages[normalized] = make(map[int]bool)
		}
		textPages[normalized][b.Page] = true
	}

	repeated := make(map[string]bool)
	for text, pages := range textPages {
		if len(pages) >= minPageRepetition {
			repeated[text] = true
		}
	}

	for _, page := range pageOrder {
		pageBlocks := blocksByPage[page]
		for idx, b := range pageBlocks {
			var flags headerFooterFlags
			normalized := normalizeForComparison(b.Text)

			switch {
			case isPageNumber(b.Text):
				flags.isFooter = true
			case repeated[normalized]:
				switch {
				case idx == 0:
					flags.isHeader = true
				case idx == len(pageBlocks)-1:
					flags.isFooter = true
				default:
					flags.isHeader = true
				}
			}

			results[b.BlockID] = flags
		}
	}

	return results
}
