package chunker

// boundaryKey identifies the (page, speaker) group a block belongs to.
// Chunks never cross a page and never mix speakers.
type boundaryKey struct {
	page    int
	speaker string // empty string stands in for "no speaker"
}

func keyOf(b BlockInput) boundaryKey {
	speaker := ""
	if b.Speaker != nil {
		speaker = *b.Speaker
	}
	return boundaryKey{page: b.Page, speaker: speaker}
}

// group is one (page, speaker) boundary group, in first-appearance order.
type group struct {
	key    boundaryKey
	blocks []BlockInput
}

// groupByBoundary groups blocks by (page, speaker), in order of first
// appearance. A key that recurs non-contiguously later in the input
// still folds into its original group — this mirrors the reference
// chunker's dict-keyed grouping exactly, rather than detecting
// contiguous runs.
func groupByBoundary(blocks []BlockInput) []group {
	if len(blocks) == 0 {
		return nil
	}

	index := make(map[boundaryKey]int)
	var groups []group

	for _, b := range blocks {
		k := keyOf(b)
		if i, ok := index[k]; ok {
			groups[i].blocks = append(groups[i].blocks, b)
			continue
		}
		index[k] = len(groups)
		groups = append(groups, group{key: k, blocks: []BlockInput{b}})
	}

	return groups
}
