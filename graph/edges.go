package graph

import (
	"regexp"
	"strings"

	"github.com/evidencegraph/forensic/chunker"
	"github.com/evidencegraph/forensic/ner"
)

var (
	arguedWithRe   = regexp.MustCompile(`(?i)(\w+(?:\s+\w+)?)\s+(?:argued|fought|quarreled|had an?\s+argument)\s+with\s+(\w+(?:\s+\w+)?)`)
	witnessVerbRe  = regexp.MustCompile(`(?i)\b(?:saw|witnessed|observed|noticed|watched)\b`)
	foundPatternRe = regexp.MustCompile(`(?i)\b(?:found|located|discovered)\s+(?:at|in|near)\b`)
	accompaniedRe  = regexp.MustCompile(`(?i)(\w+(?:\s+\w+)?)\s+(?:with|accompanied by|together with)\s+(\w+(?:\s+\w+)?)`)
	possessionRes  = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:his|her|their|my)\s+\w+`),
		regexp.MustCompile(`(?i)\b(?:owned by|belongs? to|possession of)\b`),
	}
)

func categorize(entities []ner.ExtractedEntity, chunkID string) (persons, evidence, locations, events []ner.ExtractedEntity) {
	for _, e := range entities {
		if e.ChunkID != chunkID {
			continue
		}
		switch strings.ToUpper(string(e.EntityType)) {
		case "PERSON", "WITNESS", "SUSPECT":
			persons = append(persons, e)
		case "EVIDENCE", "WEAPON", "PHONE":
			evidence = append(evidence, e)
		case "LOCATION", "ADDRESS":
			locations = append(locations, e)
		case "TIME":
			events = append(events, e)
		}
	}
	return
}

func matchEntity(fragment string, pool []ner.ExtractedEntity) (ner.ExtractedEntity, bool) {
	fragment = strings.ToLower(strings.TrimSpace(fragment))
	for _, e := range pool {
		text := strings.ToLower(e.Text)
		if strings.Contains(fragment, text) || strings.Contains(text, fragment) {
			return e, true
		}
	}
	return ner.ExtractedEntity{}, false
}

func makeEdge(edgeType EdgeType, from, to ner.ExtractedEntity, c chunker.Chunk) (GraphEdge, bool) {
	fromType, ok := NodeTypeForEntity(string(from.EntityType))
	if !ok {
		return GraphEdge{}, false
	}
	toType, ok := NodeTypeForEntity(string(to.EntityType))
	if !ok {
		return GraphEdge{}, false
	}
	return GraphEdge{
		EdgeType: edgeType,
		FromNode: GenerateNodeID(fromType, from.Text, from.CaseID),
		ToNode:   GenerateNodeID(toType, to.Text, to.CaseID),
		CaseID:   from.CaseID,
		Provenance: Provenance{
			SourceChunkID: c.ChunkID,
			DocumentID:    c.DocumentID,
			PageRange:     c.PageRange,
			Confidence:    c.ChunkConfidence,
		},
	}, true
}

func extractArguedWithEdges(text string, persons []ner.ExtractedEntity, c chunker.Chunk) []GraphEdge {
	if len(persons) < 2 {
		return nil
	}
	var edges []GraphEdge
	for _, m := range arguedWithRe.FindAllStringSubmatch(strings.ToLower(text), -1) {
		from, ok1 := matchEntity(m[1], persons)
		to, ok2 := matchEntity(m[2], persons)
		if !ok1 || !ok2 || from.Text == to.Text {
			continue
		}
		if edge, ok := makeEdge(EdgeArguedWith, from, to, c); ok {
			edges = append(edges, edge)
		}
	}
	return edges
}

func extractWitnessedEdges(text string, persons, events []ner.ExtractedEntity, c chunker.Chunk) []GraphEdge {
	if len(persons) == 0 || !witnessVerbRe.MatchString(text) {
		return nil
	}
	var edges []GraphEdge
	for _, person := range persons {
		for _, event := range events {
			if edge, ok := makeEdge(EdgeWitnessed, person, event, c); ok {
				edges = append(edges, edge)
			}
		}
	}
	return edges
}

func extractFoundInEdges(text string, evidence, locations []ner.ExtractedEntity, c chunker.Chunk) []GraphEdge {
	if len(evidence) == 0 || len(locations) == 0 || !foundPatternRe.MatchString(text) {
		return nil
	}
	var edges []GraphEdge
	for _, ev := range evidence {
		for _, loc := range locations {
			if edge, ok := makeEdge(EdgeFoundIn, ev, loc, c); ok {
				edges = append(edges, edge)
			}
		}
	}
	return edges
}

func extractAccompaniedByEdges(text string, persons []ner.ExtractedEntity, c chunker.Chunk) []GraphEdge {
	if len(persons) < 2 {
		return nil
	}
	var edges []GraphEdge
	for _, m := range accompaniedRe.FindAllStringSubmatch(strings.ToLower(text), -1) {
		from, ok1 := matchEntity(m[1], persons)
		to, ok2 := matchEntity(m[2], persons)
		if !ok1 || !ok2 || from.Text == to.Text {
			continue
		}
		if edge, ok := makeEdge(EdgeAccompaniedBy, from, to, c); ok {
			edges = append(edges, edge)
		}
	}
	return edges
}

// extractOwnsEdges deliberately over-generates: any possession phrase
// in the chunk connects its FIRST person entity to every evidence item
// present, exactly matching the source heuristic's behavior rather
// than attempting pronoun resolution.
func extractOwnsEdges(text string, persons, evidence []ner.ExtractedEntity, c chunker.Chunk) []GraphEdge {
	if len(persons) == 0 || len(evidence) == 0 {
		return nil
	}
	hasPossession := false
	lower := strings.ToLower(text)
	for _, re := range possessionRes {
		if re.MatchString(lower) {
			hasPossession = true
			break
		}
	}
	if !hasPossession {
		return nil
	}

	var edges []GraphEdge
	person := persons[0]
	for _, ev := range evidence {
		if edge, ok := makeEdge(EdgeOwns, person, ev, c); ok {
			edges = append(edges, edge)
		}
	}
	return edges
}

// ExtractEdgesFromChunk detects every edge type present in one chunk's
// text, using only the entities extracted from that same chunk.
func ExtractEdgesFromChunk(c chunker.Chunk, entities []ner.ExtractedEntity) []GraphEdge {
	persons, evidence, locations, events := categorize(entities, c.ChunkID)

	var edges []GraphEdge
	edges = append(edges, extractArguedWithEdges(c.Text, persons, c)...)
	edges = append(edges, extractWitnessedEdges(c.Text, persons, events, c)...)
	edges = append(edges, extractFoundInEdges(c.Text, evidence, locations, c)...)
	edges = append(edges, extractAccompaniedByEdges(c.Text, persons, c)...)
	edges = append(edges, extractOwnsEdges(c.Text, persons, evidence, c)...)
	return edges
}

// BuildEdges extracts every chunk's edges and deduplicates by
// (from_node, to_node, edge_type).
func BuildEdges(chunks []chunker.Chunk, entities []ner.ExtractedEntity) []GraphEdge {
	type key struct {
		from, to string
		t        EdgeType
	}
	seen := make(map[key]bool)
	var edges []GraphEdge

	for _, c := range chunks {
		for _, e := range ExtractEdgesFromChunk(c, entities) {
			k := key{e.FromNode, e.ToNode, e.EdgeType}
			if seen[k] {
				continue
			}
			seen[k] = true
			edges = append(edges, e)
		}
	}
	return edges
}
