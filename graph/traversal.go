package graph

import "context"

// TraversalResult is the set of nodes reachable from a seed set within
// the configured hop limit, and the chunk IDs that back them.
type TraversalResult struct {
	NodeIDs  []string
	ChunkIDs []string
}

// Traverse performs a breadth-first walk over a case's graph starting
// from seedNodeIDs, following edges in either direction up to maxDepth
// hops.
func Traverse(ctx context.Context, s Store, caseID string, seedNodeIDs []string, maxDepth int) (*TraversalResult, error) {
	if len(seedNodeIDs) == 0 || maxDepth < 0 {
		return &TraversalResult{}, nil
	}

	edges, err := s.EdgesByCase(ctx, caseID)
	if err != nil {
		return nil, err
	}

	neighbors := make(map[string][]string)
	for _, e := range edges {
		neighbors[e.FromNode] = append(neighbors[e.FromNode], e.ToNode)
		neighbors[e.ToNode] = append(neighbors[e.ToNode], e.FromNode)
	}

	visited := make(map[string]bool)
	queue := make([]string, 0, len(seedNodeIDs))
	for _, id := range seedNodeIDs {
		if !visited[id] {
			visited[id] = true
			queue = append(queue, id)
		}
	}

	for depth := 0; depth < maxDepth && len(queue) > 0; depth++ {
		var next []string
		for _, id := range queue {
			for _, n := range neighbors[id] {
				if !visited[n] {
					visited[n] = true
					next = append(next, n)
				}
			}
		}
		queue = next
	}

	nodeIDs := make([]string, 0, len(visited))
	for id := range visited {
		nodeIDs = append(nodeIDs, id)
	}

	chunkIDs, err := chunkIDsForNodes(ctx, s, caseID, nodeIDs)
	if err != nil {
		return nil, err
	}

	return &TraversalResult{NodeIDs: nodeIDs, ChunkIDs: chunkIDs}, nil
}

// chunkIDsForNodes resolves the source chunk IDs recorded in each
// visited node's provenance.
func chunkIDsForNodes(ctx context.Context, s Store, caseID string, nodeIDs []string) ([]string, error) {
	want := make(map[string]bool, len(nodeIDs))
	for _, id := range nodeIDs {
		want[id] = true
	}

	nodes, err := s.NodesByCase(ctx, caseID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var chunkIDs []string
	for _, n := range nodes {
		if !want[n.NodeID] {
			continue
		}
		if seen[n.Provenance.SourceChunkID] {
			continue
		}
		seen[n.Provenance.SourceChunkID] = true
		chunkIDs = append(chunkIDs, n.Provenance.SourceChunkID)
	}
	return chunkIDs, nil
}
