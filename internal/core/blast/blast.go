// Package blast computes the blast radius of a change: every node within
// two undirected hops of a set of just-changed nodes, plus a need-to-know
// summary for the caller to surface.
package blast

import (
	"fmt"
	"strings"

	"github.com/kineticlabs/kinetic/internal/core/model"
)

const maxDepth = 2

// Calculate runs a bounded BFS from each seed id over the undirected view
// of the edge set. Affected membership is decided purely by depth > 0 at
// time of visitation, so a node that is both a seed and a 2-hop neighbor of
// another seed is included, while a seed alone never appears in its own
// result. The affected set is shared across seeds; a node reachable from
// several seeds is counted once.
func Calculate(changedNodeIDs []string, allNodes []model.KnowledgeNode, allEdges []model.KnowledgeEdge) model.BlastRadiusResult {
	adj := make(map[string]map[string]bool)
	for _, e := range allEdges {
		if adj[e.SourceID] == nil {
			adj[e.SourceID] = make(map[string]bool)
		}
		if adj[e.TargetID] == nil {
			adj[e.TargetID] = make(map[string]bool)
		}
		adj[e.SourceID][e.TargetID] = true
		adj[e.TargetID][e.SourceID] = true
	}

	affected := make(map[string]bool)

	type frame struct {
		id    string
		depth int
	}
	// Traversals are independent per seed: the visited set resets, the
	// affected set accumulates.
	for _, startID := range changedNodeIDs {
		queue := []frame{{id: startID, depth: 0}}
		visited := map[string]bool{startID: true}

		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]

			if cur.depth > 0 {
				affected[cur.id] = true
			}
			if cur.depth >= maxDepth {
				continue
			}
			for neighbor := range adj[cur.id] {
				if !visited[neighbor] {
					visited[neighbor] = true
					queue = append(queue, frame{id: neighbor, depth: cur.depth + 1})
				}
			}
		}
	}

	var affectedNodes []model.KnowledgeNode
	var people, projects []string
	for _, n := range allNodes {
		if !affected[n.ID] {
			continue
		}
		affectedNodes = append(affectedNodes, n)
		switch n.Type {
		case model.NodePerson:
			people = append(people, n.Label)
		case model.NodeProject:
			projects = append(projects, n.Label)
		}
	}

	return model.BlastRadiusResult{
		AffectedNodes: affectedNodes,
		Summary:       summarize(len(affectedNodes), people, projects),
	}
}

func summarize(total int, people, projects []string) string {
	plural := "s"
	if total == 1 {
		plural = ""
	}
	summary := fmt.Sprintf("Blast radius: %d node%s affected.", total, plural)
	if len(people) > 0 {
		summary += fmt.Sprintf(" Need-to-know: %s.", strings.Join(people, ", "))
	}
	if len(projects) > 0 {
		summary += fmt.Sprintf(" Impacted projects: %s.", strings.Join(projects, ", "))
	}
	return summary
}
